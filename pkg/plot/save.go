package plot

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Save writes the figure to path. The format follows the file
// extension: ".png" or ".svg", with ".svg" appended when the path has
// no extension. Parent directories are created as needed.
func (f *Figure) Save(path string) error {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == "" {
		ext = ".svg"
		path += ext
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create figure directory: %w", err)
		}
	}
	switch ext {
	case ".png":
		return f.renderPNG(path)
	case ".svg":
		return f.renderSVG(path)
	default:
		return fmt.Errorf("unsupported figure format %q (use .png or .svg)", ext)
	}
}
