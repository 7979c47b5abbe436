//go:build !linux

package watcher

// DetectFilesystemType has no statfs-based detection outside linux;
// fsnotify is tried first and polling remains the fallback.
func DetectFilesystemType(path string) FilesystemType {
	return FSTypeUnknown
}
