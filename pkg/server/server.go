// Package server serves dynophore plots over HTTP as SVG, with an index
// page linking every available view. When watching is enabled the source
// directory is reloaded on change, so a running browser tab only needs a
// refresh to pick up new data.
package server

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"log"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/dynoviz/dynoplot/pkg/dyno"
	"github.com/dynoviz/dynoplot/pkg/loader"
	"github.com/dynoviz/dynoplot/pkg/metrics"
	"github.com/dynoviz/dynoplot/pkg/plot"
	"github.com/dynoviz/dynoplot/pkg/watcher"
)

// Server serves plot SVGs for a dynophore loaded from a path.
type Server struct {
	sourcePath string
	watch      bool

	mu         sync.Mutex
	dynophore  *dyno.Dynophore
	httpServer *http.Server
	listener   net.Listener
	addr       string

	logf func(format string, args ...any)
}

// Option configures a Server.
type Option func(*Server)

// WithWatch reloads the dynophore when the source path changes.
func WithWatch() Option {
	return func(s *Server) { s.watch = true }
}

// WithLogger routes server log lines to f instead of the standard logger.
func WithLogger(f func(format string, args ...any)) Option {
	return func(s *Server) { s.logf = f }
}

// New creates a server for the dynophore at sourcePath. The data is
// loaded on Start, not here.
func New(sourcePath string, opts ...Option) *Server {
	s := &Server{
		sourcePath: sourcePath,
		logf:       log.Printf,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Addr returns the address the server is listening on, empty before
// ListenAndServe has bound a port.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addr
}

func (s *Server) current() *dyno.Dynophore {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dynophore
}

func (s *Server) reload() error {
	d, err := loader.Load(s.sourcePath, loader.Options{
		WarningHandler: func(msg string) { s.logf("load: %s", msg) },
	})
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.dynophore = d
	s.mu.Unlock()
	return nil
}

// ListenAndServe loads the dynophore, binds addr and blocks until the
// context is cancelled. An empty addr picks a free localhost port.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	if err := s.reload(); err != nil {
		return fmt.Errorf("load %s: %w", s.sourcePath, err)
	}

	if s.watch {
		w, err := watcher.New(s.sourcePath,
			watcher.WithOnError(func(err error) { s.logf("watch: %v", err) }))
		if err != nil {
			return fmt.Errorf("watch %s: %w", s.sourcePath, err)
		}
		if err := w.Start(); err != nil {
			return fmt.Errorf("watch %s: %w", s.sourcePath, err)
		}
		defer w.Stop()
		go func() {
			for {
				select {
				case <-ctx.Done():
					return
				case <-w.Changed():
					if err := s.reload(); err != nil {
						s.logf("reload: %v", err)
						continue
					}
					s.logf("reloaded %s", s.sourcePath)
				}
			}
		}()
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleIndex)
	mux.HandleFunc("/plot/", s.handlePlot)

	if addr == "" {
		addr = "localhost:0"
	}
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen: %w", err)
	}

	s.mu.Lock()
	s.listener = ln
	s.addr = ln.Addr().String()
	s.httpServer = &http.Server{Handler: mux}
	s.mu.Unlock()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.httpServer.Shutdown(shutdownCtx)
	}()

	err = s.httpServer.Serve(ln)
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

var indexTemplate = template.Must(template.New("index").Parse(`<!DOCTYPE html>
<html>
<head><title>dynoplot: {{.ID}}</title>
<style>
body { font-family: sans-serif; margin: 2em; }
img { max-width: 100%; border: 1px solid #ddd; margin-bottom: 2em; }
</style>
</head>
<body>
<h1>{{.ID}}</h1>
<p>{{.NumSuperfeatures}} superfeatures, {{.NumFrames}} frames.</p>
<h2>Superfeature occurrences</h2>
<img src="/plot/superfeatures.svg" alt="superfeature occurrences">
<h2>Interaction heatmap</h2>
<img src="/plot/heatmap.svg" alt="interaction heatmap">
<h2>Per superfeature</h2>
{{range .Superfeatures}}
<h3>{{.ID}}</h3>
<ul>
<li><a href="/plot/occurrences.svg?name={{.ID}}">partner occurrences</a></li>
<li><a href="/plot/distances.svg?name={{.ID}}&kind=line">distance series</a></li>
<li><a href="/plot/distances.svg?name={{.ID}}&kind=hist">distance histograms</a></li>
<li><a href="/plot/interactions.svg?name={{.ID}}">interaction overview</a></li>
</ul>
{{end}}
</body>
</html>
`))

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	d := s.current()
	data := struct {
		ID               string
		NumSuperfeatures int
		NumFrames        int
		Superfeatures    []*dyno.SuperFeature
	}{d.ID, d.NumSuperfeatures(), d.NumFrames(), d.Superfeatures}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := indexTemplate.Execute(w, data); err != nil {
		s.logf("index: %v", err)
	}
}

// handlePlot renders /plot/<view>.svg. Views taking a superfeature use
// the name query parameter; distances.svg also takes kind=line|hist, and
// frame selection accepts start, end and step parameters.
func (s *Server) handlePlot(w http.ResponseWriter, r *http.Request) {
	defer metrics.Timer(metrics.ServeRender)()

	view := strings.TrimSuffix(strings.TrimPrefix(r.URL.Path, "/plot/"), ".svg")
	d := s.current()

	frames, err := frameSelection(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	names := r.URL.Query()["name"]

	var fig *plot.Figure
	switch view {
	case "heatmap":
		fig, _, err = plot.SuperfeaturesVsEnvPartners(d, names...)
	case "superfeatures":
		mono := r.URL.Query().Get("mono") == "1"
		fig, _, err = plot.SuperfeatureOccurrences(d, plot.BarcodeOptions{
			Names: names, Monochrome: mono, Frames: frames,
		})
	case "occurrences":
		fig, _, err = plot.EnvPartnerOccurrences(d, plot.OccurrenceOptions{
			Names: names, Frames: frames,
		})
	case "distances":
		kind := plot.Kind(r.URL.Query().Get("kind"))
		if kind == "" {
			kind = plot.KindLine
		}
		fig, _, err = plot.EnvPartnerDistances(d, kind, plot.DistanceOptions{
			Names: names, Frames: frames,
		})
	case "interactions":
		if len(names) != 1 {
			http.Error(w, "interactions.svg needs exactly one name parameter", http.StatusBadRequest)
			return
		}
		fig, _, err = plot.EnvPartnerInteractions(d, names[0], plot.OverviewOptions{Frames: frames})
	default:
		http.NotFound(w, r)
		return
	}
	if err != nil {
		status := http.StatusInternalServerError
		if isBadRequest(err) {
			status = http.StatusNotFound
		}
		http.Error(w, err.Error(), status)
		return
	}

	w.Header().Set("Content-Type", "image/svg+xml")
	if err := fig.WriteSVG(w); err != nil {
		s.logf("render %s: %v", view, err)
	}
}

func isBadRequest(err error) bool {
	return errors.Is(err, dyno.ErrUnknownSuperfeature) || errors.Is(err, plot.ErrUnknownKind)
}

func frameSelection(r *http.Request) (plot.FrameSelection, error) {
	sel := plot.AllFrames()
	q := r.URL.Query()
	for _, p := range []struct {
		key string
		dst *int
	}{
		{"start", &sel.Start},
		{"end", &sel.End},
		{"step", &sel.Step},
	} {
		raw := q.Get(p.key)
		if raw == "" {
			continue
		}
		v, err := strconv.Atoi(raw)
		if err != nil {
			return sel, fmt.Errorf("bad %s parameter %q", p.key, raw)
		}
		*p.dst = v
	}
	return sel, nil
}
