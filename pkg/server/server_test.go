package server

import (
	"context"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/dynoviz/dynoplot/pkg/testutil"
)

func startTestServer(t *testing.T) *Server {
	t.Helper()

	d := testutil.MustGenerate(testutil.DefaultConfig())
	dir, err := testutil.WriteJSONDir(filepath.Join(t.TempDir(), d.ID), d)
	if err != nil {
		t.Fatal(err)
	}

	srv := New(dir, WithLogger(t.Logf))
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe(ctx, "") }()

	deadline := time.Now().Add(2 * time.Second)
	for srv.Addr() == "" {
		select {
		case err := <-errCh:
			t.Fatalf("server exited early: %v", err)
		default:
		}
		if time.Now().After(deadline) {
			t.Fatal("server did not start in time")
		}
		time.Sleep(10 * time.Millisecond)
	}
	return srv
}

func get(t *testing.T, srv *Server, path string) (*http.Response, string) {
	t.Helper()
	resp, err := http.Get("http://" + srv.Addr() + path)
	if err != nil {
		t.Fatalf("GET %s: %v", path, err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp, string(body)
}

func TestServerIndex(t *testing.T) {
	srv := startTestServer(t)

	resp, body := get(t, srv, "/")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("GET / status = %d, want 200", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "text/html; charset=utf-8" {
		t.Errorf("Content-Type = %q", ct)
	}
	if !strings.Contains(body, "TEST-1") {
		t.Error("index does not mention the dynophore id")
	}
	if !strings.Contains(body, "/plot/heatmap.svg") {
		t.Error("index does not link the heatmap")
	}
}

func TestServerPlots(t *testing.T) {
	srv := startTestServer(t)
	d := srv.current()
	name := d.Superfeatures[0].ID

	paths := []string{
		"/plot/heatmap.svg",
		"/plot/superfeatures.svg",
		"/plot/superfeatures.svg?mono=1&step=2",
		"/plot/occurrences.svg?name=" + urlEscape(name),
		"/plot/distances.svg?kind=hist&name=" + urlEscape(name),
		"/plot/interactions.svg?name=" + urlEscape(name),
	}
	for _, path := range paths {
		resp, body := get(t, srv, path)
		if resp.StatusCode != http.StatusOK {
			t.Errorf("GET %s status = %d: %s", path, resp.StatusCode, body)
			continue
		}
		if ct := resp.Header.Get("Content-Type"); ct != "image/svg+xml" {
			t.Errorf("GET %s Content-Type = %q", path, ct)
		}
		if !strings.Contains(body, "<svg") {
			t.Errorf("GET %s did not return SVG", path)
		}
	}
}

func TestServerErrors(t *testing.T) {
	srv := startTestServer(t)

	cases := []struct {
		path string
		want int
	}{
		{"/plot/nonsense.svg", http.StatusNotFound},
		{"/plot/occurrences.svg?name=NOPE[1]", http.StatusNotFound},
		{"/plot/distances.svg?kind=pie", http.StatusNotFound},
		{"/plot/superfeatures.svg?step=x", http.StatusBadRequest},
		{"/plot/interactions.svg", http.StatusBadRequest},
		{"/missing", http.StatusNotFound},
	}
	for _, tc := range cases {
		resp, _ := get(t, srv, tc.path)
		if resp.StatusCode != tc.want {
			t.Errorf("GET %s status = %d, want %d", tc.path, resp.StatusCode, tc.want)
		}
	}
}

func urlEscape(s string) string {
	r := strings.NewReplacer("[", "%5B", "]", "%5D", ",", "%2C")
	return r.Replace(s)
}
