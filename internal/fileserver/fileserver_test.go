package fileserver

import (
	"bytes"
	"io"
	"net"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"
	"time"

	"golang.org/x/net/nettest"

	"rstp/internal/report"
	"rstp/internal/request"
	"rstp/internal/resolver"
	"rstp/internal/response"
	"rstp/internal/server"
)

func serveDir(t *testing.T, dir string, rep report.Reporter) string {
	t.Helper()
	ln, err := nettest.NewLocalListener("tcp")
	if err != nil {
		t.Fatalf("NewLocalListener() error = %v", err)
	}
	handler := NewHandler(resolver.New(dir, request.ErrorDocument), rep)
	s := server.New(ln, handler, server.Options{Reporter: rep})
	s.Start()
	t.Cleanup(func() { s.Close() })
	return s.Addr().String()
}

func exchange(t *testing.T, addr, raw string) string {
	t.Helper()
	conn, err := net.Dial("tcp", addr)
	if err != nil {
		t.Fatalf("Dial() error = %v", err)
	}
	defer conn.Close()
	conn.SetDeadline(time.Now().Add(5 * time.Second))

	if _, err := io.WriteString(conn, raw); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	resp, err := io.ReadAll(conn)
	if err != nil {
		t.Fatalf("ReadAll() error = %v", err)
	}
	return string(resp)
}

func writeFiles(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("MkdirAll() error = %v", err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatalf("WriteFile() error = %v", err)
		}
	}
	return dir
}

func TestServeFiles(t *testing.T) {
	tests := []struct {
		name  string
		files map[string]string
		raw   string
		want  string
	}{
		{
			name:  "Existing file",
			files: map[string]string{"index.html": "hello"},
			raw:   "GET /index.html HTTP/1.1\r\n\r\n",
			want:  "HTTP/1.1 200 OK\r\nContent-Type: text/html\r\nContent-Length: 5\r\n\r\nhello",
		},
		{
			name:  "Root serves default document",
			files: map[string]string{"index.html": "hello"},
			raw:   "GET / HTTP/1.1\r\nHost: localhost\r\n\r\n",
			want:  "HTTP/1.1 200 OK\r\nContent-Type: text/html\r\nContent-Length: 5\r\n\r\nhello",
		},
		{
			name:  "Missing file and no error document",
			files: map[string]string{"index.html": "hello"},
			raw:   "GET /missing.txt HTTP/1.1\r\n\r\n",
			want: "HTTP/1.1 200 OK\r\nContent-Type: text/html\r\nContent-Length: 42\r\n\r\n" +
				resolver.FallbackMessage,
		},
		{
			name:  "Missing file with error document",
			files: map[string]string{"error.html": "<p>gone</p>"},
			raw:   "GET /missing.txt HTTP/1.1\r\n\r\n",
			want:  "HTTP/1.1 200 OK\r\nContent-Type: text/html\r\nContent-Length: 11\r\n\r\n<p>gone</p>",
		},
		{
			name:  "Nested stylesheet",
			files: map[string]string{"css/site.css": "body{}"},
			raw:   "GET /css/site.css HTTP/1.1\r\n\r\n",
			want:  "HTTP/1.1 200 OK\r\nContent-Type: text/css\r\nContent-Length: 6\r\n\r\nbody{}",
		},
		{
			name:  "Method is ignored",
			files: map[string]string{"a.txt": "abc"},
			raw:   "DELETE /a.txt HTTP/1.1\r\n\r\n",
			want:  "HTTP/1.1 200 OK\r\nContent-Type: text/plain\r\nContent-Length: 3\r\n\r\nabc",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			addr := serveDir(t, writeFiles(t, tt.files), report.Discard)
			if got := exchange(t, addr, tt.raw); got != tt.want {
				t.Errorf("response = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestServeConsecutiveConnections(t *testing.T) {
	addr := serveDir(t, writeFiles(t, map[string]string{
		"index.html": "one",
		"two.html":   "two",
	}), report.Discard)

	for _, tc := range []struct{ raw, body string }{
		{"GET / HTTP/1.1\r\n\r\n", "one"},
		{"GET /two.html HTTP/1.1\r\n\r\n", "two"},
		{"GET / HTTP/1.1\r\n\r\n", "one"},
	} {
		got := exchange(t, addr, tc.raw)
		if !bytes.HasSuffix([]byte(got), []byte("\r\n\r\n"+tc.body)) {
			t.Errorf("response to %q = %q", tc.raw, got)
		}
	}
}

func TestHandlerReportsResolution(t *testing.T) {
	var events []report.Event
	rep := report.Func(func(e report.Event) { events = append(events, e) })

	res := &resolver.Resolver{
		Root:          fstest.MapFS{"error.html": {Data: []byte("x")}},
		ErrorDocument: "error.html",
	}
	var buf bytes.Buffer
	NewHandler(res, rep)(response.NewWriter(&buf), &request.Request{Method: "GET", Path: "/nope.png"})

	if len(events) != 1 {
		t.Fatalf("got %d events, want 1", len(events))
	}
	e := events[0]
	if e.Kind != report.Resolved {
		t.Errorf("Kind = %v, want Resolved", e.Kind)
	}
	if e.Path != "/nope.png" || e.ResolvedPath != "error.html" {
		t.Errorf("Path = %q, ResolvedPath = %q", e.Path, e.ResolvedPath)
	}
	if e.MIME != "text/html" || e.Tier != "error document" {
		t.Errorf("MIME = %q, Tier = %q", e.MIME, e.Tier)
	}

	want := "HTTP/1.1 200 OK\r\nContent-Type: text/html\r\nContent-Length: 1\r\n\r\nx"
	if buf.String() != want {
		t.Errorf("response = %q, want %q", buf.String(), want)
	}
}

func TestHandlerVerboseConsole(t *testing.T) {
	var out bytes.Buffer
	console := report.NewConsole(&out, true)
	console.DisableColor()

	res := &resolver.Resolver{Root: fstest.MapFS{}, ErrorDocument: "error.html"}
	var buf bytes.Buffer
	NewHandler(res, console)(response.NewWriter(&buf), &request.Request{Method: "GET", Path: "/x"})

	want := "Resolved File: error.html\nMIME Type: text/html\nServed From: fallback message\n\n"
	if out.String() != want {
		t.Errorf("console = %q, want %q", out.String(), want)
	}
}
