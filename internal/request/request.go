// Package request turns the raw bytes read off a connection into a Request.
//
// Parsing never fails. Anything that cannot be understood falls back to a
// default request so the connection can still be answered.
package request

import (
	"io"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/transform"
)

const (
	// DefaultBufferSize bounds a single read from the connection.
	// Anything past it is dropped without error.
	DefaultBufferSize = 4096

	DefaultDocument = "index.html"
	ErrorDocument   = "error.html"

	defaultMethod = "GET"
	rootPath      = "/"
)

// Request is the only thing the server knows about an incoming request
type Request struct {
	Method string
	Path   string
}

// Parser holds the document names used when substituting paths
type Parser struct {
	// DefaultDocument replaces a request for "/"
	DefaultDocument string
	// ErrorDocument is requested when the buffer holds no line at all
	ErrorDocument string
}

// NewParser returns a parser using index.html and error.html
func NewParser() Parser {
	return Parser{
		DefaultDocument: DefaultDocument,
		ErrorDocument:   ErrorDocument,
	}
}

// Parse parses raw with the default document names
func Parse(raw []byte) *Request {
	return NewParser().Parse(raw)
}

// Parse extracts method and path from the first line of raw.
// Headers, query strings and escapes are left untouched.
func (p Parser) Parse(raw []byte) *Request {
	text := decode(raw)
	if text == "" {
		return &Request{Method: defaultMethod, Path: p.ErrorDocument}
	}

	line := text
	if i := strings.IndexByte(line, '\n'); i >= 0 {
		line = line[:i]
	}
	line = strings.TrimSuffix(line, "\r")

	method, path := defaultMethod, rootPath
	fields := strings.Fields(line)
	if len(fields) > 0 {
		method = fields[0]
	}
	if len(fields) > 1 {
		path = fields[1]
	}
	if path == rootPath {
		path = p.DefaultDocument
	}

	return &Request{Method: method, Path: path}
}

// decode returns raw as text, or "" if raw is not valid UTF-8
func decode(raw []byte) string {
	out, _, err := transform.Bytes(encoding.UTF8Validator, raw)
	if err != nil {
		return ""
	}
	return string(out)
}

// Read performs one read of at most size bytes from r.
// The bytes read so far are returned even when err is non-nil.
func Read(r io.Reader, size int) ([]byte, error) {
	if size <= 0 {
		size = DefaultBufferSize
	}
	buf := make([]byte, size)
	n, err := r.Read(buf)
	if err == io.EOF && n > 0 {
		err = nil
	}
	return buf[:n], err
}
