// Package resolver maps a request path to the bytes and content type to send.
package resolver

import (
	"io/fs"
	"os"
	"strings"
)

// FallbackMessage is served when neither the requested file nor the
// error document can be read.
const FallbackMessage = "There was an error processing your request"

// Tier records which step of the fallback chain produced a result
type Tier int

const (
	TierRequested Tier = iota
	TierErrorDocument
	TierFallbackMessage
)

func (t Tier) String() string {
	switch t {
	case TierRequested:
		return "requested"
	case TierErrorDocument:
		return "error document"
	case TierFallbackMessage:
		return "fallback message"
	default:
		return "unknown"
	}
}

// Resolved is what gets written back for a request
type Resolved struct {
	Path    string
	Content []byte
	MIME    string
	Tier    Tier
}

// Resolver reads files from Root. It keeps no state between calls.
type Resolver struct {
	Root          fs.FS
	ErrorDocument string
}

// New returns a resolver reading from dir on disk
func New(dir, errorDocument string) *Resolver {
	return &Resolver{
		Root:          os.DirFS(dir),
		ErrorDocument: errorDocument,
	}
}

// Resolve reads path, falling back to the error document and then to
// FallbackMessage. Every failure is absorbed; there is no error result.
func (r *Resolver) Resolve(path string) Resolved {
	if content, err := r.read(path); err == nil {
		return Resolved{
			Path:    path,
			Content: content,
			MIME:    TypeByPath(path),
			Tier:    TierRequested,
		}
	}

	res := Resolved{
		Path: r.ErrorDocument,
		MIME: TypeByPath(r.ErrorDocument),
	}
	if content, err := r.read(r.ErrorDocument); err == nil {
		res.Content = content
		res.Tier = TierErrorDocument
		return res
	}

	res.Content = []byte(FallbackMessage)
	res.Tier = TierFallbackMessage
	return res
}

func (r *Resolver) read(path string) ([]byte, error) {
	name := strings.TrimPrefix(path, "/")
	if !fs.ValidPath(name) {
		return nil, &fs.PathError{Op: "read", Path: path, Err: fs.ErrInvalid}
	}
	return fs.ReadFile(r.Root, name)
}
