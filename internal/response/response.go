package response

import (
	"bytes"
	"fmt"
	"io"
	"strconv"

	"rstp/internal/headers"
)

// StatusCode represents an HTTP status code
type StatusCode int

// The file server only ever answers 200; the others are kept for the
// status line writer.
const (
	StatusOK                  StatusCode = 200
	StatusBadRequest          StatusCode = 400
	StatusNotFound            StatusCode = 404
	StatusInternalServerError StatusCode = 500
)

func reasonPhrase(statusCode StatusCode) string {
	switch statusCode {
	case StatusOK:
		return "OK"
	case StatusBadRequest:
		return "Bad Request"
	case StatusNotFound:
		return "Not Found"
	case StatusInternalServerError:
		return "Internal Server Error"
	default:
		return ""
	}
}

// WriteStatusLine writes the HTTP status line to the writer
func WriteStatusLine(w io.Writer, statusCode StatusCode) error {
	_, err := fmt.Fprintf(w, "HTTP/1.1 %d %s\r\n", int(statusCode), reasonPhrase(statusCode))
	return err
}

// GetDefaultHeaders returns Content-Type followed by Content-Length, the
// only headers a response carries.
func GetDefaultHeaders(mimeType string, contentLen int) *headers.Headers {
	h := headers.NewHeaders()
	h.Set("Content-Type", mimeType)
	h.Set("Content-Length", strconv.Itoa(contentLen))
	return h
}

// WriteHeaders writes the header block followed by the terminating blank line
func WriteHeaders(w io.Writer, h *headers.Headers) error {
	if _, err := h.WriteTo(w); err != nil {
		return err
	}
	_, err := io.WriteString(w, "\r\n")
	return err
}

// Serialize returns the complete response for body served as mimeType
func Serialize(mimeType string, body []byte) []byte {
	var buf bytes.Buffer
	buf.Grow(len(body) + 64)
	// bytes.Buffer writes cannot fail
	_ = Write(&buf, mimeType, body)
	return buf.Bytes()
}

// Write writes a 200 response for body to w
func Write(w io.Writer, mimeType string, body []byte) error {
	writer := NewWriter(w)
	if err := writer.WriteStatusLine(StatusOK); err != nil {
		return err
	}
	if err := writer.WriteHeaders(GetDefaultHeaders(mimeType, len(body))); err != nil {
		return err
	}
	_, err := writer.WriteBody(body)
	return err
}

// writerState tracks the state of the response writer
type writerState int

const (
	stateStart writerState = iota
	stateStatusWritten
	stateHeadersWritten
	stateBodyWritten
)

// Writer enforces status line, then headers, then body
type Writer struct {
	writer io.Writer
	state  writerState
}

// NewWriter creates a new response writer
func NewWriter(w io.Writer) *Writer {
	return &Writer{
		writer: w,
		state:  stateStart,
	}
}

// WriteStatusLine writes the HTTP status line
func (w *Writer) WriteStatusLine(statusCode StatusCode) error {
	if w.state != stateStart {
		return fmt.Errorf("status line must be written first")
	}

	err := WriteStatusLine(w.writer, statusCode)
	if err == nil {
		w.state = stateStatusWritten
	}
	return err
}

// WriteHeaders writes the HTTP headers
func (w *Writer) WriteHeaders(h *headers.Headers) error {
	if w.state != stateStatusWritten {
		return fmt.Errorf("headers must be written after status line and before body")
	}

	err := WriteHeaders(w.writer, h)
	if err == nil {
		w.state = stateHeadersWritten
	}
	return err
}

// WriteBody writes the response body. It may only be called once.
func (w *Writer) WriteBody(p []byte) (int, error) {
	if w.state != stateHeadersWritten {
		return 0, fmt.Errorf("body must be written after headers")
	}

	n, err := w.writer.Write(p)
	if err == nil {
		w.state = stateBodyWritten
	}
	return n, err
}

// Done reports whether a complete response has been written
func (w *Writer) Done() bool {
	return w.state == stateBodyWritten
}
