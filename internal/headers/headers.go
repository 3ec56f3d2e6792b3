package headers

import (
	"fmt"
	"io"
	"strings"
)

// field keeps the name as it was first set so it is written back verbatim
type field struct {
	name  string
	value string
}

// Headers is an HTTP header block that remembers insertion order.
// Lookups are case-insensitive.
type Headers struct {
	fields []field
	index  map[string]int
}

// NewHeaders creates an empty header block
func NewHeaders() *Headers {
	return &Headers{index: make(map[string]int)}
}

// Get returns the value for key and whether it was present
func (h *Headers) Get(key string) (string, bool) {
	i, ok := h.index[strings.ToLower(key)]
	if !ok {
		return "", false
	}
	return h.fields[i].value, true
}

// Set adds a header. If the key already exists the values are joined with ", "
func (h *Headers) Set(key, value string) {
	lower := strings.ToLower(key)
	if i, ok := h.index[lower]; ok {
		h.fields[i].value = h.fields[i].value + ", " + value
		return
	}
	h.index[lower] = len(h.fields)
	h.fields = append(h.fields, field{name: key, value: value})
}

// Override replaces the value of key, keeping its original position
func (h *Headers) Override(key, value string) {
	lower := strings.ToLower(key)
	if i, ok := h.index[lower]; ok {
		h.fields[i].value = value
		return
	}
	h.Set(key, value)
}

// Len returns the number of distinct headers
func (h *Headers) Len() int {
	return len(h.fields)
}

// WriteTo writes every header as "Name: value\r\n" in insertion order.
// The blank line that ends the block is not written.
func (h *Headers) WriteTo(w io.Writer) (int64, error) {
	var total int64
	for _, f := range h.fields {
		n, err := fmt.Fprintf(w, "%s: %s\r\n", f.name, f.value)
		total += int64(n)
		if err != nil {
			return total, err
		}
	}
	return total, nil
}
