// Package report carries per-connection diagnostics out of the server.
//
// Nothing reported here affects what is written to the client.
package report

import (
	"fmt"
	"io"
	"sync"

	"github.com/fatih/color"
)

// PeerUnavailable stands in for a remote address that could not be read
const PeerUnavailable = "unavailable"

// Kind identifies an event
type Kind int

const (
	Listening Kind = iota
	Connection
	Resolved
	AcceptFailed
	ReadFailed
	WriteFailed
	Stopped
)

// Event is a single diagnostic. Only the fields relevant to Kind are set.
type Event struct {
	Kind Kind

	Addr   string
	Peer   string
	Method string
	Path   string

	ResolvedPath string
	MIME         string
	Tier         string

	Err error
}

// Reporter receives diagnostics from the server and handlers
type Reporter interface {
	Report(Event)
}

// Func adapts a plain function to Reporter
type Func func(Event)

// Report calls f(e)
func (f Func) Report(e Event) {
	f(e)
}

// Discard drops every event
var Discard Reporter = Func(func(Event) {})

// Console prints colored, human readable diagnostics.
// Resolution details are only printed when verbose is set.
type Console struct {
	mu      sync.Mutex
	out     io.Writer
	verbose bool

	label   *color.Color
	value   *color.Color
	failure *color.Color
}

// NewConsole returns a Console writing to out
func NewConsole(out io.Writer, verbose bool) *Console {
	return &Console{
		out:     out,
		verbose: verbose,
		label:   color.RGB(255, 242, 102),
		value:   color.RGB(250, 246, 202),
		failure: color.New(color.FgRed, color.Bold),
	}
}

// Verbose reports whether resolution details are printed
func (c *Console) Verbose() bool {
	return c.verbose
}

// DisableColor turns off escape sequences regardless of the terminal
func (c *Console) DisableColor() {
	c.label.DisableColor()
	c.value.DisableColor()
	c.failure.DisableColor()
}

// Report writes e to the console
func (c *Console) Report(e Event) {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch e.Kind {
	case Listening:
		c.label.Fprint(c.out, "running server on: ")
		c.value.Fprint(c.out, e.Addr)
		fmt.Fprintln(c.out)
		fmt.Fprintln(c.out)
	case Connection:
		c.label.Fprintln(c.out, "Received Connection:")
		c.field("Peer:", e.Peer)
		c.field("Method:", e.Method)
		c.field("Requested File:", e.Path)
	case Resolved:
		if c.verbose {
			c.field("Resolved File:", e.ResolvedPath)
			c.field("MIME Type:", e.MIME)
			c.field("Served From:", e.Tier)
		}
		fmt.Fprintln(c.out)
	case AcceptFailed:
		c.fail("Encountered an error while accepting a connection", e.Err)
	case ReadFailed:
		c.fail("Encountered an error while reading from "+peerOrUnavailable(e.Peer), e.Err)
	case WriteFailed:
		c.fail("Encountered an error while writing to "+peerOrUnavailable(e.Peer), e.Err)
	case Stopped:
		c.label.Fprintln(c.out, "server stopped")
	}
}

func (c *Console) field(name, val string) {
	c.label.Fprint(c.out, name+" ")
	c.value.Fprintln(c.out, val)
}

func (c *Console) fail(msg string, err error) {
	if err != nil {
		c.failure.Fprintf(c.out, "%s: %v\n", msg, err)
		return
	}
	c.failure.Fprintln(c.out, msg)
}

func peerOrUnavailable(peer string) string {
	if peer == "" {
		return PeerUnavailable
	}
	return peer
}
