package server

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"net"
	"sync/atomic"

	"rstp/internal/report"
	"rstp/internal/request"
	"rstp/internal/response"
)

// DefaultHost is the only interface the server binds to unless told otherwise
const DefaultHost = "127.0.0.1"

// Handler function type that processes HTTP requests
type Handler func(w *response.Writer, req *request.Request)

// Options tune how connections are read and dispatched
type Options struct {
	// Host to bind. Empty means DefaultHost.
	Host string
	// Parser turns the bytes of a connection into a request
	Parser request.Parser
	// ReadBufferSize bounds the single read per connection.
	// Zero means request.DefaultBufferSize.
	ReadBufferSize int
	// Concurrent serves each connection on its own goroutine. When false a
	// connection is fully answered before the next one is accepted.
	Concurrent bool
	// Reporter receives diagnostics. Nil means report.Discard.
	Reporter report.Reporter
}

// Server represents an HTTP server
type Server struct {
	listener   net.Listener
	handler    Handler
	parser     request.Parser
	bufferSize int
	concurrent bool
	reporter   report.Reporter
	closed     atomic.Bool
}

// Serve binds host:port and starts accepting in the background
func Serve(port int, handler Handler, opts Options) (*Server, error) {
	host := opts.Host
	if host == "" {
		host = DefaultHost
	}
	addr := net.JoinHostPort(host, fmt.Sprint(port))
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("failed to listen on %s: %w", addr, err)
	}

	server := New(listener, handler, opts)
	server.Start()
	return server, nil
}

// New wraps an existing listener. Call Start to begin accepting.
func New(listener net.Listener, handler Handler, opts Options) *Server {
	if opts.Parser == (request.Parser{}) {
		opts.Parser = request.NewParser()
	}
	if opts.ReadBufferSize <= 0 {
		opts.ReadBufferSize = request.DefaultBufferSize
	}
	if opts.Reporter == nil {
		opts.Reporter = report.Discard
	}
	return &Server{
		listener:   listener,
		handler:    handler,
		parser:     opts.Parser,
		bufferSize: opts.ReadBufferSize,
		concurrent: opts.Concurrent,
		reporter:   opts.Reporter,
	}
}

// Start runs the accept loop on a background goroutine
func (s *Server) Start() {
	s.reporter.Report(report.Event{Kind: report.Listening, Addr: s.Addr().String()})
	go s.listen()
}

// Addr returns the address the server is listening on
func (s *Server) Addr() net.Addr {
	return s.listener.Addr()
}

// Close stops the server and closes the listener.
// A connection already being handled is allowed to finish.
func (s *Server) Close() error {
	if s.closed.Swap(true) {
		return nil
	}
	err := s.listener.Close()
	s.reporter.Report(report.Event{Kind: report.Stopped})
	return err
}

// listen accepts incoming connections and handles them
func (s *Server) listen() {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			// If server is closed, ignore connection errors
			if s.closed.Load() || errors.Is(err, net.ErrClosed) {
				return
			}
			s.reporter.Report(report.Event{Kind: report.AcceptFailed, Err: err})
			continue
		}

		if s.concurrent {
			go s.handle(conn)
			continue
		}
		s.handle(conn)
	}
}

// handle processes a single connection: read, parse, dispatch, flush, close
func (s *Server) handle(conn net.Conn) {
	defer conn.Close()

	peer := peerAddr(conn)

	raw, err := request.Read(conn, s.bufferSize)
	if err != nil && err != io.EOF {
		s.reporter.Report(report.Event{Kind: report.ReadFailed, Peer: peer, Err: err})
	}

	req := s.parser.Parse(raw)
	s.reporter.Report(report.Event{
		Kind:   report.Connection,
		Peer:   peer,
		Method: req.Method,
		Path:   req.Path,
	})

	buffered := bufio.NewWriter(conn)
	s.handler(response.NewWriter(buffered), req)
	if err := buffered.Flush(); err != nil {
		s.reporter.Report(report.Event{Kind: report.WriteFailed, Peer: peer, Err: err})
	}
}

func peerAddr(conn net.Conn) string {
	addr := conn.RemoteAddr()
	if addr == nil {
		return report.PeerUnavailable
	}
	return addr.String()
}
