package main

import (
	"flag"
	"fmt"
	"net"
	"os"

	"rstp/internal/request"
)

var port = flag.String("port", "42069", "port to listen on")

// Prints what the file server would make of each incoming request, without
// answering it.
func main() {
	flag.Parse()

	ln, err := net.Listen("tcp", "127.0.0.1:"+*port)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to listen: %v\n", err)
		os.Exit(1)
	}
	defer ln.Close()
	fmt.Println("Listening on", ln.Addr())

	for {
		conn, err := ln.Accept()
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to accept connection: %v\n", err)
			continue
		}
		fmt.Println("Connection accepted")

		go func(c net.Conn) {
			defer c.Close()

			raw, err := request.Read(c, request.DefaultBufferSize)
			if err != nil {
				fmt.Printf("Error reading request: %v\n", err)
			}
			req := request.Parse(raw)
			fmt.Printf("Raw (%d bytes): %q\n", len(raw), raw)
			fmt.Println("Request:")
			fmt.Printf("- Method: %s\n", req.Method)
			fmt.Printf("- Path: %s\n", req.Path)

			fmt.Println("Connection closed")
		}(conn)
	}
}
