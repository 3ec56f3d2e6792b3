package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"log"
	"net"
	"os"
	"strings"
)

var addr = flag.String("addr", "127.0.0.1:42069", "server address")

// buildRequest joins typed lines with CRLF and ends the header block
func buildRequest(lines []string) string {
	var b strings.Builder
	for _, l := range lines {
		b.WriteString(strings.TrimRight(l, "\r\n"))
		b.WriteString("\r\n")
	}
	b.WriteString("\r\n")
	return b.String()
}

func send(address, raw string, out io.Writer) error {
	conn, err := net.Dial("tcp", address)
	if err != nil {
		return fmt.Errorf("failed to dial %s: %w", address, err)
	}
	defer conn.Close()

	if _, err := io.WriteString(conn, raw); err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	if _, err := io.Copy(out, conn); err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}
	return nil
}

// Reads request lines from stdin. An empty line sends what was typed so far
// as one request on a fresh connection and prints the raw response.
func main() {
	flag.Parse()

	reader := bufio.NewReader(os.Stdin)
	fmt.Printf("Sending to %s. Type a request, finish with an empty line.\n", *addr)

	var lines []string
	for {
		if len(lines) == 0 {
			fmt.Print("> ")
		}

		line, err := reader.ReadString('\n')
		if err == io.EOF {
			return
		}
		if err != nil {
			log.Printf("error reading input: %v", err)
			continue
		}

		if strings.TrimSpace(line) != "" {
			lines = append(lines, line)
			continue
		}

		if err := send(*addr, buildRequest(lines), os.Stdout); err != nil {
			log.Printf("%v", err)
		}
		fmt.Println()
		lines = lines[:0]
	}
}
