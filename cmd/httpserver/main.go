package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"rstp/internal/config"
	"rstp/internal/fileserver"
	"rstp/internal/report"
	"rstp/internal/request"
	"rstp/internal/resolver"
	"rstp/internal/server"
)

const usage = `rstp | a simple HTTP file server

usage:

  httpserver <port> [-v|--verbose] [-c|--config <file>]

Files are served from the working directory. A request for / serves
index.html, a missing file serves error.html.
`

var errUsage = errors.New("missing port")

// cliArgs is what the command line says; the config file fills in the rest
type cliArgs struct {
	port       string
	verbose    bool
	configPath string
}

// parseArgs accepts flags before or after the port
func parseArgs(args []string) (cliArgs, error) {
	var a cliArgs

	fs := flag.NewFlagSet("httpserver", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.BoolVar(&a.verbose, "v", false, "print resolved file and MIME type")
	fs.BoolVar(&a.verbose, "verbose", false, "print resolved file and MIME type")
	fs.StringVar(&a.configPath, "c", "", "TOML or YAML config file")
	fs.StringVar(&a.configPath, "config", "", "TOML or YAML config file")

	var positional []string
	for {
		if err := fs.Parse(args); err != nil {
			return a, err
		}
		if fs.NArg() == 0 {
			break
		}
		positional = append(positional, fs.Arg(0))
		args = fs.Args()[1:]
	}

	if len(positional) < 1 {
		return a, errUsage
	}
	a.port = positional[0]
	return a, nil
}

// loadConfig layers the command line over the config file, if any
func loadConfig(a cliArgs) (config.Config, error) {
	cfg := config.Default()
	if a.configPath != "" {
		loaded, err := config.Load(a.configPath)
		if err != nil {
			return cfg, err
		}
		cfg = loaded
	}

	port, err := strconv.Atoi(a.port)
	if err != nil {
		return cfg, fmt.Errorf("invalid port %q: %w", a.port, err)
	}
	cfg.Port = port
	cfg.Verbose = cfg.Verbose || a.verbose
	return cfg, cfg.Validate()
}

func main() {
	args, err := parseArgs(os.Args[1:])
	if errors.Is(err, flag.ErrHelp) {
		fmt.Print(usage)
		return
	}
	if err != nil {
		if !errors.Is(err, errUsage) {
			fmt.Fprintln(os.Stderr, err)
		}
		fmt.Print(usage)
		os.Exit(1)
	}

	cfg, err := loadConfig(args)
	if err != nil {
		log.Fatalf("Error with server port or config: %v", err)
	}

	console := report.NewConsole(os.Stdout, cfg.Verbose)
	res := resolver.New(cfg.Root, cfg.ErrorDocument)

	server, err := server.Serve(cfg.Port, fileserver.NewHandler(res, console), server.Options{
		Parser: request.Parser{
			DefaultDocument: cfg.DefaultDocument,
			ErrorDocument:   cfg.ErrorDocument,
		},
		ReadBufferSize: cfg.ReadBufferSize,
		Concurrent:     cfg.Concurrent,
		Reporter:       console,
	})
	if err != nil {
		log.Fatalf("Error starting server: %v", err)
	}
	defer server.Close()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan
}
