package mcp

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"tableflip.dev/journal/pkg/app"
	"tableflip.dev/journal/pkg/recap"
)

// Transport selects how the server is exposed.
type Transport string

const (
	TransportHTTP  Transport = "http"
	TransportStdio Transport = "stdio"
)

// ParseTransport accepts http or stdio in any case; empty means http.
func ParseTransport(s string) (Transport, error) {
	switch t := Transport(strings.ToLower(strings.TrimSpace(s))); t {
	case "":
		return TransportHTTP, nil
	case TransportHTTP, TransportStdio:
		return t, nil
	}
	return "", fmt.Errorf("unsupported transport %q, want http or stdio", s)
}

// HTTP configures the streamable HTTP transport.
type HTTP struct {
	// Addr is host:port; port 0 picks a free one.
	Addr string
	Path string
	// CertFile and KeyFile switch to HTTPS; both or neither.
	CertFile string
	KeyFile  string
}

func (h HTTP) path() string {
	p := strings.TrimSpace(h.Path)
	if p == "" {
		return "/mcp"
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return p
}

func (h HTTP) tls() (bool, error) {
	switch {
	case h.CertFile == "" && h.KeyFile == "":
		return false, nil
	case h.CertFile == "" || h.KeyFile == "":
		return false, errors.New("mcp: https needs both a certificate and a key")
	}
	return true, nil
}

// URL is where clients reach a server listening on addr. Wildcard hosts are
// shown as loopback.
func (h HTTP) URL(addr net.Addr) string {
	scheme := "http"
	if secure, _ := h.tls(); secure {
		scheme = "https"
	}
	host, port := "127.0.0.1", ""
	if tcp, ok := addr.(*net.TCPAddr); ok {
		port = fmt.Sprint(tcp.Port)
		if tcp.IP != nil && !tcp.IP.IsUnspecified() {
			host = tcp.IP.String()
		}
	} else if hp, p, err := net.SplitHostPort(addr.String()); err == nil {
		host, port = hp, p
	}
	return scheme + "://" + net.JoinHostPort(host, port) + h.path()
}

// Runner serves the journal over the Model Context Protocol until ctx ends.
type Runner struct {
	App     *app.Service
	Recap   *recap.Builder
	Name    string
	Version string

	Transport Transport
	HTTP      HTTP
	// Listening is told the endpoint URL once the HTTP listener is up.
	Listening func(url string)
}

func (r Runner) server() *server.MCPServer {
	name, version := r.Name, r.Version
	if name == "" {
		name = "journal"
	}
	if version == "" {
		version = "dev"
	}
	srv := server.NewMCPServer(
		name+" MCP",
		version,
		server.WithResourceCapabilities(false, false),
		server.WithToolCapabilities(false),
		server.WithInstructions("Read and write a mood journal: entries, habit goals with daily check-ins, and location tracked journeys."),
		server.WithResourceRecovery(),
		server.WithRecovery(),
	)
	svc := NewService(r.App, r.Recap)
	registerResources(srv, svc)
	registerTools(srv, svc)
	return srv
}

func (r Runner) Do(ctx context.Context) error {
	if r.App == nil {
		return errors.New("mcp: no journal service")
	}
	srv := r.server()

	zap.S().Infow("mcp server starting", "transport", string(r.Transport))
	switch r.Transport {
	case "", TransportHTTP:
		return r.serveHTTP(ctx, srv)
	case TransportStdio:
		return server.NewStdioServer(srv).Listen(ctx, os.Stdin, os.Stdout)
	}
	return fmt.Errorf("mcp: unknown transport %q", r.Transport)
}

func (r Runner) serveHTTP(ctx context.Context, srv *server.MCPServer) error {
	secure, err := r.HTTP.tls()
	if err != nil {
		return err
	}
	addr := r.HTTP.Addr
	if addr == "" {
		addr = "127.0.0.1:8080"
	}

	mux := http.NewServeMux()
	mux.Handle(r.HTTP.path(), server.NewStreamableHTTPServer(srv))
	hs := &http.Server{Handler: mux, ReadHeaderTimeout: 10 * time.Second}

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("mcp: listen %s: %w", addr, err)
	}
	url := r.HTTP.URL(ln.Addr())
	zap.S().Infow("mcp server listening", "url", url)
	if r.Listening != nil {
		r.Listening(url)
	}

	stop := context.AfterFunc(ctx, func() {
		shutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := hs.Shutdown(shutdown); err != nil {
			zap.S().Warnw("mcp shutdown", "error", err)
		}
	})
	defer stop()

	if secure {
		err = hs.ServeTLS(ln, r.HTTP.CertFile, r.HTTP.KeyFile)
	} else {
		err = hs.Serve(ln)
	}
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}
