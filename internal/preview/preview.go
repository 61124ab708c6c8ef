// Package preview implements the flashless preview HTTP server: it serves a
// frontend's built assets and mock API fixtures as described by a manifest,
// and notifies open browser tabs over a live-reload event stream when
// watched files change.
package preview

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/flashless-dev/flashless/internal/manifest"
	"github.com/flashless-dev/flashless/internal/reload"
)

// ReloadEndpoint is the live-reload stream path, joined under the UI base
// path at runtime.
const ReloadEndpoint = "/__flashless/reload"

const (
	streamChunkSize   = 64 * 1024
	keepaliveInterval = 15 * time.Second
	watcherStopWait   = 2 * time.Second
)

// Options configures a preview server instance.
type Options struct {
	Host string
	// Port may be 0 to bind an OS-assigned ephemeral port; Addr reports
	// the effective address.
	Port       int
	RequestLog LogPolicy
	LiveReload bool
	// WatchInterval is the file watcher polling interval; zero means
	// reload.DefaultInterval.
	WatchInterval time.Duration
}

// Server serves one manifest until stopped. Request handling is stateless:
// the manifest and the route tables derived from it are read-only, and the
// reload State is the only shared mutable resource.
type Server struct {
	opts    Options
	state   *reload.State
	watcher *reload.Watcher
	ln      net.Listener
	httpSrv *http.Server
	started bool
}

// New binds the listening socket and builds the dispatch tables. The
// manifest must be in mock API mode; proxy manifests are rejected here as a
// backstop even though callers are expected to reject them earlier.
func New(m *manifest.Manifest, opts Options) (*Server, error) {
	if m.API.Mode != manifest.ModeMock {
		return nil, fmt.Errorf("API mode %q is not supported by the preview server; only %q is", m.API.Mode, manifest.ModeMock)
	}
	if opts.RequestLog == "" {
		opts.RequestLog = LogErrors
	}

	addr := net.JoinHostPort(opts.Host, strconv.Itoa(opts.Port))
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("failed to bind preview server on %s: %w", addr, err)
	}

	state := reload.NewState()
	s := &Server{
		opts:  opts,
		state: state,
		ln:    ln,
	}
	if opts.LiveReload {
		s.watcher = reload.NewWatcher(state, opts.WatchInterval, m.UI.AssetRoot, m.API.FixturesDir)
	}
	rt := newRouter(m, state, opts.LiveReload)
	s.httpSrv = &http.Server{
		Handler:           logRequests(opts.RequestLog, rt),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s, nil
}

// Addr returns the bound listener address; with Port 0 this carries the
// OS-assigned port.
func (s *Server) Addr() net.Addr {
	return s.ln.Addr()
}

// Start begins serving on a background goroutine and starts the file
// watcher. Use ServeForever to serve on the calling goroutine instead.
func (s *Server) Start() {
	if s.started {
		return
	}
	s.started = true
	s.startWatcher()
	go func() { _ = s.httpSrv.Serve(s.ln) }()
}

// ServeForever serves on the calling goroutine until Stop closes the
// listener or serving fails.
func (s *Server) ServeForever() error {
	s.started = true
	s.startWatcher()
	err := s.httpSrv.Serve(s.ln)
	if errors.Is(err, net.ErrClosed) || errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Stop stops the file watcher and closes the listening socket, which
// unblocks ServeForever. In-flight reload streams are not severed; they end
// when their client disconnects or the process exits.
func (s *Server) Stop() error {
	var err error
	if s.watcher != nil {
		err = s.watcher.Stop(watcherStopWait)
	}
	if closeErr := s.ln.Close(); closeErr != nil && !errors.Is(closeErr, net.ErrClosed) && err == nil {
		err = closeErr
	}
	return err
}

func (s *Server) startWatcher() {
	if s.watcher != nil {
		s.watcher.Start(context.Background())
	}
}
