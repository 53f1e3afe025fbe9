// Package server runs the live preview of a portfolio data file.
//
// The PreviewServer renders the data file once at start and again whenever
// the file changes on disk, then tells connected browsers to reload over a
// websocket. A failed render keeps the last good page and sends the error
// to the browser instead.
package server

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os/exec"
	"runtime"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/conneroisu/folio/internal/config"
	"github.com/conneroisu/folio/internal/draft"
	ferrors "github.com/conneroisu/folio/internal/errors"
	"github.com/conneroisu/folio/internal/logging"
	"github.com/conneroisu/folio/internal/portfolio"
	"github.com/conneroisu/folio/internal/render"
	"github.com/conneroisu/folio/internal/validation"
	"github.com/conneroisu/folio/internal/watcher"
)

//go:embed assets/reload.js
var assets embed.FS

// ReloadPath is where the live reload script is served.
const ReloadPath = "/reload.js"

// Client represents a WebSocket client
type Client struct {
	conn   *websocket.Conn
	send   chan []byte
	server *PreviewServer
}

// Options carries the collaborators of a PreviewServer.
type Options struct {
	// DataFile is the portfolio record to render and watch.
	DataFile string
	Logger   logging.Logger
	// Drafts receives every successfully rendered record. Optional.
	Drafts *draft.Manager
	// Now supplies timestamps and the footer year. Defaults to time.Now.
	Now func() time.Time
}

// PreviewServer serves the rendered portfolio with live reload
type PreviewServer struct {
	config   *config.Config
	dataFile string
	logger   logging.Logger
	errs     *ferrors.ErrorHandler
	drafts   *draft.Manager
	health   *HealthMonitor
	now      func() time.Time

	httpServer  *http.Server
	addr        string
	serverMutex sync.RWMutex

	clients      map[*websocket.Conn]*Client
	clientsMutex sync.RWMutex
	broadcast    chan []byte
	register     chan *Client
	unregister   chan *Client
	hubDone      chan struct{}

	stateMutex sync.RWMutex
	current    *renderState
	lastErr    error
}

// renderState is one successful render of the data file.
type renderState struct {
	ID         string
	Page       string
	Bundle     *render.Bundle
	Data       portfolio.Data
	RenderedAt time.Time
}

// UpdateMessage represents a message sent to the browser
type UpdateMessage struct {
	Type      string    `json:"type"`
	RenderID  string    `json:"render_id,omitempty"`
	Content   string    `json:"content,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Message types sent over the websocket.
const (
	MessageReload = "reload"
	MessageError  = "error"
)

// New creates a new preview server
func New(cfg *config.Config, opts Options) (*PreviewServer, error) {
	if cfg == nil {
		return nil, ferrors.NewConfigError(ferrors.ErrCodeConfigInvalid, "preview server needs a configuration")
	}
	if opts.DataFile == "" {
		opts.DataFile = cfg.Portfolio.DataFile
	}
	if opts.DataFile == "" {
		return nil, ferrors.NewConfigError(ferrors.ErrCodeConfigInvalid, "no data file to preview")
	}

	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	logger = logger.WithComponent("server")

	now := opts.Now
	if now == nil {
		now = time.Now
	}

	s := &PreviewServer{
		config:     cfg,
		dataFile:   opts.DataFile,
		logger:     logger,
		errs:       ferrors.NewErrorHandler(logger),
		drafts:     opts.Drafts,
		now:        now,
		clients:    make(map[*websocket.Conn]*Client),
		broadcast:  make(chan []byte, 16),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		hubDone:    make(chan struct{}),
		health:     NewHealthMonitor(logger, now),
	}
	s.registerHealthChecks()
	return s, nil
}

// Start renders the data file, starts watching it and serves until ctx is
// cancelled. It returns nil after a clean shutdown.
func (s *PreviewServer) Start(ctx context.Context) error {
	if err := s.Refresh(ctx); err != nil {
		s.logger.Warn(ctx, err, "Initial render failed; serving the error page until the data file is fixed")
	}

	fileWatcher, err := watcher.NewFileWatcher(s.config.Preview.Debounce, s.logger)
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	fileWatcher.AddFilter(watcher.DataFileFilter)
	fileWatcher.AddFilter(watcher.NoEditorTempFilter)
	fileWatcher.AddHandler(s.handleFileChange)
	if err := fileWatcher.WatchFile(s.dataFile); err != nil {
		fileWatcher.Stop()
		return fmt.Errorf("failed to watch %s: %w", s.dataFile, err)
	}

	addr := net.JoinHostPort(s.config.Server.Host, fmt.Sprint(s.config.Server.Port))
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		fileWatcher.Stop()
		return ferrors.NewEnhancedError(
			fmt.Sprintf("Failed to start preview server on %s", addr),
			err,
			ferrors.ServerStartError(err, s.config.Server.Port),
		)
	}

	s.serverMutex.Lock()
	s.addr = ln.Addr().String()
	s.httpServer = &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	server := s.httpServer
	s.serverMutex.Unlock()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.runWebSocketHub(gctx)
		return nil
	})

	g.Go(func() error {
		if err := fileWatcher.Start(gctx); err != nil {
			return err
		}
		<-gctx.Done()
		err := fileWatcher.Stop()
		fileWatcher.Wait()
		return err
	})

	g.Go(func() error {
		if err := server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.Shutdown(shutdownCtx)
	})

	s.logger.Info(ctx, "Preview server listening", "url", s.URL(), "data_file", s.dataFile)

	if s.config.Server.Open {
		go s.openBrowser(gctx, s.URL())
	}

	return g.Wait()
}

// Addr returns the address the server listens on, or "" before Start.
func (s *PreviewServer) Addr() string {
	s.serverMutex.RLock()
	defer s.serverMutex.RUnlock()
	return s.addr
}

// URL returns the preview page address.
func (s *PreviewServer) URL() string {
	return "http://" + s.Addr() + "/"
}

// Handler returns the routed and wrapped HTTP handler.
func (s *PreviewServer) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleIndex)
	mux.HandleFunc("/ws", s.handleWebSocket)
	mux.HandleFunc(ReloadPath, s.handleReloadScript)
	mux.HandleFunc("/export/index.html", s.handleExportHTML)
	mux.HandleFunc("/export/css/style.css", s.handleExportCSS)
	mux.HandleFunc("/export/README.md", s.handleExportReadme)
	mux.HandleFunc("/download", s.handleDownload)
	mux.HandleFunc("/api/themes", s.handleThemes)
	mux.HandleFunc("/api/status", s.handleStatus)
	mux.HandleFunc("/health", s.health.HTTPHandler())

	return s.addMiddleware(mux)
}

// Refresh loads, validates and renders the data file. On success the new
// page replaces the current one, browsers are told to reload and a draft
// is saved. On failure the previous page stays and the error is broadcast.
func (s *PreviewServer) Refresh(ctx context.Context) error {
	op := logging.StartOperation(s.logger, "refresh")

	state, data, err := s.renderDataFile()
	if err != nil {
		s.stateMutex.Lock()
		s.lastErr = err
		s.stateMutex.Unlock()

		s.errs.Handle(ctx, err)
		s.broadcastMessage(UpdateMessage{
			Type:      MessageError,
			Content:   ferrors.FormatError(err),
			Timestamp: s.now(),
		})
		op.EndWithError(ctx, err)
		return err
	}

	s.stateMutex.Lock()
	s.current = state
	s.lastErr = nil
	s.stateMutex.Unlock()

	if s.drafts != nil {
		s.drafts.Save(ctx, data)
	}

	s.broadcastMessage(UpdateMessage{
		Type:      MessageReload,
		RenderID:  state.ID,
		Timestamp: state.RenderedAt,
	})
	op.End(ctx, "render_id", state.ID, "theme", state.Bundle.Theme)
	return nil
}

func (s *PreviewServer) renderDataFile() (*renderState, portfolio.Data, error) {
	d, err := portfolio.Load(s.dataFile)
	if err != nil {
		return nil, d, err
	}

	d = portfolio.Normalize(d)
	if err := portfolio.ValidateForPreview(d); err != nil {
		return nil, d, err
	}

	previewOpts := render.Options{
		Now:        s.now,
		Theme:      s.config.Portfolio.Theme,
		StorageKey: s.config.Preview.StorageKey,
	}
	if s.config.Preview.LiveReload {
		previewOpts.LiveReloadURL = ReloadPath
	}

	page, err := render.RenderPreview(d, previewOpts)
	if err != nil {
		return nil, d, err
	}

	b, err := render.Render(d, render.Options{Now: s.now, Theme: s.config.Portfolio.Theme})
	if err != nil {
		return nil, d, err
	}

	return &renderState{
		ID:         uuid.NewString(),
		Page:       page,
		Bundle:     b,
		Data:       d,
		RenderedAt: s.now(),
	}, d, nil
}

// snapshot returns the current render and the error of the latest refresh.
func (s *PreviewServer) snapshot() (*renderState, error) {
	s.stateMutex.RLock()
	defer s.stateMutex.RUnlock()
	return s.current, s.lastErr
}

func (s *PreviewServer) handleFileChange(ctx context.Context, events []watcher.ChangeEvent) error {
	for _, event := range events {
		s.logger.Debug(ctx, "Data file changed", "path", event.Path, "type", event.Type.String())
	}
	// Refresh reports its own failures.
	_ = s.Refresh(ctx)
	return nil
}

func (s *PreviewServer) openBrowser(ctx context.Context, url string) {
	select {
	case <-ctx.Done():
		return
	case <-time.After(100 * time.Millisecond):
	}

	if err := validation.ValidateURL(url); err != nil {
		s.logger.Warn(ctx, err, "Browser open failed due to invalid URL")
		return
	}

	var err error
	switch runtime.GOOS {
	case "linux":
		err = exec.Command("xdg-open", url).Start()
	case "windows":
		err = exec.Command("rundll32", "url.dll,FileProtocolHandler", url).Start()
	case "darwin":
		err = exec.Command("open", url).Start()
	default:
		err = fmt.Errorf("unsupported platform %s", runtime.GOOS)
	}

	if err != nil {
		s.logger.Warn(ctx, err, "Failed to open browser", "url", url)
	}
}

func (s *PreviewServer) broadcastMessage(msg UpdateMessage) {
	jsonData, err := json.Marshal(msg)
	if err != nil {
		jsonData = []byte(`{"type":"reload"}`)
	}

	select {
	case s.broadcast <- jsonData:
	default:
		s.logger.Debug(context.Background(), "Dropped broadcast; hub is not keeping up", "type", msg.Type)
	}
}

// ClientCount returns the number of connected live reload clients.
func (s *PreviewServer) ClientCount() int {
	s.clientsMutex.RLock()
	defer s.clientsMutex.RUnlock()
	return len(s.clients)
}

// Shutdown gracefully shuts down the HTTP server. Websocket clients are
// closed by the hub when its context ends.
func (s *PreviewServer) Shutdown(ctx context.Context) error {
	s.serverMutex.RLock()
	server := s.httpServer
	s.serverMutex.RUnlock()

	if server == nil {
		return nil
	}

	s.logger.Info(ctx, "Shutting down preview server")
	return server.Shutdown(ctx)
}
