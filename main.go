// Command gobblet starts the Gobblet game server.
//
// It supports two modes:
//  1. "server" (default) – runs the HTTP server exposing REST API, WebSocket, and an /mcp HTTP endpoint
//  2. "stdio-mcp" – runs an MCP stdio server and spins up an internal HTTP API if none is available
//
// Flags control host/port, config directory, session storage, debug logging,
// and optional ngrok tunneling for easy external access during development.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/mark3labs/mcp-go/server"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
	"golang.ngrok.com/ngrok"
	ngrokConfig "golang.ngrok.com/ngrok/config"

	"github.com/wricardo/mcp-training/gobblet/api"
	"github.com/wricardo/mcp-training/gobblet/game/config"
	"github.com/wricardo/mcp-training/gobblet/game/service"
	"github.com/wricardo/mcp-training/gobblet/game/session"
	"github.com/wricardo/mcp-training/gobblet/transport/mcp"
	"github.com/wricardo/mcp-training/gobblet/transport/websocket"
)

// Version information
const (
	Version = "1.0.0"
	AppName = "Gobblet Game Server"
)

const (
	storeFile   = "file"
	storeBadger = "badger"

	sessionMaxAge    = 24 * time.Hour
	cleanupInterval  = 1 * time.Hour
	syncInterval     = 5 * time.Second
	externalAPIProbe = "http://localhost:8080"
)

// serviceOptions selects where configs are read from and how sessions persist
type serviceOptions struct {
	ConfigDir    string
	SessionStore string
	SessionsDir  string
}

// services bundles what the run modes need from initializeServices
type services struct {
	Game        service.GameService
	Sessions    *session.Manager
	Persistence session.SessionPersistence
}

// Close releases the session store
func (s *services) Close() error {
	if s.Sessions != nil {
		if err := s.Sessions.SaveAllSessions(); err != nil {
			return err
		}
	}
	if closer, ok := s.Persistence.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}

func main() {
	// Load .env file if it exists (ignore error if not found)
	envErr := godotenv.Load()

	cmd := newRootCommand()
	cmd.Before = func(ctx context.Context, c *cli.Command) (context.Context, error) {
		if envErr != nil && !os.IsNotExist(envErr) {
			fmt.Fprintf(os.Stderr, "warning: error loading .env file: %v\n", envErr)
		}
		return ctx, nil
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", AppName, err)
		os.Exit(1)
	}
}

// newRootCommand builds the CLI. The root action runs the HTTP server; flags
// are defined once on the root and inherited by the subcommands.
func newRootCommand() *cli.Command {
	return &cli.Command{
		Name:    "gobblet",
		Usage:   AppName,
		Version: Version,
		Flags:   serverFlags(),
		Action:  serverAction,
		Commands: []*cli.Command{
			{
				Name:    "server",
				Aliases: []string{"http"},
				Usage:   "Run HTTP server with API, WebSocket, and MCP endpoint",
				Action:  serverAction,
			},
			{
				Name:    "stdio-mcp",
				Aliases: []string{"mcp-stdio", "mcp"},
				Usage:   "Run MCP stdio server with internal HTTP server",
				Action:  stdioAction,
			},
		},
	}
}

func commonFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config-dir",
			Value:   "configs",
			Usage:   "Directory containing game configurations",
			Sources: cli.EnvVars("CONFIG_DIR"),
		},
		&cli.StringFlag{
			Name:    "session-store",
			Value:   storeFile,
			Usage:   "Session storage backend (file or badger)",
			Sources: cli.EnvVars("SESSION_STORE"),
		},
		&cli.StringFlag{
			Name:    "sessions-dir",
			Value:   "sessions",
			Usage:   "Directory for persisted sessions",
			Sources: cli.EnvVars("SESSIONS_DIR"),
		},
		&cli.BoolFlag{
			Name:    "debug",
			Usage:   "Enable debug logging",
			Sources: cli.EnvVars("DEBUG"),
		},
	}
}

func serverFlags() []cli.Flag {
	return append(commonFlags(),
		&cli.IntFlag{
			Name:    "port",
			Value:   8080,
			Usage:   "HTTP server port",
			Sources: cli.EnvVars("PORT"),
		},
		&cli.StringFlag{
			Name:    "host",
			Value:   "localhost",
			Usage:   "HTTP server host",
			Sources: cli.EnvVars("HOST"),
		},
		&cli.BoolFlag{
			Name:    "ngrok",
			Usage:   "Enable ngrok tunnel",
			Sources: cli.EnvVars("NGROK_ENABLED"),
		},
		&cli.StringFlag{
			Name:    "ngrok-auth",
			Usage:   "Ngrok auth token",
			Sources: cli.EnvVars("NGROK_AUTHTOKEN", "NGROK_AUTH_TOKEN"),
		},
		&cli.StringFlag{
			Name:    "ngrok-domain",
			Usage:   "Custom ngrok domain (optional)",
			Sources: cli.EnvVars("NGROK_DOMAIN"),
		},
	)
}

// newLogger returns a development logger in debug mode, a production one otherwise
func newLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func optionsFrom(cmd *cli.Command) serviceOptions {
	return serviceOptions{
		ConfigDir:    cmd.String("config-dir"),
		SessionStore: cmd.String("session-store"),
		SessionsDir:  cmd.String("sessions-dir"),
	}
}

func serverAction(ctx context.Context, cmd *cli.Command) error {
	logger, err := newLogger(cmd.Bool("debug"))
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer logger.Sync()

	logger.Info("starting", zap.String("app", AppName), zap.String("version", Version), zap.String("mode", "server"))

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	svc, err := initializeServices(optionsFrom(cmd), logger)
	if err != nil {
		return fmt.Errorf("failed to initialize services: %w", err)
	}
	defer func() {
		if err := svc.Close(); err != nil {
			logger.Warn("failed to close session store", zap.Error(err))
		}
	}()
	startBackgroundRoutines(ctx, svc, logger)

	return runHTTPServer(ctx, svc.Game, httpOptions{
		Host:        cmd.String("host"),
		Port:        int(cmd.Int("port")),
		Ngrok:       cmd.Bool("ngrok"),
		NgrokAuth:   cmd.String("ngrok-auth"),
		NgrokDomain: cmd.String("ngrok-domain"),
	}, logger)
}

func stdioAction(ctx context.Context, cmd *cli.Command) error {
	// stdout carries the MCP protocol, so logs go to stderr only
	logger, err := newLogger(cmd.Bool("debug"))
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer logger.Sync()

	logger.Info("starting", zap.String("app", AppName), zap.String("version", Version), zap.String("mode", "stdio-mcp"))

	svc, err := initializeServices(optionsFrom(cmd), logger)
	if err != nil {
		return fmt.Errorf("failed to initialize services: %w", err)
	}
	defer svc.Close()
	startBackgroundRoutines(ctx, svc, logger)

	return runStdioMCPWithInternalServer(ctx, svc.Game, logger)
}

// httpOptions configures runHTTPServer
type httpOptions struct {
	Host        string
	Port        int
	Ngrok       bool
	NgrokAuth   string
	NgrokDomain string
}

// newMainHandler mounts the API at root and the MCP JSON-RPC endpoint at /mcp
func newMainHandler(apiServer http.Handler, mcpClient *mcp.Client) http.Handler {
	mainRouter := http.NewServeMux()
	mainRouter.Handle("/", apiServer)
	mainRouter.HandleFunc("/mcp", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		body, err := io.ReadAll(r.Body)
		if err != nil {
			http.Error(w, "Failed to read request", http.StatusBadRequest)
			return
		}
		defer r.Body.Close()

		response := mcpClient.GetMCPServer().HandleMessage(r.Context(), body)

		w.Header().Set("Content-Type", "application/json")
		responseData, err := json.Marshal(response)
		if err != nil {
			http.Error(w, "Failed to marshal response", http.StatusInternalServerError)
			return
		}
		w.Write(responseData)
	})
	return mainRouter
}

// runHTTPServer starts the HTTP server with REST API, WebSocket hub, and an /mcp proxy endpoint.
// If ngrok is enabled it also provisions a public tunnel. It returns when ctx is done.
func runHTTPServer(ctx context.Context, gameService service.GameService, opts httpOptions, logger *zap.Logger) error {
	hub := websocket.NewHub(logger)
	go hub.Run(ctx)

	apiServer := api.NewServer(gameService, hub, logger)

	addr := fmt.Sprintf("%s:%d", opts.Host, opts.Port)
	baseURL := fmt.Sprintf("http://%s", addr)
	mainRouter := newMainHandler(apiServer, mcp.NewClient(baseURL))

	httpServer := &http.Server{
		Addr:         addr,
		Handler:      mainRouter,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	var wg sync.WaitGroup
	serveErr := make(chan error, 1)

	wg.Add(1)
	go func() {
		defer wg.Done()

		logger.Info("HTTP server listening",
			zap.String("addr", addr),
			zap.String("api", baseURL+"/api"),
			zap.String("websocket", fmt.Sprintf("ws://%s/ws?session=<session_id>", addr)),
			zap.String("mcp", baseURL+"/mcp"),
		)

		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	if opts.Ngrok {
		wg.Add(1)
		go func() {
			defer wg.Done()
			runNgrokTunnel(ctx, mainRouter, opts, logger)
		}()
	}

	var runErr error
	select {
	case <-ctx.Done():
		logger.Info("shutting down")
	case runErr = <-serveErr:
		logger.Error("HTTP server failed", zap.Error(runErr))
	}

	// Graceful shutdown with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Warn("HTTP server shutdown error", zap.Error(err))
	}

	wg.Wait()
	logger.Info("server stopped")
	return runErr
}

// runNgrokTunnel serves handler through an ngrok endpoint until ctx is done
func runNgrokTunnel(ctx context.Context, handler http.Handler, opts httpOptions, logger *zap.Logger) {
	if opts.NgrokAuth == "" {
		logger.Warn("ngrok enabled but no auth token provided (use --ngrok-auth or NGROK_AUTHTOKEN)")
		return
	}

	logger.Info("starting ngrok tunnel")

	var tunnel ngrokConfig.Tunnel
	if opts.NgrokDomain != "" {
		tunnel = ngrokConfig.HTTPEndpoint(ngrokConfig.WithDomain(opts.NgrokDomain))
		logger.Info("using custom ngrok domain", zap.String("domain", opts.NgrokDomain))
	} else {
		tunnel = ngrokConfig.HTTPEndpoint()
	}

	tun, err := ngrok.Listen(ctx, tunnel, ngrok.WithAuthtoken(opts.NgrokAuth))
	if err != nil {
		logger.Error("failed to start ngrok tunnel", zap.Error(err))
		return
	}

	go func() {
		<-ctx.Done()
		if err := tun.Close(); err != nil {
			logger.Warn("failed to close ngrok tunnel", zap.Error(err))
		}
	}()

	ngrokURL := tun.URL()
	logger.Info("ngrok tunnel established",
		zap.String("url", ngrokURL),
		zap.String("api", ngrokURL+"/api"),
		zap.String("websocket", ngrokURL+"/ws?session=<session_id>"),
		zap.String("mcp", ngrokURL+"/mcp"),
	)

	if err := http.Serve(tun, handler); err != nil && ctx.Err() == nil {
		logger.Warn("ngrok server error", zap.Error(err))
	}
	logger.Info("ngrok tunnel closed")
}

// newPersistence opens the session store selected by opts
func newPersistence(opts serviceOptions, configs service.ConfigManager) (session.SessionPersistence, error) {
	switch opts.SessionStore {
	case storeFile, "":
		return session.NewFilePersistence(opts.SessionsDir, configs)
	case storeBadger:
		return session.NewBadgerPersistence(opts.SessionsDir, configs)
	default:
		return nil, fmt.Errorf("unknown session store %q (use %s or %s)", opts.SessionStore, storeFile, storeBadger)
	}
}

// initializeServices wires the config manager, session store and game service
func initializeServices(opts serviceOptions, logger *zap.Logger) (*services, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	// Config manager first, persistence rebuilds engines from it
	configManager, err := config.NewManager(opts.ConfigDir)
	if err != nil {
		return nil, fmt.Errorf("failed to create config manager: %w", err)
	}

	persistence, err := newPersistence(opts, configManager)
	if err != nil {
		return nil, fmt.Errorf("failed to create session persistence: %w", err)
	}

	sessionManager := session.NewManagerWithPersistence(persistence, logger)

	if err := sessionManager.LoadPersistedSessions(); err != nil {
		logger.Warn("failed to load persisted sessions", zap.Error(err))
	}

	logger.Info("services initialized",
		zap.String("config_dir", opts.ConfigDir),
		zap.String("session_store", opts.SessionStore),
		zap.Int("sessions", sessionManager.Count()),
	)

	return &services{
		Game:        service.NewGameService(sessionManager, configManager, logger),
		Sessions:    sessionManager,
		Persistence: persistence,
	}, nil
}

func startBackgroundRoutines(ctx context.Context, svc *services, logger *zap.Logger) {
	go sessionCleanupRoutine(ctx, svc.Sessions, cleanupInterval, logger)
	go filesystemSyncRoutine(ctx, svc.Sessions, svc.Persistence, syncInterval, logger)
}

// sessionCleanupRoutine periodically removes sessions not accessed within sessionMaxAge
func sessionCleanupRoutine(ctx context.Context, manager *session.Manager, interval time.Duration, logger *zap.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if removed := manager.CleanupExpiredSessions(sessionMaxAge); removed > 0 {
				logger.Info("cleaned up expired sessions", zap.Int("removed", removed))
			}
		}
	}
}

// syncSessions drops sessions from memory whose persisted copy was deleted
func syncSessions(manager *session.Manager, persistence session.SessionPersistence, logger *zap.Logger) int {
	if persistence == nil {
		return 0
	}

	pruned := 0
	for _, s := range manager.List() {
		if persistence.Exists(s.ID) {
			continue
		}
		if err := manager.DeleteFromMemory(s.ID); err == nil {
			pruned++
			logger.Debug("pruned session from memory", zap.String("session", s.ID))
		}
	}
	return pruned
}

// filesystemSyncRoutine periodically syncs in-memory sessions with the session store
func filesystemSyncRoutine(ctx context.Context, manager *session.Manager, persistence session.SessionPersistence, interval time.Duration, logger *zap.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if pruned := syncSessions(manager, persistence, logger); pruned > 0 {
				logger.Info("session sync pruned orphaned sessions", zap.Int("pruned", pruned))
			}
		}
	}
}

// externalAPIAvailable reports whether a server answers the health check at baseURL
func externalAPIAvailable(ctx context.Context, baseURL string) bool {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL+"/api/health", nil)
	if err != nil {
		return false
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

// runStdioMCPWithInternalServer runs an MCP stdio server.
// It reuses an API at http://localhost:8080 when one answers; otherwise it
// starts an internal HTTP API bound to a random loopback port and targets that.
func runStdioMCPWithInternalServer(ctx context.Context, gameService service.GameService, logger *zap.Logger) error {
	baseURL := externalAPIProbe

	if externalAPIAvailable(ctx, externalAPIProbe) {
		logger.Info("external API server found, using it for MCP", zap.String("url", externalAPIProbe))
	} else {
		listener, err := net.Listen("tcp", "127.0.0.1:0")
		if err != nil {
			return fmt.Errorf("failed to get available port: %w", err)
		}

		internalAddr := listener.Addr().String()
		logger.Info("starting internal HTTP server for MCP stdio", zap.String("addr", internalAddr))

		hub := websocket.NewHub(logger)
		go hub.Run(ctx)

		httpServer := &http.Server{Handler: api.NewServer(gameService, hub, logger)}
		go func() {
			if err := httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("internal HTTP server error", zap.Error(err))
			}
		}()
		defer httpServer.Close()

		baseURL = "http://" + internalAddr
	}

	mcpClient := mcp.NewClient(baseURL)
	logger.Info("MCP stdio server ready", zap.String("api", baseURL))

	if err := server.ServeStdio(mcpClient.GetMCPServer()); err != nil {
		return fmt.Errorf("MCP stdio server error: %w", err)
	}
	return nil
}
