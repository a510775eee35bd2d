// Command klondike starts the Klondike solitaire server.
//
// It supports two modes:
//  1. "server" (default) – runs the HTTP server exposing REST API, WebSocket, and an /mcp HTTP endpoint
//  2. "mcp" – runs an MCP stdio server and spins up an internal HTTP API if none is available
//
// Every flag can also be set from the environment or a .env file, and ngrok
// tunneling can be enabled for easy external access during development.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"sync"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/mark3labs/mcp-go/server"
	"github.com/urfave/cli/v3"
	"github.com/wricardo/klondike/api"
	"github.com/wricardo/klondike/game/config"
	"github.com/wricardo/klondike/game/service"
	"github.com/wricardo/klondike/game/session"
	"github.com/wricardo/klondike/transport/mcp"
	"github.com/wricardo/klondike/transport/websocket"
	"golang.ngrok.com/ngrok"
	ngrokConfig "golang.ngrok.com/ngrok/config"
	"k8s.io/klog/v2"
)

// Version information
const (
	Version = "1.0.0"
	AppName = "Klondike Server"
)

const (
	sessionMaxAge       = 24 * time.Hour
	cleanupInterval     = time.Hour
	filesystemSyncEvery = 5 * time.Second
)

// options holds the resolved command-line settings
type options struct {
	host          string
	port          int
	configDir     string
	defaultConfig string
	sessionsDir   string
	ngrok         bool
	ngrokAuth     string
	ngrokDomain   string
}

func (o options) addr() string {
	return fmt.Sprintf("%s:%d", o.host, o.port)
}

func optionsFrom(cmd *cli.Command) options {
	return options{
		host:          cmd.String("host"),
		port:          int(cmd.Int("port")),
		configDir:     cmd.String("config-dir"),
		defaultConfig: cmd.String("default-config"),
		sessionsDir:   cmd.String("sessions-dir"),
		ngrok:         cmd.Bool("ngrok"),
		ngrokAuth:     cmd.String("ngrok-auth"),
		ngrokDomain:   cmd.String("ngrok-domain"),
	}
}

// newApp builds the command tree. The root action runs the HTTP server.
func newApp() *cli.Command {
	return &cli.Command{
		Name:    "klondike",
		Usage:   AppName,
		Version: Version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "host",
				Value:   "localhost",
				Usage:   "HTTP server host",
				Sources: cli.EnvVars("HOST"),
			},
			&cli.IntFlag{
				Name:    "port",
				Value:   8080,
				Usage:   "HTTP server port",
				Sources: cli.EnvVars("PORT"),
			},
			&cli.StringFlag{
				Name:    "config-dir",
				Value:   "configs",
				Usage:   "Directory containing game configurations",
				Sources: cli.EnvVars("CONFIG_DIR"),
			},
			&cli.StringFlag{
				Name:    "default-config",
				Usage:   "Configuration used when a session names none (defaults to klondike)",
				Sources: cli.EnvVars("DEFAULT_CONFIG"),
			},
			&cli.StringFlag{
				Name:    "sessions-dir",
				Value:   "sessions",
				Usage:   "Directory where sessions are saved",
				Sources: cli.EnvVars("SESSIONS_DIR"),
			},
			&cli.IntFlag{
				Name:    "v",
				Value:   0,
				Usage:   "Log verbosity (1 logs moves, 2 logs requests)",
				Sources: cli.EnvVars("LOG_VERBOSITY"),
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
		},
		Before: setupLogging,
		Action: runServer,
		Commands: []*cli.Command{
			{
				Name:    "server",
				Aliases: []string{"http"},
				Usage:   "Run HTTP server with API, WebSocket, and MCP endpoint",
				Action:  runServer,
			},
			{
				Name:    "mcp",
				Aliases: []string{"stdio-mcp", "mcp-stdio"},
				Usage:   "Run MCP stdio server, starting an internal HTTP server if none is running",
				Action:  runStdioMCP,
			},
		},
	}
}

// setupLogging routes the verbosity flag into klog
func setupLogging(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	fs := flag.NewFlagSet("klog", flag.ContinueOnError)
	klog.InitFlags(fs)
	fs.Set("logtostderr", "true")
	if err := fs.Set("v", strconv.Itoa(int(cmd.Int("v")))); err != nil {
		return ctx, fmt.Errorf("invalid verbosity: %w", err)
	}
	return ctx, nil
}

func main() {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		if !os.IsNotExist(err) {
			klog.Warningf("Error loading .env file: %v", err)
		}
	} else {
		klog.Info("Loaded environment variables from .env file")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := newApp().Run(ctx, os.Args)
	klog.Flush()
	if err != nil {
		klog.Errorf("%v", err)
		os.Exit(1)
	}
}

func runServer(ctx context.Context, cmd *cli.Command) error {
	opts := optionsFrom(cmd)
	klog.Infof("Starting %s v%s (mode: server)", AppName, Version)

	svcs, err := initializeServices(ctx, opts)
	if err != nil {
		return fmt.Errorf("failed to initialize services: %w", err)
	}
	return runHTTPServer(ctx, opts, svcs)
}

func runStdioMCP(ctx context.Context, cmd *cli.Command) error {
	opts := optionsFrom(cmd)
	klog.Infof("Starting %s v%s (mode: mcp)", AppName, Version)

	svcs, err := initializeServices(ctx, opts)
	if err != nil {
		return fmt.Errorf("failed to initialize services: %w", err)
	}
	defer svcs.flush()
	return runStdioMCPWithInternalServer(ctx, opts, svcs)
}

// newRouter mounts the REST API, WebSocket and the /mcp endpoint. The MCP
// client proxies to baseURL.
func newRouter(gameService service.GameService, hub *websocket.Hub, baseURL string) http.Handler {
	apiServer := api.NewServer(gameService, hub)
	mcpClient := mcp.NewClient(baseURL)

	mainRouter := http.NewServeMux()
	mainRouter.Handle("/", apiServer)
	mainRouter.Handle("/mcp", mcpClient.HTTPHandler())
	return mainRouter
}

// runHTTPServer starts the HTTP server with REST API, WebSocket hub, and an /mcp proxy endpoint.
// If ngrok is enabled it also provisions a public tunnel. It returns when ctx is cancelled.
func runHTTPServer(ctx context.Context, opts options, svcs *services) error {
	hub := websocket.NewHub()
	go hub.Run()
	defer hub.Stop()

	addr := opts.addr()
	mainRouter := newRouter(svcs, hub, "http://"+addr)

	httpServer := &http.Server{
		Addr:         addr,
		Handler:      mainRouter,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var wg sync.WaitGroup
	serveErr := make(chan error, 1)

	wg.Add(1)
	go func() {
		defer wg.Done()

		klog.Infof("HTTP server listening on %s", addr)
		klog.Infof("REST API: http://%s/api", addr)
		klog.Infof("WebSocket: ws://%s/ws?session=<session_id>", addr)
		klog.Infof("MCP endpoint: http://%s/mcp", addr)

		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- fmt.Errorf("HTTP server failed: %w", err)
			cancel()
		}
	}()

	if opts.ngrok {
		wg.Add(1)
		go func() {
			defer wg.Done()
			runNgrokTunnel(ctx, opts, mainRouter)
		}()
	}

	<-ctx.Done()
	klog.Info("Shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		klog.Errorf("HTTP server shutdown error: %v", err)
	}

	wg.Wait()
	svcs.flush()
	klog.Info("Server stopped")

	select {
	case err := <-serveErr:
		return err
	default:
		return nil
	}
}

// runNgrokTunnel serves handler through an ngrok tunnel until ctx is cancelled
func runNgrokTunnel(ctx context.Context, opts options, handler http.Handler) {
	if opts.ngrokAuth == "" {
		klog.Warning("Ngrok enabled but no auth token provided (use --ngrok-auth or NGROK_AUTHTOKEN)")
		return
	}

	klog.Info("Starting ngrok tunnel...")

	var tunnel ngrokConfig.Tunnel
	if opts.ngrokDomain != "" {
		tunnel = ngrokConfig.HTTPEndpoint(ngrokConfig.WithDomain(opts.ngrokDomain))
		klog.Infof("Using custom ngrok domain: %s", opts.ngrokDomain)
	} else {
		tunnel = ngrokConfig.HTTPEndpoint()
	}

	tun, err := ngrok.Listen(ctx, tunnel, ngrok.WithAuthtoken(opts.ngrokAuth))
	if err != nil {
		klog.Errorf("Failed to start ngrok tunnel: %v", err)
		return
	}

	go func() {
		<-ctx.Done()
		if err := tun.Close(); err != nil {
			klog.Errorf("Failed to close ngrok tunnel: %v", err)
		}
	}()

	ngrokURL := tun.URL()
	klog.Infof("Ngrok tunnel established: %s", ngrokURL)
	klog.Infof("  REST API (ngrok): %s/api", ngrokURL)
	klog.Infof("  WebSocket (ngrok): %s/ws?session=<session_id>", ngrokURL)
	klog.Infof("  MCP endpoint (ngrok): %s/mcp", ngrokURL)

	if err := http.Serve(tun, handler); err != nil && !errors.Is(err, http.ErrServerClosed) && ctx.Err() == nil {
		klog.Errorf("Ngrok server error: %v", err)
	}
	klog.Info("Ngrok tunnel closed")
}

// services is the game service together with the managers behind it
type services struct {
	service.GameService
	sessions *session.Manager
	configs  *config.Manager
}

// flush writes every in-memory session to disk
func (s *services) flush() {
	if err := s.sessions.SaveAllSessions(); err != nil {
		klog.Errorf("Failed to save sessions on shutdown: %v", err)
		return
	}
	klog.Infof("Saved %d sessions", s.sessions.Count())
}

// initializeServices wires session/config managers and the game service.
// It also starts background routines, stopped by ctx, that prune stale
// sessions and reload configurations on SIGHUP.
func initializeServices(ctx context.Context, opts options) (*services, error) {
	configManager, err := config.NewManager(opts.configDir)
	if err != nil {
		return nil, fmt.Errorf("failed to create config manager: %w", err)
	}
	if opts.defaultConfig != "" {
		if err := configManager.SetDefault(opts.defaultConfig); err != nil {
			return nil, fmt.Errorf("failed to set default config: %w", err)
		}
		klog.Infof("Default config: %s", opts.defaultConfig)
	}

	persistence, err := session.NewFilePersistence(opts.sessionsDir, configManager)
	if err != nil {
		return nil, fmt.Errorf("failed to create session persistence: %w", err)
	}

	sessionManager := session.NewManagerWithPersistence(persistence)

	if err := sessionManager.LoadPersistedSessions(); err != nil {
		klog.Warningf("Failed to load persisted sessions: %v", err)
	}

	gameService := service.NewGameService(sessionManager, configManager)

	go sessionCleanupRoutine(ctx, sessionManager, cleanupInterval, sessionMaxAge)
	go filesystemSyncRoutine(ctx, sessionManager, persistence, filesystemSyncEvery)

	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	go func() {
		configReloadRoutine(ctx, configManager, hup)
		signal.Stop(hup)
	}()

	return &services{
		GameService: gameService,
		sessions:    sessionManager,
		configs:     configManager,
	}, nil
}

// configReloadRoutine drops cached configurations each time reload fires, so
// edited files in the config directory apply to new sessions
func configReloadRoutine(ctx context.Context, configs *config.Manager, reload <-chan os.Signal) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-reload:
			if err := configs.RefreshCache(); err != nil {
				klog.Warningf("Config reload: %v", err)
				continue
			}
			klog.Infof("Reloaded configurations (default: %s)", configs.GetDefault().Name)
		}
	}
}

// sessionCleanupRoutine periodically removes sessions that have not been accessed
// within maxAge
func sessionCleanupRoutine(ctx context.Context, manager *session.Manager, interval, maxAge time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if removed := manager.CleanupExpiredSessions(maxAge); removed > 0 {
				klog.Infof("Cleaned up %d expired sessions", removed)
			}
		}
	}
}

// filesystemSyncRoutine periodically removes sessions from memory when their
// files have been deleted
func filesystemSyncRoutine(ctx context.Context, manager *session.Manager, persistence session.SessionPersistence, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if pruned := pruneOrphanedSessions(manager, persistence); pruned > 0 {
				klog.Infof("Filesystem sync: pruned %d orphaned sessions from memory", pruned)
			}
		}
	}
}

func pruneOrphanedSessions(manager *session.Manager, persistence session.SessionPersistence) int {
	pruned := 0
	for _, sess := range manager.List() {
		if persistence.Exists(sess.ID) {
			continue
		}
		if err := manager.DeleteFromMemory(sess.ID); err == nil {
			pruned++
			klog.V(1).Infof("Pruned session %s from memory (file deleted)", sess.ID)
		}
	}
	return pruned
}

// externalAPIAvailable reports whether a server already answers at baseURL
func externalAPIAvailable(baseURL string) bool {
	testClient := &http.Client{Timeout: 2 * time.Second}
	resp, err := testClient.Get(baseURL + "/api/health")
	if err != nil {
		return false
	}
	resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

// runStdioMCPWithInternalServer runs an MCP stdio server.
// It reuses an API already listening on the configured address; otherwise it
// starts an internal HTTP API on a random loopback port and targets that.
func runStdioMCPWithInternalServer(ctx context.Context, opts options, gameService service.GameService) error {
	externalURL := "http://" + opts.addr()
	baseURL := externalURL

	klog.Infof("Checking for external API server at %s...", externalURL)

	if externalAPIAvailable(externalURL) {
		klog.Infof("External API server found at %s, using it for MCP", externalURL)
	} else {
		klog.Info("No external API server found, starting internal HTTP server")

		listener, err := net.Listen("tcp", "127.0.0.1:0")
		if err != nil {
			return fmt.Errorf("failed to get available port: %w", err)
		}
		internalAddr := listener.Addr().String()

		hub := websocket.NewHub()
		go hub.Run()
		defer hub.Stop()

		httpServer := &http.Server{Handler: api.NewServer(gameService, hub)}
		go func() {
			if err := httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
				klog.Errorf("Internal HTTP server error: %v", err)
			}
		}()
		defer httpServer.Close()

		baseURL = "http://" + internalAddr
		klog.Infof("Internal HTTP server for MCP stdio on %s", internalAddr)
	}

	mcpClient := mcp.NewClient(baseURL)
	klog.Info("MCP stdio server ready")

	if err := server.ServeStdio(mcpClient.GetMCPServer()); err != nil {
		return fmt.Errorf("MCP stdio server error: %w", err)
	}
	return nil
}
