// Robot Grid Simulator entry point.
//
// Commands:
//  1. "serve" (default) runs the HTTP server exposing the REST API, WebSocket
//     updates, Prometheus metrics and an /mcp endpoint
//  2. "repl" runs the interactive console against a fresh in-process robot
//  3. "mcp" runs an MCP stdio server and spins up an internal HTTP API if none
//     is reachable
//
// Settings come from an optional settings file, ROBOTSIM_ environment
// variables (a .env file is loaded first) and command line flags, in that
// order. An ngrok tunnel can expose the server during development.
package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/mark3labs/mcp-go/server"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/urfave/cli/v3"
	"github.com/wricardo/mcp-training/robotgrid/api"
	"github.com/wricardo/mcp-training/robotgrid/console"
	"github.com/wricardo/mcp-training/robotgrid/game/config"
	"github.com/wricardo/mcp-training/robotgrid/game/service"
	"github.com/wricardo/mcp-training/robotgrid/game/session"
	"github.com/wricardo/mcp-training/robotgrid/logger"
	"github.com/wricardo/mcp-training/robotgrid/metrics"
	"github.com/wricardo/mcp-training/robotgrid/transport/mcp"
	"github.com/wricardo/mcp-training/robotgrid/transport/websocket"
	"golang.ngrok.com/ngrok"
	ngrokConfig "golang.ngrok.com/ngrok/config"
)

const (
	Version = "1.0.0"
	AppName = "Robot Grid Simulator"
)

func main() {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "Warning: Error loading .env file: %v\n", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newApp().Run(ctx, os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newApp() *cli.Command {
	return &cli.Command{
		Name:           "robotsim",
		Usage:          "Simulate a battery-powered robot on a grid",
		Version:        Version,
		DefaultCommand: "serve",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "settings",
				Usage:   "settings file (JSON or YAML)",
				Sources: cli.EnvVars(config.EnvPrefix + "SETTINGS"),
			},
			&cli.StringFlag{Name: "config-dir", Usage: "directory of robot presets"},
			&cli.StringFlag{Name: "log-level", Usage: "debug, info, warn or error"},
			&cli.StringFlag{Name: "log-format", Usage: "json or console"},
		},
		Commands: []*cli.Command{
			{
				Name:  "serve",
				Usage: "run the HTTP server with REST API, WebSocket, metrics and /mcp",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "addr", Usage: "listen address"},
					&cli.BoolFlag{Name: "ngrok", Usage: "expose the server through an ngrok tunnel (token from NGROK_AUTHTOKEN)"},
					&cli.StringFlag{Name: "ngrok-domain", Usage: "custom ngrok domain"},
				},
				Action: runServe,
			},
			{
				Name:  "repl",
				Usage: "drive a robot interactively from the terminal",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "preset", Usage: "preset to start from (default preset when empty)"},
				},
				Action: runRepl,
			},
			{
				Name:  "mcp",
				Usage: "run an MCP stdio server backed by the REST API",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "api-url", Usage: "REST API to proxy to; an internal server is started when unreachable"},
				},
				Action: runMCP,
			},
		},
	}
}

// loadSettings layers command line flags over the settings file and environment
func loadSettings(cmd *cli.Command) (*config.Settings, error) {
	settings, err := config.LoadSettings(cmd.String("settings"))
	if err != nil {
		return nil, err
	}

	overrides := []struct {
		flag   string
		target *string
	}{
		{"config-dir", &settings.ConfigDir},
		{"log-level", &settings.LogLevel},
		{"log-format", &settings.LogFormat},
		{"addr", &settings.Addr},
		{"ngrok-domain", &settings.Ngrok.Domain},
		{"api-url", &settings.APIURL},
	}
	for _, o := range overrides {
		if cmd.IsSet(o.flag) {
			*o.target = cmd.String(o.flag)
		}
	}
	if cmd.IsSet("ngrok") {
		settings.Ngrok.Enabled = cmd.Bool("ngrok")
	}

	if err := settings.Validate(); err != nil {
		return nil, err
	}
	return settings, nil
}

func newLogger(settings *config.Settings, component string) zerolog.Logger {
	// stdout belongs to the console and the MCP stdio transport
	return logger.New(component, logger.Options{
		Level:  settings.LogLevel,
		Format: settings.LogFormat,
		Out:    os.Stderr,
	})
}

// newService wires the session and config managers into a simulation service
func newService(settings *config.Settings, log zerolog.Logger, rec service.Recorder) (service.SimulationService, *session.Manager, error) {
	configManager, err := config.NewManager(settings.ConfigDir)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create config manager: %w", err)
	}

	sessionManager := session.NewManager()
	svc := service.NewSimulationService(sessionManager, configManager,
		service.WithLogger(log),
		service.WithRecorder(rec),
	)
	return svc, sessionManager, nil
}

// localURL turns a listen address into a URL reachable from this host
func localURL(addr string) string {
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return "http://" + addr
	}
	if host == "" || host == "0.0.0.0" || host == "::" {
		host = "localhost"
	}
	return "http://" + net.JoinHostPort(host, port)
}

// runServe starts the HTTP server with REST API, WebSocket hub, metrics and
// an /mcp endpoint. If ngrok is enabled it also provisions a public tunnel.
func runServe(ctx context.Context, cmd *cli.Command) error {
	settings, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	log := newLogger(settings, "server")

	recorder, err := metrics.NewPromRecorder(prometheus.NewRegistry())
	if err != nil {
		return fmt.Errorf("failed to register metrics: %w", err)
	}

	svc, sessions, err := newService(settings, newLogger(settings, "service"), recorder)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	hub := websocket.NewHub(newLogger(settings, "websocket"))
	go hub.Run(ctx)

	apiServer := api.NewServer(svc, hub,
		api.WithLogger(newLogger(settings, "api")),
		api.WithMetricsHandler(recorder.Handler()),
	)

	mcpClient := mcp.NewClient(localURL(settings.Addr))

	mainRouter := http.NewServeMux()
	mainRouter.Handle("/", apiServer)
	mainRouter.Handle("/mcp", server.NewStreamableHTTPServer(mcpClient.GetMCPServer()))

	httpServer := &http.Server{
		Addr:         settings.Addr,
		Handler:      mainRouter,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	var wg sync.WaitGroup

	if settings.SessionTTL > 0 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			cleanupRoutine(ctx, sessions, settings.SessionTTL, settings.CleanupInterval, recorder, hub, log)
		}()
	}

	if settings.Ngrok.Enabled {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := serveNgrok(ctx, settings.Ngrok, mainRouter, log); err != nil {
				log.Error().Err(err).Msg("ngrok tunnel failed")
			}
		}()
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info().
			Str("addr", settings.Addr).
			Str("config_dir", settings.ConfigDir).
			Str("version", Version).
			Msg("HTTP server listening")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case <-ctx.Done():
		log.Info().Msg("shutting down")
	case err := <-serveErr:
		cancel()
		wg.Wait()
		return fmt.Errorf("HTTP server failed: %w", err)
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	cancel()
	wg.Wait()
	log.Info().Msg("server stopped")
	return nil
}

func serveNgrok(ctx context.Context, settings config.NgrokSettings, handler http.Handler, log zerolog.Logger) error {
	var tunnel ngrokConfig.Tunnel
	if settings.Domain != "" {
		tunnel = ngrokConfig.HTTPEndpoint(ngrokConfig.WithDomain(settings.Domain))
	} else {
		tunnel = ngrokConfig.HTTPEndpoint()
	}

	tun, err := ngrok.Listen(ctx, tunnel, ngrok.WithAuthtokenFromEnv())
	if err != nil {
		return err
	}

	go func() {
		<-ctx.Done()
		if err := tun.Close(); err != nil {
			log.Warn().Err(err).Msg("failed to close ngrok tunnel")
		}
	}()

	log.Info().Str("url", tun.URL()).Msg("ngrok tunnel established")
	if err := http.Serve(tun, handler); err != nil && ctx.Err() == nil {
		return err
	}
	log.Info().Msg("ngrok tunnel closed")
	return nil
}

// cleanupRoutine periodically removes sessions that have not been accessed
// within ttl.
func cleanupRoutine(ctx context.Context, sessions *session.Manager, ttl, interval time.Duration,
	rec service.Recorder, hub *websocket.Hub, log zerolog.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		removed := sessions.CleanupExpiredSessions(ttl)
		if len(removed) == 0 {
			continue
		}
		for _, id := range removed {
			rec.SessionRemoved(id)
			if hub != nil {
				hub.BroadcastEvent(id, websocket.EventDeleted, nil)
			}
		}
		rec.SessionsActive(sessions.Count())
		log.Info().Strs("sessions", removed).Msg("cleaned up expired sessions")
	}
}

// runRepl drives a single in-process session from the terminal
func runRepl(ctx context.Context, cmd *cli.Command) error {
	settings, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	log := newLogger(settings, "console")

	svc, _, err := newService(settings, log, nil)
	if err != nil {
		return err
	}

	info, err := svc.CreateSession(ctx, cmd.String("preset"))
	if err != nil {
		return err
	}

	root := cmd.Root()
	err = console.New(svc, info.ID, log).Run(ctx, root.Reader, root.Writer)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// runMCP runs an MCP stdio server. It reuses the REST API at the configured
// URL when it answers; otherwise it starts an internal HTTP API on a random
// loopback port and targets that.
func runMCP(ctx context.Context, cmd *cli.Command) error {
	settings, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	log := newLogger(settings, "mcp")

	baseURL := settings.APIURL
	if !apiAvailable(ctx, baseURL) {
		log.Info().Str("url", baseURL).Msg("no external API server found, starting internal HTTP server")

		svc, _, err := newService(settings, log, nil)
		if err != nil {
			return err
		}

		listener, err := net.Listen("tcp", "127.0.0.1:0")
		if err != nil {
			return fmt.Errorf("failed to get available port: %w", err)
		}

		hub := websocket.NewHub(log)
		go hub.Run(ctx)

		httpServer := &http.Server{Handler: api.NewServer(svc, hub, api.WithLogger(log))}
		go func() {
			if err := httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Error().Err(err).Msg("internal HTTP server error")
			}
		}()
		defer httpServer.Close()

		baseURL = "http://" + listener.Addr().String()
	}

	log.Info().Str("api", baseURL).Msg("MCP stdio server ready")
	return server.ServeStdio(mcp.NewClient(baseURL).GetMCPServer())
}

func apiAvailable(ctx context.Context, baseURL string) bool {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL+"/health", nil)
	if err != nil {
		return false
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return false
	}
	resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}
