// Command wandrian runs a tick-based grid world.
//
// It supports three modes:
//  1. "run" (default) – plays in the terminal with the keyboard steering the player
//  2. "serve" – runs the world headless with a REST API at /api, frames
//     streamed over WebSocket at /ws and the control tools at /mcp
//  3. "mcp" – runs an MCP stdio server so an agent can drive the game
//
// Genesis data comes from a directory of JSON/YAML/TOML files (--config-dir,
// --game) or from a single file (--file). A .env file in the working
// directory is loaded first.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v3"

	"github.com/wricardo/wandrian/api"
	"github.com/wricardo/wandrian/game/config"
	"github.com/wricardo/wandrian/game/engine"
	"github.com/wricardo/wandrian/game/session"
	"github.com/wricardo/wandrian/logger"
	"github.com/wricardo/wandrian/transport/mcp"
	"github.com/wricardo/wandrian/transport/terminal"
	"github.com/wricardo/wandrian/transport/websocket"
)

// Version information
const (
	Version = "1.0.0"
	AppName = "wandrian"
)

func main() {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		logger.Log.WithError(err).Warn("Error loading .env file")
	}

	if err := newCommand().Run(context.Background(), os.Args); err != nil {
		logger.Log.WithError(err).Fatal("wandrian failed")
	}
}

func newCommand() *cli.Command {
	return &cli.Command{
		Name:    AppName,
		Usage:   "a tick-based grid world",
		Version: Version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config-dir",
				Value:   "configs",
				Usage:   "directory containing genesis files",
				Sources: cli.EnvVars("CONFIG_DIR"),
			},
			&cli.StringFlag{
				Name:    "game",
				Aliases: []string{"g"},
				Usage:   "name of the genesis file to load from the config directory",
			},
			&cli.StringFlag{
				Name:    "file",
				Aliases: []string{"f"},
				Usage:   "path of a genesis file, overrides --config-dir and --game",
			},
			&cli.StringFlag{
				Name:  "policy",
				Usage: "collision policy (stay, first-wins, player-first)",
			},
			&cli.DurationFlag{
				Name:  "loop-period",
				Usage: "time between ticks, overrides the genesis file",
			},
			&cli.BoolFlag{
				Name:  "sticky",
				Usage: "keep walking in the last steered direction",
			},
			&cli.BoolFlag{
				Name:  "paused",
				Usage: "start paused",
			},
			&cli.StringFlag{
				Name:    "log-level",
				Value:   "info",
				Usage:   "log level (debug, info, warn, error)",
				Sources: cli.EnvVars("LOG_LEVEL"),
			},
			&cli.StringFlag{
				Name:    "log-format",
				Value:   "text",
				Usage:   "log format (text, json)",
				Sources: cli.EnvVars("LOG_FORMAT"),
			},
			&cli.StringFlag{
				Name:    "log-file",
				Usage:   "write logs to a rotating file",
				Sources: cli.EnvVars("LOG_FILE"),
			},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			logger.Init(logger.Options{
				Level:  cmd.String("log-level"),
				Format: cmd.String("log-format"),
				File:   cmd.String("log-file"),
			})
			return ctx, nil
		},
		Action: runTerminal,
		Commands: []*cli.Command{
			{
				Name:   "run",
				Usage:  "play in the terminal",
				Action: runTerminal,
			},
			{
				Name:  "serve",
				Usage: "run headless with a REST API, WebSocket frames and an MCP endpoint",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "addr",
						Value:   "localhost:8080",
						Usage:   "HTTP listen address",
						Sources: cli.EnvVars("ADDR"),
					},
				},
				Action: runHTTPServer,
			},
			{
				Name:   "mcp",
				Usage:  "run an MCP stdio server",
				Action: runStdioMCP,
			},
			{
				Name:   "list",
				Usage:  "list the genesis files in the config directory",
				Action: listGames,
			},
		},
	}
}

func setupFromCommand(cmd *cli.Command) setup {
	return setup{
		ConfigDir:  cmd.String("config-dir"),
		Game:       cmd.String("game"),
		File:       cmd.String("file"),
		Policy:     cmd.String("policy"),
		LoopPeriod: cmd.Duration("loop-period"),
		Sticky:     cmd.Bool("sticky"),
		Log:        logger.Component("main"),
	}
}

// start starts the game and pauses it right away when asked to
func start(ctx context.Context, cmd *cli.Command, a *app) error {
	if err := a.Game.Start(ctx, a.Genesis); err != nil {
		return err
	}
	if cmd.Bool("paused") && a.Game.State() == session.Running {
		if _, err := a.Game.TogglePause(); err != nil {
			return err
		}
	}
	return nil
}

// runTerminal plays the game on the terminal until it is over or the player quits
func runTerminal(ctx context.Context, cmd *cli.Command) error {
	// The screen owns stdout and stderr while the game runs.
	if cmd.String("log-file") == "" {
		logger.Init(logger.Options{
			Level:  cmd.String("log-level"),
			Format: cmd.String("log-format"),
			File:   AppName + ".log",
		})
	}

	s := setupFromCommand(cmd)
	a, err := initializeGame(s)
	if err != nil {
		return err
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("failed to create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("failed to initialize screen: %w", err)
	}

	renderer := terminal.NewRenderer(screen, a.Data.Height)
	a.World.SetRenderer(renderer)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := start(ctx, cmd, a); err != nil {
		screen.Fini()
		return err
	}

	console := terminal.NewConsole(screen, a.Game, a.Steering, renderer, s.Log)
	runErr := console.Run(ctx)

	a.Game.EndGame(terminal.QuitReason)
	<-a.Game.Done()
	screen.Fini()

	st := a.Game.Status()
	fmt.Printf("%s: %s after %d ticks\n", st.Name, st.Reason, st.Tick)

	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		return runErr
	}
	return nil
}

// runHTTPServer runs the world headless and serves the WebSocket hub and the
// MCP endpoint until interrupted.
func runHTTPServer(ctx context.Context, cmd *cli.Command) error {
	s := setupFromCommand(cmd)
	log := s.Log

	var a *app
	hub := websocket.NewHub(websocket.Options{
		Snapshot:  func() engine.Frame { return a.Game.Snapshot() },
		OnCommand: func(c websocket.Command) error { return a.command(c) },
		Log:       log,
	})
	s.Hooks.AfterGameOver = func(reason string) {
		hub.BroadcastEvent("game_over", reason)
	}

	a, err := initializeGame(s)
	if err != nil {
		return err
	}
	a.World.SetRenderer(hub)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	hubCtx, cancelHub := context.WithCancel(context.Background())
	defer cancelHub()
	go hub.Run(hubCtx)

	mcpServer := mcp.NewServer(a.Game, a.Steering, log)

	router := api.NewServer(api.Options{
		Service:   a.Service,
		WebSocket: hub,
		MCP:       mcpServer.HTTPHandler(),
		Log:       log,
	})

	addr := cmd.String("addr")
	httpServer := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	var wg sync.WaitGroup
	errc := make(chan error, 1)
	wg.Add(1)
	go func() {
		defer wg.Done()

		log.WithFields(logrus.Fields{
			"api":       fmt.Sprintf("http://%s/api", addr),
			"websocket": fmt.Sprintf("ws://%s/ws", addr),
			"mcp":       fmt.Sprintf("http://%s/mcp", addr),
		}).Info("HTTP server listening")

		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
	}()

	if err := start(ctx, cmd, a); err != nil {
		_ = httpServer.Close()
		wg.Wait()
		return err
	}

	var serveErr error
	select {
	case <-ctx.Done():
		log.Info("Shutting down")
	case serveErr = <-errc:
		log.WithError(serveErr).Error("HTTP server failed")
	}

	a.Game.GameOver("server stopped")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Warn("HTTP server shutdown error")
	}
	cancelHub()
	wg.Wait()

	log.Info("Server stopped")
	return serveErr
}

// runStdioMCP serves the game tools on stdin/stdout
func runStdioMCP(ctx context.Context, cmd *cli.Command) error {
	s := setupFromCommand(cmd)
	a, err := initializeGame(s)
	if err != nil {
		return err
	}

	if err := start(ctx, cmd, a); err != nil {
		return err
	}
	defer a.Game.GameOver("mcp server stopped")

	s.Log.Info("MCP stdio server ready")
	return mcp.NewServer(a.Game, a.Steering, s.Log).ServeStdio()
}

// listGames prints the genesis files found in the config directory
func listGames(ctx context.Context, cmd *cli.Command) error {
	manager, err := config.NewManager(cmd.String("config-dir"))
	if err != nil {
		return err
	}
	infos, err := manager.List()
	if err != nil {
		return err
	}
	for _, info := range infos {
		player := ""
		if info.HasPlayer {
			player = ", player"
		}
		fmt.Printf("%-16s %3dx%-3d %d entities%s  %s\n",
			info.ID, info.Width, info.Height, info.Entities, player, info.Description)
	}
	return nil
}
