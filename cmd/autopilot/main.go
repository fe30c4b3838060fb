// Command autopilot drives the player of a running `wandrian serve` to the
// nearest goal. It pauses the run, then repeatedly reads the world, plans the
// shortest route around walls and hazards, steers one step and advances a
// single tick until the run ends.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v3"

	"github.com/wricardo/wandrian/game/session"
	"github.com/wricardo/wandrian/logger"
)

var ErrGaveUp = errors.New("move limit reached")

// Pilot is one autopilot run against a server
type Pilot struct {
	Client   *Client
	Planner  *Planner
	MaxMoves int
	Delay    time.Duration
	Log      *logrus.Entry
}

// Drive takes over the run and returns its final status and the number of
// moves made.
func (p *Pilot) Drive(ctx context.Context) (*session.Status, int, error) {
	st, err := p.Client.Status(ctx)
	if err != nil {
		return nil, 0, err
	}
	switch st.State {
	case session.Over:
		return st, 0, session.ErrGameOver
	case session.Running:
		if _, err := p.Client.TogglePause(ctx); err != nil {
			return st, 0, fmt.Errorf("pause run: %w", err)
		}
		p.Log.Info("Paused the run, stepping manually")
	}

	for moves := 0; moves < p.MaxMoves; moves++ {
		frame, err := p.Client.World(ctx)
		if err != nil {
			return st, moves, err
		}
		dir, left, err := p.Planner.Next(frame)
		if err != nil {
			return st, moves, err
		}
		if err := p.Client.Steer(ctx, dir); err != nil {
			return st, moves, err
		}
		result, err := p.Client.Step(ctx)
		if err != nil {
			return st, moves, err
		}
		st = &result.Status

		p.Log.WithFields(logrus.Fields{
			"tick":      st.Tick,
			"direction": dir,
			"remaining": left - 1,
		}).Debug("Stepped")

		if st.State == session.Over {
			return st, moves + 1, nil
		}

		if p.Delay > 0 {
			select {
			case <-ctx.Done():
				return st, moves + 1, ctx.Err()
			case <-time.After(p.Delay):
			}
		}
	}
	return st, p.MaxMoves, ErrGaveUp
}

func run(ctx context.Context, cmd *cli.Command) error {
	log := logger.Init(logger.Options{Level: cmd.String("log-level")})
	pilot := &Pilot{
		Client:   NewClient(cmd.String("url")),
		Planner:  NewPlanner(cmd.String("target"), cmd.StringSlice("avoid")...),
		MaxMoves: int(cmd.Int("max-moves")),
		Delay:    cmd.Duration("delay"),
		Log:      log.WithField("component", "autopilot"),
	}

	log.WithField("url", cmd.String("url")).Info("Connecting to game server")
	st, moves, err := pilot.Drive(ctx)
	if err != nil {
		return cli.Exit(fmt.Sprintf("autopilot stopped after %d moves: %v", moves, err), 1)
	}
	fmt.Printf("%s: %s after %d moves (tick %d)\n", st.State, st.Reason, moves, st.Tick)
	return nil
}

func main() {
	cmd := &cli.Command{
		Name:  "autopilot",
		Usage: "Steer the player of a running server to the nearest goal",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "url",
				Value:   "http://localhost:8080",
				Usage:   "game server URL",
				Sources: cli.EnvVars("WANDRIAN_URL"),
			},
			&cli.StringFlag{
				Name:  "target",
				Value: "goal",
				Usage: "square kind to head for",
			},
			&cli.StringSliceFlag{
				Name:  "avoid",
				Usage: "square kinds never stepped on, even when walkable",
			},
			&cli.IntFlag{
				Name:  "max-moves",
				Value: 1000,
				Usage: "give up after this many moves",
			},
			&cli.DurationFlag{
				Name:  "delay",
				Usage: "pause between moves",
			},
			&cli.StringFlag{
				Name:    "log-level",
				Value:   "info",
				Sources: cli.EnvVars("LOG_LEVEL"),
			},
		},
		Action: run,
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
