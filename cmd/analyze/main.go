// Command analyze prints quick, human-readable heuristics about genesis
// files. It summarizes dimensions, square and entity kinds, how the walkable
// area splits into regions and how far the player is from each goal, and
// highlights goals the player cannot reach.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/urfave/cli/v3"

	"github.com/wricardo/wandrian/game/catalog"
	"github.com/wricardo/wandrian/game/config"
	"github.com/wricardo/wandrian/game/engine"
)

// Analysis is what analyze finds in one genesis file
type Analysis struct {
	Name   string
	Width  int
	Height int

	Squares  map[string]int
	Entities map[string]int

	Walkable int
	Regions  int

	Player           *engine.Position
	Goals            []engine.Position
	GoalDistances    []int
	UnreachableGoals []engine.Position

	// Rejected counts placements the world refused at genesis.
	Rejected int
	Map      string
}

func analyzeConfig(path string) (*Analysis, error) {
	data, err := config.LoadFile(path)
	if err != nil {
		return nil, err
	}
	gen, err := catalog.Default().Resolve(data, catalog.Env{})
	if err != nil {
		return nil, err
	}

	rec := engine.NewRecorder(0)
	world, err := engine.NewWorld(data.Width, data.Height, engine.WithReporter(rec))
	if err != nil {
		return nil, err
	}
	if err := world.Genesis(gen); err != nil {
		return nil, err
	}

	a := &Analysis{
		Name:     data.Name,
		Width:    data.Width,
		Height:   data.Height,
		Squares:  make(map[string]int),
		Entities: make(map[string]int),
		Rejected: rec.Total(),
		Map:      world.ASCII(),
	}

	seen := make(map[engine.Position]bool)
	for _, sq := range world.Squares() {
		a.Squares[sq.Kind()]++
		if sq.Kind() == "goal" {
			a.Goals = append(a.Goals, sq.Position())
		}
		if sq.Blocking() {
			continue
		}
		a.Walkable++
		if !seen[sq.Position()] {
			a.Regions++
			for p := range engine.Reachable(world, sq.Position()) {
				seen[p] = true
			}
		}
	}

	for _, e := range world.Entities() {
		a.Entities[e.Kind()]++
	}

	if player := world.Player(); player != nil {
		from, _ := world.PositionOf(player)
		a.Player = &from
		reached := engine.Reachable(world, from)
		for _, g := range a.Goals {
			a.GoalDistances = append(a.GoalDistances, engine.ManhattanDistance(from, g))
			if !reached[g] {
				a.UnreachableGoals = append(a.UnreachableGoals, g)
			}
		}
	}

	return a, nil
}

func printAnalysis(w io.Writer, a *Analysis, showMap bool) {
	fmt.Fprintf(w, "Name: %s\n", a.Name)
	fmt.Fprintf(w, "Grid Size: %d x %d\n", a.Width, a.Height)
	fmt.Fprintf(w, "Squares: %s\n", formatCounts(a.Squares))
	fmt.Fprintf(w, "Entities: %s\n", formatCounts(a.Entities))
	fmt.Fprintf(w, "Walkable: %d of %d squares in %d region(s)\n", a.Walkable, a.Width*a.Height, a.Regions)

	if a.Rejected > 0 {
		fmt.Fprintf(w, "⚠️  WARNING: %d placement(s) rejected at genesis\n", a.Rejected)
	}

	switch {
	case a.Player == nil:
		fmt.Fprintf(w, "No player\n")
	case len(a.Goals) == 0:
		fmt.Fprintf(w, "Player at %s, no goal\n", a.Player)
	default:
		fmt.Fprintf(w, "Player at %s\n", a.Player)
		for i, g := range a.Goals {
			fmt.Fprintf(w, "   Goal at %s, %d steps away as the crow flies\n", g, a.GoalDistances[i])
		}
		if len(a.UnreachableGoals) > 0 {
			fmt.Fprintf(w, "⚠️  CRITICAL: %d goal(s) unreachable from the player!\n", len(a.UnreachableGoals))
			for _, g := range a.UnreachableGoals {
				fmt.Fprintf(w, "   Unreachable Goal: %s\n", g)
			}
		} else {
			fmt.Fprintf(w, "✅ All goals are reachable from the player\n")
		}
	}

	if showMap {
		fmt.Fprintf(w, "\n%s", a.Map)
	}
}

func formatCounts(counts map[string]int) string {
	if len(counts) == 0 {
		return "none"
	}
	kinds := make([]string, 0, len(counts))
	for k := range counts {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)

	out := ""
	for i, k := range kinds {
		if i > 0 {
			out += ", "
		}
		out += fmt.Sprintf("%s=%d", k, counts[k])
	}
	return out
}

func run(ctx context.Context, cmd *cli.Command) error {
	files := cmd.Args().Slice()
	if len(files) == 0 {
		dir := cmd.String("config-dir")
		for _, ext := range config.Extensions {
			matches, err := filepath.Glob(filepath.Join(dir, "*"+ext))
			if err != nil {
				return err
			}
			files = append(files, matches...)
		}
		sort.Strings(files)
	}

	for _, file := range files {
		fmt.Printf("\n=== Analyzing %s ===\n", filepath.Base(file))
		a, err := analyzeConfig(file)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			continue
		}
		printAnalysis(os.Stdout, a, cmd.Bool("map"))
	}
	return nil
}

func main() {
	cmd := &cli.Command{
		Name:      "analyze",
		Usage:     "print heuristics about genesis files",
		ArgsUsage: "[file...]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config-dir",
				Value:   "configs",
				Usage:   "directory scanned when no files are given",
				Sources: cli.EnvVars("CONFIG_DIR"),
			},
			&cli.BoolFlag{
				Name:  "map",
				Usage: "print the world as text",
			},
		},
		Action: run,
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
