// Command validate checks genesis files before they are played. For every
// file it verifies:
//   - the file parses and passes the structural checks of the config package
//   - every square and entity type is registered in the catalog
//   - entity parameters are accepted by their factories
//   - the collision policy exists
//   - no placement is rejected by the world (overlaps, entities inside walls)
//   - every goal square can be reached by the player over walkable squares
//
// Files are given as arguments; without arguments every genesis file in
// --config-dir is checked.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/wricardo/wandrian/game/catalog"
	"github.com/wricardo/wandrian/game/config"
	"github.com/wricardo/wandrian/game/engine"
	"github.com/wricardo/wandrian/game/policy"
)

const goalKind = "goal"

// ValidationResult captures the outcome of validating a single file.
// Info holds what was found when the file is valid.
type ValidationResult struct {
	File   string
	Valid  bool
	Errors []string
	Info   []string
}

func (r *ValidationResult) fail(format string, args ...interface{}) {
	r.Valid = false
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

// validateConfig loads and validates a single genesis file
func validateConfig(filePath string) ValidationResult {
	result := ValidationResult{
		File:   filepath.Base(filePath),
		Valid:  true,
		Errors: []string{},
	}

	data, err := config.LoadFile(filePath)
	if err != nil {
		if errors.Is(err, config.ErrConfigNotFound) {
			result.fail("Failed to read file: %v", err)
		} else {
			result.fail("Invalid genesis data: %v", err)
		}
		return result
	}

	if _, err := policy.Named(data.Policy); err != nil {
		result.fail("Invalid policy: %v", err)
	}

	gen, err := catalog.Default().Resolve(data, catalog.Env{})
	if err != nil {
		result.fail("Unresolvable: %v", err)
		return result
	}

	rec := engine.NewRecorder(0)
	world, err := engine.NewWorld(data.Width, data.Height, engine.WithReporter(rec))
	if err != nil {
		result.fail("Invalid size: %v", err)
		return result
	}
	if err := world.Genesis(gen); err != nil {
		result.fail("Genesis failed: %v", err)
		return result
	}
	for _, d := range rec.Diagnostics() {
		result.fail("Placement rejected at %s: %v", d.Position, d.Err)
	}

	if result.Valid {
		result.Info = append(result.Info, validateConnectivity(world, &result)...)
	}

	if result.Valid {
		result.Info = append(result.Info,
			fmt.Sprintf("✓ Name: %s", data.Name),
			fmt.Sprintf("✓ Grid: %dx%d", data.Width, data.Height),
			fmt.Sprintf("✓ Entities: %d", world.EntityCount()),
			fmt.Sprintf("✓ Policy: %s", data.Policy),
			fmt.Sprintf("✓ Loop period: %s", data.LoopPeriod),
		)
	}

	return result
}

// validateConnectivity ensures every goal is reachable from the player
// using 4-directional movement over walkable squares.
func validateConnectivity(world *engine.World, result *ValidationResult) []string {
	var goals []engine.Position
	for _, sq := range world.Squares() {
		if sq.Kind() == goalKind {
			goals = append(goals, sq.Position())
		}
	}

	player := world.Player()
	switch {
	case len(goals) == 0:
		return []string{"✓ No goal: the game runs until it is stopped"}
	case player == nil:
		return []string{fmt.Sprintf("✓ %d goals, no player", len(goals))}
	}

	from, _ := world.PositionOf(player)
	reached := engine.Reachable(world, from)

	var unreachable []string
	for _, g := range goals {
		if !reached[g] {
			unreachable = append(unreachable, fmt.Sprintf("Goal at %s", g))
		}
	}

	if len(unreachable) > 0 {
		result.fail("Connectivity failure: %d/%d goals unreachable from the player", len(unreachable), len(goals))
		for _, g := range unreachable {
			result.fail("Unreachable: %s", g)
		}
		return nil
	}
	return []string{fmt.Sprintf("✓ Connectivity: all %d goals reachable from the player", len(goals))}
}

// findConfigs lists the genesis files in dir
func findConfigs(dir string) ([]string, error) {
	var files []string
	for _, ext := range config.Extensions {
		matches, err := filepath.Glob(filepath.Join(dir, "*"+ext))
		if err != nil {
			return nil, err
		}
		files = append(files, matches...)
	}
	sort.Strings(files)
	return files, nil
}

func run(ctx context.Context, cmd *cli.Command) error {
	files := cmd.Args().Slice()
	if len(files) == 0 {
		var err error
		files, err = findConfigs(cmd.String("config-dir"))
		if err != nil {
			return fmt.Errorf("error finding config files: %w", err)
		}
	}
	if len(files) == 0 {
		return cli.Exit("no genesis files found", 1)
	}

	allValid := true
	for _, file := range files {
		result := validateConfig(file)

		fmt.Printf("\n%s %s\n", strings.Repeat("=", 20), result.File)

		if result.Valid {
			fmt.Println("✅ VALID")
			for _, info := range result.Info {
				fmt.Println("  " + info)
			}
		} else {
			fmt.Println("❌ INVALID")
			allValid = false
			for _, err := range result.Errors {
				fmt.Println("  ❌ " + err)
			}
		}
	}

	fmt.Printf("\n%s\n", strings.Repeat("=", 40))
	if !allValid {
		return cli.Exit("❌ Some genesis files have errors", 1)
	}
	fmt.Println("✅ All genesis files are valid!")
	return nil
}

func main() {
	cmd := &cli.Command{
		Name:      "validate",
		Usage:     "check genesis files",
		ArgsUsage: "[file...]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config-dir",
				Value:   "configs",
				Usage:   "directory scanned when no files are given",
				Sources: cli.EnvVars("CONFIG_DIR"),
			},
		},
		Action: run,
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
