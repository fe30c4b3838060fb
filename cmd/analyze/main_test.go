package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/wricardo/wandrian/game/engine"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
	return path
}

const islandYAML = `name: Islands
width: 7
height: 3
layout:
  - "..~...*"
  - "..~~~~~"
  - "..~.*.."
entities:
  - {x: 1, y: 1, type: stone}
  - {x: 5, y: 2, type: wanderer}
player: {x: 0, y: 0, type: player}
`

func TestAnalyzeConfig(t *testing.T) {
	a, err := analyzeConfig(writeConfig(t, "islands.yaml", islandYAML))
	if err != nil {
		t.Fatalf("analyzeConfig failed: %v", err)
	}

	if a.Name != "Islands" || a.Width != 7 || a.Height != 3 {
		t.Errorf("unexpected header %s %dx%d", a.Name, a.Width, a.Height)
	}
	if a.Squares["water"] != 7 || a.Squares["goal"] != 2 || a.Squares["floor"] != 12 {
		t.Errorf("unexpected square counts %v", a.Squares)
	}
	if a.Entities["stone"] != 1 || a.Entities["wanderer"] != 1 || a.Entities["player"] != 1 {
		t.Errorf("unexpected entity counts %v", a.Entities)
	}
	if a.Walkable != 14 {
		t.Errorf("expected 14 walkable squares, got %d", a.Walkable)
	}
	if a.Regions != 3 {
		t.Errorf("expected 3 regions, got %d", a.Regions)
	}
	if a.Player == nil || *a.Player != (engine.Position{X: 0, Y: 0}) {
		t.Fatalf("unexpected player position %v", a.Player)
	}
	if len(a.Goals) != 2 || a.GoalDistances[0] != 6 || a.GoalDistances[1] != 6 {
		t.Errorf("unexpected goals %v at %v", a.Goals, a.GoalDistances)
	}
	if len(a.UnreachableGoals) != 2 {
		t.Errorf("expected both goals unreachable, got %v", a.UnreachableGoals)
	}
	if a.Rejected != 0 {
		t.Errorf("expected no rejected placements, got %d", a.Rejected)
	}
}

func TestAnalyzeConfig_Errors(t *testing.T) {
	if _, err := analyzeConfig("/non/existent/file.yaml"); err == nil {
		t.Error("expected an error for a missing file")
	}
	path := writeConfig(t, "dragon.yaml", "name: x\nwidth: 2\nheight: 1\nentities:\n  - {x: 0, y: 0, type: dragon}\n")
	if _, err := analyzeConfig(path); err == nil {
		t.Error("expected an error for an unknown type")
	}
}

func TestPrintAnalysis(t *testing.T) {
	a, err := analyzeConfig(writeConfig(t, "islands.yaml", islandYAML))
	if err != nil {
		t.Fatalf("analyzeConfig failed: %v", err)
	}

	var buf bytes.Buffer
	printAnalysis(&buf, a, true)
	out := buf.String()

	for _, want := range []string{
		"Name: Islands",
		"Grid Size: 7 x 3",
		"Entities: player=1, stone=1, wanderer=1",
		"in 3 region(s)",
		"2 goal(s) unreachable",
		"Unreachable Goal: (6,0)",
		"@.~...*\n",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output is missing %q:\n%s", want, out)
		}
	}
}

func TestFormatCounts(t *testing.T) {
	tests := []struct {
		input    map[string]int
		expected string
	}{
		{nil, "none"},
		{map[string]int{"wall": 2}, "wall=2"},
		{map[string]int{"wall": 2, "floor": 5}, "floor=5, wall=2"},
	}

	for _, test := range tests {
		if got := formatCounts(test.input); got != test.expected {
			t.Errorf("formatCounts(%v) = %q, expected %q", test.input, got, test.expected)
		}
	}
}
