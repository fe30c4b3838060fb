package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
	return path
}

func hasMessage(messages []string, substr string) bool {
	for _, m := range messages {
		if strings.Contains(m, substr) {
			return true
		}
	}
	return false
}

const validYAML = `name: Test Config
description: Test configuration
width: 5
height: 4
layout:
  - "#####"
  - "#..*#"
  - "#...#"
  - "#####"
entities:
  - {x: 2, y: 2, type: wanderer}
player: {x: 1, y: 1, type: player}
`

func TestValidateConfig_ValidConfig(t *testing.T) {
	path := writeConfig(t, "valid.yaml", validYAML)

	result := validateConfig(path)
	if !result.Valid {
		t.Fatalf("Expected valid config, but got errors: %v", result.Errors)
	}
	if result.File != "valid.yaml" {
		t.Errorf("Expected file name valid.yaml, got %s", result.File)
	}
	if !hasMessage(result.Info, "all 1 goals reachable") {
		t.Errorf("Expected connectivity info, got %v", result.Info)
	}
	if !hasMessage(result.Info, "Entities: 2") {
		t.Errorf("Expected entity count, got %v", result.Info)
	}
}

func TestValidateConfig_Invalid(t *testing.T) {
	tests := []struct {
		name     string
		file     string
		content  string
		expected string
	}{
		{
			name:     "bad json",
			file:     "bad.json",
			content:  `{"name": "test", invalid json}`,
			expected: "Invalid genesis data",
		},
		{
			name:     "no name",
			file:     "noname.yaml",
			content:  "width: 3\nheight: 3\n",
			expected: "Invalid genesis data",
		},
		{
			name:     "unknown entity type",
			file:     "unknown.yaml",
			content:  "name: x\nwidth: 3\nheight: 1\nentities:\n  - {x: 0, y: 0, type: dragon}\n",
			expected: "Unresolvable",
		},
		{
			name:     "bad params",
			file:     "params.yaml",
			content:  "name: x\nwidth: 3\nheight: 1\nentities:\n  - {x: 0, y: 0, type: wanderer, params: {chance: 2}}\n",
			expected: "Unresolvable",
		},
		{
			name:     "unknown policy",
			file:     "policy.yaml",
			content:  "name: x\nwidth: 3\nheight: 1\npolicy: coin-toss\n",
			expected: "Invalid policy",
		},
		{
			name:     "overlapping entities",
			file:     "overlap.yaml",
			content:  "name: x\nwidth: 3\nheight: 1\nentities:\n  - {x: 1, y: 0, type: stone}\n  - {x: 1, y: 0, type: stone}\n",
			expected: "Placement rejected at (1,0)",
		},
		{
			name:     "entity in a wall",
			file:     "wall.yaml",
			content:  "name: x\nwidth: 3\nheight: 1\nlayout: [\".#.\"]\nentities:\n  - {x: 1, y: 0, type: stone}\n",
			expected: "Placement rejected",
		},
		{
			name:     "goal behind water",
			file:     "island.yaml",
			content:  "name: x\nwidth: 5\nheight: 1\nlayout: [\"..~.*\"]\nplayer: {x: 0, y: 0, type: player}\n",
			expected: "1/1 goals unreachable",
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			result := validateConfig(writeConfig(t, test.file, test.content))
			if result.Valid {
				t.Fatal("Expected invalid config")
			}
			if !hasMessage(result.Errors, test.expected) {
				t.Errorf("Expected an error containing %q, got %v", test.expected, result.Errors)
			}
		})
	}
}

func TestValidateConfig_MissingFile(t *testing.T) {
	result := validateConfig("/non/existent/file.json")
	if result.Valid {
		t.Error("Expected invalid result for missing file")
	}
	if !hasMessage(result.Errors, "Failed to read file") {
		t.Errorf("Expected 'Failed to read file' error, got %v", result.Errors)
	}
}

func TestValidateConnectivity_NoGoal(t *testing.T) {
	path := writeConfig(t, "open.yaml", "name: open\nwidth: 3\nheight: 2\nplayer: {x: 0, y: 0, type: player}\n")

	result := validateConfig(path)
	if !result.Valid {
		t.Fatalf("Expected valid config, got %v", result.Errors)
	}
	if !hasMessage(result.Info, "No goal") {
		t.Errorf("Expected a no-goal note, got %v", result.Info)
	}
}

func TestFindConfigs(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.yaml", "a.json", "c.toml", "notes.txt"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("{}"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	files, err := findConfigs(dir)
	if err != nil {
		t.Fatalf("findConfigs failed: %v", err)
	}
	if len(files) != 3 {
		t.Fatalf("Expected 3 files, got %v", files)
	}
	if filepath.Base(files[0]) != "a.json" {
		t.Errorf("Expected sorted files, got %v", files)
	}
}

func TestShippedConfigsAreValid(t *testing.T) {
	files, err := findConfigs(filepath.Join("..", "configs"))
	if err != nil {
		t.Fatalf("findConfigs failed: %v", err)
	}
	if len(files) == 0 {
		t.Skip("no configs directory")
	}

	for _, file := range files {
		t.Run(filepath.Base(file), func(t *testing.T) {
			result := validateConfig(file)
			if !result.Valid {
				t.Errorf("Expected valid config, got %v", result.Errors)
			}
		})
	}
}
