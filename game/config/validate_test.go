package config

import (
	"strings"
	"testing"
	"time"
)

func validData() *GameData {
	return &GameData{
		Name:   "valid",
		Width:  4,
		Height: 2,
		Layout: []string{
			"#..#",
			"#~*#",
		},
		Entities: []EntityData{{X: 1, Y: 0, Type: "stone"}},
		Player:   &EntityData{X: 2, Y: 0, Type: "player"},
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(d *GameData)
		wantErr string
	}{
		{"valid", func(d *GameData) {}, ""},
		{"missing name", func(d *GameData) { d.Name = "" }, "name is required"},
		{"zero width", func(d *GameData) { d.Width = 0 }, "width"},
		{"too tall", func(d *GameData) { d.Height = MaxWorldSize + 1 }, "height"},
		{"loop period too short", func(d *GameData) { d.LoopPeriod = time.Millisecond }, "loop_period"},
		{"negative rounds", func(d *GameData) { d.MaxRounds = -1 }, "max_resolution_rounds"},
		{"row count", func(d *GameData) { d.Layout = d.Layout[:1] }, "rows"},
		{"row width", func(d *GameData) { d.Layout[1] = "#~*" }, "row 2"},
		{"unknown character", func(d *GameData) { d.Layout[0] = "#?.#" }, "'?'"},
		{"custom legend", func(d *GameData) {
			d.Layout[0] = "#x.#"
			d.Legend = map[string]string{"x": "mud"}
		}, ""},
		{"long legend key", func(d *GameData) { d.Legend = map[string]string{"xy": "mud"} }, "single character"},
		{"square off grid", func(d *GameData) { d.Squares = []SquareData{{X: 4, Y: 0, Type: "wall"}} }, "squares[0]"},
		{"entity without type", func(d *GameData) { d.Entities[0].Type = "" }, "entities[0] has no type"},
		{"player off grid", func(d *GameData) { d.Player.Y = -1 }, "player"},
		{"no layout", func(d *GameData) { d.Layout = nil }, ""},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			d := validData()
			test.mutate(d)
			err := Validate(d)
			if test.wantErr == "" {
				if err != nil {
					t.Errorf("Expected no error, got %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), test.wantErr) {
				t.Errorf("Expected error containing %q, got %v", test.wantErr, err)
			}
		})
	}
}

func TestSquareList(t *testing.T) {
	d := validData()
	d.Legend = map[string]string{"#": "hedge"}
	d.Squares = []SquareData{{X: 1, Y: 0, Type: "goal"}}

	squares := d.SquareList()

	if len(squares) != 9 {
		t.Fatalf("Expected 8 layout squares plus 1 override, got %d", len(squares))
	}
	if squares[0].Type != "hedge" {
		t.Errorf("Expected the file legend to win over the default, got %q", squares[0].Type)
	}
	if squares[5].Type != "water" || squares[6].Type != "goal" {
		t.Errorf("Unexpected default legend mapping: %+v", squares[4:7])
	}
	if last := squares[8]; last.Type != "goal" || last.X != 1 || last.Y != 0 {
		t.Errorf("Expected explicit square last, got %+v", last)
	}
}
