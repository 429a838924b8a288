package main

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/wricardo/mcp-training/robotgrid/game/config"
	"github.com/wricardo/mcp-training/robotgrid/game/engine"
)

func TestMinCosts_DefaultGrid(t *testing.T) {
	robot := engine.NewDefaultRobot()
	costs := minCosts(robot)

	tests := []struct {
		pos      engine.Position
		expected float64
	}{
		{engine.Position{X: 0, Y: 0}, 0},
		{engine.Position{X: 0, Y: 1}, 5},   // forward
		{engine.Position{X: 1, Y: 1}, 7.5}, // diagonal
		{engine.Position{X: 1, Y: 0}, 7},   // right, forward
		{engine.Position{X: 4, Y: 4}, 30},  // four diagonals
	}

	for _, test := range tests {
		got, ok := costs[test.pos]
		if !ok {
			t.Errorf("%s: expected reachable", test.pos)
			continue
		}
		if got != test.expected {
			t.Errorf("%s: expected cost %v, got %v", test.pos, test.expected, got)
		}
	}

	if len(costs) != 25 {
		t.Errorf("Expected all 25 cells reachable, got %d", len(costs))
	}
}

func TestAnalyze_WalledOff(t *testing.T) {
	cfg := engine.DefaultConfig()
	cfg.GridSize = 3
	cfg.Obstacles = []engine.Position{{X: 1, Y: 1}, {X: 1, Y: 2}, {X: 2, Y: 1}}

	a, err := analyze(cfg)
	if err != nil {
		t.Fatalf("analyze failed: %v", err)
	}

	if a.FreeCells != 6 {
		t.Errorf("Expected 6 free cells, got %d", a.FreeCells)
	}
	if a.Reachable != 5 {
		t.Errorf("Expected 5 reachable cells, got %d", a.Reachable)
	}
	if len(a.Unreachable) != 1 || a.Unreachable[0] != (engine.Position{X: 2, Y: 2}) {
		t.Errorf("Expected (2, 2) walled off, got %v", a.Unreachable)
	}
}

func TestAnalyze_OverBudget(t *testing.T) {
	cfg := engine.DefaultConfig()
	cfg.StartingBattery = 10

	a, err := analyze(cfg)
	if err != nil {
		t.Fatalf("analyze failed: %v", err)
	}

	over := map[engine.Position]bool{}
	for _, p := range a.OverBudget {
		over[p] = true
	}
	if !over[engine.Position{X: 4, Y: 4}] {
		t.Error("Expected (4, 4) to be over budget")
	}
	if over[engine.Position{X: 0, Y: 2}] {
		t.Error("Expected (0, 2) to be within budget")
	}
	if a.MaxCost > 10 {
		t.Errorf("MaxCost %v exceeds the starting battery", a.MaxCost)
	}
}

func TestAnalyze_InvalidConfig(t *testing.T) {
	cfg := engine.DefaultConfig()
	cfg.GridSize = 0

	if _, err := analyze(cfg); err == nil {
		t.Error("Expected error for invalid config")
	}
}

func TestAnalyze_ProjectPresets(t *testing.T) {
	paths, err := filepath.Glob(filepath.Join("..", "..", "configs", "*"))
	if err != nil {
		t.Fatal(err)
	}
	if len(paths) == 0 {
		t.Skip("no presets found")
	}

	for _, path := range paths {
		t.Run(filepath.Base(path), func(t *testing.T) {
			cfg, err := config.ParseFile(path)
			if err != nil {
				t.Fatalf("ParseFile failed: %v", err)
			}
			a, err := analyze(cfg)
			if err != nil {
				t.Fatalf("analyze failed: %v", err)
			}
			if want := cfg.GridSize*cfg.GridSize - len(cfg.Obstacles); a.FreeCells != want {
				t.Errorf("Expected %d free cells, got %d", want, a.FreeCells)
			}
			if a.Reachable+len(a.Unreachable) != a.FreeCells {
				t.Errorf("Reachable %d + walled off %d != free %d", a.Reachable, len(a.Unreachable), a.FreeCells)
			}
		})
	}
}

func TestPrintAnalysis(t *testing.T) {
	cfg := engine.DefaultConfig()
	cfg.GridSize = 3
	cfg.Obstacles = []engine.Position{{X: 1, Y: 1}, {X: 1, Y: 2}, {X: 2, Y: 1}}

	a, err := analyze(cfg)
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	printAnalysis(&buf, a)
	out := buf.String()

	expected := []string{
		"Name: default",
		"Grid Size: 3 x 3",
		"Costs: move 5, turn 2, diagonal 7.5",
		"WARNING: 1 free cells are walled off",
		"Walled off: (2, 2)",
		"Every reachable cell is within the starting battery",
	}
	for _, want := range expected {
		if !strings.Contains(out, want) {
			t.Errorf("Expected %q in output, got:\n%s", want, out)
		}
	}
}

func TestListCells(t *testing.T) {
	cells := make([]engine.Position, 7)
	for i := range cells {
		cells[i] = engine.Position{X: i}
	}

	var buf bytes.Buffer
	listCells(&buf, "Cell", cells)
	out := buf.String()

	if strings.Count(out, "Cell:") != maxListed {
		t.Errorf("Expected %d listed cells, got:\n%s", maxListed, out)
	}
	if !strings.Contains(out, "... and 2 more") {
		t.Errorf("Expected overflow line, got:\n%s", out)
	}
}
