// Command analyze prints quick, human-readable heuristics about robot presets
// in the project's configs directory. For each preset it summarizes the grid,
// battery and costs, and reports which free cells the robot cannot reach at
// all and which it can only reach with more battery than it starts with.
package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/wricardo/mcp-training/robotgrid/game/config"
	"github.com/wricardo/mcp-training/robotgrid/game/engine"
	"github.com/zyedidia/generic/heap"
	"github.com/zyedidia/generic/mapset"
)

// maxListed caps how many cells are printed per warning
const maxListed = 5

var diagonalSteps = []engine.Position{
	{X: 1, Y: 1},
	{X: -1, Y: 1},
	{X: 1, Y: -1},
	{X: -1, Y: -1},
}

// Analysis is the summary printed for one preset
type Analysis struct {
	Config    *engine.RobotConfig
	FreeCells int
	Reachable int
	// Unreachable cells are free but walled off by obstacles
	Unreachable []engine.Position
	// OverBudget cells are reachable but cost more than the starting battery
	OverBudget []engine.Position
	// MaxCost is the highest cheapest-path cost among cells within budget
	MaxCost float64
}

type state struct {
	pos     engine.Position
	heading engine.Heading
}

type item struct {
	state
	cost float64
}

func main() {
	paths := os.Args[1:]
	if len(paths) == 0 {
		for _, pattern := range []string{"*.json", "*.yaml", "*.yml"} {
			matches, _ := filepath.Glob(filepath.Join("configs", pattern))
			paths = append(paths, matches...)
		}
		sort.Strings(paths)
	}

	for _, path := range paths {
		fmt.Printf("\n=== Analyzing %s ===\n", path)
		cfg, err := config.ParseFile(path)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			continue
		}
		a, err := analyze(cfg)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			continue
		}
		printAnalysis(os.Stdout, a)
	}
}

// minCosts returns the cheapest battery cost to reach every reachable cell
// from the robot's starting cell and heading.
func minCosts(robot *engine.Robot) map[engine.Position]float64 {
	costs := robot.Costs()
	start := state{pos: robot.Position(), heading: robot.Heading()}

	best := map[state]float64{start: 0}
	done := mapset.New[state]()
	cells := map[engine.Position]float64{}

	queue := heap.New[item](func(a, b item) bool { return a.cost < b.cost })
	queue.Push(item{state: start})

	for queue.Size() > 0 {
		cur, _ := queue.Pop()
		if done.Has(cur.state) {
			continue
		}
		done.Put(cur.state)

		if c, ok := cells[cur.pos]; !ok || cur.cost < c {
			cells[cur.pos] = cur.cost
		}

		next := []item{
			{state{cur.pos, cur.heading.Left()}, cur.cost + costs.Turn},
			{state{cur.pos, cur.heading.Right()}, cur.cost + costs.Turn},
			{state{cur.pos.Add(cur.heading.Delta()), cur.heading}, cur.cost + costs.Move},
		}
		for _, d := range diagonalSteps {
			next = append(next, item{state{cur.pos.Add(d), cur.heading}, cur.cost + costs.Diagonal})
		}

		for _, n := range next {
			if !robot.Contains(n.pos) || robot.IsObstacle(n.pos) || done.Has(n.state) {
				continue
			}
			if c, ok := best[n.state]; ok && c <= n.cost {
				continue
			}
			best[n.state] = n.cost
			queue.Push(n)
		}
	}
	return cells
}

func analyze(cfg *engine.RobotConfig) (Analysis, error) {
	robot, err := engine.NewRobot(cfg)
	if err != nil {
		return Analysis{}, err
	}

	a := Analysis{Config: cfg}
	costs := minCosts(robot)
	battery := robot.Battery()

	for y := 0; y < robot.GridSize(); y++ {
		for x := 0; x < robot.GridSize(); x++ {
			p := engine.Position{X: x, Y: y}
			if robot.IsObstacle(p) {
				continue
			}
			a.FreeCells++

			cost, ok := costs[p]
			switch {
			case !ok:
				a.Unreachable = append(a.Unreachable, p)
			case cost > battery:
				a.Reachable++
				a.OverBudget = append(a.OverBudget, p)
			default:
				a.Reachable++
				if cost > a.MaxCost {
					a.MaxCost = cost
				}
			}
		}
	}
	return a, nil
}

func printAnalysis(w io.Writer, a Analysis) {
	cfg := a.Config
	costs := engine.DefaultCosts()
	if cfg.Costs != nil {
		costs = *cfg.Costs
	}

	fmt.Fprintf(w, "Name: %s\n", cfg.Name)
	fmt.Fprintf(w, "Grid Size: %d x %d\n", cfg.GridSize, cfg.GridSize)
	fmt.Fprintf(w, "Starting Battery: %s%%\n", engine.FormatBattery(cfg.StartingBattery))
	fmt.Fprintf(w, "Start: %s\n", cfg.Start)
	fmt.Fprintf(w, "Costs: move %s, turn %s, diagonal %s\n",
		engine.FormatBattery(costs.Move), engine.FormatBattery(costs.Turn), engine.FormatBattery(costs.Diagonal))
	fmt.Fprintf(w, "Obstacles: %d\n", len(cfg.Obstacles))
	fmt.Fprintf(w, "Free Cells: %d (reachable: %d)\n", a.FreeCells, a.Reachable)

	if len(a.Unreachable) > 0 {
		fmt.Fprintf(w, "⚠️  WARNING: %d free cells are walled off by obstacles\n", len(a.Unreachable))
		listCells(w, "Walled off", a.Unreachable)
	} else {
		fmt.Fprintf(w, "✅ Every free cell is connected to the start\n")
	}

	if len(a.OverBudget) > 0 {
		fmt.Fprintf(w, "⚠️  WARNING: %d cells cost more than the starting battery to reach\n", len(a.OverBudget))
		listCells(w, "Out of range", a.OverBudget)
	} else {
		fmt.Fprintf(w, "✅ Every reachable cell is within the starting battery (most expensive: %s%%)\n",
			engine.FormatBattery(a.MaxCost))
	}
}

func listCells(w io.Writer, label string, cells []engine.Position) {
	for i, p := range cells {
		if i == maxListed {
			fmt.Fprintf(w, "   ... and %d more\n", len(cells)-maxListed)
			return
		}
		fmt.Fprintf(w, "   %s: %s\n", label, p)
	}
}
