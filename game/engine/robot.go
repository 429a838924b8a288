package engine

import (
	"fmt"
	"math"
	"sort"

	"github.com/zyedidia/generic/mapset"
)

// Robot is the state machine for a single robot on an N×N grid.
// It is not safe for concurrent use; callers serialize access.
type Robot struct {
	position  Position
	heading   Heading
	gridSize  int
	battery   float64
	obstacles mapset.Set[Position]
	costs     Costs
}

// NewRobot creates a robot initialized from the provided configuration.
// A nil config yields the default robot.
func NewRobot(config *RobotConfig) (*Robot, error) {
	if config == nil {
		config = DefaultConfig()
	}
	if err := ValidateRobotConfig(config); err != nil {
		return nil, err
	}

	heading := North
	if config.StartHeading != "" {
		h, err := ParseHeading(config.StartHeading)
		if err != nil {
			return nil, fmt.Errorf("start_heading: %w", err)
		}
		heading = h
	}
	costs := DefaultCosts()
	if config.Costs != nil {
		costs = *config.Costs
	}

	r := &Robot{
		position:  config.Start,
		heading:   heading,
		gridSize:  config.GridSize,
		battery:   config.StartingBattery,
		obstacles: mapset.New[Position](),
		costs:     costs,
	}
	for _, o := range config.Obstacles {
		r.obstacles.Put(o)
	}
	return r, nil
}

// NewDefaultRobot creates a robot at (0,0) facing NORTH with a full battery
// on an empty 5×5 grid
func NewDefaultRobot() *Robot {
	r, _ := NewRobot(DefaultConfig())
	return r
}

// Forward moves the robot one cell along its heading
func (r *Robot) Forward() (Snapshot, error) {
	next := r.position.Add(r.heading.Delta())
	if err := r.checkStep(next, r.costs.Move); err != nil {
		return Snapshot{}, err
	}
	r.position = next
	r.consume(r.costs.Move)
	return r.State(), nil
}

// Left rotates the heading 90 degrees counter-clockwise
func (r *Robot) Left() (Snapshot, error) {
	return r.turn(r.heading.Left())
}

// Right rotates the heading 90 degrees clockwise
func (r *Robot) Right() (Snapshot, error) {
	return r.turn(r.heading.Right())
}

func (r *Robot) turn(to Heading) (Snapshot, error) {
	if err := r.checkBattery(r.costs.Turn); err != nil {
		return Snapshot{}, err
	}
	r.heading = to
	r.consume(r.costs.Turn)
	return r.State(), nil
}

// DiagonalMove moves one cell in an intercardinal direction without
// changing the heading
func (r *Robot) DiagonalMove(direction string) (Snapshot, error) {
	d, err := ParseDiagonal(direction)
	if err != nil {
		return Snapshot{}, err
	}
	next := r.position.Add(diagonalDeltas[d])
	if err := r.checkStep(next, r.costs.Diagonal); err != nil {
		return Snapshot{}, err
	}
	r.position = next
	r.consume(r.costs.Diagonal)
	return r.State(), nil
}

// Report returns the current position, heading and battery
func (r *Robot) Report() Report {
	return Report{
		Position: r.position,
		Heading:  r.heading,
		Battery:  r.battery,
	}
}

// AddObstacle blocks the cell at (x, y). Adding an obstacle that is
// already present succeeds without changing anything.
func (r *Robot) AddObstacle(x, y int) (Snapshot, error) {
	p := Position{X: x, Y: y}
	if !r.Contains(p) {
		return Snapshot{}, fmt.Errorf("%w: %s on a %dx%d grid", ErrOutOfBounds, p, r.gridSize, r.gridSize)
	}
	if p == r.position {
		return Snapshot{}, fmt.Errorf("%w: %s", ErrOccupiedByRobot, p)
	}
	r.obstacles.Put(p)
	return r.State(), nil
}

// RemoveObstacle clears the obstacle at (x, y)
func (r *Robot) RemoveObstacle(x, y int) (Snapshot, error) {
	p := Position{X: x, Y: y}
	if !r.obstacles.Has(p) {
		return Snapshot{}, fmt.Errorf("%w: %s", ErrObstacleNotFound, p)
	}
	r.obstacles.Remove(p)
	return r.State(), nil
}

// ExpandGrid grows the grid to newSize×newSize, up to MaxGridSize.
// Shrinking is not supported.
func (r *Robot) ExpandGrid(newSize int) (Snapshot, error) {
	if newSize <= r.gridSize {
		return Snapshot{}, fmt.Errorf("%w: requested %d, current %d", ErrInvalidSize, newSize, r.gridSize)
	}
	if newSize > MaxGridSize {
		return Snapshot{}, fmt.Errorf("%w: requested %d, maximum %d", ErrInvalidSize, newSize, MaxGridSize)
	}
	r.gridSize = newSize
	return r.State(), nil
}

// State returns a snapshot of the full robot state. Obstacles are
// ordered by y, then x.
func (r *Robot) State() Snapshot {
	obstacles := make([]Position, 0, r.obstacles.Size())
	r.obstacles.Each(func(p Position) {
		obstacles = append(obstacles, p)
	})
	sort.Slice(obstacles, func(i, j int) bool {
		if obstacles[i].Y != obstacles[j].Y {
			return obstacles[i].Y < obstacles[j].Y
		}
		return obstacles[i].X < obstacles[j].X
	})

	return Snapshot{
		Position:  r.position,
		Heading:   r.heading,
		Battery:   r.battery,
		GridSize:  r.gridSize,
		Obstacles: obstacles,
	}
}

// Position returns the robot's current cell
func (r *Robot) Position() Position {
	return r.position
}

// Heading returns the direction the robot faces
func (r *Robot) Heading() Heading {
	return r.heading
}

// Battery returns the remaining battery percentage
func (r *Robot) Battery() float64 {
	return r.battery
}

// GridSize returns the current grid dimension
func (r *Robot) GridSize() int {
	return r.gridSize
}

// Costs returns the battery cost table in effect
func (r *Robot) Costs() Costs {
	return r.costs
}

// IsObstacle checks if the cell at p is blocked
func (r *Robot) IsObstacle(p Position) bool {
	return r.obstacles.Has(p)
}

// Contains checks if p lies within the current grid
func (r *Robot) Contains(p Position) bool {
	return p.X >= 0 && p.X < r.gridSize && p.Y >= 0 && p.Y < r.gridSize
}

// checkStep validates a move to next. Boundary is checked before
// obstacles, and both before battery.
func (r *Robot) checkStep(next Position, cost float64) error {
	if !r.Contains(next) {
		return fmt.Errorf("%w: %s is outside the %dx%d grid", ErrBoundary, next, r.gridSize, r.gridSize)
	}
	if r.obstacles.Has(next) {
		return fmt.Errorf("%w: %s is blocked", ErrObstacle, next)
	}
	return r.checkBattery(cost)
}

func (r *Robot) checkBattery(cost float64) error {
	if r.battery < cost {
		return fmt.Errorf("%w: need %s%%, have %s%%", ErrBattery, FormatBattery(cost), FormatBattery(r.battery))
	}
	return nil
}

func (r *Robot) consume(cost float64) {
	r.battery = math.Max(0, r.battery-cost)
}
