package engine

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Heading represents the compass direction the robot faces
type Heading int

const (
	North Heading = iota
	East
	South
	West
)

const (
	// Defaults for a fresh robot
	DefaultGridSize     = 5
	DefaultBattery      = 100.0
	DefaultMoveCost     = 5.0
	DefaultTurnCost     = 2.0
	DefaultDiagonalCost = DefaultMoveCost * 1.5

	// Validation constants
	MinGridSize = 1
	MaxGridSize = 100
	MinBattery  = 0.0
	MaxBattery  = 100.0
)

var headingNames = [...]string{"NORTH", "EAST", "SOUTH", "WEST"}

// headingDeltas holds the unit step for each heading; north increases y
var headingDeltas = [...]Position{
	North: {X: 0, Y: 1},
	East:  {X: 1, Y: 0},
	South: {X: 0, Y: -1},
	West:  {X: -1, Y: 0},
}

var headingArrows = [...]string{"↑", "→", "↓", "←"}

// Valid reports whether h is one of the four compass headings
func (h Heading) Valid() bool {
	return h >= North && h <= West
}

// Left returns the heading 90 degrees counter-clockwise of h
func (h Heading) Left() Heading {
	return (h + 3) % 4
}

// Right returns the heading 90 degrees clockwise of h
func (h Heading) Right() Heading {
	return (h + 1) % 4
}

// Delta returns the single-step offset for moving forward along h
func (h Heading) Delta() Position {
	return headingDeltas[h]
}

// Arrow returns the glyph used to draw the robot facing h
func (h Heading) Arrow() string {
	return headingArrows[h]
}

func (h Heading) String() string {
	if !h.Valid() {
		return fmt.Sprintf("Heading(%d)", int(h))
	}
	return headingNames[h]
}

// ParseHeading converts a heading name (case-insensitive) to a Heading
func ParseHeading(s string) (Heading, error) {
	name := strings.ToUpper(strings.TrimSpace(s))
	for i, n := range headingNames {
		if n == name {
			return Heading(i), nil
		}
	}
	return North, fmt.Errorf("unknown heading %q", s)
}

// MarshalJSON encodes the heading as its name
func (h Heading) MarshalJSON() ([]byte, error) {
	return json.Marshal(h.String())
}

// UnmarshalJSON decodes a heading name
func (h *Heading) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseHeading(s)
	if err != nil {
		return err
	}
	*h = parsed
	return nil
}

// Position represents x,y coordinates
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Add returns the position offset by d
func (p Position) Add(d Position) Position {
	return Position{X: p.X + d.X, Y: p.Y + d.Y}
}

func (p Position) String() string {
	return fmt.Sprintf("(%d, %d)", p.X, p.Y)
}

// Diagonal is one of the four intercardinal directions
type Diagonal string

const (
	NorthEast Diagonal = "NE"
	NorthWest Diagonal = "NW"
	SouthEast Diagonal = "SE"
	SouthWest Diagonal = "SW"
)

var diagonalDeltas = map[Diagonal]Position{
	NorthEast: {X: 1, Y: 1},
	NorthWest: {X: -1, Y: 1},
	SouthEast: {X: 1, Y: -1},
	SouthWest: {X: -1, Y: -1},
}

var diagonalAliases = map[string]Diagonal{
	"ne":        NorthEast,
	"northeast": NorthEast,
	"nw":        NorthWest,
	"northwest": NorthWest,
	"se":        SouthEast,
	"southeast": SouthEast,
	"sw":        SouthWest,
	"southwest": SouthWest,
}

// ParseDiagonal accepts NE/NW/SE/SW or the long names, case-insensitively
func ParseDiagonal(s string) (Diagonal, error) {
	if d, ok := diagonalAliases[strings.ToLower(strings.TrimSpace(s))]; ok {
		return d, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidDirection, s)
}

// Costs holds the battery cost of each action type
type Costs struct {
	Move     float64 `json:"move"`
	Turn     float64 `json:"turn"`
	Diagonal float64 `json:"diagonal"`
}

// DefaultCosts returns the standard action costs
func DefaultCosts() Costs {
	return Costs{
		Move:     DefaultMoveCost,
		Turn:     DefaultTurnCost,
		Diagonal: DefaultDiagonalCost,
	}
}

// Report is the position/heading/battery triple returned by Robot.Report
type Report struct {
	Position Position `json:"position"`
	Heading  Heading  `json:"direction"`
	Battery  float64  `json:"battery"`
}

func (r Report) String() string {
	return fmt.Sprintf("Position: %s\nDirection: %s\nBattery: %s%%",
		r.Position, r.Heading, FormatBattery(r.Battery))
}

// Snapshot is a copy of the complete robot state
type Snapshot struct {
	Position  Position   `json:"position"`
	Heading   Heading    `json:"direction"`
	Battery   float64    `json:"battery"`
	GridSize  int        `json:"grid_size"`
	Obstacles []Position `json:"obstacles"`
}

// HasObstacle reports whether the snapshot lists an obstacle at p
func (s Snapshot) HasObstacle(p Position) bool {
	for _, o := range s.Obstacles {
		if o == p {
			return true
		}
	}
	return false
}

// RobotConfig describes how a robot is initialized. Presets on disk
// decode into this type.
type RobotConfig struct {
	Name            string     `json:"name"`
	Description     string     `json:"description"`
	GridSize        int        `json:"grid_size"`
	StartingBattery float64    `json:"starting_battery"`
	Start           Position   `json:"start"`
	StartHeading    string     `json:"start_heading,omitempty"`
	Obstacles       []Position `json:"obstacles,omitempty"`
	Costs           *Costs     `json:"costs,omitempty"`
}
