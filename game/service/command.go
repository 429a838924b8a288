package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/wricardo/mcp-training/robotgrid/game/engine"
)

// Action names a robot command
type Action string

const (
	ActionForward        Action = "forward"
	ActionLeft           Action = "left"
	ActionRight          Action = "right"
	ActionReport         Action = "report"
	ActionDiagonal       Action = "diagonal"
	ActionAddObstacle    Action = "add_obstacle"
	ActionRemoveObstacle Action = "remove_obstacle"
	ActionExpand         Action = "expand"
	ActionDisplay        Action = "display"
)

// Actions lists every supported action in help order
var Actions = []Action{
	ActionForward,
	ActionLeft,
	ActionRight,
	ActionReport,
	ActionDiagonal,
	ActionAddObstacle,
	ActionRemoveObstacle,
	ActionExpand,
	ActionDisplay,
}

// Caller-level command errors. Rule violations come from the engine.
var (
	ErrUnknownCommand  = errors.New("unknown command")
	ErrMissingArgument = errors.New("missing argument")
	ErrInvalidArgument = errors.New("invalid argument")
)

// Command is a single robot instruction with its parsed arguments
type Command struct {
	Action    Action `json:"command"`
	Direction string `json:"direction,omitempty"`
	X         int    `json:"x,omitempty"`
	Y         int    `json:"y,omitempty"`
	Size      int    `json:"size,omitempty"`
}

// NewCommand builds a Command from a verb and its textual arguments, the
// shape used by the browser page and the MCP tools. Extra arguments to
// commands that take none are ignored.
func NewCommand(action string, args []string) (Command, error) {
	cmd := Command{Action: Action(strings.ToLower(strings.TrimSpace(action)))}

	switch cmd.Action {
	case ActionForward, ActionLeft, ActionRight, ActionReport, ActionDisplay:
		return cmd, nil

	case ActionDiagonal:
		if len(args) < 1 || strings.TrimSpace(args[0]) == "" {
			return Command{}, fmt.Errorf("%w: diagonal direction required", ErrMissingArgument)
		}
		cmd.Direction = strings.TrimSpace(args[0])
		return cmd, nil

	case ActionAddObstacle, ActionRemoveObstacle:
		if len(args) != 2 {
			return Command{}, fmt.Errorf("%w: two coordinates required", ErrMissingArgument)
		}
		x, errX := strconv.Atoi(strings.TrimSpace(args[0]))
		y, errY := strconv.Atoi(strings.TrimSpace(args[1]))
		if errX != nil || errY != nil {
			return Command{}, fmt.Errorf("%w: invalid coordinates %q %q", ErrInvalidArgument, args[0], args[1])
		}
		cmd.X, cmd.Y = x, y
		return cmd, nil

	case ActionExpand:
		if len(args) < 1 {
			return Command{}, fmt.Errorf("%w: grid size required", ErrMissingArgument)
		}
		size, err := strconv.Atoi(strings.TrimSpace(args[0]))
		if err != nil {
			return Command{}, fmt.Errorf("%w: invalid grid size %q", ErrInvalidArgument, args[0])
		}
		cmd.Size = size
		return cmd, nil
	}

	return Command{}, fmt.Errorf("%w '%s'", ErrUnknownCommand, cmd.Action)
}

// String renders the command the way it would be typed at the console
func (c Command) String() string {
	switch c.Action {
	case ActionDiagonal:
		return fmt.Sprintf("%s %s", c.Action, c.Direction)
	case ActionAddObstacle, ActionRemoveObstacle:
		return fmt.Sprintf("%s %d %d", c.Action, c.X, c.Y)
	case ActionExpand:
		return fmt.Sprintf("%s %d", c.Action, c.Size)
	}
	return string(c.Action)
}

// ReadOnly reports whether the command leaves robot state untouched
func (c Command) ReadOnly() bool {
	return c.Action == ActionReport || c.Action == ActionDisplay
}

// Apply runs cmd against robot and fills in the outcome. Rule violations
// are reported through result.Success and result.ErrorCode; only commands
// the robot does not understand return an error.
func Apply(robot *engine.Robot, cmd Command) (*CommandResult, error) {
	result := &CommandResult{Command: cmd.String()}

	var err error
	switch cmd.Action {
	case ActionForward:
		_, err = robot.Forward()
		result.Message = fmt.Sprintf("Moved forward to %s", robot.Position())
	case ActionLeft:
		_, err = robot.Left()
		result.Message = fmt.Sprintf("Turned left, now facing %s", robot.Heading())
	case ActionRight:
		_, err = robot.Right()
		result.Message = fmt.Sprintf("Turned right, now facing %s", robot.Heading())
	case ActionDiagonal:
		_, err = robot.DiagonalMove(cmd.Direction)
		result.Message = fmt.Sprintf("Moved diagonally %s to %s", strings.ToUpper(cmd.Direction), robot.Position())
	case ActionAddObstacle:
		_, err = robot.AddObstacle(cmd.X, cmd.Y)
		result.Message = fmt.Sprintf("Obstacle added at (%d, %d)", cmd.X, cmd.Y)
	case ActionRemoveObstacle:
		_, err = robot.RemoveObstacle(cmd.X, cmd.Y)
		result.Message = fmt.Sprintf("Obstacle removed from (%d, %d)", cmd.X, cmd.Y)
	case ActionExpand:
		_, err = robot.ExpandGrid(cmd.Size)
		result.Message = fmt.Sprintf("Grid expanded to %dx%d", robot.GridSize(), robot.GridSize())
	case ActionReport:
		report := robot.Report()
		result.Report = &report
		result.Message = report.String()
	case ActionDisplay:
		result.Grid = robot.DisplayGrid()
		result.Message = "Grid rendered"
	default:
		return nil, fmt.Errorf("%w '%s'", ErrUnknownCommand, cmd.Action)
	}

	state := robot.State()
	result.State = &state
	if err != nil {
		result.Success = false
		result.Message = err.Error()
		result.ErrorCode = engine.Code(err)
		return result, nil
	}
	result.Success = true
	return result, nil
}

// Args holds command arguments decoded from JSON. Elements may be strings
// or numbers, so both ["3", "4"] and [3, 4] decode the same way.
type Args []string

func (a *Args) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("%w: args must be an array", ErrInvalidArgument)
	}
	out := make(Args, 0, len(raw))
	for _, item := range raw {
		var s string
		if err := json.Unmarshal(item, &s); err == nil {
			out = append(out, s)
			continue
		}
		var n json.Number
		if err := json.Unmarshal(item, &n); err != nil {
			return fmt.Errorf("%w: unsupported argument %s", ErrInvalidArgument, item)
		}
		out = append(out, n.String())
	}
	*a = out
	return nil
}
