package engine

import "errors"

var (
	ErrBoundary         = errors.New("cannot move outside grid boundaries")
	ErrObstacle         = errors.New("cannot move through obstacle")
	ErrBattery          = errors.New("insufficient battery")
	ErrInvalidDirection = errors.New("invalid diagonal direction")
	ErrOutOfBounds      = errors.New("position is outside the grid")
	ErrOccupiedByRobot  = errors.New("cannot place obstacle on robot position")
	ErrObstacleNotFound = errors.New("no obstacle at specified position")
	ErrInvalidSize      = errors.New("new grid size must be larger than current size")
)

// Error codes reported to API and MCP clients
const (
	CodeBoundary         = "boundary"
	CodeObstacle         = "obstacle"
	CodeBattery          = "battery"
	CodeInvalidDirection = "invalid_direction"
	CodeOutOfBounds      = "out_of_bounds"
	CodeOccupiedByRobot  = "occupied_by_robot"
	CodeNotFound         = "not_found"
	CodeInvalidSize      = "invalid_size"
)

var errorCodes = []struct {
	err  error
	code string
}{
	{ErrBoundary, CodeBoundary},
	{ErrObstacle, CodeObstacle},
	{ErrBattery, CodeBattery},
	{ErrInvalidDirection, CodeInvalidDirection},
	{ErrOutOfBounds, CodeOutOfBounds},
	{ErrOccupiedByRobot, CodeOccupiedByRobot},
	{ErrObstacleNotFound, CodeNotFound},
	{ErrInvalidSize, CodeInvalidSize},
}

// Code maps a robot rule violation to its machine-friendly code.
// It returns "" for nil and for errors that did not come from the engine.
func Code(err error) string {
	if err == nil {
		return ""
	}
	for _, ec := range errorCodes {
		if errors.Is(err, ec.err) {
			return ec.code
		}
	}
	return ""
}
