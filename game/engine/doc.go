// Package engine provides the robot state machine for the grid simulator.
//
// The engine package implements:
//   - Heading rotation and forward/diagonal movement on an N×N grid
//   - Boundary and obstacle checks
//   - Battery accounting per action type
//   - Obstacle placement/removal and grid expansion
//   - Text rendering of the grid
//
// Core Types:
//
// Robot owns position, heading, battery, grid size and the obstacle set.
// Every mutating method validates its preconditions first; on failure the
// robot is left untouched and a wrapped sentinel error (ErrBoundary,
// ErrObstacle, ErrBattery, ...) is returned. Snapshot and Report are value
// copies handed to callers. RobotConfig describes a starting layout and is
// what presets on disk decode into.
//
// Usage:
//
//	robot := engine.NewDefaultRobot()
//
//	if _, err := robot.Forward(); err != nil {
//		log.Println(err)
//	}
//	robot.Right()
//	robot.DiagonalMove("SE")
//	fmt.Print(robot.DisplayGrid())
//
// Coordinates:
//
// (0,0) is the bottom-left cell. NORTH increases y and EAST increases x.
// Robot is not safe for concurrent use; callers that share one must
// serialize access themselves.
package engine
