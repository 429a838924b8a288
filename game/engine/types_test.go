package engine

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHeadingRotation(t *testing.T) {
	tests := []struct {
		heading Heading
		left    Heading
		right   Heading
	}{
		{North, West, East},
		{East, North, South},
		{South, East, West},
		{West, South, North},
	}

	for _, test := range tests {
		t.Run(test.heading.String(), func(t *testing.T) {
			assert.Equal(t, test.left, test.heading.Left())
			assert.Equal(t, test.right, test.heading.Right())
			assert.Equal(t, test.heading, test.heading.Left().Right())
		})
	}
}

func TestHeadingDelta(t *testing.T) {
	assert.Equal(t, Position{X: 0, Y: 1}, North.Delta())
	assert.Equal(t, Position{X: 1, Y: 0}, East.Delta())
	assert.Equal(t, Position{X: 0, Y: -1}, South.Delta())
	assert.Equal(t, Position{X: -1, Y: 0}, West.Delta())
}

func TestParseHeading(t *testing.T) {
	for _, name := range []string{"north", "NORTH", " North "} {
		h, err := ParseHeading(name)
		require.NoError(t, err)
		assert.Equal(t, North, h)
	}

	h, err := ParseHeading("west")
	require.NoError(t, err)
	assert.Equal(t, West, h)

	_, err = ParseHeading("up")
	assert.Error(t, err)
}

func TestHeadingString_Invalid(t *testing.T) {
	assert.Equal(t, "Heading(7)", Heading(7).String())
	assert.False(t, Heading(7).Valid())
	assert.True(t, South.Valid())
}

func TestHeadingJSON(t *testing.T) {
	data, err := json.Marshal(struct {
		H Heading `json:"h"`
	}{East})
	require.NoError(t, err)
	assert.JSONEq(t, `{"h":"EAST"}`, string(data))

	var decoded struct {
		H Heading `json:"h"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"h":"south"}`), &decoded))
	assert.Equal(t, South, decoded.H)

	assert.Error(t, json.Unmarshal([]byte(`{"h":"left"}`), &decoded))
}

func TestParseDiagonal(t *testing.T) {
	tests := []struct {
		input    string
		expected Diagonal
	}{
		{"NE", NorthEast},
		{"nw", NorthWest},
		{"SouthEast", SouthEast},
		{"southwest", SouthWest},
	}
	for _, test := range tests {
		d, err := ParseDiagonal(test.input)
		require.NoError(t, err, test.input)
		assert.Equal(t, test.expected, d)
	}

	_, err := ParseDiagonal("north")
	assert.ErrorIs(t, err, ErrInvalidDirection)
	_, err = ParseDiagonal("")
	assert.ErrorIs(t, err, ErrInvalidDirection)
}

func TestSnapshotJSON(t *testing.T) {
	snapshot := Snapshot{
		Position:  Position{X: 0, Y: 1},
		Heading:   North,
		Battery:   95,
		GridSize:  5,
		Obstacles: []Position{{X: 1, Y: 1}},
	}

	data, err := json.Marshal(snapshot)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"position": {"x": 0, "y": 1},
		"direction": "NORTH",
		"battery": 95,
		"grid_size": 5,
		"obstacles": [{"x": 1, "y": 1}]
	}`, string(data))
}

func TestCode(t *testing.T) {
	tests := []struct {
		err      error
		expected string
	}{
		{nil, ""},
		{errors.New("other"), ""},
		{ErrBoundary, CodeBoundary},
		{fmt.Errorf("%w: detail", ErrObstacle), CodeObstacle},
		{fmt.Errorf("%w: detail", ErrBattery), CodeBattery},
		{ErrInvalidDirection, CodeInvalidDirection},
		{ErrOutOfBounds, CodeOutOfBounds},
		{ErrOccupiedByRobot, CodeOccupiedByRobot},
		{ErrObstacleNotFound, CodeNotFound},
		{ErrInvalidSize, CodeInvalidSize},
	}

	for _, test := range tests {
		assert.Equal(t, test.expected, Code(test.err), "%v", test.err)
	}
}

func TestCode_FromRobot(t *testing.T) {
	robot := NewDefaultRobot()
	robot.Left()
	_, err := robot.Forward()
	assert.Equal(t, CodeBoundary, Code(err))
}
