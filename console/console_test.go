package console

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wricardo/mcp-training/robotgrid/game/config"
	"github.com/wricardo/mcp-training/robotgrid/game/service"
	"github.com/wricardo/mcp-training/robotgrid/game/session"
)

func TestParse(t *testing.T) {
	tests := []struct {
		input string
		verb  string
		args  []string
	}{
		{"forward", "forward", []string{}},
		{"  DIAGONAL NE ", "diagonal", []string{"ne"}},
		{"diagonal northeast", "diagonal", []string{"northeast"}},
		{"add_obstacle 2 3", "add_obstacle", []string{"2", "3"}},
		{"add_obstacle 2, 3", "add_obstacle", []string{"2", "3"}},
		{"remove_obstacle -1 0", "remove_obstacle", []string{"-1", "0"}},
		{"expand 7.5", "expand", []string{"7.5"}},
		{"jump", "jump", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			verb, args, err := Parse(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.verb, verb)
			assert.Equal(t, tt.args, args)
		})
	}
}

func TestParse_Errors(t *testing.T) {
	for _, input := range []string{"", "forward!", "3 forward", "add_obstacle (1, 2)"} {
		t.Run(input, func(t *testing.T) {
			_, _, err := Parse(input)
			assert.Error(t, err)
		})
	}
}

func newSession(t *testing.T, preset string) (service.SimulationService, string) {
	t.Helper()
	configs, err := config.NewManager("")
	require.NoError(t, err)

	svc := service.NewSimulationService(session.NewManager(), configs)
	info, err := svc.CreateSession(context.Background(), preset)
	require.NoError(t, err)
	return svc, info.ID
}

func run(t *testing.T, svc service.SimulationService, sessionID, input string) string {
	t.Helper()
	var out bytes.Buffer
	err := New(svc, sessionID, zerolog.Nop()).Run(context.Background(), strings.NewReader(input), &out)
	require.NoError(t, err)
	return out.String()
}

func TestConsoleRun(t *testing.T) {
	svc, id := newSession(t, "")

	input := strings.Join([]string{
		"forward",
		"",
		"report",
		"diagonal SW",
		"jump",
		"add_obstacle 1",
		"forward!",
		"help",
		"quit",
		"forward",
	}, "\n")

	out := run(t, svc, id, input)

	assert.Contains(t, out, "=== Robot Grid Simulator ===")
	assert.Contains(t, out, "Moved forward to (0, 1)")
	assert.Contains(t, out, "Position: (0, 1)\nDirection: NORTH\nBattery: 95%")
	assert.Contains(t, out, "ERROR: cannot move outside grid boundaries")
	assert.Contains(t, out, "ERROR: unknown command 'jump'")
	assert.Contains(t, out, "ERROR: missing argument: two coordinates required")
	assert.Contains(t, out, `ERROR: invalid input "forward!"`)
	assert.Contains(t, out, "remove_obstacle <x> <y>")
	assert.True(t, strings.HasSuffix(out, "Goodbye!\n"))

	// the forward after quit is never read
	state, err := svc.GetState(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, 95.0, state.Battery)
}

func TestConsoleRun_GridAfterEachCommand(t *testing.T) {
	svc, id := newSession(t, "")

	out := run(t, svc, id, "left\nright\ndisplay\nquit\n")

	// initial grid plus one per command
	assert.Equal(t, 4, strings.Count(out, "Battery: "))
	assert.NotContains(t, out, "Grid rendered")
}

func TestConsoleRun_EndOfInput(t *testing.T) {
	svc, id := newSession(t, "demo")

	out := run(t, svc, id, "diagonal ne")

	assert.Contains(t, out, "ERROR: cannot move through obstacle")
	assert.True(t, strings.HasSuffix(out, "\nGoodbye!\n"))
}

func TestConsoleRun_Cancelled(t *testing.T) {
	svc, id := newSession(t, "")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out bytes.Buffer
	err := New(svc, id, zerolog.Nop()).Run(ctx, strings.NewReader("forward\n"), &out)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestConsoleRun_UnknownSession(t *testing.T) {
	svc, _ := newSession(t, "")

	var out bytes.Buffer
	err := New(svc, "missing", zerolog.Nop()).Run(context.Background(), strings.NewReader("forward\n"), &out)
	assert.ErrorIs(t, err, service.ErrSessionNotFound)
}
