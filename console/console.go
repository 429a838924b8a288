// Package console implements the interactive line-based robot console.
package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog"
	"github.com/wricardo/mcp-training/robotgrid/game/service"
)

const prompt = "Enter command: "

const banner = `=== Robot Grid Simulator ===
Commands: forward, left, right, report, display, diagonal <direction>,
          add_obstacle <x> <y>, remove_obstacle <x> <y>, expand <size>
Diagonal directions: NE, NW, SE, SW (or northeast, northwest, southeast, southwest)
Type 'help' for costs, 'quit' to exit
`

const help = `Commands:
  forward                 move one cell ahead
  left | right            turn 90 degrees in place
  diagonal <dir>          move one cell NE, NW, SE or SW
  add_obstacle <x> <y>    place an obstacle
  remove_obstacle <x> <y> remove an obstacle
  expand <size>           grow the grid to size x size
  report                  print position, heading and battery
  display                 draw the grid
  quit | exit             leave the console
`

// Console drives one session of a SimulationService from text input
type Console struct {
	svc       service.SimulationService
	sessionID string
	logger    zerolog.Logger
}

// New returns a console bound to sessionID
func New(svc service.SimulationService, sessionID string, logger zerolog.Logger) *Console {
	return &Console{
		svc:       svc,
		sessionID: sessionID,
		logger:    logger,
	}
}

// Run reads commands from in until quit, end of input or ctx is done,
// printing results and the grid after every command to out.
func (c *Console) Run(ctx context.Context, in io.Reader, out io.Writer) error {
	fmt.Fprintln(out, banner)
	if err := c.display(ctx, out); err != nil {
		return err
	}

	scanner := bufio.NewScanner(in)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		fmt.Fprint(out, prompt)
		if !scanner.Scan() {
			fmt.Fprintln(out, "\nGoodbye!")
			return scanner.Err()
		}

		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}

		verb, args, err := Parse(text)
		if err != nil {
			fmt.Fprintf(out, "ERROR: invalid input %q\n", text)
			c.logger.Debug().Err(err).Str("input", text).Msg("parse failed")
			continue
		}

		switch verb {
		case "quit", "exit":
			fmt.Fprintln(out, "Goodbye!")
			return nil
		case "help":
			fmt.Fprint(out, help)
			continue
		}

		if err := c.execute(ctx, out, verb, args); err != nil {
			return err
		}
		if err := c.display(ctx, out); err != nil {
			return err
		}
	}
}

// execute runs one command. Only session errors are returned; command and
// rule errors are printed.
func (c *Console) execute(ctx context.Context, out io.Writer, verb string, args []string) error {
	cmd, err := service.NewCommand(verb, args)
	if err != nil {
		fmt.Fprintf(out, "ERROR: %s\n", err)
		return nil
	}

	result, err := c.svc.Execute(ctx, c.sessionID, cmd)
	if err != nil {
		return err
	}

	c.logger.Debug().
		Str("command", result.Command).
		Bool("success", result.Success).
		Str("code", result.ErrorCode).
		Msg("console command")

	switch {
	case !result.Success:
		fmt.Fprintf(out, "ERROR: %s\n", result.Message)
	case cmd.Action != service.ActionDisplay:
		fmt.Fprintln(out, result.Message)
	}
	return nil
}

func (c *Console) display(ctx context.Context, out io.Writer) error {
	grid, err := c.svc.RenderGrid(ctx, c.sessionID)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "\n%s\n", grid)
	return nil
}
