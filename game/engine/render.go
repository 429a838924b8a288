package engine

import (
	"strconv"
	"strings"
)

// DisplayGrid renders the grid as text. The top row is y = N-1; the robot
// is drawn as an arrow for its heading and obstacles as X.
func (r *Robot) DisplayGrid() string {
	return RenderGrid(r.State())
}

// RenderGrid draws a snapshot the same way Robot.DisplayGrid does
func RenderGrid(s Snapshot) string {
	width := s.GridSize*4 + 1
	blocked := make(map[Position]bool, len(s.Obstacles))
	for _, o := range s.Obstacles {
		blocked[o] = true
	}

	var b strings.Builder

	b.WriteString(strings.Repeat("=", width))
	b.WriteByte('\n')
	for y := s.GridSize - 1; y >= 0; y-- {
		b.WriteByte('|')
		for x := 0; x < s.GridSize; x++ {
			p := Position{X: x, Y: y}
			switch {
			case p == s.Position:
				b.WriteString(" " + s.Heading.Arrow() + " |")
			case blocked[p]:
				b.WriteString(" X |")
			default:
				b.WriteString("   |")
			}
		}
		b.WriteByte('\n')
		if y > 0 {
			b.WriteString(strings.Repeat("-", width))
			b.WriteByte('\n')
		}
	}
	b.WriteString(strings.Repeat("=", width))
	b.WriteByte('\n')
	b.WriteString("Battery: " + FormatBattery(s.Battery) + "%\n")

	return b.String()
}

// FormatBattery prints a battery value without trailing zeros (85.5, 100)
func FormatBattery(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
