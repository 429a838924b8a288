package engine

import "fmt"

// ValidateRobotConfig validates a robot configuration for correctness
func ValidateRobotConfig(config *RobotConfig) error {
	if config == nil {
		return fmt.Errorf("config validation: config is nil")
	}
	if config.Name == "" {
		return fmt.Errorf("config validation: name is required")
	}

	// Validate grid size
	if config.GridSize < MinGridSize || config.GridSize > MaxGridSize {
		return fmt.Errorf("config validation: grid_size must be between %d and %d, got %d",
			MinGridSize, MaxGridSize, config.GridSize)
	}

	// Validate battery
	if config.StartingBattery < MinBattery || config.StartingBattery > MaxBattery {
		return fmt.Errorf("config validation: starting_battery must be between %s and %s, got %s",
			FormatBattery(MinBattery), FormatBattery(MaxBattery), FormatBattery(config.StartingBattery))
	}

	// Validate heading
	if config.StartHeading != "" {
		if _, err := ParseHeading(config.StartHeading); err != nil {
			return fmt.Errorf("config validation: start_heading: %v", err)
		}
	}

	inGrid := func(p Position) bool {
		return p.X >= 0 && p.X < config.GridSize && p.Y >= 0 && p.Y < config.GridSize
	}

	if !inGrid(config.Start) {
		return fmt.Errorf("config validation: start %s is outside the %dx%d grid",
			config.Start, config.GridSize, config.GridSize)
	}

	for i, o := range config.Obstacles {
		if !inGrid(o) {
			return fmt.Errorf("config validation: obstacle %d at %s is outside the grid", i+1, o)
		}
		if o == config.Start {
			return fmt.Errorf("config validation: obstacle %d at %s overlaps the start position", i+1, o)
		}
	}

	// Validate costs
	if c := config.Costs; c != nil {
		if c.Move < 0 || c.Turn < 0 || c.Diagonal < 0 {
			return fmt.Errorf("config validation: costs must not be negative, got move=%s turn=%s diagonal=%s",
				FormatBattery(c.Move), FormatBattery(c.Turn), FormatBattery(c.Diagonal))
		}
	}

	return nil
}

// DefaultConfig returns the configuration of a fresh robot: a 5×5 grid,
// start at (0,0) facing NORTH, full battery, no obstacles
func DefaultConfig() *RobotConfig {
	costs := DefaultCosts()
	return &RobotConfig{
		Name:            "default",
		Description:     "Empty 5x5 grid, robot at the origin facing north",
		GridSize:        DefaultGridSize,
		StartingBattery: DefaultBattery,
		Start:           Position{X: 0, Y: 0},
		StartHeading:    North.String(),
		Costs:           &costs,
	}
}

// DemoConfig returns the default configuration with a handful of
// demonstration obstacles placed on the grid
func DemoConfig() *RobotConfig {
	config := DefaultConfig()
	config.Name = "demo"
	config.Description = "5x5 grid with four demonstration obstacles"
	config.Obstacles = []Position{
		{X: 1, Y: 1},
		{X: 2, Y: 3},
		{X: 3, Y: 1},
		{X: 4, Y: 4},
	}
	return config
}
