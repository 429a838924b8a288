// Package config loads robot presets and server settings.
//
// Presets are JSON or YAML files in a config directory, one robot
// configuration per file; the file name without extension is the preset ID
// used when creating a session. The "default" and "demo" presets are built in
// and can be overridden by files of the same name.
//
//	name: maze
//	grid_size: 4
//	starting_battery: 60
//	start: {x: 0, y: 3}
//	start_heading: east
//	obstacles:
//	  - {x: 1, y: 2}
//	costs: {move: 3, turn: 1, diagonal: 4.5}
//
// Every preset is validated with engine.ValidateRobotConfig when loaded and
// before it is saved. Loaded presets are cached until RefreshCache.
//
// Settings configure the server process. LoadSettings layers defaults, an
// optional settings file and ROBOTSIM_ environment variables.
package config
