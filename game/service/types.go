package service

import (
	"time"

	"github.com/wricardo/mcp-training/robotgrid/game/engine"
)

// SessionInfo provides information about a simulation session
type SessionInfo struct {
	ID             string              `json:"id"`
	ConfigName     string              `json:"config_name"`
	CreatedAt      time.Time           `json:"created_at"`
	LastAccessedAt time.Time           `json:"last_accessed_at"`
	CommandCount   int                 `json:"command_count"`
	State          *engine.Snapshot    `json:"state"`
	Config         *engine.RobotConfig `json:"config"`
}

// CommandResult contains the outcome of a single command
type CommandResult struct {
	Command   string           `json:"command"`
	Success   bool             `json:"success"`
	Message   string           `json:"message"`
	ErrorCode string           `json:"error_code,omitempty"`
	State     *engine.Snapshot `json:"state"`
	Report    *engine.Report   `json:"report,omitempty"`
	Grid      string           `json:"grid,omitempty"`
}

// HistoryEntry records one executed command
type HistoryEntry struct {
	Index         int             `json:"index"`
	Command       string          `json:"command"`
	Success       bool            `json:"success"`
	ErrorCode     string          `json:"error_code,omitempty"`
	From          engine.Position `json:"from"`
	To            engine.Position `json:"to"`
	BatteryBefore float64         `json:"battery_before"`
	BatteryAfter  float64         `json:"battery_after"`
	Timestamp     time.Time       `json:"timestamp"`
}

// HistoryOptions configures command history retrieval
type HistoryOptions struct {
	Page  int    `json:"page"`
	Limit int    `json:"limit"`
	Order string `json:"order"` // "asc" or "desc"
}

// HistoryResponse contains paginated command history
type HistoryResponse struct {
	Commands      []HistoryEntry `json:"commands"`
	TotalCommands int            `json:"total_commands"`
	Page          int            `json:"page"`
	PageSize      int            `json:"page_size"`
	TotalPages    int            `json:"total_pages"`
	HasNext       bool           `json:"has_next"`
	HasPrevious   bool           `json:"has_previous"`
}

// ConfigInfo provides information about a robot preset
type ConfigInfo struct {
	Filename    string  `json:"filename"`
	ConfigID    string  `json:"config_id"` // The identifier to use for session creation
	Name        string  `json:"name"`
	Description string  `json:"description"`
	GridSize    int     `json:"grid_size"`
	Battery     float64 `json:"starting_battery"`
	Obstacles   int     `json:"obstacles"`
}
