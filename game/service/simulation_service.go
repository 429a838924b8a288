package service

import (
	"context"
	"errors"
	"time"

	"github.com/wricardo/mcp-training/robotgrid/game/engine"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrConfigNotFound  = errors.New("configuration not found")
	ErrInvalidConfig   = errors.New("invalid configuration")
)

// SimulationService defines all simulation-related operations
type SimulationService interface {
	// Session Management
	CreateSession(ctx context.Context, configName string) (*SessionInfo, error)
	GetSession(ctx context.Context, sessionID string) (*SessionInfo, error)
	ListSessions(ctx context.Context) ([]*SessionInfo, error)
	DeleteSession(ctx context.Context, sessionID string) error

	// Robot Operations
	Execute(ctx context.Context, sessionID string, cmd Command) (*CommandResult, error)
	Reset(ctx context.Context, sessionID string) (*engine.Snapshot, error)

	// Robot State
	GetState(ctx context.Context, sessionID string) (*engine.Snapshot, error)
	RenderGrid(ctx context.Context, sessionID string) (string, error)
	GetHistory(ctx context.Context, sessionID string, opts HistoryOptions) (*HistoryResponse, error)

	// Configuration
	ListConfigs(ctx context.Context) ([]*ConfigInfo, error)
	LoadConfig(ctx context.Context, configName string) (*engine.RobotConfig, error)
	SaveConfig(ctx context.Context, configName string, config *engine.RobotConfig) error
}

// SessionManager defines session storage operations
type SessionManager interface {
	Create(id string, config *engine.RobotConfig) (*Session, error)
	Get(id string) (*Session, error)
	List() []*Session
	Delete(id string) error
	UpdateLastAccessed(id string) error
}

// ConfigManager handles robot preset loading
type ConfigManager interface {
	LoadConfig(name string) (*engine.RobotConfig, error)
	ListConfigs() ([]*ConfigInfo, error)
	GetDefault() *engine.RobotConfig
	SaveConfig(name string, config *engine.RobotConfig) error
}

// Recorder receives measurements about executed commands and sessions
type Recorder interface {
	CommandExecuted(action, outcome string)
	SessionsActive(n int)
	BatteryLevel(sessionID string, level float64)
	SessionRemoved(sessionID string)
}

// Session represents one independent simulation: a robot plus its history
type Session struct {
	ID             string
	Robot          *engine.Robot
	Config         *engine.RobotConfig
	History        []HistoryEntry
	CreatedAt      time.Time
	LastAccessedAt time.Time
}

type nopRecorder struct{}

func (nopRecorder) CommandExecuted(string, string) {}
func (nopRecorder) SessionsActive(int) {}
func (nopRecorder) BatteryLevel(string, float64) {}
func (nopRecorder) SessionRemoved(string) {}
