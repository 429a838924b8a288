package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/wricardo/mcp-training/robotgrid/game/engine"
)

const (
	OutcomeSuccess = "success"
	OutcomeInvalid = "invalid"
)

// simulationServiceImpl implements the SimulationService interface
type simulationServiceImpl struct {
	sessions SessionManager
	configs  ConfigManager
	recorder Recorder
	logger   zerolog.Logger
	mu       sync.RWMutex
}

// Option customizes a SimulationService
type Option func(*simulationServiceImpl)

// WithRecorder reports command outcomes and session counts to r
func WithRecorder(r Recorder) Option {
	return func(s *simulationServiceImpl) {
		if r != nil {
			s.recorder = r
		}
	}
}

// WithLogger sets the logger used for command and session events
func WithLogger(l zerolog.Logger) Option {
	return func(s *simulationServiceImpl) {
		s.logger = l
	}
}

// NewSimulationService creates a new simulation service instance
func NewSimulationService(sessions SessionManager, configs ConfigManager, opts ...Option) SimulationService {
	s := &simulationServiceImpl{
		sessions: sessions,
		configs:  configs,
		recorder: nopRecorder{},
		logger:   zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// getConfigID returns the config_id for a given config name, used for consistent API responses
func (s *simulationServiceImpl) getConfigID(configName string) string {
	availableConfigs, err := s.configs.ListConfigs()
	if err == nil {
		for _, cfg := range availableConfigs {
			if cfg.Name == configName {
				return cfg.ConfigID
			}
		}
	}
	if configName == "" {
		return "default"
	}
	return configName
}

func (s *simulationServiceImpl) sessionInfo(sess *Session, configID string) *SessionInfo {
	state := sess.Robot.State()
	return &SessionInfo{
		ID:             sess.ID,
		ConfigName:     configID,
		CreatedAt:      sess.CreatedAt,
		LastAccessedAt: sess.LastAccessedAt,
		CommandCount:   len(sess.History),
		State:          &state,
		Config:         sess.Config,
	}
}

// CreateSession creates a new session from a named preset, or the default preset when configName is empty
func (s *simulationServiceImpl) CreateSession(ctx context.Context, configName string) (*SessionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var config *engine.RobotConfig
	var err error
	if configName != "" {
		config, err = s.configs.LoadConfig(configName)
		if err != nil {
			if errors.Is(err, ErrConfigNotFound) {
				availableConfigs, listErr := s.configs.ListConfigs()
				if listErr == nil && len(availableConfigs) > 0 {
					var configIDs []string
					for _, cfg := range availableConfigs {
						configIDs = append(configIDs, cfg.ConfigID)
					}
					return nil, fmt.Errorf("config '%s' not found. Available configs: %v: %w", configName, configIDs, ErrConfigNotFound)
				}
			}
			return nil, fmt.Errorf("failed to load config %s: %w", configName, err)
		}
	} else {
		config = s.configs.GetDefault()
	}

	sess, err := s.sessions.Create("", config)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	configID := configName
	if configID == "" {
		configID = s.getConfigID(config.Name)
	}

	s.recorder.SessionsActive(len(s.sessions.List()))
	s.recorder.BatteryLevel(sess.ID, sess.Robot.Battery())
	s.logger.Info().Str("session", sess.ID).Str("config", configID).Msg("session created")

	return s.sessionInfo(sess, configID), nil
}

// GetSession retrieves session information
func (s *simulationServiceImpl) GetSession(ctx context.Context, sessionID string) (*SessionInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}
	s.sessions.UpdateLastAccessed(sessionID)

	return s.sessionInfo(sess, s.getConfigID(sess.Config.Name)), nil
}

// ListSessions returns all active sessions
func (s *simulationServiceImpl) ListSessions(ctx context.Context) ([]*SessionInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sessions := s.sessions.List()
	result := make([]*SessionInfo, 0, len(sessions))
	for _, sess := range sessions {
		result = append(result, s.sessionInfo(sess, s.getConfigID(sess.Config.Name)))
	}
	return result, nil
}

// DeleteSession removes a session
func (s *simulationServiceImpl) DeleteSession(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.sessions.Delete(sessionID); err != nil {
		return err
	}
	s.recorder.SessionRemoved(sessionID)
	s.recorder.SessionsActive(len(s.sessions.List()))
	s.logger.Info().Str("session", sessionID).Msg("session deleted")
	return nil
}

// Execute runs a single command against the session's robot and records it
// in the session history. A rejected move is a successful call with
// result.Success set to false.
func (s *simulationServiceImpl) Execute(ctx context.Context, sessionID string, cmd Command) (*CommandResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}
	s.sessions.UpdateLastAccessed(sessionID)

	from := sess.Robot.Position()
	batteryBefore := sess.Robot.Battery()

	result, err := Apply(sess.Robot, cmd)
	if err != nil {
		s.recorder.CommandExecuted(string(cmd.Action), OutcomeInvalid)
		return nil, err
	}

	sess.History = append(sess.History, HistoryEntry{
		Index:         len(sess.History) + 1,
		Command:       result.Command,
		Success:       result.Success,
		ErrorCode:     result.ErrorCode,
		From:          from,
		To:            sess.Robot.Position(),
		BatteryBefore: batteryBefore,
		BatteryAfter:  sess.Robot.Battery(),
		Timestamp:     time.Now(),
	})

	outcome := OutcomeSuccess
	if !result.Success {
		outcome = result.ErrorCode
	}
	s.recorder.CommandExecuted(string(cmd.Action), outcome)
	s.recorder.BatteryLevel(sessionID, sess.Robot.Battery())

	event := s.logger.Debug()
	if !result.Success {
		event = s.logger.Info()
	}
	event.Str("session", sessionID).
		Str("command", result.Command).
		Str("outcome", outcome).
		Float64("battery", sess.Robot.Battery()).
		Msg("command executed")

	return result, nil
}

// Reset rebuilds the session's robot from its preset. History is kept.
func (s *simulationServiceImpl) Reset(ctx context.Context, sessionID string) (*engine.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}
	s.sessions.UpdateLastAccessed(sessionID)

	robot, err := engine.NewRobot(sess.Config)
	if err != nil {
		return nil, fmt.Errorf("failed to reset session %s: %w", sessionID, err)
	}
	sess.Robot = robot

	s.recorder.BatteryLevel(sessionID, robot.Battery())
	s.logger.Info().Str("session", sessionID).Msg("session reset")

	state := robot.State()
	return &state, nil
}

// GetState retrieves the current robot state
func (s *simulationServiceImpl) GetState(ctx context.Context, sessionID string) (*engine.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}
	s.sessions.UpdateLastAccessed(sessionID)

	state := sess.Robot.State()
	return &state, nil
}

// RenderGrid returns the text rendering of the session's grid
func (s *simulationServiceImpl) RenderGrid(ctx context.Context, sessionID string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return "", fmt.Errorf("session not found: %w", err)
	}
	s.sessions.UpdateLastAccessed(sessionID)

	return sess.Robot.DisplayGrid(), nil
}

// GetHistory returns paginated command history
func (s *simulationServiceImpl) GetHistory(ctx context.Context, sessionID string, opts HistoryOptions) (*HistoryResponse, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}

	history := sess.History
	total := len(history)

	if opts.Page < 1 {
		opts.Page = 1
	}
	if opts.Limit <= 0 {
		opts.Limit = 20
	}
	if opts.Limit > 100 {
		opts.Limit = 100
	}
	if opts.Order == "" {
		opts.Order = "desc"
	}

	totalPages := (total + opts.Limit - 1) / opts.Limit
	if totalPages == 0 {
		totalPages = 1
	}

	commands := []HistoryEntry{}
	if opts.Page > totalPages {
		return &HistoryResponse{
			Commands:      commands,
			TotalCommands: total,
			Page:          opts.Page,
			PageSize:      opts.Limit,
			TotalPages:    totalPages,
			HasPrevious:   true,
		}, nil
	}

	start := (opts.Page - 1) * opts.Limit
	end := start + opts.Limit
	if end > total {
		end = total
	}

	if opts.Order == "desc" {
		// most recent first
		for i := total - 1 - start; i >= 0 && i >= total-end; i-- {
			commands = append(commands, history[i])
		}
	} else if start < total {
		commands = append(commands, history[start:end]...)
	}

	return &HistoryResponse{
		Commands:      commands,
		TotalCommands: total,
		Page:          opts.Page,
		PageSize:      opts.Limit,
		TotalPages:    totalPages,
		HasNext:       opts.Page < totalPages,
		HasPrevious:   opts.Page > 1,
	}, nil
}

// ListConfigs returns available robot presets
func (s *simulationServiceImpl) ListConfigs(ctx context.Context) ([]*ConfigInfo, error) {
	return s.configs.ListConfigs()
}

// LoadConfig loads a specific robot preset
func (s *simulationServiceImpl) LoadConfig(ctx context.Context, configName string) (*engine.RobotConfig, error) {
	return s.configs.LoadConfig(configName)
}

// SaveConfig validates and stores a robot preset
func (s *simulationServiceImpl) SaveConfig(ctx context.Context, configName string, config *engine.RobotConfig) error {
	if err := engine.ValidateRobotConfig(config); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if err := s.configs.SaveConfig(configName, config); err != nil {
		return err
	}
	s.logger.Info().Str("config", configName).Msg("config saved")
	return nil
}
