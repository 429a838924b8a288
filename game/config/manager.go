package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	kjson "github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/wricardo/mcp-training/robotgrid/game/engine"
	"github.com/wricardo/mcp-training/robotgrid/game/service"
)

var (
	ErrConfigNotFound = service.ErrConfigNotFound
	ErrInvalidConfig  = service.ErrInvalidConfig
	ErrInvalidName    = errors.New("invalid configuration name")
)

// DefaultName is the preset used when a session names none
const DefaultName = "default"

// extensions in lookup order
var extensions = []string{".json", ".yaml", ".yml"}

var builtins = map[string]func() *engine.RobotConfig{
	"default": engine.DefaultConfig,
	"demo":    engine.DemoConfig,
}

// Manager handles robot preset loading and caching. Presets come from JSON
// or YAML files in configDir; the default and demo presets are always
// available and a file with the same name overrides them.
type Manager struct {
	configDir string
	configs   map[string]*engine.RobotConfig
	mu        sync.RWMutex
}

// NewManager creates a new configuration manager. An empty configDir
// serves the built-in presets only.
func NewManager(configDir string) (*Manager, error) {
	if configDir != "" {
		if _, err := os.Stat(configDir); os.IsNotExist(err) {
			return nil, fmt.Errorf("config directory does not exist: %s", configDir)
		}
	}

	m := &Manager{
		configDir: configDir,
		configs:   make(map[string]*engine.RobotConfig),
	}

	if _, err := m.LoadConfig(DefaultName); err != nil {
		return nil, fmt.Errorf("failed to load default config: %w", err)
	}
	return m, nil
}

// LoadConfig loads a preset by name
func (m *Manager) LoadConfig(name string) (*engine.RobotConfig, error) {
	if ext := filepath.Ext(name); isPresetExt(ext) {
		name = strings.TrimSuffix(name, ext)
	}
	if err := checkName(name); err != nil {
		return nil, err
	}

	m.mu.RLock()
	if config, exists := m.configs[name]; exists {
		m.mu.RUnlock()
		return config, nil
	}
	m.mu.RUnlock()

	m.mu.Lock()
	defer m.mu.Unlock()

	// Double-check after acquiring write lock
	if config, exists := m.configs[name]; exists {
		return config, nil
	}

	config, err := m.readConfig(name)
	if err != nil {
		return nil, err
	}
	m.configs[name] = config
	return config, nil
}

// readConfig finds name on disk, falling back to the built-in presets.
// Callers hold m.mu.
func (m *Manager) readConfig(name string) (*engine.RobotConfig, error) {
	path := m.findFile(name)
	if path == "" {
		if builtin, ok := builtins[name]; ok {
			return builtin(), nil
		}
		return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, name)
	}
	return ParseFile(path)
}

func (m *Manager) findFile(name string) string {
	if m.configDir == "" {
		return ""
	}
	for _, ext := range extensions {
		path := filepath.Join(m.configDir, name+ext)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// ParseFile reads and validates a single preset file. The format follows
// the file extension.
func ParseFile(path string) (*engine.RobotConfig, error) {
	var parser koanf.Parser
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".json":
		parser = kjson.Parser()
	default:
		return nil, fmt.Errorf("unsupported config format: %s", filepath.Ext(path))
	}

	k := koanf.New(".")
	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", filepath.Base(path), err)
	}

	var config engine.RobotConfig
	if err := k.UnmarshalWithConf("", &config, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, fmt.Errorf("failed to decode config %s: %w", filepath.Base(path), err)
	}

	if err := engine.ValidateRobotConfig(&config); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return &config, nil
}

// ListConfigs returns information about all available presets sorted by ID.
// Files that fail to parse are skipped.
func (m *Manager) ListConfigs() ([]*service.ConfigInfo, error) {
	files := make(map[string]string)
	for name := range builtins {
		files[name] = ""
	}

	if m.configDir != "" {
		entries, err := os.ReadDir(m.configDir)
		if err != nil {
			return nil, fmt.Errorf("failed to read config directory: %w", err)
		}
		for _, entry := range entries {
			ext := filepath.Ext(entry.Name())
			if entry.IsDir() || !isPresetExt(ext) {
				continue
			}
			name := strings.TrimSuffix(entry.Name(), ext)
			if _, seen := files[name]; !seen || files[name] == "" {
				files[name] = entry.Name()
			}
		}
	}

	names := make([]string, 0, len(files))
	for name := range files {
		names = append(names, name)
	}
	sort.Strings(names)

	configs := make([]*service.ConfigInfo, 0, len(names))
	for _, name := range names {
		config, err := m.LoadConfig(name)
		if err != nil {
			continue
		}
		configs = append(configs, &service.ConfigInfo{
			Filename:    files[name],
			ConfigID:    name,
			Name:        config.Name,
			Description: config.Description,
			GridSize:    config.GridSize,
			Battery:     config.StartingBattery,
			Obstacles:   len(config.Obstacles),
		})
	}
	return configs, nil
}

// GetDefault returns the default preset
func (m *Manager) GetDefault() *engine.RobotConfig {
	config, err := m.LoadConfig(DefaultName)
	if err != nil {
		return engine.DefaultConfig()
	}
	return config
}

// SaveConfig writes a preset to disk as JSON and refreshes the cache
func (m *Manager) SaveConfig(name string, config *engine.RobotConfig) error {
	name = strings.TrimSuffix(name, ".json")
	if err := checkName(name); err != nil {
		return err
	}
	if m.configDir == "" {
		return fmt.Errorf("no config directory configured")
	}
	if err := engine.ValidateRobotConfig(config); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	configPath := filepath.Join(m.configDir, name+".json")
	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	m.configs[name] = config
	return nil
}

// RefreshCache drops cached presets so the next load reads from disk
func (m *Manager) RefreshCache() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.configs = make(map[string]*engine.RobotConfig)
}

func checkName(name string) error {
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return nil
}

func isPresetExt(ext string) bool {
	for _, e := range extensions {
		if ext == e {
			return true
		}
	}
	return false
}
