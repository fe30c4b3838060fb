package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/spf13/viper"
)

var (
	ErrConfigNotFound = errors.New("configuration not found")
	ErrInvalidConfig  = errors.New("invalid configuration")
)

// Extensions lists the file extensions genesis files may use
var Extensions = []string{".json", ".yaml", ".yml", ".toml"}

// DefaultName is the file loaded as default when present
const DefaultName = "default"

// Manager handles genesis data loading and caching
type Manager struct {
	configDir   string
	defaultData *GameData
	configs     map[string]*GameData
	mu          sync.RWMutex
}

// NewManager creates a new configuration manager
func NewManager(configDir string) (*Manager, error) {
	if _, err := os.Stat(configDir); os.IsNotExist(err) {
		return nil, fmt.Errorf("config directory does not exist: %s", configDir)
	}

	m := &Manager{
		configDir: configDir,
		configs:   make(map[string]*GameData),
	}

	if err := m.loadDefault(); err != nil {
		return nil, fmt.Errorf("failed to load default config: %w", err)
	}

	return m, nil
}

// Dir returns the directory the manager reads from
func (m *Manager) Dir() string {
	return m.configDir
}

// Load loads genesis data by name. The name may carry one of the supported
// extensions; without one every extension is tried in order.
func (m *Manager) Load(name string) (*GameData, error) {
	id := trimExt(name)

	m.mu.RLock()
	if data, exists := m.configs[id]; exists {
		m.mu.RUnlock()
		return data, nil
	}
	m.mu.RUnlock()

	m.mu.Lock()
	defer m.mu.Unlock()

	if data, exists := m.configs[id]; exists {
		return data, nil
	}

	path, err := m.find(name)
	if err != nil {
		return nil, err
	}

	data, err := LoadFile(path)
	if err != nil {
		return nil, err
	}

	m.configs[id] = data
	return data, nil
}

// LoadFile reads, decodes and validates a single genesis file
func LoadFile(path string) (*GameData, error) {
	v := newViper()
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrConfigNotFound
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var data GameData
	if err := v.Unmarshal(&data); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := Validate(&data); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	return &data, nil
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	// Defaults make the tuning keys known to viper so env overrides apply
	// even when the file leaves them out.
	v.SetDefault("loop_period", DefaultLoopPeriod)
	v.SetDefault("policy", DefaultPolicy)
	v.SetDefault("max_resolution_rounds", 0)
	v.SetDefault("seed", 0)
	return v
}

// List returns information about all valid genesis files in the directory
func (m *Manager) List() ([]*Info, error) {
	entries, err := os.ReadDir(m.configDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read config directory: %w", err)
	}

	var infos []*Info
	for _, entry := range entries {
		if entry.IsDir() || !supported(entry.Name()) {
			continue
		}

		data, err := m.Load(entry.Name())
		if err != nil {
			// Skip invalid configs
			continue
		}

		infos = append(infos, data.info(trimExt(entry.Name()), entry.Name()))
	}

	sort.Slice(infos, func(i, j int) bool { return infos[i].ID < infos[j].ID })
	return infos, nil
}

// GetDefault returns the default genesis data
func (m *Manager) GetDefault() *GameData {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.defaultData
}

// SetDefault sets the default genesis data by name
func (m *Manager) SetDefault(name string) error {
	data, err := m.Load(name)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.defaultData = data
	return nil
}

// RefreshCache drops every cached file and reloads the default
func (m *Manager) RefreshCache() error {
	m.mu.Lock()
	m.configs = make(map[string]*GameData)
	m.mu.Unlock()

	return m.loadDefault()
}

func (m *Manager) loadDefault() error {
	data, err := m.Load(DefaultName)
	if err != nil {
		infos, listErr := m.List()
		if listErr != nil || len(infos) == 0 {
			data = Minimal()
		} else if data, err = m.Load(infos[0].Filename); err != nil {
			data = Minimal()
		}
	}

	m.mu.Lock()
	m.defaultData = data
	m.mu.Unlock()
	return nil
}

func (m *Manager) find(name string) (string, error) {
	candidates := []string{name}
	if !supported(name) {
		candidates = candidates[:0]
		for _, ext := range Extensions {
			candidates = append(candidates, name+ext)
		}
	}

	for _, c := range candidates {
		path := filepath.Join(m.configDir, c)
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}
	return "", ErrConfigNotFound
}

// Minimal returns a small walled arena used when no genesis file is available
func Minimal() *GameData {
	return &GameData{
		Name:        "default",
		Description: "Walled arena with a goal and one wanderer",
		Width:       9,
		Height:      5,
		LoopPeriod:  DefaultLoopPeriod,
		Policy:      DefaultPolicy,
		Layout: []string{
			"#########",
			"#.......#",
			"#...~..*#",
			"#.......#",
			"#########",
		},
		Entities: []EntityData{{X: 6, Y: 1, Type: "wanderer"}},
		Player:   &EntityData{X: 1, Y: 2, Type: "player"},
	}
}

func supported(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range Extensions {
		if ext == e {
			return true
		}
	}
	return false
}

func trimExt(name string) string {
	if supported(name) {
		return strings.TrimSuffix(name, filepath.Ext(name))
	}
	return name
}
