// Package config provides layered configuration for the simulator CLI.
// Priority: defaults < yaml file < env < flags
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/markphelps/optional"
	"gopkg.in/yaml.v3"

	sim "github.com/Hayser8/SistosSheduling"
)

const (
	DEFAULT_FILE = "sistosim.yaml"
	ENV_PREFIX   = "SISTOSIM_"
)

type Config struct {
	Version int `yaml:"version"`

	Data       DataConfig       `yaml:"data"`
	Scheduling SchedulingConfig `yaml:"scheduling"`
	Sync       SyncConfig       `yaml:"sync"`
	Replay     ReplayConfig     `yaml:"replay"`
	Log        LogConfig        `yaml:"log"`
}

type DataConfig struct {
	Dir string `yaml:"dir"` // holds procesos.txt, recursos.txt, acciones.txt
}

type SchedulingConfig struct {
	Algorithm string   `yaml:"algorithm"`
	Quantum   int      `yaml:"quantum"` // 0 = not set
	Compare   []string `yaml:"compare"` // algorithms for the compare command
}

type SyncConfig struct {
	Mode string `yaml:"mode"` // mutex | semaphore | both
}

type ReplayConfig struct {
	Delay    time.Duration `yaml:"delay"`
	Skip     bool          `yaml:"skip"`
	Progress bool          `yaml:"progress"` // a progress bar instead of one line per cycle
}

type LogConfig struct {
	Level string `yaml:"level"`
	JSON  bool   `yaml:"json"`
}

func Default() *Config {
	return &Config{
		Version: 1,
		Data: DataConfig{
			Dir: "datos",
		},
		Scheduling: SchedulingConfig{
			Algorithm: "priority",
			Quantum:   2,
			Compare:   []string{"fifo", "sjf", "srt", "rr", "priority"},
		},
		Sync: SyncConfig{
			Mode: "both",
		},
		Replay: ReplayConfig{
			Delay: 50 * time.Millisecond,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// QuantumOpt is the configured quantum, absent when it was never set.
func (s SchedulingConfig) QuantumOpt() optional.Int {
	if s.Quantum == 0 {
		return optional.Int{}
	}
	return optional.NewInt(s.Quantum)
}

// Modes expands the configured sync mode; "both" runs mutex then semaphore.
func (s SyncConfig) Modes() ([]sim.Mode, error) {
	if strings.EqualFold(strings.TrimSpace(s.Mode), "both") {
		return sim.Modes, nil
	}
	m, err := sim.ParseMode(s.Mode)
	if err != nil {
		return nil, err
	}
	return []sim.Mode{m}, nil
}

// Section selects the parts of a Config a command depends on.
type Section int

const (
	SectionScheduling Section = 1 << iota
	SectionCompare
	SectionSync

	AllSections = SectionScheduling | SectionCompare | SectionSync
)

// Validate checks the names and numbers a run will need, so bad configuration fails before
// anything is loaded.
func (c *Config) Validate() error {
	return c.ValidateFor(AllSections)
}

// ValidateFor checks the data and replay settings plus the given sections only.
func (c *Config) ValidateFor(sections Section) error {
	var errs []error
	if sections&SectionScheduling != 0 {
		alg, err := sim.ParseAlgorithm(c.Scheduling.Algorithm)
		if err != nil {
			errs = append(errs, err)
		} else if err := alg.CheckQuantum(c.Scheduling.QuantumOpt()); err != nil {
			errs = append(errs, err)
		}
	}
	if sections&SectionCompare != 0 {
		if _, err := sim.ParseAlgorithms(c.Scheduling.Compare); err != nil {
			errs = append(errs, err)
		}
	}
	if sections&SectionSync != 0 {
		if _, err := c.Sync.Modes(); err != nil {
			errs = append(errs, err)
		}
	}
	if c.Replay.Delay < 0 {
		errs = append(errs, fmt.Errorf("replay delay must be >= 0, got %s", c.Replay.Delay))
	}
	if c.Data.Dir == "" {
		errs = append(errs, errors.New("data dir is empty"))
	}
	return errors.Join(errs...)
}

// Manager handles configuration loading and merging.
type Manager struct {
	mu     sync.RWMutex
	config *Config
	path   string // explicit file, "" for DEFAULT_FILE in the working dir
	loaded string // file actually read, if any
	getenv func(string) string
}

func NewManager(path string) *Manager {
	return &Manager{
		config: Default(),
		path:   path,
		getenv: os.Getenv,
	}
}

// Load rebuilds the configuration from defaults, the yaml file and the environment.
// An explicit file must exist; the default one is optional.
func (m *Manager) Load() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.config = Default()
	m.loaded = ""

	path := m.path
	if path == "" {
		path = DEFAULT_FILE
	}
	if err := m.loadFile(path); err != nil {
		if m.path != "" || !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("config %s: %w", path, err)
		}
	} else {
		m.loaded = path
	}

	return m.loadEnv()
}

func (m *Manager) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var partial Config
	if err := yaml.Unmarshal(data, &partial); err != nil {
		return err
	}
	m.merge(&partial)
	return nil
}

// merge merges non-zero values from src into config.
func (m *Manager) merge(src *Config) {
	if src.Data.Dir != "" {
		m.config.Data.Dir = src.Data.Dir
	}

	if src.Scheduling.Algorithm != "" {
		m.config.Scheduling.Algorithm = src.Scheduling.Algorithm
	}
	if src.Scheduling.Quantum != 0 {
		m.config.Scheduling.Quantum = src.Scheduling.Quantum
	}
	if len(src.Scheduling.Compare) > 0 {
		m.config.Scheduling.Compare = src.Scheduling.Compare
	}

	if src.Sync.Mode != "" {
		m.config.Sync.Mode = src.Sync.Mode
	}

	if src.Replay.Delay != 0 {
		m.config.Replay.Delay = src.Replay.Delay
	}
	if src.Replay.Skip {
		m.config.Replay.Skip = true
	}
	if src.Replay.Progress {
		m.config.Replay.Progress = true
	}

	if src.Log.Level != "" {
		m.config.Log.Level = src.Log.Level
	}
	if src.Log.JSON {
		m.config.Log.JSON = true
	}
}

func (m *Manager) env(name string) string {
	return strings.TrimSpace(m.getenv(ENV_PREFIX + name))
}

func (m *Manager) loadEnv() error {
	if v := m.env("DATA_DIR"); v != "" {
		m.config.Data.Dir = v
	}
	if v := m.env("ALGORITHM"); v != "" {
		m.config.Scheduling.Algorithm = v
	}
	if v := m.env("QUANTUM"); v != "" {
		q, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%sQUANTUM: %w", ENV_PREFIX, err)
		}
		m.config.Scheduling.Quantum = q
	}
	if v := m.env("COMPARE"); v != "" {
		m.config.Scheduling.Compare = strings.Split(v, ",")
	}
	if v := m.env("MODE"); v != "" {
		m.config.Sync.Mode = v
	}
	if v := m.env("DELAY"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%sDELAY: %w", ENV_PREFIX, err)
		}
		m.config.Replay.Delay = d
	}
	if v := m.env("LOG_LEVEL"); v != "" {
		m.config.Log.Level = v
	}
	if v := m.env("LOG_JSON"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%sLOG_JSON: %w", ENV_PREFIX, err)
		}
		m.config.Log.JSON = b
	}
	return nil
}

// Override applies fn to the configuration; the CLI uses it for flags, the last layer.
func (m *Manager) Override(fn func(*Config)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	fn(m.config)
}

// Get returns a copy of the current configuration.
func (m *Manager) Get() Config {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c := *m.config
	c.Scheduling.Compare = append([]string(nil), m.config.Scheduling.Compare...)
	return c
}

// LoadedFrom is the yaml file that was read by the last Load, "" if none.
func (m *Manager) LoadedFrom() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.loaded
}

// Save writes the current config as yaml to path, creating its directory.
func (m *Manager) Save(path string) error {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(m.config)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
