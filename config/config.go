// Package config implements YAML-backed configuration for the tag scanner:
// the PLCs to poll, the scan interval, and the catalog publishers to fan
// results out to. It follows the load/mutate/save-under-lock shape used
// throughout this codebase's other configuration-bearing packages.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the top-level on-disk configuration document.
type Config struct {
	PLCs      []PLCConfig    `yaml:"plcs"`
	ScanEvery time.Duration  `yaml:"scan_interval"`
	MQTT      *MQTTConfig    `yaml:"mqtt,omitempty"`
	Kafka     *KafkaConfig   `yaml:"kafka,omitempty"`
	Valkey    *ValkeyConfig  `yaml:"valkey,omitempty"`
	REST      *RESTConfig    `yaml:"rest,omitempty"`

	mu              sync.Mutex                 `yaml:"-"`
	changeListeners map[ListenerID]func()       `yaml:"-"`
	listenerSeq     uint64                      `yaml:"-"`
}

// PLCConfig identifies one controller to scan.
type PLCConfig struct {
	Name    string        `yaml:"name"`
	Address string        `yaml:"address"`
	Port    int           `yaml:"port,omitempty"`
	Timeout time.Duration `yaml:"timeout,omitempty"`
}

// MQTTConfig configures the catalog MQTT publisher.
type MQTTConfig struct {
	Name      string `yaml:"name,omitempty"`
	Enabled   bool   `yaml:"enabled"`
	Broker    string `yaml:"broker"`
	Port      int    `yaml:"port"`
	ClientID  string `yaml:"client_id,omitempty"`
	Username  string `yaml:"username,omitempty"`
	Password  string `yaml:"password,omitempty"`
	UseTLS    bool   `yaml:"use_tls,omitempty"`
	RootTopic string `yaml:"root_topic"`
}

// KafkaConfig configures the catalog Kafka producer.
type KafkaConfig struct {
	Enabled bool     `yaml:"enabled"`
	Brokers []string `yaml:"brokers"`
	Topic   string   `yaml:"topic"`
}

// ValkeyConfig configures the catalog Valkey/Redis cache.
type ValkeyConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Address  string `yaml:"address"`
	Password string `yaml:"password,omitempty"`
	DB       int    `yaml:"db,omitempty"`
	UseTLS   bool   `yaml:"use_tls,omitempty"`
}

// RESTConfig configures the HTTP catalog API.
type RESTConfig struct {
	Enabled bool     `yaml:"enabled"`
	Host    string   `yaml:"host"`
	Port    int      `yaml:"port"`
	Users   []RESTUser `yaml:"users,omitempty"`
}

// RESTUser is one bcrypt-hashed basic-auth credential for the REST API.
type RESTUser struct {
	Username     string `yaml:"username"`
	PasswordHash string `yaml:"password_hash"`
}

// ListenerID identifies a registered change listener for later removal.
type ListenerID uint64

// DefaultConfig returns a configuration with no PLCs and a 5-minute scan interval.
func DefaultConfig() *Config {
	return &Config{
		ScanEvery:       5 * time.Minute,
		changeListeners: make(map[ListenerID]func()),
	}
}

// DefaultPath returns the default configuration file path (~/.tagscan/config.yaml).
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "tagscan.yaml"
	}
	return filepath.Join(home, ".tagscan", "config.yaml")
}

// Load reads and parses the configuration file at path. A missing file is
// not an error; it returns DefaultConfig().
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return DefaultConfig(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if cfg.changeListeners == nil {
		cfg.changeListeners = make(map[ListenerID]func())
	}
	return cfg, nil
}

// Save writes the configuration to path, creating parent directories as
// needed, then notifies registered change listeners.
func (c *Config) Save(path string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.saveLocked(path)
}

func (c *Config) saveLocked(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("config: mkdir %s: %w", filepath.Dir(path), err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("config: marshal: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("config: write %s: %w", path, err)
	}
	for _, listener := range c.changeListeners {
		go listener()
	}
	return nil
}

// AddOnChangeListener registers fn to run (in its own goroutine) after every
// successful Save, and returns an ID usable with RemoveOnChangeListener.
func (c *Config) AddOnChangeListener(fn func()) ListenerID {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.changeListeners == nil {
		c.changeListeners = make(map[ListenerID]func())
	}
	c.listenerSeq++
	id := ListenerID(c.listenerSeq)
	c.changeListeners[id] = fn
	return id
}

// RemoveOnChangeListener unregisters a listener added via AddOnChangeListener.
func (c *Config) RemoveOnChangeListener(id ListenerID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.changeListeners, id)
}

// Validate checks the configuration for obvious mistakes: empty PLC
// names or addresses, duplicate PLC names, and a non-positive scan
// interval. Duplicate addresses are not checked.
func (c *Config) Validate() error {
	if c.ScanEvery <= 0 {
		return fmt.Errorf("config: scan_interval must be positive")
	}
	seen := make(map[string]bool, len(c.PLCs))
	for _, plc := range c.PLCs {
		if plc.Name == "" {
			return fmt.Errorf("config: plc entry missing name")
		}
		if plc.Address == "" {
			return fmt.Errorf("config: plc %q missing address", plc.Name)
		}
		if seen[plc.Name] {
			return fmt.Errorf("config: duplicate plc name %q", plc.Name)
		}
		seen[plc.Name] = true
	}
	return nil
}

// FindPLC returns the PLC configuration with the given name, or false if none exists.
func (c *Config) FindPLC(name string) (PLCConfig, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, plc := range c.PLCs {
		if plc.Name == name {
			return plc, true
		}
	}
	return PLCConfig{}, false
}

// AddPLC appends a PLC configuration. It does not check for duplicates;
// call Validate after mutating a batch of entries.
func (c *Config) AddPLC(plc PLCConfig) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.PLCs = append(c.PLCs, plc)
}

// RemovePLC removes the PLC configuration with the given name, if present.
func (c *Config) RemovePLC(name string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, plc := range c.PLCs {
		if plc.Name == name {
			c.PLCs = append(c.PLCs[:i], c.PLCs[i+1:]...)
			return true
		}
	}
	return false
}

// TimeoutOrDefault returns the PLC's configured transport timeout, or the default
// 5000ms from spec.md §5 when unset.
func (p PLCConfig) TimeoutOrDefault() time.Duration {
	if p.Timeout <= 0 {
		return 5000 * time.Millisecond
	}
	return p.Timeout
}
