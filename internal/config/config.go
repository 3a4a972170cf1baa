package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// Default per-attempt probe timeouts, in seconds.
const (
	DefaultCatalogTimeoutSeconds = 8
	DefaultPricesTimeoutSeconds  = 5
)

// Config represents the main configuration for petmed.
type Config struct {
	DeviceID string         `toml:"device_id"`
	BaseDir  string         `toml:"base_dir"`
	LogDir   string         `toml:"log_dir"`
	Database DatabaseConfig `toml:"database"`
	Catalog  CatalogConfig  `toml:"catalog"`
	Prices   PricesConfig   `toml:"prices"`
}

// DatabaseConfig represents configuration for the record store.
// This uses a tagged union pattern - the Type field determines which other fields are relevant.
type DatabaseConfig struct {
	Type    string `toml:"type"`               // "sqlite" or "memory"
	DataDir string `toml:"data_dir,omitempty"` // only used for type=sqlite
}

// CatalogConfig holds the candidate endpoints for the remote medicine
// catalog. A custom endpoint, when set, is probed before the candidates.
type CatalogConfig struct {
	CustomEndpoint string   `toml:"custom_endpoint,omitempty"`
	Endpoints      []string `toml:"endpoints"`
	TimeoutSeconds int      `toml:"timeout_seconds"`
}

// CandidateList returns the ordered probe list: custom endpoint first,
// blank entries dropped.
func (c CatalogConfig) CandidateList() []string {
	return candidateList(c.CustomEndpoint, c.Endpoints)
}

// Timeout returns the per-attempt timeout, defaulting when unset.
func (c CatalogConfig) Timeout() time.Duration {
	return timeoutSeconds(c.TimeoutSeconds, DefaultCatalogTimeoutSeconds)
}

// PricesConfig holds the candidate endpoints for the remote store-price
// service.
type PricesConfig struct {
	CustomEndpoint string   `toml:"custom_endpoint,omitempty"`
	Endpoints      []string `toml:"endpoints"`
	TimeoutSeconds int      `toml:"timeout_seconds"`
}

// CandidateList returns the ordered probe list: custom endpoint first,
// blank entries dropped.
func (c PricesConfig) CandidateList() []string {
	return candidateList(c.CustomEndpoint, c.Endpoints)
}

// Timeout returns the per-attempt timeout, defaulting when unset.
func (c PricesConfig) Timeout() time.Duration {
	return timeoutSeconds(c.TimeoutSeconds, DefaultPricesTimeoutSeconds)
}

func candidateList(custom string, endpoints []string) []string {
	out := make([]string, 0, len(endpoints)+1)
	if strings.TrimSpace(custom) != "" {
		out = append(out, strings.TrimSpace(custom))
	}
	for _, e := range endpoints {
		if strings.TrimSpace(e) != "" {
			out = append(out, strings.TrimSpace(e))
		}
	}
	return out
}

func timeoutSeconds(n, fallback int) time.Duration {
	if n <= 0 {
		n = fallback
	}
	return time.Duration(n) * time.Second
}

// NewConfig creates a new Config with the provided values and default
// endpoints and paths.
func NewConfig(deviceID, baseDir string) *Config {
	return &Config{
		DeviceID: deviceID,
		BaseDir:  baseDir,
		LogDir:   filepath.Join(baseDir, "log"),
		Database: DatabaseConfig{
			Type:    "sqlite",
			DataDir: filepath.Join(baseDir, "data"),
		},
		Catalog: CatalogConfig{
			Endpoints: []string{
				"http://192.168.1.141:3000/Medicamentos",
				"http://10.0.0.141:3000/Medicamentos",
				"http://172.16.0.141:3000/Medicamentos",
				"http://localhost:3000/Medicamentos",
			},
			TimeoutSeconds: DefaultCatalogTimeoutSeconds,
		},
		Prices: PricesConfig{
			Endpoints: []string{
				"http://192.168.1.141:3000/Lojas",
				"http://localhost:3000/Lojas",
			},
			TimeoutSeconds: DefaultPricesTimeoutSeconds,
		},
	}
}

// Manager handles reading and writing configuration.
type Manager struct{}

// Read decodes a Config from the provided reader.
func (m *Manager) Read(r io.Reader) (*Config, error) {
	var cfg Config
	if _, err := toml.NewDecoder(r).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	return &cfg, nil
}

// Write encodes a Config to the provided writer.
func (m *Manager) Write(w io.Writer, cfg *Config) error {
	if err := toml.NewEncoder(w).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return nil
}

// ReadFromFile reads a Config from the specified file path.
func ReadFromFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	m := &Manager{}
	cfg, err := m.Read(f)
	if err != nil {
		return nil, fmt.Errorf("reading config from %s: %w", path, err)
	}
	return cfg, nil
}

// writeToFile writes a Config to the specified file path.
// This is an internal helper and should not be exported.
func writeToFile(path string, cfg *Config) error {
	// Ensure the directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer f.Close()

	m := &Manager{}
	if err := m.Write(f, cfg); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

// Init initializes a new config file at the specified path with the provided Config.
func Init(path string, cfg *Config) error {
	// Check if config already exists
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := writeToFile(path, cfg); err != nil {
		return fmt.Errorf("initializing config: %w", err)
	}
	return nil
}
