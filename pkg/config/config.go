// Package config handles loading and saving kbt configuration.
//
// Configuration follows the XDG Base Directory specification:
//   - Config: ~/.config/kbt/config.yaml
//   - State:  ~/.local/state/kbt/ (debug logs)
//
// Environment variables (KBT_URL, KBT_USERNAME, KBT_PASSWORD,
// KBT_PROJECT_ID, KBT_SOURCE) override the file; command-line flags override
// both.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const appName = "kbt"

// SourceKind selects where board data is read from.
type SourceKind string

const (
	SourceRPC    SourceKind = "rpc"    // Kanboard JSON-RPC endpoint
	SourceSQLite SourceKind = "sqlite" // Kanboard SQLite database, read-only
	SourceFile   SourceKind = "file"   // JSON snapshot file
)

// Task status filters, as Kanboard numbers them.
const (
	StatusClosed = 0
	StatusOpen   = 1
)

// Project is a bookmarked Kanboard project.
type Project struct {
	Name string `yaml:"name"`
	ID   int64  `yaml:"id"`
}

// UIConfig holds UI preference settings.
type UIConfig struct {
	DetailPosition string  `yaml:"detail_position,omitempty"` // right, bottom
	DetailRatio    float64 `yaml:"detail_ratio,omitempty"`    // detail pane share (0.2-0.8)
	UnfoldOnStart  bool    `yaml:"unfold_on_start,omitempty"` // expand every tree on first load
}

// Config is the top-level configuration for kbt.
type Config struct {
	Source          SourceKind     `yaml:"source"`
	URL             string         `yaml:"url,omitempty"`
	Username        string         `yaml:"username,omitempty"`
	Password        string         `yaml:"password,omitempty"`
	AuthHeader      string         `yaml:"auth_header,omitempty"`
	CAFile          string         `yaml:"cafile,omitempty"`
	ProjectID       int64          `yaml:"project_id,omitempty"`
	StatusID        int            `yaml:"status_id"`
	Database        string         `yaml:"database,omitempty"`
	Snapshot        string         `yaml:"snapshot,omitempty"`
	Timeout         time.Duration  `yaml:"timeout,omitempty"`
	RefreshInterval time.Duration  `yaml:"refresh_interval,omitempty"`
	Projects        []Project      `yaml:"projects,omitempty"`
	Favorites       map[int]string `yaml:"favorites,omitempty"` // number key (1-9) -> project name
	UI              UIConfig       `yaml:"ui,omitempty"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Source:          SourceRPC,
		Username:        "jsonrpc",
		AuthHeader:      "Authorization",
		StatusID:        StatusOpen,
		Timeout:         15 * time.Second,
		RefreshInterval: time.Minute,
		Favorites:       make(map[int]string),
		UI: UIConfig{
			DetailPosition: "right",
			DetailRatio:    0.45,
		},
	}
}

// ConfigDir returns the XDG config directory for kbt.
func ConfigDir() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, appName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", appName)
}

// StateDir returns the XDG state directory for kbt.
func StateDir() string {
	if dir := os.Getenv("XDG_STATE_HOME"); dir != "" {
		return filepath.Join(dir, appName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".local", "state", appName)
}

// ConfigPath returns the full path to config.yaml.
func ConfigPath() string {
	dir := ConfigDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "config.yaml")
}

// Load reads the config file from the XDG config directory.
// Returns DefaultConfig if the file doesn't exist.
func Load() (Config, error) {
	path := ConfigPath()
	if path == "" {
		return DefaultConfig(), nil
	}
	return LoadFrom(path)
}

// LoadFrom reads config from a specific path.
// Returns DefaultConfig if the file doesn't exist.
func LoadFrom(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}

	if cfg.Favorites == nil {
		cfg.Favorites = make(map[int]string)
	}
	cfg.CAFile = expandHome(cfg.CAFile)
	cfg.Database = expandHome(cfg.Database)
	cfg.Snapshot = expandHome(cfg.Snapshot)

	return cfg, nil
}

// Save writes the config to the XDG config directory.
func Save(cfg Config) error {
	path := ConfigPath()
	if path == "" {
		return fmt.Errorf("cannot determine config directory")
	}
	return SaveTo(cfg, path)
}

// SaveTo writes the config to a specific path. The file holds credentials,
// so it is only readable by its owner.
func SaveTo(cfg Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	return nil
}

// ApplyEnv overrides fields from KBT_* variables looked up with getenv.
// Pass os.Getenv in production.
func (c *Config) ApplyEnv(getenv func(string) string) error {
	if v := getenv("KBT_SOURCE"); v != "" {
		c.Source = SourceKind(strings.ToLower(v))
	}
	if v := getenv("KBT_URL"); v != "" {
		c.URL = v
	}
	if v := getenv("KBT_USERNAME"); v != "" {
		c.Username = v
	}
	if v := getenv("KBT_PASSWORD"); v != "" {
		c.Password = v
	}
	if v := getenv("KBT_PROJECT_ID"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("KBT_PROJECT_ID: %w", err)
		}
		c.ProjectID = id
	}
	return nil
}

// Validate reports the first problem that would stop kbt from loading a board.
func (c Config) Validate() error {
	var errs []error
	switch c.Source {
	case SourceRPC:
		if c.URL == "" {
			errs = append(errs, errors.New("url is required for the rpc source"))
		}
		if c.ProjectID <= 0 {
			errs = append(errs, errors.New("project_id must be a positive Kanboard project id"))
		}
	case SourceSQLite:
		if c.Database == "" {
			errs = append(errs, errors.New("database is required for the sqlite source"))
		}
		if c.ProjectID <= 0 {
			errs = append(errs, errors.New("project_id must be a positive Kanboard project id"))
		}
	case SourceFile:
		if c.Snapshot == "" {
			errs = append(errs, errors.New("snapshot is required for the file source"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown source %q (want rpc, sqlite or file)", c.Source))
	}
	if c.StatusID != StatusOpen && c.StatusID != StatusClosed {
		errs = append(errs, fmt.Errorf("status_id must be 0 or 1, got %d", c.StatusID))
	}
	if c.Timeout < 0 {
		errs = append(errs, errors.New("timeout must not be negative"))
	}
	if c.RefreshInterval < 0 {
		errs = append(errs, errors.New("refresh_interval must not be negative"))
	}
	if r := c.UI.DetailRatio; r != 0 && (r < 0.2 || r > 0.8) {
		errs = append(errs, fmt.Errorf("ui.detail_ratio must be between 0.2 and 0.8, got %g", r))
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// FindProject returns the bookmarked project with the given name, or nil.
func (c Config) FindProject(name string) *Project {
	for i := range c.Projects {
		if strings.EqualFold(c.Projects[i].Name, name) {
			return &c.Projects[i]
		}
	}
	return nil
}

// ResolveProject turns a project name or numeric id into a project id.
func (c Config) ResolveProject(ref string) (int64, error) {
	if p := c.FindProject(ref); p != nil {
		return p.ID, nil
	}
	id, err := strconv.ParseInt(ref, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("unknown project %q", ref)
	}
	return id, nil
}

// FavoriteProject returns the project assigned to number key n (1-9), or nil.
func (c Config) FavoriteProject(n int) *Project {
	name, ok := c.Favorites[n]
	if !ok {
		return nil
	}
	return c.FindProject(name)
}

// SetFavorite assigns a project name to a number key (1-9). An empty name
// clears the key.
func (c *Config) SetFavorite(n int, projectName string) {
	if c.Favorites == nil {
		c.Favorites = make(map[int]string)
	}
	if projectName == "" {
		delete(c.Favorites, n)
	} else {
		c.Favorites[n] = projectName
	}
}

// ProjectName returns the bookmark name for a project id, or "".
func (c Config) ProjectName(id int64) string {
	for _, p := range c.Projects {
		if p.ID == id {
			return p.Name
		}
	}
	return ""
}

func expandHome(path string) string {
	if !strings.HasPrefix(path, "~") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}
