package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// StorageConfig locates the directories that can be searched.
type StorageConfig struct {
	Root string `yaml:"root" toml:"root"`
}

// CorpusConfig controls which files are loaded from the searched directory.
type CorpusConfig struct {
	Extensions     []string `yaml:"extensions" toml:"extensions"`
	SkipUnreadable bool     `yaml:"skip_unreadable" toml:"skip_unreadable"`
}

// QueryConfig configures the interactive query loop and matching.
type QueryConfig struct {
	MaxIterations int    `yaml:"max_iterations" toml:"max_iterations"`
	Prompt        string `yaml:"prompt" toml:"prompt"`
	MatchMode     string `yaml:"match_mode" toml:"match_mode"`
	// EchoQuery repeats each query after it is read. Nil means echo only
	// when input is not a terminal.
	EchoQuery *bool `yaml:"echo_query,omitempty" toml:"echo_query,omitempty"`
}

// LoggingConfig controls log level and handler format.
type LoggingConfig struct {
	Level  string `yaml:"level" toml:"level"`
	Format string `yaml:"format" toml:"format"`
}

// UIConfig selects the interactive front end.
type UIConfig struct {
	Mode  string `yaml:"mode" toml:"mode"`
	Color bool   `yaml:"color" toml:"color"`
}

// AppConfig is the root application configuration structure.
type AppConfig struct {
	Storage StorageConfig `yaml:"storage" toml:"storage"`
	Corpus  CorpusConfig  `yaml:"corpus" toml:"corpus"`
	Query   QueryConfig   `yaml:"query" toml:"query"`
	Logging LoggingConfig `yaml:"logging" toml:"logging"`
	UI      UIConfig      `yaml:"ui" toml:"ui"`
}

const (
	UIModeLine = "line"
	UIModeTUI  = "tui"

	DefaultPrompt        = "Enter word(s) to search: "
	DefaultMaxIterations = 1000
	DefaultRoot          = "var/search"
)

// Load reads a config from a specified path. The format follows the file
// extension: .toml for TOML, anything else is YAML. If the file does not
// exist, returns defaults. Environment overrides are applied in both cases.
func Load(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			cfg := defaultConfig()
			applyEnvOverrides(cfg)
			return cfg, nil
		}
		return nil, err
	}
	cfg := defaultConfig()
	if isTOML(path) {
		err = toml.Unmarshal(data, cfg)
	} else {
		err = yaml.Unmarshal(data, cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("parsing config file %s: %w", path, err)
	}
	applyConfigDefaults(cfg)
	applyEnvOverrides(cfg)
	return cfg, nil
}

// LoadDefault tries ./simplesearch.yaml and ./simplesearch.toml first, then
// ~/.config/simplesearch/config.yaml. If none exists, it writes defaults to
// ~/.config/simplesearch/config.yaml and returns them.
func LoadDefault() (*AppConfig, string, error) {
	for _, cwdPath := range []string{"simplesearch.yaml", "simplesearch.toml"} {
		if _, err := os.Stat(cwdPath); err == nil {
			cfg, err := Load(cwdPath)
			return cfg, cwdPath, err
		}
	}
	userPath, err := defaultUserConfigPath()
	if err != nil {
		return nil, "", err
	}
	if _, err := os.Stat(userPath); err == nil {
		cfg, err := Load(userPath)
		return cfg, userPath, err
	}
	cfg := defaultConfig()
	if err := Save(userPath, cfg); err != nil {
		return nil, "", err
	}
	applyEnvOverrides(cfg)
	return cfg, userPath, nil
}

// Save writes the config to the given path, creating directories as needed.
func Save(path string, cfg *AppConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	var (
		data []byte
		err  error
	)
	if isTOML(path) {
		data, err = toml.Marshal(cfg)
	} else {
		data, err = yaml.Marshal(cfg)
	}
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Validate checks enumerated values and bounds.
func (c *AppConfig) Validate() error {
	switch strings.ToLower(c.Query.MatchMode) {
	case "", "literal", "pattern":
	default:
		return fmt.Errorf("query.match_mode: unknown value %q", c.Query.MatchMode)
	}
	switch strings.ToLower(c.UI.Mode) {
	case "", UIModeLine, UIModeTUI:
	default:
		return fmt.Errorf("ui.mode: unknown value %q", c.UI.Mode)
	}
	if c.Query.MaxIterations < 0 {
		return fmt.Errorf("query.max_iterations: must not be negative, got %d", c.Query.MaxIterations)
	}
	if strings.TrimSpace(c.Storage.Root) == "" {
		return errors.New("storage.root: must not be empty")
	}
	return nil
}

func isTOML(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".toml")
}

func defaultUserConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "simplesearch", "config.yaml"), nil
}

func defaultConfig() *AppConfig {
	cfg := &AppConfig{
		Storage: StorageConfig{Root: DefaultRoot},
		Query: QueryConfig{
			MaxIterations: DefaultMaxIterations,
			Prompt:        DefaultPrompt,
			MatchMode:     "literal",
		},
		Logging: LoggingConfig{Level: "warn", Format: "text"},
		UI:      UIConfig{Mode: UIModeLine, Color: true},
	}
	return cfg
}

func applyConfigDefaults(cfg *AppConfig) {
	if cfg.Storage.Root == "" {
		cfg.Storage.Root = DefaultRoot
	}
	if cfg.Query.Prompt == "" {
		cfg.Query.Prompt = DefaultPrompt
	}
	if cfg.Query.MatchMode == "" {
		cfg.Query.MatchMode = "literal"
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "warn"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "text"
	}
	if cfg.UI.Mode == "" {
		cfg.UI.Mode = UIModeLine
	}
}

// applyEnvOverrides reads SIMPLESEARCH_* environment variables and overrides
// the corresponding config fields.
func applyEnvOverrides(cfg *AppConfig) {
	if v := os.Getenv("SIMPLESEARCH_ROOT"); v != "" {
		cfg.Storage.Root = v
	}
	if v := os.Getenv("SIMPLESEARCH_EXTENSIONS"); v != "" {
		cfg.Corpus.Extensions = strings.Split(v, ",")
	}
	if v := os.Getenv("SIMPLESEARCH_SKIP_UNREADABLE"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Corpus.SkipUnreadable = b
		}
	}
	if v := os.Getenv("SIMPLESEARCH_MAX_QUERIES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Query.MaxIterations = n
		}
	}
	if v := os.Getenv("SIMPLESEARCH_MATCH_MODE"); v != "" {
		cfg.Query.MatchMode = v
	}
	if v := os.Getenv("SIMPLESEARCH_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("SIMPLESEARCH_LOG_FORMAT"); v != "" {
		cfg.Logging.Format = v
	}
	if v := os.Getenv("SIMPLESEARCH_UI"); v != "" {
		cfg.UI.Mode = v
	}
}
