package pipeline

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/goof2/bfmine/internal/collector"
	"github.com/goof2/bfmine/internal/miner"
	"github.com/goof2/bfmine/internal/normalize"
	tt "github.com/goof2/bfmine/internal/types"
)

const DefaultConfigFile = ".bfmine.yaml"

// Config describes where each stage reads and writes.
type Config struct {
	Name      string    `yaml:"name"`
	SourceDir string    `yaml:"source_dir"`
	Extension string    `yaml:"extension"`
	Recursive bool      `yaml:"recursive"`
	Dataset   string    `yaml:"dataset"`
	Rules     string    `yaml:"rules"`
	Mode      tt.Mode   `yaml:"mode"`
	Table     string    `yaml:"table"`
	Format    tt.Format `yaml:"format,omitempty"`
	Package   string    `yaml:"package,omitempty"`
	CacheSize int       `yaml:"cache_size"`
}

func DefaultConfig() Config {
	return Config{
		Name:      "bfmine",
		SourceDir: "programs",
		Extension: collector.DefaultExtension,
		Dataset:   "build/dataset.tsv",
		Rules:     miner.DefaultModelPath,
		Mode:      tt.ModeAllDistinct,
		Table:     "include/ml_model.hxx",
		CacheSize: normalize.DefaultCacheSize,
	}
}

// env overrides, applied after the YAML file
var envOverrides = map[string]func(*Config, string) error{
	"BFMINE_SOURCE_DIR": func(c *Config, v string) error { c.SourceDir = v; return nil },
	"BFMINE_EXTENSION":  func(c *Config, v string) error { c.Extension = v; return nil },
	"BFMINE_DATASET":    func(c *Config, v string) error { c.Dataset = v; return nil },
	"BFMINE_RULES":      func(c *Config, v string) error { c.Rules = v; return nil },
	"BFMINE_MODE":       func(c *Config, v string) error { c.Mode = tt.Mode(v); return nil },
	"BFMINE_TABLE":      func(c *Config, v string) error { c.Table = v; return nil },
	"BFMINE_FORMAT":     func(c *Config, v string) error { c.Format = tt.Format(v); return nil },
	"BFMINE_PACKAGE":    func(c *Config, v string) error { c.Package = v; return nil },
	"BFMINE_RECURSIVE": func(c *Config, v string) error {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("BFMINE_RECURSIVE: %w", err)
		}
		c.Recursive = b
		return nil
	},
}

// LoadConfig builds a Config from defaults, the YAML file at path and
// BFMINE_* environment variables, in that order. Environment files (".env"
// when none are given) are loaded first without overriding variables that are
// already set. An empty path uses DefaultConfigFile when it exists.
func LoadConfig(path string, envFiles ...string) (Config, error) {
	cfg := DefaultConfig()

	if err := loadEnvFiles(envFiles...); err != nil {
		return cfg, err
	}

	if path == "" {
		if _, err := os.Stat(DefaultConfigFile); err == nil {
			path = DefaultConfigFile
		}
	}
	if path != "" {
		if err := parseConfigurationFile(path, &cfg); err != nil {
			return cfg, err
		}
	}

	for key, apply := range envOverrides {
		v, ok := os.LookupEnv(key)
		if !ok || strings.TrimSpace(v) == "" {
			continue
		}
		if err := apply(&cfg, strings.TrimSpace(v)); err != nil {
			return cfg, err
		}
	}

	if cfg.Mode == "" {
		cfg.Mode = tt.ModeAllDistinct
	}
	return cfg, cfg.Validate()
}

func loadEnvFiles(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to load env file %s: %w", f, err)
		}
	}
	return nil
}

func parseConfigurationFile(path string, cfg *Config) error {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: config %s", tt.ErrInputNotFound, path)
		}
		return err
	}
	defer f.Close()

	decoder := yaml.NewDecoder(f)
	decoder.KnownFields(true)
	if err := decoder.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return nil
}

func (c Config) Validate() error {
	if _, err := tt.ParseMode(string(c.Mode)); err != nil {
		return err
	}
	if c.Format != "" {
		if _, err := tt.ParseFormat(string(c.Format)); err != nil {
			return err
		}
	}
	required := []struct{ name, value string }{
		{"source_dir", c.SourceDir},
		{"dataset", c.Dataset},
		{"rules", c.Rules},
		{"table", c.Table},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			return fmt.Errorf("config: %s is required", r.name)
		}
	}
	return nil
}

// WriteConfig stores cfg as YAML at path.
func WriteConfig(path string, cfg Config) error {
	d, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = f.Write(d)
	return err
}
