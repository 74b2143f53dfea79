package internal

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/viper"

	"github.com/tuannm99/savereader/internal/savefile"
	"github.com/tuannm99/savereader/internal/table"
)

var ErrInvalidConfig = errors.New("config: invalid")

type SectionConfig struct {
	Name   string `mapstructure:"name"`
	Layout string `mapstructure:"layout"`
}

type SaveDumpConfig struct {
	AppName string `mapstructure:"app_name"`

	Input struct {
		Path        string `mapstructure:"path"`
		Compression string `mapstructure:"compression"`
	} `mapstructure:"input"`

	Sections []SectionConfig `mapstructure:"sections"`

	Output struct {
		Path        string `mapstructure:"path"`
		Format      string `mapstructure:"format"`
		Indent      int    `mapstructure:"indent"`
		SparseIndex bool   `mapstructure:"sparse_index"`
	} `mapstructure:"output"`

	Log struct {
		Level  string `mapstructure:"level"`
		Format string `mapstructure:"format"`
	} `mapstructure:"log"`
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetDefault("app_name", "savedump")
	v.SetDefault("input.compression", savefile.CompressionAuto)
	v.SetDefault("sections", []map[string]any{{"name": "table", "layout": "dense"}})
	v.SetDefault("output.format", savefile.FormatJSON)
	v.SetDefault("output.indent", 0)
	v.SetDefault("output.sparse_index", false)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetEnvPrefix("SAVEDUMP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// LoadConfig reads a YAML config file. An empty path yields the defaults,
// still subject to SAVEDUMP_* environment overrides.
func LoadConfig(path string) (*SaveDumpConfig, error) {
	v := newViper()
	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg SaveDumpConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *SaveDumpConfig) Validate() error {
	switch c.Input.Compression {
	case savefile.CompressionAuto, savefile.CompressionNone, savefile.CompressionGzip, savefile.CompressionZstd:
	default:
		return fmt.Errorf("%w: input.compression %q", ErrInvalidConfig, c.Input.Compression)
	}
	if len(c.Sections) == 0 {
		return fmt.Errorf("%w: no sections", ErrInvalidConfig)
	}
	seen := make(map[string]bool, len(c.Sections))
	for i, s := range c.Sections {
		if s.Name == "" {
			return fmt.Errorf("%w: sections[%d] has no name", ErrInvalidConfig, i)
		}
		if seen[s.Name] {
			return fmt.Errorf("%w: duplicate section %q", ErrInvalidConfig, s.Name)
		}
		seen[s.Name] = true
		if _, err := table.ParseLayout(s.Layout); err != nil {
			return fmt.Errorf("%w: sections[%d]: %v", ErrInvalidConfig, i, err)
		}
	}
	switch c.Output.Format {
	case savefile.FormatJSON, savefile.FormatYAML:
	default:
		return fmt.Errorf("%w: output.format %q", ErrInvalidConfig, c.Output.Format)
	}
	if c.Output.Indent < 0 {
		return fmt.Errorf("%w: output.indent %d", ErrInvalidConfig, c.Output.Indent)
	}
	if _, err := c.LogLevel(); err != nil {
		return err
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("%w: log.format %q", ErrInvalidConfig, c.Log.Format)
	}
	return nil
}

// SectionSpecs converts the configured sections for savefile.Decoder.
func (c *SaveDumpConfig) SectionSpecs() ([]savefile.SectionSpec, error) {
	specs := make([]savefile.SectionSpec, 0, len(c.Sections))
	for _, s := range c.Sections {
		l, err := table.ParseLayout(s.Layout)
		if err != nil {
			return nil, err
		}
		specs = append(specs, savefile.SectionSpec{Name: s.Name, Layout: l})
	}
	return specs, nil
}

func (c *SaveDumpConfig) ExportOptions() savefile.ExportOptions {
	return savefile.ExportOptions{
		Format:      c.Output.Format,
		Indent:      c.Output.Indent,
		SparseIndex: c.Output.SparseIndex,
	}
}

func (c *SaveDumpConfig) LogLevel() (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return 0, fmt.Errorf("%w: log.level %q", ErrInvalidConfig, c.Log.Level)
	}
	return l, nil
}
