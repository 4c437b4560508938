// Package config loads vibe-panel settings from ~/.vibe-panel.yaml and
// VIBE_PANEL_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/inodb/vibe-panel/internal/basicinfo"
	"github.com/inodb/vibe-panel/internal/datasource/oncokb"
	"github.com/inodb/vibe-panel/internal/genomenexus"
)

// Name is the config file name without extension, looked up in $HOME.
const Name = ".vibe-panel"

// EnvPrefix prefixes environment overrides, e.g. VIBE_PANEL_SERVER_ADDR.
const EnvPrefix = "VIBE_PANEL"

// Config holds all settings.
type Config struct {
	GenomeNexus genomenexus.Config `mapstructure:"genomenexus"`
	OncoKB      OncoKB             `mapstructure:"oncokb"`
	Annotation  Annotation         `mapstructure:"annotation"`
	Server      Server             `mapstructure:"server"`
	DB          DB                 `mapstructure:"db"`
}

// OncoKB locates the OncoKB site and the local cancer gene list.
type OncoKB struct {
	URL   string `mapstructure:"url"`
	Genes string `mapstructure:"genes"` // cancer gene list, TSV or JSON
}

// Annotation configures the annotation query behind the panel's JSON link.
type Annotation struct {
	Fields []string `mapstructure:"fields"` // fields of the JSON link query
}

// Server holds the HTTP server listen address and timeouts.
type Server struct {
	Addr         string        `mapstructure:"addr"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// DB locates the local annotation database.
type DB struct {
	Path string `mapstructure:"path"`
}

// DataDir returns ~/.vibe-panel, where downloads and the database live.
// It returns "" when the home directory is unknown.
func DataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, Name)
}

// SetDefaults registers default values on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("genomenexus.url", genomenexus.DefaultURL)
	v.SetDefault("genomenexus.timeout", "30s")
	v.SetDefault("genomenexus.rate_limit", 10)
	v.SetDefault("oncokb.url", oncokb.DefaultURL)
	v.SetDefault("oncokb.genes", "")
	v.SetDefault("annotation.fields", basicinfo.DefaultQueryFields)
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "60s")
	if dir := DataDir(); dir != "" {
		v.SetDefault("db.path", filepath.Join(dir, "annotations.duckdb"))
	}
}

// Init prepares v to read the config file and environment. An empty cfgFile
// means ~/.vibe-panel.yaml. A missing default config file is not an error.
func Init(v *viper.Viper, cfgFile string) error {
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			v.AddConfigPath(home)
		}
		v.SetConfigName(Name)
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	SetDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}
	return nil
}

// Load unmarshals the settings of v.
func Load(v *viper.Viper) (*Config, error) {
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if len(c.GenomeNexus.Fields) == 0 {
		c.GenomeNexus.Fields = c.Annotation.Fields
	}
	return &c, nil
}
