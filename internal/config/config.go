// Package config loads the cocoskel tool configuration.
//
// Configuration only decides WHICH executables run; the pipeline itself
// is fixed. Values come, in increasing priority, from built-in defaults,
// an optional YAML file and COCOSKEL_* environment variables
// (e.g. COCOSKEL_TOOLS_COMPARE=bcompare).
package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

const (
	// FileName is the config file looked up in the working directory
	// when no explicit path is given.
	FileName = ".cocoskel.yaml"

	// EnvPrefix prefixes every environment override.
	EnvPrefix = "COCOSKEL"
)

// Config is the effective tool configuration.
type Config struct {
	Tools Tools `mapstructure:"tools" yaml:"tools"`
}

// Tools names the external executables. Each value is either a bare
// name looked up on PATH or a path to the binary.
type Tools struct {
	Android string `mapstructure:"android" yaml:"android"`
	Cocos   string `mapstructure:"cocos" yaml:"cocos"`
	Compare string `mapstructure:"compare" yaml:"compare"`
}

// Default returns the configuration used when nothing overrides it.
func Default() Config {
	return Config{Tools: Tools{
		Android: "android",
		Cocos:   "cocos",
		Compare: "BCompare",
	}}
}

// Load builds the effective configuration.
//
// When path is empty, workdir/.cocoskel.yaml is read if it exists and
// silently skipped otherwise. An explicit path must exist.
func Load(path, workdir string) (Config, error) {
	v := viper.New()

	def := Default()
	v.SetDefault("tools.android", def.Tools.Android)
	v.SetDefault("tools.cocos", def.Tools.Cocos)
	v.SetDefault("tools.compare", def.Tools.Compare)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	explicit := path != ""
	if !explicit {
		path = filepath.Join(workdir, FileName)
	}
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		if explicit || !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("reading config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decoding config: %w", err)
	}
	return cfg, nil
}

// WriteYAML writes cfg as YAML.
func WriteYAML(w io.Writer, cfg Config) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(cfg); err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	return enc.Close()
}
