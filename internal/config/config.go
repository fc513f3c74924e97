// Package config loads shenanigans-manager settings from an optional config
// file and SHENANIGANS_* environment variables.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

const (
	// AppName is the application name.
	AppName = "shenanigans-manager"
	// ConfigFileName is the name of the config file (without extension).
	ConfigFileName = "shenanigans"
	// EnvPrefix prefixes environment overrides, e.g. SHENANIGANS_ORGANIZATION.
	EnvPrefix = "SHENANIGANS"
)

// ErrInvalid is returned when loaded settings fail validation.
var ErrInvalid = errors.New("invalid configuration")

// Settings configures the manager.
type Settings struct {
	// Organization is the GitHub owner repositories are cloned from.
	Organization string `mapstructure:"organization"`
	// Repositories lists every managed repository, in execution order.
	Repositories []string `mapstructure:"repositories"`
	// Directory is where repositories are cloned to and run within.
	Directory string       `mapstructure:"directory"`
	Source    SourceConfig `mapstructure:"source"`
}

// SourceConfig locates the TypeScript command modules to describe.
type SourceConfig struct {
	Root     string   `mapstructure:"root"`
	Commands string   `mapstructure:"commands"`
	Include  []string `mapstructure:"include"`
}

// DefaultRepositories are the FullScreenShenanigans modules, infrastructure
// first and games last.
var DefaultRepositories = []string{
	"babyioc",
	"areaspawnr",
	"audioplayr",
	"battlemovr",
	"changelinr",
	"classcyclr",
	"devicelayr",
	"eightbittr",
	"flagswappr",
	"fpsanalyzr",
	"gamesrunnr",
	"groupholdr",
	"inputwritr",
	"itemsholdr",
	"mapscreatr",
	"mapscreenr",
	"menugraphr",
	"modattachr",
	"numbermakr",
	"objectmakr",
	"pixeldrawr",
	"pixelrendr",
	"quadskeepr",
	"sceneplayr",
	"stateholdr",
	"stringfilr",
	"thinghittr",
	"timehandlr",
	"touchpassr",
	"userwrappr",
	"worldseedr",
	"fullscreenpokemon",
}

// DefaultSettings returns the settings used when nothing is configured.
func DefaultSettings() *Settings {
	return &Settings{
		Organization: "FullScreenShenanigans",
		Repositories: append([]string(nil), DefaultRepositories...),
		Directory:    ".",
		Source: SourceConfig{
			Root:     ".",
			Commands: "src/commands",
			Include:  []string{"src/**/*.ts"},
		},
	}
}

// LoadOptions controls where Load looks for a config file.
type LoadOptions struct {
	// FilePath, when set, is the only config file read and must exist.
	FilePath string
	// SearchDir is searched for shenanigans.{toml,yaml,json} when FilePath
	// is empty. Defaults to the working directory.
	SearchDir string
}

// Load reads settings. A missing config file in SearchDir is not an error.
func Load(opts LoadOptions) (*Settings, error) {
	v := viper.New()

	defaults := DefaultSettings()
	v.SetDefault("organization", defaults.Organization)
	v.SetDefault("repositories", defaults.Repositories)
	v.SetDefault("directory", defaults.Directory)
	v.SetDefault("source.root", defaults.Source.Root)
	v.SetDefault("source.commands", defaults.Source.Commands)
	v.SetDefault("source.include", defaults.Source.Include)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if opts.FilePath != "" {
		v.SetConfigFile(opts.FilePath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", opts.FilePath, err)
		}
	} else {
		dir := opts.SearchDir
		if dir == "" {
			dir = "."
		}
		v.SetConfigName(ConfigFileName)
		v.AddConfigPath(dir)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("reading config: %w", err)
			}
		}
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Validate reports settings the manager cannot run with.
func (s *Settings) Validate() error {
	if strings.TrimSpace(s.Organization) == "" {
		return fmt.Errorf("%w: organization is empty", ErrInvalid)
	}
	if len(s.Source.Include) == 0 {
		return fmt.Errorf("%w: source.include is empty", ErrInvalid)
	}
	if strings.TrimSpace(s.Source.Commands) == "" {
		return fmt.Errorf("%w: source.commands is empty", ErrInvalid)
	}
	return nil
}

// HasRepository reports whether name is one of the managed repositories.
func (s *Settings) HasRepository(name string) bool {
	for _, r := range s.Repositories {
		if r == name {
			return true
		}
	}
	return false
}
