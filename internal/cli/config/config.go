// Package config loads the resgen.yml project configuration.
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/resgen-dev/resgen/internal/emitter"
	"github.com/resgen-dev/resgen/internal/errors"
	"github.com/resgen-dev/resgen/internal/generator"
	"github.com/resgen-dev/resgen/internal/resolver"
)

// FileNames are the config files looked up in the working directory
var FileNames = []string{"resgen.yml", "resgen.yaml"}

// Config represents the resgen configuration
type Config struct {
	SourceDir          string           `mapstructure:"source_dir" yaml:"source_dir"`
	OutputDir          string           `mapstructure:"output_dir" yaml:"output_dir"`
	GenerationType     string           `mapstructure:"generation_type" yaml:"generation_type"`
	TargetPackage      string           `mapstructure:"target_package" yaml:"target_package"`
	InjectDependencies bool             `mapstructure:"inject_dependencies" yaml:"inject_dependencies"`
	ScanAssets         bool             `mapstructure:"scan_assets" yaml:"scan_assets"`
	Naming             NamingConfig     `mapstructure:"naming" yaml:"naming"`
	Dependencies       DependencyConfig `mapstructure:"dependencies" yaml:"dependencies"`
}

// NamingConfig represents identifier naming configuration
type NamingConfig struct {
	Casing     string `mapstructure:"casing" yaml:"casing"`
	Collisions string `mapstructure:"collisions" yaml:"collisions"`
}

// DependencyConfig pins the versions of injected dependencies
type DependencyConfig struct {
	JetbrainsAnnotations string `mapstructure:"jetbrains_annotations" yaml:"jetbrains_annotations"`
}

// Default returns the configuration used when no file is present
func Default() *Config {
	return &Config{
		SourceDir:      "resources",
		OutputDir:      "generated",
		GenerationType: "go",
		TargetPackage:  generator.DefaultTargetPackage,
		ScanAssets:     true,
		Naming: NamingConfig{
			Casing:     string(resolver.CasingAuto),
			Collisions: string(resolver.CollisionFail),
		},
		Dependencies: DependencyConfig{
			JetbrainsAnnotations: emitter.DefaultAnnotationsVersion,
		},
	}
}

// Load reads the configuration. With an empty path resgen.yml or
// resgen.yaml in the working directory is used when present. RESGEN_*
// environment variables override file values (RESGEN_NAMING_CASING).
func Load(path string) (*Config, error) {
	v := viper.New()

	def := Default()
	v.SetDefault("source_dir", def.SourceDir)
	v.SetDefault("output_dir", def.OutputDir)
	v.SetDefault("generation_type", def.GenerationType)
	v.SetDefault("target_package", def.TargetPackage)
	v.SetDefault("inject_dependencies", def.InjectDependencies)
	v.SetDefault("scan_assets", def.ScanAssets)
	v.SetDefault("naming.casing", def.Naming.Casing)
	v.SetDefault("naming.collisions", def.Naming.Collisions)
	v.SetDefault("dependencies.jetbrains_annotations", def.Dependencies.JetbrainsAnnotations)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("resgen")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("RESGEN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, errors.Wrap(err, "failed to read config file")
		}
		// Config file not found - use defaults
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal config")
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// Validate checks every enumerated option
func (c *Config) Validate() error {
	if c.GenerationType != "" {
		if _, err := emitter.Lookup(c.GenerationType); err != nil {
			return errors.NewInvalidConfig("generation_type", c.GenerationType, emitter.Types())
		}
	}
	if _, ok := resolver.ParseCasing(c.Naming.Casing); !ok {
		return errors.NewInvalidConfig("naming.casing", c.Naming.Casing, resolver.Casings)
	}
	if _, ok := resolver.ParseCollisionPolicy(c.Naming.Collisions); !ok {
		return errors.NewInvalidConfig("naming.collisions", c.Naming.Collisions, resolver.CollisionPolicies)
	}
	if strings.TrimSpace(c.SourceDir) == "" {
		return errors.NewInvalidConfig("source_dir", c.SourceDir, nil)
	}
	if strings.TrimSpace(c.OutputDir) == "" {
		return errors.NewInvalidConfig("output_dir", c.OutputDir, nil)
	}
	return nil
}

// Generator converts the file configuration into generation options
func (c *Config) Generator() generator.Config {
	casing, _ := resolver.ParseCasing(c.Naming.Casing)
	collisions, _ := resolver.ParseCollisionPolicy(c.Naming.Collisions)
	return generator.Config{
		GenerationType:     c.GenerationType,
		InjectDependencies: c.InjectDependencies,
		TargetPackage:      generator.SanitizePackage(c.TargetPackage),
		OutputDir:          c.OutputDir,
		Casing:             casing,
		Collisions:         collisions,
		ScanAssets:         c.ScanAssets,
		AnnotationsVersion: c.Dependencies.JetbrainsAnnotations,
	}
}

// Save writes the configuration as YAML
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return errors.Wrap(err, "failed to marshal config")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return errors.Wrapf(err, "failed to create %s", dir)
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.Wrapf(err, "failed to write %s", path)
	}
	return nil
}

// Exists reports whether a config file is present in dir
func Exists(dir string) bool {
	for _, name := range FileNames {
		if _, err := os.Stat(filepath.Join(dir, name)); err == nil {
			return true
		}
	}
	return false
}
