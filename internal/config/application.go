package config

import (
	"errors"
	"fmt"
	"path"
	"reflect"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/mitchellh/go-homedir"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v2"

	"github.com/anchore/vercheck/internal"
	"github.com/anchore/vercheck/vercheck"
	"github.com/anchore/vercheck/vercheck/checker"
	"github.com/anchore/vercheck/vercheck/runner"
)

var ErrApplicationConfigNotFound = fmt.Errorf("application config not found")

type defaultValueLoader interface {
	loadDefaultValues(*viper.Viper)
}

// CliOnlyOptions are options that can only be given on the command line (never in a config file).
type CliOnlyOptions struct {
	ConfigPath string
	Verbosity  int
	// Requires are "NAME=EXPRESSION" requirements that take precedence over the configured ones.
	Requires []string
}

type Application struct {
	ConfigPath         string            `yaml:",omitempty" json:"configPath"`                                                         // the location where the application config was read from (either from -c or discovered while loading)
	Outputs            []string          `yaml:"output" json:"output" mapstructure:"output"`                                           // -o, the Presenter hint strings to use for report formatting
	File               string            `yaml:"file" json:"file" mapstructure:"file"`                                                 // --file, the file to write report output to
	OutputTemplateFile string            `yaml:"output-template-file" json:"output-template-file" mapstructure:"output-template-file"` // -t, the template file to use for formatting the final report
	Quiet              bool              `yaml:"quiet" json:"quiet" mapstructure:"quiet"`                                              // -q, indicates to not show any status output to stderr
	CheckForAppUpdate  bool              `yaml:"check-for-app-update" json:"check-for-app-update" mapstructure:"check-for-app-update"` // whether to check for an application update on start up or not
	Timeout            time.Duration     `yaml:"timeout" json:"timeout" mapstructure:"timeout"`                                        // --timeout, the longest a single version command may run
	Parallelism        int               `yaml:"parallelism" json:"parallelism" mapstructure:"parallelism"`                            // --parallelism, the number of version commands run at once
	FailOnMissing      bool              `yaml:"fail-on-missing" json:"fail-on-missing" mapstructure:"fail-on-missing"`                // fail when a required binary is not installed
	Log                logging           `yaml:"log" json:"log" mapstructure:"log"`
	Dev                development       `yaml:"dev" json:"dev" mapstructure:"dev"`
	RawRequirements    requirements      `yaml:"requirements" json:"requirements" mapstructure:"requirements"`
	Checkers           []customChecker   `yaml:"checkers" json:"checkers" mapstructure:"checkers"`
	CliOptions         CliOnlyOptions    `yaml:"-" json:"-"`
	Requirements       []vercheck.Target `yaml:"-" json:"-"`
	Registry           checker.Registry  `yaml:"-" json:"-"`
}

func newApplicationConfig(v *viper.Viper, cliOpts CliOnlyOptions) *Application {
	config := &Application{
		CliOptions: cliOpts,
	}
	config.loadDefaultValues(v)

	return config
}

func LoadApplicationConfig(v *viper.Viper, cliOpts CliOnlyOptions) (*Application, error) {
	// a missing config file is fine: defaults and flags apply
	config := newApplicationConfig(v, cliOpts)

	if err := readConfig(v, cliOpts.ConfigPath); err != nil && !errors.Is(err, ErrApplicationConfigNotFound) {
		return nil, err
	}

	if err := v.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("unable to parse config: %w", err)
	}
	config.ConfigPath = v.ConfigFileUsed()

	if err := config.parseConfigValues(); err != nil {
		return nil, fmt.Errorf("invalid application config: %w", err)
	}

	return config, nil
}

// loadDefaultValues registers defaults for this struct and every field that knows its own defaults.
func (cfg Application) loadDefaultValues(v *viper.Viper) {
	v.SetDefault("check-for-app-update", true)
	v.SetDefault("fail-on-missing", true)
	v.SetDefault("timeout", runner.DefaultTimeout)
	v.SetDefault("parallelism", 4)

	// defaultValueLoader is implemented on value receivers
	value := reflect.ValueOf(cfg)
	for i := 0; i < value.NumField(); i++ {
		if loader, ok := value.Field(i).Interface().(defaultValueLoader); ok {
			loader.loadDefaultValues(v)
		}
	}
}

func (cfg *Application) parseConfigValues() error {
	for _, optionFn := range []func() error{
		cfg.parseLogLevelOption,
		cfg.parseRequirements,
		cfg.parseCheckers,
		cfg.parseLimits,
	} {
		if err := optionFn(); err != nil {
			return err
		}
	}

	return nil
}

func (cfg *Application) parseLogLevelOption() error {
	switch {
	case cfg.Quiet:
		// TODO: quiet also silences a configured log file; only the console should go quiet
		cfg.Log.LevelOpt = logrus.PanicLevel

	case cfg.Log.Level != "":
		if cfg.CliOptions.Verbosity > 0 {
			return fmt.Errorf("cannot explicitly set log level (cfg file or env var) and use -v flag together")
		}

		lvl, err := parseLevel(cfg.Log.Level)
		if err != nil {
			return err
		}
		cfg.Log.LevelOpt = lvl

		if cfg.Log.LevelOpt >= logrus.InfoLevel {
			cfg.CliOptions.Verbosity = 1
		}

	default:
		switch v := cfg.CliOptions.Verbosity; {
		case v == 1:
			cfg.Log.LevelOpt = logrus.InfoLevel
		case v == 2:
			cfg.Log.LevelOpt = logrus.DebugLevel
		case v >= 3:
			cfg.Log.LevelOpt = logrus.TraceLevel
		default:
			cfg.Log.LevelOpt = logrus.WarnLevel
		}
	}

	return nil
}

func (cfg *Application) parseRequirements() error {
	targets, err := cfg.RawRequirements.parse(cfg.CliOptions.Requires)
	if err != nil {
		return err
	}
	cfg.Requirements = targets
	return nil
}

func (cfg *Application) parseCheckers() error {
	registry, err := buildRegistry(cfg.Checkers)
	if err != nil {
		return fmt.Errorf("bad custom checker: %w", err)
	}
	cfg.Registry = registry
	return nil
}

func (cfg *Application) parseLimits() error {
	if cfg.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %s", cfg.Timeout)
	}
	if cfg.Parallelism < 1 {
		return fmt.Errorf("parallelism must be at least 1, got %d", cfg.Parallelism)
	}
	return nil
}

// CheckConfig is the library configuration described by this application config.
func (cfg Application) CheckConfig() vercheck.Config {
	return vercheck.Config{
		Registry:      cfg.Registry,
		Runner:        runner.NewExecRunner(cfg.Timeout),
		Parallelism:   cfg.Parallelism,
		FailOnMissing: cfg.FailOnMissing,
	}
}

func (cfg Application) String() string {
	out, err := yaml.Marshal(&cfg)
	if err != nil {
		return err.Error()
	}
	return string(out)
}

// configLocation is a directory and file name (without extension) searched for a config file.
type configLocation struct {
	dirs []string
	name string
}

// configSearchOrder lists where a config is looked for when none is given with -c; the first hit wins.
func configSearchOrder() []configLocation {
	app := internal.ApplicationName
	locations := []configLocation{
		{dirs: []string{"."}, name: "." + app},
		{dirs: []string{"." + app}, name: "config"},
	}

	if home, err := homedir.Dir(); err == nil {
		locations = append(locations, configLocation{dirs: []string{home}, name: "." + app})
	}

	xdgDirs := []string{path.Join(xdg.ConfigHome, app)}
	for _, dir := range xdg.ConfigDirs {
		xdgDirs = append(xdgDirs, path.Join(dir, app))
	}
	return append(locations, configLocation{dirs: xdgDirs, name: "config"})
}

// findConfig returns the config file at a single location, or "" when there is none. Each location is searched
// on its own so a name is never looked up in another location's directories.
func findConfig(loc configLocation) (string, error) {
	probe := viper.New()
	for _, dir := range loc.dirs {
		probe.AddConfigPath(dir)
	}
	probe.SetConfigName(loc.name)

	err := probe.ReadInConfig()
	switch {
	case err == nil:
		return probe.ConfigFileUsed(), nil
	case errors.As(err, &viper.ConfigFileNotFoundError{}):
		return "", nil
	default:
		return "", fmt.Errorf("unable to parse config=%q: %w", probe.ConfigFileUsed(), err)
	}
}

// readConfig reads the config file at configPath, or the first one found in the search order. Every option may
// also be given as an environment variable, e.g. log.level as VERCHECK_LOG_LEVEL.
func readConfig(v *viper.Viper, configPath string) error {
	v.AutomaticEnv()
	v.SetEnvPrefix(internal.ApplicationName)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("unable to read application config=%q: %w", configPath, err)
		}
		return nil
	}

	for _, loc := range configSearchOrder() {
		found, err := findConfig(loc)
		if err != nil {
			return err
		}
		if found == "" {
			continue
		}
		v.SetConfigFile(found)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("unable to parse config=%q: %w", found, err)
		}
		return nil
	}

	return ErrApplicationConfigNotFound
}
