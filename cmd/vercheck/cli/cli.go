package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/gookit/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/wagoodman/go-partybus"

	"github.com/anchore/vercheck/internal/config"
	"github.com/anchore/vercheck/internal/log"
	"github.com/anchore/vercheck/internal/logger"
	"github.com/anchore/vercheck/internal/version"
	"github.com/anchore/vercheck/vercheck"
)

const (
	exitChecksFailed = 1
	exitUsageError   = 2
)

var (
	appConfig         *config.Application
	eventBus          *partybus.Bus
	eventSubscription *partybus.Subscription
	cliOpts           = config.CliOnlyOptions{}
)

// errChecksFailed is returned by the root command when at least one requirement is not met; the report itself
// already explains what failed.
var errChecksFailed = errors.New("one or more version requirements are not satisfied")

func init() {
	cobra.OnInitialize(
		initRootCmdConfigOptions,
		initAppConfig,
		initLogging,
		logAppConfig,
		logAppVersion,
		initEventBus,
	)
}

func Execute() {
	os.Exit(execute(context.Background()))
}

func execute(ctx context.Context) int {
	err := rootCmd.ExecuteContext(ctx)
	switch {
	case err == nil:
		return 0
	case errors.Is(err, errChecksFailed):
		log.Debugf("%+v", err)
		return exitChecksFailed
	default:
		_ = stderrPrintLnf("%+v", err)
		return exitUsageError
	}
}

func initRootCmdConfigOptions() {
	if err := bindRootConfigOptions(rootCmd.Flags()); err != nil {
		panic(err)
	}
}

func initAppConfig() {
	cfg, err := config.LoadApplicationConfig(viper.GetViper(), cliOpts)
	if err != nil {
		_ = stderrPrintLnf("failed to load application config: \n\t%+v", err)
		os.Exit(exitUsageError)
	}
	appConfig = cfg
}

// initLogging logs to the console unless quiet, or unless a log file is configured without -v.
func initLogging() {
	toFile := appConfig.Log.FileLocation != ""
	l, err := logger.NewLogrusLogger(logger.LogrusConfig{
		EnableConsole: !appConfig.Quiet && (!toFile || isVerbose()),
		EnableFile:    toFile,
		Level:         appConfig.Log.LevelOpt,
		Structured:    appConfig.Log.Structured,
		FileLocation:  appConfig.Log.FileLocation,
	})
	if err != nil {
		_ = stderrPrintLnf("unable to initialize logging: %+v", err)
		os.Exit(exitUsageError)
	}

	vercheck.SetLogger(l)
}

func logAppConfig() {
	log.Debugf("application config:\n%+v", color.Magenta.Sprint(appConfig.String()))
}

func logAppVersion() {
	v := version.FromBuild()
	log.Infof("%s version: %s", v.Application, v.Version)

	details := [][2]string{
		{"buildDate", v.BuildDate},
		{"compiler", v.Compiler},
		{"gitCommit", v.GitCommit},
		{"gitTreeState", v.GitTreeState},
		{"goVersion", v.GoVersion},
		{"platform", v.Platform},
	}
	for i, d := range details {
		branch := "├──"
		if i == len(details)-1 {
			branch = "└──"
		}
		log.Debugf("  %s %s: %s", branch, d[0], d[1])
	}
}

func initEventBus() {
	eventBus = partybus.NewBus()
	eventSubscription = eventBus.Subscribe()

	vercheck.SetBus(eventBus)
}

func isVerbose() bool {
	return appConfig.CliOptions.Verbosity > 0
}

func stderrPrintLnf(format string, args ...interface{}) error {
	_, err := fmt.Fprintln(os.Stderr, strings.TrimSuffix(fmt.Sprintf(format, args...), "\n"))
	return err
}
