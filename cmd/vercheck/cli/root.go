package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/pkg/profile"
	"github.com/scylladb/go-set/strset"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/wagoodman/go-partybus"

	"github.com/anchore/vercheck/internal"
	"github.com/anchore/vercheck/internal/bus"
	"github.com/anchore/vercheck/internal/format"
	"github.com/anchore/vercheck/internal/log"
	"github.com/anchore/vercheck/internal/stringutil"
	"github.com/anchore/vercheck/internal/ui"
	"github.com/anchore/vercheck/internal/version"
	"github.com/anchore/vercheck/vercheck"
	"github.com/anchore/vercheck/vercheck/event"
	"github.com/anchore/vercheck/vercheck/event/parsers"
	"github.com/anchore/vercheck/vercheck/presenter/models"
	"github.com/anchore/vercheck/vercheck/runner"
)

const updateCheckTimeout = 5 * time.Second

var rootCmd = &cobra.Command{
	Use:   fmt.Sprintf("%s [NAME...]", internal.ApplicationName),
	Short: "Check installed tool versions against version requirements",
	Long: stringutil.Tprintf(`Runs the version command of every required tool and checks the reported version against its requirement.
Requirements are read from the application config and may be given (or overridden) on the command line:
    {{.appName}}                                   check all configured requirements
    {{.appName}} node go                           only check the "node" and "go" requirements
    {{.appName}} -r 'node=>=18, <22' -r go=^1.21   check the given requirements
    {{.appName}} docker:server -r 'docker:server=>=24'
                                                 check a named component reported by a tool
    {{.appName}} git                               report the installed version of a tool without a requirement

Exits with 1 when a requirement is not satisfied and with 2 on configuration or usage errors.
`, map[string]interface{}{
		"appName": internal.ApplicationName,
	}),
	Args:          cobra.ArbitraryArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runCheck,
	ValidArgsFunction: func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		if appConfig == nil {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}
		return appConfig.Registry.Names(), cobra.ShellCompDirectiveNoFileComp
	},
}

func init() {
	setGlobalCliOptions()
	setRootFlags(rootCmd.Flags())
}

func setGlobalCliOptions() {
	rootCmd.PersistentFlags().StringVarP(&cliOpts.ConfigPath, "config", "c", "", "application config file")

	flag := "quiet"
	rootCmd.PersistentFlags().BoolP(
		flag, "q", false,
		"suppress all logging output",
	)
	if err := viper.BindPFlag(flag, rootCmd.PersistentFlags().Lookup(flag)); err != nil {
		fmt.Printf("unable to bind flag '%s': %+v", flag, err)
		os.Exit(exitUsageError)
	}

	rootCmd.PersistentFlags().CountVarP(&cliOpts.Verbosity, "verbose", "v", "increase verbosity (-v = info, -vv = debug)")
}

func setRootFlags(flags *pflag.FlagSet) {
	flags.StringArrayP(
		"output", "o", []string{format.TableFormat.String()},
		fmt.Sprintf("report output format (<format>=<file> to write to a file), formats=%v", format.AvailableFormats),
	)

	flags.StringP(
		"file", "", "",
		"file to write the default report output to (default is STDOUT)",
	)

	flags.StringP(
		"template", "t", "",
		"specify the path to a Go template file (requires 'template' output to be selected)",
	)

	flags.StringArrayVarP(
		&cliOpts.Requires, "require", "r", nil,
		"a requirement as NAME=EXPRESSION, taking precedence over a configured requirement with the same name (repeatable)",
	)

	flags.Duration(
		"timeout", runner.DefaultTimeout,
		"the longest a single version command may run",
	)

	flags.Int(
		"parallelism", 4,
		"the number of version commands to run at once",
	)
}

func bindRootConfigOptions(flags *pflag.FlagSet) error {
	for key, flag := range map[string]string{
		"output":               "output",
		"file":                 "file",
		"output-template-file": "template",
		"timeout":              "timeout",
		"parallelism":          "parallelism",
	} {
		if err := viper.BindPFlag(key, flags.Lookup(flag)); err != nil {
			return err
		}
	}
	return nil
}

func runCheck(cmd *cobra.Command, args []string) error {
	if appConfig.Dev.ProfileCPU {
		defer profile.Start(profile.CPUProfile).Stop()
	} else if appConfig.Dev.ProfileMem {
		defer profile.Start(profile.MemProfile).Stop()
	}

	targets := selectTargets(appConfig.Requirements, args)

	writer, err := format.MakeReportWriter(appConfig.Outputs, appConfig.File, format.PresentationConfig{
		TemplateFilePath: appConfig.OutputTemplateFile,
	})
	if err != nil {
		return err
	}
	defer log.CloseAndLogError(writer, "report destination")

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	var report atomic.Pointer[vercheck.Report]
	err = eventLoop(
		startWorker(ctx, targets, writer, &report),
		notifyInterrupts(),
		eventSubscription,
		cancel,
		ui.Select(isVerbose(), appConfig.Quiet, os.Stdout)...,
	)
	if err != nil {
		return err
	}

	result := report.Load()
	if result == nil {
		return errors.New("version checks were interrupted")
	}
	if !result.Passed() {
		return fmt.Errorf("%w: %d failed", errChecksFailed, len(result.Failures()))
	}
	return nil
}

// selectTargets keeps the configured requirements for the given names (all of them when no names are given).
// A name without a configured requirement is still checked, which reports the installed version without
// constraining it.
func selectTargets(configured []vercheck.Target, names []string) []vercheck.Target {
	if len(names) == 0 {
		return configured
	}

	requested := strset.New()
	for _, name := range names {
		requested.Add(vercheck.NewTarget(strings.ToLower(name), nil).Key())
	}

	matched := strset.New()
	var targets []vercheck.Target
	for _, t := range configured {
		if requested.Has(t.Name) || requested.Has(t.Key()) {
			targets = append(targets, t)
			matched.Add(t.Name, t.Key())
		}
	}

	unmatched := strset.Difference(requested, matched).List()
	sort.Strings(unmatched)
	for _, key := range unmatched {
		log.Debugf("no requirement configured for %q, reporting the installed version only", key)
		targets = append(targets, vercheck.NewTarget(key, nil))
	}
	return targets
}

func startWorker(ctx context.Context, targets []vercheck.Target, writer format.ReportWriter, report *atomic.Pointer[vercheck.Report]) <-chan error {
	// the event loop stops reading after an interrupt; the buffer lets the worker finish regardless
	errs := make(chan error, 1)
	go func() {
		defer close(errs)

		var updates sync.WaitGroup
		if appConfig.CheckForAppUpdate {
			updates.Add(1)
			go func() {
				defer updates.Done()
				checkForAppUpdate(ctx)
			}()
		}

		result, err := vercheck.Check(ctx, appConfig.CheckConfig(), targets...)
		// the update notice must be published before the final report ends the event loop
		updates.Wait()
		if err != nil {
			errs <- err
			return
		}

		if err := writer.Write(models.PresenterConfig{
			Report:    result,
			AppConfig: appConfig,
		}); err != nil {
			errs <- err
			return
		}
		report.Store(&result)
	}()
	return errs
}

func checkForAppUpdate(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, updateCheckTimeout)
	defer cancel()

	running := version.FromBuild()
	newVersion, err := version.NewerRelease(ctx, running)
	switch {
	case errors.Is(err, version.ErrNoBuildVersion):
		log.Debug("skipping update check for a dev build")
		return
	case err != nil:
		// this should never stop the application
		log.Errorf("unable to check for application update: %+v", err)
		return
	case newVersion == "":
		log.Debugf("no new %s update available", internal.ApplicationName)
		return
	}

	current := running.Version
	log.Infof("new version of %s is available: %s (currently running: %s)", internal.ApplicationName, newVersion, current)

	bus.Publish(partybus.Event{
		Type: event.AppUpdateAvailable,
		Value: parsers.UpdateCheck{
			New:     newVersion,
			Current: current,
		},
	})
}
