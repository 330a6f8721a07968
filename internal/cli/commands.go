package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/arthur-debert/sysdot/internal/version"
	"github.com/arthur-debert/sysdot/pkg/errors"
	"github.com/arthur-debert/sysdot/pkg/help"
	"github.com/arthur-debert/sysdot/pkg/logging"
	"github.com/arthur-debert/sysdot/pkg/output"
	"github.com/arthur-debert/sysdot/pkg/paths"
	"github.com/arthur-debert/sysdot/pkg/runlog"
	"github.com/arthur-debert/sysdot/pkg/types"
	"github.com/pterm/pterm"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// runIDFormat keys backup directories and run logs. Filesystem-safe, sorts
// chronologically.
const runIDFormat = "2006-01-02T15-04-05"

// NewRootCmd creates and returns the root command.
func NewRootCmd() *cobra.Command {
	var (
		verbosity   int
		dryRun      bool
		acceptAll   bool
		catalogPath string
		noColor     bool
	)

	rootCmd := &cobra.Command{
		Use:   "sysdot",
		Short: "Declarative system tuning for Arch-based desktops",
		Long: `sysdot reconciles a catalog of desired system state (config files, kernel
parameters, services, packages) against the running system. Running it with
no subcommand plans and applies the catalog, backing up every file it
touches.`,
		Version: version.Version,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.SetupLogger(verbosity)
			output.ConfigureColors(!noColor && output.IsTerminal(os.Stdout))
			log.Debug().Str("command", cmd.Name()).Msg("Command started")
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInstall(cmd, catalogPath, dryRun, acceptAll)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		DisableAutoGenTag: true,
	}

	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)")
	rootCmd.PersistentFlags().BoolVar(&dryRun, "dry-run", false, "Preview changes without executing them")
	rootCmd.PersistentFlags().BoolVar(&acceptAll, "all", false, "Apply everything without prompting, including unsafe resources")
	rootCmd.PersistentFlags().StringVar(&catalogPath, "catalog", "", "Catalog override file (TOML or YAML)")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")

	rootCmd.AddCommand(newInstallCmd(&catalogPath, &dryRun, &acceptAll))
	rootCmd.AddCommand(newDiffCmd(&catalogPath))
	rootCmd.AddCommand(newVerifyCmd(&catalogPath, verifyBoth))
	rootCmd.AddCommand(newVerifyCmd(&catalogPath, verifyStaticOnly))
	rootCmd.AddCommand(newVerifyCmd(&catalogPath, verifyRuntimeOnly))
	rootCmd.AddCommand(newCatalogCmd(&catalogPath))
	rootCmd.AddCommand(newFactsCmd(&catalogPath))
	rootCmd.AddCommand(newVersionCmd())

	help.Install(rootCmd)

	return rootCmd
}

func newInstallCmd(catalogPath *string, dryRun, acceptAll *bool) *cobra.Command {
	return &cobra.Command{
		Use:   "install",
		Short: "Plan and apply the catalog",
		Long: `Install inspects the system, plans the changes needed to reach the
catalog's desired state, and applies them. Files that already exist are
backed up first, one backup directory per run.`,
		Example: `  # Apply the catalog, confirming before mutation
  sysdot install

  # Preview without changing anything
  sysdot install --dry-run

  # Unattended run, accepting unsafe resources
  sysdot install --all`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInstall(cmd, *catalogPath, *dryRun, *acceptAll)
		},
	}
}

func newDiffCmd(catalogPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "diff",
		Short: "Show what install would change",
		Long: `Diff plans against the catalog and prints every pending change with a
unified diff for file content, without mutating anything.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(*catalogPath, nil)
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			resources := a.catalog.Resources()
			f := a.facts.Collect(ctx, resources)
			actions, err := a.planner.Plan(ctx, resources, f)
			if err != nil {
				return err
			}

			r := output.NewRenderer(cmd.OutOrStdout())
			r.ShowDiffs = true
			r.Plan(actions, true)
			return nil
		},
	}
}

type verifyMode int

const (
	verifyBoth verifyMode = iota
	verifyStaticOnly
	verifyRuntimeOnly
)

func newVerifyCmd(catalogPath *string, mode verifyMode) *cobra.Command {
	use, short := "verify", "Check the system against the catalog"
	switch mode {
	case verifyStaticOnly:
		use, short = "verify-static", "Check configured state against the catalog"
	case verifyRuntimeOnly:
		use, short = "verify-runtime", "Check live system state against the catalog"
	}

	return &cobra.Command{
		Use:   use,
		Short: short,
		Long: short + `. Exits non-zero when any check fails; skipped and
informational results (such as changes pending a reboot) do not affect the
exit code.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(*catalogPath, nil)
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			resources := a.catalog.Resources()
			f := a.facts.Collect(ctx, resources)

			var results []types.VerificationResult
			if mode != verifyRuntimeOnly {
				results = append(results, a.verifier.Static(ctx, resources, f)...)
			}
			if mode != verifyStaticOnly {
				results = append(results, a.verifier.Runtime(ctx, resources, f)...)
			}

			output.NewRenderer(cmd.OutOrStdout()).Verification(results)
			if types.AnyFailed(results) {
				return errors.New(errors.ErrVerificationMismatch, "verification failed")
			}
			return nil
		},
	}
}

func newCatalogCmd(catalogPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "catalog",
		Short: "Print the effective resource catalog",
		Long: `Catalog prints the embedded resource set merged with any override file,
as TOML. Redirect it to a file to use as a starting point for overrides.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(*catalogPath, nil)
			if err != nil {
				return err
			}
			data, err := a.catalog.Export()
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
}

func newFactsCmd(catalogPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "facts",
		Short: "Print the collected system facts",
		Long: `Facts collects and prints the host observations preconditions are
evaluated against: package states, storage layout, kernel command line,
visible hardware. Useful to understand why a resource was skipped.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(*catalogPath, nil)
			if err != nil {
				return err
			}
			f := a.facts.Collect(cmd.Context(), a.catalog.Resources())
			data, err := yaml.Marshal(f)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "sysdot version %s\n", version.Version)
			if version.Commit != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "Commit: %s\n", version.Commit)
			}
			if version.Date != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "Built:  %s\n", version.Date)
			}
		},
	}
}

func runInstall(cmd *cobra.Command, catalogPath string, dryRun, acceptAll bool) error {
	runID := time.Now().Format(runIDFormat)

	rl := runlog.Discard()
	if !dryRun {
		p, err := openRunLog(runID)
		if err != nil {
			return err
		}
		rl = p
		defer func() { _ = rl.Close() }()
	}

	a, err := newApp(catalogPath, rl)
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	resources := a.catalog.Resources()
	f := a.facts.Collect(ctx, resources)
	actions, err := a.planner.Plan(ctx, resources, f)
	if err != nil {
		return err
	}

	renderer := output.NewRenderer(cmd.OutOrStdout())
	renderer.ShowDiffs = dryRun
	renderer.Plan(actions, dryRun)

	if types.Summarize(actions).Mutations() == 0 {
		return nil
	}

	if !dryRun && a.cfg.Run.Confirm && !acceptAll {
		if !confirmRun(types.Summarize(actions).Mutations()) {
			fmt.Fprintln(cmd.OutOrStdout(), "Aborted, nothing changed.")
			return nil
		}
	}

	rl.Event("run %s starting (%d planned changes)", runID, types.Summarize(actions).Mutations())
	for _, action := range actions {
		rl.Event("plan %s %s: %s", action.Type, action.Resource.ID, action.Reason)
	}

	exec := a.newExecutor(dryRun, acceptAll)
	summary, runErr := exec.Run(ctx, runID, a.backupDirForRun(runID), actions)

	for _, res := range summary.Results {
		if res.Backup != nil {
			rl.Event("backup %s -> %s (%s)", res.Backup.OriginalPath, res.Backup.BackupPath, res.Backup.Checksum)
		}
		if res.Err != nil {
			rl.Event("%s %s: %v", res.Outcome, res.Action.Resource.ID, res.Err)
		} else {
			rl.Event("%s %s", res.Outcome, res.Action.Resource.ID)
		}
	}
	rl.Event("run %s finished", runID)

	renderer.Run(summary)

	if runErr != nil {
		return runErr
	}
	if failed := summary.Failed(); len(failed) > 0 {
		return errors.Newf(errors.ErrMutationFailed, "%d action(s) failed", len(failed))
	}
	return nil
}

func openRunLog(runID string) (*runlog.Log, error) {
	return runlog.Open(paths.New().RunLogFile(runID))
}

// confirmRun asks once before a mutating run.
func confirmRun(mutations int) bool {
	ok, err := pterm.DefaultInteractiveConfirm.
		WithDefaultValue(false).
		Show(fmt.Sprintf("Apply %d change(s) to this system?", mutations))
	return err == nil && ok
}

// confirmUnsafe gates individual unsafe resources during execution.
func confirmUnsafe(r types.Resource, reason string) bool {
	ok, err := pterm.DefaultInteractiveConfirm.
		WithDefaultValue(false).
		Show(fmt.Sprintf("%s is marked unsafe (%s). Apply anyway?", r.ID, reason))
	return err == nil && ok
}
