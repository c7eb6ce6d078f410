package cli

import (
	"context"
	"fmt"
	"io"
	"sort"

	"github.com/plugsync-labs/plugsync/internal/config"
	"github.com/plugsync-labs/plugsync/internal/discovery"
	"github.com/plugsync-labs/plugsync/internal/pyenv"
	"github.com/plugsync-labs/plugsync/internal/reconcile"
	"github.com/plugsync-labs/plugsync/internal/registry"
	"github.com/spf13/cobra"
)

var (
	reconcileConfigPath string
	reconcileStrict     bool
)

var reconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Bring the Python environment in line with the plugin configuration",
	Long: `Reconcile the Python environment against plugins.yaml. Each enabled plugin
is inspected against the environment and the installation registry, then
skipped, installed, or repaired as needed. One plugin failing never stops
the rest of the run.`,
	Args: cobra.NoArgs,
	RunE: runReconcile,
}

func init() {
	reconcileCmd.Flags().StringVarP(&reconcileConfigPath, "config", "c", "", "Path to the plugin configuration file")
	reconcileCmd.Flags().BoolVar(&reconcileStrict, "strict", false, "Exit non-zero when any plugin fails")
	rootCmd.AddCommand(reconcileCmd)
}

func runReconcile(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	path, found, err := resolvePluginsPath(reconcileConfigPath)
	if err != nil {
		return err
	}
	if !found {
		fmt.Fprintln(out, "No plugin configuration found — nothing to reconcile.")
		return nil
	}

	file, err := config.Load(path)
	if err != nil {
		return err
	}

	config.LoadSettings()

	py, err := pyenv.Find(config.GetSetting(config.KeyPython), pyenv.ExecRunner{})
	if err != nil {
		return err
	}

	dir, err := resolveRegistryDir()
	if err != nil {
		return err
	}
	store, err := registry.NewFileStore(dir)
	if err != nil {
		return err
	}

	cache := discovery.NewCache(py, config.EntryPointGroups())
	if err := cache.TakeSnapshot(cmd.Context()); err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: scanning entry points: %v\n", err)
	}

	rec := &reconcile.Reconciler{
		Store:       store,
		Inspector:   &pyenv.Inspector{Py: py},
		Select:      reconcile.SelectFrom(py),
		Invalidator: cache,
		Warn:        cmd.ErrOrStderr(),
	}

	results, runErr := rec.Run(cmd.Context(), file.Plugins)
	printResults(out, results)
	if runErr != nil {
		return runErr
	}

	printNewEntryPoints(cmd.Context(), out, cache)

	if reconcileStrict {
		if n := results.FailedCount(); n > 0 {
			return fmt.Errorf("%d plugin(s) failed to reconcile", n)
		}
	}
	return nil
}

func printResults(out io.Writer, results reconcile.RunResult) {
	counts := map[reconcile.Status]int{}
	for _, res := range results {
		counts[res.Status]++
		switch res.Status {
		case reconcile.StatusInstalled:
			if res.Detail != "" {
				fmt.Fprintf(out, "✓ %s installed (%s)\n", res.Name, res.Detail)
			} else {
				fmt.Fprintf(out, "✓ %s installed\n", res.Name)
			}
		case reconcile.StatusRepaired:
			fmt.Fprintf(out, "✓ %s repaired (%s)\n", res.Name, res.Detail)
		case reconcile.StatusSkipped:
			fmt.Fprintf(out, "- %s skipped (%s)\n", res.Name, res.Detail)
		case reconcile.StatusFailed:
			fmt.Fprintf(out, "✗ %s failed: %s\n", res.Name, res.Detail)
		}
	}
	fmt.Fprintf(out, "\n%d installed, %d repaired, %d skipped, %d failed\n",
		counts[reconcile.StatusInstalled],
		counts[reconcile.StatusRepaired],
		counts[reconcile.StatusSkipped],
		counts[reconcile.StatusFailed])
}

// printNewEntryPoints reports entry points that appeared during this run.
// Reporting is best-effort and never fails the command.
func printNewEntryPoints(ctx context.Context, out io.Writer, cache *discovery.Cache) {
	fresh, err := cache.NewSince(ctx)
	if err != nil || len(fresh) == 0 {
		return
	}

	groups := make([]string, 0, len(fresh))
	for group := range fresh {
		groups = append(groups, group)
	}
	sort.Strings(groups)

	fmt.Fprintln(out, "\nNew entry points:")
	for _, group := range groups {
		for _, ep := range fresh[group] {
			fmt.Fprintf(out, "  %s: %s\n", group, ep)
		}
	}
}
