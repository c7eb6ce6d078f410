package cli

import (
	"encoding/json"
	"fmt"
	"sort"
	"text/tabwriter"

	"github.com/plugsync-labs/plugsync/internal/config"
	"github.com/plugsync-labs/plugsync/internal/registry"
	"github.com/spf13/cobra"
)

var statusJSON bool

var statusCmd = &cobra.Command{
	Use:   "status [name]",
	Short: "Show the recorded state of managed plugins",
	Long:  `Show the installation registry: what was installed, at which version, and what failed last.`,
	Args:  cobra.MaximumNArgs(1),
	RunE:  runStatus,
}

func init() {
	statusCmd.Flags().BoolVar(&statusJSON, "json", false, "Output in JSON format")
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	config.LoadSettings()

	dir, err := resolveRegistryDir()
	if err != nil {
		return err
	}
	store, err := registry.NewFileStore(dir)
	if err != nil {
		return err
	}
	store.Warn = cmd.ErrOrStderr()

	reg, err := store.Load()
	if err != nil {
		return err
	}

	if len(args) == 1 {
		rec, ok := reg.Get(args[0])
		if !ok {
			return fmt.Errorf("plugin %q has no registry record", args[0])
		}
		data, err := json.MarshalIndent(rec, "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return err
	}

	if len(reg.Plugins) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No plugins recorded yet.")
		return nil
	}

	names := make([]string, 0, len(reg.Plugins))
	for name := range reg.Plugins {
		names = append(names, name)
	}
	sort.Strings(names)

	if statusJSON {
		records := make([]registry.Record, 0, len(names))
		for _, name := range names {
			records = append(records, reg.Plugins[name])
		}
		data, err := json.MarshalIndent(records, "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return err
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "NAME\tSTATUS\tDISTRIBUTION\tVERSION\tLAST ERROR")
	for _, name := range names {
		rec := reg.Plugins[name]
		dist := rec.Distribution
		if dist == "" {
			dist = "-"
		}
		version := rec.ResolvedVersion
		if version == "" {
			version = "-"
		}
		lastErr := rec.LastAttemptError
		if lastErr == "" {
			lastErr = "-"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", name, rec.Status, dist, version, lastErr)
	}
	return w.Flush()
}
