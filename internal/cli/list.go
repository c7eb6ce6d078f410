package cli

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/plugsync-labs/plugsync/internal/config"
	"github.com/spf13/cobra"
)

var (
	listConfigPath string
	listJSON       bool
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List declared plugins",
	Long:  `List the plugins declared in the configuration file, including disabled ones.`,
	Args:  cobra.NoArgs,
	RunE:  runList,
}

func init() {
	listCmd.Flags().StringVarP(&listConfigPath, "config", "c", "", "Path to the plugin configuration file")
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Output in JSON format")
	rootCmd.AddCommand(listCmd)
}

// listEntry represents a declared plugin for display.
type listEntry struct {
	Name     string `json:"name"`
	Source   string `json:"source"`
	Identity string `json:"identity"`
	Version  string `json:"version,omitempty"`
	Enabled  bool   `json:"enabled"`
}

func runList(cmd *cobra.Command, args []string) error {
	path, found, err := resolvePluginsPath(listConfigPath)
	if err != nil {
		return err
	}
	if !found {
		fmt.Fprintln(cmd.OutOrStdout(), "No plugin configuration found.")
		return nil
	}

	file, err := config.Load(path)
	if err != nil {
		return err
	}

	if len(file.Plugins) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No plugins declared.")
		return nil
	}

	entries := make([]listEntry, 0, len(file.Plugins))
	for _, spec := range file.Plugins {
		entries = append(entries, listEntry{
			Name:     spec.Name,
			Source:   string(spec.Source),
			Identity: spec.Identity(),
			Version:  spec.Version,
			Enabled:  spec.Enabled,
		})
	}

	if listJSON {
		return printListJSON(cmd, entries)
	}
	return printListTable(cmd, entries)
}

func printListTable(cmd *cobra.Command, entries []listEntry) error {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "NAME\tSOURCE\tIDENTITY\tVERSION\tENABLED")
	for _, e := range entries {
		version := e.Version
		if version == "" {
			version = "-"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%t\n", e.Name, e.Source, e.Identity, version, e.Enabled)
	}
	return w.Flush()
}

func printListJSON(cmd *cobra.Command, entries []listEntry) error {
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return err
}
