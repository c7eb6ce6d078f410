package cli

import (
	"fmt"

	"github.com/plugsync-labs/plugsync/internal/config"
	"github.com/spf13/cobra"
)

var validateConfigPath string

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the plugin configuration file",
	Long:  `Validate plugins.yaml against the configuration schema without touching the environment.`,
	Args:  cobra.NoArgs,
	RunE:  runValidate,
}

func init() {
	validateCmd.Flags().StringVarP(&validateConfigPath, "config", "c", "", "Path to the plugin configuration file")
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	path, found, err := resolvePluginsPath(validateConfigPath)
	if err != nil {
		return err
	}
	if !found {
		fmt.Fprintln(cmd.OutOrStdout(), "No plugin configuration found.")
		return nil
	}

	result, err := config.ValidateFile(path)
	if err != nil {
		return err
	}
	if !result.Valid {
		fmt.Fprintf(cmd.OutOrStdout(), "✗ %s has %d issue(s):\n", path, len(result.Issues))
		for _, issue := range result.Issues {
			if issue.Path != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "  %s: %s\n", issue.Path, issue.Message)
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "  %s\n", issue.Message)
			}
		}
		return fmt.Errorf("configuration is invalid")
	}

	// The loader adds semantic checks the schema cannot express
	// (duplicate names, programmatic spec validation).
	if _, err := config.Load(path); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "✓ %s is valid\n", path)
	return nil
}
