package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"plugpack.dev/cli/internal/application/services"
)

// NewValidateCommand creates the validate command.
func NewValidateCommand(container *CLIContainer) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate the plugin manifest without packaging",
		Long: `Validate the plugin manifest and confirm its referenced files exist.

This runs the read-only part of the packaging pipeline: it does not
reconcile project metadata, rewrite the manifest, or produce an archive.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			reporter := NewConsoleReporter(cmd.OutOrStdout())
			service := services.NewPackagingService(container.Repo, nil, reporter)

			if err := service.Verify(cmd.Context(), resolveManifestPath(cmd)); err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), "\nManifest is valid")
			return nil
		},
	}

	cmd.Flags().String("manifest", "", "Manifest file path (default plugin.json)")

	return cmd
}
