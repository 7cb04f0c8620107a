package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"plugpack.dev/cli/internal/application/services"
	"plugpack.dev/cli/internal/infrastructure/archive"
)

// NewPackCommand creates the pack command.
func NewPackCommand(container *CLIContainer) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pack",
		Short: "Package the plugin into a distributable archive",
		Long: `Package the plugin project into a single distributable archive.

The pipeline validates the manifest, reconciles it against project metadata
when a metadata file is present, verifies that the entry file and icon
exist, runs the packaging tool, and renames its output to
<id>-<version> with the distribution extension.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			archiver := archive.NewPackToolArchiver(packCommand(), container.Logger)
			reporter := NewConsoleReporter(cmd.OutOrStdout())
			service := services.NewPackagingServiceWithExtension(
				container.Repo, archiver, reporter, viper.GetString("extension"))

			artifact, err := service.Run(cmd.Context(), resolveManifestPath(cmd))
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "\nPackaged %s\n", artifact)
			return nil
		},
	}

	cmd.Flags().String("manifest", "", "Manifest file path (default plugin.json)")

	return cmd
}
