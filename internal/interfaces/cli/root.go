package cli

import (
	"fmt"
	"os"
	"runtime"
	"runtime/debug"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"plugpack.dev/cli/internal/core/ports/packaging"
	"plugpack.dev/cli/internal/infrastructure/logging"
	"plugpack.dev/cli/internal/infrastructure/manifest"
)

var (
	Version   = "dev"     // Overridden by ldflags
	BuildTime = "unknown" // Overridden by ldflags
)

// CLIContainer holds the dependencies shared by CLI commands.
type CLIContainer struct {
	Repo   packaging.ManifestRepository
	Logger *logging.DebugLogger
}

// NewRootCommand builds the base command when called without subcommands.
func NewRootCommand(container *CLIContainer) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "plugpack",
		Short: "Plugpack - plugin manifest validation and packaging",
		Long: `Plugpack validates a plugin manifest and packages the plugin project
into a single distributable archive.

It runs a fail-fast pipeline: load and validate the manifest, reconcile it
against project metadata when present, confirm referenced files exist,
invoke the packaging tool, and name the final artifact after the plugin's
id and version.`,
		Version: Version,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if debugFlag, _ := cmd.Flags().GetBool("debug"); debugFlag {
				container.Logger = logging.NewDebugLogger(true)
			}
		},
	}

	rootCmd.SetVersionTemplate(fmt.Sprintf("{{.Name}} version {{.Version}}\nBuild time: %s\nGo version: %s\nPlatform: %s/%s\n",
		BuildTime, goVersion(), runtime.GOOS, runtime.GOARCH))

	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug output")
	rootCmd.PersistentFlags().String("config", "", "Config file path (default is .plugpack.yaml)")

	cobra.OnInitialize(func() { initConfig(rootCmd) })

	rootCmd.AddCommand(NewPackCommand(container))
	rootCmd.AddCommand(NewValidateCommand(container))

	return rootCmd
}

func initConfig(rootCmd *cobra.Command) {
	if cfgFile, _ := rootCmd.PersistentFlags().GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName(".plugpack")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			viper.AddConfigPath(home)
		}
	}

	viper.SetEnvPrefix("PLUGPACK")
	viper.AutomaticEnv()

	viper.SetDefault("manifest", manifest.DefaultManifestFile)
	viper.SetDefault("extension", ".plugin")
	viper.SetDefault("pack_command", "npm pack")

	// It's fine if no config file is found; we use defaults.
	_ = viper.ReadInConfig()
}

// packCommand returns the configured packaging tool invocation.
func packCommand() []string {
	return strings.Fields(viper.GetString("pack_command"))
}

// resolveManifestPath prefers the command's --manifest flag over the
// configured default.
func resolveManifestPath(cmd *cobra.Command) string {
	if path, _ := cmd.Flags().GetString("manifest"); path != "" {
		return path
	}
	return viper.GetString("manifest")
}

// goVersion returns the Go version used to build the binary.
func goVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok {
		return info.GoVersion
	}
	return "unknown"
}

// Execute runs the root command, printing the originating error and exiting
// non-zero on any stage failure.
func Execute(container *CLIContainer) {
	rootCmd := NewRootCommand(container)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
