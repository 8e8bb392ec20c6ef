// --- START OF FINAL REVISED FILE cmd/keymap-converter/root.go ---
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/stackvity/keymap-converter/internal/cli"
	"github.com/stackvity/keymap-converter/internal/cli/config"
	"github.com/stackvity/keymap-converter/pkg/converter"
)

var (
	// These are set during build time using -ldflags
	version = "dev"
	commit  = "none"
	date    = "unknown"

	// Flags persistent across commands
	cfgFile     string
	profileName string
	verbose     bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "keymap-converter -o <exportDir>",
	Short: "Converts Oryx keymap downloads into a reduced QMK keymap.",
	Long: `keymap-converter takes the source download of an Oryx-configured keyboard
and rewrites its keymap.c so that macros typing common code snippets are
dispatched through a shared macro catalog (petkau_macros.inl).

It features:
  - Locating and unpacking the newest Oryx download.
  - An index of converted downloads so repeated runs are instant.
  - Optional qmk compile, flash and git commit steps.
  - Watch mode converting every new download.
  - An interactive Terminal UI (TUI) for monitoring progress.`,
	Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error { // minimal comment
		ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer cancel()

		cfg, logger, err := config.LoadAndValidate(cfgFile, profileName, version, verbose, cmd.Flags())
		if err != nil {
			return err
		}
		return cli.Run(ctx, cfg, logger)
	},
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() { // minimal comment
	rootCmd.SetVersionTemplate(`{{.Name}} version {{.Version}}` + "\n")
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// init registers the flags of the root command.
func init() { // minimal comment
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Configuration file path (default is search ., $HOME/.config/keymap-converter/)")
	rootCmd.PersistentFlags().StringVar(&profileName, "profile", "", "Name of configuration profile to use")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose (debug) logging output (disables TUI)")

	// Input & output
	rootCmd.Flags().StringP("import-dir", "i", "", "Directory Oryx downloads are saved to (default ~/Downloads)")
	rootCmd.Flags().StringP("export-dir", "o", "", "QMK keymap directory the converted files are written to")
	rootCmd.Flags().StringP("source", "s", "", "Convert an already extracted source directory instead of a download")
	rootCmd.Flags().String("archive", "", "Convert this download instead of the newest one in the import directory")
	rootCmd.Flags().String("archive-prefix", converter.DefaultArchivePrefix, "File name prefix of the Oryx download")
	rootCmd.Flags().String("source-prefix", converter.DefaultSourcePrefix, "Prefix of the source entries inside the download")
	rootCmd.Flags().String("default-encoding", converter.DefaultEncoding, "Encoding assumed for sources without an encoding hint")

	// Behavior
	rootCmd.Flags().Bool("strict", converter.DefaultStrict, "Fail when a macro cannot be decoded instead of keeping it as text")
	rootCmd.Flags().BoolP("force", "f", converter.DefaultForce, "Convert the download even if it was converted before")
	rootCmd.Flags().Bool("no-tui", false, "Disable interactive Terminal UI even if in a TTY")
	rootCmd.Flags().Bool("no-cache", false, "Do not consult or update the index of converted downloads")
	rootCmd.Flags().String("output-format", string(converter.DefaultOutputFormat), `Final report format ("text", "json", "yaml")`)
	rootCmd.Flags().String("template", "", "Path to a custom Go template for petkau_macros.inl")

	// Workflow
	rootCmd.Flags().Bool("watch", false, "Convert every new download saved to the import directory")
	rootCmd.Flags().String("watch-debounce", converter.DefaultWatchDebounceString, "Watch debounce duration string (e.g., '300ms', '1s')")
	rootCmd.Flags().Bool("compile", false, "Run the configured compile command after writing")
	rootCmd.Flags().Bool("flash", false, "Run the configured flash command after compiling")
	rootCmd.Flags().Bool("commit", false, "Commit the export directory after writing")
	rootCmd.Flags().String("commit-message", converter.DefaultCommitMessage, "Commit message for --commit")
	rootCmd.Flags().String("command-timeout", converter.DefaultCommandTimeout.String(), "Timeout for each compile or flash command")

	rootCmd.AddCommand(newTransformCmd(), newCatalogCmd())
}

// --- END OF FINAL REVISED FILE cmd/keymap-converter/root.go ---
