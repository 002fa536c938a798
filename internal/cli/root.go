// Package cli implements the circlepack command-line interface.
//
// This package provides commands for running packing simulations, watching
// them converge live, rendering stored scenes, and managing the scene
// store. The CLI is built using cobra and supports verbose logging via the
// charmbracelet/log library.
//
// # Commands
//
// The main commands are:
//   - pack: Run a packing simulation and commit the scene
//   - watch: Run a simulation with a live terminal visualization
//   - render: Render a stored or exported scene to SVG or PNG
//   - scenes: List, show, and delete stored scenes
//   - serve: Expose packing and scene retrieval over HTTP
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Loggers are
// passed through context.Context to allow structured progress tracking.
package cli

import (
	"context"
	"os"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/circlepack/pkg/buildinfo"
)

// Execute runs the circlepack CLI and returns an error if any command
// fails. This is the main entry point for the CLI application.
//
// Logging:
//   - Default: info level (logs to stderr)
//   - With --verbose (-v): debug level
//
// The logger is attached to the context and accessible to all commands via
// loggerFromContext.
func Execute(ctx context.Context) error {
	var verbose bool

	root := &cobra.Command{
		Use:          "circlepack",
		Short:        "Circlepack packs circles around a center point",
		Long:         `Circlepack is a CLI tool that relaxes a set of randomized circles into a tight non-overlapping arrangement around a center point and commits the result as a scene.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := charmlog.InfoLevel
			if verbose {
				level = charmlog.DebugLevel
			}
			ctx := withLogger(cmd.Context(), newLogger(os.Stderr, level))
			cmd.SetContext(ctx)
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().String("config", "", "config file (default ~/.config/circlepack/config.toml)")

	root.AddCommand(newPackCmd())
	root.AddCommand(newWatchCmd())
	root.AddCommand(newRenderCmd())
	root.AddCommand(newScenesCmd())
	root.AddCommand(newServeCmd())

	return root.ExecuteContext(ctx)
}
