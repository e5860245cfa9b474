// Command shapeset procedurally builds the annotated sphere asset, exports it
// as OBJ, renders the configured views to PNG, and writes the label CSV.
package main

import (
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"shapeset/internal/config"
	"shapeset/internal/pipeline"
)

var (
	cfgPath string
	outDir  string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:          "shapeset",
	Short:        "Generate a labeled sphere-shape dataset (mesh, renders, CSV)",
	SilenceUsage: true,
}

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Build the sphere asset, export it, render all views and write labels",
	Long: `Builds a translucent sphere with an outline shell and two orthogonal
hoops, exports the set as a single OBJ file, renders a PNG still per
configured view, and writes a CSV mapping object names to shape tags.

All artifacts go to the output directory (config output_dir, --out flag, or
the ` + config.OutputDirEnv + ` environment variable).`,
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().StringVarP(&cfgPath, "config", "c", "", "path to YAML config (defaults apply when omitted)")
	generateCmd.Flags().StringVarP(&outDir, "out", "o", "", "output directory (overrides config)")
	generateCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, args []string) error {
	log, err := newLogger(verbose)
	if err != nil {
		return err
	}
	defer log.Sync()

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return err
	}
	if outDir != "" {
		cfg.OutputDir = outDir
	}
	return pipeline.Run(cmd.Context(), cfg, log)
}

func newLogger(verbose bool) (*zap.Logger, error) {
	c := zap.NewProductionConfig()
	c.Encoding = "console"
	if verbose {
		c.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	return c.Build()
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
