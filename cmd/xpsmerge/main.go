// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the xpsmerge CLI. Running it without
// a subcommand starts the interactive convert-merge-compress run.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/xpsmerge/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for the xpsmerge CLI.
var rootCmd = &cobra.Command{
	Use:   "xpsmerge",
	Short: "Convert a folder of XPS documents into one compressed PDF",
	Long: `xpsmerge converts every XPS document in a folder to PDF, merges the
results in file name order, and compresses the merged document.

Each file is converted in process with MuPDF first, then with the GhostXPS
command-line converter, and finally, if you agree, by hand: the file is
opened in its default viewer so you can print it to PDF yourself.

Anything not given by flag, config file, or environment is asked for
interactively.`,
	SilenceUsage: true,
	RunE:         runPipeline,
}

func init() {
	cobra.OnInitialize(initConfig)

	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "config file (default: ./xpsmerge.yaml or ~/.config/xpsmerge/xpsmerge.yaml)")
	pf.String("input", "", "folder containing the XPS documents")
	pf.String("output", "", "output PDF file name, relative to --base-dir")
	pf.String("compression", "", "compression level: low, medium, or high")
	pf.String("base-dir", "", "directory for the scratch folder and output (default: current directory)")
	pf.String("scratch-dir", types.DefaultScratchDir, "scratch subdirectory name under --base-dir")
	pf.String("ghostxps", "", "path to the GhostXPS executable (default: search PATH)")
	pf.Float64("dpi", types.DefaultRenderDPI, "page resolution for in-process rendering")
	pf.Bool("manual", true, "offer manual conversion when both converters fail")
	pf.String("viewer", "", "application that opens documents for manual conversion (default: file association)")
	pf.String("cleanup", string(types.CleanupAsk), "scratch file cleanup: ask, always, or never")
	pf.Bool("report", false, "write a YAML run report next to the output")

	for key, flag := range map[string]string{
		"input_dir":     "input",
		"output":        "output",
		"compression":   "compression",
		"base_dir":      "base-dir",
		"scratch_dir":   "scratch-dir",
		"ghostxps_path": "ghostxps",
		"render_dpi":    "dpi",
		"manual":        "manual",
		"viewer":        "viewer",
		"cleanup":       "cleanup",
		"report":        "report",
	} {
		if err := viper.BindPFlag(key, pf.Lookup(flag)); err != nil {
			panic(err)
		}
	}
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("xpsmerge")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "xpsmerge"))
		}
	}

	viper.SetEnvPrefix("XPSMERGE")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
