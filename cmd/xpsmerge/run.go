// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/xpsmerge/internal/convert"
	"github.com/pdiddy/xpsmerge/internal/discover"
	"github.com/pdiddy/xpsmerge/internal/opener"
	"github.com/pdiddy/xpsmerge/internal/pipeline"
	"github.com/pdiddy/xpsmerge/internal/prompt"
	"github.com/pdiddy/xpsmerge/pkg/types"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	okStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
	errStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
	dimStyle   = lipgloss.NewStyle().Faint(true)
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Convert, merge, and compress a folder of XPS documents",
	Long: `Run performs one pass: discover the XPS files in the input folder,
convert each to PDF in a scratch folder, merge them in file name order,
compress the result, and optionally delete the scratch files.`,
	RunE: runPipeline,
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func runPipeline(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	p := prompt.New(cmd.InOrStdin(), out)

	fmt.Fprintln(out, titleStyle.Render("XPS to PDF converter and merger"))
	fmt.Fprintln(out, dimStyle.Render("==============================="))

	cfg, err := collectConfig(p)
	if err != nil {
		return err
	}

	res, err := pipeline.Run(cmd.Context(), cfg, pipeline.Deps{
		Chain:     buildChain(cfg, p),
		Confirmer: p,
	}, out)
	if err != nil {
		fmt.Fprintln(out, errStyle.Render(describeFailure(err)))
		return err
	}

	printSummary(out, res)
	return nil
}

// collectConfig assembles the run configuration from flags, config file,
// and environment, asking for the input folder, output name, and
// compression level when none of those supplied them.
func collectConfig(p *prompt.Prompter) (types.RunConfig, error) {
	out := p.Writer()

	base := viper.GetString("base_dir")
	if base == "" {
		wd, err := os.Getwd()
		if err != nil {
			return types.RunConfig{}, fmt.Errorf("resolving working directory: %w", err)
		}
		base = wd
	}
	fmt.Fprintf(out, "base directory: %s\n", base)

	input := viper.GetString("input_dir")
	if input == "" {
		input = p.Ask("Folder containing the XPS files: ")
	}

	output := viper.GetString("output")
	if output == "" {
		output = p.AskDefault(fmt.Sprintf("Output PDF file name (e.g. %s): ", types.DefaultOutputName), types.DefaultOutputName)
	}

	var level types.CompressionLevel
	if s := viper.GetString("compression"); s != "" {
		l, err := types.ParseCompressionLevel(s)
		if err != nil {
			return types.RunConfig{}, err
		}
		level = l
	} else {
		fmt.Fprintln(out, "\nCompression level:")
		fmt.Fprintln(out, "  1. Low (high quality, larger file)")
		fmt.Fprintln(out, "  2. Medium (balanced) - recommended")
		fmt.Fprintln(out, "  3. High (lower quality, smaller file)")
		level = types.ParseCompressionChoice(p.Ask("Choice (1/2/3): "))
	}

	cleanup, err := types.ParseCleanupPolicy(viper.GetString("cleanup"))
	if err != nil {
		return types.RunConfig{}, err
	}

	dpi := viper.GetFloat64("render_dpi")
	if dpi <= 0 {
		dpi = types.DefaultRenderDPI
	}

	return types.RunConfig{
		InputDir:     input,
		OutputName:   output,
		Compression:  level,
		BaseDir:      base,
		ScratchDir:   viper.GetString("scratch_dir"),
		GhostXPSPath: viper.GetString("ghostxps_path"),
		RenderDPI:    dpi,
		Manual:       viper.GetBool("manual"),
		Viewer:       viper.GetString("viewer"),
		Cleanup:      cleanup,
		Report:       viper.GetBool("report"),
	}, nil
}

// buildChain wires the three conversion tiers for cfg. The manual tier is
// left out when it is disabled.
func buildChain(cfg types.RunConfig, p *prompt.Prompter) *convert.Chain {
	var manual convert.Converter
	if cfg.Manual {
		var o opener.Opener = opener.Default()
		if cfg.Viewer != "" {
			o = opener.WithApp(cfg.Viewer)
		}
		manual = convert.NewManualConverter(p, o)
	}
	return convert.NewChain(
		convert.NewRenderConverter(cfg.RenderDPI, cfg.Compression.Quality()),
		convert.NewGhostXPSConverter(cfg.GhostXPSPath),
		manual,
	)
}

// describeFailure turns a fatal pipeline error into a message for the user.
func describeFailure(err error) string {
	switch {
	case errors.Is(err, discover.ErrDirNotFound):
		return "The input folder was not found."
	case errors.Is(err, discover.ErrNoDocuments):
		return "No XPS files were found in the input folder."
	case errors.Is(err, pipeline.ErrNothingConverted):
		return "No files could be converted."
	case errors.Is(err, pipeline.ErrMerge):
		return "Merging the converted files failed."
	default:
		return fmt.Sprintf("Run aborted: %v", err)
	}
}

func printSummary(w io.Writer, res pipeline.Result) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, okStyle.Render("Finished: "+res.OutputPath))
	fmt.Fprintf(w, "  documents: %d converted, %d skipped\n",
		len(res.Conversion.Converted), len(res.Conversion.Skipped))
	for _, s := range res.Conversion.Skipped {
		fmt.Fprintf(w, "  skipped:   %s\n", s.Name())
	}
	fmt.Fprintf(w, "  pages:     %d\n", res.MergedPages)
	if res.Compression.Fallback {
		fmt.Fprintln(w, "  compression failed; the output is an uncompressed copy")
	}
}
