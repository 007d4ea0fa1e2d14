package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/templui/bikeshare/internal/eda"
)

func EDACmd() *cobra.Command {
	var (
		outDir  string
		preview int
	)

	cmd := &cobra.Command{
		Use:   "eda <file.csv>",
		Short: "Analyze a rental CSV and write the charts as SVG files",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEDA(cmd.OutOrStdout(), args[0], outDir, preview)
		},
	}

	cmd.Flags().StringVarP(&outDir, "out", "o", ".", "directory for the SVG files")
	cmd.Flags().IntVar(&preview, "preview", 5, "rows to print from the top of the file")

	return cmd
}

func runEDA(out io.Writer, path, outDir string, preview int) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	report, err := eda.NewEngine(preview).Analyze(f)
	if err != nil {
		return fmt.Errorf("failed to analyze %s: %w", path, err)
	}

	fmt.Fprintf(out, "%s: %d rows\n", path, report.Rows)
	for _, row := range append([][]string{report.Preview.Header}, report.Preview.Rows...) {
		fmt.Fprintln(out, row)
	}

	err = os.MkdirAll(outDir, 0755)
	if err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	for _, c := range eda.RenderCharts(report) {
		if c.Err != nil {
			fmt.Fprintf(out, "%s: skipped: %v\n", c.ID, c.Err)
			continue
		}
		name := filepath.Join(outDir, c.ID+".svg")
		err = os.WriteFile(name, c.SVG, 0644)
		if err != nil {
			return fmt.Errorf("failed to write %s: %w", name, err)
		}
		fmt.Fprintf(out, "%s: wrote %s\n", c.ID, name)
	}

	return nil
}
