package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/kailas-cloud/ementa/internal/dataset"
)

func sampleCmd() *cobra.Command {
	var (
		rows int
		seed uint64
		out  string
	)

	cmd := &cobra.Command{
		Use:   "sample",
		Short: "Generate a synthetic decision file",
		Long: `Sample writes N synthetic STF/STJ decisions in the upload format,
with dates, so the browse and analysis workflows can be tried without real data.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !cmd.Flags().Changed("seed") {
				seed = uint64(time.Now().UnixNano())
			}
			ds, err := dataset.Sample(rows, seed)
			if err != nil {
				return fmt.Errorf("generate sample: %w", err)
			}

			var w io.Writer = cmd.OutOrStdout()
			if out != "" && out != "-" {
				file, err := os.Create(filepath.Clean(out))
				if err != nil {
					return fmt.Errorf("create %s: %w", out, err)
				}
				defer file.Close()
				w = file
			}

			if err := dataset.WriteDataset(w, ds); err != nil {
				return fmt.Errorf("write sample: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&rows, "rows", "n", dataset.DefaultSampleRows, "number of decisions")
	cmd.Flags().Uint64Var(&seed, "seed", 0, "generator seed (default: random)")
	cmd.Flags().StringVarP(&out, "out", "o", "-", "output file, - for stdout")
	return cmd
}
