package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ahrav/crmbench/internal/dataset"
)

func newGenerateCommand() *cobra.Command {
	var (
		outDir  string
		count   int
		deals   int
		sigRows int
		seed    int64
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate synthetic CRM fixture CSVs",
		RunE: func(*cobra.Command, []string) error {
			if err := os.MkdirAll(outDir, 0o755); err != nil {
				return fmt.Errorf("creating output directory: %w", err)
			}

			for i := 1; i <= count; i++ {
				table, sig := dataset.Generate(dataset.GenerateConfig{
					Seed:          seed + int64(i),
					Deals:         deals,
					SignatureRows: sigRows,
				})

				path := filepath.Join(outDir, fmt.Sprintf("D%d_synthetic.csv", i))
				f, err := os.Create(path)
				if err != nil {
					return fmt.Errorf("creating %s: %w", path, err)
				}
				if err := table.WriteCSV(f); err != nil {
					f.Close()
					return fmt.Errorf("writing %s: %w", path, err)
				}
				if err := f.Close(); err != nil {
					return err
				}

				slog.Info("wrote fixture",
					"path", path,
					"rows", table.NumRows(),
					"owners", len(sig.OwnerIDs),
				)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&outDir, "out", "o", "generated_csvs", "output directory")
	cmd.Flags().IntVar(&count, "count", 5, "number of CSV files to generate (tagged D1..Dn)")
	cmd.Flags().IntVar(&deals, "deals", 40, "deals per file")
	cmd.Flags().IntVar(&sigRows, "signature-rows", 2, "unique marker rows per file")
	cmd.Flags().Int64Var(&seed, "seed", 1, "base random seed")
	return cmd
}
