package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"AgroPulse/internal/di"
	"AgroPulse/internal/services/features"
	"AgroPulse/pkg/config"

	"github.com/spf13/cobra"
)

func analyzeCmd() *cobra.Command {
	var (
		file       string
		commodity  string
		horizon    int
		configPath string
	)

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Analyse a date,price CSV file and print the result as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Default()
			if configPath != "" {
				c, err := config.Load(configPath)
				if err != nil {
					return fmt.Errorf("config load failed: %w", err)
				}
				cfg = c
			}

			f, err := os.Open(file)
			if err != nil {
				return err
			}
			defer f.Close()

			if commodity == "" {
				commodity = strings.TrimSuffix(filepath.Base(file), filepath.Ext(file))
			}
			return analyze(cmd.Context(), cmd.OutOrStdout(), f, cfg, commodity, horizon)
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "CSV file with date,price rows")
	cmd.Flags().StringVar(&commodity, "commodity", "", "commodity name (defaults to the file name)")
	cmd.Flags().IntVar(&horizon, "horizon", 7, "forecast horizon in days")
	cmd.Flags().StringVarP(&configPath, "config", "c", "", "optional config file for engine thresholds")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

// analyze reads quotes from r, averages them per day and writes the combined analysis to w.
func analyze(ctx context.Context, w io.Writer, r io.Reader, cfg *config.Config, commodity string, horizon int) error {
	if ctx == nil {
		ctx = context.Background()
	}
	quotes, err := features.ReadQuotesCSV(r, commodity)
	if err != nil {
		return err
	}
	points := features.ToPricePoints(features.DailyAverages(commodity, quotes))

	uc, err := di.InitializeAnalyzer(cfg)
	if err != nil {
		return fmt.Errorf("engine: %w", err)
	}
	res, err := uc.AnalyzeSeries(ctx, commodity, points, horizon)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(res)
}
