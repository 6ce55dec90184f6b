package main

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/visibility-cli/internal/model"
)

var (
	reportName      string
	reportCategory  string
	reportLocation  string
	reportQueries   []string
	reportProviders []string
	reportJSON      bool
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Generate a visibility report for one business",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		env, err := initEnv(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		biz := model.BusinessProfile{
			Name:          reportName,
			Category:      reportCategory,
			Location:      reportLocation,
			CustomQueries: reportQueries,
			Providers:     reportProviders,
		}

		rep, err := env.Assembler.Generate(ctx, biz)
		if err != nil {
			return eris.Wrap(err, "generate report")
		}

		zap.L().Info("report generated",
			zap.String("report_id", rep.ID),
			zap.Int("overall_score", rep.OverallScore),
			zap.String("grade", rep.Grade),
			zap.Int("queries", len(rep.Queries)),
			zap.Int("competitors", len(rep.Competitors)),
			zap.Int("actions", len(rep.Actions)),
			zap.Float64("total_cost_usd", rep.TotalCostUSD),
		)

		if reportJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(rep)
		}

		printSummary(rep)
		return nil
	},
}

func init() {
	reportCmd.Flags().StringVar(&reportName, "name", "", "business name (required)")
	reportCmd.Flags().StringVar(&reportCategory, "category", "", "business category, e.g. \"coffee shop\" (required)")
	reportCmd.Flags().StringVar(&reportLocation, "location", "", "business location, e.g. \"Seattle, WA\" (required)")
	reportCmd.Flags().StringArrayVar(&reportQueries, "query", nil, "custom query, repeatable; included before generated queries")
	reportCmd.Flags().StringSliceVar(&reportProviders, "provider", nil, "provider subset (default: all configured)")
	reportCmd.Flags().BoolVar(&reportJSON, "json", false, "print the full report as JSON")
	_ = reportCmd.MarkFlagRequired("name")
	_ = reportCmd.MarkFlagRequired("category")
	_ = reportCmd.MarkFlagRequired("location")
	rootCmd.AddCommand(reportCmd)
}
