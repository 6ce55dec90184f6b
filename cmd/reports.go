package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/visibility-cli/internal/model"
	"github.com/sells-group/visibility-cli/internal/store"
)

var (
	listStatus   string
	listBusiness string
	listLimit    int
)

var reportsCmd = &cobra.Command{
	Use:   "reports",
	Short: "List stored reports",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		env, err := initEnv(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		reports, err := env.Store.ListReports(ctx, store.ReportFilter{
			Status:   model.ReportStatus(listStatus),
			Business: listBusiness,
			Limit:    listLimit,
		})
		if err != nil {
			return eris.Wrap(err, "list reports")
		}

		for _, r := range reports {
			completed := "-"
			if r.CompletedAt != nil {
				completed = r.CompletedAt.Format("2006-01-02 15:04")
			}
			fmt.Printf("%s  %-10s  %3d/100 %-2s  %-30s  %s\n",
				r.ID, r.Status, r.OverallScore, r.Grade, r.Business.Name, completed)
		}
		return nil
	},
}

var showID string

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Print one stored report as JSON",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		env, err := initEnv(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		rep, err := env.Store.GetReport(ctx, showID)
		if err != nil {
			return eris.Wrap(err, "get report")
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(rep)
	},
}

func init() {
	reportsCmd.Flags().StringVar(&listStatus, "status", "", "filter by status (pending|processing|completed|failed)")
	reportsCmd.Flags().StringVar(&listBusiness, "business", "", "filter by business name")
	reportsCmd.Flags().IntVar(&listLimit, "limit", 20, "maximum reports to list")
	rootCmd.AddCommand(reportsCmd)

	showCmd.Flags().StringVar(&showID, "id", "", "report id (required)")
	_ = showCmd.MarkFlagRequired("id")
	rootCmd.AddCommand(showCmd)
}
