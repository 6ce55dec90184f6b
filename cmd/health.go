package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/sells-group/visibility-cli/internal/health"
)

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check every configured provider's availability",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		env, err := initEnv(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		for _, st := range health.Check(ctx, env.Registry) {
			if st.Available {
				fmt.Printf("%-12s ok    %s\n", st.Provider, st.Latency.Round(time.Millisecond))
			} else {
				fmt.Printf("%-12s FAIL  %s  %s\n", st.Provider, st.Latency.Round(time.Millisecond), st.Error)
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(healthCmd)
}
