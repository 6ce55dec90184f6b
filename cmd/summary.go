package main

import (
	"fmt"

	"github.com/sells-group/visibility-cli/internal/model"
)

// printSummary writes a human-readable report digest to stdout.
func printSummary(rep *model.Report) {
	fmt.Printf("Visibility report for %s (%s, %s)\n", rep.Business.Name, rep.Business.Category, rep.Business.Location)
	fmt.Printf("Overall: %d/100 (%s)\n\n", rep.OverallScore, rep.Grade)

	fmt.Println("Provider scores:")
	for _, b := range rep.ProviderScores {
		fmt.Printf("  %-12s %3d/100  (mention %d, ranking %d, sentiment %d; mentioned in %d/%d queries)\n",
			b.Provider, b.Total, b.MentionScore, b.RankingScore, b.SentimentScore, b.Mentions, b.Queries)
	}
	for _, name := range rep.MissingProviders {
		fmt.Printf("  %-12s unavailable (errored on every query, excluded from average)\n", name)
	}

	if len(rep.Competitors) > 0 {
		fmt.Println("\nCompetitors detected:")
		for _, c := range rep.Competitors {
			fmt.Printf("  %-30s seen %d times across %d providers\n", c.Name, c.DetectionCount, len(c.Providers))
		}
	}

	if len(rep.ContentGaps) > 0 {
		fmt.Println("\nContent gaps:")
		for _, g := range rep.ContentGaps {
			fmt.Printf("  [%s] %s: %s\n", g.Severity, g.Title, g.Description)
		}
	}

	if len(rep.Actions) > 0 {
		fmt.Println("\nRecommended actions:")
		for _, a := range rep.Actions {
			fmt.Printf("  [%s] %s\n", a.Priority, a.Title)
		}
	}

	fmt.Printf("\nEstimated cost: $%.4f across %d responses\n", rep.TotalCostUSD, len(rep.Responses))
}
