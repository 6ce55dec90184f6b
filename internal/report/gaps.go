package report

import (
	"fmt"
	"sort"
	"strings"

	"github.com/sells-group/visibility-cli/internal/model"
)

// Gap and action thresholds. Tuned against real report output; tests pin
// the current values.
const (
	// LowVisibilityPct is the mention-rate percentage below which the
	// structural low-visibility gap is emitted.
	LowVisibilityPct = 30.0

	// WeakRankThreshold is the mean ranking above which the thematic
	// ranking gap is emitted; past PoorRankThreshold it escalates.
	WeakRankThreshold = 3.0
	PoorRankThreshold = 5.0

	// HighOpportunityScore marks a provider score with enough headroom
	// left to justify a high-priority action.
	HighOpportunityScore = 50

	// CompetitiveCrowdSize is how many detected competitors trigger the
	// competitive-strategy action.
	CompetitiveCrowdSize = 5

	// MinTopicSightings is how many distinct analyses must surface a gap
	// phrase before it becomes a topic gap of its own.
	MinTopicSightings = 2
)

// GapThresholds overrides the default gap triggers. Zero values fall back
// to the package constants.
type GapThresholds struct {
	LowVisibilityPct  float64
	WeakRankThreshold float64
}

// BuildGaps derives content gaps from the run's aggregate signals: overall
// mention rate, mean ranking, and recurring gap phrases extracted from the
// answers themselves.
func BuildGaps(results []QueryResult, competitors []model.Competitor, businessName string, th GapThresholds) []model.ContentGap {
	if th.LowVisibilityPct <= 0 {
		th.LowVisibilityPct = LowVisibilityPct
	}
	if th.WeakRankThreshold <= 0 {
		th.WeakRankThreshold = WeakRankThreshold
	}
	var gaps []model.ContentGap

	executed, mentioned := 0, 0
	for _, qr := range results {
		for name := range qr.Responses {
			executed++
			if a, ok := qr.Analyses[name]; ok && a.BusinessMentioned {
				mentioned++
			}
		}
	}

	if executed > 0 {
		rate := 100 * float64(mentioned) / float64(executed)
		if rate < th.LowVisibilityPct {
			severity := model.SeveritySignificant
			if mentioned == 0 {
				severity = model.SeverityCritical
			}
			gaps = append(gaps, model.ContentGap{
				Type:  model.GapStructural,
				Title: "Low AI Platform Visibility",
				Description: fmt.Sprintf("%s appeared in only %.0f%% of AI assistant answers about its category and area.",
					businessName, rate),
				Severity:    severity,
				Competitors: topCompetitorNames(competitors, 3),
				Action:      "Strengthen the business's online footprint: complete listings, consistent name/address/phone, and fresh customer reviews on major platforms.",
			})
		}
	}

	if mean, ok := MeanRanking(results); ok && mean > th.WeakRankThreshold {
		severity := model.SeverityModerate
		if mean > PoorRankThreshold {
			severity = model.SeveritySignificant
		}
		gaps = append(gaps, model.ContentGap{
			Type:  model.GapThematic,
			Title: "Suboptimal Ranking Position",
			Description: fmt.Sprintf("AI assistants place %s at position %.1f on average when they do recommend it.",
				businessName, mean),
			Severity:    severity,
			Competitors: topCompetitorNames(competitors, 3),
			Action:      "Target the differentiators assistants rank on: review volume, detailed service descriptions, and locally relevant content.",
		})
	}

	gaps = append(gaps, topicGaps(results)...)
	return gaps
}

// topicGaps promotes gap phrases that recur across analyses into their own
// entries, so a theme several assistants flag independently is not lost in
// the raw response data.
func topicGaps(results []QueryResult) []model.ContentGap {
	counts := map[string]int{}
	first := map[string]string{}
	for _, qr := range results {
		for _, a := range qr.Analyses {
			seen := map[string]struct{}{}
			for _, phrase := range a.ContentGaps {
				key := strings.ToLower(phrase)
				if _, dup := seen[key]; dup {
					continue
				}
				seen[key] = struct{}{}
				if _, ok := first[key]; !ok {
					first[key] = phrase
				}
				counts[key]++
			}
		}
	}

	var keys []string
	for k, n := range counts {
		if n >= MinTopicSightings {
			keys = append(keys, k)
		}
	}
	sort.Slice(keys, func(i, j int) bool {
		if counts[keys[i]] != counts[keys[j]] {
			return counts[keys[i]] > counts[keys[j]]
		}
		return keys[i] < keys[j]
	})

	var gaps []model.ContentGap
	for _, k := range keys {
		typ, severity := model.GapSignificantTopic, model.SeverityModerate
		if counts[k] >= 2*MinTopicSightings {
			typ, severity = model.GapCriticalTopic, model.SeveritySignificant
		}
		gaps = append(gaps, model.ContentGap{
			Type:        typ,
			Title:       "Recurring Content Gap",
			Description: first[k],
			Severity:    severity,
			Action:      "Publish content that directly addresses this gap on the website and business listings.",
		})
	}
	return gaps
}

// BuildActions turns weak provider scores and competitor pressure into a
// prioritized action list: critical > high > medium, stable within a tier.
func BuildActions(scores ScoreSet, competitors []model.Competitor, businessName string) []model.PriorityAction {
	var actions []model.PriorityAction

	for _, b := range scores.Breakdowns {
		switch {
		case b.Mentions == 0:
			actions = append(actions, model.PriorityAction{
				Title:       fmt.Sprintf("Establish presence on %s", b.Provider),
				Description: fmt.Sprintf("%s never mentioned %s across %d queries — zero visibility on this platform.", b.Provider, businessName, b.Queries),
				Priority:    model.PriorityCritical,
				Impact:      "high",
				Effort:      "medium",
				Fix:         fmt.Sprintf("Claim and complete the business profiles %s draws from, add structured data to the website, and build citations in local directories so %s can discover the business.", b.Provider, b.Provider),
				Status:      model.ActionPending,
			})
		case 100-b.Total >= HighOpportunityScore:
			actions = append(actions, model.PriorityAction{
				Title:       fmt.Sprintf("Improve visibility on %s", b.Provider),
				Description: fmt.Sprintf("%s scores %d/100 on %s — substantial headroom remains.", businessName, b.Total, b.Provider),
				Priority:    model.PriorityHigh,
				Impact:      "high",
				Effort:      "medium",
				Fix:         "Grow recent positive reviews and enrich listing detail for the attributes this platform surfaces.",
				Status:      model.ActionPending,
			})
		default:
			actions = append(actions, model.PriorityAction{
				Title:       fmt.Sprintf("Maintain standing on %s", b.Provider),
				Description: fmt.Sprintf("%s scores %d/100 on %s.", businessName, b.Total, b.Provider),
				Priority:    model.PriorityMedium,
				Impact:      "medium",
				Effort:      "low",
				Fix:         "Keep review velocity and listing freshness steady; monitor for ranking slips.",
				Status:      model.ActionPending,
			})
		}
	}

	if len(competitors) > CompetitiveCrowdSize {
		actions = append(actions, model.PriorityAction{
			Title:       "Develop a competitive differentiation strategy",
			Description: fmt.Sprintf("AI assistants recommend %d rival businesses in this space; without clear differentiation %s competes on name recognition alone.", len(competitors), businessName),
			Priority:    model.PriorityHigh,
			Impact:      "high",
			Effort:      "high",
			Fix:         "Identify what the most-recommended competitors emphasize and publish content highlighting concrete differentiators.",
			Status:      model.ActionPending,
		})
	}

	sort.SliceStable(actions, func(i, j int) bool {
		return priorityWeight(actions[i].Priority) > priorityWeight(actions[j].Priority)
	})
	return actions
}

func priorityWeight(p model.ActionPriority) int {
	switch p {
	case model.PriorityCritical:
		return 3
	case model.PriorityHigh:
		return 2
	case model.PriorityMedium:
		return 1
	default:
		return 0
	}
}

func topCompetitorNames(competitors []model.Competitor, n int) []string {
	var names []string
	for _, c := range competitors {
		if len(names) == n {
			break
		}
		names = append(names, c.Name)
	}
	return names
}
