package report

import (
	"math"
	"sort"

	"github.com/sells-group/visibility-cli/internal/model"
)

// Score component values. Mention is all-or-nothing; ranking and sentiment
// only apply once the business was mentioned at least once.
const (
	mentionPoints = 40

	rankUnknownPoints = 10
	rank1Points       = 40
	rank2Points       = 35
	rank3Points       = 30
	rank4Points       = 25
	rank5Points       = 20
	rankDeepPoints    = 15

	sentimentPositivePoints = 20
	sentimentNeutralPoints  = 10
)

// ScoreSet holds every provider's breakdown plus the providers that errored
// on all queries and therefore carry no score at all.
type ScoreSet struct {
	Breakdowns []model.ProviderScoreBreakdown
	Missing    []string // excluded from the overall average
}

// ComputeScores aggregates the per-query analyses into one breakdown per
// provider. A provider that failed every single query is reported under
// Missing instead of receiving a zero breakdown; a provider that answered
// but never mentioned the business scores a legitimate zero.
func ComputeScores(results []QueryResult, providers []string) ScoreSet {
	var set ScoreSet
	for _, name := range providers {
		queries, succeeded, mentions := 0, 0, 0
		var ranks []int
		var sentiments []model.Sentiment

		for _, qr := range results {
			resp, ok := qr.Responses[name]
			if !ok {
				continue
			}
			queries++
			if resp.Failed() {
				continue
			}
			succeeded++
			a := qr.Analyses[name]
			if a.BusinessMentioned {
				mentions++
				if a.Ranking != nil {
					ranks = append(ranks, *a.Ranking)
				}
				if a.Sentiment != model.SentimentAbsent {
					sentiments = append(sentiments, a.Sentiment)
				}
			}
		}

		if queries > 0 && succeeded == 0 {
			set.Missing = append(set.Missing, name)
			continue
		}

		params := model.ScoreParams{
			BusinessMentioned: mentions > 0,
			Ranking:           meanRank(ranks),
			Sentiment:         majoritySentiment(sentiments),
		}
		b := Score(params)
		b.Provider = name
		b.Queries = queries
		b.Mentions = mentions
		set.Breakdowns = append(set.Breakdowns, b)
	}
	return set
}

// Score computes the 0-100 breakdown for one provider's aggregated params.
// The three components always sum to the total.
func Score(p model.ScoreParams) model.ProviderScoreBreakdown {
	b := model.ProviderScoreBreakdown{Analysis: p}
	if !p.BusinessMentioned {
		return b
	}

	b.MentionScore = mentionPoints

	switch {
	case p.Ranking == nil:
		b.RankingScore = rankUnknownPoints
	case *p.Ranking <= 1:
		b.RankingScore = rank1Points
	case *p.Ranking == 2:
		b.RankingScore = rank2Points
	case *p.Ranking == 3:
		b.RankingScore = rank3Points
	case *p.Ranking == 4:
		b.RankingScore = rank4Points
	case *p.Ranking == 5:
		b.RankingScore = rank5Points
	default:
		b.RankingScore = rankDeepPoints
	}

	switch p.Sentiment {
	case model.SentimentPositive:
		b.SentimentScore = sentimentPositivePoints
	case model.SentimentNegative:
		b.SentimentScore = 0
	default:
		b.SentimentScore = sentimentNeutralPoints
	}

	b.Total = b.MentionScore + b.RankingScore + b.SentimentScore
	return b
}

// Overall returns the rounded mean of the computed provider totals and its
// letter grade. Providers under Missing never enter the denominator.
func (s ScoreSet) Overall() (int, string) {
	if len(s.Breakdowns) == 0 {
		return 0, model.Grade(0)
	}
	sum := 0
	for _, b := range s.Breakdowns {
		sum += b.Total
	}
	score := int(math.Round(float64(sum) / float64(len(s.Breakdowns))))
	return score, model.Grade(score)
}

// MeanRanking returns the unrounded mean of every extracted ranking across
// all providers and queries, or false when no ranking was ever extracted.
func MeanRanking(results []QueryResult) (float64, bool) {
	sum, n := 0, 0
	for _, qr := range results {
		for _, a := range qr.Analyses {
			if a.BusinessMentioned && a.Ranking != nil {
				sum += *a.Ranking
				n++
			}
		}
	}
	if n == 0 {
		return 0, false
	}
	return float64(sum) / float64(n), true
}

func meanRank(ranks []int) *int {
	if len(ranks) == 0 {
		return nil
	}
	sum := 0
	for _, r := range ranks {
		sum += r
	}
	mean := int(math.Round(float64(sum) / float64(len(ranks))))
	return &mean
}

// majoritySentiment picks the most frequent sentiment across queries where
// the business was mentioned. Ties break toward the more severe signal
// (negative > neutral > positive) so a split never inflates the score.
func majoritySentiment(sentiments []model.Sentiment) model.Sentiment {
	if len(sentiments) == 0 {
		return model.SentimentAbsent
	}
	counts := map[model.Sentiment]int{}
	for _, s := range sentiments {
		counts[s]++
	}
	order := []model.Sentiment{model.SentimentNegative, model.SentimentNeutral, model.SentimentPositive}
	sort.SliceStable(order, func(i, j int) bool { return counts[order[i]] > counts[order[j]] })
	return order[0]
}
