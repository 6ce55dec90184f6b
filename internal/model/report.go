// Package model defines the domain types shared across the visibility pipeline.
package model

import "time"

// ReportStatus represents the lifecycle state of a visibility report.
type ReportStatus string

const (
	ReportStatusPending    ReportStatus = "pending"
	ReportStatusProcessing ReportStatus = "processing"
	ReportStatusCompleted  ReportStatus = "completed"
	ReportStatusFailed     ReportStatus = "failed"
)

// QueryIntent tags what kind of discovery question a generated query asks.
type QueryIntent string

const (
	IntentDiscovery  QueryIntent = "discovery"
	IntentComparison QueryIntent = "comparison"
	IntentSpecific   QueryIntent = "specific"
	IntentReviews    QueryIntent = "reviews"
)

// Sentiment classifies the tone of a provider's answer around a mention.
type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNeutral  Sentiment = "neutral"
	SentimentNegative Sentiment = "negative"
	SentimentAbsent   Sentiment = "absent"
)

// BusinessProfile describes the business a report is generated for.
type BusinessProfile struct {
	Name          string   `json:"name"`
	Category      string   `json:"category"`
	Location      string   `json:"location"`
	CustomQueries []string `json:"custom_queries,omitempty"`
	Providers     []string `json:"providers,omitempty"` // empty = all configured
}

// GeneratedQuery is one natural-language question submitted to every provider.
type GeneratedQuery struct {
	Text     string      `json:"text"`
	Intent   QueryIntent `json:"intent"`
	Template string      `json:"template"` // originating template description
}

// ProviderResponse is the normalized envelope for one (query, provider) call.
type ProviderResponse struct {
	Provider   string        `json:"provider"`
	Query      string        `json:"query"`
	RawAnswer  string        `json:"raw_answer,omitempty"`
	Latency    time.Duration `json:"latency_ms"`
	TokensUsed int           `json:"tokens_used"`
	CostUSD    float64       `json:"cost_usd"`
	Error      string        `json:"error,omitempty"`
	Retryable  bool          `json:"retryable,omitempty"`
}

// Failed reports whether the call produced an error instead of an answer.
func (r ProviderResponse) Failed() bool {
	return r.Error != ""
}

// Analysis holds the structured signals parsed from one raw answer.
// It is a pure function of the answer text and the business name.
type Analysis struct {
	BusinessMentioned    bool      `json:"business_mentioned"`
	Ranking              *int      `json:"ranking,omitempty"`
	Sentiment            Sentiment `json:"sentiment"`
	CompetitorsMentioned []string  `json:"competitors_mentioned,omitempty"`
	ContentGaps          []string  `json:"content_gaps,omitempty"`
	Recommendations      []string  `json:"recommendations,omitempty"`
}

// ProviderScoreBreakdown is the per-provider score and its components.
type ProviderScoreBreakdown struct {
	Provider       string      `json:"provider"`
	Total          int         `json:"total"`           // 0-100
	MentionScore   int         `json:"mention_score"`   // 0-40
	RankingScore   int         `json:"ranking_score"`   // 0-40
	SentimentScore int         `json:"sentiment_score"` // 0-20
	Queries        int         `json:"queries"`         // queries executed against this provider
	Mentions       int         `json:"mentions"`        // queries where the business was mentioned
	Analysis       ScoreParams `json:"analysis"`
}

// ScoreParams is the aggregated input the score formula is computed from.
type ScoreParams struct {
	BusinessMentioned bool      `json:"business_mentioned"`
	Ranking           *int      `json:"ranking,omitempty"` // rounded mean of extracted rankings
	Sentiment         Sentiment `json:"sentiment"`
}

// Competitor is a rival business detected across the report's queries.
type Competitor struct {
	Name           string   `json:"name"`
	Website        string   `json:"website,omitempty"`
	Providers      []string `json:"providers"`
	DetectionCount int      `json:"detection_count"`
	Disabled       bool     `json:"disabled"`
}

// GapType classifies a detected content gap.
type GapType string

const (
	GapStructural       GapType = "structural"
	GapThematic         GapType = "thematic"
	GapCriticalTopic    GapType = "critical_topic"
	GapSignificantTopic GapType = "significant_topic"
)

// GapSeverity grades how damaging a content gap is.
type GapSeverity string

const (
	SeverityModerate    GapSeverity = "moderate"
	SeveritySignificant GapSeverity = "significant"
	SeverityCritical    GapSeverity = "critical"
)

// ContentGap is a topic or surface competitors cover that the business does not.
type ContentGap struct {
	Type        GapType     `json:"type"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Severity    GapSeverity `json:"severity"`
	Competitors []string    `json:"competitors,omitempty"`
	Action      string      `json:"action"`
}

// ActionPriority orders recommended actions.
type ActionPriority string

const (
	PriorityLow      ActionPriority = "low"
	PriorityMedium   ActionPriority = "medium"
	PriorityHigh     ActionPriority = "high"
	PriorityCritical ActionPriority = "critical"
)

// ActionStatus tracks the lifecycle of a recommended action.
type ActionStatus string

const (
	ActionPending    ActionStatus = "pending"
	ActionInProgress ActionStatus = "in_progress"
	ActionCompleted  ActionStatus = "completed"
	ActionDismissed  ActionStatus = "dismissed"
)

// PriorityAction is one recommended fix, ranked by priority.
type PriorityAction struct {
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Priority    ActionPriority `json:"priority"`
	Impact      string         `json:"impact,omitempty"`
	Effort      string         `json:"effort,omitempty"`
	Fix         string         `json:"fix,omitempty"`
	Status      ActionStatus   `json:"status"`
}

// Report is the finished visibility report for one business and period.
type Report struct {
	ID               string                   `json:"id"`
	Business         BusinessProfile          `json:"business"`
	Status           ReportStatus             `json:"status"`
	OverallScore     int                      `json:"overall_score"`
	Grade            string                   `json:"grade"`
	ProviderScores   []ProviderScoreBreakdown `json:"provider_scores"`
	Queries          []GeneratedQuery         `json:"queries"`
	Responses        []ProviderResponse       `json:"responses"`
	Competitors      []Competitor             `json:"competitors"`
	ContentGaps      []ContentGap             `json:"content_gaps"`
	Actions          []PriorityAction         `json:"actions"`
	MissingProviders []string                 `json:"missing_providers,omitempty"` // errored on every query, excluded from the average
	TotalCostUSD     float64                  `json:"total_cost_usd"`
	Error            string                   `json:"error,omitempty"`
	StartedAt        time.Time                `json:"started_at"`
	CompletedAt      *time.Time               `json:"completed_at,omitempty"`
}

// Grade maps an overall score to its letter grade.
func Grade(score int) string {
	switch {
	case score >= 95:
		return "A+"
	case score >= 85:
		return "A"
	case score >= 70:
		return "B"
	case score >= 55:
		return "C"
	case score >= 40:
		return "D"
	default:
		return "F"
	}
}

// HealthStatus reports one provider's availability for diagnostics.
type HealthStatus struct {
	Provider  string        `json:"provider"`
	Available bool          `json:"available"`
	Latency   time.Duration `json:"latency_ms"`
	Error     string        `json:"error,omitempty"`
}
