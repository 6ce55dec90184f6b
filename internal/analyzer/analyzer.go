// Package analyzer parses free-text assistant answers into structured
// visibility signals. Every function is a pure function of the answer text
// and the business name, shared by all provider adapters.
//
// The heuristics are intentionally approximate classifiers; the constants
// below are tuned values and changing them changes downstream scoring.
package analyzer

import (
	"regexp"
	"strings"

	"github.com/sells-group/visibility-cli/internal/model"
)

const (
	// SentimentWindow is how many characters around a mention are scanned
	// for sentiment words.
	SentimentWindow = 200

	// MaxCompetitors caps competitor names extracted from one answer.
	MaxCompetitors = 10

	// MaxPhrases caps content gaps and recommendations per answer.
	MaxPhrases = 5

	// MinPhraseLen / MaxPhraseLen bound plausible gap and recommendation
	// phrases.
	MinPhraseLen = 10
	MaxPhraseLen = 200

	// significantWordLen is the minimum length of a business-name word that
	// must appear in the text for the fallback mention check.
	significantWordLen = 3
)

var positiveWords = []string{
	"excellent", "great", "best", "top", "outstanding", "popular",
	"recommended", "favorite", "loved", "amazing", "friendly", "quality",
	"delicious", "cozy", "highly rated", "well-known", "renowned",
}

var negativeWords = []string{
	"poor", "bad", "worst", "avoid", "disappointing", "overpriced",
	"slow", "rude", "dirty", "mediocre", "complaints", "inconsistent",
	"limited", "crowded", "noisy",
}

// competitorPatterns capture segments likely to list rival business names.
var competitorPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)competitors?\s+(?:include|are|such as)\s+([^.\n]+)`),
	regexp.MustCompile(`(?i)alternatives?\s+(?:include|are|such as)\s+([^.\n]+)`),
	regexp.MustCompile(`(?i)other\s+(?:options|choices|popular spots)\s+(?:include|are)\s+([^.\n]+)`),
	regexp.MustCompile(`(?i)compared\s+to\s+([^,.\n]+)`),
	regexp.MustCompile(`(?i)similar\s+(?:businesses|places|shops)\s+(?:include|are|like)\s+([^.\n]+)`),
	regexp.MustCompile(`(?i)such\s+as\s+([^.\n]+)`),
}

var gapPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(?:could|should)\s+improve\s+([^.\n]+)`),
	regexp.MustCompile(`(?i)missing\s+([^.\n]+)`),
	regexp.MustCompile(`(?i)lacks?\s+([^.\n]+)`),
	regexp.MustCompile(`(?i)doesn'?t\s+(?:offer|have|provide)\s+([^.\n]+)`),
	regexp.MustCompile(`(?i)no\s+(?:information|details|mention)\s+(?:about|on|of)\s+([^.\n]+)`),
}

var recommendationPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(?:we\s+)?recommend(?:s|ed)?\s+([^.\n]+)`),
	regexp.MustCompile(`(?i)should\s+(?:add|consider|focus on|invest in)\s+([^.\n]+)`),
	regexp.MustCompile(`(?i)would\s+benefit\s+from\s+([^.\n]+)`),
	regexp.MustCompile(`(?i)consider\s+(?:adding|improving|updating)\s+([^.\n]+)`),
}

// ordinalMarker matches a leading list marker like "#1", "1.", or "**1.**".
var ordinalMarker = regexp.MustCompile(`^\s*(?:\*{1,2})?(?:#\s*(\d{1,2})|(\d{1,2})[.)])`)

// tokens considered too generic to be competitor names.
var competitorStopWords = map[string]bool{
	"the": true, "and": true, "or": true, "a": true, "an": true,
	"others": true, "more": true, "etc": true, "many": true,
	"several": true, "various": true, "local": true, "nearby": true,
	"them": true, "these": true, "those": true, "one": true,
}

// Analyze runs every heuristic over one raw answer.
func Analyze(raw, businessName string) model.Analysis {
	mentioned := Mentioned(raw, businessName)

	a := model.Analysis{
		BusinessMentioned:    mentioned,
		Sentiment:            Sentiment(raw, businessName),
		CompetitorsMentioned: ExtractCompetitors(raw, businessName),
		ContentGaps:          ExtractGaps(raw),
		Recommendations:      ExtractRecommendations(raw),
	}
	if mentioned {
		a.Ranking = ExtractRanking(raw, businessName)
	}
	return a
}

// Mentioned reports whether the business name appears in the text. The full
// name is matched case-insensitively first; failing that, every significant
// word of the name (3+ characters) must appear somewhere.
func Mentioned(text, businessName string) bool {
	if businessName == "" {
		return false
	}
	lower := strings.ToLower(text)
	name := strings.ToLower(businessName)
	if strings.Contains(lower, name) {
		return true
	}

	found := false
	for _, w := range strings.Fields(name) {
		if len(w) < significantWordLen {
			continue
		}
		if !strings.Contains(lower, w) {
			return false
		}
		found = true
	}
	return found
}

// ExtractRanking infers the list position at which the business appears.
// A line mentioning the business with a leading ordinal marker wins; a
// mention within the first three lines falls back to its 1-based line
// position; otherwise the ranking is unknown.
func ExtractRanking(text, businessName string) *int {
	lines := strings.Split(text, "\n")
	lineIdx := 0
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		lineIdx++
		if !Mentioned(line, businessName) {
			continue
		}
		if m := ordinalMarker.FindStringSubmatch(line); m != nil {
			digits := m[1]
			if digits == "" {
				digits = m[2]
			}
			rank := parseSmallInt(digits)
			if rank > 0 {
				return &rank
			}
		}
		if lineIdx <= 3 {
			rank := lineIdx
			return &rank
		}
		return nil
	}
	return nil
}

// Sentiment classifies the tone of the text around the business mention by
// counting fixed positive and negative word lists inside a ±SentimentWindow
// character window. Ties and empty windows are neutral; no mention is absent.
func Sentiment(text, businessName string) model.Sentiment {
	lower := strings.ToLower(text)
	name := strings.ToLower(businessName)

	idx := strings.Index(lower, name)
	if idx < 0 {
		if !Mentioned(text, businessName) {
			return model.SentimentAbsent
		}
		// Fallback mention: anchor the window on the first significant word.
		for _, w := range strings.Fields(name) {
			if len(w) >= significantWordLen {
				if i := strings.Index(lower, w); i >= 0 {
					idx = i
					break
				}
			}
		}
		if idx < 0 {
			return model.SentimentAbsent
		}
	}

	start := idx - SentimentWindow
	if start < 0 {
		start = 0
	}
	end := idx + len(name) + SentimentWindow
	if end > len(lower) {
		end = len(lower)
	}
	window := lower[start:end]

	pos, neg := 0, 0
	for _, w := range positiveWords {
		pos += strings.Count(window, w)
	}
	for _, w := range negativeWords {
		neg += strings.Count(window, w)
	}

	switch {
	case pos > neg:
		return model.SentimentPositive
	case neg > pos:
		return model.SentimentNegative
	default:
		return model.SentimentNeutral
	}
}

// ExtractCompetitors pulls rival business names out of comparison phrasing.
// Results are deduplicated case-insensitively, never include the business's
// own name, and are capped at MaxCompetitors.
func ExtractCompetitors(text, businessName string) []string {
	nameLower := strings.ToLower(businessName)
	seen := make(map[string]bool)
	var out []string

	for _, re := range competitorPatterns {
		for _, m := range re.FindAllStringSubmatch(text, -1) {
			for _, candidate := range splitNameList(m[1]) {
				cleaned := cleanCompetitorName(candidate)
				if cleaned == "" {
					continue
				}
				key := strings.ToLower(cleaned)
				if seen[key] || isSelfReference(key, nameLower) {
					continue
				}
				seen[key] = true
				out = append(out, cleaned)
				if len(out) >= MaxCompetitors {
					return out
				}
			}
		}
	}
	return out
}

// ExtractGaps pulls "missing X" style phrases describing content the
// business's presence lacks.
func ExtractGaps(text string) []string {
	return extractPhrases(text, gapPatterns)
}

// ExtractRecommendations pulls "recommend X" style improvement phrases.
func ExtractRecommendations(text string) []string {
	return extractPhrases(text, recommendationPatterns)
}

func extractPhrases(text string, patterns []*regexp.Regexp) []string {
	seen := make(map[string]bool)
	var out []string
	for _, re := range patterns {
		for _, m := range re.FindAllStringSubmatch(text, -1) {
			phrase := strings.TrimSpace(strings.Trim(m[1], " .,;:"))
			if len(phrase) < MinPhraseLen || len(phrase) > MaxPhraseLen {
				continue
			}
			key := strings.ToLower(phrase)
			if seen[key] {
				continue
			}
			seen[key] = true
			out = append(out, phrase)
			if len(out) >= MaxPhrases {
				return out
			}
		}
	}
	return out
}

// splitNameList splits a captured segment on commas and and/or connectives.
func splitNameList(segment string) []string {
	segment = strings.ReplaceAll(segment, " and ", ",")
	segment = strings.ReplaceAll(segment, " or ", ",")
	segment = strings.ReplaceAll(segment, " & ", ",")
	return strings.Split(segment, ",")
}

func cleanCompetitorName(raw string) string {
	name := strings.TrimSpace(strings.Trim(raw, " .,;:*\"'()"))
	name = strings.TrimPrefix(name, "the ")
	name = strings.TrimPrefix(name, "The ")
	name = strings.TrimSpace(name)

	if len(name) < significantWordLen || len(name) > 60 {
		return ""
	}
	// Whole clauses are not names, and real names carry a capital letter.
	words := strings.Fields(name)
	if len(words) > 6 || strings.ToLower(name) == name {
		return ""
	}
	allStop := true
	for _, w := range words {
		if !competitorStopWords[strings.ToLower(w)] {
			allStop = false
			break
		}
	}
	if allStop {
		return ""
	}
	return name
}

// isSelfReference reports whether candidate names the business itself,
// either exactly or as a superset containing the full name.
func isSelfReference(candidateLower, nameLower string) bool {
	if nameLower == "" {
		return false
	}
	return candidateLower == nameLower || strings.Contains(candidateLower, nameLower)
}

func parseSmallInt(s string) int {
	n := 0
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0
		}
		n = n*10 + int(r-'0')
	}
	return n
}
