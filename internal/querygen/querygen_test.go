package querygen

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/visibility-cli/internal/model"
)

func TestGenerateKnownCategory(t *testing.T) {
	t.Parallel()

	queries := Generate("Espresso Elegance", "coffee shop", "Seattle, WA", nil, 5)
	require.Len(t, queries, 5)

	assert.Equal(t, "best coffee shops in Seattle, WA", queries[0].Text)
	assert.Equal(t, model.IntentDiscovery, queries[0].Intent)

	intents := map[model.QueryIntent]bool{}
	for _, q := range queries {
		intents[q.Intent] = true
	}
	assert.True(t, intents[model.IntentDiscovery])
	assert.True(t, intents[model.IntentComparison])
}

func TestGenerateCustomQueriesFirst(t *testing.T) {
	t.Parallel()

	custom := []string{"is Espresso Elegance open late", "Espresso Elegance vs Bean There"}
	queries := Generate("Espresso Elegance", "coffee shop", "Seattle, WA", custom, 4)
	require.Len(t, queries, 4)

	assert.Equal(t, custom[0], queries[0].Text)
	assert.Equal(t, custom[1], queries[1].Text)
	assert.Equal(t, "custom query", queries[0].Template)
	assert.Equal(t, "best coffee shops in Seattle, WA", queries[2].Text)
}

func TestGenerateUnknownCategoryUsesGeneric(t *testing.T) {
	t.Parallel()

	queries := Generate("Puzzle Parlor", "escape room", "Austin, TX", nil, 3)
	require.Len(t, queries, 3)
	assert.Equal(t, "best escape room in Austin, TX", queries[0].Text)
}

func TestGenerateAliasMatching(t *testing.T) {
	t.Parallel()

	queries := Generate("Iron Works", "24 hour gym", "Denver, CO", nil, 1)
	require.Len(t, queries, 1)
	assert.Equal(t, "best gyms in Denver, CO", queries[0].Text)
}

func TestGenerateNoUnreplacedPlaceholders(t *testing.T) {
	t.Parallel()

	categories := []string{
		"coffee shop", "restaurant", "salon", "gym", "dentist",
		"auto repair", "escape room", "plumber", "",
	}
	for _, cat := range categories {
		for _, q := range Generate("Biz", cat, "Portland, OR", nil, 12) {
			assert.NotContains(t, q.Text, "{", "category %q query %q", cat, q.Text)
			assert.NotContains(t, q.Text, "}", "category %q query %q", cat, q.Text)
		}
	}
}

func TestGenerateCyclesTemplatesAtMostTwice(t *testing.T) {
	t.Parallel()

	// coffee shop has 6 templates; two passes cap output at 12.
	queries := Generate("Espresso Elegance", "coffee shop", "Seattle, WA", nil, 50)
	assert.Len(t, queries, 12)
	assert.Equal(t, queries[0].Text, queries[6].Text)
}

func TestGenerateStableOrder(t *testing.T) {
	t.Parallel()

	a := Generate("Biz", "restaurant", "Boise, ID", []string{"custom"}, 6)
	b := Generate("Biz", "restaurant", "Boise, ID", []string{"custom"}, 6)
	assert.Equal(t, a, b)
}

func TestGenerateZeroCount(t *testing.T) {
	t.Parallel()
	assert.Empty(t, Generate("Biz", "gym", "Reno, NV", []string{"custom"}, 0))
}

func TestGenerateCountSmallerThanCustom(t *testing.T) {
	t.Parallel()

	custom := []string{"q1", "q2", "q3"}
	queries := Generate("Biz", "gym", "Reno, NV", custom, 2)
	require.Len(t, queries, 2)
	assert.Equal(t, "q1", queries[0].Text)
	assert.Equal(t, "q2", queries[1].Text)
}

func TestGenericTemplatesMentionBusinessType(t *testing.T) {
	t.Parallel()

	queries := Generate("Biz", "bike shop", "Eugene, OR", nil, 5)
	for _, q := range queries {
		assert.True(t, strings.Contains(q.Text, "bike shop") || strings.Contains(q.Text, "Eugene, OR"))
	}
}
