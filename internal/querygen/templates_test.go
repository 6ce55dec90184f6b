package querygen

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/visibility-cli/internal/model"
)

func writePack(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "templates.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadTemplatesAddsCategory(t *testing.T) {
	path := writePack(t, `
categories:
  bakery:
    - text: "best bakeries in {location}"
      intent: discovery
      name: "local discovery"
    - text: "compare bakeries in {location}"
      intent: comparison
`)
	require.NoError(t, LoadTemplates(path))

	queries := Generate("Flour Power", "bakery", "Portland, OR", nil, 2)
	require.Len(t, queries, 2)
	assert.Equal(t, "best bakeries in Portland, OR", queries[0].Text)
	assert.Equal(t, model.IntentDiscovery, queries[0].Intent)
	assert.Equal(t, "local discovery", queries[0].Template)
	assert.Equal(t, model.IntentComparison, queries[1].Intent)
	assert.Equal(t, "custom template", queries[1].Template)
}

func TestLoadTemplatesRejectsUnknownIntent(t *testing.T) {
	path := writePack(t, `
categories:
  bakery:
    - text: "best bakeries in {location}"
      intent: navigation
`)
	err := LoadTemplates(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown intent")
}

func TestLoadTemplatesRejectsEmptyText(t *testing.T) {
	path := writePack(t, `
categories:
  bakery:
    - text: ""
      intent: discovery
`)
	require.Error(t, LoadTemplates(path))
}

func TestLoadTemplatesMissingFile(t *testing.T) {
	require.Error(t, LoadTemplates(filepath.Join(t.TempDir(), "absent.yaml")))
}
