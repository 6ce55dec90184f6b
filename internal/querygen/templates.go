package querygen

import (
	"os"
	"sort"
	"strings"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/visibility-cli/internal/model"
)

// templateFile is the on-disk template pack format:
//
//	categories:
//	  bakery:
//	    - text: "best bakeries in {location}"
//	      intent: discovery
//	      name: "local discovery"
type templateFile struct {
	Categories map[string][]templateEntry `yaml:"categories"`
}

type templateEntry struct {
	Text   string `yaml:"text"`
	Intent string `yaml:"intent"`
	Name   string `yaml:"name"`
}

var validIntents = map[string]model.QueryIntent{
	string(model.IntentDiscovery):  model.IntentDiscovery,
	string(model.IntentComparison): model.IntentComparison,
	string(model.IntentSpecific):   model.IntentSpecific,
	string(model.IntentReviews):    model.IntentReviews,
}

// LoadTemplates merges a YAML template pack into the built-in library.
// Categories in the pack override built-in categories of the same name.
func LoadTemplates(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return eris.Wrapf(err, "querygen: read template pack %s", path)
	}

	var tf templateFile
	if err := yaml.Unmarshal(data, &tf); err != nil {
		return eris.Wrapf(err, "querygen: parse template pack %s", path)
	}

	for category, entries := range tf.Categories {
		key := strings.ToLower(strings.TrimSpace(category))
		if key == "" || len(entries) == 0 {
			continue
		}
		tpls := make([]template, 0, len(entries))
		for _, e := range entries {
			intent, ok := validIntents[e.Intent]
			if !ok {
				return eris.Errorf("querygen: category %q: unknown intent %q", category, e.Intent)
			}
			if strings.TrimSpace(e.Text) == "" {
				return eris.Errorf("querygen: category %q: template with empty text", category)
			}
			desc := e.Name
			if desc == "" {
				desc = "custom template"
			}
			tpls = append(tpls, template{text: e.Text, intent: intent, desc: desc})
		}
		if _, exists := categoryTemplates[key]; !exists {
			categoryOrder = append(categoryOrder, key)
		}
		categoryTemplates[key] = tpls
	}

	// Keep alias matching deterministic: longest category names first.
	sort.SliceStable(categoryOrder, func(i, j int) bool {
		return len(categoryOrder[i]) > len(categoryOrder[j])
	})
	return nil
}
