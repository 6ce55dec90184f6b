package report

import (
	"sort"
	"strings"

	"github.com/sells-group/visibility-cli/internal/model"
)

// MinCompetitorSightings is how many distinct queries must surface a name
// before it counts as a real competitor rather than extraction noise.
const MinCompetitorSightings = 2

// AggregateCompetitors tallies competitor names across every query's
// analyses. Dedup is case-insensitive, the casing of the first sighting is
// kept, and a name counts at most once per query no matter how many
// providers surfaced it. Names below the sighting threshold are dropped.
func AggregateCompetitors(results []QueryResult, minSightings int) []model.Competitor {
	if minSightings <= 0 {
		minSightings = MinCompetitorSightings
	}

	type tally struct {
		name      string
		count     int
		providers map[string]struct{}
	}
	tallies := map[string]*tally{}

	for _, qr := range results {
		seenThisQuery := map[string]struct{}{}
		for prov, a := range qr.Analyses {
			for _, name := range a.CompetitorsMentioned {
				key := strings.ToLower(name)
				t, ok := tallies[key]
				if !ok {
					t = &tally{name: name, providers: map[string]struct{}{}}
					tallies[key] = t
				}
				t.providers[prov] = struct{}{}
				if _, dup := seenThisQuery[key]; !dup {
					seenThisQuery[key] = struct{}{}
					t.count++
				}
			}
		}
	}

	var out []model.Competitor
	for _, t := range tallies {
		if t.count < minSightings {
			continue
		}
		provs := make([]string, 0, len(t.providers))
		for p := range t.providers {
			provs = append(provs, p)
		}
		sort.Strings(provs)
		out = append(out, model.Competitor{
			Name:           t.name,
			Providers:      provs,
			DetectionCount: t.count,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].DetectionCount != out[j].DetectionCount {
			return out[i].DetectionCount > out[j].DetectionCount
		}
		return out[i].Name < out[j].Name
	})
	return out
}
