package report

import (
	"path"
	"sort"

	"github.com/src-d/enry/v2"

	"github.com/Sumatoshi-tech/gitstats/pkg/history"
)

// linesByLanguage groups snapshot line counts by detected programming
// language, descending by lines. Files enry cannot classify from their
// name alone are skipped.
func linesByLanguage(files []history.SnapshotFile) []NameCount {
	totals := map[string]int{}

	for _, file := range files {
		lang := enry.GetLanguage(path.Base(file.Path), nil)
		if lang == enry.OtherLanguage {
			continue
		}

		totals[lang] += file.LineCount
	}

	out := make([]NameCount, 0, len(totals))
	for lang, lines := range totals {
		out = append(out, NameCount{Name: lang, Count: lines})
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}

		return out[i].Name < out[j].Name
	})

	return out
}
