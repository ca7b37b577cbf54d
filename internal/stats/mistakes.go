package stats

import (
	"sort"

	"github.com/verte-zerg/numbattle/internal/model"
)

// Mistake aggregates every miss of one question prompt.
type Mistake struct {
	Prompt        string
	Mode          model.Mode
	CorrectAnswer int
	Count         int
	LastAnswer    int
}

// TopMistakes returns the n most missed prompts across entries. Ties are ordered by
// prompt. A non-positive n returns every prompt.
func TopMistakes(entries []model.HistoryEntry, n int) []Mistake {
	byPrompt := map[string]*Mistake{}
	for _, e := range entries {
		for _, w := range e.Result.WrongQuestions {
			m, ok := byPrompt[w.Prompt]
			if !ok {
				m = &Mistake{Prompt: w.Prompt, Mode: e.Result.Config.Mode, CorrectAnswer: w.CorrectAnswer}
				byPrompt[w.Prompt] = m
			}
			m.Count++
			m.LastAnswer = w.UserAnswer
		}
	}
	items := make([]Mistake, 0, len(byPrompt))
	for _, m := range byPrompt {
		items = append(items, *m)
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].Count == items[j].Count {
			return items[i].Prompt < items[j].Prompt
		}
		return items[i].Count > items[j].Count
	})
	if n > 0 && n < len(items) {
		items = items[:n]
	}
	return items
}
