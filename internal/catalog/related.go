package catalog

import (
	"sort"

	"nurcatalog/internal/book"
)

// DefaultRelated is the number of recommendations shown on a detail page.
const DefaultRelated = 3

// Related ranks every other book against target: +5 for the same category,
// +3 for the same author and +2 per shared theme. Ties keep catalog order.
func Related(target book.Book, books []book.Book, n int) []book.Book {
	if n <= 0 {
		n = DefaultRelated
	}

	themes := make(map[string]bool, len(target.Themes))
	for _, t := range target.Themes {
		themes[t] = true
	}

	type scored struct {
		book  book.Book
		score int
	}
	candidates := make([]scored, 0, len(books))
	for _, b := range books {
		if b.ID == target.ID {
			continue
		}
		score := 0
		if b.Category == target.Category {
			score += 5
		}
		if b.Author == target.Author {
			score += 3
		}
		for _, t := range b.Themes {
			if themes[t] {
				score += 2
			}
		}
		candidates = append(candidates, scored{book: b, score: score})
	}

	sort.SliceStable(candidates, func(i, j int) bool { return candidates[i].score > candidates[j].score })
	if len(candidates) > n {
		candidates = candidates[:n]
	}

	out := make([]book.Book, len(candidates))
	for i, c := range candidates {
		out[i] = c.book
	}
	return out
}
