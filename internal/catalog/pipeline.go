package catalog

import (
	"sort"
	"strings"

	"nurcatalog/internal/book"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// DefaultPageSize is the number of books on a catalog page.
const DefaultPageSize = 9

// MaxPageSize caps page_size on list requests.
const MaxPageSize = 100

// All is the selector value meaning "no filter".
const All = "All"

// Filters narrows the catalog. Zero value means no filtering.
type Filters struct {
	Category string `json:"category"`
	Century  string `json:"century"`
	Language string `json:"language"`
	Theme    string `json:"theme"`
	Author   string `json:"author"`
	MaxPages int    `json:"max_pages"`
}

// Sort is a catalog ordering.
type Sort string

const (
	SortOldest Sort = "Oldest"
	SortNewest Sort = "Newest"
	SortTitle  Sort = "Title A-Z"
)

// ParseSort maps the accepted spellings to a Sort. Unknown or empty input
// yields SortOldest.
func ParseSort(s string) Sort {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "newest":
		return SortNewest
	case "title a-z", "alphabetical", "title":
		return SortTitle
	default:
		return SortOldest
	}
}

// Params is one catalog query.
type Params struct {
	Filters  Filters
	Query    string
	Sort     Sort
	Page     int
	PageSize int

	// AIActive replaces the free-text stage with membership in AIMatches.
	AIActive  bool
	AIMatches []string
}

// Page is one page of the filtered, sorted catalog.
type Page struct {
	Books      []book.Book `json:"books"`
	Page       int         `json:"page"`
	PageSize   int         `json:"page_size"`
	TotalPages int         `json:"total_pages"`
	Filtered   int         `json:"filtered"`
	Total      int         `json:"total"`
}

// Run filters, searches, sorts and paginates books. books is not modified.
func Run(books []book.Book, p Params) Page {
	matched := Filter(books, p)
	SortBooks(matched, p.Sort)
	return paginate(matched, len(books), p.Page, p.PageSize)
}

// Filter applies every filter stage and the text or AI membership stage,
// preserving input order.
func Filter(books []book.Book, p Params) []book.Book {
	f := p.Filters
	author := strings.ToLower(strings.TrimSpace(f.Author))
	query := strings.ToLower(strings.TrimSpace(p.Query))

	var allowed map[string]bool
	if p.AIActive {
		allowed = make(map[string]bool, len(p.AIMatches))
		for _, id := range p.AIMatches {
			allowed[id] = true
		}
	}

	out := make([]book.Book, 0, len(books))
	for _, b := range books {
		if active(f.Category) && b.Category != f.Category {
			continue
		}
		if active(f.Century) && CenturyString(b.Year) != f.Century {
			continue
		}
		if active(f.Language) && !strings.Contains(b.Language, f.Language) {
			continue
		}
		if active(f.Theme) && !hasTheme(b, f.Theme) {
			continue
		}
		if author != "" && !strings.Contains(strings.ToLower(b.Author), author) {
			continue
		}
		if f.MaxPages > 0 && b.Pages > f.MaxPages {
			continue
		}
		if p.AIActive {
			if !allowed[b.ID] {
				continue
			}
		} else if query != "" && !matchesText(b, query) {
			continue
		}
		out = append(out, b)
	}
	return out
}

func active(v string) bool {
	return v != "" && v != All
}

func hasTheme(b book.Book, theme string) bool {
	for _, t := range b.Themes {
		if t == theme {
			return true
		}
	}
	return false
}

// matchesText expects a lowercased query.
func matchesText(b book.Book, query string) bool {
	return strings.Contains(strings.ToLower(b.Title), query) ||
		strings.Contains(strings.ToLower(b.Author), query) ||
		strings.Contains(strings.ToLower(b.Description), query)
}

// SortBooks orders books in place. The sort is stable.
func SortBooks(books []book.Book, s Sort) {
	switch ParseSort(string(s)) {
	case SortNewest:
		sort.SliceStable(books, func(i, j int) bool { return books[i].Year > books[j].Year })
	case SortTitle:
		// Collators keep internal buffers and must not be shared across goroutines.
		c := collate.New(language.English, collate.Loose)
		sort.SliceStable(books, func(i, j int) bool {
			return c.CompareString(books[i].Title, books[j].Title) < 0
		})
	default:
		sort.SliceStable(books, func(i, j int) bool { return books[i].Year < books[j].Year })
	}
}

func paginate(books []book.Book, total, page, size int) Page {
	if size <= 0 {
		size = DefaultPageSize
	}
	if page < 1 {
		page = 1
	}
	filtered := len(books)
	totalPages := filtered / size
	if filtered%size != 0 {
		totalPages++
	}

	// Bound page before multiplying so huge values cannot overflow.
	start := filtered
	if page-1 < totalPages {
		start = (page - 1) * size
	}
	end := start + min(size, filtered-start)

	return Page{
		Books:      books[start:end:end],
		Page:       page,
		PageSize:   size,
		TotalPages: totalPages,
		Filtered:   filtered,
		Total:      total,
	}
}
