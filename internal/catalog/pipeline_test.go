package catalog

import (
	"fmt"
	"math"
	"net/url"
	"testing"

	"nurcatalog/internal/book"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedCatalog(t *testing.T) []book.Book {
	t.Helper()
	books, err := book.SeedBooks()
	require.NoError(t, err)
	return books
}

func ids(books []book.Book) []string {
	out := make([]string, len(books))
	for i, b := range books {
		out[i] = b.ID
	}
	return out
}

func TestCenturyString(t *testing.T) {
	cases := map[int]string{
		1377: "14th Century",
		1988: "20th Century",
		1100: "12th Century",
		2008: "21st Century",
		1025: "11th Century",
		1160: "12th Century",
		1201: "13th Century",
		150:  "2nd Century",
		220:  "3rd Century",
		0:    "1st Century",
	}
	for year, want := range cases {
		assert.Equal(t, want, CenturyString(year), "year %d", year)
		assert.Equal(t, CenturyString(year), CenturyString(year))
	}
	assert.Equal(t, "111th Century", CenturyString(11000))
	assert.Equal(t, "0th Century", CenturyString(-50))
}

func TestParseSort(t *testing.T) {
	assert.Equal(t, SortOldest, ParseSort(""))
	assert.Equal(t, SortOldest, ParseSort("bogus"))
	assert.Equal(t, SortNewest, ParseSort("Newest"))
	assert.Equal(t, SortTitle, ParseSort("Title A-Z"))
	assert.Equal(t, SortTitle, ParseSort("Alphabetical"))
	assert.Equal(t, SortTitle, ParseSort("title"))
}

func TestFilter_LanguageSubstring(t *testing.T) {
	books := []book.Book{{ID: "a", Language: "Arabic/English"}}

	for _, lang := range []string{"Arabic", "English"} {
		got := Filter(books, Params{Filters: Filters{Language: lang}})
		assert.Len(t, got, 1, lang)
	}
	assert.Empty(t, Filter(books, Params{Filters: Filters{Language: "French"}}))
}

func TestFilter_StagesMonotonic(t *testing.T) {
	books := seedCatalog(t)
	stages := []Filters{
		{},
		{Category: "Literature"},
		{Category: "Literature", Century: "20th Century"},
		{Category: "Literature", Century: "20th Century", Language: "English"},
		{Category: "Literature", Century: "20th Century", Language: "English", Theme: "Destiny"},
		{Category: "Literature", Century: "20th Century", Language: "English", Theme: "Destiny", Author: "paulo"},
		{Category: "Literature", Century: "20th Century", Language: "English", Theme: "Destiny", Author: "paulo", MaxPages: 100},
	}

	prev := len(books) + 1
	for i, f := range stages {
		n := len(Filter(books, Params{Filters: f}))
		assert.LessOrEqual(t, n, prev, "stage %d", i)
		prev = n
	}
	assert.Equal(t, 0, prev)
}

func TestFilter_AllMeansNoFilter(t *testing.T) {
	books := seedCatalog(t)
	got := Filter(books, Params{Filters: Filters{Category: All, Century: All, Language: All, Theme: All}})
	assert.Len(t, got, len(books))
}

func TestFilter_TextAndAIMembership(t *testing.T) {
	books := seedCatalog(t)

	t.Run("text search", func(t *testing.T) {
		got := Filter(books, Params{Query: "IBN"})
		assert.Equal(t, []string{"2", "3"}, ids(got))
	})

	t.Run("description match", func(t *testing.T) {
		got := Filter(books, Params{Query: "desert island"})
		assert.Equal(t, []string{"3"}, ids(got))
	})

	t.Run("ai matches replace text search", func(t *testing.T) {
		got := Filter(books, Params{Query: "nothing matches this", AIActive: true, AIMatches: []string{"5", "1"}})
		assert.Equal(t, []string{"1", "5"}, ids(got))
	})

	t.Run("ai matches still honour filters", func(t *testing.T) {
		got := Filter(books, Params{Filters: Filters{Category: "Theology"}, AIActive: true, AIMatches: []string{"5", "1"}})
		assert.Equal(t, []string{"5"}, ids(got))
	})
}

func TestSortBooks(t *testing.T) {
	books := seedCatalog(t)

	oldest := Run(books, Params{Sort: SortOldest, PageSize: 100}).Books
	newest := Run(books, Params{Sort: SortNewest, PageSize: 100}).Books
	require.Len(t, newest, len(oldest))
	for i := range oldest {
		assert.Equal(t, oldest[i].ID, newest[len(newest)-1-i].ID)
	}
	assert.Equal(t, []string{"5", "3", "4", "2", "1", "6"}, ids(oldest))

	byTitle := Run(books, Params{Sort: SortTitle, PageSize: 100}).Books
	assert.Equal(t, "Hayy ibn Yaqdhan", byTitle[0].Title)
	assert.Equal(t, "The Muqaddimah", byTitle[len(byTitle)-1].Title)
}

func TestSortBooks_TitleCollation(t *testing.T) {
	books := []book.Book{{ID: "1", Title: "zeno"}, {ID: "2", Title: "Ávila"}, {ID: "3", Title: "apple"}}
	SortBooks(books, SortTitle)
	assert.Equal(t, []string{"3", "2", "1"}, ids(books))
}

func TestRun_DoesNotMutateInput(t *testing.T) {
	books := seedCatalog(t)
	before := ids(books)
	Run(books, Params{Sort: SortTitle})
	assert.Equal(t, before, ids(books))
}

func TestRun_PagesConcatenate(t *testing.T) {
	var books []book.Book
	for i := 0; i < 23; i++ {
		books = append(books, book.Book{ID: fmt.Sprint(i), Year: 1000 + (i*37)%500, Category: "History"})
	}
	full := Run(books, Params{PageSize: 1000}).Books

	for _, size := range []int{1, 4, 9, 23, 30} {
		first := Run(books, Params{Page: 1, PageSize: size})
		var joined []book.Book
		for page := 1; page <= first.TotalPages; page++ {
			p := Run(books, Params{Page: page, PageSize: size})
			remaining := len(full) - (page-1)*size
			assert.Len(t, p.Books, min(size, remaining))
			joined = append(joined, p.Books...)
		}
		assert.Equal(t, ids(full), ids(joined), "page size %d", size)
	}
}

func TestRun_PaginationEdges(t *testing.T) {
	books := seedCatalog(t)

	p := Run(books, Params{})
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, DefaultPageSize, p.PageSize)
	assert.Equal(t, 1, p.TotalPages)
	assert.Equal(t, 6, p.Filtered)
	assert.Equal(t, 6, p.Total)

	beyond := Run(books, Params{Page: 5})
	assert.NotNil(t, beyond.Books)
	assert.Empty(t, beyond.Books)

	none := Run(books, Params{Filters: Filters{Category: "Science"}})
	assert.Equal(t, 0, none.TotalPages)
	assert.Equal(t, 0, none.Filtered)
	assert.Equal(t, 6, none.Total)

	huge := []Params{
		{Page: 1024819115206086201, PageSize: 9},
		{Page: math.MaxInt, PageSize: 9},
		{Page: 2, PageSize: math.MaxInt},
		{Page: math.MaxInt, PageSize: math.MaxInt},
		ParamsFromQuery(url.Values{"page": {"1024819115206086201"}}),
	}
	for _, params := range huge {
		var p Page
		require.NotPanics(t, func() { p = Run(books, params) })
		assert.NotNil(t, p.Books)
		assert.Empty(t, p.Books)
	}

	wide := Run(books, Params{PageSize: math.MaxInt})
	assert.Len(t, wide.Books, 6)
	assert.Equal(t, 1, wide.TotalPages)
}

func TestParamsFromQuery_CapsPageSize(t *testing.T) {
	p := ParamsFromQuery(url.Values{"page_size": {"100000"}})
	assert.Equal(t, MaxPageSize, p.PageSize)

	p = ParamsFromQuery(url.Values{"page_size": {"4"}})
	assert.Equal(t, 4, p.PageSize)
}

func TestRun_PhilosophyOldestScenario(t *testing.T) {
	years := []int{1025, 2008, 1377, 1160, 1500, 1198, 1700, 1900, 1100, 1300}
	var books []book.Book
	for i, y := range years {
		category := "Medicine"
		if i%2 == 0 {
			category = "Philosophy"
		}
		books = append(books, book.Book{ID: fmt.Sprint(i), Year: y, Category: category})
	}

	p := Run(books, Params{Filters: Filters{Category: "Philosophy"}, Sort: SortOldest, Page: 1, PageSize: 9})

	assert.LessOrEqual(t, len(p.Books), 9)
	assert.Len(t, p.Books, 5)
	for i, b := range p.Books {
		assert.Equal(t, "Philosophy", b.Category)
		if i > 0 {
			assert.GreaterOrEqual(t, b.Year, p.Books[i-1].Year)
		}
	}
	assert.Equal(t, 1025, p.Books[0].Year)
}
