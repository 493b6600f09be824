package catalog

import (
	"sort"
	"strings"

	"nurcatalog/internal/book"
)

// MaxThemeFacets caps the theme selector.
const MaxThemeFacets = 15

// Facets holds the selector options derived from a catalog. Every list
// starts with All.
type Facets struct {
	Categories []string `json:"categories"`
	Centuries  []string `json:"centuries"`
	Languages  []string `json:"languages"`
	Themes     []string `json:"themes"`
}

// DeriveFacets builds the selector options from the books present.
func DeriveFacets(books []book.Book) Facets {
	centuries := map[string]bool{}
	languages := map[string]bool{}
	themes := map[string]bool{}

	for _, b := range books {
		centuries[CenturyString(b.Year)] = true
		for _, lang := range strings.Split(b.Language, "/") {
			if lang = strings.TrimSpace(lang); lang != "" {
				languages[lang] = true
			}
		}
		for _, t := range b.Themes {
			themes[t] = true
		}
	}

	centuryList := keys(centuries)
	sort.SliceStable(centuryList, func(i, j int) bool {
		return centuryNumber(centuryList[i]) < centuryNumber(centuryList[j])
	})

	languageList := keys(languages)
	sort.Strings(languageList)

	themeList := keys(themes)
	sort.Strings(themeList)
	if len(themeList) > MaxThemeFacets {
		themeList = themeList[:MaxThemeFacets]
	}

	return Facets{
		Categories: withAll(book.Categories),
		Centuries:  withAll(centuryList),
		Languages:  withAll(languageList),
		Themes:     withAll(themeList),
	}
}

func keys(set map[string]bool) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func withAll(values []string) []string {
	return append([]string{All}, values...)
}
