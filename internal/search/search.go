package search

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"nurcatalog/internal/book"
	"nurcatalog/internal/platform/gemini"

	"go.uber.org/zap"
	"google.golang.org/genai"
)

const (
	keywordExplanation  = "Direct keyword matches from the catalog."
	fallbackExplanation = "Fallback search results based on title, author and category."
)

var errNoJSON = errors.New("search: no JSON object in model response")

// Source is a web reference the model grounded its answer on.
type Source = gemini.Source

// Generator is the text model behind smart search. *gemini.Client satisfies it.
type Generator interface {
	Generate(ctx context.Context, prompt string, opts gemini.Options) (*gemini.Response, error)
}

// Result is what a search produced. It is always well formed.
type Result struct {
	Books               []book.Book `json:"books"`
	BookIDs             []string    `json:"book_ids"`
	Explanation         string      `json:"explanation,omitempty"`
	ExternalSuggestions []string    `json:"external_suggestions,omitempty"`
	Sources             []Source    `json:"sources,omitempty"`
	Fallback            bool        `json:"fallback"`
}

type Service struct {
	gen       Generator
	grounding bool
	log       *zap.Logger
}

// NewService builds the adapter. gen may be nil, in which case every search
// uses the keyword fallback.
func NewService(gen Generator, grounding bool, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{gen: gen, grounding: grounding, log: log}
}

// Enabled reports whether a model is configured.
func (s *Service) Enabled() bool {
	return s.gen != nil
}

var answerSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"bookIds": {
			Type:        genai.TypeArray,
			Items:       &genai.Schema{Type: genai.TypeString},
			Description: "IDs of matching books",
		},
		"explanation": {
			Type:        genai.TypeString,
			Description: "Brief reason for the search results",
		},
		"externalSuggestions": {
			Type:  genai.TypeArray,
			Items: &genai.Schema{Type: genai.TypeString},
		},
	},
	Required: []string{"bookIds", "explanation"},
}

// Search matches query against catalog. A blank query returns the whole
// catalog without calling the model.
func (s *Service) Search(ctx context.Context, query string, catalog []book.Book) Result {
	query = strings.TrimSpace(query)
	if query == "" {
		return newResult(catalog, "")
	}
	if s.gen == nil {
		return fallback(query, catalog)
	}

	prompt, err := buildPrompt(query, catalog, s.grounding)
	if err != nil {
		s.log.Warn("search prompt failed", zap.Error(err))
		return fallback(query, catalog)
	}

	opts := gemini.Options{JSON: true, Schema: answerSchema}
	if s.grounding {
		opts = gemini.Options{Grounding: true}
	}
	resp, err := s.gen.Generate(ctx, prompt, opts)
	if err == nil && resp == nil {
		err = errors.New("empty model response")
	}
	if err != nil {
		s.log.Warn("smart search failed, using fallback", zap.String("query", query), zap.Error(err))
		return fallback(query, catalog)
	}

	ans, err := parseAnswer(resp.Text)
	if err != nil {
		s.log.Warn("smart search answer unreadable, using fallback", zap.String("query", query), zap.Error(err))
		return fallback(query, catalog)
	}

	matched := resolve(ans.BookIDs, catalog)
	var res Result
	if len(matched) == 0 {
		explanation := ans.Explanation
		if explanation == "" {
			explanation = keywordExplanation
		}
		res = newResult(keywordMatch(query, catalog), explanation)
	} else {
		res = newResult(matched, ans.Explanation)
	}
	res.ExternalSuggestions = ans.ExternalSuggestions
	res.Sources = resp.Sources
	return res
}

type catalogEntry struct {
	ID       string   `json:"id"`
	Title    string   `json:"title"`
	Author   string   `json:"author"`
	Category string   `json:"category"`
	Year     int      `json:"year"`
	Themes   []string `json:"themes"`
	Language string   `json:"language"`
}

func buildPrompt(query string, catalog []book.Book, grounding bool) (string, error) {
	entries := make([]catalogEntry, len(catalog))
	for i, b := range catalog {
		entries[i] = catalogEntry{
			ID: b.ID, Title: b.Title, Author: b.Author, Category: b.Category,
			Year: b.Year, Themes: b.Themes, Language: b.Language,
		}
	}
	data, err := json.Marshal(entries)
	if err != nil {
		return "", fmt.Errorf("encode catalog: %w", err)
	}

	var sb strings.Builder
	sb.WriteString("You are the chief librarian of the Nur Catalog.\n")
	fmt.Fprintf(&sb, "Search through this internal catalog: %s\n", data)
	fmt.Fprintf(&sb, "User query: %q\n", query)
	sb.WriteString("Match books conceptually or by title, author, category or theme.\n")
	if grounding {
		sb.WriteString("If the query asks for books NOT in our catalog, use Google Search to find famous manuscripts or scholars that fit.\n")
	}
	sb.WriteString(`Return only a JSON object with:
1. "bookIds": IDs of matching books from our internal list.
2. "explanation": A brief, elegant librarian-style response.
3. "externalSuggestions": titles and authors of real books found outside our catalog, as strings.`)
	return sb.String(), nil
}

type answer struct {
	BookIDs             []string
	Explanation         string
	ExternalSuggestions []string
}

type rawAnswer struct {
	BookIDs             []json.RawMessage `json:"bookIds"`
	Explanation         string            `json:"explanation"`
	ExternalSuggestions []json.RawMessage `json:"externalSuggestions"`
}

// parseAnswer strips code fences and decodes the first JSON object in text.
func parseAnswer(text string) (answer, error) {
	text = strings.ReplaceAll(text, "```json", "")
	text = strings.ReplaceAll(text, "```", "")
	start := strings.Index(text, "{")
	if start < 0 {
		return answer{}, errNoJSON
	}

	var raw rawAnswer
	if err := json.NewDecoder(strings.NewReader(text[start:])).Decode(&raw); err != nil {
		return answer{}, fmt.Errorf("decode answer: %w", err)
	}

	ans := answer{Explanation: strings.TrimSpace(raw.Explanation)}
	for _, id := range raw.BookIDs {
		if s := scalarString(id); s != "" {
			ans.BookIDs = append(ans.BookIDs, s)
		}
	}
	for _, sug := range raw.ExternalSuggestions {
		if s := suggestionString(sug); s != "" {
			ans.ExternalSuggestions = append(ans.ExternalSuggestions, s)
		}
	}
	return ans, nil
}

// scalarString accepts ids sent as strings or numbers.
func scalarString(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return strings.TrimSpace(s)
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String()
	}
	return ""
}

func suggestionString(raw json.RawMessage) string {
	if s := scalarString(raw); s != "" {
		return s
	}
	var obj struct {
		Title  string `json:"title"`
		Author string `json:"author"`
	}
	if err := json.Unmarshal(raw, &obj); err != nil || obj.Title == "" {
		return ""
	}
	if obj.Author == "" {
		return obj.Title
	}
	return obj.Title + " by " + obj.Author
}

// resolve keeps catalog order and drops unknown or repeated ids.
func resolve(ids []string, catalog []book.Book) []book.Book {
	wanted := make(map[string]bool, len(ids))
	for _, id := range ids {
		wanted[id] = true
	}
	out := []book.Book{}
	for _, b := range catalog {
		if wanted[b.ID] {
			out = append(out, b)
			delete(wanted, b.ID)
		}
	}
	return out
}

// keywordMatch is a case-insensitive substring match on title, author and category.
func keywordMatch(query string, catalog []book.Book) []book.Book {
	q := strings.ToLower(query)
	out := []book.Book{}
	for _, b := range catalog {
		if strings.Contains(strings.ToLower(b.Title), q) ||
			strings.Contains(strings.ToLower(b.Author), q) ||
			strings.Contains(strings.ToLower(b.Category), q) {
			out = append(out, b)
		}
	}
	return out
}

func fallback(query string, catalog []book.Book) Result {
	res := newResult(keywordMatch(query, catalog), fallbackExplanation)
	res.Fallback = true
	return res
}

func newResult(books []book.Book, explanation string) Result {
	if books == nil {
		books = []book.Book{}
	}
	ids := make([]string, len(books))
	for i, b := range books {
		ids[i] = b.ID
	}
	return Result{Books: books, BookIDs: ids, Explanation: explanation}
}
