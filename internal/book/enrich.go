package book

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"nurcatalog/internal/platform/gemini"

	"go.uber.org/zap"
	"google.golang.org/genai"
)

var (
	// ErrEnrichmentUnavailable is returned when no enrichment source is configured.
	ErrEnrichmentUnavailable = errors.New("enrichment not configured")
	// ErrEnrichmentFailed is returned when every configured source failed.
	ErrEnrichmentFailed = errors.New("enrichment failed")
)

var enrichmentSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"context": {Type: genai.TypeString},
		"themes":  {Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}},
	},
	Required: []string{"context", "themes"},
}

// Enricher fills historical context and themes from a text model and
// publisher and cover details from a bibliographic lookup. Either source
// may be nil.
type Enricher struct {
	text     TextGenerator
	metadata MetadataLookup
	log      *zap.Logger
}

func NewEnricher(text TextGenerator, metadata MetadataLookup, log *zap.Logger) *Enricher {
	if log == nil {
		log = zap.NewNop()
	}
	return &Enricher{text: text, metadata: metadata, log: log}
}

type contextSuggestion struct {
	Context string   `json:"context"`
	Themes  []string `json:"themes"`
}

// Enrich returns b with placeholder or empty fields filled in, and whether
// anything changed. It fails only when every configured source failed.
func (e *Enricher) Enrich(ctx context.Context, b Book) (Book, bool, error) {
	if e.text == nil && e.metadata == nil {
		return b, false, ErrEnrichmentUnavailable
	}

	out := b
	out.Themes = append([]string(nil), b.Themes...)
	var failures []error
	attempted := 0

	if e.text != nil && (needsContext(b) || len(b.Themes) == 0) {
		attempted++
		suggestion, err := e.suggestContext(ctx, b)
		if err != nil {
			e.log.Warn("context enrichment failed", zap.String("book_id", b.ID), zap.Error(err))
			failures = append(failures, err)
		} else {
			if needsContext(b) && suggestion.Context != "" {
				out.HistoricalContext = suggestion.Context
			}
			if len(b.Themes) == 0 {
				out.Themes = cleanThemes(suggestion.Themes)
				if len(out.Themes) > 3 {
					out.Themes = out.Themes[:3]
				}
			}
		}
	}

	if e.metadata != nil && needsMetadata(b) {
		attempted++
		details, err := e.metadata.GetBookByISBN(ctx, b.ISBN)
		if err != nil {
			e.log.Warn("metadata enrichment failed", zap.String("book_id", b.ID), zap.Error(err))
			failures = append(failures, err)
		} else {
			if out.Publisher == "" {
				out.Publisher = details.PublisherNames()
			}
			if cover := details.CoverURL(); cover != "" && (out.CoverImage == "" || out.CoverImage == DefaultCoverImage) {
				out.CoverImage = cover
			}
		}
	}

	if attempted > 0 && len(failures) == attempted {
		return b, false, fmt.Errorf("%w: %w", ErrEnrichmentFailed, errors.Join(failures...))
	}
	return out, !sameBook(b, out), nil
}

func (e *Enricher) suggestContext(ctx context.Context, b Book) (contextSuggestion, error) {
	prompt := fmt.Sprintf(
		"Generate a 2-sentence historical significance and 3 short themes for the book %q by %s. "+
			"Return as JSON with keys \"context\" and \"themes\".",
		b.Title, b.Author)

	resp, err := e.text.Generate(ctx, prompt, gemini.Options{JSON: true, Schema: enrichmentSchema})
	if err != nil {
		return contextSuggestion{}, err
	}

	var s contextSuggestion
	if err := json.Unmarshal([]byte(stripFences(resp.Text)), &s); err != nil {
		return contextSuggestion{}, fmt.Errorf("decode enrichment: %w", err)
	}
	s.Context = strings.TrimSpace(s.Context)
	return s, nil
}

// NeedsEnrichment reports whether b still has fields Enrich could fill.
func NeedsEnrichment(b Book) bool {
	return needsContext(b) || len(b.Themes) == 0 || needsMetadata(b)
}

func needsMetadata(b Book) bool {
	return b.ISBN != "" && (b.Publisher == "" || b.CoverImage == "" || b.CoverImage == DefaultCoverImage)
}

func needsContext(b Book) bool {
	return b.HistoricalContext == "" || b.HistoricalContext == DefaultHistoricalContext
}

func stripFences(text string) string {
	text = strings.ReplaceAll(text, "```json", "")
	text = strings.ReplaceAll(text, "```", "")
	return strings.TrimSpace(text)
}

func sameBook(a, b Book) bool {
	if a.HistoricalContext != b.HistoricalContext || a.Publisher != b.Publisher || a.CoverImage != b.CoverImage {
		return false
	}
	if len(a.Themes) != len(b.Themes) {
		return false
	}
	for i := range a.Themes {
		if a.Themes[i] != b.Themes[i] {
			return false
		}
	}
	return true
}
