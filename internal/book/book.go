package book

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	// ErrNotFound is returned when a book is not found.
	ErrNotFound = errors.New("book not found")
	// ErrDuplicateISBN is returned when another book already carries the ISBN.
	ErrDuplicateISBN = errors.New("isbn already exists")
)

// Categories is the fixed set of shelves a book can be filed under.
var Categories = []string{"Philosophy", "Theology", "History", "Literature", "Science", "Art"}

const (
	DefaultHistoricalContext = "A vital contribution to the intellectual history of the era."
	DefaultCoverImage        = "https://images.unsplash.com/photo-1532012197267-da84d127e765?auto=format&fit=crop&q=80&w=800"
	DefaultPrice             = "0"
)

// Book represents a manuscript in the catalog.
type Book struct {
	ID                string    `json:"id"`
	Title             string    `json:"title"`
	Author            string    `json:"author"`
	Category          string    `json:"category"`
	Year              int       `json:"year"`
	Description       string    `json:"description"`
	HistoricalContext string    `json:"historical_context"`
	Themes            []string  `json:"themes"`
	CoverImage        string    `json:"cover_image"`
	ISBN              string    `json:"isbn"`
	Pages             int       `json:"pages"`
	Language          string    `json:"language"`
	Publisher         string    `json:"publisher"`
	Price             string    `json:"price"`
	InStock           *bool     `json:"in_stock,omitempty"`
	UserID            *string   `json:"user_id,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
}

// DefaultDescription is the placeholder description for a category.
func DefaultDescription(category string) string {
	return fmt.Sprintf("A classical exploration of %s principles.", strings.ToLower(category))
}

// CreateBookInput is the validated payload for a new book.
type CreateBookInput struct {
	Title             string   `json:"title" validate:"required,max=500"`
	Author            string   `json:"author" validate:"required,max=255"`
	Category          string   `json:"category" validate:"required,oneof=Philosophy Theology History Literature Science Art"`
	Year              int      `json:"year" validate:"gte=-3000,lte=3000"`
	Description       string   `json:"description"`
	HistoricalContext string   `json:"historical_context"`
	Themes            []string `json:"themes" validate:"max=20,dive,required,max=100"`
	CoverImage        string   `json:"cover_image" validate:"omitempty,url"`
	ISBN              string   `json:"isbn" validate:"required,isbn"`
	Pages             int      `json:"pages" validate:"required,gt=0"`
	Language          string   `json:"language" validate:"required,max=100"`
	Publisher         string   `json:"publisher" validate:"required,max=255"`
	Price             string   `json:"price" validate:"omitempty,price"`
	InStock           *bool    `json:"in_stock"`
}

// UpdateBookInput carries a partial update; nil fields are left untouched.
type UpdateBookInput struct {
	Title             *string   `json:"title" validate:"omitempty,min=1,max=500"`
	Author            *string   `json:"author" validate:"omitempty,min=1,max=255"`
	Category          *string   `json:"category" validate:"omitempty,oneof=Philosophy Theology History Literature Science Art"`
	Year              *int      `json:"year" validate:"omitempty,gte=-3000,lte=3000"`
	Description       *string   `json:"description"`
	HistoricalContext *string   `json:"historical_context"`
	Themes            *[]string `json:"themes" validate:"omitempty,max=20,dive,required,max=100"`
	CoverImage        *string   `json:"cover_image" validate:"omitempty,url"`
	ISBN              *string   `json:"isbn" validate:"omitempty,isbn"`
	Pages             *int      `json:"pages" validate:"omitempty,gt=0"`
	Language          *string   `json:"language" validate:"omitempty,min=1,max=100"`
	Publisher         *string   `json:"publisher" validate:"omitempty,min=1,max=255"`
	Price             *string   `json:"price" validate:"omitempty,price"`
	InStock           *bool     `json:"in_stock"`
}

// NewFromInput builds a book from a create payload, filling the
// placeholder values the admin form leaves blank.
func NewFromInput(id string, in CreateBookInput, userID *string, now time.Time) Book {
	b := Book{
		ID:                id,
		Title:             strings.TrimSpace(in.Title),
		Author:            strings.TrimSpace(in.Author),
		Category:          in.Category,
		Year:              in.Year,
		Description:       strings.TrimSpace(in.Description),
		HistoricalContext: strings.TrimSpace(in.HistoricalContext),
		Themes:            cleanThemes(in.Themes),
		CoverImage:        strings.TrimSpace(in.CoverImage),
		ISBN:              strings.TrimSpace(in.ISBN),
		Pages:             in.Pages,
		Language:          strings.TrimSpace(in.Language),
		Publisher:         strings.TrimSpace(in.Publisher),
		Price:             strings.TrimSpace(in.Price),
		InStock:           in.InStock,
		UserID:            userID,
		CreatedAt:         now,
	}
	if b.Description == "" {
		b.Description = DefaultDescription(b.Category)
	}
	if b.HistoricalContext == "" {
		b.HistoricalContext = DefaultHistoricalContext
	}
	if b.CoverImage == "" {
		b.CoverImage = DefaultCoverImage
	}
	if b.Price == "" {
		b.Price = DefaultPrice
	}
	return b
}

// Apply returns a copy of b with the non-nil fields of in applied.
func (in UpdateBookInput) Apply(b Book) Book {
	if in.Title != nil {
		b.Title = strings.TrimSpace(*in.Title)
	}
	if in.Author != nil {
		b.Author = strings.TrimSpace(*in.Author)
	}
	if in.Category != nil {
		b.Category = *in.Category
	}
	if in.Year != nil {
		b.Year = *in.Year
	}
	if in.Description != nil {
		b.Description = strings.TrimSpace(*in.Description)
	}
	if in.HistoricalContext != nil {
		b.HistoricalContext = strings.TrimSpace(*in.HistoricalContext)
	}
	if in.Themes != nil {
		b.Themes = cleanThemes(*in.Themes)
	}
	if in.CoverImage != nil && strings.TrimSpace(*in.CoverImage) != "" {
		b.CoverImage = strings.TrimSpace(*in.CoverImage)
	}
	if in.ISBN != nil {
		b.ISBN = strings.TrimSpace(*in.ISBN)
	}
	if in.Pages != nil {
		b.Pages = *in.Pages
	}
	if in.Language != nil {
		b.Language = strings.TrimSpace(*in.Language)
	}
	if in.Publisher != nil {
		b.Publisher = strings.TrimSpace(*in.Publisher)
	}
	if in.Price != nil {
		b.Price = strings.TrimSpace(*in.Price)
	}
	if in.InStock != nil {
		b.InStock = in.InStock
	}
	return b
}

func cleanThemes(themes []string) []string {
	out := make([]string, 0, len(themes))
	seen := make(map[string]bool, len(themes))
	for _, t := range themes {
		t = strings.TrimSpace(t)
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}

// IsCategory reports whether name is one of the fixed categories.
func IsCategory(name string) bool {
	for _, c := range Categories {
		if c == name {
			return true
		}
	}
	return false
}
