package taxonomy

import (
	"errors"
	"strings"
)

var (
	ErrNotFound  = errors.New("not found")
	ErrDuplicate = errors.New("name already exists")
	ErrEmptyName = errors.New("name must not be empty")
)

// Entry is a named row of one of the taxonomy tables.
type Entry interface {
	Category | AuthorInfo | Language
	key() string
	label() string
}

type Category struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (c Category) key() string   { return c.ID }
func (c Category) label() string { return c.Name }

// AuthorInfo is a biographical profile shown next to an author's works.
type AuthorInfo struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	DeathYear *int   `json:"death_year,omitempty"`
	Image     string `json:"image"`
	Bio       string `json:"bio"`
}

func (a AuthorInfo) key() string   { return a.ID }
func (a AuthorInfo) label() string { return a.Name }

type Language struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Code string `json:"code"`
}

func (l Language) key() string   { return l.ID }
func (l Language) label() string { return l.Name }

type CategoryInput struct {
	Name        string `json:"name" validate:"required,max=100"`
	Description string `json:"description" validate:"max=2000"`
}

type CategoryPatch struct {
	Name        *string `json:"name" validate:"omitempty,min=1,max=100"`
	Description *string `json:"description" validate:"omitempty,max=2000"`
}

func (p CategoryPatch) apply(c Category) Category {
	if p.Name != nil {
		c.Name = strings.TrimSpace(*p.Name)
	}
	if p.Description != nil {
		c.Description = *p.Description
	}
	return c
}

type AuthorInput struct {
	Name      string `json:"name" validate:"required,max=200"`
	DeathYear *int   `json:"death_year" validate:"omitempty,max=3000"`
	Image     string `json:"image" validate:"omitempty,url"`
	Bio       string `json:"bio" validate:"max=5000"`
}

type AuthorPatch struct {
	Name      *string `json:"name" validate:"omitempty,min=1,max=200"`
	DeathYear *int    `json:"death_year" validate:"omitempty,max=3000"`
	Image     *string `json:"image" validate:"omitempty,url"`
	Bio       *string `json:"bio" validate:"omitempty,max=5000"`
}

func (p AuthorPatch) apply(a AuthorInfo) AuthorInfo {
	if p.Name != nil {
		a.Name = strings.TrimSpace(*p.Name)
	}
	if p.DeathYear != nil {
		a.DeathYear = p.DeathYear
	}
	if p.Image != nil {
		a.Image = *p.Image
	}
	if p.Bio != nil {
		a.Bio = *p.Bio
	}
	return a
}

type LanguageInput struct {
	Name string `json:"name" validate:"required,max=100"`
	Code string `json:"code" validate:"omitempty,max=10"`
}

type LanguagePatch struct {
	Name *string `json:"name" validate:"omitempty,min=1,max=100"`
	Code *string `json:"code" validate:"omitempty,max=10"`
}

func (p LanguagePatch) apply(l Language) Language {
	if p.Name != nil {
		l.Name = strings.TrimSpace(*p.Name)
	}
	if p.Code != nil {
		l.Code = strings.ToLower(strings.TrimSpace(*p.Code))
	}
	return l
}

func sameName(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}
