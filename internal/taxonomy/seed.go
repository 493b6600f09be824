package taxonomy

import (
	_ "embed"
	"encoding/json"
	"fmt"
)

//go:embed seed_taxonomy.json
var seedJSON []byte

// Seed is the starter taxonomy shipped with the binary.
type Seed struct {
	Categories []Category   `json:"categories"`
	Authors    []AuthorInfo `json:"authors"`
	Languages  []Language   `json:"languages"`
}

func LoadSeed() (Seed, error) {
	var s Seed
	if err := json.Unmarshal(seedJSON, &s); err != nil {
		return Seed{}, fmt.Errorf("decode seed taxonomy: %w", err)
	}
	return s, nil
}

// NewMemoryService returns a Service over in-memory tables holding seed.
func NewMemoryService(seed Seed, opts ...Option) *Service {
	return NewService(
		NewMemoryTable(seed.Categories...),
		NewMemoryTable(seed.Authors...),
		NewMemoryTable(seed.Languages...),
		opts...,
	)
}
