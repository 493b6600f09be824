package book

import (
	_ "embed"
	"encoding/json"
	"fmt"
)

//go:embed seed_books.json
var seedJSON []byte

// SeedBooks returns the starter catalog shipped with the binary.
func SeedBooks() ([]Book, error) {
	var books []Book
	if err := json.Unmarshal(seedJSON, &books); err != nil {
		return nil, fmt.Errorf("decode seed catalog: %w", err)
	}
	for i := range books {
		if books[i].Themes == nil {
			books[i].Themes = []string{}
		}
	}
	return books, nil
}
