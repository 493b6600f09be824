package httpx

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type sampleInput struct {
	Title    string   `json:"title" validate:"required,max=10"`
	ISBN     string   `json:"isbn" validate:"required,isbn"`
	Price    string   `json:"price" validate:"omitempty,price"`
	Category string   `json:"category" validate:"required,oneof=Art History"`
	Themes   []string `json:"themes" validate:"dive,required"`
}

func TestValidateStruct(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		in := sampleInput{Title: "Ok", ISBN: "978-0691166285", Price: "12.50", Category: "Art"}
		assert.Empty(t, ValidateStruct(in))
	})

	t.Run("isbn10 with check digit X", func(t *testing.T) {
		in := sampleInput{Title: "Ok", ISBN: "0-8044-2957-X", Category: "History"}
		assert.Empty(t, ValidateStruct(in))
	})

	t.Run("field details use json names", func(t *testing.T) {
		in := sampleInput{Title: "", ISBN: "12345", Price: "-1", Category: "Poetry", Themes: []string{""}}
		details := ValidateStruct(in)

		fields := map[string]string{}
		for _, d := range details {
			fields[d.Field] = d.Message
		}
		assert.Equal(t, "title is required", fields["title"])
		assert.Contains(t, fields["isbn"], "valid ISBN")
		assert.Contains(t, fields["price"], "non-negative")
		assert.Equal(t, "category must be one of: Art, History", fields["category"])
		assert.Contains(t, fields, "themes[0]")
	})
}
