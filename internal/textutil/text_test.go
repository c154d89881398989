package textutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	assert.Equal(t, "hello there", Normalize("  Hello THERE \n"))
	assert.Equal(t, "", Normalize("   "))
}

func TestCapitalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"laptops", "Laptops"},
		{"GAMING LAPTOPS", "Gaming laptops"},
		{"a", "A"},
		{"", ""},
		{"écrans", "Écrans"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := Capitalize(tt.in)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, got, Capitalize(got), "capitalize must be idempotent")
		})
	}
}

func TestExtractKeyword(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		leadIns []string
		want    string
	}{
		{"show me", "show me laptops", []string{"show me", "list all", "see all", "show", "list", "see"}, "laptops"},
		{"trailing question mark", "what is the price of macbook?", []string{"price of", "what is the price of"}, "macbook"},
		{"order independent", "what is the price of macbook?", []string{"what is the price of", "price of"}, "macbook"},
		{"all occurrences", "list list monitors", []string{"list"}, "monitors"},
		{"only lead-in", "show", []string{"show"}, ""},
		{"stock lead-ins", "is the logitech mouse in stock?", []string{"is", "are", "in stock", "available"}, "the logitech mouse"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractKeyword(tt.input, tt.leadIns...))
		})
	}
}

func TestMatchHelpers(t *testing.T) {
	assert.True(t, ContainsAny("do you have monitors", "any", "do you have"))
	assert.False(t, ContainsAny("hello", "bye"))
	assert.True(t, EqualsAny("hi", "hi", "hello"))
	assert.False(t, EqualsAny("hi there", "hi", "hello"))
	assert.True(t, HasAnyPrefix("price of x", "price of"))
}
