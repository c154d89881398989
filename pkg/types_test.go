package pkg

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProductString(t *testing.T) {
	p := Product{
		Category:    "Laptops",
		Name:        "UltraBook Pro 14",
		Brand:       "Zenith",
		Price:       1299.999,
		Stock:       "In Stock",
		Description: "Thin and light",
	}

	expected := "  - Name: UltraBook Pro 14 (Zenith)\n" +
		"    Category: Laptops\n" +
		"    Price: $1300.00\n" +
		"    Stock: In Stock\n" +
		"    Description: Thin and light"
	assert.Equal(t, expected, p.String())
}

func TestSessionStateRepetition(t *testing.T) {
	s := &SessionState{LastInput: "hello", RepetitionCount: 3}
	assert.False(t, s.HasUserName())

	s.ResetRepetition()
	assert.Empty(t, s.LastInput)
	assert.Zero(t, s.RepetitionCount)
}
