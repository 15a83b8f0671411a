package contracts

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBracketContains(t *testing.T) {
	b := Bracket{Min: 10, Max: 20, Points: 5, Label: "fair"}

	assert.True(t, b.Contains(10), "inclusive lower endpoint")
	assert.True(t, b.Contains(20), "inclusive upper endpoint")
	assert.True(t, b.Contains(15))
	assert.False(t, b.Contains(9.999))
	assert.False(t, b.Contains(20.001))
}

func TestCategoryNames(t *testing.T) {
	c := &ScoringCriteria{Categories: []Category{
		{Name: "valuation"},
		{Name: "profitability"},
		{Name: "balance_sheet"},
	}}
	assert.Equal(t, []string{"valuation", "profitability", "balance_sheet"}, c.CategoryNames())

	empty := &ScoringCriteria{}
	assert.Empty(t, empty.CategoryNames())
}
