package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContainsFold(t *testing.T) {
	testCases := []struct {
		name   string
		term   string
		fields []string
		want   bool
	}{
		{name: "blank term", term: "  ", fields: []string{"anything"}, want: true},
		{name: "case insensitive", term: "FARM", fields: []string{"Smart farming sensors"}, want: true},
		{name: "second field", term: "kigali", fields: []string{"Agrotech", "Based in Kigali"}, want: true},
		{name: "no match", term: "fintech", fields: []string{"Agrotech", "Kigali"}, want: false},
		{name: "no fields", term: "x", fields: nil, want: false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ContainsFold(tc.term, tc.fields...))
		})
	}
}

func TestSelector(t *testing.T) {
	assert.True(t, Selector("all", "AgriTech"))
	assert.True(t, Selector("ALL", "AgriTech"))
	assert.True(t, Selector("", "AgriTech"))
	assert.True(t, Selector("AgriTech", "AgriTech"))
	assert.False(t, Selector("AgriTech", "agritech"))
	assert.False(t, Selector("FinTech", "AgriTech"))
}

func TestApply(t *testing.T) {
	got := Apply([]int{1, 2, 3, 4, 5}, func(i int) bool { return i%2 == 1 })
	assert.Equal(t, []int{1, 3, 5}, got)

	assert.Empty(t, Apply([]int{}, func(int) bool { return true }))
}
