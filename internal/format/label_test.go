package format

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHeader(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"branch_name", "Branch Name"},
		{"message", "Message"},
		{"total__deposits_", "Total Deposits"},
		{"Value", "Value"},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Header(tt.in))
		})
	}
}

func TestCategory(t *testing.T) {
	assert.Equal(t, "New York", Category("new_york"))
	assert.Equal(t, "Total Deposits", Category("totalDeposits"))
	assert.Equal(t, "NY", Category("NY"))
	assert.Equal(t, "International ...", Category("international_branch_office"))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", Truncate("abc", 14))
	assert.Equal(t, "abcdefghijklmn...", Truncate("abcdefghijklmnop", 14))
	assert.Equal(t, "ééé...", Truncate("éééé", 3))
}

func TestNumber(t *testing.T) {
	assert.Equal(t, "1,500", Number(1500))
	assert.Equal(t, "1,234,567", Number(1234567))
	assert.Equal(t, "-2,000", Number(-2000))
	assert.Equal(t, "1,234.5", Number(1234.5))
	assert.Equal(t, "0.33", Number(1.0/3))
}
