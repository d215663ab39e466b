package bot

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseToolAndPrice(t *testing.T) {
	tests := []struct {
		input string
		name  string
		price int64
		ok    bool
	}{
		{"drill 500", "drill", 500, true},
		{"hammer drill 650", "hammer drill", 650, true},
		{"  drill   500  ", "drill", 500, true},
		{"drill", "", 0, false},
		{"drill abc", "", 0, false},
		{"drill 0", "", 0, false},
		{"drill -5", "", 0, false},
		{" 500", "", 0, false},
		{"", "", 0, false},
	}

	for _, tt := range tests {
		name, price, ok := parseToolAndPrice(tt.input)
		assert.Equal(t, tt.ok, ok, "input %q", tt.input)
		assert.Equal(t, tt.name, name, "input %q", tt.input)
		assert.Equal(t, tt.price, price, "input %q", tt.input)
	}
}
