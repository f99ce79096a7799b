package keypad

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"spaced", "12 + 3 =", []string{"1", "2", "+", "3", "="}},
		{"compact", "12+3=", []string{"1", "2", "+", "3", "="}},
		{"decimal", "1.5×2=", []string{"1", ".", "5", "×", "2", "="}},
		{"ascii aliases", "6*2/3-1=", []string{"6", "×", "2", "÷", "3", "−", "1", "="}},
		{"letter x", "3x4=", []string{"3", "×", "4", "="}},
		{"clear word", "9 AC 1", []string{"9", "AC", "1"}},
		{"full width", "１２＋３＝", []string{"1", "2", "+", "3", "="}},
		{"full width minus", "５－２", []string{"5", "−", "2"}},
		{"empty", "   ", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Tokenize(tt.input))
		})
	}
}

func TestTokenizer_CustomAliases(t *testing.T) {
	tok := NewTokenizer(map[string]string{
		"plus": "+",
		"x":    "x", // turn off the letter alias
	})

	assert.Equal(t, []string{"2", "+", "2"}, tok.Tokenize("2 plus 2"))
	assert.Equal(t, []string{"3", "x", "4"}, tok.Tokenize("3x4"))
	// Defaults not overridden still apply.
	assert.Equal(t, []string{"3", "×", "4"}, tok.Tokenize("3*4"))
}

func TestTokenize_FeedsDisplay(t *testing.T) {
	d := newDisplay()
	err := d.PressAll(Tokenize("12 - 4 * 2 ="))
	assert.NoError(t, err)
	// Left to right: (12 − 4) × 2.
	assert.Equal(t, "16", d.Text())
}
