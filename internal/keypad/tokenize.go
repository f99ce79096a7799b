package keypad

import (
	"maps"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
	"golang.org/x/text/width"

	"github.com/roach88/calcbrain/internal/operation"
)

// DefaultAliases maps ASCII stand-ins to operator symbols.
var DefaultAliases = map[string]string{
	"*": operation.SymbolMultiply,
	"x": operation.SymbolMultiply,
	"/": operation.SymbolDivide,
	"-": operation.SymbolSubtract,
}

// Tokenizer splits typed input into keys.
type Tokenizer struct {
	aliases map[string]string
}

// NewTokenizer creates a tokenizer using DefaultAliases plus extra.
// Entries in extra override the defaults.
func NewTokenizer(extra map[string]string) *Tokenizer {
	aliases := maps.Clone(DefaultAliases)
	for k, v := range extra {
		aliases[normalize(k)] = normalize(v)
	}
	return &Tokenizer{aliases: aliases}
}

// Tokenize splits input into keys with the default aliases.
func Tokenize(input string) []string {
	return NewTokenizer(nil).Tokenize(input)
}

// Tokenize splits input into keys.
//
// Input is width-folded and NFC-normalized first, so full-width digits and
// operators read as their ASCII forms. Each digit and decimal point is one
// key; a run of letters is one key (e.g. "AC"); any other character is one
// key. Whitespace only separates. Aliases apply to every key.
func (t *Tokenizer) Tokenize(input string) []string {
	input = normalize(input)

	var keys []string
	var word strings.Builder
	flush := func() {
		if word.Len() > 0 {
			keys = append(keys, t.alias(word.String()))
			word.Reset()
		}
	}

	for _, r := range input {
		switch {
		case unicode.IsLetter(r):
			word.WriteRune(r)
		case unicode.IsSpace(r):
			flush()
		default:
			flush()
			keys = append(keys, t.alias(string(r)))
		}
	}
	flush()
	return keys
}

func (t *Tokenizer) alias(key string) string {
	if symbol, ok := t.aliases[key]; ok {
		return symbol
	}
	return key
}

func normalize(s string) string {
	return norm.NFC.String(width.Fold.String(s))
}
