package textnorm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "empty", in: "", want: ""},
		{name: "already normal", in: "gafas redondas", want: "gafas redondas"},
		{name: "uppercase", in: "GAFAS", want: "gafas"},
		{name: "spanish accents", in: "Óptica Visión", want: "optica vision"},
		{name: "enye", in: "Pequeños", want: "pequenos"},
		{name: "diaeresis", in: "Ungüento", want: "unguento"},
		{name: "surrounding whitespace", in: "  lentes  ", want: "lentes"},
		{name: "inner whitespace kept", in: "lentes  de sol", want: "lentes  de sol"},
		{name: "punctuation kept", in: "Blue-Light", want: "blue-light"},
		{name: "mixed case accented", in: "CLÁSICA", want: "clasica"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.in))
		})
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	inputs := []string{"Óptica Visión", "  GAFAS  ", "pequeños ungüentos", "blue-light"}
	for _, in := range inputs {
		once := Normalize(in)
		assert.Equal(t, once, Normalize(once), "input %q", in)
	}
}

func TestNormalize_MalformedUTF8(t *testing.T) {
	// Malformed input must not panic or error, just come back lowered.
	in := "caf\xffe"
	assert.NotPanics(t, func() { Normalize(in) })
}

func TestTokens(t *testing.T) {
	assert.Equal(t, []string{"gafas", "de", "sol"}, Tokens("  Gafas  DE Sol "))
	assert.Empty(t, Tokens("   "))
	assert.Equal(t, []string{"blue-light", "clasica"}, Tokens("Blue-Light Clásica"))
}
