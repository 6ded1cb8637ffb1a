package personnel

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFold(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"João Silva", "joao silva"},
		{"JOSÉ", "jose"},
		{"Müller", "muller"},
		{"Conceição", "conceicao"},
		{"plain name", "plain name"},
		{"", ""},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Fold(tc.in), "fold %q", tc.in)
	}
}
