package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseClientRef(t *testing.T) {
	cases := []struct {
		raw  string
		want ClientRef
	}{
		{"C042 Minera Andina S.A.C.", ClientRef{Code: "C042", Name: "Minera Andina S.A.C."}},
		{"  C042   Minera   Andina ", ClientRef{Code: "C042", Name: "Minera Andina"}},
		{"C042", ClientRef{Code: "C042", Name: "C042"}},
		{"", ClientRef{}},
		{"   ", ClientRef{}},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, ParseClientRef(tc.raw), "raw %q", tc.raw)
	}
}

func TestClientRefIsZero(t *testing.T) {
	assert.True(t, ClientRef{}.IsZero())
	assert.False(t, ParseClientRef("C042").IsZero())
}

func TestClientDisplayPrefersTradeName(t *testing.T) {
	assert.Equal(t, "MINANDINA", Client{Name: "Minera Andina S.A.C.", TradeName: "MINANDINA"}.Display())
	assert.Equal(t, "Minera Andina S.A.C.", Client{Name: "Minera Andina S.A.C."}.Display())
}
