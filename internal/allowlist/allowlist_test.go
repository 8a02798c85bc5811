package allowlist

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestChecker_IsAuthorized(t *testing.T) {
	c := New(
		[]string{"beta.gouv.fr", "Modernisation.GOUV.fr", " "},
		[]string{"John@Example.com"},
	)

	cases := []struct {
		email string
		want  bool
	}{
		{"agent@beta.gouv.fr", true},
		{"Agent@BETA.GOUV.FR", true},
		{"someone@modernisation.gouv.fr", true},
		{"john@example.com", true},
		{"JOHN@EXAMPLE.COM", true},
		{"jane@example.com", false},
		{"person@unknown-domain.test", false},
		{"agent@sub.beta.gouv.fr", false},
		{"beta.gouv.fr", false},
		{"", false},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, c.IsAuthorized(tc.email), tc.email)
	}
}

func TestChecker_UsesLastAt(t *testing.T) {
	c := New([]string{"beta.gouv.fr"}, nil)

	assert.True(t, c.IsAuthorized("odd@name@beta.gouv.fr"))
	assert.False(t, c.IsAuthorized("x@beta.gouv.fr@evil.test"))
}

func TestChecker_NonASCII(t *testing.T) {
	c := New([]string{"beta.gouv.fr"}, []string{"kelvin@example.com"})

	// U+212A KELVIN SIGN is three bytes and lowers to a one-byte "k".
	assert.NotPanics(t, func() {
		assert.False(t, c.IsAuthorized("\u212a\u212a\u212a\u212a@x"))
	})
	assert.True(t, c.IsAuthorized("\u212a\u212a@beta.gouv.fr"))
	assert.True(t, c.IsAuthorized("\u212aelvin@example.com"))
	assert.False(t, c.IsAuthorized("\u212a\u212a"))
}

func TestChecker_Empty(t *testing.T) {
	c := New(nil, nil)
	assert.False(t, c.IsAuthorized("agent@beta.gouv.fr"))
}
