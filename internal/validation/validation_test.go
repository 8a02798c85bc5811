package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/duccv/webconf-gate/internal/constant"
)

func TestValidateEmail(t *testing.T) {
	valid := []string{
		"john@example.com",
		"first.last@beta.gouv.fr",
		"a_b-c@sub-domain.example.info",
	}
	for _, e := range valid {
		assert.NoError(t, ValidateEmail(e), e)
	}

	invalid := []string{
		"",
		"bad-email",
		"john@example",
		"john@example.toolong",
		"john doe@example.com",
		"john+tag@example.com",
		"john@exa mple.com",
		"@example.com",
	}
	for _, e := range invalid {
		err := ValidateEmail(e)
		assert.ErrorIs(t, err, constant.ErrInvalidEmailSyntax, e)
	}
}
