package validators

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsEmailValid(t *testing.T) {
	valid := []string{"jane@example.com", "a.b+c@shop.co.ke"}
	for _, e := range valid {
		assert.True(t, IsEmailValid(e), e)
	}

	invalid := []string{"", "jane", "jane@", "@example.com", "jane@localhost", "Jane <jane@example.com>", "jane@example."}
	for _, e := range invalid {
		assert.False(t, IsEmailValid(e), e)
	}
}

func TestIsEmailDomainValidRejectsMissingDomain(t *testing.T) {
	assert.False(t, IsEmailDomainValid("jane"))
	assert.False(t, IsEmailDomainValid("jane@"))
}
