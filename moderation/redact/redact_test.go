package redact

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMaskEmail(t *testing.T) {
	assert := assert.New(t)

	assert.Equal("contact me at [REDACTED] please", MaskEmail("contact me at bob@example.com please"))
	assert.Equal("[REDACTED] and [REDACTED]", MaskEmail("a.b+c@mail.example.org and other@test.io"))
	assert.Equal("no addresses here", MaskEmail("no addresses here"))
	assert.Equal("", MaskEmail(""))
}

func TestHashUsername(t *testing.T) {
	assert := assert.New(t)

	h1 := HashUsername("alice")
	h2 := HashUsername("alice")
	h3 := HashUsername("bob")

	assert.Equal(h1, h2)
	assert.NotEqual(h1, h3)
	assert.Len(h1, 64)
	assert.NotContains(strings.ToLower(h1), "alice")
}
