package moderation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetectLanguage(t *testing.T) {
	assert := assert.New(t)

	assert.Equal("eng", DetectLanguage("The quick brown fox jumps over the lazy dog, and keeps on running through the field."))
	assert.Equal("spa", DetectLanguage("El rápido zorro marrón salta sobre el perro perezoso y sigue corriendo por el campo."))

	// detection failure degrades to the unknown sentinel, never an error
	assert.Equal(LangUnknown, DetectLanguage(""))
	assert.Equal(LangUnknown, DetectLanguage("   "))
}

func TestDetectLanguageShortMessages(t *testing.T) {
	assert := assert.New(t)

	// typical chat-length inputs must still reach the primary-language
	// models; a confidence gate that rejects these starves the canary path
	assert.Equal("eng", DetectLanguage("You are stupid"))
	assert.Equal("eng", DetectLanguage("this is totally fine, thanks for sharing"))
}
