package llm

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSystemPrompt(t *testing.T) {
	t.Run("Always starts with the persona", func(t *testing.T) {
		for _, language := range []string{"", "auto", "english", "indonesian", "malay-arabic"} {
			assert.True(t, strings.HasPrefix(SystemPrompt(language), Persona), "language %q", language)
		}
	})

	t.Run("Empty and auto ask for language detection", func(t *testing.T) {
		assert.Equal(t, SystemPrompt(""), SystemPrompt("auto"))
		assert.Contains(t, SystemPrompt("auto"), "Detect the user's language")
		assert.Contains(t, SystemPrompt("auto"), "Indonesian, Malay, or English")
	})

	t.Run("English asks for translation into English", func(t *testing.T) {
		prompt := SystemPrompt("english")
		assert.Contains(t, prompt, "Respond in English.")
		assert.Contains(t, prompt, "translate and respond in English")
	})

	t.Run("Named language is title-cased", func(t *testing.T) {
		assert.Contains(t, SystemPrompt("indonesian"), "Respond in Indonesian.")
	})

	t.Run("Jawi variant names the script", func(t *testing.T) {
		assert.Contains(t, SystemPrompt("malay-arabic"), "Respond in Malay (Jawi script).")
	})

	t.Run("Hyphenated identifiers become spaced words", func(t *testing.T) {
		assert.Contains(t, SystemPrompt("simplified-chinese"), "Respond in Simplified Chinese.")
	})
}
