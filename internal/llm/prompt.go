package llm

import (
	"strings"
	"unicode"
)

// Persona is the fixed assistant persona prepended to every request.
const Persona = "You are a fun, friendly, lightly comedic assistant. Keep responses concise, clear, and helpful."

// SystemPrompt builds the full system instruction for a request: the persona
// plus a directive describing which language to respond in.
func SystemPrompt(language string) string {
	return Persona + " " + languageDirective(language)
}

// languageDirective maps a language identifier to a human-readable
// instruction. An absent identifier is equivalent to "auto": the model is
// asked to detect the user's language from the closed candidate set and
// respond in kind rather than translating word for word.
func languageDirective(language string) string {
	if language == "" || language == "auto" {
		return "Detect the user's language (likely Indonesian, Malay, or English). Respond in the detected language. Preserve nuance and meaning, avoid literal word-for-word translation."
	}
	if language == "english" {
		return "Respond in English. If the user writes in another language, translate and respond in English."
	}
	name := languageName(language)
	return "Respond in " + name + ". If the user writes in another language, translate and respond in " + name + "."
}

// languageName turns a language identifier into a display name: hyphens
// become spaces and each word is capitalized. Script-variant identifiers
// are special-cased to name the script explicitly.
func languageName(language string) string {
	if language == "malay-arabic" {
		return "Malay (Jawi script)"
	}

	words := strings.Split(language, "-")
	for i, w := range words {
		if w == "" {
			continue
		}
		runes := []rune(w)
		runes[0] = unicode.ToUpper(runes[0])
		words[i] = string(runes)
	}
	return strings.Join(words, " ")
}
