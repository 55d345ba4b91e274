package model

import "strings"

// DefaultLanguage applies to profiles and submissions that name none.
const DefaultLanguage = "python"

const MaxLanguageLength = 50

// NormalizeLanguage trims the name and falls back to DefaultLanguage when blank.
func NormalizeLanguage(lang string) string {
	lang = strings.TrimSpace(lang)
	if lang == "" {
		return DefaultLanguage
	}
	return lang
}
