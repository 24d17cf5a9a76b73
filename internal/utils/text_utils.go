package utils

import (
	"unicode/utf8"

	"go.uber.org/zap"
)

// Telegram length limits, counted in characters rather than bytes.
const (
	MessageLimit = 4096
	CaptionLimit = 1024
)

// TextProcessor prepares report text for delivery surfaces with hard
// length limits.
type TextProcessor struct {
	logger *zap.Logger
}

// NewTextProcessor creates a new TextProcessor
func NewTextProcessor(logger *zap.Logger) *TextProcessor {
	return &TextProcessor{
		logger: logger,
	}
}

// TruncateText shortens text to at most maxChars characters, appending
// a truncation marker whenever it cuts anything.
func (tp *TextProcessor) TruncateText(text string, maxChars int) string {
	if maxChars <= 0 || utf8.RuneCountInString(text) <= maxChars {
		return text
	}

	marker := "\n[truncated]"
	keep := maxChars - utf8.RuneCountInString(marker)
	if keep < 0 {
		keep = 0
	}
	runes := []rune(text)
	truncated := string(runes[:keep])

	tp.logger.Debug("Text truncated",
		zap.Int("original_chars", len(runes)),
		zap.Int("truncated_chars", keep),
		zap.Int("max_chars", maxChars))

	return truncated + marker
}

// SanitizeUTF8 ensures the string contains only valid UTF-8 characters
func (tp *TextProcessor) SanitizeUTF8(text string) string {
	if utf8.ValidString(text) {
		return text
	}

	// Drop invalid UTF-8 sequences
	result := make([]rune, 0, len(text))
	for i, r := range text {
		if r == utf8.RuneError {
			_, size := utf8.DecodeRuneInString(text[i:])
			if size == 1 {
				continue
			}
		}
		result = append(result, r)
	}

	tp.logger.Debug("Text sanitized",
		zap.Int("original_size", len(text)),
		zap.Int("sanitized_size", len(string(result))))

	return string(result)
}

// ProcessText truncates and sanitizes text in one operation
func (tp *TextProcessor) ProcessText(text string, maxChars int) string {
	truncated := tp.TruncateText(text, maxChars)
	return tp.SanitizeUTF8(truncated)
}
