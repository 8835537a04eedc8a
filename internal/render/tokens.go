package render

import "strings"

// Token estimation for emitted blocks. The 1 token ~= 4 characters heuristic
// is deliberately model-agnostic.

// CountTokens estimates the number of tokens in the given text. Non-empty
// text counts as at least one token.
func CountTokens(text string) int {
	if len(text) == 0 {
		return 0
	}
	tokens := len([]rune(text)) / 4
	if tokens == 0 {
		return 1
	}
	return tokens
}

// TruncateToTokenLimit naively truncates text to roughly fit a token limit.
func TruncateToTokenLimit(text string, limit int) string {
	if limit <= 0 {
		return ""
	}
	runes := []rune(text)
	charLimit := limit * 4
	if charLimit >= len(runes) {
		return text
	}
	return string(runes[:charLimit])
}

// BlockBreakdown estimates tokens per "[BLOCK]" section of rendered
// markdown, keyed by block label. Text before the first block is ignored.
func BlockBreakdown(markdown string) map[string]int {
	out := make(map[string]int)
	label := ""
	var buf strings.Builder
	flush := func() {
		if label != "" {
			out[label] = CountTokens(buf.String())
		}
		buf.Reset()
	}
	for _, line := range strings.Split(markdown, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "[") && strings.HasSuffix(trimmed, "]") {
			flush()
			label = strings.Trim(trimmed, "[]")
			continue
		}
		buf.WriteString(line)
		buf.WriteString("\n")
	}
	flush()
	return out
}
