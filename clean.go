package vmt

import (
	"bytes"
	"strings"
	"unicode/utf8"
)

// utf8BOM is skipped at the start of the input.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// cleanLine is a line that survived comment stripping.
type cleanLine struct {
	Text string // Trimmed line text
	Line int    // 1-based line number in the source
}

// cleanText drops blank lines and comments and trims what remains.
func cleanText(data []byte, opt ParseOptions) []cleanLine {
	data = bytes.TrimPrefix(data, utf8BOM)

	var out []cleanLine
	for i, raw := range strings.Split(string(data), "\n") {
		raw = strings.TrimSuffix(raw, "\r")

		compact := stripBlanks(raw)
		if compact == "" || strings.HasPrefix(compact, "//") {
			continue
		}

		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		if idx := strings.LastIndex(line, "//"); idx >= 0 {
			switch {
			case idx == 0:
				continue
			case opt.DisableLegacyCommentTrim:
				line = strings.TrimSpace(line[:idx])
				if line == "" {
					continue
				}
			default:
				// Legacy cut also eats the character preceding the marker.
				_, size := utf8.DecodeLastRuneInString(line[:idx])
				line = line[:idx-size]
			}
		}

		out = append(out, cleanLine{Text: line, Line: i + 1})
	}

	return out
}

// stripBlanks removes spaces and tabs.
func stripBlanks(s string) string {
	if !strings.ContainsAny(s, " \t") {
		return s
	}

	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == ' ' || s[i] == '\t' {
			continue
		}
		b.WriteByte(s[i])
	}

	return b.String()
}

// countBraces counts '{' and '}' over all lines.
func countBraces(lines []cleanLine) (open, close int) {
	for _, l := range lines {
		open += strings.Count(l.Text, "{")
		close += strings.Count(l.Text, "}")
	}

	return open, close
}

// unquote strips '"' characters, reporting false for an odd count.
func unquote(s string) (string, bool) {
	n := strings.Count(s, `"`)
	if n == 0 {
		return s, true
	}
	if n%2 != 0 {
		return "", false
	}

	return strings.ReplaceAll(s, `"`, ""), true
}
