package vmt

import (
	"fmt"
	"io"
	"os"
	"strings"
)

// Parse parses a VMT from bytes.
//
// Parse never fails: malformed input yields a Material whose Valid method
// reports false and whose Err method explains why.
func Parse(data []byte, opt *ParseOptions) *Material {
	p := newParser(opt.normalize())
	return p.parseMaterial(data)
}

// Decode parses a VMT from reader. The returned error reports read failures
// only; malformed content is reported through Material.Err.
func Decode(r io.Reader, opt *ParseOptions) (*Material, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	return Parse(b, opt), nil
}

// DecodeFile parses a VMT from a file.
func DecodeFile(path string, opt *ParseOptions) (*Material, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	return Parse(b, opt), nil
}

// parser represents a parser for one VMT document.
type parser struct {
	params map[string]string // Collected pairs
	opt    ParseOptions      // Options for the parser
}

// newParser creates a new parser.
func newParser(opt ParseOptions) *parser {
	return &parser{opt: opt, params: make(map[string]string)}
}

// parseMaterial runs all stages and builds the material.
func (p *parser) parseMaterial(data []byte) *Material {
	lines := cleanText(data, p.opt)
	if len(lines) == 0 {
		return &Material{err: ErrEmptyMaterial}
	}

	if open, closing := countBraces(lines); open != closing {
		return &Material{err: fmt.Errorf("%w: %d '{' vs %d '}'", ErrUnbalancedBraces, open, closing)}
	}

	// Every line must have paired quotes before any pair is read.
	for i := range lines {
		text, ok := unquote(lines[i].Text)
		if !ok {
			return &Material{err: p.errorf(ErrUnbalancedQuotes, lines[i], "odd number of '\"'")}
		}
		lines[i].Text = text
	}

	shader := strings.ToLower(strings.TrimSpace(lines[0].Text))
	body := lines[1:]

	for i, l := range body {
		next := ""
		if i+1 < len(body) {
			next = body[i+1].Text
		}
		if isSkippedLine(l.Text, next) {
			continue
		}

		key, val, ok := splitPair(strings.ReplaceAll(l.Text, "\t", " "))
		if !ok {
			return &Material{err: p.errorf(ErrMalformedPair, l, "expected key and value")}
		}

		key = strings.ToLower(key)
		if _, exists := p.params[key]; exists {
			continue
		}
		p.params[key] = strings.ToLower(val)
	}

	return &Material{valid: true, shader: shader, params: p.params}
}

// isSkippedLine reports lines that belong to block structure rather than pairs.
func isSkippedLine(line, next string) bool {
	compact := strings.ToLower(stripBlanks(line))
	if compact == "proxies" {
		return true
	}

	if compact != "" {
		switch compact[0] {
		case '{', '}', '[', ']':
			return true
		}
	}

	// A line followed by an opening brace is a block header.
	return strings.Contains(stripBlanks(next), "{")
}

// splitPair extracts the first token as key and the rest, trimmed, as value.
func splitPair(line string) (key, val string, ok bool) {
	keyStart := indexFrom(line, 0, func(c byte) bool { return c != ' ' })
	if keyStart < 0 {
		return "", "", false
	}

	keyEnd := indexFrom(line, keyStart+1, func(c byte) bool { return c == ' ' })
	if keyEnd < 0 {
		return "", "", false
	}

	valStart := indexFrom(line, keyEnd+1, func(c byte) bool { return c != ' ' })
	if valStart < 0 {
		return "", "", false
	}

	valEnd := len(strings.TrimRight(line, " "))
	if valEnd <= valStart {
		return "", "", false
	}

	return line[keyStart:keyEnd], line[valStart:valEnd], true
}

// indexFrom returns the index of the first byte at or after start matching fn.
func indexFrom(s string, start int, fn func(byte) bool) int {
	for i := start; i < len(s); i++ {
		if fn(s[i]) {
			return i
		}
	}

	return -1
}

// errorf formats an error.
func (p *parser) errorf(sentinel error, l cleanLine, format string, args ...any) error {
	return fmt.Errorf("%w at line %d: %s", sentinel, l.Line, fmt.Sprintf(format, args...))
}
