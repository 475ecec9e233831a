package vmt

import "errors"

var (
	// ErrEmptyMaterial indicates the material has no content left after comment stripping.
	ErrEmptyMaterial = errors.New("empty material")

	// ErrUnbalancedBraces indicates the number of '{' and '}' differ.
	ErrUnbalancedBraces = errors.New("unbalanced braces")

	// ErrUnbalancedQuotes indicates a line with an odd number of '"' characters.
	ErrUnbalancedQuotes = errors.New("unbalanced quotes")

	// ErrMalformedPair indicates a line that does not hold a key and a value.
	ErrMalformedPair = errors.New("malformed key-value pair")
)
