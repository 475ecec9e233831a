// Package prompt asks the user for missing run parameters.
package prompt

import (
	"errors"
	"strings"

	"github.com/charmbracelet/huh"
)

// ErrNoAnswer is returned by Static when no answer was configured.
var ErrNoAnswer = errors.New("no answer available")

// Prompter asks for a path and yes/no answers.
type Prompter interface {
	Path(title, current string) (string, error)
	Confirm(title string, def bool) (bool, error)
}

// Form prompts on the terminal with huh forms.
type Form struct {
	// Accessible switches huh to plain line-based prompts.
	Accessible bool
}

// Path asks for a filesystem path. Surrounding quotes are removed so paths
// pasted from a file manager work as typed.
func (f Form) Path(title, current string) (string, error) {
	value := current
	in := huh.NewInput().
		Title(title).
		Value(&value)

	if err := huh.NewForm(huh.NewGroup(in)).WithAccessible(f.Accessible).Run(); err != nil {
		return "", err
	}

	return CleanPath(value), nil
}

// Confirm asks a yes/no question.
func (f Form) Confirm(title string, def bool) (bool, error) {
	value := def
	c := huh.NewConfirm().
		Title(title).
		Affirmative("Yes").
		Negative("No").
		Value(&value)

	if err := huh.NewForm(huh.NewGroup(c)).WithAccessible(f.Accessible).Run(); err != nil {
		return false, err
	}

	return value, nil
}

// Static answers from fixed values; used for non-interactive runs and tests.
type Static struct {
	Paths    []string // Answers for successive Path calls
	Confirms []bool   // Answers for successive Confirm calls
}

// Path returns the next configured path.
func (s *Static) Path(string, string) (string, error) {
	if len(s.Paths) == 0 {
		return "", ErrNoAnswer
	}
	p := s.Paths[0]
	s.Paths = s.Paths[1:]

	return CleanPath(p), nil
}

// Confirm returns the next configured answer, or def when none is left.
func (s *Static) Confirm(_ string, def bool) (bool, error) {
	if len(s.Confirms) == 0 {
		return def, nil
	}
	v := s.Confirms[0]
	s.Confirms = s.Confirms[1:]

	return v, nil
}

// CleanPath trims whitespace and removes '"' characters.
func CleanPath(p string) string {
	return strings.TrimSpace(strings.ReplaceAll(p, `"`, ""))
}
