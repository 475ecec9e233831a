package vmt

import (
	"github.com/bmatcuk/doublestar/v4"
)

// IssueLevel represents severity of validation issue.
type IssueLevel string

const (
	// IssueError indicates a validation error.
	IssueError IssueLevel = "error"
	// IssueWarning indicates a validation warning.
	IssueWarning IssueLevel = "warning"
)

// Issue codes.
const (
	// CodeParseFailed marks a material that could not be parsed.
	CodeParseFailed = "parse_failed"
	// CodeMissingTexture marks a texture reference absent from every search path.
	CodeMissingTexture = "missing_texture"
)

// Issue represents a validation issue.
type Issue struct {
	Level   IssueLevel `json:"level" yaml:"level"`                   // Severity level
	Code    string     `json:"code,omitempty" yaml:"code,omitempty"` // Machine-readable code
	Message string     `json:"message" yaml:"message"`               // Issue message
	Path    string     `json:"path,omitempty" yaml:"path,omitempty"` // Path to the affected resource
	Key     string     `json:"key,omitempty" yaml:"key,omitempty"`   // Material parameter involved
}

// Validate validates a material and returns issues.
func Validate(m *Material, opt *ValidateOptions) []Issue {
	vopt := opt.normalize()

	if !m.Valid() {
		msg := "unable to parse material"
		if err := m.Err(); err != nil {
			msg = err.Error()
		}
		return []Issue{{Level: IssueError, Code: CodeParseFailed, Message: msg}}
	}

	if vopt.DisableFileCheck {
		return nil
	}

	var out []Issue
	for _, tex := range m.Textures() {
		if tex.IsPlaceholder() {
			continue
		}

		ref := tex.Ref()
		if shouldExcludePath(ref, vopt.ExcludePaths) {
			continue
		}

		if _, ok := vopt.Resolver.Resolve(ref); !ok {
			out = append(out, Issue{
				Level:   IssueWarning,
				Code:    CodeMissingTexture,
				Message: "texture not found in search paths",
				Path:    tex.Value,
				Key:     tex.Key,
			})
		}
	}

	return out
}

// shouldExcludePath checks if the reference matches any exclude pattern.
func shouldExcludePath(ref string, patterns []string) bool {
	for _, p := range patterns {
		if ok, err := doublestar.Match(p, ref); err == nil && ok {
			return true
		}
	}

	return false
}
