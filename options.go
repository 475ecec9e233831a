package vmt

import "strings"

// ParseOptions controls parsing behavior.
type ParseOptions struct {
	// DisableLegacyCommentTrim cuts trailing comments exactly at "//".
	// By default the character right before "//" is dropped as well, which
	// matches how existing content pipelines read these files: a pair written
	// as `"$key" "value"// note` loses its closing quote and invalidates the
	// material. With this set, lines emptied by the cut are dropped.
	DisableLegacyCommentTrim bool
}

// ValidateOptions controls validation rules.
type ValidateOptions struct {
	// Resolver locates texture references. A nil resolver or one without
	// search paths disables file checks.
	Resolver *Resolver
	// ExcludePaths skips file existence checks for matching texture references.
	// Patterns use doublestar syntax against the normalized reference
	// (e.g. "models/props/**", "dev/*").
	ExcludePaths []string
	// DisableFileCheck disables search path lookups for texture references.
	DisableFileCheck bool
}

// normalize normalizes the ParseOptions.
func (o *ParseOptions) normalize() ParseOptions {
	if o == nil {
		return ParseOptions{}
	}

	return *o
}

// normalize normalizes the ValidateOptions.
func (o *ValidateOptions) normalize() ValidateOptions {
	if o == nil {
		return ValidateOptions{DisableFileCheck: true}
	}

	out := *o
	if out.Resolver == nil || len(out.Resolver.Paths) == 0 {
		out.DisableFileCheck = true
	}

	excludes := make([]string, 0, len(out.ExcludePaths))
	for _, p := range out.ExcludePaths {
		p = NormalizeTextureRef(p)
		if strings.TrimSpace(p) != "" {
			excludes = append(excludes, p)
		}
	}
	out.ExcludePaths = excludes

	return out
}
