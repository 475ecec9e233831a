package vmt

import "strings"

// TextureExt is the extension of compiled texture files.
const TextureExt = ".vtf"

// TextureKeys lists the parameters that reference texture assets.
var TextureKeys = []string{
	"$basetexture",
	"$basetexture2",
	"$envmap",
	"$detail",
	"$bumpmap",
	"$bumpmap2",
	"$normalmap",
	"$normalmap2",
	"$reflecttexture",
	"$refracttexture",
	"$iris",
	"$blendmodulatetexture",
	"$phongexponenttexture",
	"$ambientoccltexture",
	"%tooltexture",
	"$corneatexture",
}

// placeholderMarkers mark values that name engine-provided textures or
// unresolved variables rather than files.
var placeholderMarkers = []string{"env_cubemap", "_rt_", "$"}

// TextureRef is a texture slot found in a material.
type TextureRef struct {
	Key   string `json:"key" yaml:"key"`     // Texture slot key (e.g. $basetexture)
	Value string `json:"value" yaml:"value"` // Referenced path as written
}

// Ref returns the normalized reference path.
func (t TextureRef) Ref() string { return NormalizeTextureRef(t.Value) }

// IsPlaceholder reports whether the reference should not be looked up.
func (t TextureRef) IsPlaceholder() bool { return IsPlaceholder(t.Value) }

// IsPlaceholder reports whether value is empty or names a texture that is
// not a file (cubemap slot, render target, shader variable).
func IsPlaceholder(value string) bool {
	if strings.TrimSpace(value) == "" {
		return true
	}

	lv := strings.ToLower(value)
	for _, m := range placeholderMarkers {
		if strings.Contains(lv, m) {
			return true
		}
	}

	return false
}

// IsTextureKey reports whether key is one of TextureKeys.
func IsTextureKey(key string) bool {
	key = strings.ToLower(strings.TrimSpace(key))
	for _, k := range TextureKeys {
		if k == key {
			return true
		}
	}

	return false
}

// IsTexturePath reports whether a raw material line looks like it carries a
// texture path: it contains a path separator or mentions a texture key.
func IsTexturePath(line string) bool {
	if line == "" {
		return false
	}
	if strings.ContainsAny(line, `\/`) {
		return true
	}

	ll := strings.ToLower(line)
	for _, k := range TextureKeys {
		if strings.Contains(ll, k) {
			return true
		}
	}

	return false
}

// NormalizeTextureLine converts backslashes to forward slashes and lowercases the line.
func NormalizeTextureLine(line string) string {
	return strings.ToLower(strings.ReplaceAll(line, `\`, "/"))
}

// NormalizeTextureRef normalizes a texture reference for lookups and matching.
func NormalizeTextureRef(ref string) string {
	return strings.TrimSpace(NormalizeTextureLine(ref))
}
