package vmt

import (
	"sort"
	"strings"
)

// Material represents a parsed VMT file.
//
// Keys and values are stored lowercased. When Valid reports false the shader
// and parameters are incomplete and must not be consulted; Err explains why.
type Material struct {
	params map[string]string // Flat key-value pairs, first write wins
	shader string            // Shader name
	err    error             // Parse failure, nil when valid
	valid  bool              // Whether parsing completed
}

// Valid reports whether the material parsed successfully.
func (m *Material) Valid() bool { return m != nil && m.valid }

// Err returns the reason the material is invalid, or nil.
func (m *Material) Err() error {
	if m == nil {
		return ErrEmptyMaterial
	}

	return m.err
}

// Shader returns the lowercased shader name.
func (m *Material) Shader() string {
	if m == nil {
		return ""
	}

	return m.shader
}

// Param returns the value stored for key. Lookup is case-insensitive.
func (m *Material) Param(key string) (string, bool) {
	if m == nil || m.params == nil {
		return "", false
	}

	v, ok := m.params[strings.ToLower(key)]
	return v, ok
}

// Has reports whether key is present.
func (m *Material) Has(key string) bool {
	_, ok := m.Param(key)
	return ok
}

// Len returns the number of stored parameters.
func (m *Material) Len() int {
	if m == nil {
		return 0
	}

	return len(m.params)
}

// Keys returns the stored keys in sorted order.
func (m *Material) Keys() []string {
	if m == nil || len(m.params) == 0 {
		return nil
	}

	keys := make([]string, 0, len(m.params))
	for k := range m.params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	return keys
}

// BaseTexture returns $basetexture.
func (m *Material) BaseTexture() (string, bool) { return m.Param("$basetexture") }

// BaseTexture2 returns $basetexture2.
func (m *Material) BaseTexture2() (string, bool) { return m.Param("$basetexture2") }

// SurfaceProp returns the surface property name.
func (m *Material) SurfaceProp() (string, bool) {
	return m.firstOf("$surfaceprop", "surfaceprop")
}

// BumpMap returns the bump map reference, falling back to the normal map
// when no non-empty bump map is set.
func (m *Material) BumpMap() (string, bool) {
	if v, ok := m.firstOf("$bumpmap", "bumpmap"); ok && v != "" {
		return v, true
	}

	return m.firstOf("$normalmap", "normalmap")
}

// Proxies returns the material proxy names.
//
// Proxy blocks are not interpreted by the parser, so this always returns nil.
func (m *Material) Proxies() []string {
	return nil
}

// Textures returns every known texture slot present in the material, in
// TextureKeys order.
func (m *Material) Textures() []TextureRef {
	if !m.Valid() {
		return nil
	}

	var out []TextureRef
	for _, key := range TextureKeys {
		if v, ok := m.params[key]; ok {
			out = append(out, TextureRef{Key: key, Value: v})
		}
	}

	return out
}

// firstOf returns the value of the first present key.
func (m *Material) firstOf(keys ...string) (string, bool) {
	for _, k := range keys {
		if v, ok := m.Param(k); ok {
			return v, true
		}
	}

	return "", false
}
