/*
Package vmt parses Valve material (VMT) files into a flat key-value view.

The parser is deliberately tolerant: it extracts top-level "key" "value"
pairs, skips nested blocks it does not model (proxies, fallback and platform
overrides) and never fails with an error. Malformed documents produce a
Material whose Valid method reports false. Keys and values are case-folded
and the first occurrence of a key wins.

Reader example:

	m, err := vmt.DecodeFile("materials/brick/wall01.vmt", nil)
	if err != nil {
		// handle read error
	}
	if !m.Valid() {
		// m.Err() explains the parse failure
	}
	base, _ := m.BaseTexture()

Texture path rewrite example:

	out, changed := vmt.RewriteTexturePaths(data)
	if changed {
		_ = os.WriteFile(path, out, 0o644)
	}

Validator example:

	res := vmt.NewResolver(vmt.SearchPaths{"/game/hl2/materials"})
	issues := vmt.Validate(m, &vmt.ValidateOptions{Resolver: res})
	if len(issues) != 0 {
		// handle missing textures
	}
*/
package vmt
