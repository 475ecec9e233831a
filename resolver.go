package vmt

import (
	"bufio"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// ArchiveExt is the extension of packed content archives.
const ArchiveExt = ".vpk"

// SearchPaths is an ordered list of content roots or archives.
type SearchPaths []string

// Statter reports file metadata. billy.Filesystem satisfies it.
type Statter interface {
	Stat(name string) (os.FileInfo, error)
}

// ArchiveResolver looks up a texture reference inside a packed archive.
type ArchiveResolver interface {
	Contains(archive, ref string) bool
}

// OSFS stats files on the host filesystem.
type OSFS struct{}

// Stat implements Statter.
func (OSFS) Stat(name string) (os.FileInfo, error) { return os.Stat(name) }

// UnsupportedArchive is the archive resolver used when no archive reader is
// available. It never finds anything.
type UnsupportedArchive struct{}

// Contains implements ArchiveResolver.
func (UnsupportedArchive) Contains(string, string) bool { return false }

// Resolver resolves texture references against search paths.
type Resolver struct {
	FS       Statter         // Filesystem for directory roots (default OSFS)
	Archives ArchiveResolver // Archive lookups (default UnsupportedArchive)
	Paths    SearchPaths     // Search paths, checked in order
}

// NewResolver creates a resolver over the host filesystem.
func NewResolver(paths SearchPaths) *Resolver {
	return &Resolver{Paths: paths, FS: OSFS{}, Archives: UnsupportedArchive{}}
}

// Resolve returns the location of the first search path holding ref.
// Archive hits are reported as the archive path.
func (r *Resolver) Resolve(ref string) (string, bool) {
	ref = NormalizeTextureRef(ref)
	if r == nil || ref == "" {
		return "", false
	}

	fsys := r.FS
	if fsys == nil {
		fsys = OSFS{}
	}
	archives := r.Archives
	if archives == nil {
		archives = UnsupportedArchive{}
	}

	for _, sp := range r.Paths {
		if IsArchivePath(sp) {
			if archives.Contains(sp, ref) {
				return sp, true
			}
			continue
		}

		p := TextureFilePath(sp, ref)
		info, err := fsys.Stat(p)
		if err == nil && !info.IsDir() {
			return p, true
		}
	}

	return "", false
}

// TextureFilePath joins a search root and a reference, adding TextureExt
// unless the reference already carries it.
func TextureFilePath(root, ref string) string {
	ref = NormalizeTextureRef(ref)
	if !strings.HasSuffix(ref, TextureExt) {
		ref += TextureExt
	}

	return filepath.Join(root, filepath.FromSlash(ref))
}

// IsArchivePath reports whether a search path names a packed archive.
func IsArchivePath(p string) bool {
	return strings.HasSuffix(strings.ToLower(strings.TrimSpace(p)), ArchiveExt)
}

// ReadSearchPaths reads one search path per line. Blank lines and lines
// starting with "//" are ignored.
func ReadSearchPaths(r io.Reader) (SearchPaths, error) {
	var out SearchPaths
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "//") {
			continue
		}
		out = append(out, line)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}

	return out, nil
}
