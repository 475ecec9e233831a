package cleaner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/woozymasta/vmt"
)

const (
	wallVMT = "\"LightmappedGeneric\"\n{\n\t\"$basetexture\" \"Brick\\Wall01A\"\n\t\"$bumpmap\" \"brick/missing_normal\"\n\t\"$envmap\" \"env_cubemap\"\n}\n"
	okVMT   = "\"UnlitGeneric\"\n{\n\t\"$basetexture\" \"brick/wall01a\"\n}\n"
	badVMT  = "\"UnlitGeneric\"\n{\n\t\"$basetexture\" \"Dev\\Dev_Blank\"\n"
)

func writeFile(t *testing.T, fs billy.Filesystem, path, content string) {
	t.Helper()
	require.NoError(t, fs.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, util.WriteFile(fs, path, []byte(content), 0o644))
}

func readFile(t *testing.T, fs billy.Filesystem, path string) string {
	t.Helper()
	b, err := util.ReadFile(fs, path)
	require.NoError(t, err)
	return string(b)
}

func exists(fs billy.Filesystem, path string) bool {
	_, err := fs.Stat(path)
	return err == nil
}

// gameResolver returns a resolver over an in-memory game install holding
// brick/wall01a.vtf.
func gameResolver(t *testing.T) *vmt.Resolver {
	t.Helper()
	game := memfs.New()
	writeFile(t, game, "/hl2/materials/brick/wall01a.vtf", "VTF")

	return &vmt.Resolver{
		FS:       game,
		Archives: vmt.UnsupportedArchive{},
		Paths:    vmt.SearchPaths{"pak01_dir.vpk", "/hl2/materials"},
	}
}

func TestRunRewritesAndReports(t *testing.T) {
	fs := memfs.New()
	writeFile(t, fs, "materials/brick/wall01.vmt", wallVMT)
	writeFile(t, fs, "materials/broken.vmt", badVMT)
	writeFile(t, fs, "materials/ok.vmt", okVMT)
	writeFile(t, fs, "materials/readme.txt", "$basetexture Not\\A\\Material")

	c := New(fs, nil, Options{Resolver: gameResolver(t)})
	report, err := c.Run(context.Background())
	require.NoError(t, err)

	require.Len(t, report.Entries, 2)
	assert.Equal(t, EntryMissingTexture, report.Entries[0].Kind)
	assert.Equal(t, "$bumpmap", report.Entries[0].Key)
	assert.Equal(t, EntryParseFailed, report.Entries[1].Kind)

	var log bytes.Buffer
	_, err = report.WriteTo(&log)
	require.NoError(t, err)
	want := "couldn't find texture brick/missing_normal in VMT " + filepath.Join("materials", "brick", "wall01.vmt") + "\n" +
		"unable to parse VMT " + filepath.Join("materials", "broken.vmt") + "\n"
	assert.Equal(t, want, log.String())

	assert.Equal(t, Summary{Files: 3, Updated: 1, Invalid: 1, Missing: 1}, report.Summary)

	assert.Contains(t, readFile(t, fs, "materials/brick/wall01.vmt"), "\"$basetexture\" \"brick/wall01a\"")
	assert.Equal(t, badVMT, readFile(t, fs, "materials/broken.vmt"), "unparsable material must stay untouched")
	assert.Equal(t, okVMT, readFile(t, fs, "materials/ok.vmt"))
	assert.Equal(t, "$basetexture Not\\A\\Material", readFile(t, fs, "materials/readme.txt"))
}

func TestRunWithoutResolver(t *testing.T) {
	fs := memfs.New()
	writeFile(t, fs, "wall01.vmt", wallVMT)

	report, err := New(fs, nil, Options{}).Run(context.Background())
	require.NoError(t, err)
	assert.Empty(t, report.Entries)
	assert.Equal(t, 1, report.Summary.Updated)
}

func TestRunDryRun(t *testing.T) {
	fs := memfs.New()
	writeFile(t, fs, "Materials/Wall01.vmt", wallVMT)

	c := New(fs, nil, Options{Resolver: gameResolver(t), DryRun: true, RenameNames: true})
	report, err := c.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, report.Summary.Renamed)
	assert.Equal(t, 0, report.Summary.Updated)
	assert.Equal(t, 1, report.Summary.Missing)
	assert.Equal(t, wallVMT, readFile(t, fs, "Materials/Wall01.vmt"))
	assert.False(t, exists(fs, "materials"))
}

func TestRunParallelKeepsOrder(t *testing.T) {
	fs := memfs.New()
	for i := 0; i < 24; i++ {
		body := fmt.Sprintf("\"UnlitGeneric\"\n{\n\t\"$basetexture\" \"missing/tex%02d\"\n}\n", i)
		if i%5 == 0 {
			body = badVMT
		}
		writeFile(t, fs, fmt.Sprintf("materials/m%02d.vmt", i), body)
	}

	seq, err := New(fs, nil, Options{Resolver: gameResolver(t), DryRun: true}).Run(context.Background())
	require.NoError(t, err)
	par, err := New(fs, nil, Options{Resolver: gameResolver(t), DryRun: true, Jobs: 6}).Run(context.Background())
	require.NoError(t, err)

	require.Len(t, seq.Entries, 24)
	assert.Equal(t, seq.Entries, par.Entries)
	assert.Equal(t, seq.Summary, par.Summary)
	assert.Equal(t, EntryParseFailed, par.Entries[0].Kind)
	assert.Equal(t, "missing/tex01", par.Entries[1].Ref)
}

func TestRunExclude(t *testing.T) {
	fs := memfs.New()
	writeFile(t, fs, "materials/skip/bad.vmt", badVMT)
	writeFile(t, fs, "materials/keep/bad.vmt", badVMT)
	writeFile(t, fs, "materials/keep/dev.vmt", "\"UnlitGeneric\"\n{\n\t\"$basetexture\" \"dev/blank\"\n}\n")

	c := New(fs, nil, Options{
		Resolver:       gameResolver(t),
		Exclude:        []string{"**/skip"},
		TextureExclude: []string{"dev/**"},
	})
	report, err := c.Run(context.Background())
	require.NoError(t, err)

	require.Len(t, report.Entries, 1)
	assert.Equal(t, filepath.Join("materials", "keep", "bad.vmt"), report.Entries[0].Path)
	assert.Equal(t, 2, report.Summary.Files)
}

func TestRunDisplayRoot(t *testing.T) {
	fs := memfs.New()
	writeFile(t, fs, "broken.vmt", badVMT)

	report, err := New(fs, nil, Options{DisplayRoot: "/srv/content"}).Run(context.Background())
	require.NoError(t, err)
	require.Len(t, report.Entries, 1)
	assert.Equal(t, "unable to parse VMT "+filepath.Join("/srv/content", "broken.vmt"), report.Entries[0].String())
}

// failingFS fails to open one path.
type failingFS struct {
	billy.Filesystem
	fail string
}

var errBrokenDisk = errors.New("broken disk")

func (f failingFS) Open(name string) (billy.File, error) {
	if name == f.fail {
		return nil, errBrokenDisk
	}
	return f.Filesystem.Open(name)
}

func TestRunIOFailureContinues(t *testing.T) {
	base := memfs.New()
	writeFile(t, base, "a.vmt", okVMT)
	writeFile(t, base, "b.vmt", wallVMT)

	c := New(failingFS{Filesystem: base, fail: "a.vmt"}, nil, Options{Resolver: gameResolver(t)})
	report, err := c.Run(context.Background())
	require.NoError(t, err)

	require.Len(t, report.Entries, 2)
	assert.Equal(t, EntryIOFailed, report.Entries[0].Kind)
	assert.ErrorIs(t, report.Entries[0].Err, errBrokenDisk)
	assert.Equal(t, EntryMissingTexture, report.Entries[1].Kind)
	assert.Equal(t, 1, report.Summary.Failed)
	assert.Equal(t, 1, report.Summary.Updated)
}

func TestRunCanceled(t *testing.T) {
	fs := memfs.New()
	writeFile(t, fs, "a.vmt", okVMT)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(fs, nil, Options{}).Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

// diskFS returns an osfs rooted at a fresh temporary directory. Rename tests
// need a filesystem that moves whole subtrees.
func diskFS(t *testing.T) billy.Filesystem {
	t.Helper()
	return osfs.New(t.TempDir())
}

func TestRenameTree(t *testing.T) {
	fs := diskFS(t)
	writeFile(t, fs, "Materials/Brick/Wall01.VMT", okVMT)
	writeFile(t, fs, "Materials/Brick/Sub/X.vmt", okVMT)
	writeFile(t, fs, "Materials/readme.TXT", "hi")
	writeFile(t, fs, "lower/already.vmt", okVMT)

	res, err := New(fs, nil, Options{}).RenameTree(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 6, res.Renamed)
	assert.Zero(t, res.Conflicts)
	assert.Empty(t, res.Failed)

	for _, p := range []string{
		"materials/brick/wall01.vmt",
		"materials/brick/sub/x.vmt",
		"materials/readme.txt",
		"lower/already.vmt",
	} {
		assert.True(t, exists(fs, p), p)
	}
	assert.False(t, exists(fs, "materials/brick_temp"))
	assert.Equal(t, okVMT, readFile(t, fs, "materials/brick/wall01.vmt"))
	assert.Equal(t, okVMT, readFile(t, fs, "materials/brick/sub/x.vmt"))
}

func TestRenameTreeConflict(t *testing.T) {
	fs := diskFS(t)
	writeFile(t, fs, "Data/a.txt", "a")
	if exists(fs, "data/a.txt") {
		t.Skip("case-insensitive filesystem")
	}
	writeFile(t, fs, "data/b.txt", "b")

	res, err := New(fs, nil, Options{}).RenameTree(context.Background())
	require.NoError(t, err)
	assert.Zero(t, res.Renamed)
	assert.Equal(t, 1, res.Conflicts)
	assert.True(t, exists(fs, "Data/a.txt"))
	assert.True(t, exists(fs, "data/b.txt"))
}

var errRenameRefused = errors.New("rename refused")

// renameFailFS refuses to move entries out of their temporary name onto a
// lowercase target. With restore set, renaming back to the original name
// still works.
type renameFailFS struct {
	billy.Filesystem
	restore bool
}

func (f renameFailFS) Rename(from, to string) error {
	if strings.HasSuffix(from, tempSuffix) {
		base := filepath.Base(to)
		if !f.restore || strings.ToLower(base) == base {
			return errRenameRefused
		}
	}
	return f.Filesystem.Rename(from, to)
}

func TestRunRenameFailureRestoresName(t *testing.T) {
	base := diskFS(t)
	writeFile(t, base, "Mat/A.vmt", okVMT)

	c := New(renameFailFS{Filesystem: base, restore: true}, nil, Options{RenameNames: true})
	report, err := c.Run(context.Background())
	require.NoError(t, err)

	assert.True(t, exists(base, "Mat/A.vmt"))
	assert.False(t, exists(base, "mat_temp"))
	assert.False(t, exists(base, "Mat/a.vmt_temp"))

	require.Len(t, report.Entries, 2)
	assert.Equal(t, EntryRenameFailed, report.Entries[0].Kind)
	assert.Equal(t, "Mat", report.Entries[0].Path)
	assert.ErrorIs(t, report.Entries[0].Err, errRenameRefused)
	assert.Equal(t, filepath.Join("Mat", "A.vmt"), report.Entries[1].Path)
	assert.Equal(t, Summary{Files: 1, RenameFailed: 2}, report.Summary)
}

func TestRunRenameFailureWithoutRestoreIsLogged(t *testing.T) {
	base := diskFS(t)
	writeFile(t, base, "A.vmt", okVMT)

	c := New(renameFailFS{Filesystem: base}, nil, Options{RenameNames: true})
	report, err := c.Run(context.Background())
	require.NoError(t, err)

	assert.True(t, exists(base, "a.vmt_temp"))
	require.Len(t, report.Entries, 1)
	e := report.Entries[0]
	assert.Equal(t, EntryRenameFailed, e.Kind)
	assert.ErrorIs(t, e.Err, errRenameRefused)
	assert.Contains(t, e.String(), "failed to rename A.vmt")
	assert.Contains(t, e.String(), "restore A.vmt")
	assert.Equal(t, 1, report.Summary.RenameFailed)
}

func TestMaterialsCaseInsensitiveExt(t *testing.T) {
	fs := memfs.New()
	writeFile(t, fs, "b/Two.VMT", okVMT)
	writeFile(t, fs, "a/one.vmt", okVMT)
	writeFile(t, fs, "a/one.vtf", "VTF")

	files, err := New(fs, nil, Options{}).Materials()
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join("a", "one.vmt"), filepath.Join("b", "Two.VMT")}, files)
}

func TestEntryString(t *testing.T) {
	assert.Equal(t, "unable to parse VMT x.vmt", Entry{Kind: EntryParseFailed, Path: "x.vmt"}.String())
	assert.Equal(t, "couldn't find texture a/b in VMT x.vmt", Entry{Kind: EntryMissingTexture, Path: "x.vmt", Ref: "a/b"}.String())
	assert.Equal(t, "failed to process VMT x.vmt: "+os.ErrPermission.Error(), Entry{Kind: EntryIOFailed, Path: "x.vmt", Err: os.ErrPermission}.String())
	assert.Equal(t, "failed to rename Mat: "+os.ErrPermission.Error(), Entry{Kind: EntryRenameFailed, Path: "Mat", Err: os.ErrPermission}.String())
}
