// Package cleaner normalizes a material content tree.
//
// A run optionally lowercases every directory and file name, then rewrites
// texture path lines in each VMT, parses it and checks its texture
// references against the search paths. Problems are collected in a Report
// whose entries follow file enumeration order, even when files are
// processed concurrently.
package cleaner

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/charmbracelet/log"
	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"
	"github.com/woozymasta/vmt"
	"golang.org/x/sync/errgroup"
)

// MaterialExt is the extension of material files.
const MaterialExt = ".vmt"

// Options controls a cleaning run.
type Options struct {
	// Resolver locates texture references. Nil disables texture checks.
	Resolver *vmt.Resolver
	// Parse is passed to the material parser.
	Parse *vmt.ParseOptions
	// DisplayRoot prefixes paths written to the report.
	DisplayRoot string
	// Exclude skips files and directories matching these doublestar
	// patterns, relative to the root with forward slashes.
	Exclude []string
	// TextureExclude skips lookups for matching texture references.
	TextureExclude []string
	// Jobs is the number of materials processed concurrently (default 1).
	Jobs int
	// RenameNames lowercases directory and file names before processing.
	RenameNames bool
	// DryRun reports without renaming or writing anything.
	DryRun bool
}

// Cleaner processes one content tree.
type Cleaner struct {
	fs     billy.Filesystem
	logger *log.Logger
	opt    Options
}

// fileResult is the outcome of processing one material.
type fileResult struct {
	entries []Entry
	updated bool
	invalid bool
	failed  bool
}

// New creates a cleaner over fs. A nil logger discards output.
func New(fs billy.Filesystem, logger *log.Logger, opt Options) *Cleaner {
	if logger == nil {
		logger = log.NewWithOptions(discard{}, log.Options{})
	}
	if opt.Jobs < 1 {
		opt.Jobs = 1
	}

	return &Cleaner{fs: fs, logger: logger, opt: opt}
}

// Run executes the rename pass (when enabled) and the material pass.
func (c *Cleaner) Run(ctx context.Context) (*Report, error) {
	report := &Report{}

	if c.opt.RenameNames {
		res, err := c.RenameTree(ctx)
		if err != nil {
			return nil, err
		}
		report.addRename(res)
	}

	files, err := c.Materials()
	if err != nil {
		return nil, err
	}

	results := make([]fileResult, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.opt.Jobs)
	for i, f := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = c.processFile(f)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("process materials: %w", err)
	}

	for _, res := range results {
		report.add(res)
	}

	return report, nil
}

// Materials lists the VMT files under the root in walk order.
func (c *Cleaner) Materials() ([]string, error) {
	all, err := c.list(false)
	if err != nil {
		return nil, err
	}

	var files []string
	for _, f := range all {
		if strings.EqualFold(filepath.Ext(f), MaterialExt) {
			files = append(files, f)
		}
	}

	return files, nil
}

// processFile rewrites, parses and verifies one material.
func (c *Cleaner) processFile(path string) fileResult {
	display := c.display(path)
	c.logger.Info("processing file", "path", display)

	data, err := util.ReadFile(c.fs, path)
	if err != nil {
		c.logger.Error("failed to read material", "path", display, "err", err)
		return fileResult{failed: true, entries: []Entry{{Kind: EntryIOFailed, Path: display, Err: err}}}
	}

	out, changed := vmt.RewriteTexturePaths(data)
	m := vmt.Parse(out, c.opt.Parse)
	if !m.Valid() {
		// Leave the file as it was.
		c.logger.Warn("unable to parse VMT", "path", display, "err", m.Err())
		return fileResult{invalid: true, entries: []Entry{{Kind: EntryParseFailed, Path: display}}}
	}

	var res fileResult
	issues := vmt.Validate(m, &vmt.ValidateOptions{
		Resolver:     c.opt.Resolver,
		ExcludePaths: c.opt.TextureExclude,
	})
	for _, is := range issues {
		if is.Code != vmt.CodeMissingTexture {
			continue
		}
		c.logger.Warn("couldn't find texture", "path", display, "key", is.Key, "ref", is.Path)
		res.entries = append(res.entries, Entry{Kind: EntryMissingTexture, Path: display, Ref: is.Path, Key: is.Key})
	}

	if !changed || c.opt.DryRun {
		return res
	}

	if err := c.writeFile(path, out); err != nil {
		c.logger.Error("failed to update material", "path", display, "err", err)
		res.failed = true
		res.entries = append(res.entries, Entry{Kind: EntryIOFailed, Path: display, Err: err})
		return res
	}

	c.logger.Info("updated file", "path", display)
	res.updated = true
	return res
}

// writeFile replaces a file's content, keeping its permissions.
func (c *Cleaner) writeFile(path string, data []byte) error {
	perm := os.FileMode(0o644)
	if info, err := c.fs.Stat(path); err == nil {
		perm = info.Mode().Perm()
	}

	return util.WriteFile(c.fs, path, data, perm)
}

// excluded reports whether path matches an exclude pattern.
func (c *Cleaner) excluded(path string) bool {
	slash := filepath.ToSlash(path)
	for _, p := range c.opt.Exclude {
		if ok, err := doublestar.Match(p, slash); err == nil && ok {
			return true
		}
	}

	return false
}

// display returns the path as written to the report.
func (c *Cleaner) display(path string) string {
	if c.opt.DisplayRoot == "" {
		return path
	}

	return filepath.Join(c.opt.DisplayRoot, path)
}

// discard drops logger output.
type discard struct{}

func (discard) Write(p []byte) (int, error) { return len(p), nil }
