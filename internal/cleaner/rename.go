package cleaner

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-git/go-billy/v5/util"
)

// tempSuffix marks the intermediate name used while changing case, which
// case-insensitive filesystems would otherwise treat as a no-op rename.
const tempSuffix = "_temp"

// RenameResult counts what a rename pass did.
type RenameResult struct {
	Renamed   int     // Files and directories renamed
	Conflicts int     // Renames skipped because the target existed
	Failed    []Entry // Renames that returned an error, in walk order
}

// RenameTree lowercases every directory name, deepest first, then every file
// name under the root. Targets that already exist are left alone and counted
// as conflicts. A failed rename is recorded and the entry keeps its original
// name whenever it can be restored.
//
// The filesystem must move a directory's whole subtree on Rename, as osfs
// does. memfs drops the contents of nested subdirectories and is not
// supported here.
func (c *Cleaner) RenameTree(ctx context.Context) (RenameResult, error) {
	var res RenameResult

	dirs, err := c.list(true)
	if err != nil {
		return res, err
	}

	// Children come after their parent in walk order; reversing renames
	// them while the parent still has its original name.
	for i := len(dirs) - 1; i >= 0; i-- {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		c.rename(dirs[i], &res)
	}

	files, err := c.list(false)
	if err != nil {
		return res, err
	}
	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		c.rename(f, &res)
	}

	return res, nil
}

// rename lowercases one entry and records the outcome in res.
func (c *Cleaner) rename(path string, res *RenameResult) {
	switch outcome, err := c.lowerName(path); outcome {
	case renameDone:
		res.Renamed++
	case renameConflict:
		res.Conflicts++
	case renameFailed:
		res.Failed = append(res.Failed, Entry{Kind: EntryRenameFailed, Path: c.display(path), Err: err})
	}
}

// renameOutcome is the result of one lowerName call.
type renameOutcome int

const (
	renameSkipped renameOutcome = iota
	renameDone
	renameConflict
	renameFailed
)

// lowerName renames path so its last element is lowercase. When the second
// step fails the temporary name is renamed back to path.
func (c *Cleaner) lowerName(path string) (renameOutcome, error) {
	dir, base := filepath.Split(path)
	lower := strings.ToLower(base)
	if lower == base {
		return renameSkipped, nil
	}

	target := filepath.Join(dir, lower)
	temp := target + tempSuffix
	display := c.display(path)

	if c.hasEntry(dir, lower) || c.hasEntry(dir, lower+tempSuffix) {
		c.logger.Warn("rename target exists, skipping", "path", display, "target", c.display(target))
		return renameConflict, nil
	}

	if c.opt.DryRun {
		c.logger.Info("would rename", "from", display, "to", c.display(target))
		return renameDone, nil
	}

	if err := c.fs.Rename(path, temp); err != nil {
		c.logger.Error("failed to rename", "path", display, "err", err)
		return renameFailed, fmt.Errorf("rename to %s: %w", temp, err)
	}
	if err := c.fs.Rename(temp, target); err != nil {
		err = fmt.Errorf("rename to %s: %w", target, err)
		if rerr := c.fs.Rename(temp, path); rerr != nil {
			err = errors.Join(err, fmt.Errorf("restore %s: %w", path, rerr))
			c.logger.Error("failed to rename, entry left at temporary name", "path", c.display(temp), "err", err)
			return renameFailed, err
		}
		c.logger.Error("failed to rename, original name restored", "path", display, "err", err)
		return renameFailed, err
	}

	c.logger.Info("renamed", "from", display, "to", c.display(target))
	return renameDone, nil
}

// hasEntry reports whether dir lists an entry named exactly name.
// Listing instead of stat keeps case-insensitive filesystems from matching
// the entry being renamed.
func (c *Cleaner) hasEntry(dir, name string) bool {
	if dir == "" {
		dir = "."
	}

	entries, err := c.fs.ReadDir(dir)
	if err != nil {
		return false
	}
	for _, e := range entries {
		if e.Name() == name {
			return true
		}
	}

	return false
}

// list returns directories (dirs=true) or files under the root in walk
// order, honoring Exclude.
func (c *Cleaner) list(dirs bool) ([]string, error) {
	var out []string
	err := util.Walk(c.fs, ".", func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if path == "." {
			return nil
		}
		if c.excluded(path) {
			if info.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if info.IsDir() == dirs {
			out = append(out, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk tree: %w", err)
	}

	return out, nil
}
