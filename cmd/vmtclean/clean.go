package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/go-git/go-billy/v5/osfs"
	"github.com/woozymasta/vmt"
	"github.com/woozymasta/vmt/internal/cleaner"
	"github.com/woozymasta/vmt/internal/config"
)

// runClean resolves the run parameters, cleans root and writes the log.
// renameSet reports whether --rename was given explicitly.
func (a *app) runClean(ctx context.Context, root string, renameSet bool) error {
	paths, err := config.LoadSearchPaths(a.opt.searchPaths)
	if errors.Is(err, config.ErrSearchPathsMissing) {
		return fmt.Errorf("%w; list your search paths in it, one path per line", err)
	}
	if err != nil {
		return err
	}

	store, err := a.store()
	if err != nil {
		return err
	}

	logger := a.logger()
	p := a.prompt()
	rename := a.opt.rename

	useSaved := a.opt.useSaved
	if !useSaved && root == "" {
		if useSaved, err = p.Confirm("Use the saved settings?", false); err != nil {
			return err
		}
	}
	if useSaved {
		st, err := store.Load()
		if err != nil {
			return err
		}
		if root == "" {
			root = st.VMTPath
		}
		if !renameSet {
			rename = st.CleanupNames
		}
	}

	for tries := 0; !isDir(root); tries++ {
		if tries > 0 || root != "" {
			logger.Warn("not a directory, specify the details again", "path", root)
		}
		if root, err = p.Path("VMT path", root); err != nil {
			return fmt.Errorf("material root: %w", err)
		}
		if !renameSet {
			if rename, err = p.Confirm("Cleanup directory and file names? (slow)", rename); err != nil {
				return err
			}
		}
	}

	if err := store.Save(config.Settings{VMTPath: root, CleanupNames: rename}); err != nil {
		logger.Warn("settings not saved", "err", err)
	}
	fmt.Fprintf(a.out, "%s %s\n", labelStyle.Render("Path chosen:"), pathStyle.Render(root))

	c := cleaner.New(osfs.New(root), logger, cleaner.Options{
		Resolver:       vmt.NewResolver(paths),
		Parse:          &vmt.ParseOptions{DisableLegacyCommentTrim: a.opt.exactComments},
		DisplayRoot:    root,
		Exclude:        a.opt.exclude,
		TextureExclude: a.opt.textureExclude,
		Jobs:           a.opt.jobs,
		RenameNames:    rename,
		DryRun:         a.opt.dryRun,
	})
	report, err := c.Run(ctx)
	if err != nil {
		return err
	}

	if err := writeLog(a.opt.logPath, report); err != nil {
		return err
	}
	printSummary(a.out, report.Summary, a.opt.logPath)

	return nil
}

// writeLog replaces the log file with the report entries.
func writeLog(path string, report *cleaner.Report) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create log: %w", err)
	}

	if _, err := report.WriteTo(f); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to write log %s: %w", path, err)
	}

	return f.Close()
}

// printSummary writes the run counters and the log location.
func printSummary(w io.Writer, s cleaner.Summary, logPath string) {
	label := labelStyle.Width(12)
	row := func(name, value string) {
		fmt.Fprintf(w, "  %s %s\n", label.Render(name), value)
	}

	fmt.Fprintln(w, titleStyle.Render("Done"))
	row("materials", fmt.Sprint(s.Files))
	row("updated", fmt.Sprint(s.Updated))
	if s.Renamed > 0 || s.Conflict > 0 || s.RenameFailed > 0 {
		row("renamed", fmt.Sprint(s.Renamed))
		row("conflicts", countStyle(s.Conflict, warningStyle).Render(fmt.Sprint(s.Conflict)))
		row("not renamed", countStyle(s.RenameFailed, errorStyle).Render(fmt.Sprint(s.RenameFailed)))
	}
	row("invalid", countStyle(s.Invalid, errorStyle).Render(fmt.Sprint(s.Invalid)))
	row("missing", countStyle(s.Missing, warningStyle).Render(fmt.Sprint(s.Missing)))
	row("failed", countStyle(s.Failed, errorStyle).Render(fmt.Sprint(s.Failed)))
	row("log", pathStyle.Render(logPath))
}

// isDir reports whether path names an existing directory.
func isDir(path string) bool {
	if path == "" {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
