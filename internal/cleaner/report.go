package cleaner

import (
	"fmt"
	"io"
)

// EntryKind classifies a log entry.
type EntryKind int

const (
	// EntryParseFailed marks a material the parser rejected.
	EntryParseFailed EntryKind = iota
	// EntryMissingTexture marks a texture reference found in no search path.
	EntryMissingTexture
	// EntryIOFailed marks a material that could not be read or written.
	EntryIOFailed
	// EntryRenameFailed marks a file or directory the rename pass could not
	// lowercase.
	EntryRenameFailed
)

// Entry is one line of the cleaning log.
type Entry struct {
	Err  error     // Underlying error for EntryIOFailed
	Path string    // Material path
	Ref  string    // Texture reference for EntryMissingTexture
	Key  string    // Texture slot for EntryMissingTexture
	Kind EntryKind // Entry kind
}

// String formats the entry as a log line.
func (e Entry) String() string {
	switch e.Kind {
	case EntryParseFailed:
		return fmt.Sprintf("unable to parse VMT %s", e.Path)
	case EntryMissingTexture:
		return fmt.Sprintf("couldn't find texture %s in VMT %s", e.Ref, e.Path)
	case EntryRenameFailed:
		return fmt.Sprintf("failed to rename %s: %v", e.Path, e.Err)
	default:
		return fmt.Sprintf("failed to process VMT %s: %v", e.Path, e.Err)
	}
}

// Summary counts what a run did.
type Summary struct {
	Files        int // Materials visited
	Updated      int // Materials rewritten
	Invalid      int // Materials that failed to parse
	Missing      int // Unresolved texture references
	Failed       int // Materials skipped on I/O errors
	Renamed      int // Files and directories renamed
	Conflict     int // Renames skipped because the target existed
	RenameFailed int // Renames that returned an error
}

// Report collects log entries: rename failures first, then material
// entries in file enumeration order.
type Report struct {
	Entries []Entry
	Summary Summary
}

// addRename records the outcome of the rename pass.
func (r *Report) addRename(res RenameResult) {
	r.Summary.Renamed += res.Renamed
	r.Summary.Conflict += res.Conflicts
	r.Summary.RenameFailed += len(res.Failed)
	r.Entries = append(r.Entries, res.Failed...)
}

// add appends the outcome of one file.
func (r *Report) add(res fileResult) {
	r.Summary.Files++
	r.Entries = append(r.Entries, res.entries...)

	switch {
	case res.failed:
		r.Summary.Failed++
	case res.invalid:
		r.Summary.Invalid++
	}
	if res.updated {
		r.Summary.Updated++
	}
	for _, e := range res.entries {
		if e.Kind == EntryMissingTexture {
			r.Summary.Missing++
		}
	}
}

// WriteTo writes the log, one entry per line.
func (r *Report) WriteTo(w io.Writer) (int64, error) {
	var total int64
	for _, e := range r.Entries {
		n, err := io.WriteString(w, e.String()+"\n")
		total += int64(n)
		if err != nil {
			return total, err
		}
	}

	return total, nil
}
