// Package naming computes collision-free sequential artifact names of the form
// {prefix}{n}{ext} inside a flat output directory.
//
// The scheme assumes a single writer per directory. Claim creates the file
// with O_EXCL so a second writer fails loudly instead of overwriting, but the
// numbering itself is not coordinated across processes.
package naming

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/rajatvd/GifGenerator/internal/domain/model"
	apperrors "github.com/rajatvd/GifGenerator/internal/errors"
)

// maxClaimTries bounds the recompute loop in Claim when a name is taken
// between the scan and the create.
const maxClaimTries = 5

// NextName scans dir and returns the next free name after the highest
// existing {prefix}{n}{ext}. Entries whose middle segment is not a positive
// base-10 integer are ignored. No file is created.
func NextName(dir, prefix, ext string) (model.NumberedFilename, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return model.NumberedFilename{}, apperrors.Wrapf(err, apperrors.ErrCodeDirectoryUnreadable,
			"list output directory %s", dir)
	}

	highest := 0
	for _, e := range entries {
		if n, ok := sequenceOf(e.Name(), prefix, ext); ok && n > highest {
			highest = n
		}
	}

	return model.NumberedFilename{Dir: dir, Prefix: prefix, Seq: highest + 1, Ext: ext}, nil
}

// sequenceOf extracts n from name if it has the form {prefix}{n}{ext}.
func sequenceOf(name, prefix, ext string) (int, bool) {
	if len(name) < len(prefix)+len(ext) {
		return 0, false
	}
	if !strings.HasPrefix(name, prefix) || !hasExactExt(name, ext) {
		return 0, false
	}
	middle := name[len(prefix) : len(name)-len(ext)]
	if middle == "" {
		return 0, false
	}
	for _, r := range middle {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	n, err := strconv.Atoi(middle)
	if err != nil || n < 1 {
		return 0, false
	}
	return n, true
}

// hasExactExt matches the final extension only, so "a1.tar.mp4" counts for
// ".mp4" but "a1.mp4.bak" does not.
func hasExactExt(name, ext string) bool {
	i := strings.LastIndexByte(name, '.')
	if i < 0 {
		return ext == ""
	}
	return name[i:] == ext
}

// Claim computes the next name and creates an empty file there so later
// scans see it. If the name was taken in between, the scan is repeated.
func Claim(dir, prefix, ext string) (model.NumberedFilename, error) {
	for range maxClaimTries {
		name, err := NextName(dir, prefix, ext)
		if err != nil {
			return model.NumberedFilename{}, err
		}

		f, err := os.OpenFile(name.Path(), os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
		if errors.Is(err, fs.ErrExist) {
			continue
		}
		if err != nil {
			return model.NumberedFilename{}, apperrors.Wrapf(err, apperrors.ErrCodeDirectoryUnreadable,
				"create %s", name.Path())
		}
		if err := f.Close(); err != nil {
			return model.NumberedFilename{}, fmt.Errorf("close claimed file: %w", err)
		}
		return name, nil
	}
	return model.NumberedFilename{}, apperrors.Wrapf(fs.ErrExist, apperrors.ErrCodeConflict,
		"could not claim a name in %s after %d tries", dir, maxClaimTries)
}

// Release removes a claimed file if nothing was written to it.
// Missing files and non-empty files are left alone.
func Release(path string) error {
	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("stat %s: %w", path, err)
	}
	if info.Size() > 0 {
		return nil
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove %s: %w", path, err)
	}
	return nil
}

// StagingPath returns a hidden per-attempt path next to name with the same
// extension. Scans never count it, so a backend that keeps writing after
// its deadline can only touch its own staging file.
func StagingPath(name model.NumberedFilename) string {
	return filepath.Join(name.Dir, "."+name.Prefix+strconv.Itoa(name.Seq)+"-"+uuid.NewString()+name.Ext)
}

// Promote renames a finished staging file onto the claimed name.
func Promote(staging string, name model.NumberedFilename) error {
	if err := os.Rename(staging, name.Path()); err != nil {
		return fmt.Errorf("promote %s: %w", staging, err)
	}
	return nil
}
