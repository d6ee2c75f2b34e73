package varlist

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// ErrNoWrite is returned by ConfigWrite when the target directory refuses
// a new file (e.g. a read-only filesystem), matching the kernel
// filesystem facade's NO_WRITE status code (§6).
var ErrNoWrite = errors.New("varlist: no write permission")

// ConfigRead parses path as a line-based key=value configuration file
// (§4.B, §6) into a freshly created List. Blank lines and lines beginning
// with '#' are skipped; every other line must contain '=' -- the first '='
// splits key from value, and malformed lines (no '=') are silently
// skipped, matching the original's forgiving parser.
func ConfigRead(path string) (*List, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	v := New(0, 0)
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := sc.Text()
		if err := parseConfigLine(v, line); err != nil {
			// Malformed lines are skipped, not fatal (§4.B).
			continue
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return v, nil
}

func parseConfigLine(v *List, line string) error {
	trimmed := strings.TrimRight(line, "\r")
	if trimmed == "" || strings.HasPrefix(trimmed, "#") {
		return nil
	}
	eq := strings.IndexByte(trimmed, '=')
	if eq < 0 {
		return fmt.Errorf("varlist: malformed config line %q", line)
	}
	key := trimmed[:eq]
	value := trimmed[eq+1:]
	return v.Set(key, value)
}

// ConfigWrite serializes v to path transactionally (§4.B): it writes to a
// sibling temp file in the same directory. If the old file exists, it is
// streamed through line by line: every comment and blank line is copied
// unchanged, and every data line is replaced by the next not-yet-written
// entry (in v's insertion order) rather than its own old value -- this is
// what preserves a file's comments and blank lines exactly where they
// appeared, while still rewriting values. Any entries in v that were never
// matched against an old data line (new keys) are appended at the end, one
// key=value per line. If the old file does not exist, the new file is
// written directly with no comment-preservation pass: one key=value line
// per entry in insertion order.
//
// Because rename is atomic on a POSIX filesystem, a mid-write I/O error
// leaves the original file untouched -- the half-written temp file is
// simply discarded.
func ConfigWrite(path string, v *List) (err error) {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp*")
	if err != nil {
		if os.IsPermission(err) {
			return ErrNoWrite
		}
		return err
	}
	tmpPath := tmp.Name()
	defer func() {
		tmp.Close()
		if err != nil {
			os.Remove(tmpPath)
		}
	}()

	old, openErr := os.Open(path)
	if openErr == nil {
		defer old.Close()
		if err = mergeWrite(tmp, old, v); err != nil {
			return err
		}
	} else if os.IsNotExist(openErr) {
		if err = writeEntries(tmp, v, nil); err != nil {
			return err
		}
	} else {
		return openErr
	}

	if err = tmp.Sync(); err != nil {
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	if err = os.Rename(tmpPath, path); err != nil {
		return err
	}
	return nil
}

// mergeWrite streams old into w, substituting each data line with the
// corresponding entry from v (by insertion order) and copying every
// comment/blank line unchanged. Entries never encountered as a
// substitution target are appended afterward.
func mergeWrite(w io.Writer, old io.Reader, v *List) error {
	var keys []string
	values := make(map[string]string)
	v.Each(func(key, value string) {
		keys = append(keys, key)
		values[key] = value
	})
	written := make(map[string]bool, len(keys))

	var buf bytes.Buffer
	sc := bufio.NewScanner(old)
	next := 0
	for sc.Scan() {
		line := sc.Text()
		trimmed := strings.TrimRight(line, "\r")
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			if _, err := fmt.Fprintln(&buf, line); err != nil {
				return err
			}
			continue
		}
		// A data line: substitute the next unwritten entry, if any.
		if next < len(keys) {
			k := keys[next]
			next++
			if _, err := fmt.Fprintf(&buf, "%s=%s\n", k, values[k]); err != nil {
				return err
			}
			written[k] = true
		}
		// If there are no more entries, the old data line is dropped --
		// its key was unset.
	}
	if err := sc.Err(); err != nil {
		return err
	}

	remaining := make([]string, 0, len(keys))
	for _, k := range keys {
		if !written[k] {
			remaining = append(remaining, k)
		}
	}
	if len(remaining) > 0 {
		if err := writeEntries(&buf, v, remaining); err != nil {
			return err
		}
	}
	_, err := w.Write(buf.Bytes())
	return err
}

// writeEntries appends key=value lines to w for the given keys (in order),
// looking values up from v. A nil keys slice means "all of v's entries, in
// insertion order".
func writeEntries(w io.Writer, v *List, keys []string) error {
	if keys == nil {
		v.Each(func(key, value string) {
			keys = append(keys, key)
		})
	}
	for _, k := range keys {
		val, err := v.Get(k)
		if err != nil {
			continue
		}
		if _, err := fmt.Fprintf(w, "%s=%s\n", k, val); err != nil {
			return err
		}
	}
	return nil
}
