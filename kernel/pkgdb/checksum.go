package pkgdb

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"sort"
)

// Checksum is a "sha256-<hex>" digest string, the same textual shape
// pkg/blob.Ref uses for content refs.
type Checksum string

func (c Checksum) String() string { return string(c) }

// ChecksumFiles hashes the sorted concatenation of each file's name and
// contents, so a checksum changes if any file is added, removed, renamed,
// or edited, and is independent of the order callers list files in.
func ChecksumFiles(files map[string][]byte) Checksum {
	names := make([]string, 0, len(files))
	for name := range files {
		names = append(names, name)
	}
	sort.Strings(names)

	h := sha256.New()
	for _, name := range names {
		fmt.Fprintf(h, "%s\x00", name)
		h.Write(files[name])
		h.Write([]byte{0})
	}
	return Checksum("sha256-" + hex.EncodeToString(h.Sum(nil)))
}

// ChecksumReader hashes a single stream's contents, for verifying one
// installed file against its recorded digest.
func ChecksumReader(r io.Reader) (Checksum, error) {
	h := sha256.New()
	if _, err := io.Copy(h, r); err != nil {
		return "", err
	}
	return Checksum("sha256-" + hex.EncodeToString(h.Sum(nil))), nil
}
