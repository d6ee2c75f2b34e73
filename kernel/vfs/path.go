// Package vfs implements the kernel's filesystem facade (§4.I): path
// canonicalization, directory iteration, find/open/read/write and friends,
// and a byte-granular stream layer built on top of a pluggable block
// Driver -- the filesystem analogue of pkg/blobserver's storage interface
// (a type-keyed constructor registry is overkill for a single mounted
// root, so here the Driver is just injected directly).
package vfs

import (
	"strings"
)

// FixupPath canonicalises orig: both '/' and '\' are treated as
// separators, a leading separator makes the path absolute, otherwise it is
// resolved against cwd, and '.'/'..' segments are collapsed (§4.I).
// Calling FixupPath again on an already-canonical path (any cwd) returns
// the same string -- invariant 4 in §8.
func FixupPath(orig, cwd string) string {
	normalized := strings.Map(func(r rune) rune {
		if r == '\\' {
			return '/'
		}
		return r
	}, orig)

	absolute := strings.HasPrefix(normalized, "/")
	var base []string
	if !absolute {
		base = splitClean(cwd)
	}

	segments := append(base, splitClean(normalized)...)
	out := make([]string, 0, len(segments))
	for _, seg := range segments {
		switch seg {
		case "", ".":
			continue
		case "..":
			if len(out) > 0 {
				out = out[:len(out)-1]
			}
		default:
			out = append(out, seg)
		}
	}

	if len(out) == 0 {
		return "/"
	}
	return "/" + strings.Join(out, "/")
}

func splitClean(p string) []string {
	p = strings.ReplaceAll(p, "\\", "/")
	parts := strings.Split(p, "/")
	out := make([]string, 0, len(parts))
	for _, s := range parts {
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}
