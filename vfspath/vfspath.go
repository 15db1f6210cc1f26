// Package vfspath implements lexical path manipulation for the
// "location" attribute carried inside a file system's path
// specifications: joining and splitting segments, and resolving "."
// and ".." purely by string inspection, parameterized by whichever
// separator the owning FileSystem's PathSeparator reports ("/" for
// most backends, "\\" for NTFS-style ones).
//
// Operations here never touch a backend; they only manipulate the
// location string itself, mirroring how a FileSystem's JoinPath and
// SplitPath are expected to behave.
package vfspath

import "strings"

// Join concatenates segments into one location using sep, collapsing
// empty segments and producing a single leading sep (the root).
// Join([]string{"a", "b"}, "/") is "/a/b"; Join(nil, "/") is "/".
func Join(sep string, segments []string) string {
	var b strings.Builder
	b.WriteString(sep)
	first := true
	for _, s := range segments {
		if s == "" {
			continue
		}
		if !first {
			b.WriteString(sep)
		}
		b.WriteString(s)
		first = false
	}
	return Clean(sep, b.String())
}

// Split is Join's inverse: it breaks a location into its non-empty
// segments, ignoring any leading or trailing separator.
func Split(sep, location string) []string {
	trimmed := strings.Trim(location, sep)
	if trimmed == "" {
		return nil
	}
	parts := strings.Split(trimmed, sep)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Clean resolves "." and ".." segments and collapses repeated
// separators, purely lexically: it never stats the backend to check
// whether an intermediate segment is itself a symlink. A ".." at the
// root is absorbed rather than treated as an error, matching how most
// file systems tolerate "cd .." past the top.
func Clean(sep, location string) string {
	segments := Split(sep, location)
	var out []string
	for _, s := range segments {
		switch s {
		case ".":
			continue
		case "..":
			if len(out) > 0 {
				out = out[:len(out)-1]
			}
		default:
			out = append(out, s)
		}
	}
	if len(out) == 0 {
		return sep
	}
	return sep + strings.Join(out, sep)
}

// Base returns the final segment of location, or "" for the root.
func Base(sep, location string) string {
	segs := Split(sep, location)
	if len(segs) == 0 {
		return ""
	}
	return segs[len(segs)-1]
}

// Dir returns location with its final segment removed.
func Dir(sep, location string) string {
	segs := Split(sep, location)
	if len(segs) == 0 {
		return sep
	}
	return Join(sep, segs[:len(segs)-1])
}
