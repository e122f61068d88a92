// Package pathutil provides the small set of path and dotted-name helpers
// the type-annotation pass needs: extension stripping, relative-import
// computation, longest-dotted-prefix namespace matching, and prefix
// substitution in dotted names (spec.md §2 row 2).
//
// Grounded on the teacher's extractor.resolveImportPath/hasExtension
// helpers, generalized from file-extension resolution to dotted-namespace
// resolution.
package pathutil

import (
	"path"
	"strings"
)

// StripExtension removes a trailing ".js"/".ts"/".jsx"/".tsx" extension from
// p, if present. Emitted import specifiers never carry an extension
// (spec.md §6).
func StripExtension(p string) string {
	for _, ext := range []string{".tsx", ".jsx", ".ts", ".js", ".mjs", ".cjs"} {
		if strings.HasSuffix(p, ext) {
			return strings.TrimSuffix(p, ext)
		}
	}
	return p
}

// RelativeImport computes the relative-path import specifier `from` should
// use to reference `to`, both given as slash-separated canonical paths.
// The result always begins with "./" or "../" and never carries an
// extension, per spec.md §6's emission conventions.
func RelativeImport(from, to string) string {
	fromDir := path.Dir(from)
	toNoExt := StripExtension(to)

	rel, err := relPath(fromDir, toNoExt)
	if err != nil {
		rel = toNoExt
	}
	rel = path.Clean(rel)

	if !strings.HasPrefix(rel, ".") {
		rel = "./" + rel
	}
	return rel
}

// relPath is a slash-path equivalent of filepath.Rel that works on the
// canonical (always "/"-separated) paths this package deals with, so
// behavior is identical regardless of build OS.
func relPath(base, target string) (string, error) {
	baseParts := splitClean(base)
	targetParts := splitClean(target)

	i := 0
	for i < len(baseParts) && i < len(targetParts) && baseParts[i] == targetParts[i] {
		i++
	}

	up := len(baseParts) - i
	parts := make([]string, 0, up+len(targetParts)-i)
	for j := 0; j < up; j++ {
		parts = append(parts, "..")
	}
	parts = append(parts, targetParts[i:]...)

	if len(parts) == 0 {
		return ".", nil
	}
	return strings.Join(parts, "/"), nil
}

func splitClean(p string) []string {
	p = path.Clean(p)
	if p == "." || p == "/" {
		return nil
	}
	p = strings.TrimPrefix(p, "/")
	return strings.Split(p, "/")
}

// LongestDottedPrefix finds the longest dotted prefix of name that is a key
// of candidates, per spec.md §4.1 step 1 ("Compute the union of keys... find
// the longest dotted prefix of the type-name that occurs in this union").
// Returns the matched prefix and true, or "" and false if none matches.
func LongestDottedPrefix(name string, candidates map[string]bool) (string, bool) {
	parts := strings.Split(name, ".")
	for end := len(parts); end > 0; end-- {
		prefix := strings.Join(parts[:end], ".")
		if candidates[prefix] {
			return prefix, true
		}
	}
	return "", false
}

// SubstitutePrefix replaces the leading dotted prefix of name with
// replacement, preserving whatever dotted suffix followed the prefix.
// E.g. SubstitutePrefix("ns.sub.Type", "ns.sub", "T") == "T.Type".
func SubstitutePrefix(name, prefix, replacement string) string {
	if name == prefix {
		return replacement
	}
	suffix := strings.TrimPrefix(name, prefix+".")
	if suffix == name {
		// prefix wasn't actually a dotted prefix of name; return unchanged.
		return name
	}
	return replacement + "." + suffix
}
