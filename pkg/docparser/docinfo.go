package docparser

import (
	"strings"

	"github.com/gmoothart/clutzgo/pkg/ast"
)

// ParseDocComment parses the text of one leading doc comment (including its
// /** and */ delimiters) into an ast.DocInfo. isExterns reports whether the
// comment carries an @externs tag (spec.md §6/§7: externs files parse but
// don't emit).
//
// Grounded in shape on the teacher's hand-rolled type-string parsing in
// pkg/parser/queries/types/typescript.go — no regex, a small manual scanner.
func ParseDocComment(text string) (doc *ast.DocInfo, isExterns bool, err error) {
	doc = &ast.DocInfo{}

	body := stripDelimiters(text)
	for _, line := range splitLines(body) {
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, "@") {
			continue
		}

		tag, rest := splitTag(line)
		switch tag {
		case "@type":
			typ, _, perr := consumeBracedType(rest)
			if perr != nil {
				return nil, false, perr
			}
			doc.Type = typ

		case "@return", "@returns":
			typ, _, perr := consumeBracedType(rest)
			if perr != nil {
				return nil, false, perr
			}
			doc.Return = typ

		case "@param":
			typ, afterType, perr := consumeBracedType(rest)
			if perr != nil {
				return nil, false, perr
			}
			name := strings.TrimSpace(afterType)
			name = strings.TrimPrefix(name, "[")
			name = strings.TrimSuffix(name, "]")
			if name == "" {
				continue
			}
			doc.SetParamType(name, typ)

		case "@const":
			doc.Const = true
			if strings.HasPrefix(strings.TrimSpace(rest), "{") {
				typ, _, perr := consumeBracedType(rest)
				if perr != nil {
					return nil, false, perr
				}
				doc.Type = typ
			}

		case "@private":
			doc.Visibility = ast.VisibilityPrivate

		case "@protected":
			doc.Visibility = ast.VisibilityProtected

		case "@public":
			doc.Visibility = ast.VisibilityPublic

		case "@externs":
			isExterns = true
		}
	}

	return doc, isExterns, nil
}

// IsExternsComment is a cheap check for whether a raw comment text carries
// an @externs tag, without doing a full parse. The driver does not call it:
// which files are emitted is decided only by the filesToEmit set given to
// Transpile, so an @externs tag does not by itself keep a file from being
// emitted.
func IsExternsComment(text string) bool {
	return strings.Contains(text, "@externs")
}

func stripDelimiters(text string) string {
	t := strings.TrimSpace(text)
	t = strings.TrimPrefix(t, "/**")
	t = strings.TrimPrefix(t, "/*")
	t = strings.TrimSuffix(t, "*/")
	return t
}

func splitLines(body string) []string {
	lines := strings.Split(body, "\n")
	out := make([]string, 0, len(lines))
	for _, l := range lines {
		l = strings.TrimSpace(l)
		l = strings.TrimPrefix(l, "*")
		out = append(out, l)
	}
	return out
}

// splitTag splits a line like "@param {string} name  description..." into
// its tag and the remainder.
func splitTag(line string) (tag string, rest string) {
	fields := strings.SplitN(line, " ", 2)
	tag = fields[0]
	if len(fields) > 1 {
		rest = fields[1]
	}
	return tag, rest
}

// consumeBracedType extracts the balanced {...} block at the start of s
// (after trimming leading space) and parses its contents as a type
// expression. It returns the parsed type (or nil if s has no leading brace
// at all — an untyped tag), and whatever text followed the closing brace.
func consumeBracedType(s string) (*ast.Node, string, error) {
	s = strings.TrimLeft(s, " \t")
	if !strings.HasPrefix(s, "{") {
		return nil, s, nil
	}

	depth := 0
	end := -1
	for i, r := range s {
		switch r {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				end = i
			}
		}
		if end != -1 {
			break
		}
	}
	if end == -1 {
		return nil, "", &braceError{s}
	}

	inner := s[1:end]
	node, err := ParseTypeExpression(inner)
	if err != nil {
		return nil, "", err
	}
	return node, s[end+1:], nil
}

type braceError struct {
	text string
}

func (e *braceError) Error() string {
	return "unterminated { } in doc comment near: " + e.text
}
