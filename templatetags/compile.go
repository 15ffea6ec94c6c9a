package templatetags

import (
	"fmt"
	"html/template"
	"regexp"
	"strings"
)

// Names of the functions the contenttypelink block compiles to
const (
	linkOpenFunc  = "ctlink_open"
	linkCloseFunc = "ctlink_close"
)

// SyntaxError is a malformed tag found while compiling a template
type SyntaxError struct {
	Template string
	Line     int
	Msg      string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("template: %s:%d: %s", e.Template, e.Line, e.Msg)
}

// linkTag matches {{contenttypelink ...}} and {{endcontenttypelink}},
// including trim markers.
var linkTag = regexp.MustCompile(`\{\{(- )?\s*(end)?contenttypelink\b([^}]*?)\s*( -)?\}\}`)

// Compile rewrites contenttypelink blocks into plain template actions:
//
//	{{contenttypelink CT PK}}inner{{endcontenttypelink}}
//
// becomes
//
//	{{ctlink_open CT PK}}inner{{ctlink_close CT}}
//
// The open tag takes exactly two whitespace-separated arguments. Blocks nest.
func Compile(name, src string) (string, error) {
	type openTag struct {
		contentType string
		line        int
	}

	var (
		out   strings.Builder
		stack []openTag
		last  int
	)

	for _, m := range linkTag.FindAllStringSubmatchIndex(src, -1) {
		start, end := m[0], m[1]
		line := 1 + strings.Count(src[:start], "\n")
		trimLeft := m[2] >= 0
		isEnd := m[4] >= 0
		args := strings.Fields(src[m[6]:m[7]])
		trimRight := m[8] >= 0

		out.WriteString(src[last:start])
		last = end

		if isEnd {
			if len(args) != 0 {
				return "", &SyntaxError{Template: name, Line: line, Msg: "'endcontenttypelink' takes no arguments"}
			}
			if len(stack) == 0 {
				return "", &SyntaxError{Template: name, Line: line, Msg: "unexpected 'endcontenttypelink'"}
			}
			open := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			writeAction(&out, trimLeft, trimRight, linkCloseFunc, open.contentType)
			continue
		}

		if len(args) != 2 {
			return "", &SyntaxError{Template: name, Line: line, Msg: "'contenttypelink' tag takes two arguments: a content type id and pk"}
		}
		stack = append(stack, openTag{contentType: args[0], line: line})
		writeAction(&out, trimLeft, trimRight, linkOpenFunc, args...)
	}

	if len(stack) > 0 {
		open := stack[len(stack)-1]
		return "", &SyntaxError{Template: name, Line: open.line, Msg: "unclosed 'contenttypelink' tag, expected 'endcontenttypelink'"}
	}

	out.WriteString(src[last:])
	return out.String(), nil
}

func writeAction(out *strings.Builder, trimLeft, trimRight bool, fn string, args ...string) {
	out.WriteString("{{")
	if trimLeft {
		out.WriteString("- ")
	}
	out.WriteString(fn)
	for _, a := range args {
		out.WriteString(" ")
		out.WriteString(a)
	}
	if trimRight {
		out.WriteString(" -")
	}
	out.WriteString("}}")
}

// Parse compiles src and parses it as a new template named name associated with t
func Parse(t *template.Template, name, src string) (*template.Template, error) {
	compiled, err := Compile(name, src)
	if err != nil {
		return nil, err
	}
	return t.New(name).Parse(compiled)
}
