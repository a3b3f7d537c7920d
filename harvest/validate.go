package harvest

import (
	"fmt"
	"strings"
)

// ValidationError describes why a JSX fragment was rejected.
type ValidationError struct {
	Reason  string
	Offset  int
	Snippet string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid jsx at offset %d: %s (near %q)", e.Offset, e.Reason, e.Snippet)
}

// ValidateJSX checks the structure of generated markup: balanced tags, JSX attribute
// naming, object styles and the absence of HTML comments.
func ValidateJSX(jsx string) error {
	v := &validator{src: jsx}
	return v.run()
}

type validator struct {
	src   string
	pos   int
	stack []string
}

func (v *validator) fail(offset int, format string, args ...interface{}) error {
	end := offset + 40
	if end > len(v.src) {
		end = len(v.src)
	}
	start := offset
	if start > len(v.src) {
		start = len(v.src)
	}

	return &ValidationError{
		Reason:  fmt.Sprintf(format, args...),
		Offset:  offset,
		Snippet: v.src[start:end],
	}
}

func (v *validator) run() error {
	if i := strings.Index(v.src, "<!--"); i >= 0 {
		return v.fail(i, "html comment")
	}

	elements := 0
	for v.pos < len(v.src) {
		i := strings.IndexByte(v.src[v.pos:], '<')
		if i < 0 {
			break
		}
		v.pos += i

		if strings.HasPrefix(v.src[v.pos:], "</") {
			if err := v.closeTag(); err != nil {
				return err
			}
			continue
		}

		if err := v.openTag(); err != nil {
			return err
		}
		elements++
	}

	if len(v.stack) > 0 {
		return v.fail(len(v.src), "unclosed tag <%s>", v.stack[len(v.stack)-1])
	}
	if elements == 0 {
		return v.fail(0, "no elements")
	}

	return nil
}

func (v *validator) closeTag() error {
	start := v.pos
	end := strings.IndexByte(v.src[v.pos:], '>')
	if end < 0 {
		return v.fail(start, "unterminated closing tag")
	}

	name := strings.TrimSpace(v.src[v.pos+2 : v.pos+end])
	v.pos += end + 1

	if len(v.stack) == 0 {
		return v.fail(start, "unexpected closing tag </%s>", name)
	}

	top := v.stack[len(v.stack)-1]
	if top != name {
		return v.fail(start, "mismatched closing tag </%s>, expected </%s>", name, top)
	}

	v.stack = v.stack[:len(v.stack)-1]
	return nil
}

func (v *validator) openTag() error {
	start := v.pos
	v.pos++

	name := v.readName()
	if name == "" {
		return v.fail(start, "missing tag name")
	}

	for {
		v.skipSpace()
		if v.pos >= len(v.src) {
			return v.fail(start, "unterminated tag <%s>", name)
		}

		switch {
		case strings.HasPrefix(v.src[v.pos:], "/>"):
			v.pos += 2
			return nil
		case v.src[v.pos] == '>':
			v.pos++
			v.stack = append(v.stack, name)
			return nil
		}

		attrStart := v.pos
		attr := v.readName()
		if attr == "" {
			return v.fail(attrStart, "unexpected character %q in <%s>", v.src[v.pos], name)
		}
		if err := v.checkAttrName(attrStart, attr); err != nil {
			return err
		}

		v.skipSpace()
		if v.pos >= len(v.src) || v.src[v.pos] != '=' {
			// boolean attribute
			continue
		}
		v.pos++
		v.skipSpace()

		if attr == "style" && !strings.HasPrefix(v.src[v.pos:], "{{") {
			return v.fail(attrStart, "style must be an object, not a css string")
		}

		if err := v.skipValue(attrStart); err != nil {
			return err
		}
	}
}

func (v *validator) checkAttrName(offset int, attr string) error {
	switch {
	case strings.HasPrefix(attr, "data-"), strings.HasPrefix(attr, "aria-"):
		return nil
	case attr == "class":
		return v.fail(offset, "attribute class must be className")
	case strings.Contains(attr, "-"):
		return v.fail(offset, "attribute %s must be camelCase", attr)
	case strings.Contains(attr, ":"):
		return v.fail(offset, "namespaced attribute %s", attr)
	}
	return nil
}

func (v *validator) skipValue(attrStart int) error {
	if v.pos >= len(v.src) {
		return v.fail(attrStart, "missing attribute value")
	}

	switch q := v.src[v.pos]; q {
	case '\'', '"':
		end := strings.IndexByte(v.src[v.pos+1:], q)
		if end < 0 {
			return v.fail(attrStart, "unterminated attribute value")
		}
		v.pos += end + 2
		return nil
	case '{':
		return v.skipExpression(attrStart)
	default:
		return v.fail(attrStart, "attribute value must be quoted or an expression")
	}
}

// skipExpression consumes a balanced {...} expression, honoring quoted strings.
func (v *validator) skipExpression(attrStart int) error {
	depth := 0
	var quote byte

	for ; v.pos < len(v.src); v.pos++ {
		c := v.src[v.pos]

		if quote != 0 {
			switch c {
			case '\\':
				v.pos++
			case quote:
				quote = 0
			}
			continue
		}

		switch c {
		case '\'', '"', '`':
			quote = c
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				v.pos++
				return nil
			}
		}
	}

	return v.fail(attrStart, "unbalanced expression")
}

func (v *validator) readName() string {
	start := v.pos
	for v.pos < len(v.src) && isNameChar(v.src[v.pos]) {
		v.pos++
	}
	return v.src[start:v.pos]
}

func (v *validator) skipSpace() {
	for v.pos < len(v.src) && (v.src[v.pos] == ' ' || v.src[v.pos] == '\t' || v.src[v.pos] == '\n' || v.src[v.pos] == '\r') {
		v.pos++
	}
}

func isNameChar(c byte) bool {
	return c == '-' || c == ':' || c == '_' || c == '.' ||
		(c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}
