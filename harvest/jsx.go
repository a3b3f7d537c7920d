package harvest

import (
	"encoding/xml"
	"io"
	"strings"

	"github.com/pkg/errors"
)

var (
	reactAttrNames = map[string]string{
		"class": "className",
		"for":   "htmlFor",
	}

	// namespaces React knows how to render, keyed by prefix
	reactNamespaces = map[string]bool{
		"xlink": true,
		"xml":   true,
	}

	textEscaper = strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
		"{", "&#123;",
		"}", "&#125;",
	)
)

// ToJSX converts SVG markup into the equivalent JSX element.
func ToJSX(svg string) (string, error) {
	dec := xml.NewDecoder(strings.NewReader(svg))
	dec.Strict = false
	dec.Entity = xml.HTMLEntity

	var (
		b       strings.Builder
		pending *xml.StartElement
		skip    int
	)

	flush := func() {
		if pending != nil {
			writeStart(&b, pending, false)
			pending = nil
		}
	}

	for {
		tok, err := dec.RawToken()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", errors.Wrap(err, "failed parsing svg")
		}

		// editor metadata (sodipodi:namedview etc.) is dropped with its subtree
		if skip > 0 {
			switch tok.(type) {
			case xml.StartElement:
				skip++
			case xml.EndElement:
				skip--
			}
			continue
		}

		switch t := tok.(type) {
		case xml.StartElement:
			flush()
			if t.Name.Space != "" {
				skip = 1
				continue
			}
			start := t.Copy()
			pending = &start
		case xml.EndElement:
			if pending != nil && pending.Name == t.Name {
				writeStart(&b, pending, true)
				pending = nil
				continue
			}
			flush()
			b.WriteString("</" + elementName(t.Name) + ">")
		case xml.CharData:
			text := strings.TrimSpace(string(t))
			if text == "" {
				continue
			}
			flush()
			b.WriteString(textEscaper.Replace(text))
		default:
			// comments, processing instructions and doctypes have no JSX form
		}
	}

	flush()

	out := b.String()
	if out == "" {
		return "", errors.New("svg contains no elements")
	}

	return out, nil
}

func elementName(n xml.Name) string {
	if n.Space != "" {
		return n.Space + ":" + n.Local
	}
	return n.Local
}

func writeStart(b *strings.Builder, el *xml.StartElement, selfClose bool) {
	b.WriteString("<" + elementName(el.Name))

	for _, attr := range el.Attr {
		name, ok := attrName(attr.Name)
		if !ok {
			continue
		}

		b.WriteString(" " + name + "=")
		if name == "style" {
			b.WriteString(styleObject(attr.Value))
			continue
		}
		b.WriteString(quoteAttr(attr.Value))
	}

	if selfClose {
		b.WriteString(" />")
		return
	}
	b.WriteString(">")
}

// attrName maps an SVG attribute to its JSX name, reporting false when it must be dropped.
func attrName(n xml.Name) (string, bool) {
	switch {
	case n.Space == "xmlns":
		// only xmlns:xlink survives, as xmlnsXlink
		if n.Local != "xlink" {
			return "", false
		}
		return "xmlns" + upperFirst(n.Local), true
	case n.Space != "":
		if !reactNamespaces[n.Space] {
			return "", false
		}
		return n.Space + upperFirst(camelCase(n.Local)), true
	}

	if v, ok := reactAttrNames[n.Local]; ok {
		return v, true
	}
	if strings.HasPrefix(n.Local, "data-") || strings.HasPrefix(n.Local, "aria-") {
		return n.Local, true
	}

	return camelCase(n.Local), true
}

func quoteAttr(v string) string {
	switch {
	case !strings.Contains(v, "'"):
		return "'" + v + "'"
	case !strings.Contains(v, `"`):
		return `"` + v + `"`
	default:
		return "{" + jsString(v) + "}"
	}
}

// styleObject turns "fill:red;stroke-width:2" into {{fill: 'red', strokeWidth: '2'}}.
func styleObject(css string) string {
	var props []string

	for _, decl := range strings.Split(css, ";") {
		key, value, found := strings.Cut(decl, ":")
		if !found {
			continue
		}

		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)
		if key == "" {
			continue
		}

		if strings.HasPrefix(key, "--") {
			key = jsString(key)
		} else {
			key = camelCase(strings.ToLower(key))
		}

		props = append(props, key+": "+jsString(value))
	}

	return "{{" + strings.Join(props, ", ") + "}}"
}

func jsString(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, "'", `\'`)
	return "'" + s + "'"
}

func upperFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
