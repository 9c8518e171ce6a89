package snippet

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html/charset"
)

// Snippet type attribute values on the root element.
const (
	ObjectListType       = "FMObjectList"
	LayoutObjectListType = "LayoutObjectList"
)

// Outcome kinds.
type Kind int

const (
	Detected Kind = iota
	UnrecognizedSnippetType
	UnrecognizedNodeName
	ParseError
)

func (k Kind) String() string {
	switch k {
	case Detected:
		return "detected"
	case UnrecognizedSnippetType:
		return "unrecognized snippet type"
	case UnrecognizedNodeName:
		return "unrecognized node name"
	case ParseError:
		return "parse error"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Outcome is the result of classifying a payload. Type is set only when Kind
// is Detected; Value carries the raw attribute or tag name otherwise.
type Outcome struct {
	Kind  Kind
	Type  ContentType
	Value string
	Err   error
}

// OK reports whether a type was detected.
func (o Outcome) OK() bool {
	return o.Kind == Detected
}

// Options controls classification.
type Options struct {
	// AutoDetect inspects the payload. When false Selected is returned as is.
	AutoDetect bool
	// PreferModernLayoutFormat maps layout snippets to the v12+ layout type.
	PreferModernLayoutFormat bool
	// PreferModernThemeFormat maps theme snippets to the v2024+ theme type.
	PreferModernThemeFormat bool
	// Selected is the manually chosen type.
	Selected ContentType
}

// objectListChildren maps the first child of an FMObjectList root to a type.
// Theme is resolved separately since it depends on Options.
var objectListChildren = map[string]ContentType{
	"BaseTable":      Table,
	"Field":          Field,
	"Script":         Script,
	"Step":           ScriptStep,
	"CustomFunction": CustomFunction,
	"ValueList":      ValueList,
}

// Detect classifies text. It never panics; malformed XML yields ParseError.
func Detect(text string, opts Options) Outcome {
	if !opts.AutoDetect {
		selected := opts.Selected
		if selected.IsZero() {
			selected = Default
		}
		return Outcome{Kind: Detected, Type: selected}
	}

	env, err := ReadEnvelope(strings.NewReader(strings.TrimPrefix(text, byteOrderMark)))
	if err != nil {
		return Outcome{Kind: ParseError, Err: err}
	}

	switch env.Type {
	case LayoutObjectListType:
		if opts.PreferModernLayoutFormat {
			return Outcome{Kind: Detected, Type: LayoutV12}
		}
		return Outcome{Kind: Detected, Type: Layout}
	case ObjectListType:
		if env.FirstChild == "Theme" {
			if opts.PreferModernThemeFormat {
				return Outcome{Kind: Detected, Type: ThemeV2024}
			}
			return Outcome{Kind: Detected, Type: Theme}
		}
		if t, ok := objectListChildren[env.FirstChild]; ok {
			return Outcome{Kind: Detected, Type: t}
		}
		return Outcome{Kind: UnrecognizedNodeName, Value: env.FirstChild}
	default:
		return Outcome{Kind: UnrecognizedSnippetType, Value: env.Type}
	}
}

// Envelope is the outer shape of a snippet.
type Envelope struct {
	Root       string
	Type       string
	FirstChild string
}

const byteOrderMark = "\ufeff"

var errNoRoot = errors.New("no root element")

// ReadEnvelope scans a whole XML document and returns its root name, the
// root's type attribute and the name of its first child element. The document
// must be well-formed.
func ReadEnvelope(r io.Reader) (Envelope, error) {
	var env Envelope

	dec := xml.NewDecoder(r)
	dec.Strict = true
	dec.CharsetReader = charset.NewReaderLabel

	depth := 0
	seenRoot := false
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return Envelope{}, err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch {
			case depth == 0 && seenRoot:
				return Envelope{}, fmt.Errorf("unexpected second root element <%s>", t.Name.Local)
			case depth == 0:
				seenRoot = true
				env.Root = t.Name.Local
				for _, attr := range t.Attr {
					if attr.Name.Space == "" && attr.Name.Local == "type" {
						env.Type = attr.Value
					}
				}
			case depth == 1 && env.FirstChild == "":
				env.FirstChild = t.Name.Local
			}
			depth++
		case xml.EndElement:
			depth--
		case xml.CharData:
			if depth == 0 && len(bytes.TrimSpace(t)) > 0 {
				return Envelope{}, errors.New("text outside the root element")
			}
		}
	}

	if !seenRoot {
		return Envelope{}, errNoRoot
	}
	return env, nil
}
