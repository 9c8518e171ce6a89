package transfer

import (
	"errors"
	"fmt"
)

// Kind classifies operation failures.
type Kind int

const (
	KindUnknown Kind = iota
	ParseError
	UnrecognizedSnippetType
	UnrecognizedNodeName
	UnsupportedClipboardType
	FileReadFailure
	FileWriteFailure
	ClipboardWriteFailure
	ClipboardReadFailure
	MissingExportPath
	XMLParseFailure
	NothingToExport
)

var kindNames = map[Kind]string{
	KindUnknown:              "unknown",
	ParseError:               "parse-error",
	UnrecognizedSnippetType:  "unrecognized-snippet-type",
	UnrecognizedNodeName:     "unrecognized-node-name",
	UnsupportedClipboardType: "unsupported-clipboard-type",
	FileReadFailure:          "file-read-failure",
	FileWriteFailure:         "file-write-failure",
	ClipboardWriteFailure:    "clipboard-write-failure",
	ClipboardReadFailure:     "clipboard-read-failure",
	MissingExportPath:        "missing-export-path",
	XMLParseFailure:          "xml-parse-failure",
	NothingToExport:          "nothing-to-export",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Error is the failure of one transfer operation. Its message is the status
// line shown to the user.
type Error struct {
	Kind  Kind
	Value string // raw tag, attribute or element name, or a path
	Err   error
}

func (e *Error) Error() string {
	switch e.Kind {
	case ParseError:
		return "The file does not contain valid XML."
	case UnrecognizedSnippetType:
		return fmt.Sprintf("Unrecognized snippet type %q.", e.Value)
	case UnrecognizedNodeName:
		if e.Value == "" {
			return "The snippet has no definition element."
		}
		return fmt.Sprintf("Unrecognized definition element <%s>.", e.Value)
	case UnsupportedClipboardType:
		return fmt.Sprintf("The clipboard holds an unsupported type %q.", e.Value)
	case FileReadFailure:
		return fmt.Sprintf("Could not read %s: %v", e.Value, e.Err)
	case FileWriteFailure:
		return fmt.Sprintf("Could not write %s: %v", e.Value, e.Err)
	case ClipboardWriteFailure:
		return fmt.Sprintf("Could not set the clipboard: %v", e.Err)
	case ClipboardReadFailure:
		return fmt.Sprintf("Could not read the clipboard: %v", e.Err)
	case MissingExportPath:
		return "No export path is set."
	case XMLParseFailure:
		return fmt.Sprintf("Could not format the clipboard XML: %v", e.Err)
	case NothingToExport:
		return "The clipboard holds no definition to export."
	default:
		if e.Err != nil {
			return e.Err.Error()
		}
		return "transfer failed"
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches errors of the same kind, so errors.Is(err, &Error{Kind: k})
// works without comparing values.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

// KindOf returns the kind of err, or KindUnknown.
func KindOf(err error) Kind {
	var te *Error
	if errors.As(err, &te) {
		return te.Kind
	}
	return KindUnknown
}

func newError(kind Kind, value string, err error) *Error {
	return &Error{Kind: kind, Value: value, Err: err}
}
