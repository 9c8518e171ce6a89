package snippet

import (
	"bytes"
	"fmt"

	"github.com/beevik/etree"
	"golang.org/x/net/html/charset"
)

// IndentSpaces is the indentation used by Format.
const IndentSpaces = 2

// Format pretty-prints an XML payload. CDATA sections and the XML declaration
// are kept. Malformed input is reported and nothing is returned.
func Format(payload []byte) ([]byte, error) {
	payload = bytes.TrimPrefix(payload, []byte(byteOrderMark))

	if _, err := ReadEnvelope(bytes.NewReader(payload)); err != nil {
		return nil, fmt.Errorf("failed to parse XML: %w", err)
	}

	doc := etree.NewDocument()
	doc.ReadSettings.PreserveCData = true
	doc.ReadSettings.CharsetReader = charset.NewReaderLabel
	if err := doc.ReadFromBytes(payload); err != nil {
		return nil, fmt.Errorf("failed to parse XML: %w", err)
	}

	// CR, LF and tab must stay escaped or a parser normalizes them away.
	doc.WriteSettings.CanonicalText = true
	doc.WriteSettings.CanonicalAttrVal = true
	doc.Indent(IndentSpaces)

	out, err := doc.WriteToBytes()
	if err != nil {
		return nil, fmt.Errorf("failed to serialize XML: %w", err)
	}
	return out, nil
}
