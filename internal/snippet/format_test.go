package snippet

import (
	"bytes"
	"encoding/xml"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatIndents(t *testing.T) {
	in := xmlDecl + `<fmxmlsnippet type="FMObjectList"><Script name="a"><Step id="1"/></Script></fmxmlsnippet>`

	out, err := Format([]byte(in))
	require.NoError(t, err)

	s := string(out)
	assert.True(t, strings.HasPrefix(s, "<?xml"), s)
	assert.Contains(t, s, "\n  <Script name=\"a\">")
	assert.Contains(t, s, "\n    <Step id=\"1\"/>")
}

func TestFormatKeepsCData(t *testing.T) {
	in := `<fmxmlsnippet type="FMObjectList"><CustomFunction name="f"><Calculation><![CDATA[If ( a < b ; "x" ; "y" )]]></Calculation></CustomFunction></fmxmlsnippet>`

	out, err := Format([]byte(in))
	require.NoError(t, err)
	assert.Contains(t, string(out), `<![CDATA[If ( a < b ; "x" ; "y" )]]>`)
}

func TestFormatPreservesDetection(t *testing.T) {
	inputs := []string{
		objectList("BaseTable"),
		objectList("Theme"),
		objectList("Widget"),
		`<fmxmlsnippet type="LayoutObjectList"><Layout/></fmxmlsnippet>`,
		`<fmxmlsnippet type="Other"><Field/></fmxmlsnippet>`,
	}

	for _, flags := range []Options{auto, {AutoDetect: true}} {
		for _, in := range inputs {
			out, err := Format([]byte(in))
			require.NoError(t, err)
			assert.Equal(t, Detect(in, flags), Detect(string(out), flags), in)
		}
	}
}

func TestFormatRejectsMalformed(t *testing.T) {
	for _, in := range []string{"", "<a>", "<a></b>", "plain"} {
		out, err := Format([]byte(in))
		assert.Error(t, err, in)
		assert.Nil(t, out)
	}
}

// content returns the non-blank character data and attribute values of a
// document in order, as a parser reports them.
func content(t *testing.T, data []byte) []string {
	t.Helper()
	var out []string
	dec := xml.NewDecoder(bytes.NewReader(data))
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			return out
		}
		require.NoError(t, err)
		switch tok := tok.(type) {
		case xml.StartElement:
			for _, a := range tok.Attr {
				out = append(out, a.Name.Local+"="+a.Value)
			}
		case xml.CharData:
			if strings.TrimSpace(string(tok)) != "" {
				out = append(out, string(tok))
			}
		}
	}
}

func TestFormatKeepsLineBreaks(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"carriage return in text", `<fmxmlsnippet type="FMObjectList"><Step><Calc>line1&#13;line2</Calc></Step></fmxmlsnippet>`},
		{"crlf in text", `<fmxmlsnippet type="FMObjectList"><Script name="s"><Text>a&#13;&#10;b</Text></Script></fmxmlsnippet>`},
		{"breaks in attribute", `<fmxmlsnippet type="FMObjectList"><Field name="f" comment="one&#13;two&#10;three&#9;four"/></fmxmlsnippet>`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := Format([]byte(tt.in))
			require.NoError(t, err)
			assert.Equal(t, content(t, []byte(tt.in)), content(t, out), string(out))
		})
	}
}

func TestFormatDeclaredLatin1(t *testing.T) {
	in := `<?xml version="1.0" encoding="ISO-8859-1"?><fmxmlsnippet type="FMObjectList"><Field name="f"/></fmxmlsnippet>`

	out, err := Format([]byte(in))
	require.NoError(t, err)
	assert.Contains(t, string(out), "\n  <Field name=\"f\"/>")
}

func TestFormatDropsBlankText(t *testing.T) {
	in := `<fmxmlsnippet type="FMObjectList"><Script name="s"><Text>   </Text></Script></fmxmlsnippet>`

	out, err := Format([]byte(in))
	require.NoError(t, err)
	assert.Contains(t, string(out), "<Text/>")
	assert.Equal(t, Detect(in, auto), Detect(string(out), auto))
}
