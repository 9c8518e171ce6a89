package transfer

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/berrythewa/fmclip/internal/snippet"
)

func TestErrorMessages(t *testing.T) {
	tests := []struct {
		err  *Error
		want string
	}{
		{newError(UnsupportedClipboardType, "XMXX", nil), `The clipboard holds an unsupported type "XMXX".`},
		{newError(UnrecognizedSnippetType, "Other", nil), `Unrecognized snippet type "Other".`},
		{newError(UnrecognizedNodeName, "Widget", nil), "Unrecognized definition element <Widget>."},
		{newError(UnrecognizedNodeName, "", nil), "The snippet has no definition element."},
		{newError(MissingExportPath, "", nil), "No export path is set."},
		{newError(FileReadFailure, "/a.xml", errBoom), "Could not read /a.xml: boom"},
	}

	for _, tt := range tests {
		t.Run(tt.err.Kind.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestKindOf(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", newError(FileWriteFailure, "/x", errBoom))
	assert.Equal(t, FileWriteFailure, KindOf(err))
	assert.ErrorIs(t, err, errBoom)
	assert.ErrorIs(t, err, &Error{Kind: FileWriteFailure})
	assert.False(t, errors.Is(err, &Error{Kind: FileReadFailure}))

	assert.Equal(t, KindUnknown, KindOf(errBoom))
	assert.Equal(t, KindUnknown, KindOf(nil))
	assert.Equal(t, "kind(99)", Kind(99).String())
}

func TestOutcomeError(t *testing.T) {
	assert.NoError(t, OutcomeError(snippet.Outcome{Kind: snippet.Detected, Type: snippet.Field}))
	assert.Equal(t, ParseError, KindOf(OutcomeError(snippet.Outcome{Kind: snippet.ParseError, Err: errBoom})))
	assert.Equal(t, UnrecognizedNodeName, KindOf(OutcomeError(snippet.Outcome{Kind: snippet.UnrecognizedNodeName, Value: "X"})))
}
