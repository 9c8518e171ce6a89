package transfer

import (
	"context"

	"github.com/berrythewa/fmclip/internal/snippet"
	"github.com/berrythewa/fmclip/internal/types"
)

// Clipboard reads and writes tagged clipboard content.
type Clipboard interface {
	// ReadTyped returns nil, nil when the clipboard holds nothing tagged.
	ReadTyped(ctx context.Context) (*types.ClipboardContent, error)
	WriteTyped(ctx context.Context, content *types.ClipboardContent) error
}

// Files reads and writes whole text files.
type Files interface {
	ReadTextFile(path string) (string, error)
	WriteTextFile(path string, data []byte, atomic bool) error
}

// Prompter asks the user for a path. done receives "" when cancelled.
type Prompter interface {
	PromptSavePath(initial string, done func(path string))
	PromptOpenPath(initial string, done func(path string))
}

// Opener shows a file in the default application.
type Opener interface {
	Open(path string) error
}

// Recorder stores transfer history.
type Recorder interface {
	Record(rec *types.TransferRecord, data []byte) error
}

// Preferences is the preference store the broker reads and updates.
type Preferences interface {
	Settings() (Settings, error)
	SetExportPath(path string) error
	SetImportPath(path string) error
	SetLastCustomSavePath(path string) error
	SetManualType(ct snippet.ContentType) error
}
