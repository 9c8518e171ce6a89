// Package transfer moves definitions between the clipboard and files.
package transfer

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/berrythewa/fmclip/internal/snippet"
	"github.com/berrythewa/fmclip/internal/types"
)

var errNotUTF8 = errors.New("file is not valid UTF-8 text")

// Result describes a finished operation.
type Result struct {
	Direction types.Direction
	Type      snippet.ContentType
	Path      string
	Size      int
	Pretty    bool
	Message   string
}

// Completion receives the outcome of a prompted operation. A nil result
// with a nil error means the user cancelled.
type Completion func(*Result, error)

// Overrides replace individual preferences for one broker. Nil fields keep
// the stored value.
type Overrides struct {
	PrettyPrintXML      *bool
	OpenFileAfterExport *bool
	AutoDetectType      *bool
	ManualType          *snippet.ContentType
}

func (o Overrides) apply(s Settings) Settings {
	if o.PrettyPrintXML != nil {
		s.PrettyPrintXML = *o.PrettyPrintXML
	}
	if o.OpenFileAfterExport != nil {
		s.OpenFileAfterExport = *o.OpenFileAfterExport
	}
	if o.AutoDetectType != nil {
		s.AutoDetectType = *o.AutoDetectType
	}
	if o.ManualType != nil {
		s.ManualType = *o.ManualType
	}
	return s
}

// Config wires a Broker.
type Config struct {
	Clipboard   Clipboard
	Preferences Preferences
	Files       Files    // defaults to OSFiles
	Prompter    Prompter // required by the prompting operations
	Opener      Opener   // nil disables opening exported files
	Recorder    Recorder // nil disables history
	Logger      *zap.Logger

	// OnStatus receives the status line of every finished operation.
	OnStatus func(message string)
	// OnSelect receives the type an operation settled on.
	OnSelect func(ct snippet.ContentType)
}

// Broker runs export and import operations. It is not safe for concurrent
// use; operations are expected to run one at a time.
type Broker struct {
	clipboard Clipboard
	prefs     Preferences
	files     Files
	prompter  Prompter
	opener    Opener
	recorder  Recorder
	logger    *zap.Logger
	onStatus  func(string)
	onSelect  func(snippet.ContentType)
	overrides Overrides
}

// NewBroker creates a Broker.
func NewBroker(cfg Config) (*Broker, error) {
	if cfg.Clipboard == nil {
		return nil, errors.New("broker needs a clipboard")
	}
	if cfg.Preferences == nil {
		return nil, errors.New("broker needs a preference store")
	}

	b := &Broker{
		clipboard: cfg.Clipboard,
		prefs:     cfg.Preferences,
		files:     cfg.Files,
		prompter:  cfg.Prompter,
		opener:    cfg.Opener,
		recorder:  cfg.Recorder,
		logger:    cfg.Logger,
		onStatus:  cfg.OnStatus,
		onSelect:  cfg.OnSelect,
	}
	if b.files == nil {
		b.files = OSFiles{}
	}
	if b.logger == nil {
		b.logger = zap.NewNop()
	}
	return b, nil
}

// WithOverrides returns a copy of b that applies o on top of the stored
// preferences.
func (b *Broker) WithOverrides(o Overrides) *Broker {
	c := *b
	c.overrides = o
	return &c
}

// Settings returns the effective preferences.
func (b *Broker) Settings() (Settings, error) {
	s, err := b.prefs.Settings()
	if err != nil {
		return Settings{}, fmt.Errorf("failed to read preferences: %w", err)
	}
	return b.overrides.apply(s), nil
}

func (b *Broker) status(msg string) {
	if b.onStatus != nil {
		b.onStatus(msg)
	}
}

func (b *Broker) selected(ct snippet.ContentType) {
	if b.onSelect != nil {
		b.onSelect(ct)
	}
}

func (b *Broker) fail(op string, err error) error {
	b.logger.Warn("Operation failed",
		zap.String("op", op),
		zap.String("kind", KindOf(err).String()),
		zap.Error(err))
	b.status(err.Error())
	return err
}

func (b *Broker) succeed(res *Result) *Result {
	b.logger.Info(res.Message,
		zap.String("direction", string(res.Direction)),
		zap.String("tag", res.Type.Tag),
		zap.String("path", res.Path),
		zap.Int("size", res.Size))
	b.status(res.Message)
	return res
}

func (b *Broker) record(res *Result, data []byte) {
	if b.recorder == nil {
		return
	}
	rec := &types.TransferRecord{
		Direction: res.Direction,
		Tag:       res.Type.Tag,
		Label:     res.Type.Label,
		Path:      res.Path,
		Pretty:    res.Pretty,
	}
	if err := b.recorder.Record(rec, data); err != nil {
		b.logger.Warn("Failed to record history", zap.Error(err))
	}
}

// Export writes the clipboard definition to path.
func (b *Broker) Export(ctx context.Context, path string) (*Result, error) {
	settings, err := b.Settings()
	if err != nil {
		return nil, b.fail("export", err)
	}

	content, err := b.clipboard.ReadTyped(ctx)
	if err != nil {
		return nil, b.fail("export", newError(ClipboardReadFailure, "", err))
	}
	if content.Empty() {
		return nil, b.fail("export", newError(NothingToExport, "", nil))
	}

	ct, ok := snippet.LookupByTag(content.Tag)
	if !ok {
		return nil, b.fail("export", newError(UnsupportedClipboardType, content.Tag, nil))
	}
	b.selected(ct)

	if path == "" {
		return nil, b.fail("export", newError(MissingExportPath, "", nil))
	}

	data := content.Data
	if settings.PrettyPrintXML {
		data, err = snippet.Format(content.Data)
		if err != nil {
			return nil, b.fail("export", newError(XMLParseFailure, "", err))
		}
	}

	if err := b.files.WriteTextFile(path, data, true); err != nil {
		return nil, b.fail("export", newError(FileWriteFailure, path, err))
	}

	if settings.OpenFileAfterExport && b.opener != nil {
		if err := b.opener.Open(path); err != nil {
			b.logger.Warn("Failed to open exported file", zap.String("path", path), zap.Error(err))
		}
	}

	res := &Result{
		Direction: types.DirectionExport,
		Type:      ct,
		Path:      path,
		Size:      len(data),
		Pretty:    settings.PrettyPrintXML,
		Message:   fmt.Sprintf("%s definition saved to %s", ct.Label, path),
	}
	b.record(res, data)
	return b.succeed(res), nil
}

// ExportDefault exports to the configured export path.
func (b *Broker) ExportDefault(ctx context.Context) (*Result, error) {
	settings, err := b.Settings()
	if err != nil {
		return nil, b.fail("export", err)
	}
	return b.Export(ctx, settings.ExportPath)
}

// ExportAs prompts for a destination, remembers it and exports there.
func (b *Broker) ExportAs(ctx context.Context, done Completion) {
	settings, err := b.Settings()
	if err != nil {
		done(nil, b.fail("export", err))
		return
	}
	if b.prompter == nil {
		done(nil, b.fail("export", errors.New("no path prompt available")))
		return
	}

	b.prompter.PromptSavePath(settings.SaveAsStart(), func(path string) {
		if path == "" {
			done(nil, nil)
			return
		}
		if err := b.prefs.SetLastCustomSavePath(path); err != nil {
			b.logger.Warn("Failed to remember save path", zap.Error(err))
		}
		done(b.Export(ctx, path))
	})
}

// Import puts the definition stored in path on the clipboard.
func (b *Broker) Import(ctx context.Context, path string) (*Result, error) {
	settings, err := b.Settings()
	if err != nil {
		return nil, b.fail("import", err)
	}

	text, err := b.files.ReadTextFile(path)
	if err != nil {
		return nil, b.fail("import", newError(FileReadFailure, path, err))
	}

	out := snippet.Detect(text, settings.DetectOptions())
	if err := OutcomeError(out); err != nil {
		return nil, b.fail("import", err)
	}
	b.selected(out.Type)

	content := types.NewClipboardContent(out.Type.Tag, []byte(text))
	if err := b.clipboard.WriteTyped(ctx, content); err != nil {
		return nil, b.fail("import", newError(ClipboardWriteFailure, out.Type.Tag, err))
	}

	res := &Result{
		Direction: types.DirectionImport,
		Type:      out.Type,
		Path:      path,
		Size:      len(content.Data),
		Message:   fmt.Sprintf("%s definition copied to the clipboard.", out.Type.Label),
	}
	b.record(res, content.Data)
	return b.succeed(res), nil
}

// ImportDefault imports from the export path when the paths are shared,
// otherwise from the import path.
func (b *Broker) ImportDefault(ctx context.Context) (*Result, error) {
	settings, err := b.Settings()
	if err != nil {
		return nil, b.fail("import", err)
	}
	return b.Import(ctx, settings.EffectiveImportPath())
}

// ImportFrom prompts for a file and imports it.
func (b *Broker) ImportFrom(ctx context.Context, done Completion) {
	settings, err := b.Settings()
	if err != nil {
		done(nil, b.fail("import", err))
		return
	}
	if b.prompter == nil {
		done(nil, b.fail("import", errors.New("no path prompt available")))
		return
	}

	b.prompter.PromptOpenPath(settings.EffectiveImportPath(), func(path string) {
		if path == "" {
			done(nil, nil)
			return
		}
		done(b.Import(ctx, path))
	})
}

// ChooseExportPath prompts for and stores the export path. done receives ""
// when the user cancelled.
func (b *Broker) ChooseExportPath(done func(path string, err error)) {
	b.choosePath(true, done)
}

// ChooseImportPath prompts for and stores the import path.
func (b *Broker) ChooseImportPath(done func(path string, err error)) {
	b.choosePath(false, done)
}

func (b *Broker) choosePath(export bool, done func(string, error)) {
	settings, err := b.Settings()
	if err != nil {
		done("", err)
		return
	}
	if b.prompter == nil {
		done("", errors.New("no path prompt available"))
		return
	}

	store := func(path string) {
		if path == "" {
			done("", nil)
			return
		}
		var err error
		if export {
			err = b.prefs.SetExportPath(path)
		} else {
			err = b.prefs.SetImportPath(path)
		}
		if err != nil {
			done("", fmt.Errorf("failed to store path: %w", err))
			return
		}
		b.logger.Debug("Path chosen", zap.Bool("export", export), zap.String("path", path))
		done(path, nil)
	}

	if export {
		b.prompter.PromptSavePath(settings.ExportPath, store)
	} else {
		b.prompter.PromptOpenPath(settings.ImportPath, store)
	}
}

// Detect classifies text with the effective preferences.
func (b *Broker) Detect(text string) (snippet.Outcome, error) {
	settings, err := b.Settings()
	if err != nil {
		return snippet.Outcome{}, err
	}
	return snippet.Detect(text, settings.DetectOptions()), nil
}

// SelectManualType stores the type used when auto-detection is off.
func (b *Broker) SelectManualType(ct snippet.ContentType) error {
	if err := b.prefs.SetManualType(ct); err != nil {
		return err
	}
	b.selected(ct)
	return nil
}

// Restore puts a definition from history back on the clipboard.
func (b *Broker) Restore(ctx context.Context, rec *types.TransferRecord, data []byte) (*Result, error) {
	ct, ok := snippet.LookupByTag(rec.Tag)
	if !ok {
		return nil, b.fail("restore", newError(UnsupportedClipboardType, rec.Tag, nil))
	}
	b.selected(ct)

	if err := b.clipboard.WriteTyped(ctx, types.NewClipboardContent(ct.Tag, data)); err != nil {
		return nil, b.fail("restore", newError(ClipboardWriteFailure, ct.Tag, err))
	}

	return b.succeed(&Result{
		Direction: types.DirectionImport,
		Type:      ct,
		Path:      rec.Path,
		Size:      len(data),
		Message:   fmt.Sprintf("%s definition restored to the clipboard.", ct.Label),
	}), nil
}

// OutcomeError converts a failed classification into an *Error. It returns
// nil for a detected type.
func OutcomeError(out snippet.Outcome) error {
	switch out.Kind {
	case snippet.Detected:
		return nil
	case snippet.ParseError:
		return newError(ParseError, "", out.Err)
	case snippet.UnrecognizedSnippetType:
		return newError(UnrecognizedSnippetType, out.Value, nil)
	case snippet.UnrecognizedNodeName:
		return newError(UnrecognizedNodeName, out.Value, nil)
	default:
		return newError(KindUnknown, "", fmt.Errorf("unexpected outcome %s", out.Kind))
	}
}
