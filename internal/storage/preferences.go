package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"go.etcd.io/bbolt"
	"go.uber.org/zap"

	"github.com/berrythewa/fmclip/internal/config"
	"github.com/berrythewa/fmclip/internal/snippet"
	"github.com/berrythewa/fmclip/internal/transfer"
)

// Preference keys.
const (
	KeyExportPath               = "exportPath"
	KeyImportPath               = "importPath"
	KeyUseSamePathForImport     = "useSamePathForImport"
	KeyOpenFileAfterExport      = "openFileAfterExport"
	KeyPrettyPrintXML           = "prettyPrintXml"
	KeyAutoDetectType           = "autoDetectType"
	KeyPreferModernLayoutFormat = "preferModernLayoutFormat"
	KeyPreferModernThemeFormat  = "preferModernThemeFormat"
	KeyLastManualType           = "lastManualType"
	KeyLastCustomSavePath       = "lastCustomSavePath"

	legacyManualTypeOrdinal = "lastManualTypeOrdinal"
)

// ErrUnknownKey is returned for keys that have no registered default.
var ErrUnknownKey = errors.New("unknown preference key")

type prefKind int

const (
	kindString prefKind = iota
	kindBool
)

type prefDef struct {
	key  string
	kind prefKind
}

// prefDefs lists every preference in display order.
var prefDefs = []prefDef{
	{KeyExportPath, kindString},
	{KeyImportPath, kindString},
	{KeyUseSamePathForImport, kindBool},
	{KeyOpenFileAfterExport, kindBool},
	{KeyPrettyPrintXML, kindBool},
	{KeyAutoDetectType, kindBool},
	{KeyPreferModernLayoutFormat, kindBool},
	{KeyPreferModernThemeFormat, kindBool},
	{KeyLastManualType, kindString},
	{KeyLastCustomSavePath, kindString},
}

func lookupDef(key string) (prefDef, bool) {
	for _, def := range prefDefs {
		if def.key == key {
			return def, true
		}
	}
	return prefDef{}, false
}

// Keys returns every preference key in display order.
func Keys() []string {
	keys := make([]string, len(prefDefs))
	for i, def := range prefDefs {
		keys[i] = def.key
	}
	return keys
}

// Preferences is a key/value store with registered defaults. Only values the
// user changed are written; everything else reads through to the defaults.
type Preferences struct {
	db       *bbolt.DB
	defaults map[string]interface{}
	logger   *zap.Logger
}

func newPreferences(db *bbolt.DB, d config.Defaults, logger *zap.Logger) *Preferences {
	manual := d.ManualType
	if _, ok := snippet.LookupByTag(manual); !ok {
		manual = snippet.Default.Tag
	}

	return &Preferences{
		db:     db,
		logger: logger,
		defaults: map[string]interface{}{
			KeyExportPath:               d.ExportPath,
			KeyImportPath:               d.ImportPath,
			KeyUseSamePathForImport:     d.UseSamePathForImport,
			KeyOpenFileAfterExport:      d.OpenFileAfterExport,
			KeyPrettyPrintXML:           d.PrettyPrintXML,
			KeyAutoDetectType:           d.AutoDetectType,
			KeyPreferModernLayoutFormat: d.PreferModernLayoutFormat,
			KeyPreferModernThemeFormat:  d.PreferModernThemeFormat,
			KeyLastManualType:           manual,
			KeyLastCustomSavePath:       "",
		},
	}
}

// migrate rewrites the legacy ordinal selection as a tag.
func (p *Preferences) migrate() error {
	return p.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(prefsBucket))
		raw := b.Get([]byte(legacyManualTypeOrdinal))
		if raw == nil {
			return nil
		}

		var ordinal int
		if err := json.Unmarshal(raw, &ordinal); err != nil {
			p.logger.Warn("Dropping unreadable legacy selection", zap.Error(err))
			return b.Delete([]byte(legacyManualTypeOrdinal))
		}

		ct, ok := snippet.LookupByOrdinal(ordinal)
		if ok && b.Get([]byte(KeyLastManualType)) == nil {
			encoded, err := json.Marshal(ct.Tag)
			if err != nil {
				return err
			}
			if err := b.Put([]byte(KeyLastManualType), encoded); err != nil {
				return fmt.Errorf("failed to migrate selection: %w", err)
			}
			p.logger.Info("Migrated legacy type selection",
				zap.Int("ordinal", ordinal),
				zap.String("tag", ct.Tag))
		}

		return b.Delete([]byte(legacyManualTypeOrdinal))
	})
}

func (p *Preferences) get(key string, out interface{}) (bool, error) {
	var raw []byte
	err := p.db.View(func(tx *bbolt.Tx) error {
		if v := tx.Bucket([]byte(prefsBucket)).Get([]byte(key)); v != nil {
			raw = append([]byte(nil), v...)
		}
		return nil
	})
	if err != nil || raw == nil {
		return false, err
	}
	if err := json.Unmarshal(raw, out); err != nil {
		p.logger.Warn("Ignoring unreadable preference", zap.String("key", key), zap.Error(err))
		return false, nil
	}
	return true, nil
}

func (p *Preferences) put(key string, value interface{}) error {
	encoded, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal preference %s: %w", key, err)
	}
	return p.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(prefsBucket)).Put([]byte(key), encoded)
	})
}

// String returns the effective string value of key.
func (p *Preferences) String(key string) (string, error) {
	def, ok := lookupDef(key)
	if !ok || def.kind != kindString {
		return "", fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}
	var v string
	found, err := p.get(key, &v)
	if err != nil {
		return "", err
	}
	if !found {
		v = p.defaults[key].(string)
	}
	return v, nil
}

// Bool returns the effective boolean value of key.
func (p *Preferences) Bool(key string) (bool, error) {
	def, ok := lookupDef(key)
	if !ok || def.kind != kindBool {
		return false, fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}
	var v bool
	found, err := p.get(key, &v)
	if err != nil {
		return false, err
	}
	if !found {
		v = p.defaults[key].(bool)
	}
	return v, nil
}

// SetString stores a string preference.
func (p *Preferences) SetString(key, value string) error {
	def, ok := lookupDef(key)
	if !ok || def.kind != kindString {
		return fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}
	return p.put(key, value)
}

// SetBool stores a boolean preference.
func (p *Preferences) SetBool(key string, value bool) error {
	def, ok := lookupDef(key)
	if !ok || def.kind != kindBool {
		return fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}
	return p.put(key, value)
}

// Set parses raw according to the key's type and stores it. The manual
// type accepts a key, tag or ordinal and is stored as a tag.
func (p *Preferences) Set(key, raw string) error {
	def, ok := lookupDef(key)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}

	switch {
	case def.kind == kindBool:
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return fmt.Errorf("%s expects true or false, got %q", key, raw)
		}
		return p.put(key, v)
	case key == KeyLastManualType:
		ct, ok := snippet.Resolve(raw)
		if !ok {
			return fmt.Errorf("unknown content type %q", raw)
		}
		return p.put(key, ct.Tag)
	default:
		return p.put(key, raw)
	}
}

// Get returns the effective value of key formatted as text.
func (p *Preferences) Get(key string) (string, error) {
	def, ok := lookupDef(key)
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}
	if def.kind == kindBool {
		v, err := p.Bool(key)
		return strconv.FormatBool(v), err
	}
	return p.String(key)
}

// IsSet reports whether key holds a user value rather than its default.
func (p *Preferences) IsSet(key string) (bool, error) {
	var set bool
	err := p.db.View(func(tx *bbolt.Tx) error {
		set = tx.Bucket([]byte(prefsBucket)).Get([]byte(key)) != nil
		return nil
	})
	return set, err
}

// Reset drops the user value of key.
func (p *Preferences) Reset(key string) error {
	if _, ok := lookupDef(key); !ok {
		return fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}
	return p.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(prefsBucket)).Delete([]byte(key))
	})
}

// ResetAll drops every user value.
func (p *Preferences) ResetAll() error {
	return p.db.Update(func(tx *bbolt.Tx) error {
		if err := tx.DeleteBucket([]byte(prefsBucket)); err != nil {
			return err
		}
		_, err := tx.CreateBucket([]byte(prefsBucket))
		return err
	})
}

// Entry is one effective preference.
type Entry struct {
	Key   string
	Value string
	IsSet bool
}

// All returns every preference with its effective value in display order.
func (p *Preferences) All() ([]Entry, error) {
	entries := make([]Entry, 0, len(prefDefs))
	for _, def := range prefDefs {
		value, err := p.Get(def.key)
		if err != nil {
			return nil, err
		}
		set, err := p.IsSet(def.key)
		if err != nil {
			return nil, err
		}
		entries = append(entries, Entry{Key: def.key, Value: value, IsSet: set})
	}
	return entries, nil
}

// ManualType returns the stored manual selection. Unknown tags fall back to
// the registered default.
func (p *Preferences) ManualType() (snippet.ContentType, error) {
	tag, err := p.String(KeyLastManualType)
	if err != nil {
		return snippet.ContentType{}, err
	}
	if ct, ok := snippet.LookupByTag(tag); ok {
		return ct, nil
	}
	p.logger.Warn("Stored type selection is unknown, using default", zap.String("tag", tag))
	ct, _ := snippet.LookupByTag(p.defaults[KeyLastManualType].(string))
	return ct, nil
}

// Settings implements transfer.Preferences.
func (p *Preferences) Settings() (transfer.Settings, error) {
	var s transfer.Settings
	var err error

	strs := []struct {
		key string
		dst *string
	}{
		{KeyExportPath, &s.ExportPath},
		{KeyImportPath, &s.ImportPath},
		{KeyLastCustomSavePath, &s.LastCustomSavePath},
	}
	for _, f := range strs {
		if *f.dst, err = p.String(f.key); err != nil {
			return transfer.Settings{}, err
		}
	}

	bools := []struct {
		key string
		dst *bool
	}{
		{KeyUseSamePathForImport, &s.UseSamePathForImport},
		{KeyOpenFileAfterExport, &s.OpenFileAfterExport},
		{KeyPrettyPrintXML, &s.PrettyPrintXML},
		{KeyAutoDetectType, &s.AutoDetectType},
		{KeyPreferModernLayoutFormat, &s.PreferModernLayoutFormat},
		{KeyPreferModernThemeFormat, &s.PreferModernThemeFormat},
	}
	for _, f := range bools {
		if *f.dst, err = p.Bool(f.key); err != nil {
			return transfer.Settings{}, err
		}
	}

	if s.ManualType, err = p.ManualType(); err != nil {
		return transfer.Settings{}, err
	}
	return s, nil
}

// SetExportPath implements transfer.Preferences.
func (p *Preferences) SetExportPath(path string) error {
	return p.SetString(KeyExportPath, path)
}

// SetImportPath implements transfer.Preferences.
func (p *Preferences) SetImportPath(path string) error {
	return p.SetString(KeyImportPath, path)
}

// SetLastCustomSavePath implements transfer.Preferences.
func (p *Preferences) SetLastCustomSavePath(path string) error {
	return p.SetString(KeyLastCustomSavePath, path)
}

// SetManualType stores the manual selection by tag.
func (p *Preferences) SetManualType(ct snippet.ContentType) error {
	if _, ok := snippet.LookupByTag(ct.Tag); !ok {
		return fmt.Errorf("unknown content type %q", ct.Tag)
	}
	return p.SetString(KeyLastManualType, ct.Tag)
}
