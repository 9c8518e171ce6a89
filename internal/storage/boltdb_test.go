// File: internal/storage/boltdb_test.go

package storage

import (
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.etcd.io/bbolt"

	"github.com/berrythewa/fmclip/internal/config"
	"github.com/berrythewa/fmclip/internal/snippet"
	"github.com/berrythewa/fmclip/internal/types"
	"github.com/berrythewa/fmclip/pkg/compression"
)

func testDefaults() config.Defaults {
	return config.Defaults{
		ExportPath:               "/docs/clipboard.xml",
		ImportPath:               "/docs/clipboard.xml",
		UseSamePathForImport:     true,
		OpenFileAfterExport:      true,
		PrettyPrintXML:           true,
		AutoDetectType:           true,
		PreferModernLayoutFormat: true,
		PreferModernThemeFormat:  true,
		ManualType:               "XMTB",
	}
}

func openTestStorage(t *testing.T, path string, keep int) *BoltStorage {
	t.Helper()
	if path == "" {
		path = filepath.Join(t.TempDir(), "test.db")
	}
	s, err := NewBoltStorage(StorageConfig{
		DBPath:       path,
		Defaults:     testDefaults(),
		KeepItems:    keep,
		StorePayload: true,
	})
	require.NoError(t, err)
	return s
}

func TestPreferenceDefaults(t *testing.T) {
	s := openTestStorage(t, "", 0)
	defer s.Close()
	p := s.Preferences()

	settings, err := p.Settings()
	require.NoError(t, err)
	assert.Equal(t, "/docs/clipboard.xml", settings.ExportPath)
	assert.True(t, settings.AutoDetectType)
	assert.True(t, settings.PrettyPrintXML)
	assert.Equal(t, snippet.Table, settings.ManualType)
	assert.Empty(t, settings.LastCustomSavePath)

	entries, err := p.All()
	require.NoError(t, err)
	require.Len(t, entries, len(Keys()))
	for _, e := range entries {
		assert.False(t, e.IsSet, e.Key)
	}
}

func TestPreferenceSetAndReset(t *testing.T) {
	s := openTestStorage(t, "", 0)
	defer s.Close()
	p := s.Preferences()

	require.NoError(t, p.Set(KeyPrettyPrintXML, "false"))
	require.NoError(t, p.Set(KeyLastManualType, "script-step"))
	require.NoError(t, p.SetExportPath("/tmp/a.xml"))

	v, err := p.Get(KeyPrettyPrintXML)
	require.NoError(t, err)
	assert.Equal(t, "false", v)

	ct, err := p.ManualType()
	require.NoError(t, err)
	assert.Equal(t, snippet.ScriptStep, ct)

	set, err := p.IsSet(KeyExportPath)
	require.NoError(t, err)
	assert.True(t, set)

	require.NoError(t, p.Reset(KeyPrettyPrintXML))
	b, err := p.Bool(KeyPrettyPrintXML)
	require.NoError(t, err)
	assert.True(t, b)

	require.NoError(t, p.ResetAll())
	path, err := p.String(KeyExportPath)
	require.NoError(t, err)
	assert.Equal(t, "/docs/clipboard.xml", path)
}

func TestPreferenceErrors(t *testing.T) {
	s := openTestStorage(t, "", 0)
	defer s.Close()
	p := s.Preferences()

	assert.ErrorIs(t, p.Set("colour", "red"), ErrUnknownKey)
	assert.ErrorIs(t, p.Reset("colour"), ErrUnknownKey)
	_, err := p.Get("colour")
	assert.ErrorIs(t, err, ErrUnknownKey)
	_, err = p.Bool(KeyExportPath)
	assert.ErrorIs(t, err, ErrUnknownKey)

	assert.Error(t, p.Set(KeyAutoDetectType, "maybe"))
	assert.Error(t, p.Set(KeyLastManualType, "widget"))
	assert.Error(t, p.SetManualType(snippet.ContentType{Tag: "XMXX"}))
}

func TestPreferencePersistence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	s := openTestStorage(t, path, 0)
	require.NoError(t, s.Preferences().SetManualType(snippet.CustomFunction))
	require.NoError(t, s.Preferences().SetBool(KeyOpenFileAfterExport, false))
	require.NoError(t, s.Close())

	s = openTestStorage(t, path, 0)
	defer s.Close()
	settings, err := s.Preferences().Settings()
	require.NoError(t, err)
	assert.Equal(t, snippet.CustomFunction, settings.ManualType)
	assert.False(t, settings.OpenFileAfterExport)
}

func TestUnknownStoredTagFallsBack(t *testing.T) {
	s := openTestStorage(t, "", 0)
	defer s.Close()

	// written by a newer build that knows more types
	require.NoError(t, s.Preferences().SetString(KeyLastManualType, "XMZZ"))

	ct, err := s.Preferences().ManualType()
	require.NoError(t, err)
	assert.Equal(t, snippet.Table, ct)
}

func TestLegacyOrdinalMigration(t *testing.T) {
	path := filepath.Join(t.TempDir(), "legacy.db")

	db, err := bbolt.Open(path, 0600, nil)
	require.NoError(t, err)
	require.NoError(t, db.Update(func(tx *bbolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists([]byte(prefsBucket))
		if err != nil {
			return err
		}
		raw, _ := json.Marshal(6)
		return b.Put([]byte(legacyManualTypeOrdinal), raw)
	}))
	require.NoError(t, db.Close())

	s := openTestStorage(t, path, 0)
	ct, err := s.Preferences().ManualType()
	require.NoError(t, err)
	assert.Equal(t, snippet.CustomFunction, ct)
	require.NoError(t, s.Close())

	db, err = bbolt.Open(path, 0600, nil)
	require.NoError(t, err)
	defer db.Close()
	require.NoError(t, db.View(func(tx *bbolt.Tx) error {
		assert.Nil(t, tx.Bucket([]byte(prefsBucket)).Get([]byte(legacyManualTypeOrdinal)))
		return nil
	}))
}

func TestLockTimeout(t *testing.T) {
	path := filepath.Join(t.TempDir(), "locked.db")
	s := openTestStorage(t, path, 0)
	defer s.Close()

	start := time.Now()
	_, err := NewBoltStorage(StorageConfig{DBPath: path, Defaults: testDefaults()})
	assert.Error(t, err)
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestHistoryRecordAndList(t *testing.T) {
	s := openTestStorage(t, "", 0)
	defer s.Close()
	h := s.History()

	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	data := []byte(`<fmxmlsnippet type="FMObjectList"><Script/></fmxmlsnippet>`)
	for i, dir := range []types.Direction{types.DirectionExport, types.DirectionImport, types.DirectionExport} {
		rec := &types.TransferRecord{
			Direction: dir,
			Tag:       "XMSC",
			Label:     "Script",
			Path:      "/tmp/s.xml",
			Time:      base.Add(time.Duration(i) * time.Minute),
		}
		require.NoError(t, h.Record(rec, data))
		assert.NotEmpty(t, rec.ID)
		assert.Equal(t, len(data), rec.Size)
		assert.NotEmpty(t, rec.Fingerprint)
	}

	all, err := h.List(types.HistoryFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.True(t, all[0].Time.After(all[1].Time), "newest first")
	assert.Equal(t, all[0].Fingerprint, all[2].Fingerprint)

	exports, err := h.List(types.HistoryFilter{Direction: types.DirectionExport})
	require.NoError(t, err)
	assert.Len(t, exports, 2)

	limited, err := h.List(types.HistoryFilter{Limit: 1})
	require.NoError(t, err)
	require.Len(t, limited, 1)
	assert.Equal(t, all[0].ID, limited[0].ID)

	none, err := h.List(types.HistoryFilter{Tag: "XMFD"})
	require.NoError(t, err)
	assert.Empty(t, none)

	payload, err := h.Payload(all[1])
	require.NoError(t, err)
	assert.Equal(t, data, payload)
}

func TestHistoryCompressesLargePayloads(t *testing.T) {
	s := openTestStorage(t, "", 0)
	defer s.Close()

	data := []byte(strings.Repeat(`<Step id="89"/>`, 200))
	rec := &types.TransferRecord{Direction: types.DirectionImport, Tag: "XMSS"}
	require.NoError(t, s.History().Record(rec, data))
	assert.True(t, rec.Compressed)

	got, err := s.History().Get(rec.ID)
	require.NoError(t, err)
	out, err := compression.RecordPayload(got)
	require.NoError(t, err)
	assert.Equal(t, data, out)
}

func TestHistoryTrim(t *testing.T) {
	s := openTestStorage(t, "", 3)
	defer s.Close()
	h := s.History()

	base := time.Now()
	var ids []string
	for i := 0; i < 5; i++ {
		rec := &types.TransferRecord{Direction: types.DirectionExport, Tag: "XMTB", Time: base.Add(time.Duration(i) * time.Second)}
		require.NoError(t, h.Record(rec, []byte("x")))
		ids = append(ids, rec.ID)
	}

	n, err := h.Count()
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	_, err = h.Get(ids[0])
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = h.Get(ids[4])
	assert.NoError(t, err)

	deleted, err := h.Trim(1)
	require.NoError(t, err)
	assert.Equal(t, 2, deleted)

	require.NoError(t, h.Clear())
	n, err = h.Count()
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestHistoryGetByPrefix(t *testing.T) {
	s := openTestStorage(t, "", 0)
	defer s.Close()
	h := s.History()

	for _, id := range []string{"aaaa1111", "aaaa2222", "bbbb3333"} {
		require.NoError(t, h.Add(&types.TransferRecord{ID: id, Time: time.Now(), Tag: "XMFD"}))
	}

	rec, err := h.Get("bbbb")
	require.NoError(t, err)
	assert.Equal(t, "bbbb3333", rec.ID)

	_, err = h.Get("aaaa")
	assert.ErrorIs(t, err, ErrAmbiguous)

	_, err = h.Get("cccc")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = h.Get("")
	assert.ErrorIs(t, err, ErrNotFound)

	assert.Error(t, h.Add(&types.TransferRecord{}))
}
