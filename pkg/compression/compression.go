package compression

import (
	"bytes"
	"compress/gzip"
	"encoding/base64"
	"fmt"
	"io"

	"github.com/berrythewa/fmclip/internal/types"
)

// Threshold is the payload size from which snapshots are compressed.
const Threshold = 1024 // 1KB

// Compress gzips data and base64-encodes it when it reaches Threshold.
// Smaller payloads are returned as is with compressed=false.
func Compress(data []byte) (payload string, compressed bool, err error) {
	if len(data) < Threshold {
		return string(data), false, nil
	}

	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	if _, err := zw.Write(data); err != nil {
		return "", false, fmt.Errorf("failed to compress: %w", err)
	}
	if err := zw.Close(); err != nil {
		return "", false, fmt.Errorf("failed to compress: %w", err)
	}

	return base64.StdEncoding.EncodeToString(buf.Bytes()), true, nil
}

// Decompress reverses Compress.
func Decompress(payload string, compressed bool) ([]byte, error) {
	if !compressed {
		return []byte(payload), nil
	}

	decoded, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to decode payload: %w", err)
	}

	zr, err := gzip.NewReader(bytes.NewReader(decoded))
	if err != nil {
		return nil, fmt.Errorf("failed to open gzip stream: %w", err)
	}
	defer zr.Close()

	data, err := io.ReadAll(zr)
	if err != nil {
		return nil, fmt.Errorf("failed to decompress: %w", err)
	}
	return data, nil
}

// AttachPayload stores a snapshot of data on rec.
func AttachPayload(rec *types.TransferRecord, data []byte) error {
	payload, compressed, err := Compress(data)
	if err != nil {
		return err
	}
	rec.Payload = payload
	rec.Compressed = compressed
	return nil
}

// RecordPayload returns the snapshot stored on rec.
func RecordPayload(rec *types.TransferRecord) ([]byte, error) {
	if !rec.HasPayload() {
		return nil, fmt.Errorf("record %s has no payload", rec.ID)
	}
	return Decompress(rec.Payload, rec.Compressed)
}
