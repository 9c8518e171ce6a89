package utils

import (
	"fmt"
	"os"

	"github.com/ipfs/go-cid"
	"github.com/multiformats/go-multihash"
)

// Fingerprint returns a CIDv1 (raw codec, sha2-256) for data. Identical
// payloads always give the same string.
func Fingerprint(data []byte) (string, error) {
	mh, err := multihash.Sum(data, multihash.SHA2_256, -1)
	if err != nil {
		return "", fmt.Errorf("failed to hash content: %w", err)
	}
	return cid.NewCidV1(cid.Raw, mh).String(), nil
}

// ShortFingerprint trims a fingerprint for display.
func ShortFingerprint(fp string) string {
	const keep = 12
	if len(fp) <= keep {
		return fp
	}
	return fp[len(fp)-keep:]
}

// Hostname returns the machine name or "unknown".
func Hostname() string {
	name, err := os.Hostname()
	if err != nil || name == "" {
		return "unknown"
	}
	return name
}
