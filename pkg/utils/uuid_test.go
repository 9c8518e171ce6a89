package utils

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewID(t *testing.T) {
	re := regexp.MustCompile(`^[0-9a-f]{8}-[0-9a-f]{4}-4[0-9a-f]{3}-[89ab][0-9a-f]{3}-[0-9a-f]{12}$`)

	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		id := NewID()
		assert.Regexp(t, re, id)
		assert.False(t, seen[id], "duplicate id %s", id)
		seen[id] = true
	}
}
