package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateSlug(t *testing.T) {
	cases := map[string]string{
		"Cats":              "cats",
		"Café Society":      "cafe-society",
		"  Lev   Tolstoy  ": "lev-tolstoy",
		"Nguyễn Nhật Ánh":   "nguyen-nhat-anh",
		"Đà Lạt":            "da-lat",
		"Rock & Roll!":      "rock-roll",
		"snake_case stays":  "snake_case-stays",
		"---":               "",
		"Größe":             "grosse",
	}

	for in, want := range cases {
		assert.Equal(t, want, GenerateSlug(in), in)
	}
}

func TestTruncateSlug(t *testing.T) {
	assert.Equal(t, "abc", TruncateSlug("abc", 10))
	assert.Equal(t, "abc", TruncateSlug("abc-def", 4))
}
