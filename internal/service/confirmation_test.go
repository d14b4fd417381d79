package service

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/require"
)

var codeRE = regexp.MustCompile(`^[0-9A-F]{8}$`)

func TestGenerateCodeFormat(t *testing.T) {
	gen := UUIDCodeGenerator{}

	code, err := gen.Generate()
	require.NoError(t, err)
	require.Regexp(t, codeRE, code)
}

func TestGenerateCodeUnique(t *testing.T) {
	gen := UUIDCodeGenerator{}

	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		code, err := gen.Generate()
		require.NoError(t, err)
		require.False(t, seen[code], "duplicate code %s", code)
		seen[code] = true
	}
}
