package utils

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestValidSessionID(t *testing.T) {
	assert.True(t, ValidSessionID("caller_1-abc"))
	assert.True(t, ValidSessionID("3f1c9a6e-8d5b-4a7e-9c2f-1b2d3e4f5a6b"))
	assert.False(t, ValidSessionID(""))
	assert.False(t, ValidSessionID("a b"))
	assert.False(t, ValidSessionID("../etc"))
	assert.False(t, ValidSessionID("dialogue:session:x"))
	assert.False(t, ValidSessionID(strings.Repeat("a", 129)))
}

func TestSanitizeUtterance(t *testing.T) {
	assert.Equal(t, "I'm John scriptalert(1)/script", SanitizeUtterance("  I'm John <script>alert(1)</script>; "))
	assert.Equal(t, "say hi", SanitizeUtterance("say \"hi`\""))
	assert.Equal(t, "", SanitizeUtterance("  <>  "))

	long := SanitizeUtterance(strings.Repeat("é", 600))
	assert.Equal(t, MaxUtteranceRunes, utf8.RuneCountInString(long))
}
