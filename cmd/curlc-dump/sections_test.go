package main

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mbirchal/curlc/internal/compiler/objfile"
)

func TestFormatSectionLine(t *testing.T) {
	line := formatSectionLine(1, objfile.SectionHeader{Name: ".text", Offset: 0x80, Size: 6})
	assert.Contains(t, line, ".text")
	assert.Contains(t, line, "offset=0x80")
	assert.Contains(t, line, "size=6")
}

func TestFormatSectionLineNullSection(t *testing.T) {
	line := formatSectionLine(0, objfile.SectionHeader{Name: ""})
	assert.Contains(t, line, "(null)")
}
