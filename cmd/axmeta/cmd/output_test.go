package cmd

import (
	"bytes"
	"strings"
	"testing"

	"github.com/mattn/go-runewidth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderTableAlignsWideRunes(t *testing.T) {
	var buf bytes.Buffer
	renderTable(&buf, []string{"FIELD", "LABEL", "TYPE"}, [][]string{
		{"AccountNum", "客户账户", "nvarchar"},
		{"Name", "名称", "nvarchar"},
	})

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "FIELD       LABEL     TYPE", lines[0])
	assert.Equal(t, "----------  --------  --------", lines[1])

	// The third column starts at the same display offset on every row.
	col := runewidth.StringWidth("AccountNum  客户账户  ")
	for _, line := range lines[2:] {
		assert.Equal(t, "nvarchar", runewidth.Truncate(trimWidth(line, col), 8, ""))
	}
}

func TestRenderTableEmpty(t *testing.T) {
	var buf bytes.Buffer
	renderTable(&buf, []string{"ID", "TEXT"}, nil)
	assert.Equal(t, "ID  TEXT\n--  ----\n", buf.String())
}

// trimWidth drops the first n display columns of s.
func trimWidth(s string, n int) string {
	w := 0
	for i, r := range s {
		if w >= n {
			return s[i:]
		}
		w += runewidth.RuneWidth(r)
	}
	return ""
}
