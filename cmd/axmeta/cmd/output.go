package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/gookit/color"
	"github.com/mattn/go-runewidth"
)

const columnGap = "  "

// renderTable writes rows under headers with columns aligned by display
// width, so CJK labels line up.
func renderTable(w io.Writer, headers []string, rows [][]string) {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = runewidth.StringWidth(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if cw := runewidth.StringWidth(cell); i < len(widths) && cw > widths[i] {
				widths[i] = cw
			}
		}
	}

	writeRow(w, headers, widths)
	rule := make([]string, len(widths))
	for i, width := range widths {
		rule[i] = strings.Repeat("-", width)
	}
	writeRow(w, rule, widths)
	for _, row := range rows {
		writeRow(w, row, widths)
	}
}

func writeRow(w io.Writer, cells []string, widths []int) {
	parts := make([]string, len(cells))
	for i, cell := range cells {
		if i < len(cells)-1 && i < len(widths) {
			parts[i] = runewidth.FillRight(cell, widths[i])
		} else {
			parts[i] = cell
		}
	}
	fmt.Fprintln(w, strings.TrimRight(strings.Join(parts, columnGap), " "))
}

func printSuccess(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, color.Green.Sprintf("✓ "+format, args...))
}

func printWarn(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, color.Yellow.Sprintf("! "+format, args...))
}

func printFail(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, color.Red.Sprintf("✗ "+format, args...))
}

func heading(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, color.Bold.Sprintf(format, args...))
}
