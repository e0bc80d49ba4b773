package report

import (
	"fmt"
	"strings"
)

// doc accumulates a markdown document.
type doc struct {
	b strings.Builder
}

func (d *doc) h1(format string, args ...any) { d.line("# " + fmt.Sprintf(format, args...)) }
func (d *doc) h2(text string)                { d.line("## " + text) }

func (d *doc) para(format string, args ...any) { d.line(fmt.Sprintf(format, args...)) }

func (d *doc) line(s string) {
	d.b.WriteString(s)
	d.b.WriteString("\n\n")
}

// table writes a GFM table. A table without rows prints empty instead.
func (d *doc) table(empty string, header []string, rows [][]string) {
	if len(rows) == 0 {
		d.line("_" + empty + "_")
		return
	}
	writeRow := func(cells []string) {
		d.b.WriteString("|")
		for _, c := range cells {
			d.b.WriteString(" ")
			d.b.WriteString(cell(c))
			d.b.WriteString(" |")
		}
		d.b.WriteString("\n")
	}
	writeRow(header)
	sep := make([]string, len(header))
	for i := range sep {
		sep[i] = "---"
	}
	writeRow(sep)
	for _, r := range rows {
		writeRow(r)
	}
	d.b.WriteString("\n")
}

func (d *doc) String() string { return d.b.String() }

var cellReplacer = strings.NewReplacer("|", `\|`, "\n", " ", "\r", "")

func cell(s string) string { return cellReplacer.Replace(s) }
