package main

import (
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/sergi/go-diff/diffmatchpatch"
)

// renderInventory returns the inventory as a two-column table followed by a
// total row.
func renderInventory(inv Inventory) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleLight)
	tw.AppendHeader(table.Row{"TABLE", "RECORDS"})
	for _, t := range inv.Tables {
		tw.AppendRow(table.Row{t.Name, t.Records})
	}
	tw.AppendFooter(table.Row{"TOTAL", inv.Total()})
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, Align: text.AlignRight, AlignFooter: text.AlignRight},
	})
	return tw.Render()
}

// diffContext is how many bytes of unchanged text are kept on each side of
// an edit in the normalizer diff.
const diffContext = 40

// writeNormalizeDiff writes a colourised diff between the raw and the
// normalized dump. Long unchanged stretches are shortened to a little context
// around each repair.
func writeNormalizeDiff(w io.Writer, before, after string) error {
	dmp := diffmatchpatch.New()
	diffs := dmp.DiffCleanupSemantic(dmp.DiffMain(before, after, false))
	for i, d := range diffs {
		if d.Type == diffmatchpatch.DiffEqual {
			d.Text = elideEqual(d.Text, i > 0, i < len(diffs)-1)
			diffs[i] = d
		}
	}
	_, err := io.WriteString(w, dmp.DiffPrettyText(diffs))
	return err
}

// elideEqual shortens an unchanged run, keeping context next to the edits
// on either side.
func elideEqual(s string, editBefore, editAfter bool) string {
	if len(s) <= 2*diffContext {
		return s
	}
	head, tail := "", ""
	if editBefore {
		head = s[:diffContext]
	}
	if editAfter {
		tail = s[len(s)-diffContext:]
	}
	return head + "\n...\n" + tail
}
