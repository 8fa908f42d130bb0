package lint

import "sort"

// ApplyFixes applies the first fix of every diagnostic to src. Edits that
// overlap an edit already applied are skipped. It returns the new text and
// the number of edits applied.
func ApplyFixes(src string, diags []Diagnostic) (string, int) {
	var edits []TextEdit
	for _, d := range diags {
		if len(d.Fixes) > 0 {
			edits = append(edits, d.Fixes[0].TextEdits...)
		}
	}
	sort.SliceStable(edits, func(i, j int) bool { return edits[i].Pos.Offset > edits[j].Pos.Offset })

	applied := 0
	limit := len(src) + 1
	for _, e := range edits {
		if e.EndPos.Offset > limit || e.Pos.Offset > e.EndPos.Offset || e.EndPos.Offset > len(src) {
			continue
		}
		src = src[:e.Pos.Offset] + e.NewText + src[e.EndPos.Offset:]
		limit = e.Pos.Offset
		applied++
	}
	return src, applied
}
