package status

import (
	"fmt"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// Algorithm selects the line-matching strategy behind UnifiedDiff.
type Algorithm int

const (
	Myers Algorithm = iota
	Patience
)

// DefaultContext is the number of unchanged context lines shown around a
// change, matching git's own default of 3.
const DefaultContext = 3

// lineOp is one line of an edit script: -1 delete, 0 equal, +1 insert.
type lineOp struct {
	kind int
	line string
}

// UnifiedDiff renders a git-style unified diff between aPath/aContent and
// bPath/bContent. If either side looks binary, it returns the short binary
// marker line instead of a textual diff.
func UnifiedDiff(aPath string, aContent []byte, bPath string, bContent []byte, algo Algorithm, context int) string {
	if IsBinary(aContent) || IsBinary(bContent) {
		return fmt.Sprintf("Binary files a/%s and b/%s differ\n", aPath, bPath)
	}
	if context <= 0 {
		context = DefaultContext
	}

	aLines := splitLines(string(aContent))
	bLines := splitLines(string(bContent))

	var ops []lineOp
	switch algo {
	case Patience:
		ops = patienceDiff(aLines, bLines)
	default:
		ops = myersDiff(aLines, bLines)
	}

	hunks := buildHunks(ops, context)
	if len(hunks) == 0 {
		return ""
	}

	var b strings.Builder
	fmt.Fprintf(&b, "--- a/%s\n", aPath)
	fmt.Fprintf(&b, "+++ b/%s\n", bPath)
	for _, h := range hunks {
		b.WriteString(h)
	}
	return b.String()
}

func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	lines := strings.Split(s, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

// myersDiff delegates line-level diffing to go-diff's character-level
// Myers implementation by first tokenizing lines into opaque runes, the
// standard technique diffmatchpatch itself documents for line diffing.
func myersDiff(a, b []string) []lineOp {
	dmp := diffmatchpatch.New()
	aText, bText, lineArray := dmp.DiffLinesToChars(strings.Join(appendNL(a), ""), strings.Join(appendNL(b), ""))
	diffs := dmp.DiffMainRunes([]rune(aText), []rune(bText), false)
	diffs = dmp.DiffCharsToLines(diffs, lineArray)

	var ops []lineOp
	for _, d := range diffs {
		for _, line := range splitLines(d.Text) {
			switch d.Type {
			case diffmatchpatch.DiffDelete:
				ops = append(ops, lineOp{kind: -1, line: line})
			case diffmatchpatch.DiffInsert:
				ops = append(ops, lineOp{kind: 1, line: line})
			default:
				ops = append(ops, lineOp{kind: 0, line: line})
			}
		}
	}
	return ops
}

func appendNL(lines []string) []string {
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = l + "\n"
	}
	return out
}

// patienceDiff implements the patience diff algorithm: align unique common
// lines between a and b as anchors, recursively diff the gaps between
// anchors with the same strategy, and fall back to a straight
// delete-then-insert for gaps with no unique anchor. No corpus library
// implements this algorithm, so it is hand-rolled here.
func patienceDiff(a, b []string) []lineOp {
	if len(a) == 0 && len(b) == 0 {
		return nil
	}
	anchors := uniqueCommonAnchors(a, b)
	if len(anchors) == 0 {
		return straightReplace(a, b)
	}

	var ops []lineOp
	prevA, prevB := 0, 0
	for _, anc := range anchors {
		ops = append(ops, patienceDiff(a[prevA:anc.aIdx], b[prevB:anc.bIdx])...)
		ops = append(ops, lineOp{kind: 0, line: a[anc.aIdx]})
		prevA, prevB = anc.aIdx+1, anc.bIdx+1
	}
	ops = append(ops, patienceDiff(a[prevA:], b[prevB:])...)
	return ops
}

type anchor struct {
	aIdx, bIdx int
}

// uniqueCommonAnchors finds lines that occur exactly once in both a and b,
// then returns their index pairs in an order forming the longest strictly
// increasing subsequence by b-index (patience sorting over the sequence
// of b-indices, keyed by a-order).
func uniqueCommonAnchors(a, b []string) []anchor {
	countA := make(map[string]int)
	for _, l := range a {
		countA[l]++
	}
	countB := make(map[string]int)
	for _, l := range b {
		countB[l]++
	}
	bIndex := make(map[string]int)
	for i, l := range b {
		if countB[l] == 1 {
			bIndex[l] = i
		}
	}

	var candidates []anchor
	for i, l := range a {
		if countA[l] != 1 {
			continue
		}
		if j, ok := bIndex[l]; ok {
			candidates = append(candidates, anchor{aIdx: i, bIdx: j})
		}
	}

	return longestIncreasingByB(candidates)
}

// longestIncreasingByB returns the subsequence of candidates (already in
// a-index order) with strictly increasing b-index, longest such
// subsequence, via standard patience-sorting-based LIS in O(n log n).
func longestIncreasingByB(candidates []anchor) []anchor {
	if len(candidates) == 0 {
		return nil
	}
	piles := make([]int, 0, len(candidates)) // indices into candidates, tails of each pile
	prev := make([]int, len(candidates))
	for i := range prev {
		prev[i] = -1
	}

	for i, c := range candidates {
		lo, hi := 0, len(piles)
		for lo < hi {
			mid := (lo + hi) / 2
			if candidates[piles[mid]].bIdx < c.bIdx {
				lo = mid + 1
			} else {
				hi = mid
			}
		}
		if lo > 0 {
			prev[i] = piles[lo-1]
		}
		if lo == len(piles) {
			piles = append(piles, i)
		} else {
			piles[lo] = i
		}
	}

	var seq []anchor
	for at := piles[len(piles)-1]; at != -1; at = prev[at] {
		seq = append(seq, candidates[at])
	}
	for i, j := 0, len(seq)-1; i < j; i, j = i+1, j-1 {
		seq[i], seq[j] = seq[j], seq[i]
	}
	return seq
}

func straightReplace(a, b []string) []lineOp {
	var ops []lineOp
	for _, l := range a {
		ops = append(ops, lineOp{kind: -1, line: l})
	}
	for _, l := range b {
		ops = append(ops, lineOp{kind: 1, line: l})
	}
	return ops
}

type hunkLine struct {
	op   lineOp
	aLn  int
	bLn  int
}

// buildHunks groups an edit script into git-style @@ hunks with the given
// amount of unchanged context on either side of each change run.
func buildHunks(ops []lineOp, context int) []string {
	// Number each line in both old and new coordinates as we walk the script.
	lines := make([]hunkLine, 0, len(ops))
	aLn, bLn := 0, 0
	for _, op := range ops {
		switch op.kind {
		case -1:
			aLn++
			lines = append(lines, hunkLine{op: op, aLn: aLn, bLn: bLn})
		case 1:
			bLn++
			lines = append(lines, hunkLine{op: op, aLn: aLn, bLn: bLn})
		default:
			aLn++
			bLn++
			lines = append(lines, hunkLine{op: op, aLn: aLn, bLn: bLn})
		}
	}

	type run struct{ start, end int }
	var changes []run
	for i, l := range lines {
		if l.op.kind == 0 {
			continue
		}
		if len(changes) > 0 && i <= changes[len(changes)-1].end+1 {
			changes[len(changes)-1].end = i
			continue
		}
		changes = append(changes, run{start: i, end: i})
	}
	if len(changes) == 0 {
		return nil
	}

	// Merge change runs whose context windows overlap.
	var merged []run
	for _, c := range changes {
		lo := maxInt(0, c.start-context)
		hi := minInt(len(lines)-1, c.end+context)
		if len(merged) > 0 && lo <= merged[len(merged)-1].end+1 {
			if hi > merged[len(merged)-1].end {
				merged[len(merged)-1].end = hi
			}
			continue
		}
		merged = append(merged, run{start: lo, end: hi})
	}

	var hunks []string
	for _, m := range merged {
		hunks = append(hunks, renderHunk(lines[m.start:m.end+1]))
	}
	return hunks
}

func renderHunk(lines []hunkLine) string {
	if len(lines) == 0 {
		return ""
	}
	aStart, bStart := lines[0].aLn, lines[0].bLn
	var aCount, bCount int
	var body strings.Builder
	for _, l := range lines {
		switch l.op.kind {
		case -1:
			aCount++
			fmt.Fprintf(&body, "-%s\n", l.op.line)
		case 1:
			bCount++
			fmt.Fprintf(&body, "+%s\n", l.op.line)
		default:
			aCount++
			bCount++
			fmt.Fprintf(&body, " %s\n", l.op.line)
		}
	}
	if aCount == 0 {
		aStart = 0
	}
	if bCount == 0 {
		bStart = 0
	}
	header := fmt.Sprintf("@@ -%d,%d +%d,%d @@\n", aStart, aCount, bStart, bCount)
	return header + body.String()
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
