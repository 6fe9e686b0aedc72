package skiplist

import (
	"fmt"
	"io"
	"strings"
)

const (
	nodeWidth = 10
	keyWidth  = 6
)

// Dump writes the list in a pretty format: an items/height header line followed by
// one row of boxes per level, with each node in the column of its level 0 position.
// Header and rows come from the same read lock. Should only be used for debugging.
// Not particularly efficient. Would not recommend on larger lists
func (s *SkipList[K, V]) Dump(w io.Writer) error {
	g := s.acquireRead()
	defer g.release()

	_, err := io.WriteString(w, g.dump())
	return err
}

func (g *readGuard[K, V]) dump() string {
	s := g.mustHold()

	keysLoc := make(map[*node[K, V]]int)
	idx := 1
	for n := s.head[0]; n != nil; n = n.next[0] {
		keysLoc[n] = idx
		idx++
	}

	var b strings.Builder
	fmt.Fprintf(&b, "items=%d height=%d\n", s.length, len(s.head))

	for i := len(s.head) - 1; i >= 0; i-- {
		// Levels above the tallest node are empty
		if s.head[i] == nil && i > 0 {
			continue
		}

		dumpRow(&b, s.head, i, keysLoc, "", func(*node[K, V]) string { return strings.Repeat("-", nodeWidth) })
		dumpRow(&b, s.head, i, keysLoc, fmt.Sprintf("L%02d", i), func(n *node[K, V]) string {
			return fmt.Sprintf("|%s|", centre(formatKey(n.item.Key), nodeWidth-2))
		})
		dumpRow(&b, s.head, i, keysLoc, "", func(*node[K, V]) string { return strings.Repeat("-", nodeWidth) })
	}

	return b.String()
}

func dumpRow[K any, V any](b *strings.Builder, head pointerList[K, V], i int, keysLoc map[*node[K, V]]int,
	label string, cell func(*node[K, V]) string) {
	fmt.Fprintf(b, "%-4s", label)

	nextSlot := 1
	for n := head[i]; n != nil; n = n.next[i] {
		loc := keysLoc[n]

		for nextSlot != loc {
			b.WriteString(strings.Repeat(" ", nodeWidth+1))
			nextSlot++
		}

		b.WriteString(cell(n))
		b.WriteString(" ")
		nextSlot++
	}

	b.WriteString("\n")
}

func formatKey(key any) string {
	var s string
	switch k := key.(type) {
	case []byte:
		s = string(k)
	case string:
		s = k
	default:
		s = fmt.Sprint(k)
	}

	if len(s) > keyWidth {
		s = s[0:keyWidth]
	}

	return s
}

func centre(s string, width int) string {
	pad := width - len(s)
	if pad <= 0 {
		return s
	}

	return strings.Repeat(" ", pad/2) + s + strings.Repeat(" ", pad-pad/2)
}
