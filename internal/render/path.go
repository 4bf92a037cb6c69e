package render

import (
	"strconv"
	"strings"
)

// Path op codes. The structured command list is the canonical geometry
// representation; distortion and caching operate on it, and the SVG string
// is produced only at the final serialization step.
const (
	OpMove  = 'M'
	OpLine  = 'L'
	OpClose = 'Z'
)

// PathCommand is one typed path instruction. Close carries no coordinates.
type PathCommand struct {
	Op byte    `json:"op"`
	X  float64 `json:"x"`
	Y  float64 `json:"y"`
}

// Path is an ordered command list with a stable identity. The ID keys the
// undistorted-geometry cache, so it must not change across re-renders of
// the same entity.
type Path struct {
	ID       string        `json:"id"`
	Commands []PathCommand `json:"-"`
}

// RingPath builds a closed path from ring vertices in frame coordinates
func RingPath(id string, xs, ys []float64) Path {
	n := len(xs)
	if n > len(ys) {
		n = len(ys)
	}

	p := Path{ID: id, Commands: make([]PathCommand, 0, n+1)}
	for i := 0; i < n; i++ {
		op := byte(OpLine)
		if i == 0 {
			op = OpMove
		}
		p.Commands = append(p.Commands, PathCommand{Op: op, X: xs[i], Y: ys[i]})
	}
	if n > 0 {
		p.Commands = append(p.Commands, PathCommand{Op: OpClose})
	}
	return p
}

// Clone deep-copies the path so cached originals are never aliased by
// distorted copies
func (p Path) Clone() Path {
	commands := make([]PathCommand, len(p.Commands))
	copy(commands, p.Commands)
	return Path{ID: p.ID, Commands: commands}
}

// String serializes the command list to SVG path syntax
func (p Path) String() string {
	var b strings.Builder
	for i, c := range p.Commands {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteByte(c.Op)
		if c.Op == OpClose {
			continue
		}
		b.WriteString(formatCoord(c.X))
		b.WriteByte(',')
		b.WriteString(formatCoord(c.Y))
	}
	return b.String()
}

// MarshalJSON emits the serialized SVG string alongside the ID
func (p Path) MarshalJSON() ([]byte, error) {
	var b strings.Builder
	b.WriteString(`{"id":`)
	b.WriteString(strconv.Quote(p.ID))
	b.WriteString(`,"d":`)
	b.WriteString(strconv.Quote(p.String()))
	b.WriteByte('}')
	return []byte(b.String()), nil
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
