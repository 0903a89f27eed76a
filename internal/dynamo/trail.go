package dynamo

import "gonum.org/v1/gonum/spatial/r2"

// DefaultTrailCap is the number of past positions kept per body.
const DefaultTrailCap = 1700

// Trail is a fixed-capacity FIFO of positions. Once full, every Push
// overwrites the oldest point.
type Trail struct {
	buf   []r2.Vec
	start int
	n     int
}

func NewTrail(capacity int) *Trail {
	if capacity < 0 {
		capacity = 0
	}
	return &Trail{buf: make([]r2.Vec, capacity)}
}

// Push appends p, evicting the oldest point when the trail is full.
func (t *Trail) Push(p r2.Vec) {
	c := len(t.buf)
	if c == 0 {
		return
	}
	if t.n < c {
		t.buf[(t.start+t.n)%c] = p
		t.n++
		return
	}
	t.buf[t.start] = p
	t.start = (t.start + 1) % c
}

func (t *Trail) Len() int { return t.n }

// At returns the i-th retained point, 0 being the oldest.
func (t *Trail) At(i int) r2.Vec {
	if i < 0 || i >= t.n {
		panic("dynamo: trail index out of range")
	}
	return t.buf[(t.start+i)%len(t.buf)]
}

// Points copies the retained points, oldest first.
func (t *Trail) Points() []r2.Vec {
	out := make([]r2.Vec, t.n)
	for i := range out {
		out[i] = t.At(i)
	}
	return out
}
