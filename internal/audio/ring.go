package audio

import "sync"

// Ring keeps the most recent mono samples. Writers are audio callbacks and
// the reader is the analyser on the draw goroutine.
type Ring struct {
	mu   sync.RWMutex
	buf  []float64
	next int
	size int // samples written, capped at len(buf)
}

func NewRing(capacity int) *Ring {
	if capacity < 1 {
		capacity = 1
	}
	return &Ring{buf: make([]float64, capacity)}
}

func (r *Ring) Cap() int { return len(r.buf) }

func (r *Ring) Write(samples []float64) {
	r.mu.Lock()
	for _, s := range samples {
		r.push(s)
	}
	r.mu.Unlock()
}

// WriteStereo mixes each frame down to mono before storing it.
func (r *Ring) WriteStereo(samples [][2]float64) {
	r.mu.Lock()
	for _, s := range samples {
		r.push((s[0] + s[1]) * 0.5)
	}
	r.mu.Unlock()
}

func (r *Ring) push(s float64) {
	r.buf[r.next] = s
	r.next++
	if r.next >= len(r.buf) {
		r.next = 0
	}
	if r.size < len(r.buf) {
		r.size++
	}
}

// Latest copies the newest samples into dst, most recent last. When fewer
// than len(dst) samples exist, the front of dst is zero-filled. It returns
// the number of real samples copied.
func (r *Ring) Latest(dst []float64) int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n := min(len(dst), r.size)
	pad := len(dst) - n
	for i := 0; i < pad; i++ {
		dst[i] = 0
	}
	idx := r.next - n
	if idx < 0 {
		idx += len(r.buf)
	}
	for i := pad; i < len(dst); i++ {
		dst[i] = r.buf[idx]
		idx++
		if idx >= len(r.buf) {
			idx = 0
		}
	}
	return n
}

// Reset forgets everything written so far.
func (r *Ring) Reset() {
	r.mu.Lock()
	for i := range r.buf {
		r.buf[i] = 0
	}
	r.next, r.size = 0, 0
	r.mu.Unlock()
}
