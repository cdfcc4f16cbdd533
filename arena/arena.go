// Package arena implements a chunked bump allocator. One arena is created
// per export call; it owns every transient buffer produced while staging a
// scene and is released wholesale when the call ends.
package arena

// DefaultChunkSize is the chunk size used when none is specified (64 KiB).
const DefaultChunkSize = 1 << 16

// chunk is a single backing buffer within an arena.
type chunk struct {
	buf  []byte
	used int
}

// Arena hands out byte regions carved from large chunks. Allocations cannot
// be freed individually; Reset or Release reclaims everything at once.
// Not safe for concurrent use.
type Arena struct {
	chunks    []chunk
	chunkSize int
	size      int
	released  bool
}

// New creates an arena with the given chunk size. A chunkSize <= 0 selects
// DefaultChunkSize.
func New(chunkSize int) *Arena {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	return &Arena{chunkSize: chunkSize}
}

// AllocBytes returns a zeroed n-byte region owned by the arena. The region
// remains valid until Reset or Release. Returns nil if n <= 0.
func (a *Arena) AllocBytes(n int) []byte {
	if n <= 0 {
		return nil
	}
	if a.released {
		panic("arena: use after Release")
	}

	ci := len(a.chunks) - 1
	if ci < 0 || a.chunks[ci].used+n > len(a.chunks[ci].buf) {
		a.grow(n)
		ci = len(a.chunks) - 1
	}

	c := &a.chunks[ci]
	out := c.buf[c.used : c.used+n : c.used+n]
	c.used += n
	a.size += n
	return out
}

// Copy allocates a region of len(src) bytes and copies src into it.
func (a *Arena) Copy(src []byte) []byte {
	dst := a.AllocBytes(len(src))
	copy(dst, src)
	return dst
}

// Size returns the total number of bytes handed out since the last Reset.
func (a *Arena) Size() int {
	return a.size
}

// Reset reclaims all allocations while retaining the backing chunks for
// reuse. Previously returned regions must no longer be used.
func (a *Arena) Reset() {
	for i := range a.chunks {
		a.chunks[i].used = 0
	}
	a.size = 0
}

// Release drops the backing chunks entirely. The arena must not be used
// afterwards.
func (a *Arena) Release() {
	a.chunks = nil
	a.released = true
}

// grow appends a chunk large enough to satisfy an n-byte allocation.
func (a *Arena) grow(n int) {
	size := a.chunkSize
	if n > size {
		size = n
	}
	a.chunks = append(a.chunks, chunk{buf: make([]byte, size)})
}
