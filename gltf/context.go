package gltf

import (
	"math"

	"github.com/scenetools/glbex/arena"
)

// exportContext carries the state of one export call: the document under
// construction, the staged binary payloads and the arena that owns every
// transient buffer. It is created per call and never shared.
type exportContext struct {
	doc *document

	// Staged BIN chunk payloads in registration order. dataBytes is the
	// running total of their sizes.
	dataItems [][]byte
	dataBytes uint32

	arena *arena.Arena

	includeAttributes bool
}

func newExportContext(includeAttributes bool) *exportContext {
	return &exportContext{
		doc:               newDocument(),
		arena:             arena.New(0),
		includeAttributes: includeAttributes,
	}
}

// register stages a binary payload for the BIN chunk and returns the byte
// offset it will occupy in the chunk. Registration order defines the final
// layout; nothing is sorted or deduplicated. With ownCopy the bytes are
// copied into the arena, otherwise the caller must keep data valid and
// unchanged until the export completes.
//
// Overflowing the 32-bit cumulative payload size is a contract violation
// and panics.
func (ctx *exportContext) register(data []byte, ownCopy bool) uint32 {
	if uint64(ctx.dataBytes)+uint64(len(data)) > math.MaxUint32 {
		panic("gltf: staged payload exceeds the 32-bit chunk size limit")
	}

	if ownCopy {
		data = ctx.arena.Copy(data)
	}
	ctx.dataItems = append(ctx.dataItems, data)

	offset := ctx.dataBytes
	ctx.dataBytes += uint32(len(data))
	return offset
}
