package gltf

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/spf13/afero"

	"github.com/scenetools/glbex/log"
)

// GLB container framing constants (glTF 2.0, little-endian).
const (
	glbMagic   uint32 = 0x46546C67 // "glTF"
	glbVersion uint32 = 2

	chunkTypeJSON uint32 = 0x4E4F534A // "JSON"
	chunkTypeBIN  uint32 = 0x004E4942 // "BIN\0"

	headerSize      uint32 = 12
	chunkHeaderSize uint32 = 8
)

// Chunk payloads are padded to a 4-byte boundary so readers can memory-map
// them aligned: the JSON chunk with spaces, the BIN chunk with zeros.
var (
	jsonPadding = []byte{' ', ' ', ' '}
	binPadding  = []byte{0, 0, 0}
)

// pad4 rounds n up to the next multiple of four.
func pad4(n uint32) uint32 {
	return (n + 3) &^ 3
}

// glbWriter frames a serialized document and the staged payloads into a GLB
// container on the given filesystem.
type glbWriter struct {
	fs     afero.Fs
	path   string
	logger log.Logger
}

// Create a new GLB container writer.
func newGLBWriter(fs afero.Fs, path string, logger log.Logger) *glbWriter {
	return &glbWriter{
		fs:     fs,
		path:   path,
		logger: logger,
	}
}

// fail reports a write-stage diagnostic through the logger and returns the
// matching error.
func (w *glbWriter) fail(format string, args ...interface{}) error {
	w.logger.Errorf(format, args...)
	return fmt.Errorf("gltf: "+format, args...)
}

// write emits the container: 12-byte header, JSON chunk, BIN chunk. Returns
// the container size in bytes. Any failure aborts immediately; bytes already
// written stay on disk, callers that need atomicity should write to a
// temporary path and rename.
func (w *glbWriter) write(jsonDoc []byte, dataItems [][]byte, dataBytes uint32) (uint32, error) {
	jsonLen := pad4(uint32(len(jsonDoc)))
	binLen := pad4(dataBytes)
	totalLength := headerSize + chunkHeaderSize + jsonLen + chunkHeaderSize + binLen

	out, err := w.fs.Create(w.path)
	if err != nil {
		return 0, w.fail("failed to open %s for writing: %s", w.path, err)
	}
	defer out.Close()

	if err = binary.Write(out, binary.LittleEndian, [3]uint32{glbMagic, glbVersion, totalLength}); err != nil {
		return 0, w.fail("%s: error writing header: %s", w.path, err)
	}

	if err = binary.Write(out, binary.LittleEndian, [2]uint32{jsonLen, chunkTypeJSON}); err != nil {
		return 0, w.fail("%s: error writing JSON chunk header: %s", w.path, err)
	}
	if err = writeFull(out, jsonDoc); err == nil {
		err = writeFull(out, jsonPadding[:jsonLen-uint32(len(jsonDoc))])
	}
	if err != nil {
		return 0, w.fail("%s: error writing JSON data: %s", w.path, err)
	}

	if err = binary.Write(out, binary.LittleEndian, [2]uint32{binLen, chunkTypeBIN}); err != nil {
		return 0, w.fail("%s: error writing BIN chunk header: %s", w.path, err)
	}
	var offset uint32
	for _, item := range dataItems {
		if err = writeFull(out, item); err != nil {
			return 0, w.fail("%s: error writing BIN chunk data at offset %d: %s", w.path, offset, err)
		}
		offset += uint32(len(item))
	}
	if err = writeFull(out, binPadding[:binLen-dataBytes]); err != nil {
		return 0, w.fail("%s: error writing BIN chunk data at offset %d: %s", w.path, offset, err)
	}

	return totalLength, nil
}

// writeFull writes all of p, converting a silent short write into an error.
func writeFull(w io.Writer, p []byte) error {
	if len(p) == 0 {
		return nil
	}
	n, err := w.Write(p)
	if err == nil && n < len(p) {
		err = io.ErrShortWrite
	}
	return err
}
