package gltf

import (
	"bytes"
	"encoding/binary"
	"errors"
	"os"
	"strings"
	"testing"

	qgltf "github.com/qmuntal/gltf"
	"github.com/spf13/afero"
	"github.com/tidwall/gjson"

	"github.com/scenetools/glbex/log"
	"github.com/scenetools/glbex/scene"
)

func exportToMem(t *testing.T, store *scene.Store, opts Options) (*Summary, []byte) {
	t.Helper()

	fs := afero.NewMemMapFs()
	opts.Fs = fs
	summary, err := Export(store, opts, "scene.glb")
	if err != nil {
		t.Fatal(err)
	}

	data, err := afero.ReadFile(fs, "scene.glb")
	if err != nil {
		t.Fatal(err)
	}
	return summary, data
}

func u32(data []byte, offset int) uint32 {
	return binary.LittleEndian.Uint32(data[offset:])
}

func TestContainerFraming(t *testing.T) {
	summary, data := exportToMem(t, buildSiblingScene(), Options{})

	if got := u32(data, 0); got != glbMagic {
		t.Fatalf("expected magic %08x; got %08x", glbMagic, got)
	}
	if got := u32(data, 4); got != glbVersion {
		t.Fatalf("expected version %d; got %d", glbVersion, got)
	}
	if got := u32(data, 8); got != uint32(len(data)) {
		t.Fatalf("expected total length %d; got %d", len(data), got)
	}
	if summary.ContainerBytes != uint32(len(data)) {
		t.Fatalf("expected summary container size %d; got %d", len(data), summary.ContainerBytes)
	}

	jsonLen := u32(data, 12)
	if jsonLen%4 != 0 {
		t.Fatalf("expected JSON chunk length to be 4-byte aligned; got %d", jsonLen)
	}
	if got := u32(data, 16); got != chunkTypeJSON {
		t.Fatalf("expected JSON chunk type %08x; got %08x", chunkTypeJSON, got)
	}

	jsonChunk := data[20 : 20+jsonLen]
	for i := uint32(len(bytes.TrimRight(jsonChunk, " "))); i < jsonLen; i++ {
		if jsonChunk[i] != ' ' {
			t.Fatalf("expected space padding in JSON chunk; got %02x", jsonChunk[i])
		}
	}
	if !gjson.ValidBytes(jsonChunk) {
		t.Fatalf("expected JSON chunk to parse; got %s", jsonChunk)
	}
	if got := gjson.GetBytes(jsonChunk, "nodes.#").Int(); got != 3 {
		t.Fatalf("expected 3 nodes in JSON chunk; got %d", got)
	}

	binHeader := 20 + int(jsonLen)
	binLen := u32(data, binHeader)
	if binLen%4 != 0 {
		t.Fatalf("expected BIN chunk length to be 4-byte aligned; got %d", binLen)
	}
	if got := u32(data, binHeader+4); got != chunkTypeBIN {
		t.Fatalf("expected BIN chunk type %08x; got %08x", chunkTypeBIN, got)
	}
	if exp := binHeader + 8 + int(binLen); exp != len(data) {
		t.Fatalf("expected container to end after BIN chunk at %d; got %d", exp, len(data))
	}
}

func TestContainerDecodesAsGLTF(t *testing.T) {
	_, data := exportToMem(t, buildSiblingScene(), Options{})

	doc := new(qgltf.Document)
	if err := qgltf.NewDecoder(bytes.NewReader(data)).Decode(doc); err != nil {
		t.Fatal(err)
	}

	if len(doc.Nodes) != 3 {
		t.Fatalf("expected 3 nodes; got %d", len(doc.Nodes))
	}
	if doc.Nodes[0].Name != "A" || doc.Nodes[1].Name != "C" || doc.Nodes[2].Name != "B" {
		t.Fatalf("unexpected node names: %q %q %q", doc.Nodes[0].Name, doc.Nodes[1].Name, doc.Nodes[2].Name)
	}
	if len(doc.Nodes[2].Children) != 1 || int(doc.Nodes[2].Children[0]) != 1 {
		t.Fatalf("expected node B to reference child 1; got %v", doc.Nodes[2].Children)
	}
	if len(doc.Scenes) != 1 || len(doc.Scenes[0].Nodes) != 2 {
		t.Fatalf("expected one scene with 2 roots; got %+v", doc.Scenes)
	}
	if int(doc.Scenes[0].Nodes[0]) != 0 || int(doc.Scenes[0].Nodes[1]) != 2 {
		t.Fatalf("expected scene roots [0 2]; got %v", doc.Scenes[0].Nodes)
	}
}

func TestEmptySceneContainer(t *testing.T) {
	summary, data := exportToMem(t, scene.NewStore(), Options{})

	if summary.Nodes != 0 || summary.Roots != 0 || summary.PayloadBytes != 0 {
		t.Fatalf("expected empty summary; got %+v", summary)
	}

	jsonLen := u32(data, 12)
	jsonChunk := data[20 : 20+jsonLen]
	if got := gjson.GetBytes(jsonChunk, "nodes").Raw; got != "[]" {
		t.Fatalf("expected empty nodes array; got %s", got)
	}
	if got := gjson.GetBytes(jsonChunk, "scenes.0.nodes").Raw; got != "[]" {
		t.Fatalf("expected empty scene roots; got %s", got)
	}

	// Minimal container: header, JSON chunk, empty BIN chunk.
	if exp := 12 + 8 + int(jsonLen) + 8; exp != len(data) {
		t.Fatalf("expected %d container bytes; got %d", exp, len(data))
	}
	if got := u32(data, 20+int(jsonLen)); got != 0 {
		t.Fatalf("expected empty BIN chunk; got length %d", got)
	}
}

func TestStagedPayloadLayout(t *testing.T) {
	ctx := newExportContext(true)
	payloads := [][]byte{
		[]byte("abcd"),
		[]byte("ef"),
		[]byte("ghijk"),
	}
	offsets := make([]uint32, len(payloads))
	for i, p := range payloads {
		offsets[i] = ctx.register(p, true)
	}

	jsonDoc, err := ctx.doc.marshal()
	if err != nil {
		t.Fatal(err)
	}

	fs := afero.NewMemMapFs()
	logger := log.New("test")
	if _, err = newGLBWriter(fs, "payload.glb", logger).write(jsonDoc, ctx.dataItems, ctx.dataBytes); err != nil {
		t.Fatal(err)
	}

	data, err := afero.ReadFile(fs, "payload.glb")
	if err != nil {
		t.Fatal(err)
	}

	jsonLen := u32(data, 12)
	binHeader := 20 + int(jsonLen)
	binLen := u32(data, binHeader)
	if binLen != pad4(11) {
		t.Fatalf("expected padded BIN length %d; got %d", pad4(11), binLen)
	}

	binChunk := data[binHeader+8:]
	for i, p := range payloads {
		got := binChunk[offsets[i] : offsets[i]+uint32(len(p))]
		if !bytes.Equal(got, p) {
			t.Fatalf("expected payload %d at offset %d to be %q; got %q", i, offsets[i], p, got)
		}
	}
	for i := ctx.dataBytes; i < binLen; i++ {
		if binChunk[i] != 0 {
			t.Fatalf("expected zero padding in BIN chunk; got %02x", binChunk[i])
		}
	}
}

func TestOpenFailure(t *testing.T) {
	var buf bytes.Buffer
	log.SetSink(&buf)
	defer log.SetSink(os.Stdout)

	fs := afero.NewReadOnlyFs(afero.NewMemMapFs())
	logger := log.New("test")

	_, err := Export(buildSiblingScene(), Options{Logger: logger, Fs: fs}, "denied.glb")
	if err == nil || !strings.Contains(err.Error(), "failed to open denied.glb") {
		t.Fatalf("expected open failure; got %v", err)
	}
	if !strings.Contains(buf.String(), "failed to open denied.glb") {
		t.Fatalf("expected diagnostic on the logger; got %q", buf.String())
	}

	if ExportScene(buildSiblingScene(), logger, "denied.glb") {
		t.Fatal("expected ExportScene to report failure")
	}
}

// flakyFs fails any write that would exceed the remaining byte budget.
type flakyFs struct {
	afero.Fs
	budget int
}

func (f *flakyFs) Create(name string) (afero.File, error) {
	file, err := f.Fs.Create(name)
	if err != nil {
		return nil, err
	}
	return &flakyFile{File: file, budget: &f.budget}, nil
}

type flakyFile struct {
	afero.File
	budget *int
}

func (f *flakyFile) Write(p []byte) (int, error) {
	if len(p) > *f.budget {
		return 0, errors.New("device out of space")
	}
	*f.budget -= len(p)
	return f.File.Write(p)
}

func TestWriteFailures(t *testing.T) {
	jsonDoc := []byte("{}")                           // padded to 4 bytes
	items := [][]byte{[]byte("abcd"), []byte("efgh")} // 8 payload bytes, no padding

	tests := []struct {
		name     string
		budget   int
		expError string
	}{
		{"header", 0, "error writing header"},
		{"json chunk header", 12, "error writing JSON chunk header"},
		{"json data", 20, "error writing JSON data"},
		{"bin chunk header", 24, "error writing BIN chunk header"},
		{"bin data offset", 36, "error writing BIN chunk data at offset 4"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := &flakyFs{Fs: afero.NewMemMapFs(), budget: tt.budget}
			w := newGLBWriter(fs, "flaky.glb", log.New("test"))
			_, err := w.write(jsonDoc, items, 8)
			if err == nil || !strings.Contains(err.Error(), tt.expError) {
				t.Fatalf("expected error containing %q; got %v", tt.expError, err)
			}
		})
	}
}

func TestBINPaddingWriteFailure(t *testing.T) {
	// A 2-byte payload forces 2 padding bytes; the budget runs out exactly
	// at the padding write.
	fs := &flakyFs{Fs: afero.NewMemMapFs(), budget: 12 + 8 + 4 + 8 + 2}
	w := newGLBWriter(fs, "flaky.glb", log.New("test"))
	_, err := w.write([]byte("{}"), [][]byte{[]byte("ab")}, 2)
	if err == nil || !strings.Contains(err.Error(), "at offset 2") {
		t.Fatalf("expected padding failure at offset 2; got %v", err)
	}
}
