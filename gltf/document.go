package gltf

import (
	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// document is the top-level glTF JSON structure. The mesh-related arrays are
// always present but still empty; they are reserved for payload description
// once mesh encoding lands.
type document struct {
	Asset       struct{}      `json:"asset"`
	Scene       int           `json:"scene"`
	Scenes      []sceneEntry  `json:"scenes"`
	Nodes       []*node       `json:"nodes"`
	Meshes      []interface{} `json:"meshes"`
	Accessors   []interface{} `json:"accessors"`
	BufferViews []interface{} `json:"bufferViews"`
	Buffers     []interface{} `json:"buffers"`
}

type sceneEntry struct {
	Nodes []uint32 `json:"nodes"`
}

// node mirrors one group of the scene forest. A group with no name,
// attributes or children serializes as an empty object.
type node struct {
	Name     string            `json:"name,omitempty"`
	Extras   map[string]string `json:"extras,omitempty"`
	Children []uint32          `json:"children,omitempty"`
}

// newDocument creates a document with the single default scene and all
// arrays initialized so they serialize as [] rather than null.
func newDocument() *document {
	return &document{
		Scenes:      []sceneEntry{{Nodes: []uint32{}}},
		Nodes:       []*node{},
		Meshes:      []interface{}{},
		Accessors:   []interface{}{},
		BufferViews: []interface{}{},
		Buffers:     []interface{}{},
	}
}

// marshal serializes the document to its compact form used in the JSON chunk.
func (d *document) marshal() ([]byte, error) {
	return json.Marshal(d)
}

// marshalIndent serializes the document in a readable form for debug dumps.
func (d *document) marshalIndent() ([]byte, error) {
	return json.MarshalIndent(d, "", "  ")
}
