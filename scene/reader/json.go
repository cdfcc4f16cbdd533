package reader

import (
	"fmt"
	"io"
	"sort"

	jsoniter "github.com/json-iterator/go"

	"github.com/scenetools/glbex/scene"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// The JSON text form of a scene forest:
//
//	{"files": [{"name": "...", "models": [{"name": "...", "groups": [
//	    {"name": "...", "attributes": {"k": "v"}, "groups": [...]}
//	]}]}]}
type sceneDesc struct {
	Files []fileDesc `json:"files"`
}

type fileDesc struct {
	Name   string      `json:"name"`
	Models []modelDesc `json:"models"`
}

type modelDesc struct {
	Name   string      `json:"name"`
	Groups []groupDesc `json:"groups"`
}

type groupDesc struct {
	Name       string            `json:"name"`
	Attributes map[string]string `json:"attributes"`
	Groups     []groupDesc       `json:"groups"`
}

type jsonReader struct{}

// Create a new reader for JSON scene descriptions.
func newJSONReader() *jsonReader {
	return &jsonReader{}
}

// Read scene definition from a stream.
func (r *jsonReader) Read(in io.Reader) (*scene.Store, error) {
	var desc sceneDesc
	if err := json.NewDecoder(in).Decode(&desc); err != nil {
		return nil, fmt.Errorf("reader: malformed scene description: %s", err)
	}

	store := scene.NewStore()
	for _, f := range desc.Files {
		file := store.NewFile(f.Name)
		for _, m := range f.Models {
			model := file.NewModel(m.Name)
			for _, g := range m.Groups {
				buildGroup(model, g)
			}
		}
	}
	return store, nil
}

func buildGroup(parent *scene.Group, desc groupDesc) {
	group := parent.NewGroup(desc.Name)

	// JSON objects carry no order; sort keys so rebuilt forests are
	// deterministic.
	keys := make([]string, 0, len(desc.Attributes))
	for key := range desc.Attributes {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		group.AddAttribute(key, desc.Attributes[key])
	}

	for _, child := range desc.Groups {
		buildGroup(group, child)
	}
}
