package reader

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/scenetools/glbex/scene"
)

// The Reader interface is implemented by all scene description readers.
type Reader interface {
	// Read scene definition from a stream.
	Read(io.Reader) (*scene.Store, error)
}

// Read scene from file.
func ReadScene(filename string) (*scene.Store, error) {
	// Select reader based on file extension
	var reader Reader
	if strings.HasSuffix(filename, ".json") {
		reader = newJSONReader()
	} else {
		return nil, fmt.Errorf("reader: unsupported file format")
	}

	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return reader.Read(f)
}
