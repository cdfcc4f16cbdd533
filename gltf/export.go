// Package gltf exports a scene forest to a self-contained binary glTF (GLB)
// container: a JSON chunk mirroring the File → Model → Group hierarchy and a
// BIN chunk holding staged binary payloads.
package gltf

import (
	"fmt"
	"time"

	"github.com/spf13/afero"

	"github.com/scenetools/glbex/log"
	"github.com/scenetools/glbex/scene"
)

// Options configure one export call.
type Options struct {
	// SkipAttributes disables emission of group attributes as node extras.
	SkipAttributes bool

	// DumpDocument logs the pretty-printed document at debug level after
	// serialization.
	DumpDocument bool

	// Logger receives progress and error diagnostics. Defaults to a
	// package logger.
	Logger log.Logger

	// Fs is the filesystem the container is written to. Defaults to the
	// OS filesystem.
	Fs afero.Fs
}

// Summary describes a completed export.
type Summary struct {
	// Nodes is the number of document nodes emitted (one per group).
	Nodes int
	// Roots is the number of scene root nodes.
	Roots int
	// PayloadBytes is the unpadded size of the staged BIN chunk payloads.
	PayloadBytes uint32
	// ContainerBytes is the total size of the written container.
	ContainerBytes uint32
}

// Export writes the forest held by store to a GLB container at path. The
// store is only read; it must not be mutated by another goroutine for the
// duration of the call. Every failure is logged before it is returned.
func Export(store *scene.Store, opts Options, path string) (*Summary, error) {
	logger := opts.Logger
	if logger == nil {
		logger = log.New("gltf")
	}
	fs := opts.Fs
	if fs == nil {
		fs = afero.NewOsFs()
	}

	start := time.Now()
	logger.Noticef("exporting scene to %s", path)

	ctx := newExportContext(!opts.SkipAttributes)
	defer ctx.arena.Release()

	rootNodes := make([]uint32, 0)
	for _, file := range store.Roots() {
		if err := ctx.processFile(file, &rootNodes); err != nil {
			logger.Error(err)
			return nil, err
		}
	}
	ctx.doc.Scenes[0].Nodes = rootNodes

	jsonDoc, err := ctx.doc.marshal()
	if err != nil {
		err = fmt.Errorf("gltf: error serializing document: %s", err)
		logger.Error(err)
		return nil, err
	}

	if opts.DumpDocument {
		if pretty, perr := ctx.doc.marshalIndent(); perr == nil {
			logger.Debugf("document for %s:\n%s", path, pretty)
		}
	}

	size, err := newGLBWriter(fs, path, logger).write(jsonDoc, ctx.dataItems, ctx.dataBytes)
	if err != nil {
		return nil, err
	}

	logger.Noticef("exported scene in %d ms", time.Since(start).Nanoseconds()/1e6)
	return &Summary{
		Nodes:          len(ctx.doc.Nodes),
		Roots:          len(rootNodes),
		PayloadBytes:   ctx.dataBytes,
		ContainerBytes: size,
	}, nil
}

// ExportScene is the boolean entry point: it exports the forest to path and
// reports success. On failure a prior logger call carries the diagnostic.
func ExportScene(store *scene.Store, logger log.Logger, path string) bool {
	_, err := Export(store, Options{Logger: logger}, path)
	return err == nil
}
