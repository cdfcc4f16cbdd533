package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli"

	"github.com/scenetools/glbex/gltf"
	"github.com/scenetools/glbex/scene/reader"
)

// Export a scene description to a GLB container.
func ExportScene(ctx *cli.Context) error {
	setupLogging(ctx)

	if ctx.NArg() != 1 {
		return errors.New("missing scene description file")
	}

	sceneFile := ctx.Args().First()
	logger.Noticef("loading scene: %s", sceneFile)
	store, err := reader.ReadScene(sceneFile)
	if err != nil {
		logger.Error(err)
		return err
	}

	out := ctx.String("out")
	if out == "" {
		out = strings.TrimSuffix(sceneFile, filepath.Ext(sceneFile)) + ".glb"
	}

	opts := gltf.Options{
		SkipAttributes: ctx.Bool("skip-attributes"),
		DumpDocument:   ctx.Bool("dump"),
		Logger:         logger,
	}
	summary, err := gltf.Export(store, opts, out)
	if err != nil {
		return err
	}

	displayExportStats(out, summary)
	return nil
}

// Display scene description info.
func ShowSceneInfo(ctx *cli.Context) error {
	setupLogging(ctx)

	if ctx.NArg() != 1 {
		return errors.New("missing scene description file")
	}

	store, err := reader.ReadScene(ctx.Args().First())
	if err != nil {
		logger.Error(err)
		return err
	}

	logger.Noticef("scene information:\n%s", store.Stats())
	return nil
}

// Render a tabular summary of a completed export.
func displayExportStats(out string, summary *gltf.Summary) {
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetAutoFormatHeaders(false)
	table.SetHeader([]string{"Output", "Nodes", "Scene roots", "Payload bytes", "Container bytes"})
	table.Append([]string{
		out,
		fmt.Sprintf("%d", summary.Nodes),
		fmt.Sprintf("%d", summary.Roots),
		fmt.Sprintf("%d", summary.PayloadBytes),
		fmt.Sprintf("%d", summary.ContainerBytes),
	})
	table.Render()
	logger.Noticef("export statistics\n%s", buf.String())
}
