package main

import (
	"os"

	"github.com/urfave/cli"

	"github.com/scenetools/glbex/cmd"
)

func main() {
	cli.VersionFlag = cli.BoolFlag{
		Name:  "version",
		Usage: "print only the version",
	}

	app := cli.NewApp()
	app.Name = "glbex"
	app.Usage = "export hierarchical scenes to binary glTF (GLB) containers"
	app.Version = "0.1.0"
	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:  "v",
			Usage: "enable verbose logging",
		},
		cli.BoolFlag{
			Name:  "vv",
			Usage: "enable even more verbose logging",
		},
	}
	app.Commands = []cli.Command{
		{
			Name:  "export",
			Usage: "export a scene description to a GLB container",
			Description: `
Read a hierarchical scene description (file/model/group forest with optional
key/value attributes) and write it as a self-contained binary glTF container:
a JSON chunk mirroring the hierarchy followed by a BIN payload chunk.`,
			ArgsUsage: "scene.json",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "out, o",
					Usage: "output filename; defaults to the input name with a .glb extension",
				},
				cli.BoolFlag{
					Name:  "skip-attributes",
					Usage: "do not emit group attributes as node extras",
				},
				cli.BoolFlag{
					Name:  "dump",
					Usage: "log the pretty-printed JSON document (requires -vv)",
				},
			},
			Action: cmd.ExportScene,
		},
		{
			Name:      "info",
			Usage:     "display scene description statistics",
			ArgsUsage: "scene.json",
			Action:    cmd.ShowSceneInfo,
		},
	}

	app.Run(os.Args)
}
