// portalvis - inspect portal visibility in baked levels.
//
// Levels are YAML files of areas, portals and a BSP; scenes place box,
// sphere and GLB mesh primitives into them. Every command takes a level
// file and an optional scene file.
//
//	portalvis stats   level.yaml [scene.yaml]
//	portalvis query   --eye 2,5,5 --target 15,5,5 level.yaml scene.yaml
//	portalvis raycast --from 2,5,5 --to 30,5,5 level.yaml scene.yaml
//	portalvis bench   level.yaml scene.yaml
//	portalvis debug   --eye 2,5,5 --target 15,5,5 -o vis.png level.yaml scene.yaml
//	portalvis view    level.yaml scene.yaml
package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli"
)

func main() {
	app := cli.NewApp()
	app.Name = "portalvis"
	app.Usage = "query portal visibility and raycasts in baked levels"
	app.Version = "0.1.0"
	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:  "config, c",
			Usage: "TOML config file",
		},
		cli.BoolFlag{
			Name:  "v",
			Usage: "enable verbose logging",
		},
		cli.BoolFlag{
			Name:  "vv",
			Usage: "enable even more verbose logging",
		},
	}

	viewFlags := []cli.Flag{
		cli.StringFlag{
			Name:  "eye",
			Usage: "viewer position x,y,z (default: centre of area 0)",
		},
		cli.StringFlag{
			Name:  "target",
			Usage: "point to look at x,y,z (default: along -Z)",
		},
	}

	app.Commands = []cli.Command{
		{
			Name:      "stats",
			Usage:     "print level and link statistics",
			ArgsUsage: "level.yaml [scene.yaml]",
			Action:    Stats,
		},
		{
			Name:  "query",
			Usage: "list the primitives and areas visible from a viewpoint",
			Description: `
Flood the portal graph from the viewer's area, narrowing the view frustum at
each portal, and print every primitive that survives culling together with
the areas reached and their screen scissors.`,
			ArgsUsage: "level.yaml [scene.yaml]",
			Flags: append(viewFlags,
				cli.StringFlag{
					Name:  "visibility",
					Value: "all",
					Usage: "visibility group mask, a number or \"all\"",
				},
				cli.BoolFlag{
					Name:  "shadow",
					Usage: "query shadow casters instead of visible primitives",
				},
			),
			Action: Query,
		},
		{
			Name:      "raycast",
			Usage:     "cast a segment through the level",
			ArgsUsage: "level.yaml [scene.yaml]",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "from",
					Usage: "segment start x,y,z",
				},
				cli.StringFlag{
					Name:  "to",
					Usage: "segment end x,y,z",
				},
				cli.StringFlag{
					Name:  "mode, m",
					Value: "all",
					Usage: "all, closest or bounds",
				},
			},
			Action: Raycast,
		},
		{
			Name:      "bench",
			Usage:     "run random queries and raycasts on several goroutines",
			ArgsUsage: "level.yaml [scene.yaml]",
			Flags: []cli.Flag{
				cli.IntFlag{
					Name:  "workers, w",
					Usage: "worker goroutines (default from config)",
				},
				cli.IntFlag{
					Name:  "rays, n",
					Usage: "operations per kind (default from config)",
				},
			},
			Action: Bench,
		},
		{
			Name:      "debug",
			Usage:     "render a debug overlay of the level to a PNG",
			ArgsUsage: "level.yaml [scene.yaml]",
			Flags: append(viewFlags,
				cli.StringFlag{
					Name:  "out, o",
					Value: "vis.png",
					Usage: "image filename",
				},
				cli.BoolFlag{
					Name:  "all",
					Usage: "draw every primitive, not only the visible ones",
				},
			),
			Action: Debug,
		},
		{
			Name:      "view",
			Usage:     "walk through the level in the terminal",
			ArgsUsage: "level.yaml [scene.yaml]",
			Flags: append(viewFlags,
				cli.IntFlag{
					Name:  "fps",
					Value: 30,
					Usage: "target frames per second",
				},
			),
			Action: View,
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
