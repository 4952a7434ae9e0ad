package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/bodgit/pidtool"
	"github.com/bodgit/pidtool/pid"
	"github.com/urfave/cli/v2"
)

const defaultDB = "pidtool.db"

func init() {
	cli.VersionFlag = &cli.BoolFlag{
		Name:    "version",
		Aliases: []string{"V"},
		Usage:   "print the version",
	}
}

func newLogger(c *cli.Context) *log.Logger {
	logger := log.New(io.Discard, "", 0)
	if c.Bool("verbose") {
		logger.SetOutput(os.Stderr)
	}
	return logger
}

func main() {
	app := cli.NewApp()

	app.Name = "pidtool"
	app.Usage = "PID image asset utility"
	app.Version = "1.0.0"

	cwd, err := os.Getwd()
	if err != nil {
		log.Fatal(err)
	}

	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:    "db",
			EnvVars: []string{"PIDTOOL_DB"},
			Value:   filepath.Join(cwd, defaultDB),
			Usage:   "path to database",
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"v"},
			Usage:   "increase verbosity",
		},
	}

	// Invoking the tool with two paths and no command converts, which
	// is all most people want from it.
	app.ArgsUsage = "[INPUT OUTPUT]"
	app.Action = func(c *cli.Context) error {
		if c.NArg() < 2 {
			return cli.ShowAppHelp(c)
		}
		return convert(c.Args().Get(0), c.Args().Get(1))
	}

	app.Commands = []*cli.Command{
		{
			Name:        "convert",
			Usage:       "Convert a PID image to a common raster format",
			Description: "The output format is chosen by the extension of OUTPUT; .png, .gif, .jpg, .bmp and .tiff are understood.",
			ArgsUsage:   "INPUT OUTPUT",
			Action: func(c *cli.Context) error {
				if c.NArg() < 2 {
					return cli.ShowSubcommandHelp(c)
				}
				return convert(c.Args().Get(0), c.Args().Get(1))
			},
		},
		{
			Name:        "info",
			Usage:       "Show the header of a PID image",
			Description: "",
			ArgsUsage:   "FILE",
			Action: func(c *cli.Context) error {
				if c.NArg() < 1 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				return info(c.Args().First())
			},
		},
		{
			Name:        "scan",
			Usage:       "Scan filesystem, catalogue assets and generate manifests",
			Description: "",
			ArgsUsage:   "DIRECTORY",
			Action: func(c *cli.Context) error {
				if c.NArg() < 1 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				m, err := pidtool.New(c.String("db"), newLogger(c))
				if err != nil {
					return cli.NewExitError(err, 1)
				}
				defer m.Close()

				if err := m.Scan(c.Args().First()); err != nil {
					return cli.NewExitError(err, 1)
				}

				return nil
			},
		},
		{
			Name:        "list",
			Usage:       "List catalogued assets",
			Description: "",
			Action: func(c *cli.Context) error {
				m, err := pidtool.New(c.String("db"), newLogger(c))
				if err != nil {
					return cli.NewExitError(err, 1)
				}
				defer m.Close()

				assets, err := m.Assets()
				if err != nil {
					return cli.NewExitError(err, 1)
				}

				for _, a := range assets {
					fmt.Printf("%s %6d %5dx%-5d %s %2d\n", a.Hash, a.ImageID, a.Width, a.Height, a.Flags.Compression(), a.Files)
				}

				return nil
			},
		},
		{
			Name:        "export",
			Usage:       "Export the stored preview of a catalogued asset",
			Description: "",
			ArgsUsage:   "HASH FILE",
			Action: func(c *cli.Context) error {
				if c.NArg() < 2 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				m, err := pidtool.New(c.String("db"), newLogger(c))
				if err != nil {
					return cli.NewExitError(err, 1)
				}
				defer m.Close()

				p, err := m.Preview(c.Args().Get(0))
				if err != nil {
					return cli.NewExitError(err, 1)
				}
				if p == nil {
					return cli.NewExitError(fmt.Errorf("no preview for %q", c.Args().Get(0)), 1)
				}

				if err := writeImage(c.Args().Get(1), p); err != nil {
					return cli.NewExitError(err, 1)
				}

				return nil
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func info(file string) error {
	f, err := os.Open(file)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	defer f.Close()

	hdr, err := pid.DecodeHeader(f)
	if err != nil {
		return cli.NewExitError(fmt.Errorf("%s: %w", file, err), 1)
	}

	fmt.Printf("ID:           %d\n", hdr.ID)
	fmt.Printf("Dimensions:   %dx%d\n", hdr.Width, hdr.Height)
	fmt.Printf("Compression:  %s\n", hdr.Flags.Compression())
	fmt.Printf("Palette:      %t\n", hdr.Flags.HasPalette())
	fmt.Printf("Transparency: %t\n", hdr.Flags.Transparency())
	fmt.Printf("Lighting:     %t\n", hdr.Flags.HasLighting())
	fmt.Printf("Mirrored:     horizontal=%t vertical=%t\n", hdr.Flags.MirroredHorizontally(), hdr.Flags.MirroredVertically())
	fmt.Printf("Memory:       video=%t system=%t\n", hdr.Flags.PreferVideoMemory(), hdr.Flags.PreferSystemMemory())
	fmt.Printf("User values:  %d %d %d %d\n", hdr.UserValues[0], hdr.UserValues[1], hdr.UserValues[2], hdr.UserValues[3])

	return nil
}
