package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/bodgit/sketch"
	"github.com/bodgit/sketch/bmp"
	"github.com/bodgit/sketch/pixmap"
	"github.com/bodgit/sketch/tga"
	"github.com/urfave/cli/v2"
)

const defaultDB = "sketch.db"

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

func options(c *cli.Context) *sketch.Options {
	return &sketch.Options{
		TGA: tga.Options{RLE: c.Bool("rle")},
		BMP: bmp.Options{Palettize: c.Bool("palettize")},
	}
}

var encodeFlags = []cli.Flag{
	&cli.BoolFlag{
		Name:  "rle",
		Value: true,
		Usage: "run-length encode TGA output",
	},
	&cli.BoolFlag{
		Name:  "palettize",
		Usage: "reduce BMP output to 256 colors",
	},
}

func depthName(bpp int) string {
	switch bpp {
	case pixmap.Grayscale8:
		return "8-bit paletted"
	case pixmap.RGB24:
		return "24-bit RGB"
	case pixmap.RGBA32:
		return "32-bit RGBA"
	}
	return "unknown"
}

// transform loads IN, applies fn and saves the result to OUT.
func transform(c *cli.Context, fn func(*pixmap.Pixmap) error) error {
	if c.NArg() < 2 {
		cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
	}

	logger := newLogger(c)

	m, err := sketch.Load(c.Args().Get(0))
	if err != nil {
		return cli.Exit(err, 1)
	}

	if err := fn(m); err != nil {
		return cli.Exit(err, 1)
	}

	if err := sketch.Save(c.Args().Get(1), m, options(c)); err != nil {
		return cli.Exit(err, 1)
	}
	logger.Printf("Wrote %dx%d %s image to \"%s\"\n", m.Width(), m.Height(), depthName(m.BytesPerPixel()), c.Args().Get(1))

	return nil
}

func main() {
	app := cli.NewApp()

	app.Name = "sketch"
	app.Usage = "TGA and BMP image utility"
	app.Version = "1.0.0"

	cwd, err := os.Getwd()
	if err != nil {
		log.Fatal(err)
	}

	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:    "db",
			EnvVars: []string{"SKETCH_DB"},
			Value:   filepath.Join(cwd, defaultDB),
			Usage:   "path to database",
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"v"},
			Usage:   "increase verbosity",
		},
	}

	app.Commands = []*cli.Command{
		{
			Name:        "info",
			Usage:       "Show image dimensions and depth",
			Description: "",
			ArgsUsage:   "FILE",
			Action: func(c *cli.Context) error {
				if c.NArg() < 1 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				m, err := sketch.Load(c.Args().First())
				if err != nil {
					return cli.Exit(err, 1)
				}

				fmt.Fprintf(c.App.Writer, "%s: %dx%d, %s\n", c.Args().First(), m.Width(), m.Height(), depthName(m.BytesPerPixel()))

				return nil
			},
		},
		{
			Name:        "convert",
			Usage:       "Convert an image to the format implied by the output extension",
			Description: "",
			ArgsUsage:   "IN OUT",
			Flags:       encodeFlags,
			Action: func(c *cli.Context) error {
				return transform(c, func(*pixmap.Pixmap) error {
					return nil
				})
			},
		},
		{
			Name:        "scale",
			Usage:       "Resize an image using nearest neighbor sampling",
			Description: "",
			ArgsUsage:   "IN OUT",
			Flags: append([]cli.Flag{
				&cli.IntFlag{
					Name:     "width",
					Required: true,
					Usage:    "new width in pixels",
				},
				&cli.IntFlag{
					Name:     "height",
					Required: true,
					Usage:    "new height in pixels",
				},
			}, encodeFlags...),
			Action: func(c *cli.Context) error {
				return transform(c, func(m *pixmap.Pixmap) error {
					return m.Scale(c.Int("width"), c.Int("height"))
				})
			},
		},
		{
			Name:        "flip",
			Usage:       "Mirror an image",
			Description: "Flips vertically unless --horizontal is given",
			ArgsUsage:   "IN OUT",
			Flags: append([]cli.Flag{
				&cli.BoolFlag{
					Name:  "horizontal",
					Usage: "flip left to right",
				},
			}, encodeFlags...),
			Action: func(c *cli.Context) error {
				return transform(c, func(m *pixmap.Pixmap) error {
					if c.Bool("horizontal") {
						m.FlipHorizontal()
					} else {
						m.FlipVertical()
					}
					return nil
				})
			},
		},
		{
			Name:        "batch",
			Usage:       "Convert every image under a directory",
			Description: "",
			ArgsUsage:   "DIRECTORY",
			Flags: append([]cli.Flag{
				&cli.StringFlag{
					Name:  "format",
					Value: sketch.FormatTGA,
					Usage: "output format, one of tga, bmp or png",
				},
			}, encodeFlags...),
			Action: func(c *cli.Context) error {
				if c.NArg() < 1 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				s, err := sketch.New("", newLogger(c))
				if err != nil {
					return cli.Exit(err, 1)
				}
				defer s.Close()

				if err := s.Convert(c.Args().First(), c.String("format"), options(c)); err != nil {
					return cli.Exit(err, 1)
				}

				return nil
			},
		},
		{
			Name:        "import",
			Usage:       "Import every image under a directory into the database",
			Description: "",
			ArgsUsage:   "DIRECTORY",
			Action: func(c *cli.Context) error {
				if c.NArg() < 1 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				s, err := sketch.New(c.String("db"), newLogger(c))
				if err != nil {
					return cli.Exit(err, 1)
				}
				defer s.Close()

				if err := s.Import(c.Args().First()); err != nil {
					return cli.Exit(err, 1)
				}

				return nil
			},
		},
		{
			Name:        "export",
			Usage:       "Write an image from the database to a file",
			Description: "",
			ArgsUsage:   "NAME FILE",
			Flags:       encodeFlags,
			Action: func(c *cli.Context) error {
				if c.NArg() < 2 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				s, err := sketch.New(c.String("db"), newLogger(c))
				if err != nil {
					return cli.Exit(err, 1)
				}
				defer s.Close()

				if err := s.Export(c.Args().Get(0), c.Args().Get(1), options(c)); err != nil {
					return cli.Exit(err, 1)
				}

				return nil
			},
		},
		{
			Name:        "list",
			Usage:       "List the images in the database",
			Description: "",
			Action: func(c *cli.Context) error {
				s, err := sketch.New(c.String("db"), newLogger(c))
				if err != nil {
					return cli.Exit(err, 1)
				}
				defer s.Close()

				entries, err := s.List()
				if err != nil {
					return cli.Exit(err, 1)
				}

				for _, e := range entries {
					fmt.Fprintf(c.App.Writer, "%s\t%dx%d\t%s\t%s\n", e.Name, e.Width, e.Height, depthName(e.BytesPerPixel), e.SHA1)
				}

				return nil
			},
		},
		{
			Name:        "remove",
			Usage:       "Remove an image from the database",
			Description: "",
			ArgsUsage:   "NAME",
			Action: func(c *cli.Context) error {
				if c.NArg() < 1 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				s, err := sketch.New(c.String("db"), newLogger(c))
				if err != nil {
					return cli.Exit(err, 1)
				}
				defer s.Close()

				if err := s.Remove(c.Args().First()); err != nil {
					return cli.Exit(err, 1)
				}

				return nil
			},
		},
		{
			Name:        "demo",
			Usage:       "Render the demo scene",
			Description: "",
			ArgsUsage:   "FILE",
			Flags: append([]cli.Flag{
				&cli.IntFlag{
					Name:  "size",
					Value: sketch.DemoSize,
					Usage: "edge length in pixels",
				},
			}, encodeFlags...),
			Action: func(c *cli.Context) error {
				if c.NArg() < 1 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				m, err := sketch.Demo(c.Int("size"))
				if err != nil {
					return cli.Exit(err, 1)
				}

				if err := sketch.Save(c.Args().First(), m, options(c)); err != nil {
					return cli.Exit(err, 1)
				}
				newLogger(c).Printf("Wrote demo scene to \"%s\"\n", c.Args().First())

				return nil
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
