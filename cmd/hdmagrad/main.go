package main

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"log"
	"os"

	"github.com/bodgit/hdma"
	"github.com/bodgit/hdma/table"
	"github.com/urfave/cli/v2"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

const defaultOutput = "gradient.asm"

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

func decodeImage(file string) (image.Image, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	m, _, err := image.Decode(f)
	return m, err
}

func options(c *cli.Context, m image.Image) (hdma.Options, error) {
	mode, err := hdma.ParseMode(c.String("mode"))
	if err != nil {
		return hdma.Options{}, err
	}

	filter, err := hdma.ParseFilter(c.String("filter"))
	if err != nil {
		return hdma.Options{}, err
	}

	imageHeight := m.Bounds().Dy()

	o := hdma.Options{
		X:           c.Int("x"),
		YStart:      c.Int("start"),
		YEnd:        imageHeight,
		Height:      imageHeight,
		Mode:        mode,
		PickChannel: c.Bool("pick-channel"),
		Filter:      filter,
		Colours:     c.Int("colours"),
		Optimise:    !c.Bool("raw"),
		Verify:      c.Bool("verify"),
		Workers:     c.Int("workers"),
	}

	if c.IsSet("end") {
		o.YEnd = c.Int("end")
	}

	if c.IsSet("height") {
		o.Height = c.Int("height")
	} else if o.Height < hdma.StandardScanlines {
		o.Height = hdma.StandardScanlines
	}

	if c.IsSet("index") {
		index := c.Uint("index")
		if index > 0xff {
			return hdma.Options{}, fmt.Errorf("%w: colour index %d", hdma.ErrInvalidRange, index)
		}
		i := uint8(index)
		o.Index = &i
	}

	return o, nil
}

func rip(c *cli.Context) error {
	if c.NArg() < 1 {
		cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
	}

	logger := newLogger(c)

	m, err := decodeImage(c.Args().First())
	if err != nil {
		return cli.Exit(err, 1)
	}

	o, err := options(c, m)
	if err != nil {
		return cli.Exit(err, 1)
	}

	// Generate everything before touching the output file
	b := new(bytes.Buffer)
	if err := hdma.New(logger).Convert(b, m, o); err != nil {
		return cli.Exit(err, 1)
	}

	for _, a := range o.Advisories() {
		log.Printf("warning: %s\n", a)
	}

	if err := os.WriteFile(c.String("output"), b.Bytes(), 0644); err != nil {
		return cli.Exit(err, 1)
	}

	logger.Printf("Wrote %s\n", c.String("output"))

	return nil
}

func check(c *cli.Context) error {
	if c.NArg() < 1 {
		cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
	}

	f, err := os.Open(c.Args().First())
	if err != nil {
		return cli.Exit(err, 1)
	}
	defer f.Close()

	dec := table.NewDecoder(f)
	for {
		name, values, err := dec.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return cli.Exit(err, 1)
		}

		unique := make(map[table.Value]struct{})
		for _, v := range values {
			unique[v] = struct{}{}
		}
		fmt.Fprintf(c.App.Writer, "%s: width %d in %s, %d scanlines, %d distinct values\n", name, dec.Width(), dec.Mode(), len(values), len(unique))
	}

	return nil
}

func newApp() *cli.App {
	app := cli.NewApp()

	app.Name = "hdmagrad"
	app.Usage = "SNES HDMA gradient ripper"
	app.Version = "1.0.0"

	app.Flags = []cli.Flag{
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"v"},
			Usage:   "increase verbosity",
		},
	}

	app.Commands = []*cli.Command{
		{
			Name:      "rip",
			Usage:     "Rip a gradient from a column of an image",
			ArgsUsage: "IMAGE",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:    "output",
					Aliases: []string{"o"},
					Value:   defaultOutput,
					Usage:   "path to the generated ASM file",
				},
				&cli.IntFlag{
					Name:  "x",
					Usage: "column to rip",
				},
				&cli.IntFlag{
					Name:    "start",
					Aliases: []string{"s"},
					Usage:   "first row to rip",
				},
				&cli.IntFlag{
					Name:    "end",
					Aliases: []string{"e"},
					Usage:   "row after the last row to rip (default: height of image)",
				},
				&cli.IntFlag{
					Name:  "height",
					Usage: "number of scanlines generated (default: height of image, at least 224)",
				},
				&cli.StringFlag{
					Name:    "mode",
					Aliases: []string{"m"},
					EnvVars: []string{"HDMA_MODE"},
					Value:   "auto",
					Usage:   "table mode: single, double, big, palette or auto",
				},
				&cli.UintFlag{
					Name:    "index",
					Aliases: []string{"c"},
					Usage:   "CG-RAM colour index written in palette mode",
				},
				&cli.BoolFlag{
					Name:  "pick-channel",
					Usage: "pick the channel written on its own in double mode from the image",
				},
				&cli.StringFlag{
					Name:  "filter",
					Value: "nearest",
					Usage: "filter used to stretch the column: nearest, bilinear or catmull-rom",
				},
				&cli.IntFlag{
					Name:  "colours",
					Usage: "reduce the column to this many colours before ripping",
				},
				&cli.BoolFlag{
					Name:  "raw",
					Usage: "don't optimise the tables",
				},
				&cli.BoolFlag{
					Name:  "verify",
					Usage: "decode each table after writing and compare it to the image",
				},
				&cli.IntFlag{
					Name:  "workers",
					Value: 1,
					Usage: "number of tables processed concurrently",
				},
			},
			Action: rip,
		},
		{
			Name:      "check",
			Usage:     "Decode generated tables and print a summary",
			ArgsUsage: "FILE",
			Action:    check,
		},
	}

	return app
}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
