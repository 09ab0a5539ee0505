/*
Package hdma is a library for ripping colour gradients from an image into HDMA
tables for the SNES.

A single column of the image is sampled once per output scanline and the
colours are turned into one or more tables depending on the selected Mode,
either writing the fixed colour register or a CG-RAM entry. Each table is
then optimised and written as assembler data statements ready to be included
alongside the gradient macros.
*/
package hdma

import (
	"bytes"
	"context"
	"errors"
	"image"
	"io"
	"log"

	"github.com/bodgit/hdma/table"
)

// StandardScanlines is the number of visible scanlines on the SNES
const StandardScanlines = 224

var (
	ErrInvalidRange  = errors.New("hdma: invalid range")
	ErrMissingIndex  = errors.New("hdma: palette mode requires a colour index")
	ErrUnknownMode   = errors.New("hdma: unknown mode")
	ErrUnknownFilter = errors.New("hdma: unknown filter")
	errVerify        = errors.New("hdma: table does not decode to the original scanlines")
)

// Converter turns images into HDMA tables
type Converter struct {
	logger *log.Logger
}

// New returns a Converter logging progress to logger
func New(logger *log.Logger) *Converter {
	return &Converter{
		logger: logger,
	}
}

// Build validates the options against the bounds of m, samples the column
// and returns the unoptimised tables for the selected mode
func (c *Converter) Build(m image.Image, o Options) ([]*table.Table, error) {
	o.Mode = o.Mode.Resolve(o.Height)

	if err := o.Validate(m.Bounds()); err != nil {
		return nil, err
	}

	column := sampleColumn(m, o)
	if o.Colours > 0 {
		column = reduceColours(column, o.Colours)
	}

	c.logger.Printf("Sampled %d scanlines from x=%d, y=%d..%d using %s mode\n", o.Height, o.X, o.YStart, o.YEnd, o.Mode)

	return buildTables(o.Mode, colours(column), o)
}

// Convert writes the tables generated from m to w. Nothing is written if
// any table fails to build.
func (c *Converter) Convert(w io.Writer, m image.Image, o Options) error {
	tables, err := c.Build(m, o)
	if err != nil {
		return err
	}

	ctx, cancelFunc := context.WithCancel(context.Background())
	defer cancelFunc()

	out := make([]bytes.Buffer, len(tables))

	var errcList []<-chan error

	jobs, errc, err := c.queueTables(ctx, tables)
	if err != nil {
		return err
	}
	errcList = append(errcList, errc)

	for i := 0; i < o.workers(len(tables)); i++ {
		errc, err := c.tableWorker(ctx, jobs, out, o)
		if err != nil {
			return err
		}
		errcList = append(errcList, errc)
	}

	if err := waitForPipeline(errcList...); err != nil {
		return err
	}

	for i := range out {
		if i > 0 {
			if _, err := io.WriteString(w, "\n"); err != nil {
				return err
			}
		}
		if _, err := out[i].WriteTo(w); err != nil {
			return err
		}
	}

	return nil
}
