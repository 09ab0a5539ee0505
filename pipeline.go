package hdma

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/bodgit/hdma/table"
)

type job struct {
	index int
	table *table.Table
}

func (c *Converter) queueTables(ctx context.Context, tables []*table.Table) (<-chan job, <-chan error, error) {
	out := make(chan job)
	errc := make(chan error, 1)
	go func() {
		defer close(out)
		defer close(errc)
		for i, t := range tables {
			select {
			case out <- job{i, t}:
			case <-ctx.Done():
				errc <- errors.New("hdma: queue cancelled")
				return
			}
		}
	}()
	return out, errc, nil
}

func (c *Converter) processTable(j job, b *bytes.Buffer, o Options) error {
	t := j.table
	raw := t.Stream()
	rawSize := t.Size()

	if o.Optimise {
		var err error
		// Pseudo tables have no continuous rows to merge into
		if t.Pseudo() {
			err = t.CoagulateRepeat()
		} else {
			err = t.Coagulate()
		}
		if err != nil {
			return err
		}
	}

	c.logger.Printf("%s: %d scanlines, %d rows, %d bytes (%d before optimising)\n", t.Name(), t.Scanlines(), len(t.Rows()), t.Size(), rawSize)

	if _, err := t.WriteTo(b); err != nil {
		return err
	}

	if !o.Verify {
		return nil
	}

	_, values, err := table.Decode(bytes.NewReader(b.Bytes()), t.EffectiveWidth(), t.Mode())
	if err != nil {
		return err
	}
	if len(values) != len(raw) {
		return fmt.Errorf("%w: %s has %d scanlines, expected %d", errVerify, t.Name(), len(values), len(raw))
	}
	for i := range raw {
		if values[i] != raw[i] {
			return fmt.Errorf("%w: %s differs at scanline %d", errVerify, t.Name(), i)
		}
	}

	c.logger.Printf("%s: verified\n", t.Name())

	return nil
}

func (c *Converter) tableWorker(ctx context.Context, in <-chan job, out []bytes.Buffer, o Options) (<-chan error, error) {
	errc := make(chan error, 1)
	go func() {
		defer close(errc)
		for j := range in {
			// Each job owns its own buffer so no locking is needed
			if err := c.processTable(j, &out[j.index], o); err != nil {
				errc <- err
				return
			}
			select {
			case <-ctx.Done():
				return
			default:
			}
		}
	}()
	return errc, nil
}

func waitForPipeline(errs ...<-chan error) error {
	errc := mergeErrors(errs...)
	for err := range errc {
		if err != nil {
			return err
		}
	}
	return nil
}

func mergeErrors(cs ...<-chan error) <-chan error {
	var wg sync.WaitGroup
	out := make(chan error, len(cs))
	wg.Add(len(cs))
	for _, c := range cs {
		go func(c <-chan error) {
			for n := range c {
				out <- n
			}
			wg.Done()
		}(c)
	}
	go func() {
		wg.Wait()
		close(out)
	}()
	return out
}
