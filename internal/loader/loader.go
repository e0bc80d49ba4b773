// Package loader reads the six input tables from CSV files kept in a local
// directory or a Google Cloud Storage bucket.
package loader

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"

	"golang.org/x/sync/errgroup"

	"findash/internal/dataset"
	"findash/internal/log"
)

// Loader decodes every table of a Source.
type Loader struct {
	src    Source
	logger *log.Logger
}

func New(src Source, logger *log.Logger) *Loader {
	if logger == nil {
		logger = log.Discard()
	}
	return &Loader{src: src, logger: logger.WithComponent(log.ComponentLoader)}
}

// Load reads the six tables concurrently. A missing file yields an empty
// table and a warning; any other failure aborts the whole load.
func (l *Loader) Load(ctx context.Context) (dataset.Tables, error) {
	var t dataset.Tables
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error { return readTable(ctx, l, FileLedger, dataset.TableLedger, DecodeLedger, &t.Ledger) })
	g.Go(func() error { return readTable(ctx, l, FileBudgets, dataset.TableBudgets, DecodeBudgets, &t.Budgets) })
	g.Go(func() error { return readTable(ctx, l, FileNetWorth, dataset.TableNetWorth, DecodeNetWorth, &t.NetWorth) })
	g.Go(func() error { return readTable(ctx, l, FilePrices, dataset.TablePrices, DecodePrices, &t.Prices) })
	g.Go(func() error { return readTable(ctx, l, FileHoldings, dataset.TableHoldings, DecodeHoldings, &t.Holdings) })
	g.Go(func() error { return readTable(ctx, l, FileGoals, dataset.TableGoals, DecodeGoals, &t.Goals) })

	if err := g.Wait(); err != nil {
		return dataset.Tables{}, err
	}
	return t, nil
}

func (l *Loader) String() string { return l.src.String() }

func readTable[T any](ctx context.Context, l *Loader, file, table string, decodeFn func(io.Reader) ([]T, error), dst *[]T) error {
	rc, err := l.src.Open(ctx, file)
	if errors.Is(err, fs.ErrNotExist) {
		l.logger.WarnContext(ctx, "Table file not found, using empty table",
			log.FieldSource, l.src.String(), log.FieldTable, table)
		*dst = []T{}
		return nil
	}
	if err != nil {
		return fmt.Errorf("load %s: %w", file, err)
	}
	defer rc.Close()

	rows, err := decodeFn(rc)
	if err != nil {
		return fmt.Errorf("load %s: %w", file, err)
	}
	*dst = rows
	l.logger.InfoContext(ctx, "Table loaded",
		append(log.NewFields().WithTable(table, len(rows)).ToSlice(), log.FieldSource, l.src.String())...)
	return nil
}
