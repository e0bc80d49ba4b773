package cli

import (
	"context"
	"flag"
	"fmt"
	"maps"
	"slices"

	"github.com/google/subcommands"

	"findash/internal/dataset"
	"findash/internal/loader"
	"findash/internal/log"
	"findash/internal/storage"
)

type importCmd struct {
	env *Env
	dir string
	db  string
}

func (*importCmd) Name() string     { return "import" }
func (*importCmd) Synopsis() string { return "copy the CSV tables of a directory into the SQLite database" }
func (*importCmd) Usage() string {
	return `findash-report import [-dir <directory>] [-db <path>]

  Reads the six CSV tables of a directory and replaces the contents of the
  SQLite database with them in a single transaction. Missing files import
  as empty tables.
`
}

func (c *importCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.dir, "dir", c.env.Config.DataDir, "Directory holding the CSV files.")
	f.StringVar(&c.db, "db", c.env.Config.SQLiteDBPath, "Path of the SQLite database.")
}

func (c *importCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.dir == "" || c.db == "" {
		fmt.Fprintln(c.env.Errout, "Error: -dir and -db must not be empty")
		return subcommands.ExitUsageError
	}

	tables, err := loader.New(loader.NewDirSource(c.dir), c.env.Logger).Load(ctx)
	if err != nil {
		fmt.Fprintf(c.env.Errout, "Error reading %s: %v\n", c.dir, err)
		return subcommands.ExitFailure
	}

	repo, err := storage.NewSQLiteRepository(c.db, c.env.Logger)
	if err != nil {
		fmt.Fprintf(c.env.Errout, "Error opening database %s: %v\n", c.db, err)
		return subcommands.ExitFailure
	}
	defer repo.Close()

	if err := repo.ReplaceAll(ctx, tables); err != nil {
		c.env.Logger.ErrorContext(ctx, "Import failed", log.NewFields().WithOperation(log.OpImport).WithError(err).ToSlice()...)
		fmt.Fprintf(c.env.Errout, "Error importing into %s: %v\n", c.db, err)
		return subcommands.ExitFailure
	}

	counts := dataset.New(tables).Counts()
	for _, table := range slices.Sorted(maps.Keys(counts)) {
		fmt.Fprintf(c.env.Out, "%-20s %d rows\n", table, counts[table])
	}
	fmt.Fprintf(c.env.Out, "imported %s into %s\n", c.dir, c.db)
	return subcommands.ExitSuccess
}
