package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/dbal-go/dbal/cli/internal/ui"
	"github.com/dbal-go/dbal/cli/internal/watch"
	"github.com/dbal-go/dbal/cursor"
)

// NewQueryCommand creates the query command.
func NewQueryCommand() *cobra.Command {
	var file string
	var limit int
	var offset int
	var watchFile bool

	cmd := &cobra.Command{
		Use:   "query [sql...]",
		Short: "Run a SELECT and print the result set",
		Long: `Run a query against the configured database and print the rows
as a table. The statement comes from the arguments or from --file.`,
		Example: `  dbal query "SELECT * FROM users"
  dbal query --limit 10 --offset 20 "SELECT * FROM logs ORDER BY id"
  dbal query --file report.sql --watch`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if watchFile && file == "" {
				return fmt.Errorf("--watch requires --file")
			}
			if offset > 0 && limit <= 0 {
				return fmt.Errorf("--offset requires --limit")
			}

			run := func() error {
				sqlText, err := resolveSQL(file, args)
				if err != nil {
					return err
				}
				return runQuery(sqlText, limit, offset)
			}

			if !watchFile {
				return run()
			}

			w, err := watch.New(file, run)
			if err != nil {
				return err
			}
			w.OnError = func(err error) { ui.PrintError("%v", err) }
			if err := w.Start(); err != nil {
				return err
			}
			defer w.Stop()

			ui.PrintBox("Watch mode", fmt.Sprintf("Re-running %s on change. Press Ctrl+C to stop.", file))
			sig := make(chan os.Signal, 1)
			signal.Notify(sig, os.Interrupt)
			<-sig
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "Read the statement from a file")
	cmd.Flags().IntVar(&limit, "limit", 0, "Maximum number of rows to return")
	cmd.Flags().IntVar(&offset, "offset", 0, "Number of rows to skip (requires --limit)")
	cmd.Flags().BoolVar(&watchFile, "watch", false, "Re-run the query when the file changes")

	return cmd
}

func runQuery(sqlText string, limit, offset int) error {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	c, err := openConnection(ctx)
	if err != nil {
		return err
	}
	defer c.Close(ctx)

	started := time.Now()
	spinner, spinErr := ui.PrintSpinner("Running query")

	var cur cursor.Cursor
	if limit > 0 || offset > 0 {
		cur, err = c.SelectLimit(ctx, limit, offset, sqlText)
	} else {
		cur, err = c.Query(ctx, sqlText)
	}
	if spinErr == nil {
		spinner.Stop()
	}
	if err != nil {
		return err
	}

	headers, rows, err := drainCursor(cur)
	if err != nil {
		return err
	}

	if len(rows) == 0 {
		ui.PrintInfo("Empty result set (%s)", time.Since(started).Round(time.Millisecond))
		return nil
	}

	ui.PrintTable(headers, rows)
	ui.PrintSuccess("%d row(s) in %s", len(rows), time.Since(started).Round(time.Millisecond))
	return nil
}
