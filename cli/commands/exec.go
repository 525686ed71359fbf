package commands

import (
	"context"
	"regexp"
	"time"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/cobra"

	"github.com/dbal-go/dbal/cli/internal/ui"
)

var (
	writeStatementPattern = regexp.MustCompile(`(?is)^\s*(UPDATE|DELETE)\b`)
	whereClausePattern    = regexp.MustCompile(`(?i)\bWHERE\b`)
)

// isUnguardedWrite reports whether sqlText is an UPDATE or DELETE with no
// WHERE clause anywhere in the statement.
func isUnguardedWrite(sqlText string) bool {
	return writeStatementPattern.MatchString(sqlText) && !whereClausePattern.MatchString(sqlText)
}

// NewExecCommand creates the exec command.
func NewExecCommand() *cobra.Command {
	var file string
	var force bool

	cmd := &cobra.Command{
		Use:   "exec [sql...]",
		Short: "Run a statement and print the affected row count",
		Long: `Run a data or schema modification statement. An UPDATE or DELETE
without a WHERE clause asks for confirmation first.`,
		Example: `  dbal exec "INSERT INTO users (name) VALUES ('alice')"
  dbal exec --file migrate.sql
  dbal exec --force "DELETE FROM sessions"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			sqlText, err := resolveSQL(file, args)
			if err != nil {
				return err
			}

			if !force && isUnguardedWrite(sqlText) {
				confirmed := false
				prompt := &survey.Confirm{
					Message: "Statement modifies every row in the table. Continue?",
					Default: false,
				}
				if err := survey.AskOne(prompt, &confirmed); err != nil {
					return err
				}
				if !confirmed {
					ui.PrintWarning("Aborted")
					return nil
				}
			}

			return runExec(sqlText)
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "Read the statement from a file")
	cmd.Flags().BoolVar(&force, "force", false, "Skip the unguarded-write confirmation")

	return cmd
}

func runExec(sqlText string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	c, err := openConnection(ctx)
	if err != nil {
		return err
	}
	defer c.Close(ctx)

	started := time.Now()
	affected, err := c.Execute(ctx, sqlText)
	if err != nil {
		return err
	}

	ui.PrintSuccess("%d row(s) affected in %s", affected, time.Since(started).Round(time.Millisecond))

	if id, err := c.LastInsertID(); err == nil && id > 0 {
		ui.ColorPrint(ui.GetColorPrinters()["info"], "last insert id: %d\n", id)
	}
	return nil
}
