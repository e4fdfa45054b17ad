package cmd

import (
	"errors"
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"github.com/jonesrussell/blog-reviewer/internal/bootstrap"
	"github.com/jonesrussell/blog-reviewer/internal/logger"
)

var errVerificationFailed = errors.New("database does not match the expected schema")

func newVerifyCommand(root *rootOptions) *cobra.Command {
	var skipSeed bool

	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Check collections, validators, indexes and seed data of a live database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			deps, err := loadDeps(root)
			if err != nil {
				return err
			}
			log := deps.Logger
			defer func() { _ = log.Sync() }()

			ctx, cancel := deps.operationContext(cmd.Context())
			defer cancel()

			conn, closeConn, err := deps.connect(ctx)
			if err != nil {
				return err
			}
			defer closeConn()

			expectSeed := !skipSeed && !deps.Config.Bootstrap.SkipSeed
			v, err := bootstrap.NewInspector(conn.Database(), expectSeed).Verify(ctx)
			if err != nil {
				return err
			}

			renderVerification(cmd.OutOrStdout(), v)
			if !v.OK() {
				log.Error("Verification failed", logger.Int("failed_checks", len(v.Failed())))
				return errVerificationFailed
			}
			log.Info("Verification passed", logger.Int("checks", len(v.Checks)))
			return nil
		},
	}

	cmd.Flags().BoolVar(&skipSeed, "skip-seed", false, "do not expect the development author")
	return cmd
}

func renderVerification(w io.Writer, v *bootstrap.Verification) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.Style().Format.Footer = text.FormatDefault
	t.SetTitle("Database: " + v.Database)
	t.AppendHeader(table.Row{"Collection", "Check", "Status", "Detail"})

	for _, c := range v.Checks {
		status := text.FgGreen.Sprint("OK")
		if !c.OK {
			status = text.FgRed.Sprint("FAIL")
		}
		t.AppendRow(table.Row{c.Collection, c.Name, status, c.Detail})
	}

	t.AppendFooter(table.Row{"", "", "", summaryLine(v)})
	t.Render()
}

func summaryLine(v *bootstrap.Verification) string {
	failed := len(v.Failed())
	if failed == 0 {
		return "all checks passed"
	}
	if failed == 1 {
		return "1 check failed"
	}
	return fmt.Sprintf("%d checks failed", failed)
}
