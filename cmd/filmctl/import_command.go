package main

import (
	"fmt"
	"path/filepath"
	"strconv"
	"time"

	"github.com/gofrs/flock"
	"github.com/spf13/cobra"

	"github.com/jengzang/filmday-backend-go/internal/imdb"
)

func newImportCommand(ctx *commandContext) *cobra.Command {
	var basicsPath string
	var ratingsPath string
	var versionFlag string

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Replace the catalog with the IMDb title.basics and title.ratings datasets",
		RunE: func(cmd *cobra.Command, args []string) error {
			version := time.Now()
			if versionFlag != "" {
				v, err := time.Parse(time.DateOnly, versionFlag)
				if err != nil {
					return fmt.Errorf("invalid --version %q: %w", versionFlag, err)
				}
				version = v
			}

			lockPath := filepath.Join(filepath.Dir(ctx.dbPath()), "filmctl-import.lock")
			lock := flock.New(lockPath)
			ok, err := lock.TryLock()
			if err != nil {
				return fmt.Errorf("acquire lock: %w", err)
			}
			if !ok {
				return fmt.Errorf("another import is running (lock %s)", lockPath)
			}
			defer lock.Unlock()

			if err := ctx.open(); err != nil {
				return err
			}

			basics, err := imdb.OpenDataset(basicsPath)
			if err != nil {
				return err
			}
			defer basics.Close()
			ratings, err := imdb.OpenDataset(ratingsPath)
			if err != nil {
				return err
			}
			defer ratings.Close()

			stats, err := ctx.importService(cmd.Context()).Import(cmd.Context(), basics, ratings, version)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d films (%d titles skipped, %d ratings) as version %s in %s\n",
				stats.FilmsWritten, stats.Skipped, stats.RatingsRead,
				stats.DataVersion.Format(time.DateOnly), stats.Duration.Round(time.Millisecond))
			return nil
		},
	}

	cmd.Flags().StringVar(&basicsPath, "basics", "title.basics.tsv.gz", "Path to title.basics.tsv(.gz)")
	cmd.Flags().StringVar(&ratingsPath, "ratings", "title.ratings.tsv.gz", "Path to title.ratings.tsv(.gz)")
	cmd.Flags().StringVar(&versionFlag, "version", "", "Data version date YYYY-MM-DD (default today)")

	cmd.AddCommand(newImportHistoryCommand(ctx))
	return cmd
}

func newImportHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent imports",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := ctx.open(); err != nil {
				return err
			}
			runs, err := ctx.importService(cmd.Context()).History(cmd.Context(), limit)
			if err != nil {
				return err
			}

			headers := []string{"ID", "Version", "Status", "Films", "Skipped", "Started", "Error"}
			aligns := []columnAlignment{alignRight, alignLeft, alignLeft, alignRight, alignRight, alignLeft, alignLeft}
			rows := make([][]string, 0, len(runs))
			for _, run := range runs {
				rows = append(rows, []string{
					strconv.FormatInt(run.ID, 10),
					run.DataVersion,
					run.Status,
					strconv.FormatInt(run.FilmsWritten, 10),
					strconv.FormatInt(run.Skipped, 10),
					time.Unix(run.StartTime, 0).Format(time.DateTime),
					run.ErrorMessage,
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(headers, rows, aligns))
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 10, "Number of runs to show")
	return cmd
}
