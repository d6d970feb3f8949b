package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/jengzang/filmday-backend-go/internal/models"
)

func newSearchCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search",
		Short: "List the films matching the filters",
	}
	flags := addSelectionFlags(cmd, time.Now())

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		sel, err := flags.selection()
		if err != nil {
			return err
		}
		if err := ctx.open(); err != nil {
			return err
		}

		result, err := ctx.filmService().Search(cmd.Context(), sel)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		for _, notice := range result.Notices {
			fmt.Fprintln(out, notice)
		}
		if result.Count > 0 {
			fmt.Fprintln(out, renderFilms(result.Films))
			fmt.Fprintf(out, "%d films\n", result.Count)
		}
		return nil
	}

	return cmd
}

func newRandomCommand(ctx *commandContext) *cobra.Command {
	var anyFilm bool

	cmd := &cobra.Command{
		Use:   "random",
		Short: "Pick a random film matching the filters",
	}
	flags := addSelectionFlags(cmd, time.Now())
	cmd.Flags().BoolVar(&anyFilm, "any", false, "Ignore the filters and pick from the whole catalog")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		if err := ctx.open(); err != nil {
			return err
		}
		films := ctx.filmService()

		var film *models.Film
		if anyFilm {
			f, err := films.PickRandom(cmd.Context())
			if err != nil {
				return err
			}
			film = f
		} else {
			sel, err := flags.selection()
			if err != nil {
				return err
			}
			f, err := films.PickRandomMatching(cmd.Context(), sel)
			if err != nil {
				return err
			}
			film = f
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, renderFilms([]models.Film{*film}))
		fmt.Fprintln(out, film.IMDbURL)
		return nil
	}

	return cmd
}

func newGenresCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "genres",
		Short: "List the genres available in the catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := ctx.open(); err != nil {
				return err
			}
			genres, err := ctx.filmService().AvailableGenres(cmd.Context())
			if err != nil {
				return err
			}

			labels := make([]string, len(genres))
			for i, g := range genres {
				labels[i] = models.GenreLabel(g)
			}
			fmt.Fprintln(cmd.OutOrStdout(), strings.Join(labels, ", "))
			return nil
		},
	}
}
