package main

import (
	"fmt"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/jengzang/filmday-backend-go/internal/models"
)

type columnAlignment int

const (
	alignLeft columnAlignment = iota
	alignRight
)

func renderTable(headers []string, rows [][]string, aligns []columnAlignment) string {
	columns := len(headers)
	if columns == 0 {
		return ""
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)

	header := make(table.Row, columns)
	for i := 0; i < columns; i++ {
		header[i] = headers[i]
	}
	tw.AppendHeader(header)

	for _, row := range rows {
		r := make(table.Row, columns)
		for i := 0; i < columns; i++ {
			if i < len(row) {
				r[i] = row[i]
			}
		}
		tw.AppendRow(r)
	}

	columnConfigs := make([]table.ColumnConfig, 0, columns)
	for i := 0; i < columns; i++ {
		align := text.AlignLeft
		if i < len(aligns) && aligns[i] == alignRight {
			align = text.AlignRight
		}
		columnConfigs = append(columnConfigs, table.ColumnConfig{
			Number:      i + 1,
			Align:       align,
			AlignHeader: text.AlignLeft,
		})
	}
	tw.SetColumnConfigs(columnConfigs)

	return tw.Render()
}

func renderFilms(films []models.Film) string {
	headers := []string{"ID", "Title", "Year", "Duration", "Genre", "Other genres", "Rating", "Votes"}
	aligns := []columnAlignment{alignLeft, alignLeft, alignRight, alignRight, alignLeft, alignLeft, alignRight, alignRight}

	rows := make([][]string, 0, len(films))
	for _, f := range films {
		rows = append(rows, []string{
			f.ID,
			f.Title,
			strconv.Itoa(f.Year),
			fmt.Sprintf("%d min", f.RuntimeMinutes),
			models.GenreLabel(f.MainGenre),
			f.OtherGenres,
			strconv.FormatFloat(f.AverageRating, 'f', 1, 64),
			strconv.FormatInt(f.NumVotes, 10),
		})
	}
	return renderTable(headers, rows, aligns)
}
