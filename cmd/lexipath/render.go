package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/rodaine/table"

	"github.com/heartmarshall/lexipath/internal/domain"
	"github.com/heartmarshall/lexipath/internal/service/vocabulary"
)

const maxCellWidth = 48

var (
	headerStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#00ff9f"))
	masteredStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#00ff9f"))
	dimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#6e7681"))
)

func newTable(w io.Writer, columns ...any) table.Table {
	return table.New(columns...).
		WithWriter(w).
		WithHeaderFormatter(func(format string, vals ...any) string {
			return headerStyle.Render(fmt.Sprintf(format, vals...))
		})
}

// printRecords renders records as a table followed by a count line.
func printRecords(w io.Writer, records []domain.VocabularyRecord) {
	if len(records) == 0 {
		fmt.Fprintln(w, dimStyle.Render("no words"))
		return
	}

	tbl := newTable(w, "ID", "Word", "Pronunciation", "Meaning", "Chinese", "Status")
	for _, r := range records {
		tbl.AddRow(r.ID, r.Word, r.Pronunciation, truncate(r.MeaningEN), truncate(r.MeaningCN), r.Status)
	}
	tbl.Print()

	mastered := 0
	for _, r := range records {
		if r.Status == domain.StatusMastered {
			mastered++
		}
	}
	fmt.Fprintln(w, dimStyle.Render(fmt.Sprintf("%d words, %d mastered", len(records), mastered)))
}

// printRecord renders one record as a field list.
func printRecord(w io.Writer, r domain.VocabularyRecord) {
	status := string(r.Status)
	if r.Status == domain.StatusMastered {
		status = masteredStyle.Render(status)
	}

	tbl := newTable(w, "Field", "Value")
	tbl.AddRow("id", r.ID)
	tbl.AddRow("word", r.Word)
	tbl.AddRow("pronunciation", r.Pronunciation)
	tbl.AddRow("meaning", r.MeaningEN)
	tbl.AddRow("chinese", r.MeaningCN)
	tbl.AddRow("synonyms", r.Synonyms)
	for i, ex := range r.AllExamples() {
		tbl.AddRow(fmt.Sprintf("example %d", i+1), ex)
	}
	tbl.AddRow("status", status)
	tbl.Print()
}

func printImportResult(w io.Writer, res *vocabulary.ImportResult) {
	fmt.Fprintf(w, "%s %s (%s): %d new, %d updated, %d skipped\n",
		headerStyle.Render("imported"), res.Source, res.Format, res.Imported, res.Updated, res.Skipped)

	if len(res.Errors) == 0 {
		return
	}
	tbl := newTable(w, "Line", "Text", "Reason")
	for _, e := range res.Errors {
		tbl.AddRow(e.LineNumber, truncate(e.Text), e.Reason)
	}
	tbl.Print()
}

func truncate(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	r := []rune(s)
	if len(r) <= maxCellWidth {
		return s
	}
	return string(r[:maxCellWidth-3]) + "..."
}
