package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/preen/pkg/domain/model"
)

var (
	summaryTitleStyle  = lipgloss.NewStyle().Bold(true)
	summaryHeaderStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	summaryCellStyle   = lipgloss.NewStyle().Padding(0, 1)
	summaryOKStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	summaryFailStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	summaryRuleStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

var summaryHeaders = []string{"SITE", "RESULT", "ATTEMPTS", "DURATION", "NOTE"}

// printSummary writes the run summary in the requested format
func printSummary(w io.Writer, format string, summary *model.ExecutionSummary) error {
	if format == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(summary); err != nil {
			return goerr.Wrap(err, "failed to encode summary")
		}
		return nil
	}

	if _, err := io.WriteString(w, renderSummaryTable(summary)); err != nil {
		return goerr.Wrap(err, "failed to write summary")
	}
	return nil
}

// renderSummaryTable renders the human readable run summary
func renderSummaryTable(summary *model.ExecutionSummary) string {
	var sb strings.Builder

	title := fmt.Sprintf("Run %s: %d/%d sites updated in %s",
		summary.RunID,
		summary.Succeeded(),
		len(summary.Results),
		summary.Duration().Round(time.Second))
	sb.WriteString(summaryTitleStyle.Render(title))
	sb.WriteString("\n\n")

	rows := make([][]string, 0, len(summary.Results))
	for _, r := range summary.Results {
		rows = append(rows, []string{
			r.SiteName,
			resultCell(r.Success),
			strconv.Itoa(r.Attempts),
			r.Duration.Round(time.Second).String(),
			resultNote(r),
		})
	}

	colWidths := make([]int, len(summaryHeaders))
	for i, h := range summaryHeaders {
		colWidths[i] = lipgloss.Width(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if w := lipgloss.Width(cell); w > colWidths[i] {
				colWidths[i] = w
			}
		}
	}
	for i := range colWidths {
		colWidths[i] += 2
	}

	totalWidth := 0
	for _, w := range colWidths {
		totalWidth += w
	}

	for i, h := range summaryHeaders {
		sb.WriteString(summaryHeaderStyle.Width(colWidths[i]).Render(h))
	}
	sb.WriteString("\n")
	sb.WriteString(summaryRuleStyle.Render(strings.Repeat("-", totalWidth)))
	sb.WriteString("\n")

	for _, row := range rows {
		for i, cell := range row {
			sb.WriteString(summaryCellStyle.Width(colWidths[i]).Render(cell))
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

func resultCell(success bool) string {
	if success {
		return summaryOKStyle.Render("ok")
	}
	return summaryFailStyle.Render("failed")
}

// resultNote condenses the interesting part of a result into one cell: the
// error for failures, the written length for successes.
func resultNote(r model.WorkflowResult) string {
	if !r.Success {
		return r.Error
	}
	if n, ok := r.Details["content_length"]; ok {
		return fmt.Sprintf("%v chars written", n)
	}
	return ""
}
