package export

import (
	"fmt"
	"io"
	"time"

	"jobmatch/internal/domain/matching"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
)

const (
	summarySheet = "Summary"
	rankingSheet = "Ranked Candidates"
)

// RankingMeta describes the export in the summary sheet.
type RankingMeta struct {
	CompanyID   uuid.UUID
	Filters     matching.Filters
	GeneratedAt time.Time
}

var baseHeaders = []string{
	"Rank", "Candidate ID", "Request ID", "Posting ID", "Posting Title",
	"Field of Study", "Job Type", "Work Type", "City", "Score %",
}

func Headers() []string {
	out := append([]string(nil), baseHeaders...)
	for _, c := range matching.Criteria {
		out = append(out, string(c))
	}
	return out
}

// WriteRanking renders page into an xlsx workbook on w.
func WriteRanking(w io.Writer, page matching.Page, meta RankingMeta) error {
	f := excelize.NewFile()
	defer func() {
		_ = f.Close()
	}()

	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return err
	}
	if _, err := f.NewSheet(rankingSheet); err != nil {
		return err
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return err
	}

	if err := writeSummary(f, page, meta, headerStyle); err != nil {
		return fmt.Errorf("summary sheet: %w", err)
	}
	if err := writeRanked(f, page, headerStyle); err != nil {
		return fmt.Errorf("ranking sheet: %w", err)
	}

	if idx, err := f.GetSheetIndex(rankingSheet); err == nil {
		f.SetActiveSheet(idx)
	}
	return f.Write(w)
}

func writeSummary(f *excelize.File, page matching.Page, meta RankingMeta, headerStyle int) error {
	if err := f.SetColWidth(summarySheet, "A", "A", 24); err != nil {
		return err
	}
	if err := f.SetColWidth(summarySheet, "B", "B", 40); err != nil {
		return err
	}

	generated := meta.GeneratedAt
	if generated.IsZero() {
		generated = time.Now()
	}
	minScore := matching.Score{Value: meta.Filters.MinScore}

	rows := [][]any{
		{"Ranking Export", ""},
		{"Company", meta.CompanyID.String()},
		{"Generated", generated.UTC().Format(time.RFC3339)},
		{"Field of Study filter", meta.Filters.Field},
		{"Job Type filter", string(meta.Filters.JobType)},
		{"Work Type filter", string(meta.Filters.WorkType)},
		{"City filter", meta.Filters.City},
		{"Minimum Score %", minScore.Percent()},
		{"Pairs Scanned", page.Scanned},
		{"Pairs Listed", len(page.Items)},
		{"Truncated", page.Truncated},
	}
	for i, r := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(summarySheet, cell, &r); err != nil {
			return err
		}
	}
	if err := f.MergeCell(summarySheet, "A1", "B1"); err != nil {
		return err
	}
	return f.SetCellStyle(summarySheet, "A1", "B1", headerStyle)
}

func writeRanked(f *excelize.File, page matching.Page, headerStyle int) error {
	headers := Headers()
	row := make([]any, len(headers))
	for i, h := range headers {
		row[i] = h
	}
	if err := f.SetSheetRow(rankingSheet, "A1", &row); err != nil {
		return err
	}
	last, err := excelize.CoordinatesToCellName(len(headers), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(rankingSheet, "A1", last, headerStyle); err != nil {
		return err
	}
	if err := f.SetColWidth(rankingSheet, "B", "D", 38); err != nil {
		return err
	}

	offset := (page.Page - 1) * page.PageSize
	if offset < 0 {
		offset = 0
	}
	for i, item := range page.Items {
		values := []any{
			offset + i + 1,
			item.Request.CandidateID.String(),
			item.Request.ID.String(),
			item.Posting.ID.String(),
			item.Posting.Title,
			item.Request.FieldOfStudy,
			string(item.Request.JobType),
			string(item.Request.WorkType),
			item.Request.City,
			item.Score.Percent(),
		}
		for _, c := range matching.Criteria {
			values = append(values, item.Score.Breakdown.Of(c))
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(rankingSheet, cell, &values); err != nil {
			return err
		}
	}

	return f.SetPanes(rankingSheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})
}
