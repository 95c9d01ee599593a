// Package export renders dashboard snapshots as Excel workbooks for
// offline sharing.
package export

import (
	"fmt"
	"io"
	"time"

	"github.com/valarama/costco-agent-assist/pkg/models"
	"github.com/xuri/excelize/v2"
)

const (
	sheetMetrics  = "Metrics"
	sheetHourly   = "Hourly Volume"
	sheetTopics   = "Top Topics"
	sheetProducts = "Top Products"
	sheetIssues   = "Issue Categories"
)

// WriteDashboardXLSX writes a workbook with one sheet per dashboard
// section to w.
func WriteDashboardXLSX(w io.Writer, snap *models.DashboardSnapshot, timeRange string, generatedAt time.Time) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := writeMetricsSheet(f, snap, timeRange, generatedAt); err != nil {
		return err
	}
	if err := writeHourlySheet(f, snap.HourlyVolume); err != nil {
		return err
	}
	if err := writeTopicsSheet(f, snap.TopTopics); err != nil {
		return err
	}
	if err := writeProductsSheet(f, snap.TopProducts); err != nil {
		return err
	}
	if err := writeIssuesSheet(f, snap.IssueDistribution); err != nil {
		return err
	}

	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("drop default sheet: %w", err)
	}
	return f.Write(w)
}

func writeMetricsSheet(f *excelize.File, snap *models.DashboardSnapshot, timeRange string, generatedAt time.Time) error {
	if _, err := f.NewSheet(sheetMetrics); err != nil {
		return fmt.Errorf("create metrics sheet: %w", err)
	}

	m := snap.Metrics
	rows := [][]interface{}{
		{"Metric", "Value"},
		{"Time Range", timeRange},
		{"Generated At", generatedAt.Format(time.RFC3339)},
		{"Total Conversations", m.TotalConversations},
		{"Average Sentiment", m.AvgSentiment},
		{"Positive", m.PositiveCount},
		{"Neutral", m.NeutralCount},
		{"Negative", m.NegativeCount},
		{"Resolved", m.ResolvedCount},
		{"Unresolved", m.UnresolvedCount},
		{"Resolution Rate (%)", m.ResolutionRate},
		{"Satisfied", m.SatisfiedCount},
		{"Dissatisfied", m.DissatisfiedCount},
		{"Satisfaction Rate (%)", m.SatisfactionRate},
		{"Total Leads", m.TotalLeads},
		{"Average Lead Score", m.AvgLeadScore},
		{"Total Opportunity Value", m.TotalOpportunityValue},
		{"Average Duration (min)", m.AvgDurationMinutes},
	}
	return writeRows(f, sheetMetrics, rows)
}

func writeHourlySheet(f *excelize.File, buckets []models.HourBucket) error {
	if _, err := f.NewSheet(sheetHourly); err != nil {
		return fmt.Errorf("create hourly sheet: %w", err)
	}
	rows := [][]interface{}{{"Hour", "Conversations"}}
	for _, b := range buckets {
		rows = append(rows, []interface{}{b.Hour, b.Count})
	}
	return writeRows(f, sheetHourly, rows)
}

func writeTopicsSheet(f *excelize.File, topics []models.TopicCount) error {
	if _, err := f.NewSheet(sheetTopics); err != nil {
		return fmt.Errorf("create topics sheet: %w", err)
	}
	rows := [][]interface{}{{"Topic", "Count"}}
	for _, t := range topics {
		rows = append(rows, []interface{}{t.Topic, t.Count})
	}
	return writeRows(f, sheetTopics, rows)
}

func writeProductsSheet(f *excelize.File, products []models.ProductCount) error {
	if _, err := f.NewSheet(sheetProducts); err != nil {
		return fmt.Errorf("create products sheet: %w", err)
	}
	rows := [][]interface{}{{"Product", "Mentions"}}
	for _, p := range products {
		rows = append(rows, []interface{}{p.Product, p.Count})
	}
	return writeRows(f, sheetProducts, rows)
}

func writeIssuesSheet(f *excelize.File, issues []models.IssueCategoryStat) error {
	if _, err := f.NewSheet(sheetIssues); err != nil {
		return fmt.Errorf("create issues sheet: %w", err)
	}
	rows := [][]interface{}{{"Category", "Count", "Average Sentiment"}}
	for _, ic := range issues {
		rows = append(rows, []interface{}{ic.IssueCategory, ic.Count, ic.AvgSentiment})
	}
	return writeRows(f, sheetIssues, rows)
}

func writeRows(f *excelize.File, sheet string, rows [][]interface{}) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return fmt.Errorf("cell name: %w", err)
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("write row %d on %s: %w", i+1, sheet, err)
		}
	}
	return nil
}
