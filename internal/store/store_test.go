package store

import (
	"encoding/json"
	"testing"
	"time"
)

func TestRecordFromDocumentNestedRequest(t *testing.T) {
	doc := map[string]any{
		"task_id": "T1",
		"status":  "completed",
		"request": map[string]any{
			"market_type": "US",
			"ticker":      "AAPL",
			"report_url":  "https://x.test/r/1",
		},
		"created_time": "2026-03-01T08:00:00Z",
	}

	rec := RecordFromDocument(doc)
	if rec.TaskID != "T1" || rec.Status != "completed" {
		t.Errorf("unexpected id/status: %+v", rec)
	}
	if rec.MarketType != "US" || rec.Ticker != "AAPL" {
		t.Errorf("expected request fields, got %+v", rec)
	}
	if rec.ReportURL != "https://x.test/r/1" {
		t.Errorf("expected nested report url, got %q", rec.ReportURL)
	}
	if rec.CreatedTime == nil || !rec.CreatedTime.Equal(time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)) {
		t.Errorf("unexpected created time %v", rec.CreatedTime)
	}
}

func TestRecordFromDocumentTopLevelURLWins(t *testing.T) {
	doc := map[string]any{
		"task_id":    json.Number("17"),
		"status":     "completed",
		"report_url": "https://top.test/r",
		"ticker":     "MSFT",
		"request":    map[string]any{"report_url": "https://nested.test/r"},
	}

	rec := RecordFromDocument(doc)
	if rec.TaskID != "17" {
		t.Errorf("expected numeric task id as text, got %q", rec.TaskID)
	}
	if rec.ReportURL != "https://top.test/r" {
		t.Errorf("expected top-level report url, got %q", rec.ReportURL)
	}
	if rec.Ticker != "MSFT" {
		t.Errorf("expected top-level ticker fallback, got %q", rec.Ticker)
	}
	if rec.CreatedTime != nil {
		t.Errorf("expected no created time, got %v", rec.CreatedTime)
	}
}

func TestRecordFromDocumentEmpty(t *testing.T) {
	rec := RecordFromDocument(map[string]any{})
	if rec.TaskID != "" || rec.Status != "" || rec.ReportURL != "" {
		t.Errorf("expected zero record, got %+v", rec)
	}
}

func TestOptionsDefaults(t *testing.T) {
	opts := Options{}.WithDefaults()
	if opts.Collection != "tasks" || opts.EmailField != "request.notification_email" || opts.Limit != 5 {
		t.Errorf("unexpected defaults %+v", opts)
	}
	if opts.Clamp(0) != 5 || opts.Clamp(50) != 5 || opts.Clamp(2) != 2 {
		t.Error("unexpected clamp results")
	}
}
