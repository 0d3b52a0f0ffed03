package report

import (
	"errors"
	"strings"
	"testing"

	"github.com/user/wootbridge/internal/types"
)

func TestTasksEmpty(t *testing.T) {
	text := Tasks("user@example.com", nil)

	if !strings.HasSuffix(text, "未找到该邮箱的相关任务。") {
		t.Errorf("expected not-found suffix, got %q", text)
	}
	if !strings.Contains(text, "user@example.com") {
		t.Errorf("expected echoed email, got %q", text)
	}
	expected := "查询邮箱：user@example.com\n未找到该邮箱的相关任务。"
	if text != expected {
		t.Errorf("expected %q, got %q", expected, text)
	}
}

func TestTasksCompletedRecord(t *testing.T) {
	rec := types.TaskRecord{
		TaskID:     "T1",
		Status:     "completed",
		MarketType: "US",
		Ticker:     "AAPL",
		ReportURL:  "https://x.test/r/1",
	}
	text := Tasks("user@example.com", []types.TaskRecord{rec})

	expected := "查询邮箱：user@example.com\n最新 5 条任务：\n" +
		"1. 任务ID：T1\n" +
		"状态：✅ completed\n" +
		"市场：US\n" +
		"股票代码：AAPL\n" +
		"报告链接：https://x.test/r/1"
	if text != expected {
		t.Errorf("unexpected report:\n%s\nwant:\n%s", text, expected)
	}
}

func TestTasksRunningHidesLink(t *testing.T) {
	rec := types.TaskRecord{
		TaskID:     "T1",
		Status:     "running",
		MarketType: "US",
		Ticker:     "AAPL",
		ReportURL:  "https://x.test/r/1",
	}
	text := Tasks("user@example.com", []types.TaskRecord{rec})

	if strings.Contains(text, "https://x.test/r/1") {
		t.Errorf("expected link hidden for running task, got %q", text)
	}
	if !strings.Contains(text, "报告链接：-") {
		t.Errorf("expected placeholder link, got %q", text)
	}
	if !strings.Contains(text, "⏳ running") {
		t.Errorf("expected running emoji, got %q", text)
	}
}

func TestTasksLinkRequiresExactCompleted(t *testing.T) {
	rec := types.TaskRecord{TaskID: "T1", Status: "Completed", ReportURL: "https://x.test/r/1"}
	text := Tasks("a@b.c", []types.TaskRecord{rec})

	if !strings.Contains(text, "✅ Completed") {
		t.Errorf("expected emoji keyed on lower-cased status, got %q", text)
	}
	if !strings.Contains(text, "报告链接：-") {
		t.Errorf("expected placeholder for non-exact status, got %q", text)
	}
}

func TestTasksMultipleBlocks(t *testing.T) {
	records := []types.TaskRecord{
		{TaskID: "T1", Status: "failed"},
		{TaskID: "T2", Status: "queued"},
		{TaskID: "T3", Status: "weird"},
	}
	text := Tasks("a@b.c", records)

	lines := strings.SplitN(text, "\n", 3)
	if lines[1] != "最新 5 条任务：" {
		t.Errorf("unexpected header line %q", lines[1])
	}
	blocks := strings.Split(lines[2], "\n\n")
	if len(blocks) != 3 {
		t.Fatalf("expected 3 blocks, got %d: %q", len(blocks), lines[2])
	}
	if !strings.HasPrefix(blocks[0], "1. 任务ID：T1\n状态：❌ failed") {
		t.Errorf("unexpected first block %q", blocks[0])
	}
	if !strings.HasPrefix(blocks[1], "2. 任务ID：T2\n状态：🕒 queued") {
		t.Errorf("unexpected second block %q", blocks[1])
	}
	if !strings.HasPrefix(blocks[2], "3. 任务ID：T3\n状态：❔ weird") {
		t.Errorf("unexpected third block %q", blocks[2])
	}
	if !strings.Contains(blocks[2], "市场：-\n股票代码：-") {
		t.Errorf("expected placeholders for missing fields, got %q", blocks[2])
	}
}

func TestTasksTruncates(t *testing.T) {
	records := make([]types.TaskRecord, 7)
	for i := range records {
		records[i] = types.TaskRecord{TaskID: "T", Status: "queued"}
	}
	text := Tasks("a@b.c", records)
	if strings.Contains(text, "6. 任务ID") {
		t.Errorf("expected at most %d blocks, got %q", MaxRecords, text)
	}
}

func TestCleanURL(t *testing.T) {
	tests := []struct {
		raw  string
		want string
		ok   bool
	}{
		{"`https://x.test/r/2`", "https://x.test/r/2", true},
		{" <https://x.test/r/3> ", "https://x.test/r/3", true},
		{`"http://x.test"`, "http://x.test", true},
		{"'https://x.test/a?b=c'", "https://x.test/a?b=c", true},
		{"ftp://x.test/r", "", false},
		{"https://", "", false},
		{"/relative/path", "", false},
		{"``", "", false},
		{"not a url", "", false},
	}
	for _, tt := range tests {
		got, ok := CleanURL(tt.raw)
		if ok != tt.ok || got != tt.want {
			t.Errorf("CleanURL(%q) = (%q, %v), want (%q, %v)", tt.raw, got, ok, tt.want, tt.ok)
		}
	}
}

func TestTasksBacktickWrappedLink(t *testing.T) {
	rec := types.TaskRecord{TaskID: "T2", Status: "completed", ReportURL: "`https://x.test/r/2`"}
	text := Tasks("a@b.c", []types.TaskRecord{rec})
	if !strings.HasSuffix(text, "报告链接：https://x.test/r/2") {
		t.Errorf("expected cleaned link, got %q", text)
	}
}

func TestLookupFailed(t *testing.T) {
	text := LookupFailed("a@b.c", errors.New("connection refused"))
	expected := "查询邮箱：a@b.c\n查询失败：connection refused"
	if text != expected {
		t.Errorf("expected %q, got %q", expected, text)
	}
}
