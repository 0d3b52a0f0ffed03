// Package report renders the bot's chat replies.
package report

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/user/wootbridge/internal/types"
)

const (
	WelcomeText = "欢迎来到客服！请问有什么可以帮助您？\n" +
		"发送 /query <邮箱> 可查询您最近的分析任务。"
	UsageText = "用法：/query <邮箱>\n" +
		"例如：/query user@example.com"
	InvalidEmailText = "邮箱格式不正确，请检查后重试。\n" +
		"例如：/query user@example.com"

	placeholder = "-"
)

// MaxRecords bounds the number of tasks listed in one report.
const MaxRecords = 5

var statusEmoji = map[types.TaskStatus]string{
	types.TaskCompleted: "✅",
	types.TaskFailed:    "❌",
	types.TaskRunning:   "⏳",
	types.TaskQueued:    "🕒",
	types.TaskUnknown:   "❔",
}

// StatusEmoji returns the marker for a status, keyed on its lower-cased form.
func StatusEmoji(status types.TaskStatus) string {
	return statusEmoji[status.Kind()]
}

// Tasks renders the reply for a /query lookup.
func Tasks(email string, records []types.TaskRecord) string {
	if len(records) == 0 {
		return fmt.Sprintf("查询邮箱：%s\n未找到该邮箱的相关任务。", email)
	}
	if len(records) > MaxRecords {
		records = records[:MaxRecords]
	}

	blocks := make([]string, 0, len(records))
	for i, rec := range records {
		blocks = append(blocks, taskBlock(i+1, rec))
	}
	header := fmt.Sprintf("查询邮箱：%s\n最新 %d 条任务：", email, MaxRecords)
	return header + "\n" + strings.Join(blocks, "\n\n")
}

// LookupFailed renders the reply sent when the record store cannot be read.
func LookupFailed(email string, err error) string {
	return fmt.Sprintf("查询邮箱：%s\n查询失败：%v", email, err)
}

func taskBlock(n int, rec types.TaskRecord) string {
	status := string(rec.Status)
	if status == "" {
		status = string(types.TaskUnknown)
	}
	lines := []string{
		fmt.Sprintf("%d. 任务ID：%s", n, orPlaceholder(rec.TaskID)),
		fmt.Sprintf("状态：%s %s", StatusEmoji(rec.Status), status),
		fmt.Sprintf("市场：%s", orPlaceholder(rec.MarketType)),
		fmt.Sprintf("股票代码：%s", orPlaceholder(rec.Ticker)),
		fmt.Sprintf("报告链接：%s", reportLink(rec)),
	}
	return strings.Join(lines, "\n")
}

// reportLink only exposes links of completed tasks.
func reportLink(rec types.TaskRecord) string {
	if rec.Status != types.TaskCompleted || strings.TrimSpace(rec.ReportURL) == "" {
		return placeholder
	}
	if u, ok := CleanURL(rec.ReportURL); ok {
		return u
	}
	return placeholder
}

// CleanURL strips wrapping backticks, quotes, angle brackets and whitespace
// and reports whether the remainder is an absolute http(s) URL with a host.
func CleanURL(raw string) (string, bool) {
	s := strings.Trim(raw, " \t\r\n`\"'<>")
	if s == "" {
		return "", false
	}
	u, err := url.Parse(s)
	if err != nil {
		return "", false
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return "", false
	}
	return s, true
}

func orPlaceholder(s string) string {
	if strings.TrimSpace(s) == "" {
		return placeholder
	}
	return s
}
