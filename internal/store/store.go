// Package store holds what the record store backends share: query options
// and the mapping from raw task documents to TaskRecords.
package store

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/user/wootbridge/internal/types"
)

const (
	DefaultCollection = "tasks"
	DefaultEmailField = "request.notification_email"
	DefaultLimit      = 5
	// SortField orders results newest first. Documents without it sort last.
	SortField = "created_time"
)

// Options selects the task collection and the email filter.
type Options struct {
	Collection string
	EmailField string
	Limit      int
}

// WithDefaults fills zero fields.
func (o Options) WithDefaults() Options {
	if o.Collection == "" {
		o.Collection = DefaultCollection
	}
	if o.EmailField == "" {
		o.EmailField = DefaultEmailField
	}
	if o.Limit <= 0 {
		o.Limit = DefaultLimit
	}
	return o
}

// Clamp bounds a requested limit to the configured maximum.
func (o Options) Clamp(limit int) int {
	if limit <= 0 || limit > o.Limit {
		return o.Limit
	}
	return limit
}

// RecordFromDocument maps a task document onto a TaskRecord. Market type
// and ticker are read from the nested request first; the report URL is read
// from the top level first.
func RecordFromDocument(doc map[string]any) types.TaskRecord {
	req, _ := doc["request"].(map[string]any)

	rec := types.TaskRecord{
		TaskID:     text(doc["task_id"]),
		Status:     types.TaskStatus(text(doc["status"])),
		MarketType: firstText(req["market_type"], doc["market_type"]),
		Ticker:     firstText(req["ticker"], doc["ticker"]),
		ReportURL:  firstText(doc["report_url"], req["report_url"]),
	}
	if ts, ok := timestamp(doc[SortField]); ok {
		rec.CreatedTime = &ts
	}
	return rec
}

func firstText(values ...any) string {
	for _, v := range values {
		if s := text(v); strings.TrimSpace(s) != "" {
			return s
		}
	}
	return ""
}

func text(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case json.Number:
		return val.String()
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case int32:
		return strconv.FormatInt(int64(val), 10)
	case int64:
		return strconv.FormatInt(val, 10)
	case int:
		return strconv.Itoa(val)
	case fmt.Stringer:
		return val.String()
	default:
		return fmt.Sprint(val)
	}
}

func timestamp(v any) (time.Time, bool) {
	switch val := v.(type) {
	case time.Time:
		return val, true
	case string:
		for _, layout := range []string{time.RFC3339Nano, "2006-01-02 15:04:05", "2006-01-02T15:04:05"} {
			if ts, err := time.Parse(layout, val); err == nil {
				return ts, true
			}
		}
	}
	return time.Time{}, false
}
