package dto

import (
	"errors"
	"time"
)

// ErrInvalidDate 日期字符串无法解析
var ErrInvalidDate = errors.New("invalid date")

// 可接受的 ISO-8601 形式，按顺序尝试
var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04:05.000",
}

// ParseDate 解析 ISO-8601 日期，统一转换为 UTC
// 纯日期按 UTC 零点处理，与存储侧保持一致
func ParseDate(s string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, ErrInvalidDate
}

// DateRange 已解析的闭区间 [Start, End]
type DateRange struct {
	Start time.Time
	End   time.Time
}

// Inverted 起始晚于结束
func (r DateRange) Inverted() bool {
	return r.Start.After(r.End)
}

// ParseRange 解析起止日期字符串
// 返回的错误信息可直接面向调用方
func ParseRange(start, end string) (DateRange, error) {
	s, err := ParseDate(start)
	if err != nil {
		return DateRange{}, errors.New("invalid startDate: expected an ISO-8601 date")
	}
	e, err := ParseDate(end)
	if err != nil {
		return DateRange{}, errors.New("invalid endDate: expected an ISO-8601 date")
	}
	return DateRange{Start: s, End: e}, nil
}
