package service

import (
	"errors"
	"strings"
	"time"
)

// ── 日期范围错误 ──

var (
	ErrInvalidRange  = errors.New("起始日期晚于结束日期")
	ErrUnknownPeriod = errors.New("不支持的时间段")
	ErrInvalidDate   = errors.New("日期格式应为 yyyy-MM-dd")
)

// DateKeyLayout 文档路径中的日期键格式（yyyy-MM-dd），与已有数据保持一致，不随地区变化
const DateKeyLayout = "2006-01-02"

// MaxSpanDays 任意查询范围的最大跨度
const MaxSpanDays = 365

// Period 命名时间段
type Period string

const (
	PeriodThisMonth   Period = "this_month"
	PeriodLastMonth   Period = "last_month"
	PeriodLast3Months Period = "last_3_months"
	PeriodLast6Months Period = "last_6_months"
	PeriodLastYear    Period = "last_year"
)

// periodLabels 界面显示名 → 时间段
var periodLabels = map[string]Period{
	"this month":    PeriodThisMonth,
	"last month":    PeriodLastMonth,
	"last 3 months": PeriodLast3Months,
	"last 6 months": PeriodLast6Months,
	"last year":     PeriodLastYear,
}

// ParsePeriod 同时接受显示名（"Last 3 Months"）和 slug（"last_3_months"），忽略大小写；空值视为本月
func ParsePeriod(label string) (Period, error) {
	s := strings.ToLower(strings.TrimSpace(label))
	if s == "" {
		return PeriodThisMonth, nil
	}
	if p, ok := periodLabels[s]; ok {
		return p, nil
	}
	switch p := Period(s); p {
	case PeriodThisMonth, PeriodLastMonth, PeriodLast3Months, PeriodLast6Months, PeriodLastYear:
		return p, nil
	}
	return "", ErrUnknownPeriod
}

// DateRange 闭区间 [Start, End]
type DateRange struct {
	Start time.Time
	End   time.Time
}

// NewDateRange 校验并裁剪范围：Start 晚于 End 返回 ErrInvalidRange；
// 跨度超过 maxSpanDays 天时从末尾截断
func NewDateRange(start, end time.Time, maxSpanDays int) (DateRange, error) {
	if start.After(end) {
		return DateRange{Start: start, End: end}, ErrInvalidRange
	}
	if maxSpanDays <= 0 || maxSpanDays > MaxSpanDays {
		maxSpanDays = MaxSpanDays
	}
	// 按自然日比较：与上限同一天的 end 保留原值
	if limit := start.AddDate(0, 0, maxSpanDays); end.After(limit) {
		ly, lm, ld := limit.Date()
		ey, em, ed := end.In(limit.Location()).Date()
		if ey != ly || em != lm || ed != ld {
			end = limit
		}
	}
	return DateRange{Start: start, End: end}, nil
}

// ResolvePeriod 按参考时间 now 计算命名时间段的具体范围，日期运算均在 loc 时区进行
func ResolvePeriod(label string, now time.Time, loc *time.Location) (DateRange, error) {
	p, err := ParsePeriod(label)
	if err != nil {
		return DateRange{}, err
	}

	now = now.In(loc)
	firstOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, loc)

	var start, end time.Time
	switch p {
	case PeriodThisMonth:
		start, end = firstOfMonth, now
	case PeriodLastMonth:
		start = firstOfMonth.AddDate(0, -1, 0)
		// 上月最后一天 23:59:59.999
		end = firstOfMonth.Add(-time.Millisecond)
	case PeriodLast3Months:
		start, end = firstOfMonth.AddDate(0, -3, 0), now
	case PeriodLast6Months:
		start, end = firstOfMonth.AddDate(0, -6, 0), now
	case PeriodLastYear:
		start, end = StartOfDay(now, loc).AddDate(0, 0, -MaxSpanDays), now
	}

	return NewDateRange(start, end, MaxSpanDays)
}

// Days 返回范围内每个自然日的零点（含首尾）
func (r DateRange) Days(loc *time.Location) []time.Time {
	first := StartOfDay(r.Start, loc)
	last := StartOfDay(r.End, loc)

	n := DaysBetween(first, last, loc) + 1
	if n < 0 {
		n = 0
	}
	days := make([]time.Time, 0, n)
	for d := first; !d.After(last); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}

// StartOfDay 返回 t 在 loc 时区当天零点
func StartOfDay(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

// DaysBetween 两个时间之间相差的自然日数（按日历日计，与夏令时无关）
func DaysBetween(start, end time.Time, loc *time.Location) int {
	s := StartOfDay(start, loc)
	e := StartOfDay(end, loc)
	su := time.Date(s.Year(), s.Month(), s.Day(), 0, 0, 0, 0, time.UTC)
	eu := time.Date(e.Year(), e.Month(), e.Day(), 0, 0, 0, 0, time.UTC)
	return int(eu.Sub(su).Hours() / 24)
}

// FormatDateKey 生成 yyyy-MM-dd 日期键
func FormatDateKey(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(DateKeyLayout)
}

// ParseDateKey 解析 yyyy-MM-dd 为 loc 时区当天零点
func ParseDateKey(key string, loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation(DateKeyLayout, strings.TrimSpace(key), loc)
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	return t, nil
}
