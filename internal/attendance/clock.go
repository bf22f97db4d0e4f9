// Package attendance 考勤合并规则：按业务时区取日、学员引用解析、
// CSV 行转换、单日统计与到岗明细。纯函数，不依赖存储。
package attendance

import (
	"errors"
	"strings"
	"time"
)

// DayLayout 日期参数格式
const DayLayout = "2006-01-02"

// ErrInvalidDate 日期参数无法解析
var ErrInvalidDate = errors.New("日期格式无效，应为 YYYY-MM-DD")

// Clock 业务时区时钟
// 所有"某一天"统一表示为该日 00:00 UTC 的 time.Time，与数据库 DATE 列一一对应
type Clock struct {
	loc *time.Location
	now func() time.Time
}

// NewClock 创建业务时区时钟
func NewClock(loc *time.Location) *Clock {
	return NewClockAt(loc, time.Now)
}

// NewClockAt 创建指定当前时间来源的时钟
func NewClockAt(loc *time.Location, now func() time.Time) *Clock {
	if loc == nil {
		loc = time.UTC
	}
	return &Clock{loc: loc, now: now}
}

// Location 业务时区
func (c *Clock) Location() *time.Location { return c.loc }

// Now 当前时间（业务时区）
func (c *Clock) Now() time.Time { return c.now().In(c.loc) }

// Today 业务时区下的今天
func (c *Clock) Today() time.Time { return c.Day(c.now()) }

// Day 将任意时刻截断为业务时区下的日期
func (c *Clock) Day(t time.Time) time.Time {
	y, m, d := t.In(c.loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDay 解析日期参数；空串表示今天
// 接受 YYYY-MM-DD（按字面日期）或 RFC3339 时间戳（换算到业务时区后取日）
func (c *Clock) ParseDay(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return c.Today(), nil
	}
	if d, err := time.Parse(DayLayout, s); err == nil {
		return d, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return c.Day(t), nil
	}
	return time.Time{}, ErrInvalidDate
}

// ParseTime 解析打卡时间参数；空串表示当前时间
func (c *Clock) ParseTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return c.Now(), nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	return t.In(c.loc), nil
}

// WeekRange 返回 day 所在周的首尾日期（周日至周六，闭区间）
func (c *Clock) WeekRange(day time.Time) (start, end time.Time) {
	start = day.AddDate(0, 0, -int(day.Weekday()))
	end = start.AddDate(0, 0, 6)
	return start, end
}

// FormatDay 格式化日期
func FormatDay(day time.Time) string { return day.Format(DayLayout) }
