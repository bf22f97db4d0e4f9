// Package metrics Prometheus 指标定义
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "talenthub"

var (
	// HTTPRequests 按路由模板统计请求数
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "HTTP 请求总数",
	}, []string{"method", "route", "status"})

	// HTTPDuration 请求耗时分布
	HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "HTTP 请求耗时",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route"})

	// AttendanceMarked 考勤写入次数，source: manual | qr | daily_qr | online_manual | csv
	AttendanceMarked = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "attendance_marked_total",
		Help:      "考勤记录写入次数",
	}, []string{"source", "status"})

	// CSVUploadRecords CSV 导入逐条结果，result: success | failed
	CSVUploadRecords = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "csv_upload_records_total",
		Help:      "Teams CSV 导入记录数",
	}, []string{"result"})

	// QRScans 扫码结果，result: ok | duplicate | revoked | expired | invalid
	QRScans = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "qr_scans_total",
		Help:      "签到二维码扫码次数",
	}, []string{"result"})

	// SummaryRuns 每日汇总任务执行次数，result: ok | error
	SummaryRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "daily_summary_runs_total",
		Help:      "每日汇总任务执行次数",
	}, []string{"result"})
)
