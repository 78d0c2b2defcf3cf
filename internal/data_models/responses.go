package dto

import (
	"time"

	"task-service.com/task-service/internal/database"
	model "task-service.com/task-service/internal/models"
)

type Pagination struct {
	Total  int64 `json:"total"`
	Limit  int   `json:"limit"`
	Offset int   `json:"offset"`
	Pages  int64 `json:"pages"`
}

type ListTasksResponse struct {
	Items      []model.Task `json:"items"`
	Pagination Pagination   `json:"pagination"`
}

type Stats struct {
	Total           int64      `json:"total"`
	Completed       int64      `json:"completed"`
	Pending         int64      `json:"pending"`
	CompletionRate  float64    `json:"completion_rate"`
	Recent24h       int64      `json:"recent_24h"`
	OldestCreatedAt *time.Time `json:"oldest_created_at"`
}

type DailyActivity struct {
	Date      string `json:"date"`
	Created   int64  `json:"created"`
	Completed int64  `json:"completed"`
}

type HourlyActivity struct {
	Hour  int   `json:"hour"`
	Count int64 `json:"count"`
}

type Analytics struct {
	Daily                []DailyActivity  `json:"daily"`
	Hourly               []HourlyActivity `json:"hourly"`
	AvgCompletionSeconds float64          `json:"avg_completion_seconds"`
}

type DatabaseHealth struct {
	Connected bool   `json:"connected"`
	Time      string `json:"time,omitempty"`
	Version   string `json:"version,omitempty"`
	Error     string `json:"error,omitempty"`
}

type HealthReport struct {
	Status   string             `json:"status"`
	Service  string             `json:"service"`
	Database DatabaseHealth     `json:"database"`
	Pool     database.PoolStats `json:"pool"`
}

type Info struct {
	Service       string `json:"service"`
	Profile       string `json:"profile"`
	Version       string `json:"version"`
	Environment   string `json:"environment"`
	UptimeSeconds int64  `json:"uptime_seconds"`
	Timestamp     string `json:"timestamp"`
}

type RawQueryResponse struct {
	Rows  []map[string]interface{} `json:"rows"`
	Count int                      `json:"count"`
}

type ErrorResponse struct {
	Error     string `json:"error"`
	Details   string `json:"details,omitempty"`
	Timestamp string `json:"timestamp"`
}
