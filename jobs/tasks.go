// Package jobs holds the background tasks processed by the worker binary.
package jobs

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskLowStockScan is the task type for the periodic low stock sweep.
	TaskLowStockScan = "parts:low_stock_scan"
)

// LowStockScanPayload bounds one low stock sweep.
type LowStockScanPayload struct {
	// Limit caps the number of parts reported per run. Zero means the
	// default of 500.
	Limit int `json:"limit"`
}

// NewLowStockScanTask constructs an Asynq task.
func NewLowStockScanTask(payload LowStockScanPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskLowStockScan, data), nil
}
