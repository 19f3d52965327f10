package model

import (
	"time"
)

// IngestRun 一次向量导入任务的汇总记录
type IngestRun struct {
	ID             uint      `json:"id" gorm:"primaryKey"`
	Backend        string    `json:"backend"`
	TotalItems     int       `json:"total_items"`
	BatchesOK      int       `json:"batches_ok"`
	BatchesFailed  int       `json:"batches_failed"`
	ItemsUpserted  int       `json:"items_upserted"`
	FailureSummary string    `json:"failure_summary"`
	StartedAt      time.Time `json:"started_at" gorm:"index"`
	FinishedAt     time.Time `json:"finished_at"`
}
