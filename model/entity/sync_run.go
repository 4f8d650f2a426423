package entity

import (
	"time"

	"gorm.io/datatypes"
)

// Sync run statuses.
const (
	SyncRunRunning = "running"
	SyncRunSuccess = "success"
	SyncRunPartial = "partial"
	SyncRunFailed  = "failed"
)

// MagentoSyncRun records one execution of a sync operation for one app.
// Partial means the run finished but some records failed and were skipped.
type MagentoSyncRun struct {
	RunID      uint           `gorm:"column:run_id;primaryKey;autoIncrement" json:"run_id,omitempty"`
	AppID      uint           `gorm:"column:app_id;not null;index" json:"app_id"`
	Operation  string         `gorm:"column:operation;type:varchar(64);not null" json:"operation"`
	Status     string         `gorm:"column:status;type:varchar(16);not null" json:"status"`
	Created    int            `gorm:"column:created;not null;default:0" json:"created"`
	Updated    int            `gorm:"column:updated;not null;default:0" json:"updated"`
	Skipped    int            `gorm:"column:skipped;not null;default:0" json:"skipped"`
	Failed     int            `gorm:"column:failed;not null;default:0" json:"failed"`
	Stats      datatypes.JSON `gorm:"column:stats" json:"stats,omitempty"`
	Error      string         `gorm:"column:error;type:text" json:"error,omitempty"`
	StartedAt  time.Time      `gorm:"column:started_at;not null" json:"started_at"`
	FinishedAt *time.Time     `gorm:"column:finished_at" json:"finished_at,omitempty"`
}

func (MagentoSyncRun) TableName() string {
	return "magento_sync_run"
}
