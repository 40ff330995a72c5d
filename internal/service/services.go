package service

import (
	"database/sql"

	"go.uber.org/zap"

	"github.com/jengzang/trackcore-go/internal/correction"
)

// Services bundles every service built on one database.
type Services struct {
	Tasks       *TaskService
	Activities  *ActivityService
	Segments    *SegmentService
	Imports     *ImportService
	Corrections *CorrectionService
	Exports     *ExportService
}

// New builds the services on db. lookup may be nil when no elevation
// service is configured.
func New(db *sql.DB, lookup correction.ElevationLookup, log *zap.Logger) *Services {
	tasks := NewTaskService(db, log)
	segments := NewSegmentService(db, tasks, log)
	return &Services{
		Tasks:       tasks,
		Activities:  NewActivityService(db),
		Segments:    segments,
		Imports:     NewImportService(db, segments, tasks, log),
		Corrections: NewCorrectionService(db, lookup, tasks, log),
		Exports:     NewExportService(db),
	}
}
