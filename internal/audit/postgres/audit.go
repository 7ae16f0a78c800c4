package postgres

import (
	"github.com/vivekrana775/ems-backend/internal/audit"
	auditDatamodel "github.com/vivekrana775/ems-backend/internal/core/datamodel/audit"
	"gorm.io/gorm"
)

// AuditWriter appends audit rows. Nothing in the core reads them back.
type AuditWriter struct {
	db *gorm.DB
}

func NewAuditWriter(db *gorm.DB) audit.Writer {
	return &AuditWriter{db: db}
}

func (w *AuditWriter) Write(log *auditDatamodel.AuditLog) error {
	return w.db.Create(log).Error
}
