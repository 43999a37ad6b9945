package services

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/attorneycare/server/internal/db/models"
	"github.com/attorneycare/server/pkg/metrics"
)

// AuditEntry is one actor/action/entity tuple to be appended to the audit
// log.
type AuditEntry struct {
	ActorID    string
	ActorRole  string
	Action     string
	EntityType string
	EntityID   string
	Metadata   map[string]interface{}
}

// AuditService appends entries to the relational audit log. Writes are
// best-effort and decoupled from the request path: entries flow through a
// buffered channel into a single worker, and an insert failure is logged
// and counted but never surfaced to the caller. The primary write has
// already committed by the time an entry is recorded, so the two stores can
// drift under partial failure.
type AuditService struct {
	db      *gorm.DB
	logger  *zap.Logger
	metrics *metrics.Collector
	queue   chan AuditEntry
	done    chan struct{}
}

func NewAuditService(gdb *gorm.DB, logger *zap.Logger, collector *metrics.Collector) *AuditService {
	s := &AuditService{
		db:      gdb,
		logger:  logger.With(zap.String("service", "audit")),
		metrics: collector,
		queue:   make(chan AuditEntry, 256),
		done:    make(chan struct{}),
	}
	go s.run()
	return s
}

func (s *AuditService) run() {
	for entry := range s.queue {
		s.append(entry)
	}
	close(s.done)
}

func encodeMetadata(metadata map[string]interface{}) string {
	if len(metadata) == 0 {
		return "{}"
	}
	raw, err := json.Marshal(metadata)
	if err != nil {
		return "{}"
	}
	return string(raw)
}

func (s *AuditService) append(entry AuditEntry) {
	row := models.AuditLog{
		ActorID:    entry.ActorID,
		ActorRole:  entry.ActorRole,
		Action:     entry.Action,
		EntityType: entry.EntityType,
		EntityID:   entry.EntityID,
		Metadata:   encodeMetadata(entry.Metadata),
	}
	if err := s.db.Create(&row).Error; err != nil {
		s.logger.Error("Audit append failed",
			zap.String("action", entry.Action),
			zap.String("entity_type", entry.EntityType),
			zap.Error(err))
		s.metrics.IncrementCounter("audit.append_failures", nil)
		return
	}
	s.metrics.IncrementCounter("audit.appends", map[string]string{"action": entry.Action})
}

// Record enqueues the entry. A full queue drops it with a warning rather
// than blocking the request.
func (s *AuditService) Record(entry AuditEntry) {
	select {
	case s.queue <- entry:
	default:
		s.logger.Warn("Audit queue full, dropping entry", zap.String("action", entry.Action))
		s.metrics.IncrementCounter("audit.dropped", nil)
	}
}

// Close stops accepting entries and drains what is already queued.
func (s *AuditService) Close() {
	close(s.queue)
	<-s.done
}

// Recent returns audit rows newest first for the oversight endpoint.
func (s *AuditService) Recent(ctx context.Context, limit, offset int) ([]models.AuditLog, error) {
	logs := []models.AuditLog{}
	err := s.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&logs).Error
	return logs, err
}
