package service

import (
	"context"
	"encoding/json"

	"packtrack/internal/model"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type AuditLogResponse struct {
	ID         string `json:"id"`
	ActorID    string `json:"actor_id"`
	ActorEmail string `json:"actor_email"`
	Action     string `json:"action"`
	EntityID   string `json:"entity_id"`
	EntityName string `json:"entity_name"`
	Details    string `json:"details"`
	CreatedAt  string `json:"created_at"`
}

// AuditService records the dashboard's own activity trail: every package
// and staff action, who triggered it, and the payload sent. This is local
// state; the remote backend keeps its own history.
type AuditService interface {
	// Record writes one entry. Failures are logged and swallowed so an
	// audit hiccup never blocks the user action itself.
	Record(ctx context.Context, actorID, actorEmail, action, entityID, entityName string, details interface{})
	GetAuditLogs(ctx context.Context, page, limit int) ([]AuditLogResponse, int64, error)
}

type auditService struct {
	db *gorm.DB
}

// NewAuditService creates a new AuditService instance
func NewAuditService(db *gorm.DB) AuditService {
	return &auditService{db: db}
}

func (s *auditService) Record(ctx context.Context, actorID, actorEmail, action, entityID, entityName string, details interface{}) {
	if s.db == nil {
		return
	}

	payload := ""
	if details != nil {
		if data, err := json.Marshal(details); err == nil {
			payload = string(data)
		}
	}

	entry := model.AuditLog{
		ActorID:    actorID,
		ActorEmail: actorEmail,
		Action:     action,
		EntityID:   entityID,
		EntityName: entityName,
		Details:    payload,
	}
	if err := s.db.WithContext(ctx).Create(&entry).Error; err != nil {
		logrus.WithError(err).Error("audit record failed")
	}
}

// GetAuditLogs retrieves strictly paginated records, newest first.
func (s *auditService) GetAuditLogs(ctx context.Context, page, limit int) ([]AuditLogResponse, int64, error) {
	var logs []model.AuditLog
	var total int64

	// Count total records
	if err := s.db.WithContext(ctx).Model(&model.AuditLog{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := s.db.WithContext(ctx).Order("created_at desc").Offset(offset).Limit(limit).Find(&logs).Error; err != nil {
		return nil, 0, err
	}

	res := make([]AuditLogResponse, 0, len(logs))
	for _, l := range logs {
		actor := l.ActorEmail
		if actor == "" {
			actor = "System"
		}
		res = append(res, AuditLogResponse{
			ID:         l.ID.String(),
			ActorID:    l.ActorID,
			ActorEmail: actor,
			Action:     l.Action,
			EntityID:   l.EntityID,
			EntityName: l.EntityName,
			Details:    l.Details,
			CreatedAt:  l.CreatedAt.Format("2006-01-02 15:04:05"),
		})
	}

	return res, total, nil
}
