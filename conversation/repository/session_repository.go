package repository

import (
	"context"

	"support-chat-dashboard/backend/conversation/models"

	"gorm.io/gorm"
)

type SessionRepository interface {
	GetByExternalID(ctx context.Context, sessionID string) (*models.Session, error)
	GetByExternalIDs(ctx context.Context, sessionIDs []string) ([]models.Session, error)
}

type GormSessionRepository struct {
	db *gorm.DB
}

func NewGormSessionRepository(db *gorm.DB) *GormSessionRepository {
	return &GormSessionRepository{db: db}
}

func (r *GormSessionRepository) GetByExternalID(ctx context.Context, sessionID string) (*models.Session, error) {
	var session models.Session
	err := r.db.WithContext(ctx).
		Preload("Customer").
		Preload("Agent").
		Preload("Classification").
		Preload("AIAnalysis").
		Where("external_id = ?", sessionID).
		First(&session).Error
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *GormSessionRepository) GetByExternalIDs(ctx context.Context, sessionIDs []string) ([]models.Session, error) {
	if len(sessionIDs) == 0 {
		return nil, nil
	}
	var sessions []models.Session
	err := r.db.WithContext(ctx).
		Preload("Customer").
		Preload("Agent").
		Preload("Classification").
		Preload("AIAnalysis").
		Where("external_id IN ?", sessionIDs).
		Find(&sessions).Error
	return sessions, err
}
