package service

import (
	"context"
	"fmt"
	"time"

	"drc-backend/internal/domain"
	"drc-backend/internal/logger"
	"drc-backend/internal/repository"

	"github.com/google/uuid"
)

type notificationService struct {
	noteRepo repository.NotificationRepository
	emailSvc EmailService
	now      func() time.Time
}

func NewNotificationService(noteRepo repository.NotificationRepository, emailSvc EmailService) NotificationService {
	return &notificationService{noteRepo: noteRepo, emailSvc: emailSvc, now: time.Now}
}

func (s *notificationService) GetNotifications(ctx context.Context, netID string, page, pageSize int32) ([]domain.Notification, int32, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	offset := (page - 1) * pageSize
	return s.noteRepo.List(ctx, netID, pageSize, offset)
}

func (s *notificationService) MarkAsRead(ctx context.Context, netID, notificationID string) error {
	if err := s.noteRepo.MarkAsRead(ctx, notificationID, netID); err != nil {
		return fmt.Errorf("mark notification read: %w", err)
	}
	return nil
}

func (s *notificationService) NotifyAchievement(ctx context.Context, user *domain.User, badge string) {
	note := &domain.Notification{
		ID:        uuid.New(),
		UserNetID: user.NetID,
		Title:     "Achievement unlocked",
		Message:   fmt.Sprintf("You earned the %s badge!", badge),
		Attributes: map[string]string{
			"kind":  "achievement",
			"badge": badge,
		},
		CreatedOn: s.now(),
	}
	if err := s.noteRepo.Create(ctx, note); err != nil {
		logger.Error("achievement notification failed", "user", user.NetID, "badge", badge, "error", err)
	}
	if err := s.emailSvc.SendAchievementUnlocked(ctx, user.Email, user.Name, badge); err != nil {
		logger.Error("achievement email failed", "user", user.NetID, "badge", badge, "error", err)
	}
}

func (s *notificationService) NotifyOverdue(ctx context.Context, user *domain.User, c *domain.Container) {
	note := &domain.Notification{
		ID:        uuid.New(),
		UserNetID: user.NetID,
		Title:     "Container overdue",
		Message:   fmt.Sprintf("Container %s is past due. Please return it to any participating location.", c.ContainerID),
		Attributes: map[string]string{
			"kind":         "overdue",
			"container_id": c.ContainerID,
		},
		CreatedOn: s.now(),
	}
	if err := s.noteRepo.Create(ctx, note); err != nil {
		logger.Error("overdue notification failed", "user", user.NetID, "container", c.ContainerID, "error", err)
	}
	if c.DueAt == nil {
		return
	}
	if err := s.emailSvc.SendOverdueReminder(ctx, user.Email, user.Name, c.ContainerID, *c.DueAt); err != nil {
		logger.Error("overdue email failed", "user", user.NetID, "container", c.ContainerID, "error", err)
	}
}
