package domain

import (
	"time"

	"github.com/google/uuid"
)

type Notification struct {
	ID         uuid.UUID         `json:"id"`
	UserNetID  string            `json:"user_net_id"`
	Title      string            `json:"title"`
	Message    string            `json:"message"`
	Attributes map[string]string `json:"attributes,omitempty"`
	IsRead     bool              `json:"is_read"`
	CreatedOn  time.Time         `json:"created_on"`
}
