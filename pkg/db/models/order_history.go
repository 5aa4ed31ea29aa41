package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/rasilexpress/backoffice/pkg/enums"
)

// OrderHistory is an append-only audit row recorded on every status change.
type OrderHistory struct {
	ID        uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID   uuid.UUID         `gorm:"column:order_id;type:uuid;not null;index"`
	Status    enums.OrderStatus `gorm:"column:status;not null"`
	OldStatus *string           `gorm:"column:old_status"`
	ChangedBy *uuid.UUID        `gorm:"column:changed_by;type:uuid"`
	Notes     *string           `gorm:"column:notes"`
	CreatedAt time.Time         `gorm:"column:created_at;autoCreateTime"`
}

// TableName keeps the audit table singular.
func (OrderHistory) TableName() string {
	return "order_history"
}
