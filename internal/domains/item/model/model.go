package model

import "shareit/shared/model"

const (
	TableName  = "items"
	EntityName = "item"

	FieldID          = "id"
	FieldName        = "name"
	FieldDescription = "description"
	FieldAvailable   = "available"
	FieldOwnerID     = "owner_id"
	FieldRequestID   = "request_id"
)

type Item struct {
	ID          int64  `db:"id"          insert:"false"`
	Name        string `db:"name"`
	Description string `db:"description"`
	Available   bool   `db:"available"`
	OwnerID     int64  `db:"owner_id"`
	RequestID   *int64 `db:"request_id"`
	model.Metadata
}

func (i Item) IsOwnedBy(userID int64) bool {
	return i.OwnerID == userID
}
