package model

import "shareit/shared/model"

const (
	TableName  = "item_requests"
	EntityName = "item request"

	FieldID          = "id"
	FieldDescription = "description"
	FieldRequesterID = "requester_id"
)

// Request is a user asking for an item nobody lists yet. Owners answer it by creating an item with its id.
type Request struct {
	ID          int64  `db:"id"           insert:"false"`
	Description string `db:"description"`
	RequesterID int64  `db:"requester_id"`
	model.Metadata
}
