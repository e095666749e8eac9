package model

import (
	"shareit/shared/model"
	"time"
)

const (
	TableName  = "bookings"
	EntityName = "booking"

	FieldID       = "id"
	FieldStart    = "start_dt"
	FieldEnd      = "end_dt"
	FieldItemID   = "item_id"
	FieldBookerID = "booker_id"
	FieldStatus   = "status"
)

// Booking is a stored booking row joined with the item and booker columns its view needs.
type Booking struct {
	ID       int64     `db:"id"        insert:"false"`
	Start    time.Time `db:"start_dt"`
	End      time.Time `db:"end_dt"`
	ItemID   int64     `db:"item_id"`
	BookerID int64     `db:"booker_id"`
	Status   Status    `db:"status"`

	ItemName      string `db:"item_name"      table:"items" column:"name"`
	ItemAvailable bool   `db:"item_available" table:"items" column:"available"`
	ItemOwnerID   int64  `db:"item_owner_id"  table:"items" column:"owner_id"`
	BookerName    string `db:"booker_name"    table:"users" column:"name"`
	model.Metadata
}

func (Booking) Joins() []model.Join {
	return []model.Join{
		{Table: "items", Column: "id", Ref: FieldItemID},
		{Table: "users", Column: "id", Ref: FieldBookerID},
	}
}

// IsVisibleTo reports whether userID may read the booking: its booker or the item owner.
func (b Booking) IsVisibleTo(userID int64) bool {
	return b.BookerID == userID || b.ItemOwnerID == userID
}
