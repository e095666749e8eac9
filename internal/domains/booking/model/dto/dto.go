package dto

import (
	"fmt"
	"shareit/internal/domains/booking/model"
	"shareit/shared/constant"
	gModel "shareit/shared/model"
	"shareit/shared/timezone"
	"shareit/shared/validator"
	"time"

	"github.com/google/uuid"
)

type CreateBookingRequest struct {
	ItemID int64  `json:"itemId" validate:"required,gt=0"`
	Start  string `json:"start"  validate:"required,datetime_local"`
	End    string `json:"end"    validate:"required,datetime_local"`
}

// ToModel builds a WAITING booking for bookerID. Date range rules are enforced by the service.
func (r *CreateBookingRequest) ToModel(bookerID int64) (model.Booking, error) {
	start, err := validator.ParseDateTime(r.Start)
	if err != nil {
		return model.Booking{}, fmt.Errorf("start: %w", err)
	}

	end, err := validator.ParseDateTime(r.End)
	if err != nil {
		return model.Booking{}, fmt.Errorf("end: %w", err)
	}

	now := timezone.Now()

	return model.Booking{
		Start:    start,
		End:      end,
		ItemID:   r.ItemID,
		BookerID: bookerID,
		Status:   model.StatusWaiting,
		Metadata: gModel.Metadata{
			CreatedAt:  now,
			ModifiedAt: now,
		},
	}, nil
}

type ItemView struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Available bool   `json:"available"`
}

type BookerView struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type BookingResponse struct {
	ID     int64        `json:"id"`
	Start  string       `json:"start"`
	End    string       `json:"end"`
	Status model.Status `json:"status"`
	Item   ItemView     `json:"item"`
	Booker BookerView   `json:"booker"`
}

func (r *BookingResponse) FromModel(booking model.Booking) {
	r.ID = booking.ID
	r.Start = timezone.Format(booking.Start, constant.DateTimeFormat)
	r.End = timezone.Format(booking.End, constant.DateTimeFormat)
	r.Status = booking.Status
	r.Item = ItemView{
		ID:        booking.ItemID,
		Name:      booking.ItemName,
		Available: booking.ItemAvailable,
	}
	r.Booker = BookerView{
		ID:   booking.BookerID,
		Name: booking.BookerName,
	}
}

// FromModels keeps the order of bookings and never returns nil.
func FromModels(bookings []model.Booking) []BookingResponse {
	res := make([]BookingResponse, len(bookings))
	for i, booking := range bookings {
		res[i].FromModel(booking)
	}

	return res
}

const (
	EventBookingCreated  = "booking.created"
	EventBookingApproved = "booking.approved"
	EventBookingRejected = "booking.rejected"
)

// BookingEvent is published after a booking is created or decided.
type BookingEvent struct {
	ID         string       `json:"id"`
	Type       string       `json:"type"`
	BookingID  int64        `json:"bookingId"`
	ItemID     int64        `json:"itemId"`
	BookerID   int64        `json:"bookerId"`
	OwnerID    int64        `json:"ownerId"`
	Status     model.Status `json:"status"`
	Start      time.Time    `json:"start"`
	End        time.Time    `json:"end"`
	OccurredAt time.Time    `json:"occurredAt"`
}

func NewBookingEvent(eventType string, booking model.Booking) BookingEvent {
	return BookingEvent{
		ID:         uuid.NewString(),
		Type:       eventType,
		BookingID:  booking.ID,
		ItemID:     booking.ItemID,
		BookerID:   booking.BookerID,
		OwnerID:    booking.ItemOwnerID,
		Status:     booking.Status,
		Start:      booking.Start,
		End:        booking.End,
		OccurredAt: timezone.Now(),
	}
}

// DecisionEvent names the event for a terminal status.
func DecisionEvent(status model.Status) string {
	if status == model.StatusApproved {
		return EventBookingApproved
	}

	return EventBookingRejected
}
