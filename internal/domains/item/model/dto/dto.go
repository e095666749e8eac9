package dto

import (
	bookingDto "shareit/internal/domains/booking/model/dto"
	"shareit/internal/domains/item/model"
	"shareit/shared/constant"
	gModel "shareit/shared/model"
	"shareit/shared/timezone"
	"strings"
)

type CreateItemRequest struct {
	Name        string `json:"name"                validate:"required,notblank,max=255"`
	Description string `json:"description"         validate:"required,notblank,max=512"`
	Available   *bool  `json:"available"           validate:"required"`
	RequestID   *int64 `json:"requestId,omitempty" validate:"omitempty,gt=0"`
}

func (r *CreateItemRequest) ToModel(ownerID int64) model.Item {
	now := timezone.Now()

	return model.Item{
		Name:        r.Name,
		Description: r.Description,
		Available:   *r.Available,
		OwnerID:     ownerID,
		RequestID:   r.RequestID,
		Metadata: gModel.Metadata{
			CreatedAt:  now,
			ModifiedAt: now,
		},
	}
}

// UpdateItemRequest is a partial update. Blank texts and an absent availability keep the stored values.
type UpdateItemRequest struct {
	Name        *string `db:"name"        json:"name,omitempty"        validate:"omitempty,max=255"`
	Description *string `db:"description" json:"description,omitempty" validate:"omitempty,max=512"`
	Available   *bool   `db:"available"   json:"available,omitempty"`
}

// Normalize drops blank texts so they are not written.
func (r UpdateItemRequest) Normalize() UpdateItemRequest {
	if r.Name != nil && strings.TrimSpace(*r.Name) == "" {
		r.Name = nil
	}

	if r.Description != nil && strings.TrimSpace(*r.Description) == "" {
		r.Description = nil
	}

	return r
}

func (r UpdateItemRequest) IsEmpty() bool {
	return r.Name == nil && r.Description == nil && r.Available == nil
}

type ItemResponse struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Available   bool   `json:"available"`
	OwnerID     int64  `json:"ownerId"`
	RequestID   *int64 `json:"requestId"`
}

func (r *ItemResponse) FromModel(item model.Item) {
	r.ID = item.ID
	r.Name = item.Name
	r.Description = item.Description
	r.Available = item.Available
	r.OwnerID = item.OwnerID
	r.RequestID = item.RequestID
}

func FromModels(items []model.Item) []ItemResponse {
	res := make([]ItemResponse, len(items))
	for i, item := range items {
		res[i].FromModel(item)
	}

	return res
}

// ItemDetailResponse is the item as its page shows it. Bookings are only filled for the owner.
type ItemDetailResponse struct {
	ItemResponse
	LastBooking *bookingDto.BookingResponse `json:"lastBooking"`
	NextBooking *bookingDto.BookingResponse `json:"nextBooking"`
	Comments    []CommentResponse           `json:"comments"`
}

type CreateCommentRequest struct {
	Text string `json:"text" validate:"required,notblank,max=2000"`
}

func (r *CreateCommentRequest) ToModel(itemID, authorID int64) model.Comment {
	now := timezone.Now()

	return model.Comment{
		Text:     r.Text,
		ItemID:   itemID,
		AuthorID: authorID,
		Metadata: gModel.Metadata{
			CreatedAt:  now,
			ModifiedAt: now,
		},
	}
}

type CommentResponse struct {
	ID         int64  `json:"id"`
	Text       string `json:"text"`
	AuthorName string `json:"authorName"`
	Created    string `json:"created"`
}

func (r *CommentResponse) FromModel(comment model.Comment) {
	r.ID = comment.ID
	r.Text = comment.Text
	r.AuthorName = comment.AuthorName
	r.Created = timezone.Format(comment.CreatedAt, constant.DateTimeFormat)
}

func CommentsFromModels(comments []model.Comment) []CommentResponse {
	res := make([]CommentResponse, len(comments))
	for i, comment := range comments {
		res[i].FromModel(comment)
	}

	return res
}
