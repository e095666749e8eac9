package dto

import (
	itemDto "shareit/internal/domains/item/model/dto"
	itemModel "shareit/internal/domains/item/model"
	"shareit/internal/domains/request/model"
	"shareit/shared/constant"
	gModel "shareit/shared/model"
	"shareit/shared/timezone"
)

type CreateRequestRequest struct {
	Description string `json:"description" validate:"required,notblank,max=512"`
}

func (r *CreateRequestRequest) ToModel(requesterID int64) model.Request {
	now := timezone.Now()

	return model.Request{
		Description: r.Description,
		RequesterID: requesterID,
		Metadata: gModel.Metadata{
			CreatedAt:  now,
			ModifiedAt: now,
		},
	}
}

type RequestResponse struct {
	ID          int64                  `json:"id"`
	Description string                 `json:"description"`
	Created     string                 `json:"created"`
	Items       []itemDto.ItemResponse `json:"items"`
}

func (r *RequestResponse) FromModel(request model.Request, items []itemModel.Item) {
	r.ID = request.ID
	r.Description = request.Description
	r.Created = timezone.Format(request.CreatedAt, constant.DateTimeFormat)
	r.Items = itemDto.FromModels(items)
}

// FromModels attaches to each request the items answering it.
func FromModels(requests []model.Request, items []itemModel.Item) []RequestResponse {
	byRequest := make(map[int64][]itemModel.Item, len(requests))

	for _, item := range items {
		if item.RequestID != nil {
			byRequest[*item.RequestID] = append(byRequest[*item.RequestID], item)
		}
	}

	res := make([]RequestResponse, len(requests))
	for i, request := range requests {
		res[i].FromModel(request, byRequest[request.ID])
	}

	return res
}
