package dto

import (
	"shareit/internal/domains/user/model"
	gModel "shareit/shared/model"
	"shareit/shared/timezone"
)

type CreateUserRequest struct {
	Name  string `json:"name"  validate:"required,notblank,max=255"`
	Email string `json:"email" validate:"required,email,max=512"`
}

func (r *CreateUserRequest) ToModel() model.User {
	now := timezone.Now()

	return model.User{
		Name:  r.Name,
		Email: r.Email,
		Metadata: gModel.Metadata{
			CreatedAt:  now,
			ModifiedAt: now,
		},
	}
}

// UpdateUserRequest is a partial update. Absent fields are left untouched.
type UpdateUserRequest struct {
	Name  *string `db:"name"  json:"name,omitempty"  validate:"omitempty,notblank,max=255"`
	Email *string `db:"email" json:"email,omitempty" validate:"omitempty,email,max=512"`
}

func (r UpdateUserRequest) IsEmpty() bool {
	return r.Name == nil && r.Email == nil
}

type UserResponse struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

func (r *UserResponse) FromModel(user model.User) {
	r.ID = user.ID
	r.Name = user.Name
	r.Email = user.Email
}

func FromModels(users []model.User) []UserResponse {
	res := make([]UserResponse, len(users))
	for i, user := range users {
		res[i].FromModel(user)
	}

	return res
}
