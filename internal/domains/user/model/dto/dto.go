package dto

import (
	"lockngo/internal/domains/user/model"
	gDto "lockngo/shared/dto"
)

type UserResponse struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Email    string   `json:"email"`
	Role     string   `json:"role"`
	Verified *bool    `json:"verified,omitempty"`
	Phone    string   `json:"phone,omitempty"`
	Vehicle  string   `json:"vehicle,omitempty"`
	Rating   *float64 `json:"rating,omitempty"`
	gDto.Metadata
}

func (r *UserResponse) FromModel(user model.User) {
	r.ID = user.ID
	r.Name = user.Name
	r.Email = user.Email
	r.Role = user.Role
	r.Metadata.FromModel(user.Metadata)

	if user.IsAgent() {
		verified := user.Verified
		rating := user.Rating

		r.Verified = &verified
		r.Phone = user.Phone
		r.Vehicle = user.Vehicle
		r.Rating = &rating
	}
}

func FromModels(users []model.User) []UserResponse {
	res := make([]UserResponse, 0, len(users))

	for _, user := range users {
		var r UserResponse
		r.FromModel(user)
		res = append(res, r)
	}

	return res
}
