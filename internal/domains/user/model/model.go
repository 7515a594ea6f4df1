package model

import (
	"lockngo/shared/constant"
	"lockngo/shared/model"
)

const (
	TableName  = "users"
	EntityName = "user"
)

type User struct {
	ID       string
	Name     string
	Email    string
	Role     string
	Verified bool
	Phone    string
	Vehicle  string
	Rating   float64
	model.Metadata
}

func (u User) IsAgent() bool {
	return u.Role == constant.RoleAgent
}

func (u User) IsCustomer() bool {
	return u.Role == constant.RoleUser
}

func (u User) IsAdmin() bool {
	return u.Role == constant.RoleAdmin
}

// RoleRank orders roles for listings: admin, agent, user.
func RoleRank(role string) int {
	switch role {
	case constant.RoleAdmin:
		return 0
	case constant.RoleAgent:
		return 1
	case constant.RoleUser:
		return 2 //nolint:mnd
	default:
		return 3 //nolint:mnd
	}
}
