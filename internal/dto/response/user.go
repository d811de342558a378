package response

import (
	"catalog-api/internal/data/entity"

	"github.com/samber/lo"
)

type UserResponse struct {
	Username  string          `json:"username"`
	Email     string          `json:"email"`
	FirstName string          `json:"first_name"`
	LastName  string          `json:"last_name"`
	Bio       *string         `json:"bio"`
	Role      entity.UserRole `json:"role"`
}

func UserToResponse(user *entity.User) UserResponse {
	return UserResponse{
		Username:  user.Username,
		Email:     user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Bio:       user.Bio,
		Role:      user.Role,
	}
}

func UsersToResponse(users []*entity.User) []UserResponse {
	return lo.Map(users, func(u *entity.User, _ int) UserResponse { return UserToResponse(u) })
}
