package model

type User struct {
	ID                   string  `json:"id"`
	Email                string  `json:"email"`
	Name                 string  `json:"name"`
	PhoneNumber          *string `json:"phoneNumber,omitempty"`
	EmailConfirmed       bool    `json:"emailConfirmed,omitempty"`
	PhoneNumberConfirmed bool    `json:"phoneNumberConfirmed,omitempty"`
	AvatarURL            *string `json:"avatarUrl,omitempty"`
	CoverURL             *string `json:"coverUrl,omitempty"`
	Role                 string  `json:"role,omitempty"`
	Status               string  `json:"status,omitempty"`
	CreatedAt            string  `json:"createdAt"`
	CreatedBy            string  `json:"createdBy,omitempty"`
	UpdatedAt            *string `json:"updatedAt,omitempty"`
	UpdatedBy            *string `json:"updatedBy,omitempty"`
	DeletedAt            *string `json:"deletedAt,omitempty"`
	DeletedBy            *string `json:"deletedBy,omitempty"`
}

type CreateUserRequest struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
	ConfirmPassword string `json:"confirmPassword"`
}

type AdminChangePasswordRequest struct {
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}
