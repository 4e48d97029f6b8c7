package dto

import (
	"motorpool/internal/domains/user/model"
	"motorpool/shared"
	"motorpool/shared/constant"
	gDto "motorpool/shared/dto"
	gModel "motorpool/shared/model"
	"motorpool/shared/timezone"

	"github.com/google/uuid"
)

type CreateUserRequest struct {
	CompanyID    string  `json:"company_id"              validate:"required,max=50"`
	Email        string  `json:"email"                   validate:"required,email"`
	Password     string  `json:"password"                validate:"required,min=8"`
	Name         string  `json:"name"                    validate:"required,max=100"`
	Department   *string `json:"department,omitempty"    validate:"omitempty,max=100"`
	Role         string  `json:"role"                    validate:"omitempty,oneof=admin user"`
	ProfileImage *string `json:"profile_image,omitempty"`
}

func (r *CreateUserRequest) ToModel(username string, hashedPassword string) model.User {
	role := r.Role
	if role == "" {
		role = constant.RoleUser
	}

	return model.User{
		ID:           uuid.NewString(),
		CompanyID:    r.CompanyID,
		Email:        r.Email,
		Password:     hashedPassword,
		Name:         r.Name,
		Department:   r.Department,
		Role:         role,
		ProfileImage: r.ProfileImage,
		Active:       true,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  username,
			ModifiedBy: username,
		},
	}
}

type UserResponse struct {
	ID           string  `json:"id"`
	CompanyID    string  `json:"company_id"`
	Email        string  `json:"email"`
	Name         string  `json:"name"`
	Department   *string `json:"department,omitempty"`
	Role         string  `json:"role"`
	ProfileImage *string `json:"profile_image,omitempty"`
	LastLogin    *string `json:"last_login,omitempty"`
	Active       bool    `json:"active"`
	gDto.Metadata
}

func (r *UserResponse) FromModel(model model.User) {
	r.ID = model.ID
	r.CompanyID = model.CompanyID
	r.Email = model.Email
	r.Name = model.Name
	r.Department = model.Department
	r.Role = model.Role
	r.ProfileImage = model.ProfileImage
	r.LastLogin = model.LastLogin
	r.Active = model.Active
	r.Metadata.FromModel(model.Metadata)
}

type UpdateUserRequest struct {
	Name         *string `db:"name"          json:"name,omitempty"          validate:"omitempty,max=100"`
	Department   *string `db:"department"    json:"department,omitempty"    validate:"omitempty,max=100"`
	Role         *string `db:"role"          json:"role,omitempty"          validate:"omitempty,oneof=admin user"`
	ProfileImage *string `db:"profile_image" json:"profile_image,omitempty"`
	Active       *bool   `db:"active"        json:"active,omitempty"`
}

type UpdateProfileRequest struct {
	Name         *string `db:"name"          json:"name,omitempty"          validate:"omitempty,max=100"`
	Department   *string `db:"department"    json:"department,omitempty"    validate:"omitempty,max=100"`
	ProfileImage *string `db:"profile_image" json:"profile_image,omitempty"`
}

type GetUsersResponse struct {
	Users     []UserResponse `json:"users"`
	TotalPage int            `json:"total_page"`
	TotalData int            `json:"total_data"`
}

func (r *GetUsersResponse) FromModels(models []model.User, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Users = make([]UserResponse, len(models))
	for i, mod := range models {
		r.Users[i].FromModel(mod)
	}
}
