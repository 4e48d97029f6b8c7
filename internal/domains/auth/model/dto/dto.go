package dto

import (
	"motorpool/infras/jwt"
	userModel "motorpool/internal/domains/user/model"
	"motorpool/shared/constant"
	gModel "motorpool/shared/model"
	"motorpool/shared/timezone"
	"strings"
	"time"

	"github.com/google/uuid"
)

type RegisterRequest struct {
	CompanyID  string  `json:"company_id"           validate:"required,max=50"`
	Password   string  `json:"password"             validate:"required,min=8"`
	Name       string  `json:"name"                 validate:"required,max=100"`
	Department *string `json:"department,omitempty" validate:"omitempty,max=100"`
}

func (r *RegisterRequest) ToUserModel(username, hashedPassword, email string) userModel.User {
	return userModel.User{
		ID:         uuid.NewString(),
		CompanyID:  r.CompanyID,
		Email:      email,
		Password:   hashedPassword,
		Name:       r.Name,
		Department: r.Department,
		Role:       constant.RoleUser,
		Active:     true,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  username,
			ModifiedBy: username,
		},
	}
}

// LoginRequest accepts either a plain company ID or a full email address.
type LoginRequest struct {
	CompanyID string `json:"company_id" validate:"required,max=100"`
	Password  string `json:"password"   validate:"required"`
}

// ResolveEmail turns a company ID into the corporate email address it maps to.
// Values that already contain an "@" pass through untouched.
func (r *LoginRequest) ResolveEmail(companyDomain string) string {
	if strings.Contains(r.CompanyID, "@") {
		return r.CompanyID
	}

	return r.CompanyID + "@" + companyDomain
}

type UpdateLastLoginRequest struct {
	LastLogin time.Time `db:"last_login" json:"last_login" validate:"required"`
}

type LoginResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
}

func (l *LoginResponse) FromTokenPair(tokenPair *jwt.TokenPair) {
	l.AccessToken = tokenPair.AccessToken
	l.RefreshToken = tokenPair.RefreshToken
	l.ExpiresIn = tokenPair.ExpiresIn
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type RefreshTokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
}

func (r *RefreshTokenResponse) FromTokenPair(tokenPair *jwt.TokenPair) {
	r.AccessToken = tokenPair.AccessToken
	r.RefreshToken = tokenPair.RefreshToken
	r.ExpiresIn = tokenPair.ExpiresIn
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password"     validate:"required,min=8"`
}

type UpdatePasswordRequest struct {
	Password string `db:"password" json:"password" validate:"required,min=8"`
}
