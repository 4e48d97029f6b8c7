package dto_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"motorpool/internal/domains/auth/model/dto"
	"motorpool/shared/constant"
)

func TestLoginRequest_ResolveEmail(t *testing.T) {
	tests := []struct {
		name      string
		companyID string
		want      string
	}{
		{
			name:      "plain company id gets the corporate domain",
			companyID: "EMP1234",
			want:      "EMP1234@example.com",
		},
		{
			name:      "full email passes through untouched",
			companyID: "someone@gmail.com",
			want:      "someone@gmail.com",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := dto.LoginRequest{CompanyID: tt.companyID, Password: "secret"}

			assert.Equal(t, tt.want, req.ResolveEmail("example.com"))
		})
	}
}

func TestRegisterRequest_ToUserModel(t *testing.T) {
	department := "Finance"

	req := dto.RegisterRequest{
		CompanyID:  "EMP1234",
		Password:   "plaintext",
		Name:       "Test User",
		Department: &department,
	}

	user := req.ToUserModel("system", "hashed-password", "EMP1234@example.com")

	assert.NotEmpty(t, user.ID)
	assert.Equal(t, "EMP1234", user.CompanyID)
	assert.Equal(t, "EMP1234@example.com", user.Email)
	assert.Equal(t, "hashed-password", user.Password)
	assert.Equal(t, constant.RoleUser, user.Role)
	assert.True(t, user.Active)
	assert.Equal(t, &department, user.Department)
}
