package model

import "motorpool/shared/model"

const (
	TableName  = "profiles"
	EntityName = "user"

	FieldID           = "id"
	FieldCompanyID    = "company_id"
	FieldEmail        = "email"
	FieldPassword     = "password"
	FieldName         = "name"
	FieldDepartment   = "department"
	FieldRole         = "role"
	FieldProfileImage = "profile_image"
	FieldLastLogin    = "last_login"
	FieldActive       = "active"
)

type User struct {
	ID           string  `db:"id"`
	CompanyID    string  `db:"company_id"`
	Email        string  `db:"email"`
	Password     string  `db:"password"`
	Name         string  `db:"name"`
	Department   *string `db:"department"`
	Role         string  `db:"role"`
	ProfileImage *string `db:"profile_image"`
	LastLogin    *string `db:"last_login"`
	Active       bool    `db:"active"`
	model.Metadata
}
