package model

import "motorpool/shared/model"

const (
	TableName  = "cars"
	EntityName = "car"

	FieldID           = "id"
	FieldName         = "name"
	FieldLicensePlate = "license_plate"
	FieldImage        = "image"
	FieldType         = "type"
	FieldColor        = "color"
	FieldSeats        = "seats"
	FieldLocation     = "location"
	FieldAvailable    = "available"
	FieldDescription  = "description"
)

type Car struct {
	ID           string  `db:"id"`
	Name         string  `db:"name"`
	LicensePlate string  `db:"license_plate"`
	Image        *string `db:"image"`
	Type         string  `db:"type"`
	Color        string  `db:"color"`
	Seats        int     `db:"seats"`
	Location     string  `db:"location"`
	Available    bool    `db:"available"`
	Description  *string `db:"description"`
	model.Metadata
}
