package dto_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"

	"motorpool/internal/domains/reservation/model"
	"motorpool/internal/domains/reservation/model/dto"
	gModel "motorpool/shared/model"
)

func TestReservationResponse_JSONRoundTrip(t *testing.T) {
	department := "Sales"
	directReason := "airport pickup before office hours"
	notes := "bring the parking card"

	reservation := model.Reservation{
		ID:             "res-1",
		CarID:          "car-1",
		UserID:         "user-1",
		UserName:       "Test User",
		UserDepartment: &department,
		StartTime:      time.Date(2026, 9, 7, 9, 0, 0, 0, time.UTC),
		EndTime:        time.Date(2026, 9, 7, 11, 0, 0, 0, time.UTC),
		Purpose:        "client visit",
		Destination:    "Client office",
		IsDirect:       true,
		DirectReason:   &directReason,
		Passengers:     pq.StringArray{"user-2", "user-3"},
		Notes:          &notes,
		Metadata: gModel.Metadata{
			CreatedAt:  time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC),
			ModifiedAt: time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC),
			CreatedBy:  "user-1",
			ModifiedBy: "user-1",
		},
	}

	var res dto.ReservationResponse
	res.FromModel(reservation)

	raw, err := json.Marshal(res)
	assert.NoError(t, err)

	var decoded dto.ReservationResponse
	assert.NoError(t, json.Unmarshal(raw, &decoded))

	assert.Equal(t, res, decoded)
}

func TestReservationResponse_JSONRoundTrip_Maintenance(t *testing.T) {
	maintenanceType := "정기점검"

	reservation := model.Reservation{
		ID:              "res-2",
		CarID:           "car-1",
		UserID:          "admin-1",
		UserName:        "Fleet Admin",
		StartTime:       time.Date(2026, 9, 8, 8, 0, 0, 0, time.UTC),
		EndTime:         time.Date(2026, 9, 8, 18, 0, 0, 0, time.UTC),
		IsMaintenance:   true,
		MaintenanceType: &maintenanceType,
	}

	var res dto.ReservationResponse
	res.FromModel(reservation)

	raw, err := json.Marshal(res)
	assert.NoError(t, err)

	var decoded dto.ReservationResponse
	assert.NoError(t, json.Unmarshal(raw, &decoded))

	assert.Equal(t, res, decoded)
	assert.True(t, decoded.IsMaintenance)
	assert.Equal(t, maintenanceType, *decoded.MaintenanceType)
}
