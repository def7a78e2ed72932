package validation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akozadaev/go_area_analytical_system/internal/models"
)

func validArea() models.AreaRequest {
	return models.AreaRequest{
		Name: "meadow",
		AreaPoints: []models.AreaPoint{
			{Longitude: 0, Latitude: 0},
			{Longitude: 0, Latitude: 10},
			{Longitude: 10, Latitude: 10},
		},
	}
}

func TestValidateAreaRequest(t *testing.T) {
	req := validArea()
	assert.Nil(t, ValidateStruct(&req))

	tests := []struct {
		name   string
		modify func(*models.AreaRequest)
		tag    string
	}{
		{"empty name", func(r *models.AreaRequest) { r.Name = "" }, "required"},
		{"no points", func(r *models.AreaRequest) { r.AreaPoints = nil }, "required"},
		{"two points", func(r *models.AreaRequest) { r.AreaPoints = r.AreaPoints[:2] }, "min"},
		{"latitude out of range", func(r *models.AreaRequest) { r.AreaPoints[1].Latitude = 91 }, "latitude"},
		{"longitude out of range", func(r *models.AreaRequest) { r.AreaPoints[2].Longitude = -181 }, "longitude"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validArea()
			tt.modify(&req)

			err := ValidateStruct(&req)
			require.NotNil(t, err)
			require.Len(t, err.Fields, 1)
			assert.Equal(t, tt.tag, err.Fields[0].Tag)
			assert.NotEmpty(t, err.Error())
		})
	}
}

func TestValidateAnalyticsRequest(t *testing.T) {
	start := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)

	ok := models.AnalyticsRequest{StartDate: start, EndDate: start.Add(time.Hour)}
	assert.Nil(t, ValidateStruct(&ok))

	reversed := models.AnalyticsRequest{StartDate: start, EndDate: start.Add(-time.Hour)}
	err := ValidateStruct(&reversed)
	require.NotNil(t, err)
	assert.Equal(t, "gtfield", err.Fields[0].Tag)
	assert.Contains(t, err.Error(), "must be after StartDate")
}

func TestGetValidatorIsShared(t *testing.T) {
	assert.Same(t, GetValidator(), GetValidator())
}
