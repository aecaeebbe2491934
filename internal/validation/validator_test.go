package validation_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerrors "github.com/listenupapp/repostmap/internal/errors"
	"github.com/listenupapp/repostmap/internal/validation"
)

type testInputs struct {
	Data       string  `env:"DATA_PATH" validate:"required,xlsx"`
	Boundaries string  `env:"BOUNDARIES_PATH" validate:"required,boundaryfile"`
	DPI        float64 `env:"MAP_DPI" validate:"gt=0,lte=1200"`
	Env        string  `env:"ENV" validate:"oneof=development staging production"`
}

func validInputs() testInputs {
	return testInputs{
		Data:       "data/data.xlsx",
		Boundaries: "shapefiles/ne_110m_admin_0_countries.shp",
		DPI:        300,
		Env:        "development",
	}
}

func TestValidator_ValidateSuccess(t *testing.T) {
	v := validation.New()
	assert.NoError(t, v.Validate(validInputs()))

	in := validInputs()
	in.Boundaries = "world.GeoJSON"
	assert.NoError(t, v.Validate(in))
}

func TestValidator_ValidateErrors(t *testing.T) {
	v := validation.New()

	tests := []struct {
		name      string
		mutate    func(*testInputs)
		wantField string
		wantMsg   string
	}{
		{"missing data path", func(in *testInputs) { in.Data = "" }, "DATA_PATH", "is required"},
		{"csv instead of xlsx", func(in *testInputs) { in.Data = "data.csv" }, "DATA_PATH", "Excel workbook"},
		{"bad boundary extension", func(in *testInputs) { in.Boundaries = "world.kml" }, "BOUNDARIES_PATH", ".shp"},
		{"zero dpi", func(in *testInputs) { in.DPI = 0 }, "MAP_DPI", "greater than 0"},
		{"huge dpi", func(in *testInputs) { in.DPI = 5000 }, "MAP_DPI", "less than or equal to 1200"},
		{"unknown env", func(in *testInputs) { in.Env = "test" }, "ENV", "must be one of"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validInputs()
			tt.mutate(&in)

			err := v.Validate(in)
			require.Error(t, err)
			assert.True(t, domainerrors.Is(err, domainerrors.ErrInvalidInput))

			var domainErr *domainerrors.Error
			require.True(t, domainerrors.As(err, &domainErr))
			details, ok := domainErr.Details.(map[string]string)
			require.True(t, ok)
			assert.Contains(t, details[tt.wantField], tt.wantMsg)
			assert.Contains(t, err.Error(), tt.wantField)
		})
	}
}
