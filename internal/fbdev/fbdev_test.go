package fbdev_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeberg.org/voss/neuroscope/internal/errors"
	"codeberg.org/voss/neuroscope/internal/fbdev"
)

func TestGeometryValidate(t *testing.T) {
	valid := fbdev.Geometry{Width: 800, Height: 600, BitsPerPixel: 32, Stride: 3200}
	require.NoError(t, valid.Validate())

	padded := valid
	padded.Stride = 4096
	require.NoError(t, padded.Validate(), "Row padding beyond the packed width is allowed")

	tests := []struct {
		name string
		geo  fbdev.Geometry
	}{
		{"zero width", fbdev.Geometry{Height: 600, Stride: 3200}},
		{"zero height", fbdev.Geometry{Width: 800, Stride: 3200}},
		{"zero stride", fbdev.Geometry{Width: 800, Height: 600}},
		{"stride too small for 4-byte pixels", fbdev.Geometry{Width: 800, Height: 600, BitsPerPixel: 16, Stride: 1600}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.geo.Validate()
			require.Error(t, err)
			assert.Equal(t, fbdev.ErrInvalidGeometry, errors.CodeOf(err))
		})
	}
}
