// Package geo loads country boundaries from a shapefile or a GeoJSON
// feature collection.
package geo

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/listenupapp/repostmap/internal/domain"
	domainerrors "github.com/listenupapp/repostmap/internal/errors"
)

// DefaultNameField is the Natural Earth attribute holding the country name.
const DefaultNameField = "ADMIN"

// Load reads the boundaries at path, choosing the reader by extension, and
// drops Antarctica. nameField selects the attribute used as the country name.
func Load(path, nameField string) ([]domain.Boundary, error) {
	if nameField == "" {
		nameField = DefaultNameField
	}

	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, domainerrors.Wrapf(err, domainerrors.CodeNotFound, "boundaries %s", path)
		}
		return nil, domainerrors.Wrapf(err, domainerrors.CodeInvalidInput, "boundaries %s", path)
	}

	var (
		boundaries []domain.Boundary
		err        error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".shp":
		boundaries, err = loadShapefile(path, nameField)
	case ".geojson", ".json":
		boundaries, err = loadGeoJSON(path, nameField)
	default:
		return nil, domainerrors.InvalidInputf("unsupported boundary format %q", filepath.Ext(path))
	}
	if err != nil {
		return nil, err
	}

	return ExcludeAntarctica(boundaries), nil
}

// ExcludeAntarctica returns boundaries without the Antarctica entry.
func ExcludeAntarctica(boundaries []domain.Boundary) []domain.Boundary {
	out := boundaries[:0:0]
	for _, b := range boundaries {
		if b.Name == domain.Antarctica {
			continue
		}
		out = append(out, b)
	}
	return out
}

// signedArea returns twice the signed area of ring; positive when the ring
// winds counter-clockwise with y pointing up.
func signedArea(ring domain.Ring) float64 {
	var sum float64
	for i := range ring {
		j := (i + 1) % len(ring)
		sum += ring[i].X*ring[j].Y - ring[j].X*ring[i].Y
	}
	return sum
}
