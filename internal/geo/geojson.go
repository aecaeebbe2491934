package geo

import (
	"fmt"
	"os"
	"strings"

	geojson "github.com/paulmach/go.geojson"

	"github.com/listenupapp/repostmap/internal/domain"
	domainerrors "github.com/listenupapp/repostmap/internal/errors"
)

func loadGeoJSON(path, nameField string) ([]domain.Boundary, error) {
	data, err := os.ReadFile(path) //#nosec G304 -- Boundary path comes from configuration
	if err != nil {
		return nil, fmt.Errorf("read geojson: %w", err)
	}
	return ParseGeoJSON(data, nameField)
}

// ParseGeoJSON decodes a FeatureCollection into boundaries. Features whose
// geometry is not a Polygon or MultiPolygon keep their name but carry no
// polygons. Antarctica is not removed here.
func ParseGeoJSON(data []byte, nameField string) ([]domain.Boundary, error) {
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, domainerrors.Wrap(err, domainerrors.CodeInvalidInput, "decode geojson")
	}

	boundaries := make([]domain.Boundary, 0, len(fc.Features))
	seenField := false
	for _, f := range fc.Features {
		name, err := f.PropertyString(nameField)
		if err == nil {
			seenField = true
		}

		b := domain.Boundary{Name: strings.TrimSpace(name)}
		if g := f.Geometry; g != nil {
			switch {
			case g.IsPolygon():
				b.Polygons = []domain.Polygon{toPolygon(g.Polygon)}
			case g.IsMultiPolygon():
				for _, poly := range g.MultiPolygon {
					b.Polygons = append(b.Polygons, toPolygon(poly))
				}
			}
		}
		boundaries = append(boundaries, b)
	}

	if len(fc.Features) > 0 && !seenField {
		return nil, domainerrors.InvalidInputf("geojson features have no %q property", nameField)
	}
	return boundaries, nil
}

func toPolygon(rings [][][]float64) domain.Polygon {
	poly := make(domain.Polygon, 0, len(rings))
	for _, coords := range rings {
		ring := make(domain.Ring, 0, len(coords))
		for _, c := range coords {
			if len(c) < 2 {
				continue
			}
			ring = append(ring, domain.Point{X: c[0], Y: c[1]})
		}
		poly = append(poly, ring)
	}
	return poly
}
