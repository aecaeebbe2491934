package geo

import (
	"errors"
	"io/fs"
	"os"
	"strings"

	"github.com/jonas-p/go-shp"

	"github.com/listenupapp/repostmap/internal/domain"
	domainerrors "github.com/listenupapp/repostmap/internal/errors"
)

// loadShapefile reads polygon shapes and the nameField attribute from the
// .shp/.dbf pair at path.
func loadShapefile(path, nameField string) ([]domain.Boundary, error) {
	reader, err := shp.Open(path)
	if err != nil {
		return nil, domainerrors.Wrapf(err, domainerrors.CodeInvalidInput, "open shapefile %s", path)
	}
	defer reader.Close()

	// The reader swallows a missing attribute table and reports no fields.
	dbf := path[:len(path)-len("shp")] + "dbf"
	if _, err := os.Stat(dbf); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, domainerrors.Wrapf(err, domainerrors.CodeNotFound, "attribute table %s", dbf)
		}
		return nil, domainerrors.Wrapf(err, domainerrors.CodeInvalidInput, "attribute table %s", dbf)
	}

	fieldIdx := -1
	for i, f := range reader.Fields() {
		if f.String() == nameField {
			fieldIdx = i
			break
		}
	}
	if fieldIdx < 0 {
		return nil, domainerrors.InvalidInputf("shapefile %s has no %q attribute", path, nameField)
	}

	var boundaries []domain.Boundary
	for reader.Next() {
		n, shape := reader.Shape()
		name := strings.TrimSpace(strings.TrimRight(reader.ReadAttribute(n, fieldIdx), "\x00"))

		var parts []int32
		var points []shp.Point
		switch s := shape.(type) {
		case *shp.Polygon:
			parts, points = s.Parts, s.Points
		case *shp.PolygonZ:
			parts, points = s.Parts, s.Points
		case *shp.PolygonM:
			parts, points = s.Parts, s.Points
		}

		boundaries = append(boundaries, domain.Boundary{
			Name:     name,
			Polygons: shapePolygons(parts, points),
		})
	}
	if err := reader.Err(); err != nil {
		return nil, domainerrors.Wrapf(err, domainerrors.CodeInvalidInput, "read shapefile %s", path)
	}

	return boundaries, nil
}

// shapePolygons splits a shapefile part list into polygons. Shapefile outer
// rings wind clockwise and holes counter-clockwise; each clockwise ring
// starts a new polygon.
func shapePolygons(parts []int32, points []shp.Point) []domain.Polygon {
	var polygons []domain.Polygon
	for i, start := range parts {
		end := int32(len(points))
		if i+1 < len(parts) {
			end = parts[i+1]
		}
		if start < 0 || start >= end || int(end) > len(points) {
			continue
		}

		ring := make(domain.Ring, 0, end-start)
		for _, p := range points[start:end] {
			ring = append(ring, domain.Point{X: p.X, Y: p.Y})
		}

		if signedArea(ring) <= 0 || len(polygons) == 0 {
			polygons = append(polygons, domain.Polygon{ring})
			continue
		}
		last := len(polygons) - 1
		polygons[last] = append(polygons[last], ring)
	}
	return polygons
}
