package geo

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jonas-p/go-shp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/listenupapp/repostmap/internal/domain"
	domainerrors "github.com/listenupapp/repostmap/internal/errors"
)

const worldGeoJSON = `{
  "type": "FeatureCollection",
  "features": [
    {"type": "Feature", "properties": {"ADMIN": "France", "ISO_A3": "FRA"},
     "geometry": {"type": "Polygon", "coordinates": [[[0,40],[5,40],[5,50],[0,50],[0,40]]]}},
    {"type": "Feature", "properties": {"ADMIN": "Antarctica"},
     "geometry": {"type": "Polygon", "coordinates": [[[-180,-90],[180,-90],[180,-60],[-180,-60],[-180,-90]]]}},
    {"type": "Feature", "properties": {"ADMIN": " Chile "},
     "geometry": {"type": "MultiPolygon", "coordinates": [
       [[[-75,-50],[-70,-50],[-70,-20],[-75,-20],[-75,-50]]],
       [[[-80,-34],[-79,-34],[-79,-33],[-80,-34]]]
     ]}},
    {"type": "Feature", "properties": {"ADMIN": "Nowhere"}, "geometry": null}
  ]
}`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func names(boundaries []domain.Boundary) []string {
	out := make([]string, len(boundaries))
	for i, b := range boundaries {
		out[i] = b.Name
	}
	return out
}

func TestParseGeoJSON(t *testing.T) {
	boundaries, err := ParseGeoJSON([]byte(worldGeoJSON), DefaultNameField)
	require.NoError(t, err)

	assert.Equal(t, []string{"France", "Antarctica", "Chile", "Nowhere"}, names(boundaries))
	require.Len(t, boundaries[0].Polygons, 1)
	assert.Len(t, boundaries[0].Polygons[0][0], 5)
	assert.Len(t, boundaries[2].Polygons, 2)
	assert.Empty(t, boundaries[3].Polygons)
}

func TestParseGeoJSON_MissingNameField(t *testing.T) {
	_, err := ParseGeoJSON([]byte(worldGeoJSON), "NAME_LONG")
	require.Error(t, err)
	assert.True(t, domainerrors.Is(err, domainerrors.ErrInvalidInput))
}

func TestParseGeoJSON_Invalid(t *testing.T) {
	_, err := ParseGeoJSON([]byte("{not json"), DefaultNameField)
	assert.True(t, domainerrors.Is(err, domainerrors.ErrInvalidInput))
}

func TestLoad_GeoJSONExcludesAntarctica(t *testing.T) {
	path := writeFile(t, "world.geojson", worldGeoJSON)

	boundaries, err := Load(path, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"France", "Chile", "Nowhere"}, names(boundaries))
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.shp"), "")
	assert.True(t, domainerrors.Is(err, domainerrors.ErrNotFound))

	kml := writeFile(t, "world.kml", "<kml/>")
	_, err = Load(kml, "")
	assert.True(t, domainerrors.Is(err, domainerrors.ErrInvalidInput))
}

// writeShapefile writes France (two outer rings and a hole) and Antarctica
// with an ADMIN attribute and returns the .shp path.
func writeShapefile(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "countries.shp")

	w, err := shp.Create(path, shp.POLYGON)
	require.NoError(t, err)
	require.NoError(t, w.SetFields([]shp.Field{shp.StringField("ADMIN", 40)}))

	shapes := []struct {
		name  string
		parts [][]shp.Point
	}{
		{"France", [][]shp.Point{
			// clockwise outer ring with a counter-clockwise hole
			{{X: 0, Y: 40}, {X: 0, Y: 50}, {X: 5, Y: 50}, {X: 5, Y: 40}, {X: 0, Y: 40}},
			{{X: 1, Y: 41}, {X: 2, Y: 41}, {X: 2, Y: 42}, {X: 1, Y: 42}, {X: 1, Y: 41}},
			// second clockwise outer ring
			{{X: 8, Y: 41}, {X: 8, Y: 43}, {X: 9, Y: 43}, {X: 9, Y: 41}, {X: 8, Y: 41}},
		}},
		{"Antarctica", [][]shp.Point{
			{{X: -180, Y: -90}, {X: -180, Y: -60}, {X: 180, Y: -60}, {X: 180, Y: -90}, {X: -180, Y: -90}},
		}},
	}
	for _, s := range shapes {
		polygon := shp.Polygon(*shp.NewPolyLine(s.parts))
		n := w.Write(&polygon)
		require.NoError(t, w.WriteAttribute(int(n), 0, s.name))
	}
	w.Close()

	// The writer names the attribute table without the dot before "dbf".
	require.NoError(t, os.Rename(filepath.Join(dir, "countriesdbf"), filepath.Join(dir, "countries.dbf")))
	return path
}

func TestLoad_Shapefile(t *testing.T) {
	path := writeShapefile(t)

	boundaries, err := Load(path, "ADMIN")
	require.NoError(t, err)
	require.Equal(t, []string{"France"}, names(boundaries))

	france := boundaries[0]
	require.Len(t, france.Polygons, 2)
	assert.Len(t, france.Polygons[0], 2, "hole belongs to the first polygon")
	assert.Len(t, france.Polygons[1], 1)
	assert.Equal(t, domain.Bounds{MinX: 0, MinY: 40, MaxX: 9, MaxY: 50}, france.Bounds())

	_, err = Load(path, "NAME")
	assert.True(t, domainerrors.Is(err, domainerrors.ErrInvalidInput))
}

func TestLoad_ShapefileMissingAttributeTable(t *testing.T) {
	path := writeShapefile(t)
	dbf := strings.TrimSuffix(path, ".shp") + ".dbf"
	require.NoError(t, os.Remove(dbf))

	_, err := Load(path, "ADMIN")
	require.Error(t, err)
	assert.True(t, domainerrors.Is(err, domainerrors.ErrNotFound), "got %v", err)
	assert.Contains(t, err.Error(), dbf)
}

func TestExcludeAntarctica(t *testing.T) {
	in := []domain.Boundary{{Name: "Antarctica"}, {Name: "Chile"}}
	out := ExcludeAntarctica(in)

	assert.Equal(t, []string{"Chile"}, names(out))
	assert.Equal(t, "Antarctica", in[0].Name, "input must not be modified")
}

func TestSignedArea(t *testing.T) {
	ccw := domain.Ring{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}, {X: 0, Y: 1}}
	cw := domain.Ring{{X: 0, Y: 0}, {X: 0, Y: 1}, {X: 1, Y: 1}, {X: 1, Y: 0}}

	assert.InDelta(t, 2.0, signedArea(ccw), 1e-9)
	assert.InDelta(t, -2.0, signedArea(cw), 1e-9)
}
