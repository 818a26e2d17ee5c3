package calculator

import (
	"sales-geomap/internal/models"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func customer(id string, sales, lat, lon float64) models.Customer {
	return models.Customer{ID: id, Sales: sales, Loc: models.Coordinate{Lat: lat, Lon: lon}}
}

func TestBuildReport_TwoCustomers(t *testing.T) {
	report, err := BuildReport([]models.Customer{
		customer("C1", 100, 1, 1),
		customer("C2", 300, 2, 2),
	}, 0)
	require.NoError(t, err)

	assert.Equal(t, 200.0, report.AverageSales)
	require.Len(t, report.Markers, 2)
	assert.Equal(t, models.BelowAverage, report.Markers[0].Class)
	assert.Equal(t, models.AboveAverage, report.Markers[1].Class)
	assert.Equal(t, models.Coordinate{Lat: 1.5, Lon: 1.5}, report.Center)
	assert.Equal(t, models.Bounds{MinLat: 1, MinLon: 1, MaxLat: 2, MaxLon: 2}, report.Bounds)
}

func TestBuildReport_TieIsAboveAverage(t *testing.T) {
	report, err := BuildReport([]models.Customer{
		customer("C1", 100, 10, 10),
		customer("C2", 200, 11, 11),
		customer("C3", 300, 12, 12),
	}, 0)
	require.NoError(t, err)

	assert.Equal(t, 200.0, report.AverageSales)
	assert.Equal(t, models.AboveAverage, report.Markers[1].Class)
}

func TestBuildReport_AllEqualAreAbove(t *testing.T) {
	report, err := BuildReport([]models.Customer{
		customer("C1", 0, 10, 10),
		customer("C2", 0, 11, 11),
	}, 0)
	require.NoError(t, err)

	for _, m := range report.Markers {
		assert.Equal(t, models.AboveAverage, m.Class)
	}
}

func TestBuildReport_OneMarkerPerCustomer(t *testing.T) {
	var customers []models.Customer
	for i := 0; i < 50; i++ {
		customers = append(customers, customer("C", float64(i*10), float64(i%90), float64(-i)))
	}

	report, err := BuildReport(customers, 3)
	require.NoError(t, err)
	assert.Len(t, report.Markers, len(customers))
	assert.Equal(t, 3, report.Dropped)
	assert.Equal(t, 245.0, report.AverageSales)
}

func TestBuildReport_Empty(t *testing.T) {
	_, err := BuildReport(nil, 4)
	assert.ErrorIs(t, err, models.ErrEmptyDataset)
}

func TestExtent_NegativeCoordinates(t *testing.T) {
	bounds, center := Extent([]models.Customer{
		customer("A", 0, -33.86, 151.21),
		customer("B", 0, 51.50, -0.12),
		customer("C", 0, 40.71, -74.00),
	})

	assert.Equal(t, models.Bounds{MinLat: -33.86, MinLon: -74.00, MaxLat: 51.50, MaxLon: 151.21}, bounds)
	assert.InDelta(t, (-33.86+51.50+40.71)/3, center.Lat, 1e-9)
	assert.InDelta(t, (151.21-0.12-74.00)/3, center.Lon, 1e-9)
}

func TestHaversine(t *testing.T) {
	assert.Equal(t, 0.0, Haversine(41.0, 29.0, 41.0, 29.0))
	// One degree of latitude is roughly 111.2 km.
	assert.InDelta(t, 111195, Haversine(0, 0, 1, 0), 50)
	// Istanbul to Ankara.
	assert.InDelta(t, 350000, Haversine(41.0082, 28.9784, 39.9334, 32.8597), 5000)
}

func TestDiagonal(t *testing.T) {
	b := models.Bounds{MinLat: 0, MinLon: 0, MaxLat: 1, MaxLon: 0}
	assert.InDelta(t, 111195, Diagonal(b), 50)
}
