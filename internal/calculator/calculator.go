package calculator

import (
	"sales-geomap/internal/models"
)

// AverageSales is the arithmetic mean of the sales column. Zero customers
// yield zero.
func AverageSales(customers []models.Customer) float64 {
	if len(customers) == 0 {
		return 0
	}
	var sum float64
	for _, c := range customers {
		sum += c.Sales
	}
	return sum / float64(len(customers))
}

// Classify tags a sales figure against the average; a tie counts as above.
func Classify(sales, average float64) models.Classification {
	if sales >= average {
		return models.AboveAverage
	}
	return models.BelowAverage
}

// Extent returns the bounding box and the mean coordinate of the customers.
func Extent(customers []models.Customer) (models.Bounds, models.Coordinate) {
	if len(customers) == 0 {
		return models.Bounds{}, models.Coordinate{}
	}

	first := customers[0].Loc
	b := models.Bounds{MinLat: first.Lat, MinLon: first.Lon, MaxLat: first.Lat, MaxLon: first.Lon}
	var sumLat, sumLon float64

	for _, c := range customers {
		b.MinLat = min(b.MinLat, c.Loc.Lat)
		b.MaxLat = max(b.MaxLat, c.Loc.Lat)
		b.MinLon = min(b.MinLon, c.Loc.Lon)
		b.MaxLon = max(b.MaxLon, c.Loc.Lon)
		sumLat += c.Loc.Lat
		sumLon += c.Loc.Lon
	}

	n := float64(len(customers))
	return b, models.Coordinate{Lat: sumLat / n, Lon: sumLon / n}
}

// BuildReport averages the cleaned customers and classifies each one.
// dropped is carried through for reporting only.
func BuildReport(customers []models.Customer, dropped int) (*models.Report, error) {
	if len(customers) == 0 {
		return nil, models.ErrEmptyDataset
	}

	avg := AverageSales(customers)
	bounds, center := Extent(customers)

	markers := make([]models.Marker, len(customers))
	for i, c := range customers {
		markers[i] = models.Marker{
			Customer: c,
			Class:    Classify(c.Sales, avg),
		}
	}

	return &models.Report{
		AverageSales: avg,
		Center:       center,
		Bounds:       bounds,
		Markers:      markers,
		Dropped:      dropped,
	}, nil
}
