package models

// Column headers a sales sheet must carry, in the order they are reported
// when missing.
const (
	ColCustomerNo   = "Customer No."
	ColLatitude     = "LAT"
	ColLongitude    = "LONG"
	ColCustomerName = "Customer Name"
	ColLocation     = "Location"
	ColSales        = "Sales"
)

// RequiredColumns lists every header ReadCustomers looks up.
var RequiredColumns = []string{
	ColCustomerNo,
	ColLatitude,
	ColLongitude,
	ColCustomerName,
	ColLocation,
	ColSales,
}

type Coordinate struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Customer is one cleaned row of the uploaded sheet. Only rows with a valid
// coordinate become a Customer.
type Customer struct {
	ID       string
	Name     string
	Location string
	Loc      Coordinate
	Sales    float64
	RowIndex int // 1-based sheet row, header included
}

type Classification string

const (
	AboveAverage Classification = "above-average"
	BelowAverage Classification = "below-average"
)

// Bounds is the box spanned by all surviving customers.
type Bounds struct {
	MinLat float64 `json:"min_lat"`
	MinLon float64 `json:"min_lon"`
	MaxLat float64 `json:"max_lat"`
	MaxLon float64 `json:"max_lon"`
}

func (b Bounds) SouthWest() Coordinate { return Coordinate{Lat: b.MinLat, Lon: b.MinLon} }
func (b Bounds) NorthEast() Coordinate { return Coordinate{Lat: b.MaxLat, Lon: b.MaxLon} }

type Marker struct {
	Customer Customer
	Class    Classification
}

// Report is everything the map renderer needs for one upload.
type Report struct {
	AverageSales float64
	Center       Coordinate
	Bounds       Bounds
	Markers      []Marker
	Dropped      int // rows discarded for an unusable coordinate
}
