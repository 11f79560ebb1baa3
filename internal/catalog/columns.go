package catalog

import (
	"fmt"
	"strings"
)

// Column names of the OPIS retail price export.
const (
	ColTruckstopID   = "OPIS Truckstop ID"
	ColTruckstopName = "Truckstop Name"
	ColAddress       = "Address"
	ColCity          = "City"
	ColState         = "State"
	ColRackID        = "Rack ID"
	ColRetailPrice   = "Retail Price"
	ColLatitude      = "Latitude"
	ColLongitude     = "Longitude"
)

// ImportColumns must all be present in a CSV accepted by ImportCSV.
var ImportColumns = []string{
	ColTruckstopID,
	ColTruckstopName,
	ColAddress,
	ColCity,
	ColState,
	ColRackID,
	ColRetailPrice,
	ColLatitude,
	ColLongitude,
}

// header maps column names to their position in a record.
type header map[string]int

func newHeader(names []string) header {
	h := make(header, len(names))
	for i, n := range names {
		n = strings.TrimSpace(strings.TrimPrefix(n, "\ufeff"))
		if _, ok := h[n]; !ok {
			h[n] = i
		}
	}
	return h
}

func (h header) require(cols ...string) error {
	var missing []string
	for _, c := range cols {
		if _, ok := h[c]; !ok {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("csv is missing required columns: %s", strings.Join(missing, ", "))
	}
	return nil
}

// get returns the trimmed value of col, or "" when the record is short.
func (h header) get(record []string, col string) string {
	i, ok := h[col]
	if !ok || i >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[i])
}
