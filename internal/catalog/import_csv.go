package catalog

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"fuel-route-service/internal/domain"
	"fuel-route-service/internal/platform/obs"
	"fuel-route-service/internal/ports"
	"io"
	"log"
	"strconv"

	"github.com/shopspring/decimal"
)

// BatchSize is the number of rows committed per InsertMany call.
const BatchSize = 500

// ImportCSV loads a geocoded price export into repo and returns the number of
// stops created. Duplicate IDs within the file keep their first row; IDs
// already stored are left untouched.
func ImportCSV(ctx context.Context, r io.Reader, repo ports.FuelStopRepository) (created int, err error) {
	defer obs.Time(ctx, "catalog.ImportCSV")(&err)

	if repo == nil {
		return 0, errors.New("import csv: repository is nil")
	}

	in := csv.NewReader(r)
	in.FieldsPerRecord = -1

	names, err := in.Read()
	if err != nil {
		return 0, fmt.Errorf("import csv: read header: %w", err)
	}
	h := newHeader(names)
	if err := h.require(ImportColumns...); err != nil {
		return 0, fmt.Errorf("import csv: %w", err)
	}

	seen := make(map[int64]struct{})
	batch := make([]domain.FuelStop, 0, BatchSize)
	line := 1
	for {
		record, err := in.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return created, fmt.Errorf("import csv: read row: %w", err)
		}
		line++

		stop, ok := buildStop(h, record)
		if !ok {
			log.Printf("import csv skip line=%d id=%q", line, h.get(record, ColTruckstopID))
			continue
		}
		if _, dup := seen[stop.ID]; dup {
			continue
		}
		seen[stop.ID] = struct{}{}
		batch = append(batch, stop)

		if len(batch) >= BatchSize {
			n, err := commitBatch(ctx, repo, batch)
			if err != nil {
				return created, err
			}
			created += n
			batch = batch[:0]
		}
	}

	if len(batch) > 0 {
		n, err := commitBatch(ctx, repo, batch)
		if err != nil {
			return created, err
		}
		created += n
	}

	return created, nil
}

// buildStop converts one row. Rows without a numeric ID or usable
// coordinates are rejected; an unparsable price becomes zero.
func buildStop(h header, record []string) (domain.FuelStop, bool) {
	id, err := strconv.ParseInt(h.get(record, ColTruckstopID), 10, 64)
	if err != nil {
		return domain.FuelStop{}, false
	}

	lat, errLat := strconv.ParseFloat(h.get(record, ColLatitude), 64)
	lon, errLon := strconv.ParseFloat(h.get(record, ColLongitude), 64)
	if errLat != nil || errLon != nil || lat == 0 || lon == 0 {
		return domain.FuelStop{}, false
	}
	loc := domain.Coordinates{Lon: lon, Lat: lat}
	if loc.Validate() != nil {
		return domain.FuelStop{}, false
	}

	price, err := decimal.NewFromString(h.get(record, ColRetailPrice))
	if err != nil {
		price = decimal.Zero
	}

	rack, err := strconv.ParseInt(h.get(record, ColRackID), 10, 64)
	if err != nil {
		rack = 0
	}

	return domain.FuelStop{
		ID:       id,
		Name:     h.get(record, ColTruckstopName),
		Address:  h.get(record, ColAddress),
		City:     h.get(record, ColCity),
		State:    h.get(record, ColState),
		RackID:   rack,
		Price:    price.Round(3),
		Location: loc,
	}, true
}

func commitBatch(ctx context.Context, repo ports.FuelStopRepository, batch []domain.FuelStop) (int, error) {
	ids := make([]int64, 0, len(batch))
	for _, s := range batch {
		ids = append(ids, s.ID)
	}

	existing, err := repo.ExistingIDs(ctx, ids)
	if err != nil {
		return 0, fmt.Errorf("import csv: existing ids: %w", err)
	}

	fresh := make([]domain.FuelStop, 0, len(batch))
	for _, s := range batch {
		if _, ok := existing[s.ID]; !ok {
			fresh = append(fresh, s)
		}
	}

	if len(fresh) == 0 {
		log.Printf("import csv batch size=%d created=0", len(batch))
		return 0, nil
	}

	if err := repo.InsertMany(ctx, fresh); err != nil {
		return 0, fmt.Errorf("import csv: insert batch: %w", err)
	}

	log.Printf("import csv batch size=%d created=%d", len(batch), len(fresh))
	return len(fresh), nil
}
