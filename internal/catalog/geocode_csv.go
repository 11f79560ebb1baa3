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
)

// GeocodeStats summarizes one GeocodeCSV run.
type GeocodeStats struct {
	Written    int
	CacheHits  int
	Duplicates int
	Failed     int
}

// GeocodeCSV copies the price export from r to w with Latitude and Longitude
// columns appended. Each truckstop ID is written once. Coordinates come from
// cache (keyed by truckstop ID) or, on a miss, from geocoder queried with the
// truckstop name. Rows that cannot be geocoded are dropped.
func GeocodeCSV(
	ctx context.Context,
	r io.Reader,
	w io.Writer,
	cache ports.GeocodeCache,
	geocoder ports.Geocoder,
) (stats GeocodeStats, err error) {
	defer obs.Time(ctx, "catalog.GeocodeCSV")(&err)

	if cache == nil || geocoder == nil {
		return stats, errors.New("geocode csv: cache and geocoder are required")
	}

	in := csv.NewReader(r)
	in.FieldsPerRecord = -1

	names, err := in.Read()
	if err != nil {
		return stats, fmt.Errorf("geocode csv: read header: %w", err)
	}
	h := newHeader(names)
	if err := h.require(ColTruckstopID, ColTruckstopName); err != nil {
		return stats, fmt.Errorf("geocode csv: %w", err)
	}

	out := csv.NewWriter(w)
	outHeader := append(append([]string{}, names...), ColLatitude, ColLongitude)
	if err := out.Write(outHeader); err != nil {
		return stats, fmt.Errorf("geocode csv: write header: %w", err)
	}

	seen := make(map[string]struct{})
	for {
		if err := ctx.Err(); err != nil {
			return stats, err
		}

		record, err := in.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return stats, fmt.Errorf("geocode csv: read row: %w", err)
		}

		id := h.get(record, ColTruckstopID)
		if _, ok := seen[id]; ok {
			stats.Duplicates++
			continue
		}
		seen[id] = struct{}{}

		c, ok, err := lookup(ctx, id, h.get(record, ColTruckstopName), cache, geocoder, &stats)
		if err != nil {
			return stats, err
		}
		if !ok {
			stats.Failed++
			continue
		}

		row := append(append([]string{}, record...), formatCoord(c.Lat), formatCoord(c.Lon))
		if err := out.Write(row); err != nil {
			return stats, fmt.Errorf("geocode csv: write row id=%s: %w", id, err)
		}
		stats.Written++
	}

	out.Flush()
	if err := out.Error(); err != nil {
		return stats, fmt.Errorf("geocode csv: flush: %w", err)
	}

	log.Printf("geocode csv done written=%d cache_hits=%d duplicates=%d failed=%d",
		stats.Written, stats.CacheHits, stats.Duplicates, stats.Failed)
	return stats, nil
}

// lookup resolves one truckstop. Geocoder failures drop the row; only
// cancellation and cache failures abort the run.
func lookup(
	ctx context.Context,
	id, name string,
	cache ports.GeocodeCache,
	geocoder ports.Geocoder,
	stats *GeocodeStats,
) (domain.Coordinates, bool, error) {
	if id != "" {
		hit, err := cache.GetMany(ctx, []string{id})
		if err != nil {
			return domain.Coordinates{}, false, fmt.Errorf("geocode csv: cache lookup id=%s: %w", id, err)
		}
		if c, ok := hit[id]; ok {
			stats.CacheHits++
			return c, true, nil
		}
	}

	if name == "" {
		return domain.Coordinates{}, false, nil
	}

	c, ok, err := geocoder.Geocode(ctx, name)
	if err != nil {
		if ctx.Err() != nil {
			return domain.Coordinates{}, false, ctx.Err()
		}
		log.Printf("geocode csv skip id=%s name=%q err=%v", id, name, err)
		return domain.Coordinates{}, false, nil
	}
	if !ok {
		return domain.Coordinates{}, false, nil
	}

	if id != "" {
		if err := cache.PutMany(ctx, map[string]domain.Coordinates{id: c}); err != nil {
			return domain.Coordinates{}, false, fmt.Errorf("geocode csv: cache store id=%s: %w", id, err)
		}
	}
	return c, true, nil
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
