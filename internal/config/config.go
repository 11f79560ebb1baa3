package config

import (
	"errors"
	"fmt"
	"fuel-route-service/internal/domain"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Get returns the environment value for key, or fallback when unset or empty.
func Get(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// Server holds the settings read by cmd/server.
type Server struct {
	Port          string
	StoreDriver   string
	DBPath        string
	DatabaseURL   string
	ORSKey        string
	ORSProfile    string
	RedisURL      string
	RouteCacheTTL time.Duration
	Vehicle       domain.Vehicle
}

// LoadServer reads server settings from the environment.
func LoadServer() (*Server, error) {
	cfg := &Server{
		Port:        Get("PORT", "8080"),
		StoreDriver: strings.ToLower(Get("STORE_DRIVER", "sqlite")),
		DBPath:      Get("DB_PATH", "data/fuel.db"),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		ORSKey:      strings.TrimSpace(os.Getenv("ORS_API_KEY")),
		ORSProfile:  Get("ORS_PROFILE", "driving-hgv"),
		RedisURL:    os.Getenv("REDIS_URL"),
	}

	if cfg.ORSKey == "" {
		return nil, errors.New("ORS_API_KEY is required")
	}

	switch cfg.StoreDriver {
	case "sqlite":
	case "postgres":
		if strings.TrimSpace(cfg.DatabaseURL) == "" {
			return nil, errors.New("DATABASE_URL is required when STORE_DRIVER=postgres")
		}
	default:
		return nil, fmt.Errorf("STORE_DRIVER must be sqlite or postgres, got %q", cfg.StoreDriver)
	}

	ttl, err := time.ParseDuration(Get("ROUTE_CACHE_TTL", "24h"))
	if err != nil {
		return nil, fmt.Errorf("ROUTE_CACHE_TTL: %w", err)
	}
	cfg.RouteCacheTTL = ttl

	vehicle, err := LoadVehicle()
	if err != nil {
		return nil, err
	}
	cfg.Vehicle = vehicle

	return cfg, nil
}

// VehicleProfile is the YAML shape of a vehicle profile file.
type VehicleProfile struct {
	Name       string  `yaml:"name"`
	RangeMiles float64 `yaml:"range_miles"`
	MPG        float64 `yaml:"mpg"`
}

// LoadVehicle resolves the vehicle used for planning. A profile file named
// by VEHICLE_PROFILE_PATH wins; otherwise VEHICLE_RANGE_MILES and
// VEHICLE_MPG are used, defaulting to a 500 mile range at 10 mpg.
func LoadVehicle() (domain.Vehicle, error) {
	if path := os.Getenv("VEHICLE_PROFILE_PATH"); path != "" {
		p, err := LoadVehicleProfile(path)
		if err != nil {
			return domain.Vehicle{}, err
		}
		return vehicleFrom(p.RangeMiles, p.MPG)
	}

	rangeMiles, err := strconv.ParseFloat(Get("VEHICLE_RANGE_MILES", "500"), 64)
	if err != nil {
		return domain.Vehicle{}, fmt.Errorf("VEHICLE_RANGE_MILES: %w", err)
	}
	mpg, err := strconv.ParseFloat(Get("VEHICLE_MPG", "10"), 64)
	if err != nil {
		return domain.Vehicle{}, fmt.Errorf("VEHICLE_MPG: %w", err)
	}

	return vehicleFrom(rangeMiles, mpg)
}

// LoadVehicleProfile reads a YAML vehicle profile.
func LoadVehicleProfile(path string) (*VehicleProfile, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load vehicle profile: read %q: %w", path, err)
	}

	var p VehicleProfile
	if err := yaml.Unmarshal(b, &p); err != nil {
		return nil, fmt.Errorf("load vehicle profile: parse %q: %w", path, err)
	}

	return &p, nil
}

func vehicleFrom(rangeMiles, mpg float64) (domain.Vehicle, error) {
	v := domain.NewVehicle(rangeMiles, mpg)
	if err := v.Validate(); err != nil {
		return domain.Vehicle{}, fmt.Errorf("load vehicle: %w", err)
	}
	return v, nil
}
