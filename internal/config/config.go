// Package config loads service configuration from an optional YAML file
// overlaid with environment variables, following the defaults-struct
// pattern the teacher uses for dao.NewDAOConfig().
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Backend holds the settings for the request-constructor / projection
// service.
type Backend struct {
	ListenAddr       string `yaml:"listen_addr"`
	SelfPrincipalHex string `yaml:"self_principal_hex"`
	AdminURL         string `yaml:"admin_url"`
	StationURL       string `yaml:"station_url"`
	IPFSNodeURL      string `yaml:"ipfs_node_url"`
	VenueURL         string `yaml:"venue_url"`
	FactoryURL       string `yaml:"factory_url"`
	MetricsAddr      string `yaml:"metrics_addr"`
}

// Admin holds the settings for the proposal/voting authority service.
type Admin struct {
	ListenAddr          string        `yaml:"listen_addr"`
	BackendURL          string        `yaml:"backend_url"`
	BackendPrincipalHex string        `yaml:"backend_principal_hex"`
	StationURL          string        `yaml:"station_url"`
	VenueURL            string        `yaml:"venue_url"`
	FactoryURL          string        `yaml:"factory_url"`
	MetricsAddr         string        `yaml:"metrics_addr"`
	VPFallbackSentinel  uint64        `yaml:"vp_fallback_sentinel"`
	MinimumQuorumUnits  uint64        `yaml:"minimum_quorum_units"`
	FactoryCacheTTL     time.Duration `yaml:"factory_cache_ttl"`
}

// DefaultBackend returns the out-of-the-box Backend configuration.
func DefaultBackend() Backend {
	return Backend{
		ListenAddr:  ":8081",
		AdminURL:    "http://localhost:8082",
		StationURL:  "http://localhost:8085",
		IPFSNodeURL: "localhost:5001",
		VenueURL:    "http://localhost:8083",
		FactoryURL:  "http://localhost:8084",
		MetricsAddr: ":9091",
	}
}

// DefaultAdmin returns the out-of-the-box Admin configuration.
func DefaultAdmin() Admin {
	return Admin{
		ListenAddr:         ":8082",
		BackendURL:         "http://localhost:8081",
		StationURL:         "http://localhost:8085",
		VenueURL:           "http://localhost:8083",
		FactoryURL:         "http://localhost:8084",
		MetricsAddr:        ":9092",
		VPFallbackSentinel: 1_000_000,
		MinimumQuorumUnits: 100,
		FactoryCacheTTL:    5 * time.Minute,
	}
}

// LoadBackend overlays an optional YAML file and environment variables onto
// DefaultBackend.
func LoadBackend(path string) (Backend, error) {
	cfg := DefaultBackend()
	if path != "" {
		if err := loadYAML(path, &cfg); err != nil {
			return Backend{}, err
		}
	}
	if v := os.Getenv("GOVCORE_BACKEND_LISTEN_ADDR"); v != "" {
		cfg.ListenAddr = v
	}
	if v := os.Getenv("GOVCORE_ADMIN_URL"); v != "" {
		cfg.AdminURL = v
	}
	if v := os.Getenv("GOVCORE_SELF_PRINCIPAL_HEX"); v != "" {
		cfg.SelfPrincipalHex = v
	}
	return cfg, nil
}

// LoadAdmin overlays an optional YAML file and environment variables onto
// DefaultAdmin.
func LoadAdmin(path string) (Admin, error) {
	cfg := DefaultAdmin()
	if path != "" {
		if err := loadYAML(path, &cfg); err != nil {
			return Admin{}, err
		}
	}
	if v := os.Getenv("GOVCORE_ADMIN_LISTEN_ADDR"); v != "" {
		cfg.ListenAddr = v
	}
	if v := os.Getenv("GOVCORE_BACKEND_PRINCIPAL_HEX"); v != "" {
		cfg.BackendPrincipalHex = v
	}
	if v := os.Getenv("GOVCORE_VP_FALLBACK_SENTINEL"); v != "" {
		n, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return Admin{}, fmt.Errorf("config: GOVCORE_VP_FALLBACK_SENTINEL: %w", err)
		}
		cfg.VPFallbackSentinel = n
	}
	return cfg, nil
}

func loadYAML(path string, out interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config: reading %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("config: parsing %s: %w", path, err)
	}
	return nil
}
