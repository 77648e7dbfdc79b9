package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
)

// Config holds everything kyosol needs to talk to the portal and describe
// the attached battery.
type Config struct {
	Auth    Auth
	Site    Site
	Battery Battery
}

// Auth identifies the portal account.
type Auth struct {
	Email    string
	Password string
}

// Site identifies which portal site to query.
type Site struct {
	OrganizationID string
	SiteID         string
	BaseURL        string
	Location       string
}

// Battery describes the installed storage so estimates can be derived.
type Battery struct {
	CapacityKWH    float64
	ReservePercent float64
}

const (
	defaultConfigPath     = "~/.config/kyosol/config.toml"
	defaultBaseURL        = "https://sr.en.kyocera-solar.jp"
	defaultLocation       = "Japan"
	defaultCapacityKWH    = 7.0
	defaultReservePercent = 30
)

// UsableKWH returns the capacity above the reserve floor.
func (b Battery) UsableKWH() float64 {
	return b.CapacityKWH * (100 - b.ReservePercent) / 100
}

// Load locates and parses the kyosol config.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("config file not found at %s", resolved)
		}
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer func() { _ = file.Close() }()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	return Parse(bytes)
}

// Parse decodes and validates raw TOML config bytes.
func Parse(data []byte) (Config, error) {
	var raw struct {
		Auth struct {
			Email    string `toml:"email"`
			Password string `toml:"password"`
		} `toml:"auth"`
		Site struct {
			OrganizationID string `toml:"organization_id"`
			SiteID         string `toml:"site_id"`
			BaseURL        string `toml:"base_url"`
			Location       string `toml:"location"`
		} `toml:"site"`
		Battery struct {
			CapacityKWH    *float64 `toml:"capacity_kwh"`
			ReservePercent *float64 `toml:"reserve_percent"`
		} `toml:"battery"`
	}
	if err := toml.Unmarshal(data, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	cfg := Config{
		Auth: Auth{
			Email:    strings.TrimSpace(raw.Auth.Email),
			Password: raw.Auth.Password,
		},
		Site: Site{
			OrganizationID: strings.TrimSpace(raw.Site.OrganizationID),
			SiteID:         strings.TrimSpace(raw.Site.SiteID),
			BaseURL:        strings.TrimSpace(raw.Site.BaseURL),
			Location:       strings.TrimSpace(raw.Site.Location),
		},
		Battery: Battery{
			CapacityKWH:    defaultCapacityKWH,
			ReservePercent: defaultReservePercent,
		},
	}

	if cfg.Auth.Email == "" {
		return Config{}, fmt.Errorf("config missing [auth] email")
	}
	if cfg.Auth.Password == "" {
		return Config{}, fmt.Errorf("config missing [auth] password")
	}
	if cfg.Site.OrganizationID == "" {
		return Config{}, fmt.Errorf("config missing [site] organization_id")
	}
	if cfg.Site.SiteID == "" {
		return Config{}, fmt.Errorf("config missing [site] site_id")
	}

	if cfg.Site.BaseURL == "" {
		cfg.Site.BaseURL = defaultBaseURL
	}
	if cfg.Site.Location == "" {
		cfg.Site.Location = defaultLocation
	}

	if raw.Battery.CapacityKWH != nil {
		cfg.Battery.CapacityKWH = *raw.Battery.CapacityKWH
	}
	if raw.Battery.ReservePercent != nil {
		cfg.Battery.ReservePercent = *raw.Battery.ReservePercent
	}
	if cfg.Battery.CapacityKWH <= 0 {
		return Config{}, fmt.Errorf("battery capacity_kwh must be > 0, got %v", cfg.Battery.CapacityKWH)
	}
	if cfg.Battery.ReservePercent < 0 || cfg.Battery.ReservePercent > 100 {
		return Config{}, fmt.Errorf("battery reserve_percent must be within [0,100], got %v", cfg.Battery.ReservePercent)
	}

	return cfg, nil
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
