// Package config handles loading the fieldbound configuration file.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"

	"fieldbound/internal/style"
)

// Config captures everything the editor needs at startup.
type Config struct {
	CenterLat float64
	CenterLng float64
	Zoom      float64
	Style     string
	// FarmBoundaryPath points at a GeoJSON file holding the parent farm
	// perimeter shown as the read-only reference overlay. Optional.
	FarmBoundaryPath string
	// BlockBoundaryPath points at a GeoJSON file holding an existing
	// block boundary to edit. Optional; when set the session opens on it.
	BlockBoundaryPath string
	// ReadOnly suppresses all drawing controls.
	ReadOnly bool
}

const (
	defaultConfigPath = "~/.config/fieldbound/config.toml"

	defaultCenterLat = 42.03
	defaultCenterLng = -93.62
	defaultZoom      = 13

	minZoom = 0
	maxZoom = 22
)

// Load locates and parses the config, falling back to defaults when the
// file is missing.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		CenterLat: defaultCenterLat,
		CenterLng: defaultCenterLng,
		Zoom:      defaultZoom,
		Style:     style.StreetID,
	}

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var raw struct {
		CenterLat     float64 `toml:"center_lat"`
		CenterLng     float64 `toml:"center_lng"`
		Zoom          float64 `toml:"zoom"`
		Style         string  `toml:"style"`
		FarmBoundary  string  `toml:"farm_boundary"`
		BlockBoundary string  `toml:"block_boundary"`
		ReadOnly      bool    `toml:"read_only"`
	}
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	if raw.CenterLat != 0 || raw.CenterLng != 0 {
		if raw.CenterLat < -90 || raw.CenterLat > 90 {
			return Config{}, fmt.Errorf("center_lat %v out of range", raw.CenterLat)
		}
		if raw.CenterLng < -180 || raw.CenterLng > 180 {
			return Config{}, fmt.Errorf("center_lng %v out of range", raw.CenterLng)
		}
		cfg.CenterLat = raw.CenterLat
		cfg.CenterLng = raw.CenterLng
	}

	if raw.Zoom != 0 {
		if raw.Zoom < minZoom || raw.Zoom > maxZoom {
			return Config{}, fmt.Errorf("zoom %v out of range [%d, %d]", raw.Zoom, minZoom, maxZoom)
		}
		cfg.Zoom = raw.Zoom
	}

	if s := strings.TrimSpace(raw.Style); s != "" {
		if _, ok := style.ByID(s); !ok {
			return Config{}, fmt.Errorf("unknown style %q", s)
		}
		cfg.Style = s
	}

	if p := strings.TrimSpace(raw.FarmBoundary); p != "" {
		cfg.FarmBoundaryPath = mustExpand(p)
	}
	if p := strings.TrimSpace(raw.BlockBoundary); p != "" {
		cfg.BlockBoundaryPath = mustExpand(p)
	}
	cfg.ReadOnly = raw.ReadOnly

	return cfg, nil
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
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
