package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"media-picker/internal/assets"
	"media-picker/internal/crop"
	"media-picker/internal/logging"
)

// sessionFile is the on-disk shape of a replayable crop session: one
// record per edited asset, keyed by asset ID or file name.
type sessionFile struct {
	Entries []sessionEntry `json:"entries"`
}

type sessionEntry struct {
	Asset         string     `json:"asset"`
	Scale         float64    `json:"scale"`
	Area          *crop.Rect `json:"area,omitempty"`
	InternalScale *float64   `json:"internalScale,omitempty"`
}

func loadSession(path string) (*sessionFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read session file: %w", err)
	}
	var session sessionFile
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("failed to parse session file: %w", err)
	}
	return &session, nil
}

// applySession commits each session entry's geometry against the
// controller, the same way the picker UI would on preview switches.
// Entries that match no selected asset are skipped with a warning.
func applySession(c *crop.Controller, session *sessionFile, selection []assets.Asset) {
	byName := make(map[string]assets.Asset, len(selection))
	for _, asset := range selection {
		byName[asset.ID()] = asset
		byName[filepath.Base(asset.ID())] = asset
	}

	for _, entry := range session.Entries {
		asset, ok := byName[entry.Asset]
		if !ok {
			logging.Warn("session entry %q matches no selected asset, skipping", entry.Asset)
			continue
		}

		geometry := crop.Geometry{Scale: entry.Scale, Area: entry.Area}
		if geometry.Scale <= 0 {
			geometry.Scale = 1.0
		}
		if entry.InternalScale != nil {
			geometry.Internal = &crop.ViewState{Scale: entry.InternalScale}
		}

		if err := c.Commit(asset, &geometry, selection); err != nil {
			logging.Warn("failed to apply session entry for %s: %v", entry.Asset, err)
		}
	}
}
