// Package world populates the walkthrough scene and drives the walker
// through it.
package world

import (
	"image"

	"go.uber.org/zap"

	"github.com/Faultbox/walkthrough/internal/assets"
	"github.com/Faultbox/walkthrough/internal/config"
	"github.com/Faultbox/walkthrough/internal/engine/scene"
	"github.com/Faultbox/walkthrough/internal/engine/texture"
	"github.com/Faultbox/walkthrough/internal/logger"
)

// Report summarises a startup load.
type Report struct {
	Main       string // empty when no candidate loaded
	Placements int    // placements that loaded
	Failed     int    // placements that did not
}

// Populate loads the first main model candidate that files can find, then
// every placement in order. Placements are applied even without a main
// model; their anchors may then be missing.
func Populate(s *scene.Scene, sc config.SceneConfig, files *assets.Manager) Report {
	var r Report
	for _, candidate := range sc.Models {
		if _, err := files.Resolve(candidate); err != nil {
			continue
		}
		if s.Load(candidate) {
			r.Main = candidate
		}
		break
	}
	if r.Main == "" {
		logger.Warn("no main model loaded", zap.Strings("candidates", sc.Models))
	}

	for _, p := range sc.Placements {
		if p.Apply(s) {
			r.Placements++
		} else {
			r.Failed++
		}
	}

	hits, misses := files.Cache().Stats()
	logger.Info("world populated",
		zap.String("main", r.Main),
		zap.Int("placements", r.Placements),
		zap.Int("failed", r.Failed),
		zap.Int("cache_hits", hits),
		zap.Int("cache_misses", misses))
	return r
}

// FloorImage loads the floor texture at path, falling back to procedural
// stone when it cannot be read.
func FloorImage(path string) *image.RGBA {
	if path != "" {
		img, err := texture.Load(path, true)
		if err == nil {
			return img
		}
		logger.Warn("floor texture unavailable, using stone", zap.String("path", path), zap.Error(err))
	}
	return texture.Stone(texture.Size, texture.Size)
}
