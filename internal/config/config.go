// Package config holds the runtime-tunable knobs that the original C++
// source gates behind constexpr flags in mcrl2/utilities/configuration.h
// (GlobalThreadSafe, EnableGarbageCollection, EnableBlockAllocator,
// EnableCreationMetrics, ...). This module turns each into a field that can
// be loaded from a TOML file via github.com/BurntSushi/toml, or left at its
// documented default.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// Config is the process-wide tuning surface for the ATerm subsystem.
//
// GarbageCollectionDisabled is spelled negatively, rather than as
// "GarbageCollectionEnabled", so that the Go zero value (false) matches the
// documented default of collection being enabled (EnableGarbageCollection
// in the original source defaults to on).
type Config struct {
	// GarbageCollectionDisabled mirrors !EnableGarbageCollection: when true,
	// only resize runs on creation thresholds, collection never does.
	GarbageCollectionDisabled bool `toml:"garbage_collection_disabled"`

	// InitialCapacity is the starting bucket count for every arity's term
	// storage, and also the number of term creations between automatic
	// collections. The function-symbol pool is not sized by it.
	InitialCapacity int `toml:"initial_capacity"`

	// SlabSize is the number of term slots per allocator slab (the
	// "ElementsPerBlock" of mcrl2::utilities::memory_pool).
	SlabSize int `toml:"slab_size"`

	// LoadFactorThreshold triggers a resize once load exceeds it.
	LoadFactorThreshold float64 `toml:"load_factor_threshold"`

	// CreationMetricsEnabled mirrors EnableCreationMetrics: tracks
	// hit/miss counters on hash-consing lookups.
	CreationMetricsEnabled bool `toml:"creation_metrics_enabled"`

	// VerificationEnabled mirrors development-build assertions: turns on
	// VerifyMark/VerifySweep invariant checks after each collection.
	VerificationEnabled bool `toml:"verification_enabled"`
}

// Default returns the documented defaults, matching the C++ source's
// compile-time defaults (GlobalThreadSafe=true, EnableGarbageCollection=true,
// EnableBlockAllocator=true).
func Default() Config {
	return Config{
		GarbageCollectionDisabled: false,
		InitialCapacity:           128,
		SlabSize:                  1024,
		LoadFactorThreshold:       0.75,
		CreationMetricsEnabled:    false,
		VerificationEnabled:       false,
	}
}

// Load reads a TOML file at path and overlays it onto Default(). A missing
// file is not an error: it simply yields the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: decode %s: %w", path, err)
	}
	return cfg, nil
}

// Normalize fills in zero-valued fields with documented defaults, so a
// zero-value Config{} (the common case for package-level New() calls with
// no explicit config) behaves the same as Default().
func (c Config) Normalize() Config {
	d := Default()
	if c.InitialCapacity <= 0 {
		c.InitialCapacity = d.InitialCapacity
	}
	if c.SlabSize <= 0 {
		c.SlabSize = d.SlabSize
	}
	if c.LoadFactorThreshold <= 0 {
		c.LoadFactorThreshold = d.LoadFactorThreshold
	}
	return c
}
