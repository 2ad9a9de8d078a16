// Package config handles loading taskmaster.toml configuration files.
package config

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/amonks/taskmaster/booking"
	"github.com/amonks/taskmaster/geo"
	"github.com/amonks/taskmaster/internal/clock"
	"github.com/amonks/taskmaster/internal/paths"
	"github.com/amonks/taskmaster/matching"
	"github.com/amonks/taskmaster/pricing"
	"github.com/amonks/taskmaster/task"
	"github.com/amonks/taskmaster/tracking"
)

// FileName is the project config file looked up in the working directory.
const FileName = "taskmaster.toml"

// ErrInvalidConfig indicates a config file with unknown keys or bad values.
var ErrInvalidConfig = errors.New("invalid config")

// Config represents the merged taskmaster configuration.
type Config struct {
	Pricing    Pricing    `toml:"pricing"`
	Simulation Simulation `toml:"simulation"`
	Server     Server     `toml:"server"`
}

// Pricing overrides the rate table and the single-stop distance.
type Pricing struct {
	// SingleStopKm is charged when a task has fewer than two stops and no
	// origin is configured.
	SingleStopKm float64 `toml:"single-stop-km"`
	// OriginLat and OriginLng set the point single-stop tasks are measured from.
	OriginLat *float64 `toml:"origin-lat"`
	OriginLng *float64 `toml:"origin-lng"`

	Fuel    Rate `toml:"fuel"`
	Queue   Rate `toml:"queue"`
	Pickup  Rate `toml:"pickup"`
	General Rate `toml:"general"`
}

// Rate is one category's entry in the rate table.
type Rate struct {
	Model        string  `toml:"model"`
	BaseFare     int     `toml:"base-fare"`
	PerKm        int     `toml:"per-km"`
	PerHour      int     `toml:"per-hour"`
	MinimumHours float64 `toml:"minimum-hours"`
	ServiceFee   int     `toml:"service-fee"`
}

// Simulation controls the matching and tracking timers. Durations are in
// milliseconds; zero selects the built-in default.
type Simulation struct {
	// Speed divides every delay. Values at or below 1 run in real time.
	Speed float64 `toml:"speed"`
	// Seed makes tasker selection reproducible.
	Seed *uint64 `toml:"seed"`

	StageIntervalMs    int  `toml:"stage-interval-ms"`
	RevealDelayMs      int  `toml:"reveal-delay-ms"`
	SettleDelayMs      int  `toml:"settle-delay-ms"`
	TickIntervalMs     int  `toml:"tick-interval-ms"`
	PositionIntervalMs int  `toml:"position-interval-ms"`
	ResetAfterCancelMs int  `toml:"reset-after-cancel-ms"`
	Hops               Hops `toml:"hops"`
}

// Hops sets the delay before each automatic status change.
type Hops struct {
	AssignMs   int `toml:"assign-ms"`
	EnRouteMs  int `toml:"en-route-ms"`
	ArriveMs   int `toml:"arrive-ms"`
	StartMs    int `toml:"start-ms"`
	CompleteMs int `toml:"complete-ms"`
}

// Server configures taskmaster serve.
type Server struct {
	Addr string `toml:"addr"`
}

// DefaultAddr is the listen address used when none is configured.
const DefaultAddr = "127.0.0.1:8080"

// Default returns the configuration used when no files exist.
func Default() *Config {
	rates := pricing.DefaultRates()
	return &Config{
		Pricing: Pricing{
			SingleStopKm: pricing.DefaultSingleStopKm,
			Fuel:         rateConfig(rates[task.CategoryFuelDelivery]),
			Queue:        rateConfig(rates[task.CategoryQueueStanding]),
			Pickup:       rateConfig(rates[task.CategoryPickupDelivery]),
			General:      rateConfig(rates[task.CategoryGeneralTask]),
		},
		Server: Server{Addr: DefaultAddr},
	}
}

func rateConfig(rate pricing.Rate) Rate {
	return Rate{
		Model:        string(rate.Model),
		BaseFare:     rate.BaseFare,
		PerKm:        rate.PerKm,
		PerHour:      rate.PerHour,
		MinimumHours: rate.MinimumHours,
		ServiceFee:   rate.ServiceFee,
	}
}

// Load loads configuration from the global config file and then from
// taskmaster.toml in dir. Keys set in the project file win. Returns the
// defaults if no config files exist.
func Load(dir string) (*Config, error) {
	globalPath, err := globalConfigPath()
	if err != nil {
		return nil, err
	}

	cfg := Default()
	for _, path := range []string{globalPath, filepath.Join(dir, FileName)} {
		if err := loadConfigFile(path, cfg); err != nil {
			return nil, err
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func globalConfigPath() (string, error) {
	dir, err := paths.DefaultConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// loadConfigFile decodes path over cfg. Only keys present in the file are
// overwritten.
func loadConfigFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read config file %s: %w", path, err)
	}

	meta, err := toml.Decode(string(data), cfg)
	if err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, key := range undecoded {
			keys = append(keys, key.String())
		}
		return fmt.Errorf("%w: %s: unknown keys %s", ErrInvalidConfig, path, strings.Join(keys, ", "))
	}
	if meta.IsDefined("pricing", "origin-lat") != meta.IsDefined("pricing", "origin-lng") {
		return fmt.Errorf("%w: %s: origin-lat and origin-lng must be set together", ErrInvalidConfig, path)
	}
	return nil
}

// Validate checks value ranges. Rates are checked by Calculator.
func (c *Config) Validate() error {
	if c.Pricing.SingleStopKm < 0 {
		return fmt.Errorf("%w: pricing.single-stop-km must not be negative", ErrInvalidConfig)
	}
	if origin := c.Pricing.Origin(); origin != nil {
		if origin.Lat < -90 || origin.Lat > 90 || origin.Lng < -180 || origin.Lng > 180 {
			return fmt.Errorf("%w: pricing origin %v,%v is out of range", ErrInvalidConfig, origin.Lat, origin.Lng)
		}
	}
	if c.Simulation.Speed < 0 {
		return fmt.Errorf("%w: simulation.speed must not be negative", ErrInvalidConfig)
	}
	sim := c.Simulation
	for name, ms := range map[string]int{
		"stage-interval-ms":     sim.StageIntervalMs,
		"reveal-delay-ms":       sim.RevealDelayMs,
		"settle-delay-ms":       sim.SettleDelayMs,
		"tick-interval-ms":      sim.TickIntervalMs,
		"position-interval-ms":  sim.PositionIntervalMs,
		"reset-after-cancel-ms": sim.ResetAfterCancelMs,
		"hops.assign-ms":        sim.Hops.AssignMs,
		"hops.en-route-ms":      sim.Hops.EnRouteMs,
		"hops.arrive-ms":        sim.Hops.ArriveMs,
		"hops.start-ms":         sim.Hops.StartMs,
		"hops.complete-ms":      sim.Hops.CompleteMs,
	} {
		if ms < 0 {
			return fmt.Errorf("%w: simulation.%s must not be negative", ErrInvalidConfig, name)
		}
	}
	return nil
}

// Origin returns the configured single-stop origin, or nil.
func (p Pricing) Origin() *geo.Point {
	if p.OriginLat == nil || p.OriginLng == nil {
		return nil
	}
	return &geo.Point{Lat: *p.OriginLat, Lng: *p.OriginLng}
}

// Rates returns the configured rate table.
func (p Pricing) Rates() pricing.Rates {
	return pricing.Rates{
		task.CategoryFuelDelivery:   p.Fuel.rate(),
		task.CategoryQueueStanding:  p.Queue.rate(),
		task.CategoryPickupDelivery: p.Pickup.rate(),
		task.CategoryGeneralTask:    p.General.rate(),
	}
}

func (r Rate) rate() pricing.Rate {
	return pricing.Rate{
		Model:        pricing.Model(strings.ToLower(strings.TrimSpace(r.Model))),
		BaseFare:     r.BaseFare,
		PerKm:        r.PerKm,
		PerHour:      r.PerHour,
		MinimumHours: r.MinimumHours,
		ServiceFee:   r.ServiceFee,
	}
}

// Calculator returns a price calculator for the configured rates.
func (c *Config) Calculator() (pricing.Calculator, error) {
	rates := c.Pricing.Rates()
	if err := rates.Validate(); err != nil {
		return pricing.Calculator{}, fmt.Errorf("pricing config: %w", err)
	}
	return pricing.Calculator{
		Rates: rates,
		SingleStop: pricing.SingleStop{
			Origin:    c.Pricing.Origin(),
			DefaultKm: c.Pricing.SingleStopKm,
		},
	}, nil
}

// Clock wraps base so simulation delays run at the configured speed.
func (c *Config) Clock(base clock.Clock) clock.Clock {
	return clock.Scaled(base, c.Simulation.Speed)
}

// MatchingOptions returns matcher options for the simulation settings.
func (c *Config) MatchingOptions() matching.Options {
	sim := c.Simulation
	opts := matching.Options{
		StageInterval: millis(sim.StageIntervalMs),
		RevealDelay:   millis(sim.RevealDelayMs),
		SettleDelay:   millis(sim.SettleDelayMs),
	}
	if sim.Seed != nil {
		opts.Rand = rand.New(rand.NewPCG(*sim.Seed, *sim.Seed))
	}
	return opts
}

// TrackingOptions returns tracker options for the simulation settings.
func (c *Config) TrackingOptions() tracking.Options {
	sim := c.Simulation
	transitions := tracking.DefaultTransitions()
	for status, ms := range map[task.Status]int{
		task.StatusRequested:  sim.Hops.AssignMs,
		task.StatusAssigned:   sim.Hops.EnRouteMs,
		task.StatusEnRoute:    sim.Hops.ArriveMs,
		task.StatusArrived:    sim.Hops.StartMs,
		task.StatusInProgress: sim.Hops.CompleteMs,
	} {
		if ms > 0 {
			transition := transitions[status]
			transition.Delay = millis(ms)
			transitions[status] = transition
		}
	}
	return tracking.Options{
		Transitions:      transitions,
		TickInterval:     millis(sim.TickIntervalMs),
		PositionInterval: millis(sim.PositionIntervalMs),
	}
}

// BookingOptions assembles session options on top of base.
func (c *Config) BookingOptions(base clock.Clock) (booking.Options, error) {
	calculator, err := c.Calculator()
	if err != nil {
		return booking.Options{}, err
	}
	return booking.Options{
		Calculator:       calculator,
		Clock:            c.Clock(base),
		Matching:         c.MatchingOptions(),
		Tracking:         c.TrackingOptions(),
		ResetAfterCancel: millis(c.Simulation.ResetAfterCancelMs),
	}, nil
}

func millis(ms int) time.Duration {
	return time.Duration(ms) * time.Millisecond
}
