package rules

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the rule thresholds. It is an immutable value passed to
// Evaluate; there is no shared engine instance.
type Config struct {
	LateCheckinGraceMin    int     `yaml:"late_checkin_grace_min"`
	EarlyCheckoutGraceMin  int     `yaml:"early_checkout_grace_min"`
	MidShiftDelayMin       int     `yaml:"mid_shift_delay_min"`
	MinValidHours          float64 `yaml:"min_valid_hours"`
	MaxValidHours          float64 `yaml:"max_valid_hours"`
	NightShiftMinSpanHours int     `yaml:"night_shift_min_span_hours"`
	NightShiftStartHour    int     `yaml:"night_shift_start_hour"`
	NightShiftEndHour      int     `yaml:"night_shift_end_hour"`
	ExcessiveOvertimeHours float64 `yaml:"excessive_overtime_hours"`
	DoubleBadgeWindowMin   int     `yaml:"double_badge_window_min"`
}

func DefaultConfig() Config {
	return Config{
		LateCheckinGraceMin:    5,
		EarlyCheckoutGraceMin:  5,
		MidShiftDelayMin:       30,
		MinValidHours:          2.0,
		MaxValidHours:          16.0,
		NightShiftMinSpanHours: 12,
		NightShiftStartHour:    20,
		NightShiftEndHour:      8,
		ExcessiveOvertimeHours: 4.0,
		DoubleBadgeWindowMin:   5,
	}
}

// LoadConfig overlays the YAML file at path on DefaultConfig. Keys missing
// from the file keep their defaults. An empty path returns the defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("rules: read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("rules: parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	var errs []error
	if c.LateCheckinGraceMin < 0 || c.EarlyCheckoutGraceMin < 0 || c.MidShiftDelayMin < 0 {
		errs = append(errs, errors.New("grace periods must not be negative"))
	}
	if c.MinValidHours < 0 || c.MaxValidHours <= c.MinValidHours {
		errs = append(errs, fmt.Errorf("valid hours range [%.1f, %.1f] is empty", c.MinValidHours, c.MaxValidHours))
	}
	if c.NightShiftStartHour < 0 || c.NightShiftStartHour > 23 || c.NightShiftEndHour < 0 || c.NightShiftEndHour > 23 {
		errs = append(errs, errors.New("night shift hours must be within 0-23"))
	}
	if c.ExcessiveOvertimeHours < 0 || c.NightShiftMinSpanHours < 0 {
		errs = append(errs, errors.New("overtime and span thresholds must not be negative"))
	}
	if c.DoubleBadgeWindowMin <= 0 {
		errs = append(errs, errors.New("double badge window must be positive"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("rules: invalid config: %w", errors.Join(errs...))
	}
	return nil
}

func minutes(n int) time.Duration {
	return time.Duration(n) * time.Minute
}

func (c Config) lateGrace() time.Duration         { return minutes(c.LateCheckinGraceMin) }
func (c Config) earlyGrace() time.Duration        { return minutes(c.EarlyCheckoutGraceMin) }
func (c Config) midShiftDelay() time.Duration     { return minutes(c.MidShiftDelayMin) }
func (c Config) doubleBadgeWindow() time.Duration { return minutes(c.DoubleBadgeWindowMin) }
func (c Config) nightSpan() time.Duration         { return time.Duration(c.NightShiftMinSpanHours) * time.Hour }
