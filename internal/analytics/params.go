package analytics

import "fmt"

// PriceMode selects the transformation applied to the aligned closes
// before the pipeline runs.
type PriceMode string

const (
	ModePrice      PriceMode = "price"
	ModeNormalized PriceMode = "normalized"
	ModeReturns    PriceMode = "returns"
)

// Params are the knobs of one analysis pass.
type Params struct {
	LookbackWindow    int       `yaml:"lookback_window" json:"lookback_window"`
	ZWindow           int       `yaml:"z_window" json:"z_window"`
	CorrWindow        int       `yaml:"corr_window" json:"corr_window"`
	EntryThreshold    float64   `yaml:"entry_threshold" json:"entry_threshold"`
	ExitThreshold     float64   `yaml:"exit_threshold" json:"exit_threshold"`
	SignificanceLevel float64   `yaml:"significance_level" json:"significance_level"`
	MinVarianceEps    float64   `yaml:"min_variance_eps" json:"min_variance_eps"`
	CondNumberMax     float64   `yaml:"cond_number_max" json:"cond_number_max"`
	PositionUnit      float64   `yaml:"position_unit" json:"position_unit"`
	ADFMinObs         int       `yaml:"adf_min_obs" json:"adf_min_obs"`
	ADFMaxLag         int       `yaml:"adf_max_lag" json:"adf_max_lag"`
	PriceMode         PriceMode `yaml:"price_mode" json:"price_mode"`
}

// DefaultParams returns the documented defaults. LookbackWindow 0 means
// the whole series; ADFMaxLag -1 selects the Schwert rule.
func DefaultParams() Params {
	return Params{
		LookbackWindow:    0,
		ZWindow:           30,
		CorrWindow:        30,
		EntryThreshold:    2.0,
		ExitThreshold:     0.0,
		SignificanceLevel: 0.05,
		MinVarianceEps:    1e-16,
		CondNumberMax:     1e12,
		PositionUnit:      1.0,
		ADFMinObs:         20,
		ADFMaxLag:         -1,
		PriceMode:         ModePrice,
	}
}

// Validate rejects out-of-range parameters.
func (p Params) Validate() error {
	if p.LookbackWindow < 0 {
		return &ConfigurationError{Field: "lookback_window", Reason: "must be >= 0"}
	}
	if p.ZWindow < 2 {
		return &ConfigurationError{Field: "z_window", Reason: "must be >= 2"}
	}
	if p.CorrWindow < 2 {
		return &ConfigurationError{Field: "corr_window", Reason: "must be >= 2"}
	}
	if p.EntryThreshold <= 0 {
		return &ConfigurationError{Field: "entry_threshold", Reason: "must be > 0"}
	}
	if p.ExitThreshold < 0 {
		return &ConfigurationError{Field: "exit_threshold", Reason: "must be >= 0"}
	}
	if p.ExitThreshold >= p.EntryThreshold {
		return &ConfigurationError{Field: "exit_threshold", Reason: "must be below entry_threshold"}
	}
	if p.SignificanceLevel <= 0 || p.SignificanceLevel >= 1 {
		return &ConfigurationError{Field: "significance_level", Reason: "must be in (0, 1)"}
	}
	if p.MinVarianceEps <= 0 {
		return &ConfigurationError{Field: "min_variance_eps", Reason: "must be > 0"}
	}
	if p.CondNumberMax <= 1 {
		return &ConfigurationError{Field: "cond_number_max", Reason: "must be > 1"}
	}
	if p.PositionUnit <= 0 {
		return &ConfigurationError{Field: "position_unit", Reason: "must be > 0"}
	}
	if p.ADFMinObs < 4 {
		return &ConfigurationError{Field: "adf_min_obs", Reason: "must be >= 4"}
	}
	if p.ADFMaxLag < -1 {
		return &ConfigurationError{Field: "adf_max_lag", Reason: "must be >= -1"}
	}
	switch p.PriceMode {
	case ModePrice, ModeNormalized, ModeReturns:
	default:
		return &ConfigurationError{Field: "price_mode", Reason: fmt.Sprintf("unknown mode %q", string(p.PriceMode))}
	}
	return nil
}
