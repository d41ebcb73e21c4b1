package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	rdte "github.com/bebill88/GMU-ABM-RDTE"
)

// paramsSchema mirrors the sections of the parameters file. Every field is
// optional; zero values fall back to the engine defaults. The engine itself
// never parses files; this loader resolves a rdte.Config and hands it over.
type paramsSchema struct {
	Model struct {
		Steps          int     `yaml:"steps"`
		NProjects      int     `yaml:"n_projects"`
		NEndUsers      int     `yaml:"n_endusers"`
		FundingRDTE    float64 `yaml:"funding_rdte"`
		FundingOM      float64 `yaml:"funding_om"`
		ShockAt        int     `yaml:"shock_at"`
		ShockDuration  int     `yaml:"shock_duration"`
		ShockMagnitude float64 `yaml:"shock_magnitude"`
	} `yaml:"model"`

	Penalties struct {
		PerFailure         *float64 `yaml:"per_failure"`
		MaxPenalty         *float64 `yaml:"max_penalty"`
		CountCap           *float64 `yaml:"count_cap"`
		DecayRate          *float64 `yaml:"decay_rate"`
		AdoptionBiasWeight *float64 `yaml:"adoption_bias_weight"`
	} `yaml:"penalties"`

	Adoption struct {
		Threshold       *float64 `yaml:"threshold"`
		ThresholdJitter *float64 `yaml:"threshold_jitter"`
		SampleFraction  *float64 `yaml:"sample_fraction"`
	} `yaml:"adoption"`

	Gates struct {
		Floor *float64 `yaml:"floor"`
	} `yaml:"gates"`

	AlignmentFlags []string `yaml:"alignment_flags"`
}

// loadParams reads the optional parameters file and applies it on top of the
// engine defaults. A missing file is not an error; a malformed one is.
func loadParams(path string) (rdte.Config, error) {
	cfg := rdte.DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("params: %w", err)
	}

	var file paramsSchema
	if err := yaml.Unmarshal(data, &file); err != nil {
		return cfg, fmt.Errorf("params: parse %s: %w", path, err)
	}

	if file.Model.Steps > 0 {
		cfg.Steps = file.Model.Steps
	}
	if file.Model.NProjects > 0 {
		cfg.NProjects = file.Model.NProjects
	}
	if file.Model.NEndUsers > 0 {
		cfg.NEndUsers = file.Model.NEndUsers
	}
	if file.Model.ShockAt > 0 {
		cfg.Shock.Start = file.Model.ShockAt
	}
	if file.Model.ShockDuration > 0 {
		cfg.Shock.Duration = file.Model.ShockDuration
	}
	if file.Model.ShockMagnitude > 0 {
		cfg.Shock.Magnitude = file.Model.ShockMagnitude
	}
	if file.Model.FundingRDTE > 0 || file.Model.FundingOM > 0 {
		applyFundingWeights(&cfg, file.Model.FundingRDTE, file.Model.FundingOM)
	}

	setIf(&cfg.Penalty.PerFailure, file.Penalties.PerFailure)
	setIf(&cfg.Penalty.MaxPenalty, file.Penalties.MaxPenalty)
	setIf(&cfg.Penalty.CountCap, file.Penalties.CountCap)
	setIf(&cfg.Penalty.DecayRate, file.Penalties.DecayRate)
	setIf(&cfg.Penalty.AdoptionBiasWeight, file.Penalties.AdoptionBiasWeight)

	setIf(&cfg.Adoption.Threshold, file.Adoption.Threshold)
	setIf(&cfg.Adoption.ThresholdJitter, file.Adoption.ThresholdJitter)
	setIf(&cfg.Adoption.SampleFraction, file.Adoption.SampleFraction)

	setIf(&cfg.Floor, file.Gates.Floor)

	if len(file.AlignmentFlags) > 0 {
		cfg.AlignmentFlags = file.AlignmentFlags
	}

	return cfg, nil
}

func setIf(dst *float64, src *float64) {
	if src != nil {
		*dst = *src
	}
}

// applyFundingWeights rescales the funding-gate baselines from the budget
// weights, normalized so the reference weights (RDT&E 1.0, O&M 0.5) leave
// the default tables unchanged. Linear draws on RDT&E only, adaptive on
// both colors of money, shock on RDT&E plus half the O&M line.
func applyFundingWeights(cfg *rdte.Config, fundingRDTE, fundingOM float64) {
	if fundingRDTE <= 0 {
		fundingRDTE = 1.0
	}
	if fundingOM <= 0 {
		fundingOM = 0.5
	}
	factors := map[rdte.Regime]float64{
		rdte.RegimeLinear:   fundingRDTE / 1.0,
		rdte.RegimeAdaptive: (fundingRDTE + fundingOM) / 1.5,
		rdte.RegimeShock:    (fundingRDTE + 0.5*fundingOM) / 1.25,
	}
	for regime, factor := range factors {
		params := cfg.Regimes[regime]
		rates := params.Gates[rdte.GateFunding]
		rates.Early = clampRate(rates.Early * factor)
		rates.Late = clampRate(rates.Late * factor)
		params.Gates[rdte.GateFunding] = rates
		cfg.Regimes[regime] = params
	}
}

func clampRate(r float64) float64 {
	if r < 0 {
		return 0
	}
	if r > 1 {
		return 1
	}
	return r
}
