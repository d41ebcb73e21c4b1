package rdte

import (
	"fmt"
	"sort"
)

// Regime selects the governance style for a run.
type Regime string

const (
	RegimeLinear   Regime = "linear"   // centralized, rigid milestones, slow feedback
	RegimeAdaptive Regime = "adaptive" // decentralized, rolling evaluations
	RegimeShock    Regime = "shock"    // resilience testing with a disruption window
)

// Regimes lists every supported regime in a fixed order.
var Regimes = []Regime{RegimeLinear, RegimeAdaptive, RegimeShock}

// Gate identifies one checkpoint in the per-tick gate chain.
type Gate string

const (
	GateLegal       Gate = "legal"
	GateFunding     Gate = "funding"
	GateContracting Gate = "contracting"
	GateTest        Gate = "test"
	GateAdoption    Gate = "adoption"
)

// probabilisticGates are the gates resolved by a pass/fail probability draw.
// Legal is a categorical draw and adoption is a vote; neither has a base rate.
var probabilisticGates = []Gate{GateFunding, GateContracting, GateTest}

// GateRates holds a gate's baseline pass probability by stage band.
// Early covers feasibility through functional_test, Late covers
// vulnerability_test and operational_test.
type GateRates struct {
	Early float64
	Late  float64
}

// RegimeParams holds the per-regime baselines and shock susceptibility.
type RegimeParams struct {
	// Gates maps each probabilistic gate to its baseline pass rates.
	Gates map[Gate]GateRates

	// SignalBias is the regime's baseline environmental signal, the
	// additive mood term end users fold into perceived utility.
	SignalBias float64

	// ShockGatePenalty is subtracted from every gate probability while a
	// shock window is active, scaled by the window magnitude.
	ShockGatePenalty float64

	// ShockSignalPenalty reduces the environmental signal while a shock
	// window is active, scaled by the window magnitude.
	ShockSignalPenalty float64
}

// PenaltyConfig controls the repeat-failure penalty mechanism.
type PenaltyConfig struct {
	// PerFailure is the probability reduction per recorded failure on an axis.
	PerFailure float64

	// MaxPenalty caps the reduction any single axis can contribute, so the
	// per-axis multiplier never drops below 1 − MaxPenalty.
	MaxPenalty float64

	// CountCap caps the failure count considered per axis.
	CountCap float64

	// DecayRate shrinks every counter once per tick: count *= 1 − DecayRate.
	// Zero disables decay; penalties then never recover within a run.
	DecayRate float64

	// GateAxes maps each gate to the ordered penalty axes that apply to it.
	// A gate with no entry takes no penalty multiplier and records no
	// failures. Built once at setup and treated as immutable.
	GateAxes map[Gate][]Axis

	// AdoptionBiasWeight converts accumulated adoption-axis penalties into
	// the negative environmental-signal bias seen by end users.
	AdoptionBiasWeight float64
}

// ModifierConfig holds the additive modifier and friction constants shared by
// all regimes.
type ModifierConfig struct {
	// TRLBonusPerLevel and TRLBonusCap shape the maturity bonus:
	// min(TRLBonusCap, TRLBonusPerLevel × (TRL − TRLStart)).
	TRLBonusPerLevel float64
	TRLBonusCap      float64

	// QualityWeight scales the (quality − 0.5) term on the test gate.
	QualityWeight float64

	// EcosystemBonus applies when a project is associated with a
	// collaboration hub (lab/hub co-location data).
	EcosystemBonus float64

	// AlignmentBonus applies when a declared priority matches a configured
	// alignment flag; AlignmentPenalty applies when a project declares
	// priorities and none match.
	AlignmentBonus   float64
	AlignmentPenalty float64

	// KineticFriction is charged on every gate for kinetic projects.
	KineticFriction float64

	// CyberLateFriction is charged on late-stage test gates for cyber
	// projects (vulnerability and operational testing drag).
	CyberLateFriction float64

	// CaveatFriction is charged on test gates while the cached legal
	// outcome for the stage is favorable_with_caveats.
	CaveatFriction float64
}

// LegalConfig controls the categorical legal-review draw.
type LegalConfig struct {
	// BaseWeights is the unshifted weight per outcome. Weights need not sum
	// to one; they are renormalized after shifting.
	BaseWeights map[LegalOutcome]float64

	// ClassifiedAuthorities lists statutory authorities that trigger the
	// classified shift (weight moves from favorable toward caveats).
	ClassifiedAuthorities []string

	// ClassifiedShift, KineticShift and PenaltyShift are the additive shift
	// magnitudes; PenaltyShift is scaled by (1 − penalty multiplier).
	ClassifiedShift float64
	KineticShift    float64
	PenaltyShift    float64

	// MaxShift caps every individual shift term so the distribution never
	// degenerates.
	MaxShift float64
}

// AdoptionConfig controls the end-user adoption vote.
type AdoptionConfig struct {
	// Threshold is the perceived-utility bar an end user applies.
	Threshold float64

	// ThresholdJitter spreads individual end-user thresholds uniformly in
	// [Threshold − j, Threshold + j], drawn once per run from the run RNG.
	ThresholdJitter float64

	// SampleFraction of the end-user population votes on each candidate,
	// minimum one voter.
	SampleFraction float64
}

// ShockWindow is the single disruption window of a run. A run has at most
// one; Duration 0 disables it.
type ShockWindow struct {
	Start     int
	Duration  int
	Magnitude float64
}

// PopulationConfig controls the attribute draws for the generated project
// pool. Callers that spawn their own projects bypass it entirely.
type PopulationConfig struct {
	Domains        []string
	OrgTypes       []string
	Authorities    []string
	FundingSources []string

	KineticShare float64 // share of projects flagged kinetic
	IntelShare   float64 // share of projects flagged intel-discipline
	HubShare     float64 // share associated with a collaboration hub

	// PriorityShare is the chance each configured alignment flag is
	// declared as a project priority.
	PriorityShare float64

	// QualityMin and QualityMax bound the initial quality draw.
	QualityMin float64
	QualityMax float64
}

// Config is the resolved configuration a run consumes. The engine never
// parses files; the surrounding tooling resolves one of these and hands it
// over (see cmd/rdte).
type Config struct {
	Regime Regime
	Steps  int
	Seed   int64

	// Population sizes.
	NProjects int
	NEndUsers int

	Shock ShockWindow

	Regimes   map[Regime]RegimeParams
	Penalty   PenaltyConfig
	Modifiers ModifierConfig
	Legal     LegalConfig
	Adoption  AdoptionConfig

	// Floor is the minimum final probability for every probabilistic gate.
	// It guarantees runs keep making progress under heavy penalties.
	Floor float64

	// TRL progression: projects start at TRLStart and gain TRLDelta per
	// passed stage test, clamped to TRLMax.
	TRLStart float64
	TRLDelta float64
	TRLMax   float64

	// LearningRate scales the quality improvement after a rejection.
	LearningRate float64

	// AlignmentFlags are the declared policy priorities currently in favor.
	AlignmentFlags []string

	Population PopulationConfig
}

// DefaultConfig returns the reference parameterization. Funding baselines
// fold in the reference budget weights (RDT&E 1.0, O&M 0.5).
func DefaultConfig() Config {
	return Config{
		Regime:    RegimeLinear,
		Steps:     200,
		Seed:      42,
		NProjects: 40,
		NEndUsers: 30,
		Shock:     ShockWindow{Start: 80, Duration: 20, Magnitude: 1.0},
		Regimes: map[Regime]RegimeParams{
			RegimeLinear: {
				Gates: map[Gate]GateRates{
					GateFunding:     {Early: 0.45, Late: 0.40},
					GateContracting: {Early: 0.50, Late: 0.45},
					GateTest:        {Early: 0.40, Late: 0.30},
				},
				SignalBias:         -0.05,
				ShockGatePenalty:   0.05,
				ShockSignalPenalty: 0.05,
			},
			RegimeAdaptive: {
				Gates: map[Gate]GateRates{
					GateFunding:     {Early: 0.60, Late: 0.55},
					GateContracting: {Early: 0.65, Late: 0.60},
					GateTest:        {Early: 0.60, Late: 0.50},
				},
				SignalBias:         0.10,
				ShockGatePenalty:   0.05,
				ShockSignalPenalty: 0.05,
			},
			RegimeShock: {
				Gates: map[Gate]GateRates{
					GateFunding:     {Early: 0.50, Late: 0.45},
					GateContracting: {Early: 0.55, Late: 0.50},
					GateTest:        {Early: 0.55, Late: 0.45},
				},
				SignalBias:         0.0,
				ShockGatePenalty:   0.30,
				ShockSignalPenalty: 0.10,
			},
		},
		Penalty: PenaltyConfig{
			PerFailure: 0.05,
			MaxPenalty: 0.30,
			CountCap:   10,
			DecayRate:  0.02,
			GateAxes: map[Gate][]Axis{
				GateFunding:     {AxisFundingSource, AxisOrgType},
				GateContracting: {AxisOrgType},
				GateTest:        {AxisResearcher, AxisDomain, AxisStage, AxisKinetic},
				GateAdoption:    {AxisResearcher, AxisDomain},
				GateLegal:       {AxisAuthority, AxisKinetic},
			},
			AdoptionBiasWeight: 0.5,
		},
		Modifiers: ModifierConfig{
			TRLBonusPerLevel:  0.01,
			TRLBonusCap:       0.05,
			QualityWeight:     0.30,
			EcosystemBonus:    0.03,
			AlignmentBonus:    0.05,
			AlignmentPenalty:  0.03,
			KineticFriction:   0.05,
			CyberLateFriction: 0.08,
			CaveatFriction:    0.05,
		},
		Legal: LegalConfig{
			BaseWeights: map[LegalOutcome]float64{
				LegalFavorable:    0.55,
				LegalCaveats:      0.25,
				LegalUnfavorable:  0.05,
				LegalNotConducted: 0.15,
			},
			ClassifiedAuthorities: []string{"title50"},
			ClassifiedShift:       0.10,
			KineticShift:          0.08,
			PenaltyShift:          0.30,
			MaxShift:              0.20,
		},
		Adoption: AdoptionConfig{
			Threshold:       0.60,
			ThresholdJitter: 0.05,
			SampleFraction:  0.20,
		},
		Floor:        0.05,
		TRLStart:     1.0,
		TRLDelta:     1.5,
		TRLMax:       9.0,
		LearningRate: 0.10,
		AlignmentFlags: []string{
			"autonomy", "resilient_comms", "contested_logistics",
		},
		Population: PopulationConfig{
			Domains:        []string{"cyber", "c4isr", "space", "autonomy", "sensors"},
			OrgTypes:       []string{"ffrdc", "uarc", "industry", "academia", "gov_lab"},
			Authorities:    []string{"title10", "title50"},
			FundingSources: []string{"rdte", "om", "ota", "sbir"},
			KineticShare:   0.25,
			IntelShare:     0.20,
			HubShare:       0.30,
			PriorityShare:  0.40,
			QualityMin:     0.30,
			QualityMax:     0.70,
		},
	}
}

// Validate checks the configuration before a run starts. A missing regime or
// gate parameter is fatal for the run, never silently defaulted.
func (c Config) Validate() error {
	if _, ok := c.Regimes[c.Regime]; !ok {
		return fmt.Errorf("config: unknown regime %q", c.Regime)
	}
	if c.Steps <= 0 {
		return fmt.Errorf("config: steps must be positive, got %d", c.Steps)
	}
	if c.NProjects <= 0 {
		return fmt.Errorf("config: n_projects must be positive, got %d", c.NProjects)
	}
	if c.NEndUsers <= 0 {
		return fmt.Errorf("config: n_endusers must be positive, got %d", c.NEndUsers)
	}
	if c.Floor < 0 || c.Floor > 1 {
		return fmt.Errorf("config: probability floor %v outside [0,1]", c.Floor)
	}
	for _, regime := range Regimes {
		params, ok := c.Regimes[regime]
		if !ok {
			return fmt.Errorf("config: regime %q has no parameters", regime)
		}
		for _, gate := range probabilisticGates {
			rates, ok := params.Gates[gate]
			if !ok {
				return fmt.Errorf("config: regime %q missing base rates for gate %q", regime, gate)
			}
			if err := validateRate(rates.Early); err != nil {
				return fmt.Errorf("config: regime %q gate %q early: %w", regime, gate, err)
			}
			if err := validateRate(rates.Late); err != nil {
				return fmt.Errorf("config: regime %q gate %q late: %w", regime, gate, err)
			}
		}
	}
	if c.Penalty.PerFailure < 0 {
		return fmt.Errorf("config: penalty per_failure must be non-negative, got %v", c.Penalty.PerFailure)
	}
	if c.Penalty.MaxPenalty < 0 || c.Penalty.MaxPenalty >= 1 {
		return fmt.Errorf("config: penalty max_penalty %v outside [0,1)", c.Penalty.MaxPenalty)
	}
	if c.Penalty.DecayRate < 0 || c.Penalty.DecayRate > 1 {
		return fmt.Errorf("config: penalty decay_rate %v outside [0,1]", c.Penalty.DecayRate)
	}
	for gate, axes := range c.Penalty.GateAxes {
		for _, axis := range axes {
			if !knownAxis(axis) {
				return fmt.Errorf("config: gate %q references unknown penalty axis %q", gate, axis)
			}
		}
	}
	total := 0.0
	for _, outcome := range LegalOutcomes {
		w, ok := c.Legal.BaseWeights[outcome]
		if !ok {
			return fmt.Errorf("config: legal base weight missing for outcome %q", outcome)
		}
		if w < 0 {
			return fmt.Errorf("config: legal base weight for %q is negative", outcome)
		}
		total += w
	}
	if total <= 0 {
		return fmt.Errorf("config: legal base weights sum to zero")
	}
	if c.Adoption.SampleFraction <= 0 || c.Adoption.SampleFraction > 1 {
		return fmt.Errorf("config: adoption sample_fraction %v outside (0,1]", c.Adoption.SampleFraction)
	}
	if c.Shock.Duration < 0 {
		return fmt.Errorf("config: shock duration must be non-negative, got %d", c.Shock.Duration)
	}
	if c.TRLDelta < 0 {
		return fmt.Errorf("config: trl delta must be non-negative, got %v", c.TRLDelta)
	}
	return nil
}

func validateRate(r float64) error {
	if r < 0 || r > 1 {
		return fmt.Errorf("base rate %v outside [0,1]", r)
	}
	return nil
}

// axesForGate returns the configured penalty axes for a gate, in a stable
// order. Unconfigured gates return nil.
func (c Config) axesForGate(g Gate) []Axis {
	return c.Penalty.GateAxes[g]
}

// regimeParams returns the parameters for the run's regime. Validate
// guarantees the entry exists.
func (c Config) regimeParams() RegimeParams {
	return c.Regimes[c.Regime]
}

// sortedAlignmentFlags returns the alignment flags in deterministic order.
func (c Config) sortedAlignmentFlags() []string {
	flags := append([]string(nil), c.AlignmentFlags...)
	sort.Strings(flags)
	return flags
}
