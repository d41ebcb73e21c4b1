package rdte

// GateResult is the full decomposition of one gate probability computation.
// Recomputing clamp((Base + Modifiers − Penalties) × Multiplier, floor, 1)
// from a stored result reproduces Final exactly.
type GateResult struct {
	Gate       Gate
	Base       float64
	Modifiers  float64 // sum of additive modifiers
	Penalties  float64 // sum of additive penalties
	Multiplier float64 // penalty-ledger multiplier over the gate's axes
	Final      float64
}

// GateContext is the read-only state a gate probability depends on beyond
// the project itself. Explicit context objects, not module-level singletons,
// so concurrent runs never cross-contaminate.
type GateContext struct {
	Cfg    *Config
	Ledger *PenaltyLedger
	Shock  *ShockController
	Tick   int
}

// EvaluateGate computes the pass probability for a probabilistic gate. Pure
// computation: nothing in the context is mutated.
func EvaluateGate(ctx GateContext, gate Gate, p *Project) GateResult {
	base := baseRate(ctx.Cfg, gate, p.Stage)
	mods := additiveModifiers(ctx.Cfg, gate, p)
	pens := additivePenalties(ctx, gate, p)
	mult := ctx.Ledger.Multiplier(ctx.Cfg.axesForGate(gate), p)

	return GateResult{
		Gate:       gate,
		Base:       base,
		Modifiers:  mods,
		Penalties:  pens,
		Multiplier: mult,
		Final:      finalProbability(base, mods, pens, mult, ctx.Cfg.Floor),
	}
}

// finalProbability applies the probability contract. The floor is a final
// clamp after the multiplicative term, so stacked bonuses and penalties can
// never push a gate outside [floor, 1].
func finalProbability(base, mods, pens, mult, floor float64) float64 {
	return clamp((base+mods-pens)*mult, floor, 1)
}

func baseRate(cfg *Config, gate Gate, stage Stage) float64 {
	rates := cfg.regimeParams().Gates[gate]
	if stage.Late() {
		return rates.Late
	}
	return rates.Early
}

func additiveModifiers(cfg *Config, gate Gate, p *Project) float64 {
	mods := trlBonus(cfg, p)
	if p.Hub {
		mods += cfg.Modifiers.EcosystemBonus
	}
	if match, declared := p.aligned(cfg.AlignmentFlags); declared {
		if match {
			mods += cfg.Modifiers.AlignmentBonus
		} else {
			mods -= cfg.Modifiers.AlignmentPenalty
		}
	}
	if gate == GateTest {
		mods += cfg.Modifiers.QualityWeight * (p.Quality - 0.5)
	}
	return mods
}

func trlBonus(cfg *Config, p *Project) float64 {
	bonus := cfg.Modifiers.TRLBonusPerLevel * (p.TRL - cfg.TRLStart)
	if bonus < 0 {
		return 0
	}
	if bonus > cfg.Modifiers.TRLBonusCap {
		return cfg.Modifiers.TRLBonusCap
	}
	return bonus
}

func additivePenalties(ctx GateContext, gate Gate, p *Project) float64 {
	cfg := ctx.Cfg
	pens := 0.0
	if p.Attrs.Kinetic {
		pens += cfg.Modifiers.KineticFriction
	}
	if gate == GateTest && p.Stage.Late() && p.Attrs.Domain == "cyber" {
		pens += cfg.Modifiers.CyberLateFriction
	}
	if gate == GateTest && p.LegalStatus == LegalCaveats {
		pens += cfg.Modifiers.CaveatFriction
	}
	if ctx.Shock.Active() {
		pens += cfg.regimeParams().ShockGatePenalty * ctx.Shock.Magnitude()
	}
	return pens
}

// EnvironmentalSignal is the additive bias term end users fold into
// perceived utility: regime mood, shock reduction while active, alignment
// bias, the ecosystem bonus, and a negative bias proportional to the
// project's accumulated adoption-axis penalties.
func EnvironmentalSignal(ctx GateContext, p *Project) float64 {
	cfg := ctx.Cfg
	params := cfg.regimeParams()

	signal := params.SignalBias
	if ctx.Shock.Active() {
		signal -= params.ShockSignalPenalty * ctx.Shock.Magnitude()
	}
	if match, declared := p.aligned(cfg.AlignmentFlags); declared {
		if match {
			signal += cfg.Modifiers.AlignmentBonus
		} else {
			signal -= cfg.Modifiers.AlignmentPenalty
		}
	}
	if p.Hub {
		signal += cfg.Modifiers.EcosystemBonus
	}
	mult := ctx.Ledger.Multiplier(cfg.axesForGate(GateAdoption), p)
	signal -= cfg.Penalty.AdoptionBiasWeight * (1 - mult)
	return signal
}
