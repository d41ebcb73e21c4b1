package rdte

import "math/rand"

// LegalOutcome is the result of a stage-entry legal review.
type LegalOutcome string

const (
	LegalFavorable    LegalOutcome = "favorable"
	LegalCaveats      LegalOutcome = "favorable_with_caveats"
	LegalUnfavorable  LegalOutcome = "unfavorable"
	LegalNotConducted LegalOutcome = "not_conducted"
)

// LegalOutcomes lists every outcome in the fixed draw order.
var LegalOutcomes = []LegalOutcome{
	LegalFavorable, LegalCaveats, LegalUnfavorable, LegalNotConducted,
}

// outcome vector indices, matching LegalOutcomes.
const (
	idxFavorable = iota
	idxCaveats
	idxUnfavorable
	idxNotConducted
)

// LegalWeights computes the shifted, renormalized outcome distribution for a
// project. Pure function: the base weight vector is shifted by the
// classified-authority term, the kinetic term, and a penalty-derived term
// that moves mass from favorable toward caveats and unfavorable. Every shift
// is capped at cfg.MaxShift so the distribution never degenerates.
func LegalWeights(cfg LegalConfig, p *Project, multiplier float64) []float64 {
	weights := make([]float64, len(LegalOutcomes))
	for i, outcome := range LegalOutcomes {
		weights[i] = cfg.BaseWeights[outcome]
	}

	if classifiedAuthority(cfg, p.Attrs.Authority) {
		shiftWeight(weights, idxFavorable, idxCaveats, capShift(cfg, cfg.ClassifiedShift))
	}
	if p.Attrs.Kinetic {
		s := capShift(cfg, cfg.KineticShift)
		shiftWeight(weights, idxFavorable, idxCaveats, s/2)
		shiftWeight(weights, idxFavorable, idxUnfavorable, s/2)
	}
	if multiplier < 1 {
		s := capShift(cfg, cfg.PenaltyShift*(1-multiplier))
		shiftWeight(weights, idxFavorable, idxCaveats, s/2)
		shiftWeight(weights, idxFavorable, idxUnfavorable, s/2)
	}

	normalize(weights)
	return weights
}

// DrawLegalOutcome samples a legal review for the project from the shifted
// distribution, using the run's RNG stream.
func DrawLegalOutcome(rng *rand.Rand, cfg LegalConfig, p *Project, multiplier float64) LegalOutcome {
	weights := LegalWeights(cfg, p, multiplier)
	return LegalOutcomes[weightedIndex(rng, weights)]
}

func capShift(cfg LegalConfig, s float64) float64 {
	if cfg.MaxShift > 0 && s > cfg.MaxShift {
		return cfg.MaxShift
	}
	if s < 0 {
		return 0
	}
	return s
}

func classifiedAuthority(cfg LegalConfig, authority string) bool {
	for _, a := range cfg.ClassifiedAuthorities {
		if a == authority {
			return true
		}
	}
	return false
}
