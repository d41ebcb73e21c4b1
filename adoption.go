package rdte

import "math/rand"

// EndUser is one operational user evaluating candidate projects. Thresholds
// are drawn once at run setup from the run RNG, jittered around the
// configured base so a sampled vote can split.
type EndUser struct {
	ID        int
	Threshold float64
}

// Evaluate computes the user's perceived utility for a project: intrinsic
// quality plus the environmental signal. The user accepts when utility
// reaches its threshold.
func (u EndUser) Evaluate(p *Project, signal float64) bool {
	return p.Quality+signal >= u.Threshold
}

// AdoptionDecision records one adoption vote.
type AdoptionDecision struct {
	Adopted    bool
	SampleSize int
	Votes      int     // accepting voters
	Signal     float64 // environmental signal applied to every voter
}

// AdoptionEvaluator samples end users and decides field adoption for a
// project that has exited the pipeline.
type AdoptionEvaluator struct {
	cfg      AdoptionConfig
	endusers []EndUser
}

// NewAdoptionEvaluator builds the evaluator for a run's end-user population,
// drawing the jittered thresholds from the run RNG.
func NewAdoptionEvaluator(cfg AdoptionConfig, n int, rng *rand.Rand) *AdoptionEvaluator {
	users := make([]EndUser, n)
	for i := range users {
		threshold := cfg.Threshold
		if cfg.ThresholdJitter > 0 {
			threshold += (2*rng.Float64() - 1) * cfg.ThresholdJitter
		}
		users[i] = EndUser{ID: i, Threshold: clamp(threshold, 0, 1)}
	}
	return &AdoptionEvaluator{cfg: cfg, endusers: users}
}

// EndUsers returns the run's end-user population.
func (a *AdoptionEvaluator) EndUsers() []EndUser {
	return a.endusers
}

// Decide samples the configured fraction of end users (minimum one) and
// applies a simple majority vote. The sample is drawn without replacement
// from the run RNG; the environmental signal is computed once and shared by
// every voter, matching the consistent-within-tick snapshot guarantee.
func (a *AdoptionEvaluator) Decide(rng *rand.Rand, ctx GateContext, p *Project) AdoptionDecision {
	k := int(a.cfg.SampleFraction * float64(len(a.endusers)))
	if k < 1 {
		k = 1
	}
	if k > len(a.endusers) {
		k = len(a.endusers)
	}

	signal := EnvironmentalSignal(ctx, p)

	perm := randomPerm(rng, len(a.endusers))
	votes := 0
	for _, idx := range perm[:k] {
		if a.endusers[idx].Evaluate(p, signal) {
			votes++
		}
	}

	majority := k / 2
	if majority < 1 {
		majority = 1
	}
	return AdoptionDecision{
		Adopted:    votes >= majority,
		SampleSize: k,
		Votes:      votes,
		Signal:     signal,
	}
}
