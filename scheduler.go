package rdte

import (
	"fmt"
	"math/rand"
)

// Scheduler drives the discrete tick loop for one run. It owns the run's
// single RNG stream; no other component creates independent randomness, so a
// run is exactly reproducible from its seed. A Scheduler is single-threaded
// and must not be shared across goroutines; independent runs are
// embarrassingly parallel on their own instances.
type Scheduler struct {
	cfg Config
	rng *rand.Rand

	tick     int
	projects []*Project

	ledger   *PenaltyLedger
	shock    *ShockController
	adoption *AdoptionEvaluator

	recorder Recorder
	metrics  *MetricTracker

	adoptedThisTick int
}

// NewScheduler validates the configuration, spawns the project pool and the
// end-user population from the run RNG, and returns a ready run. The
// recorder may be nil to drop events.
func NewScheduler(cfg Config, rec Recorder) (*Scheduler, error) {
	return newScheduler(cfg, rec, nil)
}

// NewSchedulerWithProjects is NewScheduler with a caller-supplied project
// pool, for population-scale producers outside the engine. Supplied projects
// must start in feasibility.
func NewSchedulerWithProjects(cfg Config, rec Recorder, projects []*Project) (*Scheduler, error) {
	if len(projects) == 0 {
		return nil, fmt.Errorf("scheduler: empty project pool")
	}
	return newScheduler(cfg, rec, projects)
}

func newScheduler(cfg Config, rec Recorder, projects []*Project) (*Scheduler, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	rng := rand.New(rand.NewSource(cfg.Seed))
	if projects == nil {
		projects = spawnProjects(cfg, rng)
	}

	s := &Scheduler{
		cfg:      cfg,
		rng:      rng,
		projects: projects,
		ledger:   NewPenaltyLedger(cfg.Penalty),
		shock:    NewShockController(cfg.Shock),
		adoption: NewAdoptionEvaluator(cfg.Adoption, cfg.NEndUsers, rng),
		recorder: rec,
		metrics:  NewMetricTracker(),
	}
	for range s.projects {
		s.metrics.OnAttempt()
	}
	return s, nil
}

// spawnProjects draws the initial project pool from the run RNG using the
// population configuration.
func spawnProjects(cfg Config, rng *rand.Rand) []*Project {
	pop := cfg.Population
	projects := make([]*Project, cfg.NProjects)
	for i := range projects {
		id := fmt.Sprintf("prj-%03d", i)
		p := &Project{
			ID:      id,
			Stage:   StageFeasibility,
			TRL:     cfg.TRLStart,
			Quality: pop.QualityMin + rng.Float64()*(pop.QualityMax-pop.QualityMin),
			Attrs: Attributes{
				Domain:        pick(rng, pop.Domains),
				OrgType:       pick(rng, pop.OrgTypes),
				Authority:     pick(rng, pop.Authorities),
				FundingSource: pick(rng, pop.FundingSources),
				Kinetic:       rng.Float64() < pop.KineticShare,
				Intel:         rng.Float64() < pop.IntelShare,
			},
			Lineage: Lineage{ProgramID: id},
			Hub:     rng.Float64() < pop.HubShare,
		}
		for _, flag := range cfg.sortedAlignmentFlags() {
			if rng.Float64() < pop.PriorityShare {
				p.Priorities = append(p.Priorities, flag)
			}
		}
		projects[i] = p
	}
	return projects
}

func pick(rng *rand.Rand, values []string) string {
	if len(values) == 0 {
		return ""
	}
	return values[rng.Intn(len(values))]
}

// Run executes the configured number of ticks and returns the run summary.
func (s *Scheduler) Run() Summary {
	for s.tick < s.cfg.Steps {
		s.Step()
	}
	return s.metrics.Summarize()
}

// Step executes one full tick: shock state and ledger decay resolve first so
// every project observes the same context, then every live project acts in a
// fresh random permutation, then per-tick aggregates flush to the metric
// tracker.
func (s *Scheduler) Step() {
	if s.shock.Advance(s.tick) {
		s.metrics.OnShockEntered()
	}
	s.ledger.Decay()
	s.adoptedThisTick = 0

	perm := randomPerm(s.rng, len(s.projects))
	for _, idx := range perm {
		s.stepProject(s.projects[idx])
	}

	s.metrics.RegisterTick(s.adoptedThisTick)
	s.tick++
}

// stepProject runs one project's gate attempt chain for the current tick:
// legal review (cached per stage entry) → funding → contracting → stage
// test, short-circuiting on the first failure. Exactly one stage can advance
// per project per tick.
func (s *Scheduler) stepProject(p *Project) {
	if p.Stage.Terminal() {
		return
	}
	ctx := s.gateContext()

	if p.LegalStatus == "" {
		if !s.legalReview(ctx, p) {
			return
		}
	}

	if !s.attemptGate(ctx, GateFunding, p) {
		return
	}
	if !s.attemptGate(ctx, GateContracting, p) {
		return
	}
	s.attemptStageTest(ctx, p)
}

// legalReview draws and caches the legal outcome for the current stage
// entry. Returns false when the project halts (unfavorable outcome).
func (s *Scheduler) legalReview(ctx GateContext, p *Project) bool {
	mult := ctx.Ledger.Multiplier(ctx.Cfg.axesForGate(GateLegal), p)
	weights := LegalWeights(s.cfg.Legal, p, mult)
	idx := weightedIndex(s.rng, weights)
	outcome := LegalOutcomes[idx]
	p.LegalStatus = outcome

	base := make([]float64, len(LegalOutcomes))
	for i, o := range LegalOutcomes {
		base[i] = s.cfg.Legal.BaseWeights[o]
	}
	normalize(base)

	record(s.recorder, Event{
		Tick:         s.tick,
		ProjectID:    p.ID,
		Gate:         GateLegal,
		Regime:       s.cfg.Regime,
		Stage:        p.Stage,
		Base:         base[idx],
		Multiplier:   mult,
		Final:        weights[idx],
		Passed:       outcome != LegalUnfavorable,
		Legal:        outcome,
		StageLatency: NoLatency,
	})

	if outcome == LegalUnfavorable {
		p.Stage = StageAbandoned
		s.metrics.OnAbandoned()
		return false
	}
	return true
}

// attemptGate draws one probabilistic gate. The chain stops on failure;
// skipped downstream gates are neither evaluated nor recorded.
func (s *Scheduler) attemptGate(ctx GateContext, gate Gate, p *Project) bool {
	res := EvaluateGate(ctx, gate, p)
	passed := s.rng.Float64() < res.Final
	record(s.recorder, gateEvent(s.tick, s.cfg.Regime, p, res, passed, NoLatency))
	return passed
}

// attemptStageTest draws the stage test gate. Success raises TRL and either
// advances the stage or, on the final test stage, hands the project to the
// adoption vote within the same tick. Failure bumps the ledger on every axis
// configured for the test gate.
func (s *Scheduler) attemptStageTest(ctx GateContext, p *Project) {
	res := EvaluateGate(ctx, GateTest, p)
	passed := s.rng.Float64() < res.Final

	latency := NoLatency
	if passed {
		latency = s.tick - p.StageEnteredTick
	}
	record(s.recorder, gateEvent(s.tick, s.cfg.Regime, p, res, passed, latency))

	if !passed {
		s.ledger.BumpProject(s.cfg.axesForGate(GateTest), p)
		return
	}

	p.raiseTRL(s.cfg.TRLDelta, s.cfg.TRLMax)
	if next, ok := p.Stage.Next(); ok {
		p.advanceStage(next, s.tick)
		return
	}
	// Final test stage cleared: the adoption vote decides the transition.
	s.evaluateAdoption(ctx, p)
}

// evaluateAdoption runs the end-user vote for a project that just cleared
// the final test stage. A majority adopts; a rejection returns the project
// to operational_test with an adoption-axis ledger bump and a quality
// improvement. TRL is untouched.
func (s *Scheduler) evaluateAdoption(ctx GateContext, p *Project) {
	decision := s.adoption.Decide(s.rng, ctx, p)

	latency := NoLatency
	if decision.Adopted {
		latency = s.tick - p.StageEnteredTick
	}
	record(s.recorder, Event{
		Tick:         s.tick,
		ProjectID:    p.ID,
		Gate:         GateAdoption,
		Regime:       s.cfg.Regime,
		Stage:        p.Stage,
		Base:         s.cfg.Adoption.Threshold,
		Modifiers:    decision.Signal,
		Multiplier:   1,
		Final:        float64(decision.Votes) / float64(decision.SampleSize),
		Passed:       decision.Adopted,
		StageLatency: latency,
	})

	if !decision.Adopted {
		s.ledger.BumpProject(s.cfg.axesForGate(GateAdoption), p)
		p.improveQuality(s.cfg.LearningRate, s.rng.Float64())
		return
	}

	p.Stage = StageAdopted
	s.metrics.OnTransition(s.tick - p.AttemptTick)
	s.adoptedThisTick++
}

func (s *Scheduler) gateContext() GateContext {
	return GateContext{
		Cfg:    &s.cfg,
		Ledger: s.ledger,
		Shock:  s.shock,
		Tick:   s.tick,
	}
}

// Tick returns the next tick to execute (the number of completed ticks).
func (s *Scheduler) Tick() int { return s.tick }

// Projects returns the run's project pool.
func (s *Scheduler) Projects() []*Project { return s.projects }

// Ledger returns the run's penalty ledger.
func (s *Scheduler) Ledger() *PenaltyLedger { return s.ledger }

// Shock returns the run's shock controller.
func (s *Scheduler) Shock() *ShockController { return s.shock }

// Metrics returns the run's metric tracker.
func (s *Scheduler) Metrics() *MetricTracker { return s.metrics }

// Config returns the run configuration.
func (s *Scheduler) Config() Config { return s.cfg }
