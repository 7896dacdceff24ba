// internal/qlearning/qlearning.go
// Component 5: the Q-learning controller. Owns the Q-table (the only state
// that survives across episodes) and drives the three training phases —
// Benchmark, Training, Optimal — each rebuilding a fresh
// internal/engine.Engine and internal/schedule.Schedule per episode.
//
// Grounded on the teacher's internal/services layer: Controller plays the
// same "owns collaborators, exposes phase-shaped verbs" role MatchService
// plays there, just for an offline training loop instead of request
// handling.
package qlearning

import (
	"math"
	"math/rand"

	"fllc-scheduler/internal/engine"
	"fllc-scheduler/internal/models"
	"fllc-scheduler/internal/reward"
	"fllc-scheduler/internal/schedule"
)

// Params holds the learning hyperparameters.
type Params struct {
	Alpha          float64
	Gamma          float64
	EpsilonStart   float64
	EpsilonEnd     float64
	EpsilonDecay   float64
	Episodes       int
	BenchmarkRuns  int
}

// DefaultParams returns the tuning this controller ships with out of the box.
func DefaultParams() Params {
	return Params{
		Alpha:         0.20,
		Gamma:         0.80,
		EpsilonStart:  1.00,
		EpsilonEnd:    0.01,
		EpsilonDecay:  0.995,
		Episodes:      2000,
		BenchmarkRuns: 10,
	}
}

// Phase names the three training phases, used on EpisodeMetrics and in
// exported CSVs.
type Phase string

const (
	PhaseBenchmark Phase = "benchmark"
	PhaseTraining  Phase = "training"
	PhaseOptimal   Phase = "optimal"
)

// EpisodeMetrics is what the controller exposes per episode for the host's
// live-notification and CSV export layers.
type EpisodeMetrics struct {
	Phase              Phase
	Episode            int
	CumulativeReward   float64
	RunningAvgReward   float64
	DeltaRewardProxy   float64
	RunningMeanDelta   float64
	Epsilon            float64
	ExploreCount       int
	ExploitCount       int
	QTableSize         int
	BookingsMade       int
}

// Controller runs the three phases against one (ScheduleConfig, TimeConfig)
// pair, persisting the Q-table across every episode it drives.
type Controller struct {
	cfg     models.ScheduleConfig
	tc      models.TimeConfig
	params  Params
	weights reward.Weights
	rng     *rand.Rand

	q       qTable
	epsilon float64

	history    map[Phase][]float64 // cumulative reward per episode, per phase
	lastStatic []*engine.Slot      // static slot list from the most recently run episode
}

// NewController constructs a controller with a fresh, empty Q-table. seed
// makes every random choice (benchmark popping/selection, epsilon-greedy
// exploration, and tie-breaking) reproducible across runs.
func NewController(cfg models.ScheduleConfig, tc models.TimeConfig, params Params, weights reward.Weights, seed int64) *Controller {
	return &Controller{
		cfg:     cfg,
		tc:      tc,
		params:  params,
		weights: weights,
		rng:     rand.New(rand.NewSource(seed)),
		q:       newQTable(),
		epsilon: params.EpsilonStart,
	}
}

// Epsilon exposes the controller's current exploration rate.
func (c *Controller) Epsilon() float64 { return c.epsilon }

// QTableSize exposes the current number of recorded (state, team) entries.
func (c *Controller) QTableSize() int { return c.q.size() }

// LastStaticSlots exposes the static slot list (with each cell's final
// TeamID) from the most recently completed episode — the shape
// internal/evaluator.Evaluate and internal/exporter.WriteSchedule both
// need, which only internal/engine.Engine tracks.
func (c *Controller) LastStaticSlots() []*engine.Slot { return c.lastStatic }

// Entries exports every recorded Q-table row, for internal/exporter.
func (c *Controller) Entries() []Entry {
	out := make([]Entry, 0, c.q.size())
	for key, byTeam := range c.q {
		for team, v := range byTeam {
			out = append(out, Entry{Slot: key, TeamID: team, QValue: v})
		}
	}
	return out
}

// RunBenchmark plays BenchmarkRuns independent episodes that ignore the
// Q-table entirely: both slot popping and action selection are uniform
// random, establishing the no-learning baseline training is measured
// against.
func (c *Controller) RunBenchmark() ([]*schedule.Schedule, []EpisodeMetrics) {
	scheds := make([]*schedule.Schedule, 0, c.params.BenchmarkRuns)
	metrics := make([]EpisodeMetrics, 0, c.params.BenchmarkRuns)
	for i := 1; i <= c.params.BenchmarkRuns; i++ {
		sched, m := c.runEpisode(PhaseBenchmark, i)
		scheds = append(scheds, sched)
		metrics = append(metrics, m)
	}
	return scheds, metrics
}

// TrainEpisode runs one ε-greedy training episode (episode index i, 1-based
// for display), updates the Q-table throughout, and decays ε at the end.
func (c *Controller) TrainEpisode(i int) (*schedule.Schedule, EpisodeMetrics) {
	sched, m := c.runEpisode(PhaseTraining, i)
	c.epsilon = math.Max(c.params.EpsilonEnd, c.epsilon*c.params.EpsilonDecay)
	return sched, m
}

// GenerateOptimal runs one final, purely greedy pass — popping in order,
// always choosing argmax Q, with no further Q-table update — producing the
// deliverable schedule.
func (c *Controller) GenerateOptimal() (*schedule.Schedule, EpisodeMetrics) {
	return c.runEpisode(PhaseOptimal, 1)
}

// runEpisode is the shared episode loop: rebuild a fresh Engine+Schedule,
// repeatedly pop a slot, filter to legal actions, select one per the phase's
// policy, commit it, score it, and (training only) fold the result back
// into the Q-table. Loop terminates when the queue is empty or both pools
// are exhausted.
func (c *Controller) runEpisode(phase Phase, episodeNum int) (*schedule.Schedule, EpisodeMetrics) {
	teamIDs := make([]int, c.cfg.NumTeams)
	for i := range teamIDs {
		teamIDs[i] = i + 1
	}
	sched := schedule.New(teamIDs)

	eng, err := engine.Build(c.cfg, c.tc, sched)
	if err != nil {
		// A misconfigured ScheduleConfig/TimeConfig should have been caught
		// at run-creation time; surface an empty, zero-metric episode rather
		// than panicking mid-training.
		return sched, EpisodeMetrics{Phase: phase, Episode: episodeNum}
	}

	maxRounds := c.cfg.Rounds.Total()
	denom := completionDenominator(c.cfg, eng)

	var cumulative float64
	var explore, exploit, booked int

	for eng.Remaining() > 0 && !eng.PoolsExhausted() {
		var slot *engine.Slot
		var ok bool
		if phase == PhaseBenchmark {
			slot, ok = eng.PopRandom(c.rng)
		} else {
			slot, ok = eng.PopFront()
		}
		if !ok {
			break
		}

		actions := eng.Actions(slot)
		if len(actions) == 0 {
			continue
		}

		var chosen int
		switch phase {
		case PhaseBenchmark:
			chosen = actions[c.rng.Intn(len(actions))]
			explore++
		case PhaseOptimal:
			chosen = c.argmax(slot, actions, 0)
			exploit++
		default: // PhaseTraining
			if c.rng.Float64() < c.epsilon {
				chosen = actions[c.rng.Intn(len(actions))]
				explore++
			} else {
				chosen = c.argmax(slot, actions, 0)
				exploit++
			}
		}

		if err := eng.Commit(slot, chosen); err != nil {
			continue
		}
		booked++

		team := sched.Team(chosen)
		completion := float64(booked) / float64(denom)
		r := reward.ApplyCompletion(reward.Calculate(team, slot.TimeSlot, maxRounds, c.weights), completion)
		cumulative += r

		if phase == PhaseTraining {
			c.updateQ(slot, chosen, r, eng)
		}
	}

	c.lastStatic = eng.StaticSlots()

	m := c.recordMetrics(phase, episodeNum, cumulative, explore, exploit, booked)
	return sched, m
}

// completionDenominator is the total Practice+Table bookings a fully
// scheduled tournament requires: every team, times its per-team round
// counts. This is a team requirement, not a count of grid cells — the
// time grid can carry more physical Practice/Table cells than teams
// strictly need (rounding up to fit a duration), so counting cells would
// understate how "done" a fully-booked episode actually is.
func completionDenominator(cfg models.ScheduleConfig, eng *engine.Engine) int {
	denom := cfg.NumTeams * (eng.RequiredFor(models.Practice) + eng.RequiredFor(models.Table))
	if denom < 1 {
		return 1
	}
	return denom
}

// updateQ applies the controller's Q-learning update rule. An unseen
// (state, action) pair defaults to 10 when bootstrapping off a non-terminal
// next state (both the current Q[(s,a)] and the max_{a'} Q[(s',a')] term),
// and to 0 when s has no successor at all — an optimistic prior that nudges
// early exploration toward untried bookings instead of toward whichever
// booking happened to be tried first.
func (c *Controller) updateQ(s *engine.Slot, team int, r float64, eng *engine.Engine) {
	key := stateKeyFor(s)

	hasNext := eng.Remaining() > 0 && !eng.PoolsExhausted()
	if !hasNext {
		current := c.q.get(key, team, 0)
		c.q.set(key, team, (1-c.params.Alpha)*current+c.params.Alpha*r)
		return
	}

	current := c.q.get(key, team, 10)

	maxNext := 10.0
	if nextSlot, peeked := eng.PeekFront(); peeked {
		nextActions := eng.Actions(nextSlot)
		if len(nextActions) > 0 {
			nextKey := stateKeyFor(nextSlot)
			maxNext = math.Inf(-1)
			for _, a := range nextActions {
				if v := c.q.get(nextKey, a, 10); v > maxNext {
					maxNext = v
				}
			}
		}
	}

	target := r + c.params.Gamma*maxNext
	c.q.set(key, team, (1-c.params.Alpha)*current+c.params.Alpha*target)
}

// argmax picks the highest-Q action among actions for slot s, breaking ties
// uniformly at random, with unseen pairs defaulted to def.
func (c *Controller) argmax(s *engine.Slot, actions []int, def float64) int {
	key := stateKeyFor(s)
	best := math.Inf(-1)
	var bestTeams []int
	for _, a := range actions {
		v := c.q.get(key, a, def)
		switch {
		case v > best:
			best = v
			bestTeams = []int{a}
		case v == best:
			bestTeams = append(bestTeams, a)
		}
	}
	if len(bestTeams) == 0 {
		return actions[0]
	}
	return bestTeams[c.rng.Intn(len(bestTeams))]
}

func (c *Controller) recordMetrics(phase Phase, episode int, cumulative float64, explore, exploit, booked int) EpisodeMetrics {
	if c.history == nil {
		c.history = make(map[Phase][]float64)
	}
	hist := append(c.history[phase], cumulative)
	c.history[phase] = hist

	sum := 0.0
	for _, v := range hist {
		sum += v
	}
	runningAvg := sum / float64(len(hist))

	delta := 0.0
	if len(hist) > 1 {
		delta = math.Abs(hist[len(hist)-1] - hist[len(hist)-2])
	}

	deltaSum := 0.0
	deltaCount := 0
	for i := 1; i < len(hist); i++ {
		deltaSum += math.Abs(hist[i] - hist[i-1])
		deltaCount++
	}
	runningMeanDelta := 0.0
	if deltaCount > 0 {
		runningMeanDelta = deltaSum / float64(deltaCount)
	}

	return EpisodeMetrics{
		Phase:            phase,
		Episode:          episode,
		CumulativeReward: cumulative,
		RunningAvgReward: runningAvg,
		DeltaRewardProxy: delta,
		RunningMeanDelta: runningMeanDelta,
		Epsilon:          c.epsilon,
		ExploreCount:     explore,
		ExploitCount:     exploit,
		QTableSize:       c.q.size(),
		BookingsMade:     booked,
	}
}
