package sistosched

import (
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/markphelps/optional"
)

// ------------------------------------------------------------------------------------------------
// SCHEDULING
// ------------------------------------------------------------------------------------------------

// Run is one finished scheduling simulation. Runs never share state.
type Run struct {
	ID        string
	Algorithm Algorithm
	Quantum   optional.Int
	Events    []Event
	MaxCycle  int
	Metrics   Metrics
}

func (r *Run) String() string {
	str := fmt.Sprintf("%s run %s: %d events up to cycle %d, avg WT %.2f, avg TA %.2f",
		r.Algorithm, r.ID[:8], len(r.Events), r.MaxCycle, r.Metrics.AvgWaiting, r.Metrics.AvgTurnaround)
	if q, err := r.Quantum.Get(); err == nil && r.Algorithm.NeedsQuantum() {
		str += fmt.Sprintf(" (quantum %d)", q)
	}
	return str
}

// RunSchedule is Schedule plus the metrics of the resulting timeline.
func RunSchedule(processes []Process, alg Algorithm, quantum optional.Int) (*Run, error) {
	events, maxCycle, err := Schedule(processes, alg, quantum)
	if err != nil {
		return nil, err
	}
	return &Run{
		ID:        uuid.NewString(),
		Algorithm: alg,
		Quantum:   quantum,
		Events:    events,
		MaxCycle:  maxCycle,
		Metrics:   ComputeMetrics(events, processes),
	}, nil
}

// SchedSim holds a loaded process list and the last run configured over it.
type SchedSim struct {
	Processes []Process
	log       *slog.Logger
	last      *Run
}

func NewSchedSim(processes []Process, logger *slog.Logger) *SchedSim {
	if logger == nil {
		logger = discardLogger()
	}
	return &SchedSim{
		Processes: processes,
		log:       logger,
	}
}

// Configure runs alg over the loaded processes. On error the previous run is kept.
func (s *SchedSim) Configure(alg Algorithm, quantum optional.Int) (*Run, error) {
	run, err := RunSchedule(s.Processes, alg, quantum)
	if err != nil {
		s.log.Warn("scheduling not configured", slog.String("algorithm", alg.String()), ErrAttr(err))
		return nil, err
	}
	s.last = run
	if VERBOSE_SIM {
		s.log.Debug("scheduling configured",
			slog.String("run", run.ID),
			slog.String("algorithm", alg.String()),
			slog.Int("processes", len(s.Processes)),
			slog.Int("events", len(run.Events)),
			slog.Int("max_cycle", run.MaxCycle),
		)
	}
	return run, nil
}

func (s *SchedSim) Last() (*Run, bool) {
	return s.last, s.last != nil
}

func (s *SchedSim) Events() []Event {
	if s.last == nil {
		return []Event{}
	}
	return s.last.Events
}

func (s *SchedSim) MaxCycle() int {
	if s.last == nil {
		return 0
	}
	return s.last.MaxCycle
}

func (s *SchedSim) Metrics() Metrics {
	return ComputeMetrics(s.Events(), s.Processes)
}

// Engine builds a replay of the current timeline.
func (s *SchedSim) Engine(onCycle CycleFunc[Event]) *Engine[Event] {
	return NewEngine(s.Events(), s.MaxCycle(), onCycle)
}

func (s *SchedSim) Reset() {
	if VERBOSE_SIM && s.last != nil {
		s.log.Debug("scheduling reset", slog.String("run", s.last.ID))
	}
	s.last = nil
}

// ------------------------------------------------------------------------------------------------
// SYNCHRONIZATION
// ------------------------------------------------------------------------------------------------

type SyncRun struct {
	ID       string
	Mode     Mode
	Events   []ActionEvent
	MaxCycle int
	Summary  SyncSummary
}

func (r *SyncRun) String() string {
	return fmt.Sprintf("%s run %s: %d accesses, %d waits up to cycle %d",
		r.Mode, r.ID[:8], r.Summary.Accessed, r.Summary.Waiting, r.MaxCycle)
}

func RunSynchronization(resources []Resource, actions []Action, mode Mode) *SyncRun {
	events, maxCycle := Synchronize(resources, actions, mode)
	return &SyncRun{
		ID:       uuid.NewString(),
		Mode:     mode,
		Events:   events,
		MaxCycle: maxCycle,
		Summary:  Summarize(events),
	}
}

// SyncSim holds the loaded synchronization input and the last run configured over it.
type SyncSim struct {
	Processes []Process
	Resources []Resource
	Actions   []Action
	log       *slog.Logger
	last      *SyncRun
}

func NewSyncSim(processes []Process, resources []Resource, actions []Action, logger *slog.Logger) *SyncSim {
	if logger == nil {
		logger = discardLogger()
	}
	return &SyncSim{
		Processes: processes,
		Resources: resources,
		Actions:   actions,
		log:       logger,
	}
}

// Configure takes the mode by name so bad names are rejected before anything runs.
func (s *SyncSim) Configure(mode string) (*SyncRun, error) {
	m, err := ParseMode(mode)
	if err != nil {
		s.log.Warn("synchronization not configured", slog.String("mode", mode), ErrAttr(err))
		return nil, err
	}
	return s.ConfigureMode(m), nil
}

func (s *SyncSim) ConfigureMode(mode Mode) *SyncRun {
	run := RunSynchronization(s.Resources, s.Actions, mode)
	s.last = run
	if VERBOSE_SIM {
		s.log.Debug("synchronization configured",
			slog.String("run", run.ID),
			slog.String("mode", mode.String()),
			slog.Int("actions", len(s.Actions)),
			slog.Int("accessed", run.Summary.Accessed),
			slog.Int("waiting", run.Summary.Waiting),
		)
	}
	return run
}

func (s *SyncSim) Events() []ActionEvent {
	if s.last == nil {
		return []ActionEvent{}
	}
	return s.last.Events
}

func (s *SyncSim) MaxCycle() int {
	if s.last == nil {
		return 0
	}
	return s.last.MaxCycle
}

func (s *SyncSim) Summary() SyncSummary {
	return Summarize(s.Events())
}

func (s *SyncSim) Engine(onCycle CycleFunc[ActionEvent]) *Engine[ActionEvent] {
	return NewEngine(s.Events(), s.MaxCycle(), onCycle)
}

func (s *SyncSim) Reset() {
	if VERBOSE_SIM && s.last != nil {
		s.log.Debug("synchronization reset", slog.String("run", s.last.ID))
	}
	s.last = nil
}
