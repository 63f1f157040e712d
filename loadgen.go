package sistosched

import (
	"fmt"
	"math"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
)

// constants characterizing the generated workload
const (
	AVG_BURST     = 5
	STD_DEV_BURST = 3
	MIN_BURST     = 1
	MAX_BURST     = 20

	AVG_ARRIVAL_GAP = 2 // mean cycles between two arrivals (poisson)

	MAX_PRIORITY = 10

	MIN_COUNTER = 1
	MAX_COUNTER = 3

	ACTIONS_PER_PROC = 3
	FRACTION_WRITES  = 0.4
)

// LoadGen produces random but reproducible simulation input.
type LoadGen struct {
	burst distuv.Normal
	gap   distuv.Poisson
	unif  distuv.Uniform
}

func NewLoadGen(seed uint64) *LoadGen {
	src := rand.NewSource(seed)
	return &LoadGen{
		burst: distuv.Normal{Mu: AVG_BURST, Sigma: STD_DEV_BURST, Src: src},
		gap:   distuv.Poisson{Lambda: AVG_ARRIVAL_GAP, Src: src},
		unif:  distuv.Uniform{Min: 0, Max: 1, Src: src},
	}
}

// uniform int in [lo, hi]
func (lg *LoadGen) intn(lo, hi int) int {
	return clamp(lo+int(math.Floor(lg.unif.Rand()*float64(hi-lo+1))), lo, hi)
}

// GenProcesses makes n processes named P1..Pn with increasing arrival times.
func (lg *LoadGen) GenProcesses(n int) []Process {
	procs := make([]Process, n)
	at := 0
	for i := 0; i < n; i++ {
		if i > 0 {
			at += int(lg.gap.Rand())
		}
		bt := clamp(int(math.Round(lg.burst.Rand())), MIN_BURST, MAX_BURST)
		procs[i] = Process{
			PID:      fmt.Sprintf("P%d", i+1),
			BT:       bt,
			AT:       at,
			Priority: lg.intn(0, MAX_PRIORITY),
		}
	}
	return procs
}

// GenResources makes n resources named R1..Rn.
func (lg *LoadGen) GenResources(n int) []Resource {
	res := make([]Resource, n)
	for i := 0; i < n; i++ {
		res[i] = Resource{
			Name:    fmt.Sprintf("R%d", i+1),
			Counter: lg.intn(MIN_COUNTER, MAX_COUNTER),
		}
	}
	return res
}

// GenActions spreads ACTIONS_PER_PROC actions per process over the cycles in which it
// could be running, each against a random resource.
func (lg *LoadGen) GenActions(procs []Process, resources []Resource) []Action {
	if len(resources) == 0 {
		return []Action{}
	}
	horizon := 0
	for _, p := range procs {
		horizon = max(horizon, p.AT+p.BT)
	}
	actions := make([]Action, 0, len(procs)*ACTIONS_PER_PROC)
	for _, p := range procs {
		for j := 0; j < ACTIONS_PER_PROC; j++ {
			kind := Read
			if lg.unif.Rand() < FRACTION_WRITES {
				kind = Write
			}
			actions = append(actions, Action{
				PID:      p.PID,
				Kind:     kind,
				Resource: resources[lg.intn(0, len(resources)-1)].Name,
				Cycle:    lg.intn(p.AT, max(p.AT, horizon-1)),
			})
		}
	}
	return actions
}
