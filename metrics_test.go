package sistosched

import (
	"math"
	"reflect"
	"testing"

	"github.com/markphelps/optional"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestComputeMetricsSingleSlice(t *testing.T) {
	m := ComputeMetrics([]Event{{"P1", 2, 5}}, []Process{{PID: "P1", BT: 3, AT: 1, Priority: 1}})
	pm, ok := m.For("P1")
	if !ok {
		t.Fatal("no metrics for P1")
	}
	if pm.Turnaround != 4 || pm.Waiting != 1 {
		t.Errorf("P1 = %v, want TA 4 and WT 1", pm)
	}
	if pm.Response != 1 || pm.Finish != 5 || pm.Slices != 1 {
		t.Errorf("P1 response %d, finish %d, slices %d, want 1, 5, 1", pm.Response, pm.Finish, pm.Slices)
	}
	if !almostEqual(m.AvgWaiting, 1) || !almostEqual(m.AvgTurnaround, 4) {
		t.Errorf("averages = %v / %v, want 1 / 4", m.AvgWaiting, m.AvgTurnaround)
	}
	if m.Makespan != 5 || m.Busy != 3 || m.Idle != 2 {
		t.Errorf("makespan %d, busy %d, idle %d, want 5, 3, 2", m.Makespan, m.Busy, m.Idle)
	}
}

func TestComputeMetricsTable(t *testing.T) {
	tests := []struct {
		name      string
		events    []Event
		procs     []Process
		want      map[string][2]int // pid -> {waiting, turnaround}
		wantAvgWT float64
		wantAvgTA float64
		wantSw    int
	}{
		{
			name:   "fifo",
			events: []Event{{"P1", 0, 3}, {"P2", 3, 9}, {"P3", 9, 13}},
			procs:  simpleProcesses(),
			want: map[string][2]int{
				"P1": {0, 3},
				"P2": {1, 7},
				"P3": {5, 9},
			},
			wantAvgWT: 2,
			wantAvgTA: 19.0 / 3,
			wantSw:    2,
		},
		{
			name:   "round robin with several slices",
			events: []Event{{"P1", 0, 1}, {"P1", 1, 2}, {"P2", 2, 3}, {"P1", 3, 4}},
			procs:  []Process{{PID: "P1", AT: 0, BT: 3}, {PID: "P2", AT: 2, BT: 1}},
			want: map[string][2]int{
				"P1": {1, 4},
				"P2": {0, 1},
			},
			wantAvgWT: 0.5,
			wantAvgTA: 2.5,
			wantSw:    2,
		},
		{
			name:   "process without events counts as zero",
			events: []Event{{"A", 0, 2}},
			procs:  []Process{{PID: "A", AT: 0, BT: 2}, {PID: "B", AT: 0, BT: 3}},
			want: map[string][2]int{
				"A": {0, 2},
				"B": {0, 0},
			},
			wantAvgWT: 0,
			wantAvgTA: 1,
			wantSw:    0,
		},
		{
			name:      "no processes",
			events:    []Event{},
			procs:     []Process{},
			want:      map[string][2]int{},
			wantAvgWT: 0,
			wantAvgTA: 0,
			wantSw:    0,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := ComputeMetrics(tt.events, tt.procs)
			got := make(map[string][2]int)
			for pid, pm := range m.PerProcess {
				got[pid] = [2]int{pm.Waiting, pm.Turnaround}
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("per process = %v, want %v", got, tt.want)
			}
			if !almostEqual(m.AvgWaiting, tt.wantAvgWT) || !almostEqual(m.AvgTurnaround, tt.wantAvgTA) {
				t.Errorf("averages = %v / %v, want %v / %v", m.AvgWaiting, m.AvgTurnaround, tt.wantAvgWT, tt.wantAvgTA)
			}
			if m.ContextSwitches != tt.wantSw {
				t.Errorf("context switches = %d, want %d", m.ContextSwitches, tt.wantSw)
			}
			if len(m.Order) != len(tt.procs) {
				t.Errorf("order = %v, want %d pids", m.Order, len(tt.procs))
			}
		})
	}
}

func TestMetricsUtilization(t *testing.T) {
	m := ComputeMetrics([]Event{{"X", 5, 7}}, []Process{{PID: "X", AT: 5, BT: 2}})
	if m.Makespan != 7 || m.Busy != 2 || m.Idle != 5 {
		t.Errorf("makespan %d, busy %d, idle %d, want 7, 2, 5", m.Makespan, m.Busy, m.Idle)
	}
	if !almostEqual(m.Utilization, 2.0/7) {
		t.Errorf("utilization = %v, want %v", m.Utilization, 2.0/7)
	}
	if !almostEqual(m.Throughput, 1.0/7) {
		t.Errorf("throughput = %v, want %v", m.Throughput, 1.0/7)
	}
}

// waiting + burst == turnaround for every process of a complete timeline
func TestMetricsIdentity(t *testing.T) {
	procs := NewLoadGen(5).GenProcesses(12)
	for _, alg := range []Algorithm{AlgFIFO, AlgSJF, AlgSRT, AlgPriority} {
		run, err := RunSchedule(procs, alg, optional.Int{})
		if err != nil {
			t.Fatalf("RunSchedule(%v) error = %v", alg, err)
		}
		for _, p := range procs {
			pm, _ := run.Metrics.For(p.PID)
			if pm.Waiting+p.BT != pm.Turnaround {
				t.Errorf("%v: %s WT %d + BT %d != TA %d", alg, p.PID, pm.Waiting, p.BT, pm.Turnaround)
			}
			if pm.Waiting < 0 || pm.Response < 0 || pm.Response > pm.Waiting {
				t.Errorf("%v: %s has WT %d and response %d", alg, p.PID, pm.Waiting, pm.Response)
			}
		}
		if !almostEqual(run.Metrics.Utilization, float64(run.Metrics.Busy)/float64(run.Metrics.Makespan)) {
			t.Errorf("%v: utilization %v inconsistent", alg, run.Metrics.Utilization)
		}
	}
}
