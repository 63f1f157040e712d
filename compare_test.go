package sistosched

import (
	"context"
	"errors"
	"testing"

	"github.com/markphelps/optional"
)

func TestCompare(t *testing.T) {
	procs := simpleProcesses()
	runs, err := Compare(context.Background(), procs, Algorithms, optional.NewInt(2))
	if err != nil {
		t.Fatalf("Compare() error = %v", err)
	}
	if len(runs) != len(Algorithms) {
		t.Fatalf("got %d runs, want %d", len(runs), len(Algorithms))
	}
	for i, run := range runs {
		if run.Algorithm != Algorithms[i] {
			t.Errorf("run %d is %v, want %v", i, run.Algorithm, Algorithms[i])
		}
		checkTimeline(t, run.Algorithm, procs, run.Events)
	}

	// runs do not share timelines
	runs[0].Events[0].End = 99
	if runs[1].Events[0].End == 99 {
		t.Error("runs share their events")
	}
}

func TestCompareRejectsBadConfig(t *testing.T) {
	tests := []struct {
		name    string
		algs    []Algorithm
		quantum optional.Int
		wantErr error
	}{
		{name: "missing quantum", algs: []Algorithm{AlgFIFO, AlgRoundRobin}, quantum: optional.Int{}, wantErr: ErrInvalidQuantum},
		{name: "zero quantum", algs: []Algorithm{AlgRoundRobin}, quantum: optional.NewInt(0), wantErr: ErrInvalidQuantum},
		{name: "unknown algorithm", algs: []Algorithm{AlgSJF, Algorithm(9)}, quantum: optional.NewInt(1), wantErr: ErrUnknownAlgorithm},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runs, err := Compare(context.Background(), simpleProcesses(), tt.algs, tt.quantum)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Compare() error = %v, want %v", err, tt.wantErr)
			}
			if runs != nil {
				t.Errorf("Compare() returned runs on error")
			}
		})
	}
}

func TestCompareCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Compare(ctx, simpleProcesses(), Algorithms, optional.NewInt(2)); !errors.Is(err, context.Canceled) {
		t.Errorf("Compare() error = %v, want context.Canceled", err)
	}
}

func TestBest(t *testing.T) {
	if Best(nil) != nil {
		t.Error("Best(nil) != nil")
	}
	runs := []*Run{
		{Algorithm: AlgFIFO, Metrics: Metrics{AvgWaiting: 3}},
		{Algorithm: AlgSJF, Metrics: Metrics{AvgWaiting: 1.5}},
		{Algorithm: AlgSRT, Metrics: Metrics{AvgWaiting: 1.5}},
	}
	if got := Best(runs); got.Algorithm != AlgSJF {
		t.Errorf("Best() = %v, want SJF", got.Algorithm)
	}
}
