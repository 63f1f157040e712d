package render

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/olekukonko/tablewriter"

	sim "github.com/Hayser8/SistosSheduling"
)

// MetricsTable prints the per-process metrics of one run with the averages as footer.
func (p *Printer) MetricsTable(m sim.Metrics, processes []sim.Process) {
	table := tablewriter.NewWriter(p.w)
	table.SetHeader([]string{"PID", "Arrival", "Burst", "Priority", "Finish", "Response", "Wait", "Turnaround"})
	table.SetAlignment(tablewriter.ALIGN_RIGHT)

	rows := make([][]string, 0, len(processes))
	for _, proc := range processes {
		pm, _ := m.For(proc.PID)
		rows = append(rows, []string{
			proc.PID,
			strconv.Itoa(proc.AT),
			strconv.Itoa(proc.BT),
			strconv.Itoa(proc.Priority),
			strconv.Itoa(pm.Finish),
			strconv.Itoa(pm.Response),
			strconv.Itoa(pm.Waiting),
			strconv.Itoa(pm.Turnaround),
		})
	}
	table.AppendBulk(rows)
	table.SetFooter([]string{"", "", "", "", "",
		fmt.Sprintf("Average\n%.2f", m.AvgResponse),
		fmt.Sprintf("Average\n%.2f", m.AvgWaiting),
		fmt.Sprintf("Average\n%.2f", m.AvgTurnaround)})
	table.Render()

	p.Field("Makespan", m.Makespan)
	p.Field("CPU utilization", fmt.Sprintf("%.1f%% (%d busy, %d idle)", 100*m.Utilization, m.Busy, m.Idle))
	p.Field("Context switches", m.ContextSwitches)
	p.Field("Throughput", fmt.Sprintf("%.3f/cycle", m.Throughput))
}

// CompareTable prints one row per run; the run with the lowest average wait is starred.
func (p *Printer) CompareTable(runs []*sim.Run) {
	best := sim.Best(runs)
	table := tablewriter.NewWriter(p.w)
	table.SetHeader([]string{"Algorithm", "Avg Wait", "StdDev Wait", "Avg Turnaround", "Avg Response", "Makespan", "Util", "Switches"})
	table.SetAlignment(tablewriter.ALIGN_RIGHT)
	for _, r := range runs {
		name := r.Algorithm.String()
		if q, err := r.Quantum.Get(); err == nil && r.Algorithm.NeedsQuantum() {
			name += fmt.Sprintf(" (q=%d)", q)
		}
		if r == best {
			name += " *"
		}
		table.Append([]string{
			name,
			fmt.Sprintf("%.2f", r.Metrics.AvgWaiting),
			fmt.Sprintf("%.2f", r.Metrics.StdDevWaiting),
			fmt.Sprintf("%.2f", r.Metrics.AvgTurnaround),
			fmt.Sprintf("%.2f", r.Metrics.AvgResponse),
			strconv.Itoa(r.Metrics.Makespan),
			fmt.Sprintf("%.0f%%", 100*r.Metrics.Utilization),
			strconv.Itoa(r.Metrics.ContextSwitches),
		})
	}
	table.Render()
}

// SyncTable prints access and wait counts per resource for one synchronization run.
func (p *Printer) SyncTable(run *sim.SyncRun) {
	names := make([]string, 0, len(run.Summary.ByResource))
	for name := range run.Summary.ByResource {
		names = append(names, name)
	}
	sort.Strings(names)

	table := tablewriter.NewWriter(p.w)
	table.SetHeader([]string{"Resource", "Accessed", "Waiting"})
	table.SetAlignment(tablewriter.ALIGN_RIGHT)
	for _, name := range names {
		rs := run.Summary.ByResource[name]
		table.Append([]string{name, strconv.Itoa(rs.Accessed), strconv.Itoa(rs.Waiting)})
	}
	table.SetFooter([]string{"Total", strconv.Itoa(run.Summary.Accessed), strconv.Itoa(run.Summary.Waiting)})
	table.Render()
	p.Field("Avg waits per cycle", fmt.Sprintf("%.2f", run.Summary.AvgWaitingPerCycle))
}
