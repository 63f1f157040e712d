package loader

import (
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strconv"

	sim "github.com/Hayser8/SistosSheduling"
)

// default file names inside a data directory
const (
	PROCESSES_FILE = "procesos.txt"
	RESOURCES_FILE = "recursos.txt"
	ACTIONS_FILE   = "acciones.txt"
)

func writeRows(w io.Writer, header string, rows [][]string) error {
	if header != "" {
		if _, err := io.WriteString(w, "# "+header+"\n"); err != nil {
			return err
		}
	}
	cw := csv.NewWriter(w)
	if err := cw.WriteAll(rows); err != nil {
		return err
	}
	cw.Flush()
	return cw.Error()
}

func WriteProcesses(w io.Writer, procs []sim.Process) error {
	rows := make([][]string, len(procs))
	for i, p := range procs {
		rows[i] = []string{p.PID, strconv.Itoa(p.BT), strconv.Itoa(p.AT), strconv.Itoa(p.Priority)}
	}
	return writeRows(w, "pid,bt,at,priority", rows)
}

func WriteResources(w io.Writer, res []sim.Resource) error {
	rows := make([][]string, len(res))
	for i, r := range res {
		rows[i] = []string{r.Name, strconv.Itoa(r.Counter)}
	}
	return writeRows(w, "name,counter", rows)
}

func WriteActions(w io.Writer, actions []sim.Action) error {
	rows := make([][]string, len(actions))
	for i, a := range actions {
		rows[i] = []string{a.PID, a.Kind.String(), a.Resource, strconv.Itoa(a.Cycle)}
	}
	return writeRows(w, "pid,action,resource,cycle", rows)
}

// Dataset is everything the simulators can be loaded with.
type Dataset struct {
	Processes []sim.Process
	Resources []sim.Resource
	Actions   []sim.Action
}

// WriteDir writes the dataset into dir under the default file names, creating dir if needed.
func WriteDir(dir string, ds Dataset) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	files := []struct {
		name  string
		write func(io.Writer) error
	}{
		{PROCESSES_FILE, func(w io.Writer) error { return WriteProcesses(w, ds.Processes) }},
		{RESOURCES_FILE, func(w io.Writer) error { return WriteResources(w, ds.Resources) }},
		{ACTIONS_FILE, func(w io.Writer) error { return WriteActions(w, ds.Actions) }},
	}
	for _, file := range files {
		f, err := os.Create(filepath.Join(dir, file.name))
		if err != nil {
			return err
		}
		if err := file.write(f); err != nil {
			f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return err
		}
	}
	return nil
}

// LoadDir is the reverse of WriteDir. Resources and actions are optional: a missing file
// leaves them empty, a malformed one is still an error.
func LoadDir(dir string) (Dataset, error) {
	var ds Dataset
	var err error
	if ds.Processes, err = LoadProcesses(filepath.Join(dir, PROCESSES_FILE)); err != nil {
		return Dataset{}, err
	}
	if ds.Resources, err = LoadResources(filepath.Join(dir, RESOURCES_FILE)); err != nil && !isNotFound(err) {
		return Dataset{}, err
	}
	if ds.Actions, err = LoadActions(filepath.Join(dir, ACTIONS_FILE)); err != nil && !isNotFound(err) {
		return Dataset{}, err
	}
	if ds.Resources == nil {
		ds.Resources = []sim.Resource{}
	}
	if ds.Actions == nil {
		ds.Actions = []sim.Action{}
	}
	return ds, nil
}
