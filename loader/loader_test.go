package loader

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	sim "github.com/Hayser8/SistosSheduling"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
	return path
}

func TestParseProcesses(t *testing.T) {
	in := `# pid, bt, at, priority
P1, 3, 0, 2

  # indented comment
P2,6,2,1
   P3 ,  4 , 4 , 10
`
	got, err := ParseProcesses(strings.NewReader(in), "procs.txt")
	if err != nil {
		t.Fatalf("ParseProcesses() error = %v", err)
	}
	want := []sim.Process{
		{PID: "P1", BT: 3, AT: 0, Priority: 2},
		{PID: "P2", BT: 6, AT: 2, Priority: 1},
		{PID: "P3", BT: 4, AT: 4, Priority: 10},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ParseProcesses() = %v, want %v", got, want)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name     string
		parse    func(string) error
		in       string
		wantLine int
		wantMsg  string
	}{
		{
			name:     "process field count",
			parse:    parseProcs,
			in:       "P1,1,0,1\nP2,1,0\n",
			wantLine: 2,
			wantMsg:  "expected 4 fields",
		},
		{
			name:     "duplicate pid",
			parse:    parseProcs,
			in:       "P1,1,0,1\n# again\nP1,2,0,1\n",
			wantLine: 3,
			wantMsg:  "duplicate pid",
		},
		{
			name:     "non integer burst",
			parse:    parseProcs,
			in:       "P1,x,0,1\n",
			wantLine: 1,
			wantMsg:  "burst time is not an integer",
		},
		{
			name:     "negative burst",
			parse:    parseProcs,
			in:       "P1,-1,0,1\n",
			wantLine: 1,
			wantMsg:  "burst time must be >= 0",
		},
		{
			name:     "negative arrival",
			parse:    parseProcs,
			in:       "P1,1,-2,1\n",
			wantLine: 1,
			wantMsg:  "arrival time must be >= 0",
		},
		{
			name:     "priority out of range",
			parse:    parseProcs,
			in:       "P1,1,0,11\n",
			wantLine: 1,
			wantMsg:  "priority out of range",
		},
		{
			name:     "resource counter below one",
			parse:    parseRes,
			in:       "R1,1\nR2,0\n",
			wantLine: 2,
			wantMsg:  "counter must be >= 1",
		},
		{
			name:     "duplicate resource",
			parse:    parseRes,
			in:       "R1,1\nR1,2\n",
			wantLine: 2,
			wantMsg:  "duplicate resource",
		},
		{
			name:     "unknown action",
			parse:    parseActions,
			in:       "P1,READ,R1,0\nP1,DELETE,R1,1\n",
			wantLine: 2,
			wantMsg:  "unknown action",
		},
		{
			name:     "negative cycle",
			parse:    parseActions,
			in:       "P1,write,R1,-1\n",
			wantLine: 1,
			wantMsg:  "cycle must be >= 0",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.parse(tt.in)
			var perr *ParseError
			if !errors.As(err, &perr) {
				t.Fatalf("error = %v, want *ParseError", err)
			}
			if perr.Line != tt.wantLine || perr.Path != "input.txt" {
				t.Errorf("error at %s:%d, want input.txt:%d", perr.Path, perr.Line, tt.wantLine)
			}
			if !strings.Contains(perr.Msg, tt.wantMsg) {
				t.Errorf("error message %q does not mention %q", perr.Msg, tt.wantMsg)
			}
		})
	}
}

func parseProcs(in string) error {
	_, err := ParseProcesses(strings.NewReader(in), "input.txt")
	return err
}

func parseRes(in string) error {
	_, err := ParseResources(strings.NewReader(in), "input.txt")
	return err
}

func parseActions(in string) error {
	_, err := ParseActions(strings.NewReader(in), "input.txt")
	return err
}

func TestParseActions(t *testing.T) {
	got, err := ParseActions(strings.NewReader("P1, read, R1, 0\nP2, WRITE, R2, 3\n"), "acts.txt")
	if err != nil {
		t.Fatalf("ParseActions() error = %v", err)
	}
	want := []sim.Action{
		{PID: "P1", Kind: sim.Read, Resource: "R1", Cycle: 0},
		{PID: "P2", Kind: sim.Write, Resource: "R2", Cycle: 3},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ParseActions() = %v, want %v", got, want)
	}
}

func TestLoadMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nope.txt")
	loads := map[string]func(string) error{
		"processes": func(p string) error { _, err := LoadProcesses(p); return err },
		"resources": func(p string) error { _, err := LoadResources(p); return err },
		"actions":   func(p string) error { _, err := LoadActions(p); return err },
	}
	for name, load := range loads {
		err := load(path)
		if !errors.Is(err, ErrFileNotFound) || !errors.Is(err, fs.ErrNotExist) {
			t.Errorf("%s: error = %v, want ErrFileNotFound wrapping fs.ErrNotExist", name, err)
		}
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "recursos.txt", "R1, 1\nR2, 3\n")
	got, err := LoadResources(path)
	if err != nil {
		t.Fatalf("LoadResources() error = %v", err)
	}
	want := []sim.Resource{{Name: "R1", Counter: 1}, {Name: "R2", Counter: 3}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("LoadResources() = %v, want %v", got, want)
	}
}

func TestWriteThenLoadDir(t *testing.T) {
	lg := sim.NewLoadGen(3)
	procs := lg.GenProcesses(10)
	res := lg.GenResources(3)
	ds := Dataset{Processes: procs, Resources: res, Actions: lg.GenActions(procs, res)}

	dir := filepath.Join(t.TempDir(), "datos")
	if err := WriteDir(dir, ds); err != nil {
		t.Fatalf("WriteDir() error = %v", err)
	}
	got, err := LoadDir(dir)
	if err != nil {
		t.Fatalf("LoadDir() error = %v", err)
	}
	if !reflect.DeepEqual(got, ds) {
		t.Errorf("LoadDir() = %+v, want %+v", got, ds)
	}
}

func TestLoadDirOptionalFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, PROCESSES_FILE, "P1,2,0,1\n")
	ds, err := LoadDir(dir)
	if err != nil {
		t.Fatalf("LoadDir() error = %v", err)
	}
	if len(ds.Processes) != 1 || len(ds.Resources) != 0 || len(ds.Actions) != 0 {
		t.Errorf("LoadDir() = %+v", ds)
	}

	writeFile(t, dir, ACTIONS_FILE, "P1,READ\n")
	if _, err := LoadDir(dir); err == nil {
		t.Error("LoadDir() accepted a malformed actions file")
	}

	if _, err := LoadDir(t.TempDir()); !errors.Is(err, ErrFileNotFound) {
		t.Errorf("LoadDir() without processes error = %v, want ErrFileNotFound", err)
	}
}
