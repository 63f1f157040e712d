// Package loader reads and writes the plain-text input files of the simulator:
// one comma separated record per line, blank lines and # comments ignored.
package loader

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strconv"
	"strings"

	sim "github.com/Hayser8/SistosSheduling"
)

const MAX_PRIORITY = 10

var ErrFileNotFound = errors.New("input file not found")

// ParseError locates a malformed record.
type ParseError struct {
	Path string
	Line int
	Msg  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s:%d: %s", e.Path, e.Line, e.Msg)
}

type notFoundError struct {
	path string
	err  error
}

func (e *notFoundError) Error() string {
	return fmt.Sprintf("%s: %s", ErrFileNotFound, e.path)
}

// matches both ErrFileNotFound and fs.ErrNotExist
func (e *notFoundError) Is(target error) bool {
	return target == ErrFileNotFound
}

func (e *notFoundError) Unwrap() error {
	return e.err
}

func isNotFound(err error) bool {
	return errors.Is(err, ErrFileNotFound)
}

// record is one non-comment line with its fields already trimmed.
type record struct {
	line   int
	fields []string
}

// reads every record of r, checking that each has exactly nfields fields.
func readRecords(r io.Reader, path string, nfields int) ([]record, error) {
	cr := csv.NewReader(r)
	cr.Comment = '#'
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	cr.LazyQuotes = true

	records := make([]record, 0)
	for {
		fields, err := cr.Read()
		if err == io.EOF {
			return records, nil
		}
		if err != nil {
			var perr *csv.ParseError
			if errors.As(err, &perr) {
				return nil, &ParseError{Path: path, Line: perr.Line, Msg: perr.Err.Error()}
			}
			return nil, err
		}
		line, _ := cr.FieldPos(0)
		for i := range fields {
			fields[i] = strings.TrimSpace(fields[i])
		}
		// whitespace-only lines and indented comments
		if (len(fields) == 1 && fields[0] == "") || strings.HasPrefix(fields[0], "#") {
			continue
		}
		if len(fields) != nfields {
			return nil, &ParseError{Path: path, Line: line, Msg: fmt.Sprintf("expected %d fields, found %d", nfields, len(fields))}
		}
		records = append(records, record{line: line, fields: fields})
	}
}

func (rec record) int(path, what string, i int) (int, error) {
	v, err := strconv.Atoi(rec.fields[i])
	if err != nil {
		return 0, &ParseError{Path: path, Line: rec.line, Msg: fmt.Sprintf("%s is not an integer: %q", what, rec.fields[i])}
	}
	return v, nil
}

func (rec record) errorf(path, format string, args ...any) error {
	return &ParseError{Path: path, Line: rec.line, Msg: fmt.Sprintf(format, args...)}
}

func open(path string) (*os.File, error) {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, &notFoundError{path: path, err: err}
	}
	return f, err
}

// ------------------------------------------------------------------------------------------------
// PROCESSES: pid, bt, at, priority
// ------------------------------------------------------------------------------------------------

func LoadProcesses(path string) ([]sim.Process, error) {
	f, err := open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ParseProcesses(f, path)
}

// ParseProcesses reads processes from r; path is only used in errors.
func ParseProcesses(r io.Reader, path string) ([]sim.Process, error) {
	records, err := readRecords(r, path, 4)
	if err != nil {
		return nil, err
	}
	procs := make([]sim.Process, 0, len(records))
	seen := make(map[string]bool)
	for _, rec := range records {
		pid := rec.fields[0]
		if pid == "" {
			return nil, rec.errorf(path, "empty pid")
		}
		if seen[pid] {
			return nil, rec.errorf(path, "duplicate pid %q", pid)
		}
		seen[pid] = true

		bt, err := rec.int(path, "burst time", 1)
		if err != nil {
			return nil, err
		}
		at, err := rec.int(path, "arrival time", 2)
		if err != nil {
			return nil, err
		}
		prio, err := rec.int(path, "priority", 3)
		if err != nil {
			return nil, err
		}
		switch {
		case bt < 0:
			return nil, rec.errorf(path, "burst time must be >= 0, found %d", bt)
		case at < 0:
			return nil, rec.errorf(path, "arrival time must be >= 0, found %d", at)
		case prio < 0 || prio > MAX_PRIORITY:
			return nil, rec.errorf(path, "priority out of range 0-%d: %d", MAX_PRIORITY, prio)
		}
		procs = append(procs, sim.Process{PID: pid, BT: bt, AT: at, Priority: prio})
	}
	return procs, nil
}

// ------------------------------------------------------------------------------------------------
// RESOURCES: name, counter
// ------------------------------------------------------------------------------------------------

func LoadResources(path string) ([]sim.Resource, error) {
	f, err := open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ParseResources(f, path)
}

func ParseResources(r io.Reader, path string) ([]sim.Resource, error) {
	records, err := readRecords(r, path, 2)
	if err != nil {
		return nil, err
	}
	res := make([]sim.Resource, 0, len(records))
	seen := make(map[string]bool)
	for _, rec := range records {
		name := rec.fields[0]
		if name == "" {
			return nil, rec.errorf(path, "empty resource name")
		}
		if seen[name] {
			return nil, rec.errorf(path, "duplicate resource %q", name)
		}
		seen[name] = true

		counter, err := rec.int(path, "counter", 1)
		if err != nil {
			return nil, err
		}
		if counter < 1 {
			return nil, rec.errorf(path, "counter must be >= 1, found %d", counter)
		}
		res = append(res, sim.Resource{Name: name, Counter: counter})
	}
	return res, nil
}

// ------------------------------------------------------------------------------------------------
// ACTIONS: pid, READ|WRITE, resource, cycle
// ------------------------------------------------------------------------------------------------

func LoadActions(path string) ([]sim.Action, error) {
	f, err := open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ParseActions(f, path)
}

func ParseActions(r io.Reader, path string) ([]sim.Action, error) {
	records, err := readRecords(r, path, 4)
	if err != nil {
		return nil, err
	}
	actions := make([]sim.Action, 0, len(records))
	for _, rec := range records {
		kind, err := sim.ParseActionKind(rec.fields[1])
		if err != nil {
			return nil, rec.errorf(path, "%v", err)
		}
		cycle, err := rec.int(path, "cycle", 3)
		if err != nil {
			return nil, err
		}
		if cycle < 0 {
			return nil, rec.errorf(path, "cycle must be >= 0, found %d", cycle)
		}
		actions = append(actions, sim.Action{
			PID:      rec.fields[0],
			Kind:     kind,
			Resource: rec.fields[2],
			Cycle:    cycle,
		})
	}
	return actions, nil
}
