// Package workspace manages the ~/.disagg/ directory hierarchy.
//
// Directory layout:
//
//	~/.disagg/<workspace>/
//	    <run>.yaml      # run definition (config.Run)
//	    <run>/          # output of the last execution of that run
//
// DISAGG_HOME replaces ~/.disagg when set.
package workspace

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"disagg/internal/config"
)

// Workspace is a named directory of run definitions and their outputs.
type Workspace struct {
	Name string
	Dir  string
}

// Base returns the directory holding every workspace.
func Base() (string, error) {
	e, err := config.ParseEnv()
	if err != nil {
		return "", err
	}
	if e.Home != "" {
		return e.Home, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("home dir: %w", err)
	}
	return filepath.Join(home, ".disagg"), nil
}

func checkName(kind, name string) error {
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("invalid %s name %q", kind, name)
	}
	return nil
}

// Init creates <base>/<name>/ and errors if it already exists.
func Init(name string) (*Workspace, error) {
	if err := checkName("workspace", name); err != nil {
		return nil, err
	}
	base, err := Base()
	if err != nil {
		return nil, err
	}
	dir := filepath.Join(base, name)
	if _, err := os.Stat(dir); err == nil {
		return nil, fmt.Errorf("workspace %q already exists at %s", name, dir)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create workspace: %w", err)
	}
	return &Workspace{Name: name, Dir: dir}, nil
}

// Open opens an existing workspace.
func Open(name string) (*Workspace, error) {
	if err := checkName("workspace", name); err != nil {
		return nil, err
	}
	base, err := Base()
	if err != nil {
		return nil, err
	}
	dir := filepath.Join(base, name)
	if _, err := os.Stat(dir); err != nil {
		return nil, fmt.Errorf("workspace %q not found (run 'disagg init %s' first)", name, name)
	}
	return &Workspace{Name: name, Dir: dir}, nil
}

// List returns the names of all workspaces, sorted.
func List() ([]string, error) {
	base, err := Base()
	if err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(base)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read %s: %w", base, err)
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

// Remove deletes a workspace with all its runs and outputs.
func Remove(name string) error {
	w, err := Open(name)
	if err != nil {
		return err
	}
	if err := os.RemoveAll(w.Dir); err != nil {
		return fmt.Errorf("remove workspace: %w", err)
	}
	return nil
}

func (w *Workspace) runPath(name string) string {
	return filepath.Join(w.Dir, name+".yaml")
}

// OutputDir is where the results of run name are written.
func (w *Workspace) OutputDir(name string) string {
	return filepath.Join(w.Dir, name)
}

// AddRun validates r and writes it as <r.Name>.yaml. Errors if the run
// already exists.
func (w *Workspace) AddRun(r *config.Run) error {
	if err := checkName("run", r.Name); err != nil {
		return err
	}
	if err := r.Validate(); err != nil {
		return fmt.Errorf("run %q: %w", r.Name, err)
	}
	path := w.runPath(r.Name)
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("run %q already exists in workspace %q", r.Name, w.Name)
	}
	data, err := r.Marshal()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write run: %w", err)
	}
	return nil
}

// LoadRun reads a run definition. The run's name always matches its file.
func (w *Workspace) LoadRun(name string) (*config.Run, error) {
	if err := checkName("run", name); err != nil {
		return nil, err
	}
	r, err := config.Load(w.runPath(name))
	if err != nil {
		return nil, fmt.Errorf("load run %q: %w", name, err)
	}
	r.Name = name
	return r, nil
}

// ListRuns returns run names derived from *.yaml files, sorted.
func (w *Workspace) ListRuns() ([]string, error) {
	entries, err := os.ReadDir(w.Dir)
	if err != nil {
		return nil, fmt.Errorf("read workspace dir: %w", err)
	}
	var runs []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if strings.HasSuffix(e.Name(), ".yaml") {
			runs = append(runs, strings.TrimSuffix(e.Name(), ".yaml"))
		}
	}
	sort.Strings(runs)
	return runs, nil
}

// HasOutput reports whether run name has been executed.
func (w *Workspace) HasOutput(name string) bool {
	_, err := os.Stat(filepath.Join(w.OutputDir(name), "result.yaml"))
	return err == nil
}

// RemoveRun removes a run definition and its output directory.
func (w *Workspace) RemoveRun(name string) error {
	if err := checkName("run", name); err != nil {
		return err
	}
	path := w.runPath(name)
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("run %q not found in workspace %q", name, w.Name)
	}
	if err := os.Remove(path); err != nil {
		return fmt.Errorf("remove run: %w", err)
	}
	if err := os.RemoveAll(w.OutputDir(name)); err != nil {
		return fmt.Errorf("remove run output: %w", err)
	}
	return nil
}
