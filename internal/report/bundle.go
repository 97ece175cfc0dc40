package report

// bundle.go - output files of one run.
//
// Layout of an output directory:
//
//	summary.md    YAML frontmatter (Meta plus headline numbers) and text tables
//	result.yaml   the full Result
//	result.json   the same, as JSON
//	bins.tsv      BinTable
//	sources.tsv   SourceTable (only when sources were ranked)

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"

	"disagg/internal/disagg"
)

// Meta describes the run that produced a result. It is kept out of
// disagg.Result so that results stay reproducible.
type Meta struct {
	RunID       string `yaml:"run_id"`
	Run         string `yaml:"run"`
	Workspace   string `yaml:"workspace,omitempty"`
	Provider    string `yaml:"provider"`
	GeneratedAt string `yaml:"generated_at"`
	Ruptures    int64  `yaml:"ruptures"`
}

// Bundle holds generated file contents keyed by file name.
type Bundle struct {
	files map[string][]byte
}

// Build renders every output file for res. No files are written.
func Build(res *disagg.Result, meta Meta, showDistances bool) (*Bundle, error) {
	files := make(map[string][]byte)

	y, err := yaml.Marshal(res)
	if err != nil {
		return nil, fmt.Errorf("marshal result yaml: %w", err)
	}
	files["result.yaml"] = y

	j, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal result json: %w", err)
	}
	files["result.json"] = append(j, '\n')

	files["bins.tsv"] = []byte(BinTable(res))
	if len(res.Ranked) > 0 {
		files["sources.tsv"] = []byte(SourceTable(res.Ranked, showDistances))
	}

	summary, err := encodeSummary(newSummary(res, meta), summaryBody(res, meta, showDistances))
	if err != nil {
		return nil, err
	}
	files["summary.md"] = summary

	return &Bundle{files: files}, nil
}

// Names returns the file names in the bundle, sorted.
func (b *Bundle) Names() []string {
	names := make([]string, 0, len(b.files))
	for n := range b.files {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// File returns the content of name, or nil.
func (b *Bundle) File(name string) []byte { return b.files[name] }

// WriteBundle writes every file of b into dir, creating it if needed.
// Files are written in sorted name order.
func WriteBundle(b *Bundle, dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("mkdir %s: %w", dir, err)
	}
	for _, name := range b.Names() {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, b.files[name], 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
	}
	return nil
}

// LoadResult reads result.yaml back from an output directory. Source
// handles are not restored.
func LoadResult(dir string) (*disagg.Result, error) {
	path := filepath.Join(dir, "result.yaml")
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	var res disagg.Result
	if err := yaml.Unmarshal(data, &res); err != nil {
		return nil, fmt.Errorf("unmarshal %s: %w", path, err)
	}
	return &res, nil
}
