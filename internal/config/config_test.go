package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const sampleRun = `
name: la
provider: demo
answers:
  lat: "34.05"
iml: 0.2
bins:
  distance:
    min: 1
    count: 2
    delta: 1
    edges: [0, 10, 50]
mag_dist_filter:
  - {distance: 100, magnitude: 6.5}
  - {distance: 0, magnitude: 5}
report:
  num_sources: 3
`

func TestParseAppliesDefaults(t *testing.T) {
	r, err := Parse([]byte(sampleRun))
	if err != nil {
		t.Fatal(err)
	}
	if r.MaxDistance != DefaultMaxDistance {
		t.Errorf("MaxDistance = %v, want %v", r.MaxDistance, DefaultMaxDistance)
	}
	g, err := r.Grid()
	if err != nil {
		t.Fatal(err)
	}
	// Magnitude keeps the default layout; distance uses explicit edges.
	if g.Mag.Len() != 9 || g.Mag.Center(0) != 5 || g.Mag.Edge(0) != 4.75 {
		t.Errorf("magnitude axis = %v", g.Mag.Edges())
	}
	if got := g.Dist.Edges(); len(got) != 3 || got[2] != 50 {
		t.Errorf("distance edges = %v, want [0 10 50]", got)
	}
	f, err := r.Filter()
	if err != nil || f == nil {
		t.Fatalf("Filter = %v, %v", f, err)
	}
	if got := f.ThresholdMagnitude(50); got != 5.75 {
		t.Errorf("ThresholdMagnitude(50) = %v, want 5.75", got)
	}
	cfg, err := r.EngineConfig()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.NumSourcesToShow != 3 || cfg.MaxDistance != 200 {
		t.Errorf("engine config = %+v", cfg)
	}
}

func TestDefaultGrid(t *testing.T) {
	r := Default()
	g, err := r.Grid()
	if err != nil {
		t.Fatal(err)
	}
	if g.Dist.Len() != 11 || g.Dist.Edge(0) != 0 || g.Dist.Edge(11) != 110 {
		t.Errorf("distance edges = %v", g.Dist.Edges())
	}
	if f, err := r.Filter(); f != nil || err != nil {
		t.Errorf("Filter = %v, %v, want nil", f, err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{"no provider", "iml: 0.1", "provider"},
		{"zero iml", "provider: demo\niml: 0", "iml"},
		{"negative distance", "provider: demo\niml: 0.1\nmax_distance: -5", "max_distance"},
		{"negative sources", "provider: demo\niml: 0.1\nreport: {num_sources: -1}", "num_sources"},
		{"bad axis", "provider: demo\niml: 0.1\nbins: {magnitude: {min: 5, count: 0, delta: 0.5}}", "bins.magnitude"},
		{"bad edges", "provider: demo\niml: 0.1\nbins: {distance: {edges: [10, 5]}}", "bins.distance"},
		{"bad filter", "provider: demo\niml: 0.1\nmag_dist_filter: [{distance: 1, magnitude: 5}, {distance: 1, magnitude: 6}]", "mag_dist_filter"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse([]byte(tc.yaml))
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Errorf("err = %v, want mention of %q", err, tc.want)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err == nil || !strings.Contains(err.Error(), "read ") {
		t.Errorf("err = %v", err)
	}
}

func TestMarshalRoundTrip(t *testing.T) {
	r, err := Parse([]byte(sampleRun))
	if err != nil {
		t.Fatal(err)
	}
	data, err := r.Marshal()
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "la.yaml")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
	back, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if back.Name != "la" || back.Answers["lat"] != "34.05" || len(back.MagDistFilter) != 2 {
		t.Errorf("loaded %+v", back)
	}
}

func TestParseEnv(t *testing.T) {
	t.Setenv("DISAGG_HOME", "/tmp/disagg-home")
	t.Setenv("DISAGG_MAX_DISTANCE", "80")
	t.Setenv("DISAGG_SHOW_DISTANCES", "true")

	e, err := ParseEnv()
	if err != nil {
		t.Fatal(err)
	}
	if e.Home != "/tmp/disagg-home" || e.LogMode != "dev" {
		t.Errorf("Env = %+v", e)
	}
	if e.NumSources != nil {
		t.Errorf("NumSources = %v, want unset", *e.NumSources)
	}

	r := Default()
	r.Report.NumSources = 4
	r.ApplyEnv(e)
	if r.MaxDistance != 80 || !r.Report.ShowDistances || r.Report.NumSources != 4 {
		t.Errorf("after ApplyEnv: %+v", r)
	}
}

func TestParseEnvError(t *testing.T) {
	t.Setenv("DISAGG_NUM_SOURCES", "many")
	_, err := ParseEnv()
	if err == nil || !strings.Contains(err.Error(), "parse env:") {
		t.Fatalf("err = %v", err)
	}
}
