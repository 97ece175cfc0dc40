package geo

import (
	"math"
	"testing"
)

func approx(a, b, tol float64) bool { return math.Abs(a-b) <= tol }

func TestHorizontalDistance(t *testing.T) {
	tests := []struct {
		name string
		a, b Location
		want float64
	}{
		{"same point", Location{Lat: 34, Lon: -118}, Location{Lat: 34, Lon: -118}, 0},
		{"one degree latitude", Location{Lat: 0, Lon: 0}, Location{Lat: 1, Lon: 0}, kmPerDegree},
		{"one degree longitude at equator", Location{Lat: 0, Lon: 0}, Location{Lat: 0, Lon: 1}, kmPerDegree},
		{"depth ignored", Location{Lat: 0, Lon: 0, Depth: 10}, Location{Lat: 1, Lon: 0}, kmPerDegree},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := HorizontalDistance(tc.a, tc.b)
			if !approx(got, tc.want, 1e-6) {
				t.Errorf("HorizontalDistance = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestPointSurfaceDistances(t *testing.T) {
	site := Location{Lat: 34, Lon: -118}

	deep := PointSurface{Location: Location{Lat: 34, Lon: -118, Depth: 10}}
	d := deep.Distances(site)
	if !approx(d.Rup, 10, 1e-9) || d.JB != 0 || !approx(d.Seis, 10, 1e-9) {
		t.Errorf("deep point: got %+v", d)
	}

	shallow := PointSurface{Location: Location{Lat: 34, Lon: -118, Depth: 1}}
	d = shallow.Distances(site)
	if !approx(d.Seis, SeismogenicDepth, 1e-9) {
		t.Errorf("shallow point: Seis = %v, want %v", d.Seis, SeismogenicDepth)
	}
	if !approx(d.Rup, 1, 1e-9) {
		t.Errorf("shallow point: Rup = %v, want 1", d.Rup)
	}
}

func TestFaultSurfaceDistances(t *testing.T) {
	// Trace runs due north along the prime meridian.
	f, err := NewFaultSurface(Location{Lat: 0, Lon: 0}, Location{Lat: 1, Lon: 0}, 0, 15)
	if err != nil {
		t.Fatalf("NewFaultSurface: %v", err)
	}
	tenth := 0.1 * kmPerDegree

	tests := []struct {
		name  string
		site  Location
		jb, x float64
	}{
		{"east of trace is hanging wall", Location{Lat: 0.5, Lon: 0.1}, tenth, tenth},
		{"west of trace is footwall", Location{Lat: 0.5, Lon: -0.1}, tenth, -tenth},
		{"beyond the north end", Location{Lat: 1.1, Lon: 0}, tenth, 0},
		{"on the trace", Location{Lat: 0.3, Lon: 0}, 0, 0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			d := f.Distances(tc.site)
			if !approx(d.JB, tc.jb, 1e-3) {
				t.Errorf("JB = %v, want %v", d.JB, tc.jb)
			}
			if !approx(d.X, tc.x, 1e-3) {
				t.Errorf("X = %v, want %v", d.X, tc.x)
			}
			if !approx(d.Rup, d.JB, 1e-9) {
				t.Errorf("surface-breaking fault: Rup = %v, want JB %v", d.Rup, d.JB)
			}
			if !approx(d.Seis, math.Hypot(d.JB, SeismogenicDepth), 1e-9) {
				t.Errorf("Seis = %v", d.Seis)
			}
		})
	}
}

func TestFaultSurfaceBuriedTop(t *testing.T) {
	f, err := NewFaultSurface(Location{Lat: 0, Lon: 0}, Location{Lat: 1, Lon: 0}, 5, 15)
	if err != nil {
		t.Fatal(err)
	}
	d := f.Distances(Location{Lat: 0.5, Lon: 0})
	if !approx(d.Rup, 5, 1e-9) || !approx(d.Seis, 5, 1e-9) {
		t.Errorf("got %+v, want Rup=Seis=5", d)
	}
}

func TestNewFaultSurfaceRejectsBadDepths(t *testing.T) {
	if _, err := NewFaultSurface(Location{}, Location{Lat: 1}, -1, 10); err == nil {
		t.Error("expected error for negative upper depth")
	}
	if _, err := NewFaultSurface(Location{}, Location{Lat: 1}, 10, 5); err == nil {
		t.Error("expected error for lower depth above upper depth")
	}
}
