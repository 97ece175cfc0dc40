package plugin

import (
	"reflect"
	"strings"
	"testing"
)

type namedProvider string

func (p namedProvider) Name() string                         { return string(p) }
func (p namedProvider) Configure() ([]ConfigQuestion, error) { return nil, nil }
func (p namedProvider) Build(map[string]string) (*Collaborators, error) {
	return &Collaborators{}, nil
}

func TestRegistry(t *testing.T) {
	r := NewRegistry(namedProvider("zeta"), namedProvider("alpha"))
	if got := r.Names(); !reflect.DeepEqual(got, []string{"alpha", "zeta"}) {
		t.Errorf("Names = %v", got)
	}
	if err := r.Register(namedProvider("alpha")); err == nil {
		t.Error("expected duplicate registration error")
	}
	p, err := r.Get("zeta")
	if err != nil || p.Name() != "zeta" {
		t.Errorf("Get = %v, %v", p, err)
	}
	if _, err := r.Get("missing"); err == nil || !strings.Contains(err.Error(), "alpha, zeta") {
		t.Errorf("err = %v", err)
	}
}

func TestAnswers(t *testing.T) {
	q := ConfigQuestion{Key: "lat", Type: "number", Default: "34.05"}
	tests := []struct {
		answers map[string]string
		want    float64
		wantErr bool
	}{
		{map[string]string{"lat": "35.5"}, 35.5, false},
		{map[string]string{"lat": "  "}, 34.05, false},
		{nil, 34.05, false},
		{map[string]string{"lat": "north"}, 0, true},
	}
	for _, tc := range tests {
		got, err := FloatAnswer(tc.answers, q)
		if (err != nil) != tc.wantErr || got != tc.want {
			t.Errorf("FloatAnswer(%v) = %v, %v", tc.answers, got, err)
		}
	}
}

func TestCollaboratorsRequest(t *testing.T) {
	c := &Collaborators{}
	c.Site.Name = "x"
	req := c.Request(0.3)
	if req.IML != 0.3 || req.Site.Name != "x" {
		t.Errorf("Request = %+v", req)
	}
}
