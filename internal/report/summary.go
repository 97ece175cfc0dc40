package report

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"gopkg.in/yaml.v3"

	"disagg/internal/disagg"
)

// Summary is the frontmatter of summary.md.
type Summary struct {
	Meta `yaml:",inline"`

	Site            string  `yaml:"site,omitempty"`
	IML             float64 `yaml:"iml"`
	TotalRate       float64 `yaml:"total_rate"`
	OutOfBoundsRate float64 `yaml:"out_of_bounds_rate"`
	MeanMag         float64 `yaml:"mean_mag"`
	MeanDist        float64 `yaml:"mean_dist"`
	MeanEpsilon     float64 `yaml:"mean_epsilon"`
	Rejected        int     `yaml:"rejected_ruptures"`
}

func newSummary(res *disagg.Result, meta Meta) Summary {
	return Summary{
		Meta:            meta,
		Site:            res.Site,
		IML:             res.IML,
		TotalRate:       res.TotalRate,
		OutOfBoundsRate: res.OutOfBoundsRate,
		MeanMag:         res.MeanMag,
		MeanDist:        res.MeanDist,
		MeanEpsilon:     res.MeanEpsilon,
		Rejected:        res.RejectedRuptures,
	}
}

func summaryBody(res *disagg.Result, meta Meta, showDistances bool) string {
	p := message.NewPrinter(language.English)
	var b strings.Builder
	fmt.Fprintf(&b, "# Disaggregation: %s\n\n", meta.Run)
	b.WriteString(p.Sprintf("Intensity level %v at site %q. %d ruptures walked", res.IML, res.Site, meta.Ruptures))
	if res.RejectedRuptures > 0 {
		b.WriteString(p.Sprintf(", %d rejected by the magnitude-distance filter", res.RejectedRuptures))
	}
	b.WriteString(".\n\n")
	b.WriteString(p.Sprintf("Total exceedance rate %g; %.2f%% of it fell outside the bins.\n", res.TotalRate, res.OutOfBoundsPercent()))

	b.WriteString("\n## Mean and mode\n\n```text")
	b.WriteString(MeanModeSummary(res))
	b.WriteString("```\n")

	if len(res.Ranked) > 0 {
		b.WriteString("\n## Sources\n\n```text\n")
		b.WriteString(SourceTable(res.Ranked, showDistances))
		b.WriteString("```\n")
	}
	b.WriteString("\nThe full bin table is in bins.tsv.\n")
	return b.String()
}

func encodeSummary(s Summary, body string) ([]byte, error) {
	fm, err := yaml.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("marshal summary: %w", err)
	}
	var buf bytes.Buffer
	buf.WriteString("---\n")
	buf.Write(fm)
	buf.WriteString("---\n")
	buf.WriteString(body)
	return buf.Bytes(), nil
}

// ReadSummary parses the frontmatter of dir/summary.md.
func ReadSummary(dir string) (*Summary, error) {
	path := filepath.Join(dir, "summary.md")
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	const delim = "---\n"
	if !bytes.HasPrefix(data, []byte(delim)) {
		return nil, fmt.Errorf("%s: missing opening --- delimiter", path)
	}
	rest := data[len(delim):]
	end := bytes.Index(rest, []byte("\n"+delim))
	if end < 0 {
		return nil, fmt.Errorf("%s: missing closing --- delimiter", path)
	}
	var s Summary
	if err := yaml.Unmarshal(rest[:end+1], &s); err != nil {
		return nil, fmt.Errorf("unmarshal %s: %w", path, err)
	}
	return &s, nil
}
