package ledger

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

//go:embed default_catalog.yaml
var defaultCatalogYAML []byte

var ErrEmptyCatalog = errors.New("achievement catalog is empty")

// Catalog holds achievement definitions in display order.
type Catalog []Achievement

type catalogEntry struct {
	ID          string `yaml:"id"`
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	Icon        string `yaml:"icon"`
	Category    string `yaml:"category"`
	Metric      string `yaml:"metric"`
	Target      int    `yaml:"target"`
}

type catalogFile struct {
	Achievements []catalogEntry `yaml:"achievements"`
}

func LoadCatalog(r io.Reader) (Catalog, error) {
	var f catalogFile
	if err := yaml.NewDecoder(r).Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrEmptyCatalog
		}
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	if len(f.Achievements) == 0 {
		return nil, ErrEmptyCatalog
	}

	seen := make(map[string]bool, len(f.Achievements))
	catalog := make(Catalog, 0, len(f.Achievements))
	for i, e := range f.Achievements {
		if e.ID == "" {
			return nil, fmt.Errorf("achievement #%d: missing id", i)
		}
		if seen[e.ID] {
			return nil, fmt.Errorf("achievement %s: duplicate id", e.ID)
		}
		seen[e.ID] = true
		if e.Target <= 0 {
			return nil, fmt.Errorf("achievement %s: target must be positive", e.ID)
		}
		metric, err := ParseMetric(e.Metric)
		if err != nil {
			return nil, fmt.Errorf("achievement %s: %w", e.ID, err)
		}
		if e.Metric == "" {
			metric = MetricForID(e.ID)
		}
		catalog = append(catalog, Achievement{
			ID:          e.ID,
			Title:       e.Title,
			Description: e.Description,
			Icon:        e.Icon,
			Category:    e.Category,
			Metric:      metric,
			Target:      e.Target,
		})
	}
	return catalog, nil
}

func DefaultCatalog() Catalog {
	catalog, err := LoadCatalog(bytes.NewReader(defaultCatalogYAML))
	if err != nil {
		panic(fmt.Sprintf("default achievement catalog: %s", err))
	}
	return catalog
}

// Definitions returns fresh achievements with no progress.
func (c Catalog) Definitions() []Achievement {
	return resetAchievements(c)
}

// SyncCatalog appends catalog definitions missing from the state, keeping
// the progress of the ones it already tracks.
func SyncCatalog(s State, c Catalog, today string) State {
	next := s.Clone()
	next.Normalize()

	known := make(map[string]bool, len(next.Achievements))
	for _, a := range next.Achievements {
		known[a.ID] = true
	}
	added := false
	for _, a := range c.Definitions() {
		if !known[a.ID] {
			next.Achievements = append(next.Achievements, a)
			added = true
		}
	}
	if !added {
		return next
	}
	return recompute(next, today)
}
