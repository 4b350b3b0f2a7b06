// Package golden checks estimation results against recorded inside counts.
//
// A golden document looks like:
//
//	{"cases": [
//	  {"strategy": "serial", "numPoints": 10000, "radius": 10000, "seed": 269222, "inside": 7837}
//	]}
//
// Only configurations whose inside count does not depend on scheduling or on
// the host's CPU count have a golden value.
package golden

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/tidwall/gjson"

	"github.com/wesleyorama2/montepi/internal/montecarlo/engine"
	"github.com/wesleyorama2/montepi/internal/montecarlo/strategy"
	"github.com/wesleyorama2/montepi/pkg/jsonschema"
)

//go:embed schema.json
var documentSchema string

var loadSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	return jsonschema.Compile("golden.json", documentSchema)
})

// Key identifies a deterministic run.
type Key struct {
	Strategy  strategy.Type
	Generator strategy.GeneratorMode
	Remainder strategy.RemainderPolicy
	NumPoints int
	Radius    int
	Seed      int64
	Workers   int
	Grain     int
}

// KeyOf builds the normalized key of a strategy configuration.
//
// Fields that cannot change the inside count are cleared: the serial
// strategy ignores every parallel setting, and a shared generator feeding
// all N samples yields the serial sample set whatever the worker count.
func KeyOf(cfg *strategy.Config) Key {
	k := Key{
		Strategy:  cfg.Type,
		Generator: cfg.EffectiveGenerator(),
		Remainder: cfg.EffectiveRemainder(),
		NumPoints: cfg.NumPoints,
		Radius:    cfg.Radius,
		Seed:      cfg.Seed,
		Workers:   cfg.Workers,
		Grain:     cfg.Grain,
	}

	switch k.Strategy {
	case strategy.TypeSerial:
		k.Generator, k.Remainder, k.Workers, k.Grain = "", "", 0, 0
	case strategy.TypeStructuredParallel:
		k.Remainder = ""
		if k.Generator == strategy.GeneratorShared {
			k.Workers, k.Grain = 0, 0
		} else if k.Grain > 0 {
			k.Workers = 0
		}
	case strategy.TypeWorkerPool:
		k.Grain = 0
		if k.Generator == strategy.GeneratorShared && k.Remainder == strategy.RemainderLastWorker {
			k.Workers = 0
		}
	}
	return k
}

// Deterministic reports whether the inside count for k is reproducible
// across runs and hosts.
func (k Key) Deterministic() bool {
	switch k.Strategy {
	case strategy.TypeSerial:
		return true
	case strategy.TypeStructuredParallel:
		return k.Generator == strategy.GeneratorShared || k.Grain > 0 || k.Workers > 0
	case strategy.TypeWorkerPool:
		return k.Workers > 0 ||
			(k.Generator == strategy.GeneratorShared && k.Remainder == strategy.RemainderLastWorker)
	}
	return false
}

func (k Key) String() string {
	s := fmt.Sprintf("%s N=%d R=%d seed=%d", k.Strategy, k.NumPoints, k.Radius, k.Seed)
	if k.Generator != "" {
		s += " generator=" + string(k.Generator)
	}
	if k.Remainder != "" {
		s += " remainder=" + string(k.Remainder)
	}
	if k.Workers > 0 {
		s += fmt.Sprintf(" workers=%d", k.Workers)
	}
	if k.Grain > 0 {
		s += fmt.Sprintf(" grain=%d", k.Grain)
	}
	return s
}

// Case is one entry of a golden document.
type Case struct {
	Strategy  strategy.Type            `json:"strategy"`
	Generator strategy.GeneratorMode   `json:"generator,omitempty"`
	Remainder strategy.RemainderPolicy `json:"remainder,omitempty"`
	NumPoints int                      `json:"numPoints"`
	Radius    int                      `json:"radius"`
	Seed      int64                    `json:"seed"`
	Workers   int                      `json:"workers,omitempty"`
	Grain     int                      `json:"grain,omitempty"`
	Inside    int                      `json:"inside"`
}

// CaseOf records the inside count of a result under its normalized key.
func CaseOf(r *engine.Result) (Case, error) {
	k := KeyOf(r.Config)
	if !k.Deterministic() {
		return Case{}, fmt.Errorf("%s has no reproducible inside count", k)
	}
	return Case{
		Strategy:  k.Strategy,
		Generator: k.Generator,
		Remainder: k.Remainder,
		NumPoints: k.NumPoints,
		Radius:    k.Radius,
		Seed:      k.Seed,
		Workers:   k.Workers,
		Grain:     k.Grain,
		Inside:    r.Inside,
	}, nil
}

// Marshal encodes cases as a golden document.
func Marshal(cases []Case) ([]byte, error) {
	return json.MarshalIndent(struct {
		Cases []Case `json:"cases"`
	}{cases}, "", "  ")
}

// Load reads a golden document and checks it against the golden schema.
func Load(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read golden file: %w", err)
	}

	schema, err := loadSchema()
	if err != nil {
		return nil, err
	}
	if err := schema.Validate(data); err != nil {
		return nil, fmt.Errorf("invalid golden file %s: %w", path, err)
	}
	return data, nil
}

// Lookup returns the golden inside count for k.
func Lookup(doc []byte, k Key) (int, bool) {
	query := fmt.Sprintf(`cases.#(strategy==%q)#`, string(k.Strategy))

	inside, found := 0, false
	gjson.GetBytes(doc, query).ForEach(func(_, c gjson.Result) bool {
		if matches(c, k) {
			inside, found = int(c.Get("inside").Int()), true
			return false
		}
		return true
	})
	return inside, found
}

func matches(c gjson.Result, k Key) bool {
	return c.Get("numPoints").Int() == int64(k.NumPoints) &&
		c.Get("radius").Int() == int64(k.Radius) &&
		c.Get("seed").Int() == k.Seed &&
		c.Get("generator").String() == string(k.Generator) &&
		c.Get("remainder").String() == string(k.Remainder) &&
		c.Get("workers").Int() == int64(k.Workers) &&
		c.Get("grain").Int() == int64(k.Grain)
}

// Status is the outcome of a golden comparison.
type Status string

const (
	StatusMatch            Status = "match"
	StatusMismatch         Status = "mismatch"
	StatusMissing          Status = "missing"
	StatusNondeterministic Status = "nondeterministic"
)

// Outcome is the comparison of one result with the golden document.
type Outcome struct {
	Key      Key
	Name     string
	Status   Status
	Expected int
	Actual   int
}

// Check compares every result of report with doc.
func Check(doc []byte, report *engine.Report) []Outcome {
	outcomes := make([]Outcome, 0, len(report.Results))
	for _, r := range report.Results {
		if r.Config == nil {
			continue
		}
		k := KeyOf(r.Config)
		o := Outcome{Key: k, Name: r.Name, Actual: r.Inside}

		switch expected, ok := Lookup(doc, k); {
		case !k.Deterministic():
			o.Status = StatusNondeterministic
		case !ok:
			o.Status = StatusMissing
		case expected == r.Inside:
			o.Status, o.Expected = StatusMatch, expected
		default:
			o.Status, o.Expected = StatusMismatch, expected
		}
		outcomes = append(outcomes, o)
	}
	return outcomes
}

// Failed reports whether any outcome is a mismatch.
func Failed(outcomes []Outcome) bool {
	for _, o := range outcomes {
		if o.Status == StatusMismatch {
			return true
		}
	}
	return false
}
