package battery

import (
	"encoding/json"

	"github.com/pkg/errors"

	"github.com/nodebeacon/beacon/internal/config"
	"github.com/nodebeacon/beacon/pkg/types"
)

// Credential names the signing key a write check needs.
type Credential string

const (
	CredentialNone    Credential = "none"
	CredentialPosting Credential = "posting"
	CredentialActive  Credential = "active"
)

// Validator inspects a successful read result. A nil error passes the check.
type Validator func(result json.RawMessage) error

// TestSpec is one check of the battery.
type TestSpec struct {
	Name        string
	Description string
	Kind        types.Kind
	Method      string

	// Params is a JSON-compatible template (maps, slices, scalars).
	Params any

	// Weight is deducted from the node score when the check fails.
	Weight int

	// Credential is required for write checks.
	Credential Credential

	// ValidatorName is informational; Validator is what runs.
	ValidatorName string
	Validator     Validator
}

// Battery is an ordered, immutable list of checks.
type Battery struct {
	specs    []TestSpec
	maxScore int
}

// New validates specs and returns a Battery preserving their order.
func New(specs []TestSpec) (*Battery, error) {
	if len(specs) == 0 {
		return nil, errors.New("battery: no checks")
	}
	seen := make(map[string]bool, len(specs))
	total := 0
	for i, s := range specs {
		if s.Name == "" {
			return nil, errors.Errorf("battery: check %d has no name", i)
		}
		if seen[s.Name] {
			return nil, errors.Errorf("battery: duplicate check %q", s.Name)
		}
		seen[s.Name] = true
		if s.Weight <= 0 {
			return nil, errors.Errorf("battery: check %q weight must be positive", s.Name)
		}
		switch s.Kind {
		case types.KindRead:
		case types.KindWrite:
			if s.Credential != CredentialPosting && s.Credential != CredentialActive {
				return nil, errors.Errorf("battery: write check %q needs a posting or active credential", s.Name)
			}
		default:
			return nil, errors.Errorf("battery: check %q has unknown kind %q", s.Name, s.Kind)
		}
		total += s.Weight
	}
	return &Battery{specs: append([]TestSpec(nil), specs...), maxScore: total}, nil
}

// Specs returns the checks in execution order.
func (b *Battery) Specs() []TestSpec {
	return append([]TestSpec(nil), b.specs...)
}

// Len returns the number of checks.
func (b *Battery) Len() int { return len(b.specs) }

// MaxScore is the sum of all check weights.
func (b *Battery) MaxScore() int { return b.maxScore }

// FromConfig builds the battery described by cfg: the default Hive battery
// when cfg.Checks is empty, otherwise the listed checks in order.
func FromConfig(cfg config.BatteryConfig) (*Battery, error) {
	s := Settings{
		ChainID:    cfg.ChainID,
		Community:  cfg.Community,
		MinVersion: cfg.MinVersion,
	}
	if len(cfg.Checks) == 0 {
		return Default(s)
	}

	specs := make([]TestSpec, 0, len(cfg.Checks))
	for _, c := range cfg.Checks {
		spec := TestSpec{
			Name:          c.Name,
			Description:   c.Description,
			Kind:          types.Kind(c.Kind),
			Method:        c.Method,
			Params:        normalize(c.Params),
			Weight:        c.Weight,
			Credential:    Credential(c.Credential),
			ValidatorName: c.Validator,
		}
		if spec.Credential == "" {
			spec.Credential = CredentialNone
		}
		if spec.Params == nil {
			spec.Params = map[string]any{}
		}
		if c.Validator != "" {
			v, err := Lookup(c.Validator, s)
			if err != nil {
				return nil, errors.Wrapf(err, "battery: check %q", c.Name)
			}
			spec.Validator = v
		}
		specs = append(specs, spec)
	}
	return New(specs)
}

// normalize converts YAML-decoded values into JSON-encodable ones.
// yaml.v3 yields map[string]any for string-keyed mappings but
// map[any]any can still appear for non-string keys.
func normalize(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, e := range t {
			out[k] = normalize(e)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, e := range t {
			ks, _ := k.(string)
			out[ks] = normalize(e)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = normalize(e)
		}
		return out
	default:
		return v
	}
}
