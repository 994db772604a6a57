package battery

import (
	"bytes"
	"encoding/json"
	"sort"
	"sync"
	"time"

	"github.com/hashicorp/go-version"
	"github.com/pkg/errors"
)

// Settings are the battery-wide values validators close over.
type Settings struct {
	ChainID    string
	Community  string
	MinVersion string

	// Now is the clock used by freshness validators. Defaults to time.Now.
	Now func() time.Time
}

func (s Settings) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// Factory builds a Validator bound to the given settings.
type Factory func(s Settings) (Validator, error)

// Names of the built-in validators.
const (
	ValidateChainID          = "chain_id"
	ValidateGlobalProperties = "global_properties"
	ValidateSingleAccount    = "single_account"
	ValidatePostWithReplies  = "post_with_replies"
	ValidateFreshRanked      = "fresh_ranked_posts"
	ValidatePinnedCommunity  = "pinned_community_posts"
	ValidateEmptyArray       = "empty_array"
	ValidateNonEmpty         = "non_empty"
)

// rankedLimit is the page size requested by the ranked-post checks.
const rankedLimit = 25

// freshWindow bounds the age of the newest post in the created feed.
const freshWindow = 5 * time.Minute

// hiveTimeLayout is the timestamp format used by Hive APIs (UTC, no zone).
const hiveTimeLayout = "2006-01-02T15:04:05"

var (
	registryMu sync.RWMutex
	registry   = map[string]Factory{
		ValidateChainID:          chainIDValidator,
		ValidateGlobalProperties: func(Settings) (Validator, error) { return validateGlobalProperties, nil },
		ValidateSingleAccount:    func(Settings) (Validator, error) { return arrayOfLen(1), nil },
		ValidatePostWithReplies:  func(Settings) (Validator, error) { return validatePostWithReplies, nil },
		ValidateFreshRanked:      freshRankedValidator,
		ValidatePinnedCommunity:  pinnedCommunityValidator,
		ValidateEmptyArray:       func(Settings) (Validator, error) { return arrayOfLen(0), nil },
		ValidateNonEmpty:         func(Settings) (Validator, error) { return validateNonEmpty, nil },
	}
)

// Register adds or replaces a named validator factory.
func Register(name string, f Factory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[name] = f
}

// Lookup builds the named validator.
func Lookup(name string, s Settings) (Validator, error) {
	registryMu.RLock()
	f, ok := registry[name]
	registryMu.RUnlock()
	if !ok {
		return nil, errors.Errorf("unknown validator %q", name)
	}
	return f(s)
}

// Names lists the registered validators, sorted.
func Names() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	out := make([]string, 0, len(registry))
	for n := range registry {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

func chainIDValidator(s Settings) (Validator, error) {
	var min *version.Version
	if s.MinVersion != "" {
		v, err := version.NewVersion(s.MinVersion)
		if err != nil {
			return nil, errors.Wrapf(err, "parse min_version %q", s.MinVersion)
		}
		min = v
	}
	want := s.ChainID

	return func(result json.RawMessage) error {
		var r struct {
			ChainID           string `json:"chain_id"`
			BlockchainVersion string `json:"blockchain_version"`
		}
		if err := json.Unmarshal(result, &r); err != nil {
			return errors.Wrap(err, "decode version")
		}
		if r.ChainID != want {
			return errors.Errorf("chain_id %q does not match %q", r.ChainID, want)
		}
		if min == nil {
			return nil
		}
		got, err := version.NewVersion(r.BlockchainVersion)
		if err != nil {
			return errors.Wrapf(err, "parse blockchain_version %q", r.BlockchainVersion)
		}
		if got.LessThan(min) {
			return errors.Errorf("blockchain_version %s is older than %s", got, min)
		}
		return nil
	}, nil
}

func validateGlobalProperties(result json.RawMessage) error {
	var r map[string]json.RawMessage
	if err := json.Unmarshal(result, &r); err != nil {
		return errors.Wrap(err, "decode properties")
	}
	for _, k := range []string{"head_block_number", "hbd_interest_rate"} {
		if _, ok := r[k]; !ok {
			return errors.Errorf("missing %s", k)
		}
	}
	return nil
}

func arrayOfLen(n int) Validator {
	return func(result json.RawMessage) error {
		items, err := decodeArray(result)
		if err != nil {
			return err
		}
		if len(items) != n {
			return errors.Errorf("got %d items, want %d", len(items), n)
		}
		return nil
	}
}

func validatePostWithReplies(result json.RawMessage) error {
	var r struct {
		PostID   int64 `json:"post_id"`
		Children int   `json:"children"`
	}
	if err := json.Unmarshal(result, &r); err != nil {
		return errors.Wrap(err, "decode post")
	}
	if r.PostID == 0 {
		return errors.New("post_id missing")
	}
	if r.Children <= 1 {
		return errors.Errorf("post has %d children, want more than 1", r.Children)
	}
	return nil
}

func freshRankedValidator(s Settings) (Validator, error) {
	return func(result json.RawMessage) error {
		var posts []struct {
			Created string `json:"created"`
		}
		if err := decodeInto(result, &posts); err != nil {
			return err
		}
		if len(posts) != rankedLimit {
			return errors.Errorf("got %d posts, want %d", len(posts), rankedLimit)
		}
		created, err := time.ParseInLocation(hiveTimeLayout, posts[0].Created, time.UTC)
		if err != nil {
			return errors.Wrapf(err, "parse created %q", posts[0].Created)
		}
		cutoff := s.now().UTC().Add(-freshWindow).Truncate(time.Second)
		if !created.After(cutoff) {
			return errors.Errorf("newest post created %s is older than %s", posts[0].Created, freshWindow)
		}
		return nil
	}, nil
}

func pinnedCommunityValidator(s Settings) (Validator, error) {
	community := s.Community
	return func(result json.RawMessage) error {
		var posts []struct {
			Category string `json:"category"`
			Stats    *struct {
				IsPinned bool `json:"is_pinned"`
			} `json:"stats"`
		}
		if err := decodeInto(result, &posts); err != nil {
			return err
		}
		if len(posts) != rankedLimit {
			return errors.Errorf("got %d posts, want %d", len(posts), rankedLimit)
		}
		first := posts[0]
		if first.Category != community {
			return errors.Errorf("first post category %q, want %q", first.Category, community)
		}
		if first.Stats == nil || !first.Stats.IsPinned {
			return errors.New("first post is not pinned")
		}
		return nil
	}, nil
}

func validateNonEmpty(result json.RawMessage) error {
	trimmed := bytes.TrimSpace(result)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return errors.New("empty result")
	}
	return nil
}

func decodeArray(result json.RawMessage) ([]json.RawMessage, error) {
	var items []json.RawMessage
	if err := decodeInto(result, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// decodeInto unmarshals a JSON array, rejecting null and non-array values.
func decodeInto(result json.RawMessage, dst any) error {
	trimmed := bytes.TrimSpace(result)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return errors.New("result is not an array")
	}
	return errors.Wrap(json.Unmarshal(trimmed, dst), "decode array")
}
