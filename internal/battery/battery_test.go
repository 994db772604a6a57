package battery

import (
	"encoding/json"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nodebeacon/beacon/internal/config"
	"github.com/nodebeacon/beacon/pkg/types"
)

var testSettings = Settings{
	ChainID:   config.DefaultChainID,
	Community: config.DefaultCommunity,
}

func TestDefault_Shape(t *testing.T) {
	b, err := Default(testSettings)
	require.NoError(t, err)

	assert.Equal(t, 14, b.Len())
	assert.Equal(t, 255, b.MaxScore())

	specs := b.Specs()
	assert.Equal(t, CheckVersion, specs[0].Name)
	assert.Equal(t, 50, specs[0].Weight)

	// Writes run last, each with the right key.
	assert.Equal(t, types.KindWrite, specs[12].Kind)
	assert.Equal(t, CredentialPosting, specs[12].Credential)
	assert.Equal(t, types.KindWrite, specs[13].Kind)
	assert.Equal(t, CredentialActive, specs[13].Credential)
	for _, s := range specs[:12] {
		assert.Equal(t, types.KindRead, s.Kind, s.Name)
	}
}

func TestNew_Rejects(t *testing.T) {
	read := TestSpec{Name: "a", Kind: types.KindRead, Method: "m", Weight: 1}

	_, err := New(nil)
	assert.Error(t, err)

	_, err = New([]TestSpec{read, read})
	assert.ErrorContains(t, err, "duplicate")

	zero := read
	zero.Weight = 0
	_, err = New([]TestSpec{zero})
	assert.ErrorContains(t, err, "weight")

	write := TestSpec{Name: "w", Kind: types.KindWrite, Method: "transfer", Weight: 1}
	_, err = New([]TestSpec{write})
	assert.ErrorContains(t, err, "credential")
}

func TestSpecs_ReturnsCopy(t *testing.T) {
	b, err := Default(testSettings)
	require.NoError(t, err)

	specs := b.Specs()
	specs[0].Weight = 1
	assert.Equal(t, 50, b.Specs()[0].Weight)
}

func TestFromConfig_Custom(t *testing.T) {
	b, err := FromConfig(config.BatteryConfig{
		ChainID:   config.DefaultChainID,
		Community: "hive-1",
		Checks: []config.CheckConfig{
			{Name: "version", Kind: "read", Method: "database_api.get_version", Weight: 10, Validator: ValidateChainID},
			{Name: "blog", Kind: "read", Method: "bridge.get_account_posts", Weight: 5,
				Params: map[string]any{"account": "$account", "nested": map[any]any{"k": []any{"$memo"}}}},
			{Name: "ping", Kind: "write", Method: "custom_json", Weight: 5, Credential: "posting"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 20, b.MaxScore())

	specs := b.Specs()
	assert.NotNil(t, specs[0].Validator)
	assert.Nil(t, specs[1].Validator)
	assert.Equal(t, CredentialNone, specs[1].Credential)

	// YAML-style maps are normalized so they encode as JSON.
	_, err = json.Marshal(specs[1].Params)
	assert.NoError(t, err)
}

func TestFromConfig_UnknownValidator(t *testing.T) {
	_, err := FromConfig(config.BatteryConfig{
		ChainID: config.DefaultChainID,
		Checks:  []config.CheckConfig{{Name: "x", Kind: "read", Method: "m", Weight: 1, Validator: "nope"}},
	})
	assert.ErrorContains(t, err, "unknown validator")
}

func TestFromConfig_Default(t *testing.T) {
	b, err := FromConfig(config.BatteryConfig{ChainID: config.DefaultChainID})
	require.NoError(t, err)
	assert.Equal(t, 14, b.Len())
}

// --- placeholder substitution ---

func TestContext_Resolve(t *testing.T) {
	ctx := Context{Account: "peakd", Beacon: "beacon.bot", Community: "hive-1", HistoryAccount: "peak.beacon", Memo: "hello"}
	tmpl := map[string]any{
		"from":   "$beacon",
		"memo":   "$memo",
		"tag":    "$community",
		"plain":  "keep $account inline",
		"limit":  25,
		"nested": []any{"$history_account", -1, []any{"$account"}},
	}

	got := ctx.Resolve(tmpl).(map[string]any)
	assert.Equal(t, "beacon.bot", got["from"])
	assert.Equal(t, "hello", got["memo"])
	assert.Equal(t, "hive-1", got["tag"])
	assert.Equal(t, "keep $account inline", got["plain"])
	assert.Equal(t, 25, got["limit"])
	assert.Equal(t, []any{"peak.beacon", -1, []any{"peakd"}}, got["nested"])

	// Template untouched.
	assert.Equal(t, "$beacon", tmpl["from"])
}

// --- validators ---

func TestChainIDValidator(t *testing.T) {
	v, err := Lookup(ValidateChainID, testSettings)
	require.NoError(t, err)

	assert.NoError(t, v(raw(`{"chain_id":"%s","blockchain_version":"1.27.5"}`, config.DefaultChainID)))
	assert.Error(t, v(raw(`{"chain_id":"0000"}`)))
	assert.Error(t, v(raw(`[]`)))
}

func TestChainIDValidator_MinVersion(t *testing.T) {
	s := testSettings
	s.MinVersion = "1.27.4"
	v, err := Lookup(ValidateChainID, s)
	require.NoError(t, err)

	assert.NoError(t, v(raw(`{"chain_id":"%s","blockchain_version":"1.27.5"}`, config.DefaultChainID)))
	assert.ErrorContains(t, v(raw(`{"chain_id":"%s","blockchain_version":"1.26.1"}`, config.DefaultChainID)), "older")

	s.MinVersion = "not a version"
	_, err = Lookup(ValidateChainID, s)
	assert.Error(t, err)
}

func TestGlobalProperties(t *testing.T) {
	assert.NoError(t, validateGlobalProperties(raw(`{"head_block_number":1,"hbd_interest_rate":2000}`)))
	assert.Error(t, validateGlobalProperties(raw(`{"head_block_number":1}`)))
}

func TestArrayOfLen(t *testing.T) {
	one := arrayOfLen(1)
	assert.NoError(t, one(raw(`[{"name":"hiveio"}]`)))
	assert.Error(t, one(raw(`[]`)))
	assert.Error(t, one(raw(`null`)))
	assert.Error(t, one(raw(`{"0":1}`)))

	empty := arrayOfLen(0)
	assert.NoError(t, empty(raw(`[]`)))
	assert.Error(t, empty(raw(`null`)))
}

func TestPostWithReplies(t *testing.T) {
	assert.NoError(t, validatePostWithReplies(raw(`{"post_id":123,"children":7}`)))
	assert.Error(t, validatePostWithReplies(raw(`{"post_id":123,"children":1}`)))
	assert.Error(t, validatePostWithReplies(raw(`{"children":9}`)))
	assert.Error(t, validatePostWithReplies(raw(`null`)))
}

func TestFreshRanked(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	s := testSettings
	s.Now = func() time.Time { return now }
	v, err := Lookup(ValidateFreshRanked, s)
	require.NoError(t, err)

	assert.NoError(t, v(posts(25, `{"created":"2024-03-01T11:58:00"}`)))
	assert.Error(t, v(posts(25, `{"created":"2024-03-01T11:50:00"}`)), "stale")
	assert.Error(t, v(posts(24, `{"created":"2024-03-01T11:59:59"}`)), "short page")
}

func TestPinnedCommunity(t *testing.T) {
	v, err := Lookup(ValidatePinnedCommunity, testSettings)
	require.NoError(t, err)

	pinned := fmt.Sprintf(`{"category":%q,"stats":{"is_pinned":true}}`, config.DefaultCommunity)
	assert.NoError(t, v(posts(25, pinned)))
	assert.Error(t, v(posts(25, `{"category":"hive-1","stats":{"is_pinned":true}}`)))
	assert.Error(t, v(posts(25, fmt.Sprintf(`{"category":%q}`, config.DefaultCommunity))))
	assert.Error(t, v(posts(3, pinned)))
}

func TestRegister(t *testing.T) {
	Register("always_fail", func(Settings) (Validator, error) {
		return func(json.RawMessage) error { return fmt.Errorf("nope") }, nil
	})
	assert.Contains(t, Names(), "always_fail")

	v, err := Lookup("always_fail", Settings{})
	require.NoError(t, err)
	assert.Error(t, v(raw(`{}`)))
}

// --- helpers ---

func raw(format string, args ...any) json.RawMessage {
	return json.RawMessage(fmt.Sprintf(format, args...))
}

// posts builds an array of n items whose first element is first.
func posts(n int, first string) json.RawMessage {
	items := make([]string, n)
	items[0] = first
	for i := 1; i < n; i++ {
		items[i] = `{"category":"x","created":"2020-01-01T00:00:00"}`
	}
	return json.RawMessage("[" + strings.Join(items, ",") + "]")
}

// --- default battery construction ---------------------------------------------

func TestDefault_AccountHistoryFilter(t *testing.T) {
	b, err := Default(testSettings)
	require.NoError(t, err)

	var params any
	for _, s := range b.Specs() {
		if s.Name == CheckAccountHistory {
			params = s.Params
		}
	}
	require.NotNil(t, params)
	body, err := json.Marshal(params)
	require.NoError(t, err)
	assert.JSONEq(t, `["database_api","get_account_history",["$history_account",-1,500,"4096",null]]`, string(body))
}

func TestDefault_ValidatorFactoryError(t *testing.T) {
	for _, name := range []string{ValidateFreshRanked, ValidatePinnedCommunity} {
		t.Run(name, func(t *testing.T) {
			registryMu.RLock()
			orig := registry[name]
			registryMu.RUnlock()
			t.Cleanup(func() { Register(name, orig) })

			Register(name, func(Settings) (Validator, error) { return nil, fmt.Errorf("%s unavailable", name) })

			b, err := Default(testSettings)
			assert.Nil(t, b)
			assert.ErrorContains(t, err, name+" unavailable")
		})
	}
}
