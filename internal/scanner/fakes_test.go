package scanner

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/nodebeacon/beacon/internal/config"
	"github.com/nodebeacon/beacon/internal/hive"
)

var testNow = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

// fakeRPC answers calls with respond and records every call and broadcast.
type fakeRPC struct {
	mu         sync.Mutex
	calls      []string
	broadcasts []hive.Operation
	endpoints  []string

	respond   func(endpoint, method string, params any) (json.RawMessage, error)
	broadcast func(endpoint string, op hive.Operation) error
}

func (f *fakeRPC) Call(ctx context.Context, endpoint, method string, params any) (json.RawMessage, error) {
	f.mu.Lock()
	f.calls = append(f.calls, method)
	f.endpoints = append(f.endpoints, endpoint)
	f.mu.Unlock()
	if f.respond == nil {
		return json.RawMessage(`{}`), nil
	}
	return f.respond(endpoint, method, params)
}

func (f *fakeRPC) Broadcast(ctx context.Context, endpoint string, op hive.Operation, wif string) (json.RawMessage, error) {
	f.mu.Lock()
	f.broadcasts = append(f.broadcasts, op)
	f.endpoints = append(f.endpoints, endpoint)
	f.mu.Unlock()
	if f.broadcast != nil {
		if err := f.broadcast(endpoint, op); err != nil {
			return nil, err
		}
	}
	return json.RawMessage(`{"id":"abc"}`), nil
}

func (f *fakeRPC) broadcastCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.broadcasts)
}

// healthyResponse returns results that satisfy every default validator.
func healthyResponse(_ string, method string, params any) (json.RawMessage, error) {
	switch method {
	case "database_api.get_version":
		return raw(`{"chain_id":%q,"blockchain_version":"1.27.5"}`, config.DefaultChainID), nil
	case "database_api.get_dynamic_global_properties":
		return raw(`{"head_block_number":1,"hbd_interest_rate":2000}`), nil
	case "call":
		switch params.([]any)[1] {
		case "get_accounts":
			return raw(`[{"name":"hiveio"}]`), nil
		case "get_account_history":
			return raw(`[]`), nil
		}
	case "bridge.get_post":
		return raw(`{"post_id":1,"children":12}`), nil
	case "bridge.get_ranked_posts":
		p := params.(map[string]any)
		if p["tag"] == config.DefaultCommunity {
			return postPage(fmt.Sprintf(`{"category":%q,"stats":{"is_pinned":true}}`, config.DefaultCommunity)), nil
		}
		fresh := testNow.Add(-time.Minute).Format("2006-01-02T15:04:05")
		return postPage(fmt.Sprintf(`{"created":%q}`, fresh)), nil
	}
	return raw(`[]`), nil
}

func postPage(first string) json.RawMessage {
	items := make([]string, 25)
	items[0] = first
	for i := 1; i < len(items); i++ {
		items[i] = `{}`
	}
	return json.RawMessage("[" + strings.Join(items, ",") + "]")
}

func raw(format string, args ...any) json.RawMessage {
	return json.RawMessage(fmt.Sprintf(format, args...))
}

// panicMemo panics on the nth Text call.
type panicMemo struct {
	mu sync.Mutex
	n  int
	at int
}

func (p *panicMemo) Text() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.n++
	if p.n == p.at {
		panic("memo exploded")
	}
	return "memo"
}

func configCreds(postingEnv, activeEnv string) config.CredentialsConfig {
	return config.CredentialsConfig{PostingKeyEnv: postingEnv, ActiveKeyEnv: activeEnv}
}
