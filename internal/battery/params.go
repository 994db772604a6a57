package battery

// Placeholders recognised in params templates. Only whole-string values are
// replaced; substrings are left alone.
const (
	PlaceholderAccount        = "$account"
	PlaceholderBeacon         = "$beacon"
	PlaceholderCommunity      = "$community"
	PlaceholderHistoryAccount = "$history_account"
	PlaceholderMemo           = "$memo"
)

// Context carries the values substituted into params templates.
type Context struct {
	// Account is the read target for account-scoped queries.
	Account string
	// Beacon is the account that signs write checks.
	Beacon         string
	Community      string
	HistoryAccount string
	Memo           string
}

func (c Context) vars() map[string]string {
	return map[string]string{
		PlaceholderAccount:        c.Account,
		PlaceholderBeacon:         c.Beacon,
		PlaceholderCommunity:      c.Community,
		PlaceholderHistoryAccount: c.HistoryAccount,
		PlaceholderMemo:           c.Memo,
	}
}

// Resolve returns a deep copy of params with placeholders replaced.
// The template itself is never modified.
func (c Context) Resolve(params any) any {
	return substitute(params, c.vars())
}

func substitute(v any, vars map[string]string) any {
	switch t := v.(type) {
	case string:
		if r, ok := vars[t]; ok {
			return r
		}
		return t
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, e := range t {
			out[k] = substitute(e, vars)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = substitute(e, vars)
		}
		return out
	case []string:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = substitute(e, vars)
		}
		return out
	default:
		return v
	}
}
