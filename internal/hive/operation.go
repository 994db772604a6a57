package hive

import (
	"encoding/json"

	"github.com/pkg/errors"
)

// Operation ids in the chain's static_variant ordering.
const (
	opTransfer   = 2
	opCustomJSON = 18
)

// Operation is a chain operation that can be broadcast.
type Operation interface {
	// Type is the operation name used in the JSON form.
	Type() string
	id() uint64
	encode(e *encoder) error
}

// Transfer moves a liquid asset between accounts.
type Transfer struct {
	From   string `json:"from"`
	To     string `json:"to"`
	Amount string `json:"amount"`
	Memo   string `json:"memo"`
}

func (Transfer) Type() string { return "transfer" }
func (Transfer) id() uint64   { return opTransfer }

func (t Transfer) encode(e *encoder) error {
	a, err := ParseAsset(t.Amount)
	if err != nil {
		return err
	}
	e.str(t.From)
	e.str(t.To)
	e.asset(a)
	e.str(t.Memo)
	return nil
}

// CustomJSON records an application-defined JSON payload.
type CustomJSON struct {
	RequiredAuths        []string `json:"required_auths"`
	RequiredPostingAuths []string `json:"required_posting_auths"`
	ID                   string   `json:"id"`
	JSON                 string   `json:"json"`
}

func (CustomJSON) Type() string { return "custom_json" }
func (CustomJSON) id() uint64   { return opCustomJSON }

func (c CustomJSON) encode(e *encoder) error {
	e.stringSet(c.RequiredAuths)
	e.stringSet(c.RequiredPostingAuths)
	e.str(c.ID)
	e.str(c.JSON)
	return nil
}

// OperationFromParams decodes JSON-compatible params into the operation
// named by method.
func OperationFromParams(method string, params any) (Operation, error) {
	raw, err := json.Marshal(params)
	if err != nil {
		return nil, errors.Wrap(err, "hive: encode params")
	}
	switch method {
	case "transfer":
		var op Transfer
		if err := json.Unmarshal(raw, &op); err != nil {
			return nil, errors.Wrap(err, "hive: decode transfer")
		}
		if _, err := ParseAsset(op.Amount); err != nil {
			return nil, err
		}
		return op, nil
	case "custom_json":
		var op CustomJSON
		if err := json.Unmarshal(raw, &op); err != nil {
			return nil, errors.Wrap(err, "hive: decode custom_json")
		}
		if op.RequiredAuths == nil {
			op.RequiredAuths = []string{}
		}
		if op.RequiredPostingAuths == nil {
			op.RequiredPostingAuths = []string{}
		}
		return op, nil
	default:
		return nil, errors.Wrapf(ErrUnsupportedOp, "%q", method)
	}
}

// opPair renders an operation as ["name", {...}].
type opPair struct{ op Operation }

func (p opPair) MarshalJSON() ([]byte, error) {
	return json.Marshal([]any{p.op.Type(), p.op})
}
