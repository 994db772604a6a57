package hive

import (
	"encoding/hex"
	"encoding/json"
	"time"

	"github.com/pkg/errors"
)

// expirationWindow is added to the head block time to expire a transaction.
const expirationWindow = 60 * time.Second

// timeLayout is the chain's UTC timestamp format.
const timeLayout = "2006-01-02T15:04:05"

// Transaction is a signed or unsigned transaction in condenser JSON form.
type Transaction struct {
	RefBlockNum    uint16
	RefBlockPrefix uint32
	Expiration     time.Time
	Operations     []Operation
	Signatures     [][]byte
}

type transactionJSON struct {
	RefBlockNum    uint16   `json:"ref_block_num"`
	RefBlockPrefix uint32   `json:"ref_block_prefix"`
	Expiration     string   `json:"expiration"`
	Operations     []opPair `json:"operations"`
	Extensions     []any    `json:"extensions"`
	Signatures     []string `json:"signatures"`
}

// MarshalJSON renders the transaction as condenser_api expects it.
func (tx *Transaction) MarshalJSON() ([]byte, error) {
	out := transactionJSON{
		RefBlockNum:    tx.RefBlockNum,
		RefBlockPrefix: tx.RefBlockPrefix,
		Expiration:     tx.Expiration.UTC().Format(timeLayout),
		Operations:     make([]opPair, len(tx.Operations)),
		Extensions:     []any{},
		Signatures:     make([]string, len(tx.Signatures)),
	}
	for i, op := range tx.Operations {
		out.Operations[i] = opPair{op}
	}
	for i, s := range tx.Signatures {
		out.Signatures[i] = hex.EncodeToString(s)
	}
	return json.Marshal(out)
}

// Serialize encodes the unsigned transaction body.
func (tx *Transaction) Serialize() ([]byte, error) {
	var e encoder
	e.u16(tx.RefBlockNum)
	e.u32(tx.RefBlockPrefix)
	e.u32(uint32(tx.Expiration.Unix()))
	e.uvarint(uint64(len(tx.Operations)))
	for _, op := range tx.Operations {
		e.uvarint(op.id())
		if err := op.encode(&e); err != nil {
			return nil, errors.Wrapf(err, "hive: serialize %s", op.Type())
		}
	}
	e.uvarint(0) // extensions
	return e.bytes(), nil
}

// headBlock is the subset of dynamic global properties a transaction
// references.
type headBlock struct {
	Number uint32 `json:"head_block_number"`
	ID     string `json:"head_block_id"`
	Time   string `json:"time"`
}

// reference fills the TaPoS fields and the expiration from head.
func (tx *Transaction) reference(head headBlock) error {
	id, err := hex.DecodeString(head.ID)
	if err != nil || len(id) < 8 {
		return errors.Errorf("hive: malformed head_block_id %q", head.ID)
	}
	at, err := time.ParseInLocation(timeLayout, head.Time, time.UTC)
	if err != nil {
		return errors.Wrapf(err, "hive: head block time %q", head.Time)
	}
	tx.RefBlockNum = uint16(head.Number & 0xffff)
	tx.RefBlockPrefix = uint32(id[4]) | uint32(id[5])<<8 | uint32(id[6])<<16 | uint32(id[7])<<24
	tx.Expiration = at.Add(expirationWindow)
	return nil
}
