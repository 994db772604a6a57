package hive

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"time"

	"github.com/pkg/errors"
)

// maxSignAttempts bounds the expiration bumps used to reach a canonical
// signature.
const maxSignAttempts = 16

// Broadcast signs op with the WIF key and submits it to endpoint, waiting
// for the node to include it in a block. The returned raw result is the
// node's inclusion receipt.
func (c *Client) Broadcast(ctx context.Context, endpoint string, op Operation, wif string) (json.RawMessage, error) {
	key, err := ParseWIF(wif)
	if err != nil {
		return nil, err
	}

	raw, err := c.Call(ctx, endpoint, "condenser_api.get_dynamic_global_properties", []any{})
	if err != nil {
		return nil, errors.Wrap(err, "hive: reference block")
	}
	var head headBlock
	if err := json.Unmarshal(raw, &head); err != nil {
		return nil, errors.Wrap(err, "hive: decode dynamic global properties")
	}

	tx := &Transaction{Operations: []Operation{op}}
	if err := tx.reference(head); err != nil {
		return nil, err
	}
	if err := c.Sign(tx, key); err != nil {
		return nil, err
	}

	raw, err = c.Call(ctx, endpoint, "condenser_api.broadcast_transaction_synchronous", []any{tx})
	if err != nil {
		return nil, err
	}
	var receipt struct {
		Expired bool `json:"expired"`
	}
	if err := json.Unmarshal(raw, &receipt); err != nil {
		return nil, errors.Wrap(err, "hive: decode broadcast receipt")
	}
	if receipt.Expired {
		return nil, errors.New("hive: transaction expired before inclusion")
	}
	return raw, nil
}

// Sign appends a canonical signature over the chain-bound digest of tx.
// The expiration is nudged forward one second at a time until the
// deterministic signature is canonical.
func (c *Client) Sign(tx *Transaction, key *PrivateKey) error {
	for attempt := 0; attempt < maxSignAttempts; attempt++ {
		digest, err := c.Digest(tx)
		if err != nil {
			return err
		}
		sig, err := key.SignDigest(digest)
		if err != nil {
			return err
		}
		if isCanonical(sig) {
			tx.Signatures = append(tx.Signatures, sig)
			return nil
		}
		tx.Expiration = tx.Expiration.Add(time.Second)
	}
	return ErrNonCanonicalSign
}

// Digest is sha256(chain_id || serialized transaction).
func (c *Client) Digest(tx *Transaction) ([]byte, error) {
	body, err := tx.Serialize()
	if err != nil {
		return nil, err
	}
	h := sha256.New()
	h.Write(c.chainID)
	h.Write(body)
	return h.Sum(nil), nil
}
