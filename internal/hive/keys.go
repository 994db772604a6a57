package hive

import (
	"bytes"
	"crypto/sha256"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/ecdsa"
	"github.com/decred/base58"
	"github.com/pkg/errors"
)

const (
	wifVersion  = 0x80
	wifKeyLen   = 32
	wifChecksum = 4
)

// PrivateKey is a secp256k1 signing key decoded from WIF.
type PrivateKey struct {
	key *btcec.PrivateKey
}

// ParseWIF decodes a wallet-import-format private key.
func ParseWIF(wif string) (*PrivateKey, error) {
	raw := base58.Decode(wif)
	if len(raw) != 1+wifKeyLen+wifChecksum {
		return nil, errors.Wrapf(ErrInvalidKey, "decoded length %d", len(raw))
	}
	if raw[0] != wifVersion {
		return nil, errors.Wrapf(ErrInvalidKey, "version byte 0x%02x", raw[0])
	}
	body, sum := raw[:1+wifKeyLen], raw[1+wifKeyLen:]
	if !bytes.Equal(doubleSHA256(body)[:wifChecksum], sum) {
		return nil, errors.Wrap(ErrInvalidKey, "checksum mismatch")
	}
	priv, _ := btcec.PrivKeyFromBytes(body[1:])
	return &PrivateKey{key: priv}, nil
}

// PublicKey returns the compressed public key bytes.
func (k *PrivateKey) PublicKey() []byte {
	return k.key.PubKey().SerializeCompressed()
}

// SignDigest returns a 65-byte compact recoverable signature of digest.
func (k *PrivateKey) SignDigest(digest []byte) ([]byte, error) {
	sig, err := ecdsa.SignCompact(k.key, digest, true)
	if err != nil {
		return nil, errors.Wrap(err, "hive: sign")
	}
	return sig, nil
}

// isCanonical reports whether a compact signature satisfies the legacy
// canonical rule older nodes still enforce: neither r nor s may be padded
// or have the high bit set.
func isCanonical(sig []byte) bool {
	if len(sig) != 65 {
		return false
	}
	r, s := sig[1:33], sig[33:65]
	return r[0]&0x80 == 0 && !(r[0] == 0 && r[1]&0x80 == 0) &&
		s[0]&0x80 == 0 && !(s[0] == 0 && s[1]&0x80 == 0)
}

func doubleSHA256(b []byte) []byte {
	first := sha256.Sum256(b)
	second := sha256.Sum256(first[:])
	return second[:]
}
