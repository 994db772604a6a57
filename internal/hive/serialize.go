package hive

import (
	"bytes"
	"encoding/binary"
	"sort"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Asset is a fixed-point amount with a symbol.
type Asset struct {
	Amount    int64
	Precision uint8
	Symbol    string
}

// legacySymbols maps current symbols to the names serialized on the wire.
var legacySymbols = map[string]string{
	"HIVE": "STEEM",
	"HBD":  "SBD",
}

// ParseAsset parses "0.001 HIVE" style amounts.
func ParseAsset(s string) (Asset, error) {
	fields := strings.Fields(s)
	if len(fields) != 2 {
		return Asset{}, errors.Errorf("hive: malformed asset %q", s)
	}
	num, sym := fields[0], fields[1]

	var precision int
	if i := strings.IndexByte(num, '.'); i >= 0 {
		precision = len(num) - i - 1
		num = num[:i] + num[i+1:]
	}
	amount, err := strconv.ParseInt(num, 10, 64)
	if err != nil {
		return Asset{}, errors.Wrapf(err, "hive: asset amount %q", s)
	}
	if len(sym) == 0 || len(sym) > 7 || precision > 18 {
		return Asset{}, errors.Errorf("hive: asset symbol or precision out of range in %q", s)
	}
	return Asset{Amount: amount, Precision: uint8(precision), Symbol: sym}, nil
}

// encoder writes the chain's little-endian binary format.
type encoder struct {
	buf bytes.Buffer
}

func (e *encoder) u8(v uint8) { e.buf.WriteByte(v) }

func (e *encoder) u16(v uint16) {
	var b [2]byte
	binary.LittleEndian.PutUint16(b[:], v)
	e.buf.Write(b[:])
}

func (e *encoder) u32(v uint32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	e.buf.Write(b[:])
}

func (e *encoder) i64(v int64) {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], uint64(v))
	e.buf.Write(b[:])
}

func (e *encoder) uvarint(v uint64) {
	var b [binary.MaxVarintLen64]byte
	n := binary.PutUvarint(b[:], v)
	e.buf.Write(b[:n])
}

func (e *encoder) str(s string) {
	e.uvarint(uint64(len(s)))
	e.buf.WriteString(s)
}

// stringSet writes a flat_set<string>: sorted, length-prefixed.
func (e *encoder) stringSet(ss []string) {
	sorted := append([]string(nil), ss...)
	sort.Strings(sorted)
	e.uvarint(uint64(len(sorted)))
	for _, s := range sorted {
		e.str(s)
	}
}

func (e *encoder) asset(a Asset) {
	sym := a.Symbol
	if legacy, ok := legacySymbols[sym]; ok {
		sym = legacy
	}
	e.i64(a.Amount)
	e.u8(a.Precision)
	var b [7]byte
	copy(b[:], sym)
	e.buf.Write(b[:])
}

func (e *encoder) bytes() []byte { return e.buf.Bytes() }
