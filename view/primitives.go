package view

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"math/big"
	"strconv"
	"strings"
	"time"
)

// ObjectID is the 12 byte BSON object identifier.
type ObjectID [12]byte

// Hex returns the lowercase hexadecimal form of the id.
func (id ObjectID) Hex() string {
	return hex.EncodeToString(id[:])
}

func (id ObjectID) String() string {
	return fmt.Sprintf("ObjectID(%q)", id.Hex())
}

// Timestamp returns the creation time embedded in the first four bytes (big-endian seconds).
func (id ObjectID) Timestamp() time.Time {
	return time.Unix(int64(binary.BigEndian.Uint32(id[0:4])), 0).UTC()
}

// ObjectIDFromHex parses a 24 character hexadecimal string.
func ObjectIDFromHex(s string) (ObjectID, error) {
	var id ObjectID
	if len(s) != 24 {
		return id, fmt.Errorf("object id %q: expected 24 hex characters", s)
	}
	if _, err := hex.Decode(id[:], []byte(s)); err != nil {
		return id, fmt.Errorf("object id %q: %w", s, err)
	}

	return id, nil
}

// Binary is a binary payload with its subtype. Data aliases the view's buffer.
type Binary struct {
	Subtype byte
	Data    []byte
}

// Timestamp is the replication timestamp: T is seconds, I the ordinal within the second.
type Timestamp struct {
	T uint32
	I uint32
}

// Regex is a regular expression with its option flags.
type Regex struct {
	Pattern string
	Options string
}

// DBPointer is the deprecated namespace plus id reference.
type DBPointer struct {
	Namespace string
	ID        ObjectID
}

// CodeWithScope is JavaScript code with its encoded scope document.
type CodeWithScope struct {
	Code  string
	Scope []byte
}

// JavaScript is JavaScript code stored as a string.
type JavaScript string

// Symbol is the deprecated symbol type.
type Symbol string

// Undefined is the deprecated undefined value.
type Undefined struct{}

// MinKey compares lower than all other BSON values.
type MinKey struct{}

// MaxKey compares higher than all other BSON values.
type MaxKey struct{}

// Decimal128 is an IEEE-754 128-bit decimal floating point number.
type Decimal128 struct {
	High uint64
	Low  uint64
}

const (
	decimal128Bias     = 6176
	decimal128Exponent = 0x3FFF
)

// String formats the decimal using the same rules as the server: plain notation
// for small exponents, scientific notation otherwise.
func (d Decimal128) String() string {
	negative := d.High>>63 == 1
	sign := ""
	if negative {
		sign = "-"
	}

	switch (d.High >> 58) & 0x1F {
	case 0x1F:
		return "NaN"
	case 0x1E:
		return sign + "Infinity"
	}

	var exp int
	coeff := new(big.Int)
	if (d.High>>61)&0x3 == 0x3 {
		// coefficients in this form exceed the maximum and are treated as zero
		exp = int((d.High >> 47) & decimal128Exponent)
	} else {
		exp = int((d.High >> 49) & decimal128Exponent)
		coeff.SetUint64(d.High & 0x1FFFFFFFFFFFF)
		coeff.Lsh(coeff, 64)
		coeff.Or(coeff, new(big.Int).SetUint64(d.Low))
	}
	exp -= decimal128Bias

	digits := coeff.String()
	adjusted := exp + len(digits) - 1

	var sb strings.Builder
	sb.WriteString(sign)
	switch {
	case exp > 0 || adjusted < -6:
		sb.WriteByte(digits[0])
		if len(digits) > 1 {
			sb.WriteByte('.')
			sb.WriteString(digits[1:])
		}
		sb.WriteByte('E')
		if adjusted >= 0 {
			sb.WriteByte('+')
		}
		sb.WriteString(strconv.Itoa(adjusted))
	case exp == 0:
		sb.WriteString(digits)
	default:
		point := len(digits) + exp
		if point > 0 {
			sb.WriteString(digits[:point])
			sb.WriteByte('.')
			sb.WriteString(digits[point:])
		} else {
			sb.WriteString("0.")
			sb.WriteString(strings.Repeat("0", -point))
			sb.WriteString(digits)
		}
	}

	return sb.String()
}
