package back

import (
	"bytes"
	"crypto/sha512"
	"encoding/base32"
	"encoding/base64"
	"encoding/hex"
	"strconv"
	"strings"

	"tlog.app/go/errors"

	"github.com/slowlang/tealc/compiler/ir"
)

// TmplPrefix marks template placeholders substituted after compilation.
const TmplPrefix = "TMPL_"

const (
	addrLen     = 58
	checksumLen = 4
)

// IntEnum maps named integer constants to their values.
var IntEnum = map[string]uint64{
	// OnComplete
	"NoOp":              0,
	"OptIn":             1,
	"CloseOut":          2,
	"ClearState":        3,
	"UpdateApplication": 4,
	"DeleteApplication": 5,

	// TxnType
	"unknown": 0,
	"pay":     1,
	"keyreg":  2,
	"acfg":    3,
	"axfer":   4,
	"afrz":    5,
	"appl":    6,
}

var b32 = base32.StdEncoding.WithPadding(base32.NoPadding)

// IntValue returns the canonical form of the value an int instruction loads.
// Template placeholders are returned as is.
func IntValue(in *ir.Instr) (string, error) {
	if len(in.Args) != 1 {
		return "", ir.NewInternalError("unexpected args in %v opcode: %v", in.Op, in.Args)
	}

	switch v := in.Args[0].(type) {
	case uint64:
		return strconv.FormatUint(v, 10), nil
	case string:
		if strings.HasPrefix(v, TmplPrefix) {
			return v, nil
		}

		x, ok := IntEnum[v]
		if !ok {
			return "", ir.NewInternalError("int constant not recognized: %v", v)
		}

		return strconv.FormatUint(x, 10), nil
	default:
		return "", ir.NewInternalError("unexpected args in %v opcode: %v", in.Op, in.Args)
	}
}

// BytesValue returns the canonical 0x-hex form of the value a byte instruction loads.
// Template placeholders are returned as is.
func BytesValue(in *ir.Instr) (string, error) {
	v, err := stringArg(in)
	if err != nil {
		return "", err
	}

	if strings.HasPrefix(v, TmplPrefix) {
		return v, nil
	}

	b, err := ParseBytes(v)
	if err != nil {
		return "", ir.NewInternalError("byte value %v: %v", v, err)
	}

	return "0x" + hex.EncodeToString(b), nil
}

// AddrValue returns the canonical 0x-hex form of the public key an addr instruction loads.
// Template placeholders are returned as is.
func AddrValue(in *ir.Instr) (string, error) {
	v, err := stringArg(in)
	if err != nil {
		return "", err
	}

	if strings.HasPrefix(v, TmplPrefix) {
		return v, nil
	}

	pk, err := DecodeAddress(v)
	if err != nil {
		return "", ir.NewInternalError("addr value %v: %v", v, err)
	}

	return "0x" + hex.EncodeToString(pk), nil
}

func stringArg(in *ir.Instr) (string, error) {
	if len(in.Args) == 1 {
		if v, ok := in.Args[0].(string); ok {
			return v, nil
		}
	}

	return "", ir.NewInternalError("unexpected args in %v opcode: %v", in.Op, in.Args)
}

// ParseBytes decodes a byte literal in one of the notations:
// "quoted", 0xhex, base32(...) and base64(...).
func ParseBytes(s string) ([]byte, error) {
	switch {
	case len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"':
		return Unquote(s)
	case strings.HasPrefix(s, "0x"):
		return hex.DecodeString(s[2:])
	case strings.HasPrefix(s, "base32(") && strings.HasSuffix(s, ")"):
		x := s[len("base32(") : len(s)-1]

		return b32.DecodeString(strings.TrimRight(x, "="))
	case strings.HasPrefix(s, "base64(") && strings.HasSuffix(s, ")"):
		return base64.StdEncoding.DecodeString(s[len("base64(") : len(s)-1])
	default:
		return nil, errors.New("unexpected format for byte value")
	}
}

// Quote makes a quoted string literal.
// Bytes outside of printable ASCII are escaped.
func Quote(b []byte) string {
	q := make([]byte, 0, len(b)+2)

	q = append(q, '"')

	for _, c := range b {
		switch {
		case c == '\\':
			q = append(q, `\\`...)
		case c == '"':
			q = append(q, `\"`...)
		case c == '\t':
			q = append(q, `\t`...)
		case c == '\n':
			q = append(q, `\n`...)
		case c == '\r':
			q = append(q, `\r`...)
		case c < ' ' || c >= 0x7f:
			q = append(q, `\x`...)
			q = append(q, hex.EncodeToString([]byte{c})...)
		default:
			q = append(q, c)
		}
	}

	q = append(q, '"')

	return string(q)
}

// Unquote parses a quoted string literal.
func Unquote(s string) ([]byte, error) {
	if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
		return nil, errors.New("no quotes")
	}

	s = s[1 : len(s)-1]
	r := make([]byte, 0, len(s))

	for i := 0; i < len(s); i++ {
		c := s[i]

		if c != '\\' {
			r = append(r, c)
			continue
		}

		i++
		if i == len(s) {
			return nil, errors.New("non-terminated escape seq")
		}

		switch s[i] {
		case 'n':
			c = '\n'
		case 'r':
			c = '\r'
		case 't':
			c = '\t'
		case '\\', '"':
			c = s[i]
		case 'x':
			if i+3 > len(s) {
				return nil, errors.New("non-terminated hex seq")
			}

			x, err := strconv.ParseUint(s[i+1:i+3], 16, 8)
			if err != nil {
				return nil, errors.Wrap(err, "hex seq")
			}

			c = byte(x)
			i += 2
		default:
			return nil, errors.New("invalid escape seq \\%c", s[i])
		}

		r = append(r, c)
	}

	return r, nil
}

// DecodeAddress returns the public key of an address in its checksummed base32 form.
func DecodeAddress(a string) ([]byte, error) {
	if len(a) != addrLen {
		return nil, errors.New("address length %d, expected %d", len(a), addrLen)
	}

	b, err := b32.DecodeString(a)
	if err != nil {
		return nil, errors.Wrap(err, "decode address")
	}

	pk, sum := b[:len(b)-checksumLen], b[len(b)-checksumLen:]

	h := sha512.Sum512_256(pk)

	if !bytes.Equal(h[len(h)-checksumLen:], sum) {
		return nil, errors.New("address checksum mismatch")
	}

	return pk, nil
}
