package gotdir

import (
	"context"
	"fmt"
)

// TKK is the key pair used to compute the request token of Google's web
// translation endpoint. The endpoint rotates its key, so the pair is
// configuration rather than something fetched at runtime.
type TKK struct {
	A int64 `json:"a" yaml:"a" toml:"a"`
	B int64 `json:"b" yaml:"b" toml:"b"`
}

// DefaultTKK is the pinned key pair.
var DefaultTKK = TKK{A: 448487, B: 932609646}

func (k TKK) String() string {
	return fmt.Sprintf("%d.%d", k.A, k.B)
}

// Token computes the request token for text.
func (k TKK) Token(text string) string {
	a := k.A
	for _, b := range []byte(text) {
		a += int64(b)
		a = tokenMix(a, "+-a^+6")
	}
	a = tokenMix(a, "+-3^+b+-f")
	a = int64(int32(a) ^ int32(k.B))
	if a < 0 {
		a = (a & 2147483647) + 2147483648
	}
	a %= 1000000
	return fmt.Sprintf("%d.%d", a, int64(int32(a)^int32(k.A)))
}

// tokenMix applies the shift/add/xor program ops in 32-bit arithmetic.
// Each op is three bytes: combine ('+' add, else xor), shift ('+' unsigned
// right, else left) and amount (digit or letter a-f).
func tokenMix(a int64, ops string) int64 {
	for i := 0; i+2 < len(ops); i += 3 {
		c := ops[i+2]
		var n uint
		if c >= 'a' {
			n = uint(c - 87)
		} else {
			n = uint(c - '0')
		}

		var d int64
		if ops[i+1] == '+' {
			d = int64(uint32(a) >> n)
		} else {
			d = int64(int32(uint32(a) << n))
		}

		if ops[i] == '+' {
			a = int64(int32(uint32(a + d)))
		} else {
			a = int64(int32(a) ^ int32(d))
		}
	}
	return a
}

// TokenStamper sets TranslateRequest.Token before delegating to its host.
type TokenStamper struct {
	host Host
	tkk  TKK
}

// NewTokenStamper wraps host. A zero TKK selects DefaultTKK.
func NewTokenStamper(host Host, tkk TKK) *TokenStamper {
	if tkk == (TKK{}) {
		tkk = DefaultTKK
	}
	return &TokenStamper{host: host, tkk: tkk}
}

// Translate implements Host.
func (s *TokenStamper) Translate(ctx context.Context, req TranslateRequest) (*Result, error) {
	req.Token = s.tkk.Token(req.Text)
	return s.host.Translate(ctx, req)
}

var _ Host = (*TokenStamper)(nil)
