// internal/form/payload.go
//
// Payload extraction from the page.
//
// Context
//   Each submission builds a fresh Payload from the current DOM values of
//   the descriptor's fields.  Integer fields are coerced the way a browser's
//   parseInt would: leading whitespace skipped, an optional sign, an
//   optional 0x prefix, then the longest run of digits.  Input with no
//   leading digits becomes JSON null (the not-a-number case) and is left for
//   the service to reject.  No range or format checks happen here.
//
//------------------------------------------------------------------------------

package form

import (
	"fmt"
	"math"
	"math/big"
	"net/url"
	"strconv"
	"strings"
	"unicode"

	"github.com/grahamford77/table-tennis/internal/dom"
)

// Payload is one request body keyed by field name.  Values are string, int,
// float64 (integers past 2^53), or nil.
type Payload map[string]any

// BuildPayload reads every declared field from doc.  A field whose element is
// missing contributes an empty value of its type.
func (d *Descriptor) BuildPayload(doc dom.Document) Payload {
	p := make(Payload, len(d.Fields))
	for _, f := range d.Fields {
		raw := ""
		if el, ok := doc.ElementByID(f.Name); ok {
			raw = el.Value()
		}
		p[f.Name] = coerce(f.Type, raw)
	}
	return p
}

// ResolveEndpoint interpolates {name} placeholders in the endpoint template
// with the path-escaped DOM value of the element whose id is name.
func (d *Descriptor) ResolveEndpoint(doc dom.Document) (string, error) {
	var missing string
	out := placeholder.ReplaceAllStringFunc(d.Endpoint, func(m string) string {
		id := m[1 : len(m)-1]
		el, ok := doc.ElementByID(id)
		if !ok {
			if missing == "" {
				missing = id
			}
			return m
		}
		return url.PathEscape(el.Value())
	})
	if missing != "" {
		return "", fmt.Errorf("form %s: endpoint parameter %q not on page", d.ID, missing)
	}
	return out, nil
}

// Expand interpolates placeholders from a plain map.  Used where the
// parameters come from the caller rather than the page, e.g. delete.
func Expand(template string, params map[string]string) string {
	return placeholder.ReplaceAllStringFunc(template, func(m string) string {
		if v, ok := params[m[1:len(m)-1]]; ok {
			return url.PathEscape(v)
		}
		return m
	})
}

// maxExact is the largest magnitude a float64 holds without losing integers.
const maxExact = 1 << 53

func coerce(t FieldType, raw string) any {
	if t != TypeInt {
		return raw
	}
	n, ok := ParseInt(raw)
	if !ok {
		return nil
	}
	if math.Abs(n) <= maxExact {
		return int(n)
	}
	return n
}

// ParseInt reads the leading integer of s as a JavaScript number.  A 0x or
// 0X prefix selects hexadecimal.  ok is false when s has no leading digits
// or the value is infinite, both of which JSON cannot carry.
func ParseInt(s string) (float64, bool) {
	s = strings.TrimLeftFunc(s, unicode.IsSpace)

	neg := false
	if s != "" && (s[0] == '+' || s[0] == '-') {
		neg = s[0] == '-'
		s = s[1:]
	}
	hex := len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X')
	if hex {
		s = s[2:]
	}

	end := 0
	for end < len(s) && isDigit(s[end], hex) {
		end++
	}
	if end == 0 {
		return 0, false
	}

	var n float64
	if hex {
		i, _ := new(big.Int).SetString(s[:end], 16)
		n, _ = new(big.Float).SetInt(i).Float64()
	} else {
		// Digits only, so the sole possible error is ErrRange at +Inf.
		n, _ = strconv.ParseFloat(s[:end], 64)
	}
	if math.IsInf(n, 0) {
		return 0, false
	}
	if neg {
		n = -n
	}
	return n, true
}

func isDigit(c byte, hex bool) bool {
	switch {
	case c >= '0' && c <= '9':
		return true
	case hex:
		return (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
	}
	return false
}
