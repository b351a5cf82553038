// Package jsonstrip rewrites generic JSON values: deep copies, key removal and
// indented rendering.
package jsonstrip

import (
	"fmt"
	"unicode/utf8"

	"github.com/valyala/fastjson"
)

// HeavyKeys are dropped from exported nodes unless stripping is disabled.
var HeavyKeys = []string{"absoluteRenderBounds"}

// VisitObjects calls fn for every object reachable from v, parents before
// their members. Arrays are descended in order; scalars are leaves.
func VisitObjects(v *fastjson.Value, fn func(o *fastjson.Object)) {
	if v == nil {
		return
	}
	switch v.Type() {
	case fastjson.TypeObject:
		o, _ := v.Object()
		fn(o)
		o.Visit(func(_ []byte, child *fastjson.Value) {
			VisitObjects(child, fn)
		})
	case fastjson.TypeArray:
		items, _ := v.Array()
		for _, item := range items {
			VisitObjects(item, fn)
		}
	}
}

// Strip removes keys from every object in v, at any depth. v is modified in place.
func Strip(v *fastjson.Value, keys ...string) {
	if len(keys) == 0 {
		return
	}
	VisitObjects(v, func(o *fastjson.Object) {
		for _, k := range keys {
			if o.Get(k) != nil {
				o.Del(k)
			}
		}
	})
}

// Clone returns an independent deep copy of v.
func Clone(v *fastjson.Value) (*fastjson.Value, error) {
	if v == nil {
		return nil, fmt.Errorf("clone: nil value")
	}
	c, err := fastjson.ParseBytes(appendValue(nil, v, false, 0))
	if err != nil {
		return nil, fmt.Errorf("clone: %w", err)
	}
	return c, nil
}

// Indent renders v as JSON indented with two spaces.
func Indent(v *fastjson.Value) ([]byte, error) {
	if v == nil {
		return nil, fmt.Errorf("indent: nil value")
	}
	out := appendValue(nil, v, true, 0)
	return append(out, '\n'), nil
}

// appendValue renders v onto dst. Strings are re-escaped from their decoded
// bytes; numbers and literals keep their source text.
func appendValue(dst []byte, v *fastjson.Value, indent bool, depth int) []byte {
	switch v.Type() {
	case fastjson.TypeObject:
		o, _ := v.Object()
		if o.Len() == 0 {
			return append(dst, "{}"...)
		}
		dst = append(dst, '{')
		first := true
		o.Visit(func(key []byte, child *fastjson.Value) {
			if !first {
				dst = append(dst, ',')
			}
			first = false
			dst = appendNewline(dst, indent, depth+1)
			dst = appendString(dst, key)
			dst = append(dst, ':')
			if indent {
				dst = append(dst, ' ')
			}
			dst = appendValue(dst, child, indent, depth+1)
		})
		dst = appendNewline(dst, indent, depth)
		return append(dst, '}')
	case fastjson.TypeArray:
		items, _ := v.Array()
		if len(items) == 0 {
			return append(dst, "[]"...)
		}
		dst = append(dst, '[')
		for i, item := range items {
			if i > 0 {
				dst = append(dst, ',')
			}
			dst = appendNewline(dst, indent, depth+1)
			dst = appendValue(dst, item, indent, depth+1)
		}
		dst = appendNewline(dst, indent, depth)
		return append(dst, ']')
	case fastjson.TypeString:
		b, _ := v.StringBytes()
		return appendString(dst, b)
	default:
		return v.MarshalTo(dst)
	}
}

func appendNewline(dst []byte, indent bool, depth int) []byte {
	if !indent {
		return dst
	}
	dst = append(dst, '\n')
	for range depth {
		dst = append(dst, "  "...)
	}
	return dst
}

const hexDigits = "0123456789abcdef"

// appendString quotes s with JSON escapes. Invalid UTF-8 becomes U+FFFD.
func appendString(dst, s []byte) []byte {
	dst = append(dst, '"')
	for i := 0; i < len(s); {
		c := s[i]
		if c < utf8.RuneSelf {
			switch {
			case c == '"' || c == '\\':
				dst = append(dst, '\\', c)
			case c == '\n':
				dst = append(dst, '\\', 'n')
			case c == '\r':
				dst = append(dst, '\\', 'r')
			case c == '\t':
				dst = append(dst, '\\', 't')
			case c < 0x20 || c == 0x7f:
				dst = append(dst, '\\', 'u', '0', '0', hexDigits[c>>4], hexDigits[c&0xf])
			default:
				dst = append(dst, c)
			}
			i++
			continue
		}
		r, size := utf8.DecodeRune(s[i:])
		if r == utf8.RuneError && size == 1 {
			dst = append(dst, `\ufffd`...)
		} else {
			dst = append(dst, s[i:i+size]...)
		}
		i += size
	}
	return append(dst, '"')
}
