// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package casing

import (
	"fmt"
	"sort"
	"strings"
)

// Convention names a wire-side key naming convention. The application side
// is always lowerCamelCase.
type Convention string

const (
	Snake  Convention = "snake"
	Kebab  Convention = "kebab"
	Pascal Convention = "pascal"
)

// Rule rewrites a single key in each direction.
type Rule struct {
	// ToWire maps an application (lowerCamelCase) key to the wire convention.
	ToWire func(key string) string
	// ToApp maps a wire key back to lowerCamelCase.
	ToApp func(key string) string
}

// rules is the single table every Codec is built from.
var rules = map[Convention]Rule{
	Snake:  separated('_'),
	Kebab:  separated('-'),
	Pascal: {ToWire: upperFirst, ToApp: lowerFirst},
}

// Codec converts the keys of a Value between the application convention and
// a wire convention.
type Codec interface {
	ToWire(v Value) Value
	ToApp(v Value) Value
	WireKey(key string) string
	AppKey(key string) string
	Convention() Convention
}

type ruleCodec struct {
	name Convention
	rule Rule
}

// New returns the codec for a registered convention.
func New(c Convention) (Codec, error) {
	rule, ok := rules[c]
	if !ok {
		return nil, fmt.Errorf("casing: unknown convention %q (known: %s)", c, strings.Join(Conventions(), ", "))
	}
	return ruleCodec{name: c, rule: rule}, nil
}

// Lookup resolves a convention by name, case-insensitively.
func Lookup(name string) (Codec, error) {
	return New(Convention(strings.ToLower(strings.TrimSpace(name))))
}

// Conventions lists the registered convention names.
func Conventions() []string {
	names := make([]string, 0, len(rules))
	for c := range rules {
		names = append(names, string(c))
	}
	sort.Strings(names)
	return names
}

// Default is the camelCase <-> snake_case codec.
var Default Codec = ruleCodec{name: Snake, rule: rules[Snake]}

func (c ruleCodec) Convention() Convention  { return c.name }
func (c ruleCodec) WireKey(key string) string { return c.rule.ToWire(key) }
func (c ruleCodec) AppKey(key string) string  { return c.rule.ToApp(key) }

func (c ruleCodec) ToWire(v Value) Value { return rewrite(v, c.rule.ToWire) }
func (c ruleCodec) ToApp(v Value) Value  { return rewrite(v, c.rule.ToApp) }

// ToWireCase rewrites every mapping key from camelCase to snake_case.
func ToWireCase(v Value) Value { return Default.ToWire(v) }

// ToAppCase rewrites every mapping key from snake_case to camelCase.
func ToAppCase(v Value) Value { return Default.ToApp(v) }

func rewrite(v Value, key func(string) string) Value {
	switch v.kind {
	case KindSequence:
		items := make([]Value, len(v.items))
		for i, item := range v.items {
			items[i] = rewrite(item, key)
		}
		return Sequence(items...)
	case KindMapping:
		fields := make([]Field, len(v.fields))
		for i, f := range v.fields {
			fields[i] = Field{Key: key(f.Key), Value: rewrite(f.Value, key)}
		}
		return Mapping(fields...)
	default:
		// null, scalars and opaque values are never renamed
		return v
	}
}

// separated builds the rule for conventions that join lowercase words with
// sep: every uppercase ASCII letter becomes sep + its lowercase form, and
// sep followed by a lowercase ASCII letter becomes that letter uppercased.
func separated(sep byte) Rule {
	return Rule{
		ToWire: func(key string) string {
			var b strings.Builder
			b.Grow(len(key) + 4)
			for i := 0; i < len(key); i++ {
				ch := key[i]
				if isUpper(ch) {
					b.WriteByte(sep)
					b.WriteByte(ch + ('a' - 'A'))
					continue
				}
				b.WriteByte(ch)
			}
			return b.String()
		},
		ToApp: func(key string) string {
			var b strings.Builder
			b.Grow(len(key))
			for i := 0; i < len(key); i++ {
				ch := key[i]
				if ch == sep && i+1 < len(key) && isLower(key[i+1]) {
					b.WriteByte(key[i+1] - ('a' - 'A'))
					i++
					continue
				}
				b.WriteByte(ch)
			}
			return b.String()
		},
	}
}

func upperFirst(key string) string {
	if key == "" || !isLower(key[0]) {
		return key
	}
	return string(key[0]-('a'-'A')) + key[1:]
}

func lowerFirst(key string) string {
	if key == "" || !isUpper(key[0]) {
		return key
	}
	return string(key[0]+('a'-'A')) + key[1:]
}

func isUpper(ch byte) bool { return ch >= 'A' && ch <= 'Z' }
func isLower(ch byte) bool { return ch >= 'a' && ch <= 'z' }
