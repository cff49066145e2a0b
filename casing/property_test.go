// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package casing

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// buildPayload nests a mapping of the given keys inside a sequence and a
// parent mapping so every level of the transcoder is exercised.
func buildPayload(keys []string, values []string) Value {
	fields := make([]Field, 0, len(keys))
	for i, k := range keys {
		v := Null()
		if i < len(values) {
			v = Scalar(values[i])
		}
		fields = append(fields, F(k, v))
	}
	inner := Mapping(fields...)
	return Mapping(
		F("proposalList", Sequence(inner, inner)),
		F("singleProposal", inner),
	)
}

func collectKeys(v Value, into *[]string) {
	switch v.Kind() {
	case KindSequence:
		for _, item := range v.Items() {
			collectKeys(item, into)
		}
	case KindMapping:
		for _, f := range v.Fields() {
			*into = append(*into, f.Key)
			collectKeys(f.Value, into)
		}
	}
}

func TestRoundTripProperty(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("ToAppCase(ToWireCase(x)) == x for camelCase keys", prop.ForAll(
		func(keys []string, values []string) bool {
			x := buildPayload(keys, values)
			return ToAppCase(ToWireCase(x)).Equal(x)
		},
		gen.SliceOf(gen.Identifier()),
		gen.SliceOf(gen.AlphaString()),
	))

	properties.Property("wire keys carry no uppercase letters", prop.ForAll(
		func(keys []string) bool {
			var wireKeys []string
			collectKeys(ToWireCase(buildPayload(keys, nil)), &wireKeys)
			for _, k := range wireKeys {
				for i := 0; i < len(k); i++ {
					if k[i] >= 'A' && k[i] <= 'Z' {
						return false
					}
				}
			}
			return true
		},
		gen.SliceOf(gen.Identifier()),
	))

	properties.Property("every convention round-trips", prop.ForAll(
		func(keys []string, name string) bool {
			c, err := New(Convention(name))
			if err != nil {
				return false
			}
			x := buildPayload(keys, nil)
			return c.ToApp(c.ToWire(x)).Equal(x)
		},
		gen.SliceOf(gen.Identifier()),
		gen.OneConstOf("snake", "kebab", "pascal"),
	))

	properties.TestingRun(t)
}
