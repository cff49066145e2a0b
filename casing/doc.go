// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package casing rewrites object keys between the app's camelCase and the
backend's wire convention.

Values are JSON-shaped trees that keep object key order. ToWireCase and
ToAppCase rewrite every mapping key at any depth and leave scalars,
sequence order and opaque values untouched:

	casing.ToWireCase(casing.Mapping(casing.F("startDate", casing.Scalar("2025-06-10"))))
	// {"start_date": "2025-06-10"}

A key with no uppercase letters passes through ToWireCase unchanged, and a
key with no underscore passes through ToAppCase unchanged.

Transport applies a Codec to JSON bodies in both directions, so API code
works in app case only.
*/
package casing
