// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines the app-side request, response and domain types.

JSON tags use camelCase. The casing package maps them to the backend's
convention on the wire, so these types never carry wire names.

# Votes

	VotePositive   = "POSITIVE"
	VoteNegative   = "NEGATIVE"
	VoteAbstention = "ABSTENCY"

ABSTENCY is the value the backend accepts.

# Phases and Outcomes

A proposal is upcoming, open or finished relative to a reference time.
Once the backend reports counts, Outcome compares positive and negative
votes.
*/
package models
