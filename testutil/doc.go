// Package testutil provides deterministic page sources for tests.
//
// A Source plays the role of the remote collection a paginator loads from:
// fixed items, a fixed total, per-page failure injection and call counting,
// so navigation tests assert on exact pages, exact items and exact loader
// traffic without any timing dependence.
package testutil
