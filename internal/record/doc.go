// Package record defines the durable record types for probe runs and the
// canonical serialization used to fingerprint them.
//
// A report fingerprint is a content-addressed identity for "what this probe
// observed": two runs against the same kernel build with the same fixture
// profile produce the same fingerprint, and any verdict difference changes
// it. CI tooling uses this to detect conformance drift between kernel builds
// without diffing output text.
//
// Canonical serialization rules:
//   - Object keys sorted bytewise
//   - Strings NFC normalized before escaping
//   - No floats, no nulls (returns error)
//   - No HTML escaping
//
// Fingerprints are SHA-256 with domain separation:
// SHA256(domain + 0x00 + canonicalJSON).
package record
