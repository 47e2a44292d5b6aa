// Package snapshot captures a built manager chain as a deterministic byte
// encoding and stores encodings in BadgerDB.
//
// Two rebuilds of the same structure under the same configuration encode to
// identical bytes, so Encode doubles as an idempotence check. Store keys
// combine the structure fingerprint with a hash of the stack configuration
// (see NewKey).
package snapshot
