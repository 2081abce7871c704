// Package backup snapshots the vault database and mirrors the snapshot plus
// every encrypted document to an S3-compatible bucket.
//
// Only ciphertext leaves the machine: the key file is never uploaded, so a
// mirror is useless without a separately kept copy of key.key.
package backup
