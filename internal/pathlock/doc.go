// Package pathlock serializes writers of the same library file.
//
// A Registry hands out one FIFO lock per normalized absolute path. Distinct
// paths never block each other. When a lock directory is configured, each
// acquisition also takes an advisory file lock so separate curator processes
// writing into the same library coordinate too.
//
// Entries are created on first use and kept for the life of the Registry, so
// memory grows with the number of distinct paths ever written. Library sizes
// keep that bounded in practice.
package pathlock
