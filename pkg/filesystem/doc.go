// Package filesystem provides implementations of the types.FS interface:
// a direct OS-backed one for production and an afero adapter used to run
// the engine against an in-memory filesystem in tests.
package filesystem
