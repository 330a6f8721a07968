// Package types defines the core types and interfaces used throughout sysdot.
// This includes the Resource and Action data model, system fact and
// verification results, and the FS and Runner interfaces the engine is
// built against.
package types
