// Package testutil provides shared test helpers: a scripted fake command
// runner, in-memory filesystem seeding, and an isolated environment for
// tests that exercise paths and config loading.
package testutil
