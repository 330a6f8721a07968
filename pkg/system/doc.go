// Package system wraps the external collaborators sysdot drives: the
// package manager, the service manager, the initramfs builder and udev.
// Every invocation goes through a single Runner boundary that captures
// combined output and exit status, redacts sensitive-looking arguments
// before logging, and returns a structured result so callers decide
// pass/fail semantics per resource.
package system
