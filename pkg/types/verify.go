package types

// VerifyStatus classifies one verification outcome.
type VerifyStatus string

const (
	VerifyPass VerifyStatus = "pass"
	VerifyFail VerifyStatus = "fail"

	// VerifySkipped means the check's resource was out of scope.
	VerifySkipped VerifyStatus = "skipped"

	// VerifyInfo marks results that are informational only, e.g. a
	// requires-reboot resource whose runtime state is still the old one.
	VerifyInfo VerifyStatus = "info"
)

// VerificationResult is one expectation checked against reality. Produced
// fresh on every verify invocation, never persisted beyond the run log.
type VerificationResult struct {
	// CheckID is the resource ID, suffixed for runtime checks
	// (e.g. "nowatchdog/runtime").
	CheckID string

	Expected string
	Actual   string
	Status   VerifyStatus

	// Message carries extra context for Skipped and Info results.
	Message string
}

// AnyFailed reports whether any result in the set is a Fail.
func AnyFailed(results []VerificationResult) bool {
	for _, r := range results {
		if r.Status == VerifyFail {
			return true
		}
	}
	return false
}
