package gateway

import "context"

// Engine runs source code and reports the captured output. Implementations
// never return a Go error: every failure mode is folded into the Result so
// the caller always has something broadcastable.
type Engine interface {
	Execute(ctx context.Context, language, code string) Result
}

// Result is the outcome of one execution. Internally it keeps success and
// failure apart so logic and tests can branch on Ok(); the legacy wire
// contract (one output string, failures marked only by prefix) is produced
// by Legacy() at the boundary.
type Result struct {
	ok     bool
	output string
	reason string
}

func Ok(output string) Result {
	return Result{ok: true, output: output}
}

func Err(reason string) Result {
	return Result{ok: false, reason: reason}
}

func (r Result) OK() bool { return r.ok }

// Output is the captured program output. Empty unless OK.
func (r Result) Output() string { return r.output }

// Reason describes the failure. Empty if OK.
func (r Result) Reason() string { return r.reason }

// Legacy renders the wire format: the run output verbatim on success,
// otherwise the failure description. Receivers cannot reliably tell the two
// apart, which is the inherited contract.
func (r Result) Legacy() string {
	if r.ok {
		return r.output
	}
	return r.reason
}
