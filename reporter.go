package merelcheck

import (
	"bufio"
	"fmt"
	"io"

	"pkt.systems/merelcheck/internal/runner"
)

// WriteSummary prints totals, the success rate and a numbered list of
// failures for ledger.
func WriteSummary(w io.Writer, ledger Ledger) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "\n%s\n", runner.Separator)
	fmt.Fprintln(bw, "TEST SUMMARY")
	fmt.Fprintf(bw, "Total tests: %d\n", ledger.Total())
	fmt.Fprintf(bw, "Passed: %d (%.1f%%)\n", len(ledger.Successes), ledger.SuccessRate())
	fmt.Fprintf(bw, "Failed: %d\n", len(ledger.Failures))

	if len(ledger.Failures) > 0 {
		fmt.Fprintln(bw, "\nFailed tests:")
		for i, f := range ledger.Failures {
			writeFailure(bw, i+1, f)
		}
	}
	return bw.Flush()
}

func writeFailure(w io.Writer, n int, f Outcome) {
	fmt.Fprintf(w, "%d. %s %s - %s\n", n, f.Method, f.Endpoint, f.Description)
	if f.Mismatch() {
		fmt.Fprintf(w, "   Expected status: %d, got: %d\n", f.ExpectedStatus, f.ActualStatus)
		return
	}
	fmt.Fprintf(w, "   Error: %s\n", f.Error)
}
