package main

import (
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"pkt.systems/merelcheck"
)

// runE executes the whole suite and prints the summary. Failed cases are
// reported, not signalled through the exit status.
func runE(cmd *cobra.Command, args []string) error {
	baseURL, _ := cmd.Flags().GetString("base-url")
	token, _ := cmd.Flags().GetString("token")

	logger := loggerFromCmd(cmd)
	out := cmd.OutOrStdout()
	ctx := cmd.Context()

	api, err := merelcheck.LoadSurface(ctx, logger)
	if err != nil {
		logger.Warn("surface", "err", err)
	}

	tester, err := merelcheck.New(ctx, merelcheck.NewSession(baseURL, token),
		merelcheck.WithLogger(logger),
		merelcheck.WithHTTPClient(newHTTPClient()),
		merelcheck.WithOutput(out),
	)
	if err != nil {
		return fmt.Errorf("init: %w", err)
	}

	start := time.Now()
	ledger := merelcheck.RunSuite(ctx, tester, api, out, logger)
	logger.Debug("summary", "total", ledger.Total(), "passed", len(ledger.Successes), "failed", len(ledger.Failures), "elapsed", time.Since(start).String())

	if err := merelcheck.WriteSummary(out, ledger); err != nil {
		return fmt.Errorf("summary: %w", err)
	}
	return nil
}

// newHTTPClient returns a client without timeout or cookie jar; every call
// blocks until the server answers and stands on its own.
func newHTTPClient() *http.Client {
	tr := http.DefaultTransport.(*http.Transport).Clone()
	tr.Proxy = http.ProxyFromEnvironment
	return &http.Client{Transport: tr}
}
