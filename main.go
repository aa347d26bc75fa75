package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/launchdarkly/mock-api-tester/apitester"
	"github.com/launchdarkly/mock-api-tester/apitests"
	"github.com/launchdarkly/mock-api-tester/framework"
)

const statusQueryTimeout = time.Second * 10

func main() {
	var params commandParams
	if !params.Read(os.Args) {
		os.Exit(1)
	}

	healthURL := strings.TrimSuffix(params.serviceURL, "/") + params.healthAPI
	if err := apitester.AwaitService(healthURL, statusQueryTimeout, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Test service error: %s\n", err)
		os.Exit(1)
	}

	tester := apitester.NewRemote(params.serviceURL, params.testerConfig())

	fmt.Println()
	framework.PrintFilterDescription(os.Stdout, params.filters)

	fmt.Println("Running test suite")

	testLogger := &ConsoleTestLogger{
		DebugOutputOnFailure: params.debug || params.debugAll,
		DebugOutputOnSuccess: params.debugAll,
	}

	results := apitests.RunTestSuite(tester, params.filters.AsFilter, testLogger)

	fmt.Println()
	framework.PrintResults(os.Stdout, results)
	if !results.OK() {
		fmt.Println()
		fmt.Println("To run only the failed tests:")
		fmt.Println("  " + params.rerunCommand(os.Args[0], results.Failures))
		os.Exit(1)
	}
}
