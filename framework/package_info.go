// Package framework runs API test suites outside of the Go test runner.
//
// A Context plays the role of *testing.T: it has a test identifier, accumulates failures
// reported through Errorf, stops the test on FailNow, and captures debug output that a
// TestLogger can show when the test ends. Because it implements the methods that the testify
// assert and require packages need, the same assertion code can run under "go test" or
// from a command-line runner against a live service.
//
// RegexFilters and PrintResults support that command-line use.
package framework
