package main

import (
	"flag"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/alessio/shellescape"

	"github.com/launchdarkly/mock-api-tester/apitester"
	"github.com/launchdarkly/mock-api-tester/framework"
)

const defaultAPIOK = "200"

type commandParams struct {
	serviceURL string
	healthAPI  string
	apiOK      string
	token      string
	filters    framework.RegexFilters
	debug      bool
	debugAll   bool
}

func (c *commandParams) Read(args []string) bool {
	fs := flag.NewFlagSet("", flag.ContinueOnError)
	fs.StringVar(&c.serviceURL, "url", "", "base URL of the service under test")
	fs.StringVar(&c.healthAPI, "health", apitester.DefaultHealthAPI, "health check route of the service")
	fs.StringVar(&c.apiOK, "api-ok", defaultAPIOK, "business status code that marks a successful response")
	fs.StringVar(&c.token, "token", "", "bearer token to send with every request, replacing the suite's sample token")
	fs.Var(&c.filters.MustMatch, "run", "regex pattern(s) to select tests to run")
	fs.Var(&c.filters.MustNotMatch, "skip", "regex pattern(s) to select tests not to run")
	fs.BoolVar(&c.debug, "debug", false, "enable debug logging for failed tests")
	fs.BoolVar(&c.debugAll, "debug-all", false, "enable debug logging for all tests")

	if err := fs.Parse(args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return false
	}
	if c.serviceURL == "" {
		fmt.Fprintln(os.Stderr, "-url is required")
		fs.Usage()
		return false
	}
	return true
}

func (c *commandParams) testerConfig() apitester.Config {
	config := apitester.Config{
		HealthAPI: c.healthAPI,
		APIOK:     c.apiOK,
	}
	if c.token != "" {
		token := c.token
		config.MockUser = func(b *apitester.RequestBuilder) {
			b.SetHeader("Authorization", "Bearer "+token)
		}
	}
	return config
}

// rerunCommand builds a command line that selects exactly the failed tests. The token is left
// out so that it does not end up in terminal history.
func (c *commandParams) rerunCommand(program string, failures []framework.TestResult) string {
	var cmd commandBuilder
	cmd.add(program, "-url", c.serviceURL)
	if c.healthAPI != apitester.DefaultHealthAPI {
		cmd.add("-health", c.healthAPI)
	}
	if c.apiOK != defaultAPIOK {
		cmd.add("-api-ok", c.apiOK)
	}
	for _, f := range failures {
		cmd.add("-run", testPathPattern(f.TestID))
	}
	return cmd.String()
}

// testPathPattern matches a test, all of its parent groups, and all of its subtests. Parents
// have to match too or the filter would skip them before the test is reached.
func testPathPattern(id framework.TestID) string {
	var b strings.Builder
	b.WriteString("^")
	for i, name := range id.Path {
		if i > 0 {
			b.WriteString("(/")
		}
		b.WriteString(regexp.QuoteMeta(name))
	}
	b.WriteString("(/.*)?")
	for i := 1; i < len(id.Path); i++ {
		b.WriteString(")?")
	}
	b.WriteString("$")
	return b.String()
}

type commandBuilder []string

func (b *commandBuilder) add(args ...string) {
	for _, a := range args {
		*b = append(*b, shellescape.Quote(a))
	}
}

func (b commandBuilder) String() string {
	return strings.Join(b, " ")
}
