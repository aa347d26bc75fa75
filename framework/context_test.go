package framework

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingTestLogger struct {
	events []string
}

func (r *recordingTestLogger) TestStarted(id TestID) {
	r.events = append(r.events, "start "+id.String())
}

func (r *recordingTestLogger) TestError(id TestID, err error) {
	r.events = append(r.events, "error "+id.String()+": "+err.Error())
}

func (r *recordingTestLogger) TestFinished(id TestID, failed bool, debugOutput CapturedOutput) {
	status := "ok"
	if failed {
		status = "failed"
	}
	r.events = append(r.events, "finish "+id.String()+" "+status+" "+strings.Join(debugOutput.Messages(), ";"))
}

func (r *recordingTestLogger) TestSkipped(id TestID, reason string) {
	r.events = append(r.events, "skip "+id.String()+" "+reason)
}

func testIDs(results []TestResult) []string {
	var ret []string
	for _, r := range results {
		ret = append(ret, r.TestID.String())
	}
	return ret
}

func TestRunCollectsResults(t *testing.T) {
	logger := &recordingTestLogger{}
	results := Run(nil, logger, func(c *Context) {
		c.Run("group", func(c *Context) {
			c.Run("passes", func(c *Context) {
				c.Debug("value is %d", 1)
			})
			c.Run("fails", func(c *Context) {
				c.Errorf("bad %s", "thing")
				c.Errorf("another")
			})
			c.Run("fails now", func(c *Context) {
				require.Equal(c, 1, 2)
				c.Errorf("not reached")
			})
		})
	})

	assert.False(t, results.OK())
	assert.Equal(t, []string{"group/passes", "group/fails", "group/fails now", "group"}, testIDs(results.Tests))
	assert.Equal(t, []string{"group/fails", "group/fails now"}, testIDs(results.Failures))
	assert.Len(t, results.Failures[0].Errors, 2)
	assert.Len(t, results.Failures[1].Errors, 1)
	assert.Equal(t, 2, results.Passed())

	assert.Contains(t, logger.events, "finish group/passes ok value is 1")
	assert.Contains(t, logger.events, "error group/fails: bad thing")
	assert.Contains(t, logger.events, "finish group/fails failed ")
}

func TestRunAllPassing(t *testing.T) {
	results := Run(nil, nil, func(c *Context) {
		c.Run("a", func(c *Context) {})
		c.Run("b", func(c *Context) {})
	})
	assert.True(t, results.OK())
	assert.Equal(t, []string{"a", "b"}, testIDs(results.Tests))
}

func TestSkip(t *testing.T) {
	logger := &recordingTestLogger{}
	results := Run(nil, logger, func(c *Context) {
		c.Run("skipped", func(c *Context) {
			c.SkipWithReason("not today")
			c.Errorf("not reached")
		})
	})
	assert.True(t, results.OK())
	assert.Len(t, results.Tests, 0)
	assert.Contains(t, logger.events, "skip skipped not today")
}

func TestFilterExcludesTests(t *testing.T) {
	var ran []string
	filter := func(id TestID) bool { return id.String() != "b" }
	Run(filter, nil, func(c *Context) {
		for _, name := range []string{"a", "b", "c"} {
			name := name
			c.Run(name, func(c *Context) { ran = append(ran, name) })
		}
	})
	assert.Equal(t, []string{"a", "c"}, ran)
}

func TestUnexpectedPanicFailsTest(t *testing.T) {
	results := Run(nil, nil, func(c *Context) {
		c.Run("panics", func(c *Context) {
			panic(errors.New("boom"))
		})
	})
	require.Len(t, results.Failures, 1)
	assert.Contains(t, results.Failures[0].Errors[0].Error(), "unexpected panic in test: boom")
}

func TestDeferRunsInReverseOrder(t *testing.T) {
	var calls []string
	Run(nil, nil, func(c *Context) {
		c.Run("deferring", func(c *Context) {
			c.Defer(func() { calls = append(calls, "first") })
			c.Defer(func() { calls = append(calls, "second") })
			c.FailNow()
		})
	})
	assert.Equal(t, []string{"second", "first"}, calls)
}

func TestFailedAndID(t *testing.T) {
	Run(nil, nil, func(c *Context) {
		c.Run("outer", func(c *Context) {
			c.Run("inner", func(c *Context) {
				assert.Equal(t, "outer/inner", c.ID().String())
				assert.False(t, c.Failed())
				c.Errorf("x")
				assert.True(t, c.Failed())
			})
		})
	})
}

func TestPrintResults(t *testing.T) {
	var buf bytes.Buffer
	PrintResults(&buf, Results{Tests: []TestResult{{TestID: TestID{Path: []string{"a"}}}}})
	assert.Equal(t, "All tests passed (1)\n", buf.String())

	failure := TestResult{TestID: TestID{Path: []string{"get", "hello"}}, Errors: []error{errors.New("line1\nline2")}}
	buf.Reset()
	PrintResults(&buf, Results{Tests: []TestResult{failure, {}}, Failures: []TestResult{failure}})
	assert.Equal(t, "FAILED TESTS (1 of 2):\n* get/hello\n    line1\n    line2\n", buf.String())
}
