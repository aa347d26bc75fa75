package apitests

import (
	"github.com/launchdarkly/mock-api-tester/apitester"
	"github.com/launchdarkly/mock-api-tester/framework"
)

func RunTestSuite(
	tester *apitester.Tester,
	filter framework.Filter,
	testLogger framework.TestLogger,
) framework.Results {
	return framework.Run(filter, testLogger, func(c *framework.Context) {
		t := newTestScope(c, tester)

		t.Run("health", DoHealthTests)
		t.Run("get", DoGetTests)
		t.Run("post", DoPostTests)
		t.Run("put", DoPutTests)
		t.Run("patch", DoPatchTests)
		t.Run("delete", DoDeleteTests)
		t.Run("profile", DoProfileTests)
	})
}
