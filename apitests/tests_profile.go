package apitests

import (
	"github.com/launchdarkly/mock-api-tester/apitester"
	"github.com/launchdarkly/mock-api-tester/demoapp"
)

func DoProfileTests(t *T) {
	t.Run("claims of bearer token", func(t *T) {
		t.API().DoGet(t, demoapp.ProfilePath, nil, withTenant(), apitester.WithPredicate(func(r *apitester.Result) {
			r.AndExpect(
				t.ExpectCode(),
				apitester.JSONPathExists("$.data.sub"),
			)
			t.Debug("authenticated as %v", r.JSONPath("$.data.sub"))
		}))
	})
}
