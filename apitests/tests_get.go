package apitests

import (
	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"

	"github.com/launchdarkly/mock-api-tester/demoapp"
)

func DoGetTests(t *T) {
	route := demoapp.BasePath + "/get"
	greeting := "Hello get.photowey"

	t.Run("name in route", func(t *T) {
		t.API().DoGet(t, route+"?name=photowey", nil)
	})

	t.Run("name in route with predicate", func(t *T) {
		t.API().DoGet(t, route+"?name=photowey", nil, t.expectGreeting(greeting))
	})

	t.Run("name in route with builder", func(t *T) {
		t.API().DoGet(t, route+"?name=photowey", nil, withTenant())
	})

	t.Run("name in route with builder and predicate", func(t *T) {
		t.API().DoGet(t, route+"?name=photowey", nil, withTenant(), t.expectGreeting(greeting))
	})

	t.Run("query", func(t *T) {
		t.API().DoGet(t, route, demoapp.HelloQuery{Name: "photowey"})
	})

	t.Run("query with predicate", func(t *T) {
		t.API().DoGet(t, route, demoapp.HelloQuery{Name: "photowey"}, t.expectGreeting(greeting))
	})

	t.Run("query with builder", func(t *T) {
		t.API().DoGet(t, route, demoapp.HelloQuery{Name: "photowey"}, withTenant())
	})

	t.Run("query with builder and predicate", func(t *T) {
		t.API().DoGet(t, route, demoapp.HelloQuery{Name: "photowey"}, withTenant(), t.expectGreeting(greeting))
	})

	t.Run("query with zero age", func(t *T) {
		q := &demoapp.HelloQuery{Name: "photowey", Age: ldvalue.NewOptionalInt(0)}
		t.API().DoGet(t, route, q, t.expectGreeting(greeting))
	})
}
