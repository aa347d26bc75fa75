package apitests

import (
	"fmt"

	"github.com/stretchr/testify/require"

	"github.com/launchdarkly/mock-api-tester/apitester"
	"github.com/launchdarkly/mock-api-tester/demoapp"
)

type sendFunc func(*apitester.Tester, require.TestingT, string, interface{}, ...apitester.Option) string

func DoPostTests(t *T) {
	doPayloadTests(t, "post", (*apitester.Tester).DoPost)
}

func DoPutTests(t *T) {
	doPayloadTests(t, "put", (*apitester.Tester).DoPut)
}

func DoPatchTests(t *T) {
	doPayloadTests(t, "patch", (*apitester.Tester).DoPatch)
}

func DoDeleteTests(t *T) {
	doPayloadTests(t, "delete", (*apitester.Tester).DoDelete)
}

func doPayloadTests(t *T, verb string, send sendFunc) {
	route := demoapp.BasePath + "/" + verb
	payload := demoapp.HelloPayload{Name: "photowey"}
	greeting := fmt.Sprintf("Hello %s.photowey", verb)

	t.Run("payload", func(t *T) {
		send(t.API(), t, route, payload)
	})

	t.Run("payload with predicate", func(t *T) {
		send(t.API(), t, route, payload, t.expectGreeting(greeting))
	})

	t.Run("payload with builder", func(t *T) {
		send(t.API(), t, route, payload, withTenant())
	})

	t.Run("payload with builder and predicate", func(t *T) {
		send(t.API(), t, route, payload, withTenant(), t.expectGreeting(greeting))
	})

	t.Run("empty payload", func(t *T) {
		userID := currentTimeMillis()
		send(t.API(), t, fmt.Sprintf("%s/empty/%d", route, userID), nil,
			withTenant(), t.expectGreeting(fmt.Sprintf("Hello %s.empty.%d", verb, userID)))
	})
}
