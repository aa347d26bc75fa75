package apitests

import (
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/launchdarkly/mock-api-tester/demoapp"
	"github.com/launchdarkly/mock-api-tester/jsoner"
)

func DoHealthTests(t *T) {
	t.Run("get", func(t *T) {
		body := t.API().TryGetHealth(t)
		var status demoapp.StatusDTO
		require.NoError(t, jsoner.ParseObject(body, &status))
		assert.Equal(t, demoapp.StatusUp(), status)
	})

	t.Run("head", func(t *T) {
		t.API().TryHeadHealth(t)
	})
}
