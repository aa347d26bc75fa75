package apitester

import (
	"sort"
	"strings"

	"github.com/launchdarkly/mock-api-tester/framework"
)

func printExchange(logger framework.Logger, r *Result) {
	logger.Printf("Request:")
	logger.Printf("      HTTP Method = %s", r.Request.Method)
	logger.Printf("      Request URI = %s", r.Request.URL.Path)
	logger.Printf("       Parameters = %s", formatValues(r.Request.URL.Query()))
	logger.Printf("          Headers = %s", formatValues(r.Request.Header))
	logger.Printf("             Body = %s", string(r.RequestBody))
	logger.Printf("Response:")
	logger.Printf("           Status = %d", r.Response.StatusCode)
	logger.Printf("          Headers = %s", formatValues(r.Response.Header))
	logger.Printf("     Content type = %s", r.Response.Header.Get(contentTypeHeader))
	logger.Printf("             Body = %s", string(r.Response.Body))
}

// formatValues renders url.Values or http.Header with sorted names.
func formatValues(values map[string][]string) string {
	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	sort.Strings(names)
	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, name+":"+`"`+strings.Join(values[name], `", "`)+`"`)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
