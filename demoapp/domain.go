package demoapp

import (
	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"
)

const (
	CodeOK           = "200"
	CodeBadRequest   = "400"
	CodeUnauthorized = "401"
	CodeNotFound     = "404"
	CodeNotAllowed   = "405"

	messageOK = "OK"
)

type StatusDTO struct {
	Status string `json:"status"`
}

// StatusUp is the body of a healthy status response.
func StatusUp() StatusDTO {
	return StatusDTO{Status: "UP"}
}

type GreetingDTO struct {
	Greeting string `json:"greeting"`
}

// HelloQuery is the query of GET /api/v1/get. Age is optional and is left out of the query
// string when undefined.
type HelloQuery struct {
	Name string              `query:"name" json:"name"`
	Age  ldvalue.OptionalInt `query:"age" json:"age"`
}

type HelloPayload struct {
	Name string `json:"name"`
}

// APIResult is the envelope of every API response. Code is the business status code, which
// is CodeOK on success.
type APIResult struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func OK(data interface{}) APIResult {
	return APIResult{Code: CodeOK, Message: messageOK, Data: data}
}

func Fail(code, message string) APIResult {
	return APIResult{Code: code, Message: message}
}
