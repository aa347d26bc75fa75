package demoapp

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"

	"github.com/launchdarkly/mock-api-tester/jsoner"
)

func (a *API) health(w http.ResponseWriter, req *http.Request) {
	writeResult(w, http.StatusOK, StatusUp())
}

func (a *API) profile(w http.ResponseWriter, req *http.Request) {
	claims, _ := ClaimsFromContext(req.Context())
	writeResult(w, http.StatusOK, OK(claims))
}

func (a *API) get(w http.ResponseWriter, req *http.Request) {
	q, err := parseHelloQuery(req)
	if err != nil {
		writeResult(w, http.StatusBadRequest, Fail(CodeBadRequest, err.Error()))
		return
	}
	writeResult(w, http.StatusOK, OK(GreetingDTO{Greeting: "Hello get." + q.Name}))
}

func parseHelloQuery(req *http.Request) (HelloQuery, error) {
	values := req.URL.Query()
	q := HelloQuery{Name: values.Get("name")}
	if s := values.Get("age"); s != "" {
		age, err := strconv.Atoi(s)
		if err != nil {
			return q, fmt.Errorf("invalid age %q", s)
		}
		q.Age = ldvalue.NewOptionalInt(age)
	}
	return q, nil
}

func (a *API) greetPayload(verb string) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		var payload HelloPayload
		if err := jsoner.ParseReader(req.Body, &payload); err != nil {
			writeResult(w, http.StatusBadRequest, Fail(CodeBadRequest, "malformed request body"))
			return
		}
		writeResult(w, http.StatusOK, OK(GreetingDTO{Greeting: fmt.Sprintf("Hello %s.%s", verb, payload.Name)}))
	}
}

func (a *API) greetUser(verb string) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		raw := mux.Vars(req)["userId"]
		userID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			writeResult(w, http.StatusBadRequest, Fail(CodeBadRequest, fmt.Sprintf("invalid userId %q", raw)))
			return
		}
		writeResult(w, http.StatusOK, OK(GreetingDTO{Greeting: fmt.Sprintf("Hello %s.empty.%d", verb, userID)}))
	}
}
