// Command testservice serves the demo API with JWT security enabled, as a target for the
// mock-api-tester command.
package main

import (
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/launchdarkly/mock-api-tester/demoapp"
)

const defaultPort = 7923

func main() {
	var port int
	var secret string
	var quiet bool

	fs := flag.NewFlagSet("", flag.ExitOnError)
	fs.IntVar(&port, "port", defaultPort, "port to listen on")
	fs.StringVar(&secret, "secret", demoapp.DefaultSecret, "HMAC secret for verifying bearer tokens")
	fs.BoolVar(&quiet, "quiet", false, "do not log requests")
	_ = fs.Parse(os.Args[1:])

	logger := log.New(os.Stdout, "[testservice] ", log.LstdFlags)
	config := demoapp.Config{}
	if !quiet {
		config.Logger = logger
	}

	security := demoapp.DefaultSecurityConfig()
	security.Secret = []byte(secret)
	handler := demoapp.SecurityFilter(security)(demoapp.NewHandler(config))

	logger.Printf("Listening on port %d", port)
	if err := http.ListenAndServe(fmt.Sprintf(":%d", port), handler); err != nil {
		logger.Fatalf("Server exited: %s", err)
	}
}
