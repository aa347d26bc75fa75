// Package apitests contains the contract tests for the demo API and their supporting API.
//
// The suite only talks to the service through an apitester.Tester, so the same tests run
// in-process from "go test" and against a live service from the command line.
package apitests
