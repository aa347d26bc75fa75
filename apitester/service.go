package apitester

import (
	"fmt"
	"io"
	"io/ioutil"
	"net/http"
	"time"
)

const awaitServiceInterval = time.Millisecond * 100

// AwaitService polls url until it answers with a 200 status, writing progress to output. It
// fails as soon as the service answers with any other status, or when timeout elapses
// without an answer. A query that hangs is abandoned at the deadline.
func AwaitService(url string, timeout time.Duration, output io.Writer) error {
	fmt.Fprintf(output, "Connecting to service at %s", url)

	deadline := time.Now().Add(timeout)
	for {
		fmt.Fprintf(output, ".")
		remaining := time.Until(deadline)
		if remaining < awaitServiceInterval {
			remaining = awaitServiceInterval
		}
		client := &http.Client{Timeout: remaining}
		resp, err := client.Get(url)
		if err == nil {
			fmt.Fprintln(output)
			data, _ := ioutil.ReadAll(resp.Body)
			resp.Body.Close()
			if resp.StatusCode != http.StatusOK {
				return fmt.Errorf("service returned status code %d", resp.StatusCode)
			}
			if len(data) > 0 {
				fmt.Fprintf(output, "Status query returned: %s\n", string(data))
			}
			return nil
		}
		if !time.Now().Before(deadline) {
			fmt.Fprintln(output)
			return fmt.Errorf("timed out, result of last query was: %w", err)
		}
		time.Sleep(awaitServiceInterval)
	}
}
