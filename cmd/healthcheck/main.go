// Command healthcheck probes the local server's readiness endpoint and
// exits non-zero on failure. Used as the container health probe.
package main

import (
	"flag"
	"fmt"
	"net/http"
	"os"
	"time"
)

func main() {
	path := flag.String("path", "/ready", "endpoint to probe")
	timeout := flag.Duration("timeout", 8*time.Second, "probe timeout")
	flag.Parse()

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	client := &http.Client{Timeout: *timeout}
	resp, err := client.Get(fmt.Sprintf("http://localhost:%s%s", port, *path))
	if err != nil {
		fmt.Fprintf(os.Stderr, "probe failed: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		fmt.Fprintf(os.Stderr, "probe returned HTTP %d\n", resp.StatusCode)
		os.Exit(1)
	}
}
