package testutil

import (
	"os"
	"testing"
)

// ServerURL returns the base URL of a running bookings service, or skips
// the test when none is configured.
func ServerURL(t *testing.T) string {
	t.Helper()

	url := os.Getenv("TEST_SERVER_URL")
	if url == "" {
		t.Skip("TEST_SERVER_URL not set, skipping integration test")
	}
	return url
}
