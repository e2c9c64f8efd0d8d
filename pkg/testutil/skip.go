// Package testutil holds helpers shared by the container-backed tests.
package testutil

import (
	"os"
	"strconv"
	"testing"

	"github.com/testcontainers/testcontainers-go"
)

// IntegrationEnv opts in to container-backed tests on CI runners.
const IntegrationEnv = "INTEGRATION_TESTS"

// RequireIntegration skips the test in -short mode, on CI unless INTEGRATION_TESTS is true, and
// when no container runtime answers.
func RequireIntegration(t *testing.T) {
	t.Helper()
	if testing.Short() {
		t.Skip("integration test skipped in -short mode")
	}
	if os.Getenv("CI") != "" && !optedIn() {
		t.Skipf("integration test skipped on CI; set %s=true to run it", IntegrationEnv)
	}
	testcontainers.SkipIfProviderIsNotHealthy(t)
}

func optedIn() bool {
	on, err := strconv.ParseBool(os.Getenv(IntegrationEnv))
	return err == nil && on
}
