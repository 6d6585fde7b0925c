//go:build e2e

package e2e

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/cucumber/godog"
	"github.com/cucumber/godog/colors"
)

var opts = godog.Options{
	Output:      colors.Colored(os.Stdout),
	Format:      "pretty",
	Paths:       []string{"features"},
	Tags:        os.Getenv("E2E_TAGS"),
	Concurrency: 1,
}

func init() {
	godog.BindCommandLineFlags("godog.", &opts)
}

// TestFeatures drives the issuer at BASE_URL. The server must list
// E2E_CONTROLLER (default aaaaa-aa) among its controllers and sign caller
// tokens with E2E_CALLER_TOKEN_KEY.
func TestFeatures(t *testing.T) {
	flag.Parse()
	opts.TestingT = t

	status := godog.TestSuite{
		Name:                 "vcissuer",
		TestSuiteInitializer: initializeSuite,
		ScenarioInitializer:  InitializeScenario,
		Options:              &opts,
	}.Run()
	if status != 0 {
		t.Fatalf("feature run exited with status %d", status)
	}
}

func initializeSuite(ts *godog.TestSuiteContext) {
	ts.BeforeSuite(func() {
		base := env("BASE_URL", "http://localhost:8080")
		if err := waitReady(base, 30*time.Second); err != nil {
			panic(err)
		}
	})
}

// waitReady polls the liveness probe. Readiness stays down until a scenario
// configures the issuer.
func waitReady(base string, timeout time.Duration) error {
	client := &http.Client{Timeout: 2 * time.Second}
	deadline := time.Now().Add(timeout)
	for {
		resp, err := client.Get(base + "/health/live")
		if err == nil {
			resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return nil
			}
		}
		if time.Now().After(deadline) {
			return fmt.Errorf("issuer at %s not ready after %s", base, timeout)
		}
		time.Sleep(500 * time.Millisecond)
	}
}

func InitializeScenario(sc *godog.ScenarioContext) {
	tc := NewTestContext()

	sc.Before(func(ctx context.Context, _ *godog.Scenario) (context.Context, error) {
		*tc = *NewTestContext()
		return ctx, nil
	})

	sc.After(func(ctx context.Context, scenario *godog.Scenario, err error) (context.Context, error) {
		if err != nil && tc.LastResponse != nil {
			fmt.Printf("%s: last response %d %s\n", scenario.Name, tc.LastResponse.StatusCode, tc.LastResponseBody)
		}
		return ctx, nil
	})

	RegisterSteps(sc, tc)
}
