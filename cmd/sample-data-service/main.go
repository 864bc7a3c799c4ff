// Command sample-data-service is the HTTP server for the sample data service.
//
// Purpose:
//
//	Serves GET /data: a fresh batch of 15 random integers in [1, 30], its
//	ascending order and its distinct ascending values, with a local
//	timestamp. Health, readiness and Prometheus metrics are served on a
//	separate admin port.
//
// Debugging Notes:
//   - Public listener on HTTP_PORT (default 8080), admin on ADMIN_PORT (default 9090)
//   - `sample-data-service generate --pretty` prints a batch without a server
//   - Graceful shutdown fails readiness first, then drains in-flight requests
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/otherjamesbrown/ai-aas/services/sample-data-service/internal/api/public"
	"github.com/otherjamesbrown/ai-aas/services/sample-data-service/internal/commands"
)

// Set at build time via -ldflags "-X main.version=...".
var (
	version   = "dev"
	gitCommit = ""
	buildTime = ""
)

func main() {
	root := commands.RootCommand(public.BuildMetadata{
		Version:   version,
		Commit:    gitCommit,
		BuildTime: buildTime,
	})

	if err := root.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
