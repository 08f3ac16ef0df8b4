package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/colonyops/msgfeed/pkg/profiler"
)

func profilerFlag(flags *Flags) cli.Flag {
	return &cli.IntFlag{
		Name:        "profiler-port",
		Usage:       "enable pprof HTTP endpoint on specified port (e.g., 6060)",
		Sources:     cli.EnvVars("MSGFEED_PROFILER_PORT"),
		Destination: &flags.ProfilerPort,
	}
}

// startProfiler starts the pprof server when a port is configured. The
// returned function shuts it down and is safe to call when disabled.
func startProfiler(ctx context.Context, port int) (func(), error) {
	if port <= 0 {
		return func() {}, nil
	}

	srv := profiler.New(port)
	if err := srv.Start(ctx); err != nil {
		return nil, fmt.Errorf("failed to start profiler: %w", err)
	}
	log.Info().
		Str("url", fmt.Sprintf("http://%s/debug/pprof/", srv.Addr())).
		Msg("profiler endpoint available")

	return func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("failed to shutdown profiler server")
		}
	}, nil
}
