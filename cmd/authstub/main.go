// Command authstub serves the marketplace session API locally: registration,
// sign-in, refresh, and a bearer-protected /me.
//
// Run:
//
//	go run ./cmd/authstub -addr :8080 -seed a@b.com:pw
//
// The signing key comes from -signing-key or AUTHSTUB_SIGNING_KEY. When neither is
// set a random key is generated and tokens do not survive a restart.
package main

import (
	"context"
	"crypto/rand"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/MrEthical07/goSession/internal/devserver"
	"github.com/rs/zerolog"
)

func main() {
	var (
		addr       = flag.String("addr", ":8080", "listen address")
		signingKey = flag.String("signing-key", "", "HS256 signing key (at least 32 bytes); falls back to AUTHSTUB_SIGNING_KEY")
		accessTTL  = flag.Duration("access-ttl", 15*time.Minute, "access token lifetime")
		seed       = flag.String("seed", "", "comma-separated email:password accounts to pre-register")
		pretty     = flag.Bool("pretty", true, "human-readable logs")
		verbose    = flag.Bool("v", false, "log every request")
	)
	flag.Parse()

	logger := newLogger(*pretty, *verbose)

	key, err := resolveKey(*signingKey)
	if err != nil {
		logger.Fatal().Err(err).Msg("signing key")
	}

	srv, err := devserver.New(devserver.Config{
		SigningKey: key,
		AccessTTL:  *accessTTL,
		Issuer:     "authstub",
		Logger:     logger,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("build server")
	}

	if err := seedAccounts(srv, *seed); err != nil {
		logger.Fatal().Err(err).Msg("seed accounts")
	}

	httpServer := &http.Server{
		Addr:              *addr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info().Str("addr", *addr).Int("users", srv.Users()).Msg("authstub listening")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("listen")
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("shutdown")
	}
}

func newLogger(pretty, verbose bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	var w = zerolog.New(os.Stderr)
	if pretty {
		w = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	}
	return w.Level(level).With().Timestamp().Str("component", "authstub").Logger()
}

func resolveKey(flagValue string) ([]byte, error) {
	key := flagValue
	if key == "" {
		key = os.Getenv("AUTHSTUB_SIGNING_KEY")
	}
	if key != "" {
		return []byte(key), nil
	}
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return nil, err
	}
	return buf, nil
}

func seedAccounts(srv *devserver.Server, list string) error {
	if strings.TrimSpace(list) == "" {
		return nil
	}
	for _, entry := range strings.Split(list, ",") {
		email, password, ok := strings.Cut(strings.TrimSpace(entry), ":")
		if !ok || email == "" || password == "" {
			return fmt.Errorf("invalid seed entry %q, want email:password", entry)
		}
		name, _, _ := strings.Cut(email, "@")
		if _, err := srv.Seed(name, email, "0", password); err != nil {
			return fmt.Errorf("seed %s: %w", email, err)
		}
	}
	return nil
}
