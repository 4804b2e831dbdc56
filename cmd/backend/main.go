package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"filestash/internal/db"
	"filestash/internal/server"
	"filestash/internal/store"
)

func main() {
	addr := getenvDefault("FSTASH_ADDR", ":8080")

	build := server.BuildInfo{
		Version: getenvDefault("FSTASH_VERSION", "dev"),
		Commit:  getenvDefault("FSTASH_COMMIT", "unknown"),
	}

	maxUpload, err := maxUploadBytes()
	if err != nil {
		log.Printf("service=backend msg=%q err=%v", "bad FSTASH_MAX_UPLOAD_BYTES", err)
		os.Exit(1)
	}

	logger := server.LoggerFromEnv()

	st, err := openStore(logger)
	if err != nil {
		log.Printf("service=backend msg=%q err=%v", "store_open_failed", err)
		os.Exit(1)
	}
	defer func() { _ = st.Close() }()

	srv := server.New(server.Config{
		Addr:           addr,
		AllowedOrigin:  getenvDefault("FSTASH_ALLOWED_ORIGIN", "*"),
		MaxUploadBytes: maxUpload,
		Build:          build,
	}, st, logger)

	// Start the HTTP server in a background goroutine so we can listen
	// for OS signals while the server runs.
	errCh := make(chan error, 1)
	go func() {
		log.Printf("service=backend msg=%q addr=%s version=%s commit=%s",
			"starting", addr, build.Version, build.Commit)
		errCh <- srv.Start()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Printf("service=backend msg=%q signal=%s", "shutting_down", sig.String())
		// Give in-flight requests 5 seconds to finish.
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			log.Printf("service=backend msg=%q err=%v", "shutdown_error", err)
			os.Exit(1)
		}
		log.Printf("service=backend msg=%q", "shutdown_complete")
	case err := <-errCh:
		if err != nil {
			log.Printf("service=backend msg=%q err=%v", "server_error", err)
			os.Exit(1)
		}
	}
}

// openStore builds the persistence backend selected by FSTASH_STORE.
// Postgres is the default; it also runs schema migrations on boot.
func openStore(logger *server.Logger) (store.Store, error) {
	backend := getenvDefault("FSTASH_STORE", "postgres")

	switch backend {
	case "minio":
		logger.Info("using object store backend", map[string]any{"backend": backend})
		return store.OpenObjectStore(store.ObjectConfig{
			Endpoint:  os.Getenv("FSTASH_S3_ENDPOINT"),
			AccessKey: os.Getenv("FSTASH_S3_ACCESS_KEY"),
			SecretKey: os.Getenv("FSTASH_S3_SECRET_KEY"),
			Bucket:    os.Getenv("FSTASH_BUCKET"),
		})
	case "postgres":
		pg, err := store.OpenPostgres(os.Getenv("DATABASE_URL"))
		if err != nil {
			return nil, err
		}
		logger.Info("running migrations", nil)
		if err := db.RunMigrations(pg.DB()); err != nil {
			_ = pg.Close()
			return nil, err
		}
		logger.Info("migrations complete", nil)
		return pg, nil
	default:
		return nil, fmt.Errorf("unknown FSTASH_STORE backend: %q", backend)
	}
}

// maxUploadBytes reads FSTASH_MAX_UPLOAD_BYTES and returns the request
// body ceiling for uploads. Defaults to 32 MiB when unset.
func maxUploadBytes() (int64, error) {
	raw := os.Getenv("FSTASH_MAX_UPLOAD_BYTES")
	if raw == "" {
		return 32 << 20, nil
	}
	return strconv.ParseInt(raw, 10, 64)
}

// getenvDefault reads an environment variable and returns a default value if not set.
func getenvDefault(key, def string) string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v
}
