package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	kongdotenv "github.com/titusjaka/kong-dotenv-go"
	_ "modernc.org/sqlite"

	"github.com/atlasmet/extremecast/internal/api"
	"github.com/atlasmet/extremecast/internal/model"
	"github.com/atlasmet/extremecast/internal/pipeline"
	"github.com/atlasmet/extremecast/internal/store"
)

type rootFlags struct {
	ArtifactsDir string `help:"Directory containing one artifact bundle per city." default:"artifacts" env:"ARTIFACTS_DIR"`
	ModelURL     string `help:"Base URL of a remote inference server. When unset the local model.json readout is used." env:"MODEL_URL"`
}

type serveCmd struct {
	Port           string        `help:"HTTP server port." default:"8080" env:"PORT"`
	DB             string        `help:"Path to sqlite forecast archive. Empty disables archiving." env:"DB_PATH"`
	CacheTTL       time.Duration `help:"Forecast result cache TTL." default:"60s" env:"FORECAST_CACHE_TTL"`
	StreamInterval time.Duration `help:"Default realtime stream interval." default:"5s" env:"STREAM_INTERVAL"`
	CORSOrigins    []string      `help:"Allowed CORS origins." default:"*" env:"CORS_ORIGINS"`
}

type forecastCmd struct {
	City string `arg:"" help:"City to forecast (must match an artifact directory)."`
}

var cli struct {
	rootFlags

	Serve    serveCmd    `cmd:"" default:"withargs" help:"Run the forecast API server."`
	Forecast forecastCmd `cmd:"" help:"Run a single forecast and print the result JSON."`
}

func main() {
	ctx := kong.Parse(&cli,
		kong.Name("extremecast"),
		kong.Description("7-day weather forecasting with rule-based extreme event detection."),
		kong.Configuration(kongdotenv.ENVFileReader, ".env"),
		kong.Bind(&cli.rootFlags),
	)
	ctx.FatalIfErrorf(ctx.Run())
}

// discoverArtifacts maps city names to artifact bundle directories.
func discoverArtifacts(dir string) (map[string]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read artifacts dir %s: %w", dir, err)
	}
	artifacts := make(map[string]string)
	for _, entry := range entries {
		if entry.IsDir() {
			artifacts[entry.Name()] = filepath.Join(dir, entry.Name())
		}
	}
	if len(artifacts) == 0 {
		return nil, fmt.Errorf("no artifact bundles found under %s", dir)
	}
	return artifacts, nil
}

func newRunner(root *rootFlags) *pipeline.Runner {
	if root.ModelURL == "" {
		return pipeline.NewRunner()
	}
	remote := model.NewClient(root.ModelURL, "")
	return pipeline.NewRunner(pipeline.WithModelLoader(func(string) (model.Model, error) {
		return remote, nil
	}))
}

func (c *serveCmd) Run(root *rootFlags) error {
	artifacts, err := discoverArtifacts(root.ArtifactsDir)
	if err != nil {
		return err
	}
	cities := make([]string, 0, len(artifacts))
	for city := range artifacts {
		cities = append(cities, city)
	}
	sort.Strings(cities)
	log.Printf("serving %d cities: %v", len(cities), cities)

	var archive *store.Store
	if c.DB != "" {
		db, err := sql.Open("sqlite", c.DB)
		if err != nil {
			return fmt.Errorf("open archive database: %w", err)
		}
		defer db.Close()
		db.Exec("PRAGMA journal_mode=WAL")
		db.Exec("PRAGMA busy_timeout=5000")

		archive = store.New(db)
		if err := archive.Migrate(); err != nil {
			return fmt.Errorf("migrate archive: %w", err)
		}
		log.Printf("archiving forecasts to %s", c.DB)
	}

	server := api.NewServer(api.Config{
		Port:           c.Port,
		Artifacts:      artifacts,
		Runner:         newRunner(root),
		Archive:        archive,
		CacheTTL:       c.CacheTTL,
		StreamInterval: c.StreamInterval,
		CORSOrigins:    c.CORSOrigins,
	})

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	log.Printf("starting server on :%s", c.Port)
	return server.Run(ctx)
}

func (c *forecastCmd) Run(root *rootFlags) error {
	artifacts, err := discoverArtifacts(root.ArtifactsDir)
	if err != nil {
		return err
	}
	dir, ok := artifacts[c.City]
	if !ok {
		return fmt.Errorf("unknown city %q under %s", c.City, root.ArtifactsDir)
	}

	result, err := newRunner(root).Run(dir)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}
