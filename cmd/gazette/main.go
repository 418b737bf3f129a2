// Command gazette is a local-first search tool for Sri Lankan legal
// documents: gazettes, acts, bills, forms and notices.
package main

import (
	"fmt"
	"os"
	"time"

	configfile "github.com/lankadocs/gazette-cli/internal/adapters/driven/config/file"
	"github.com/lankadocs/gazette-cli/internal/adapters/driven/pdf"
	"github.com/lankadocs/gazette-cli/internal/adapters/driven/provenance/github"
	searchbleve "github.com/lankadocs/gazette-cli/internal/adapters/driven/search/bleve"
	"github.com/lankadocs/gazette-cli/internal/adapters/driven/source/local"
	"github.com/lankadocs/gazette-cli/internal/adapters/driven/source/remote"
	storagefile "github.com/lankadocs/gazette-cli/internal/adapters/driven/storage/file"
	"github.com/lankadocs/gazette-cli/internal/adapters/driven/storage/memory"
	"github.com/lankadocs/gazette-cli/internal/adapters/driven/storage/sqlite"
	"github.com/lankadocs/gazette-cli/internal/adapters/driving/cli"
	"github.com/lankadocs/gazette-cli/internal/core/domain"
	"github.com/lankadocs/gazette-cli/internal/core/ports/driven"
	"github.com/lankadocs/gazette-cli/internal/core/services"
	"github.com/lankadocs/gazette-cli/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	config, err := configfile.NewConfigStore("")
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	dataDir := config.GetString(configfile.KeyDataDir)
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = home + "/.gazette/data"
	}

	syncCache, loaderCache, schedulerStore, closeStorage, err := buildStorage(config, dataDir)
	if err != nil {
		return fmt.Errorf("opening storage: %w", err)
	}
	defer closeStorage()

	sources := buildSources(config)

	engine := searchbleve.NewEngine()
	defer engine.Close()

	checker := buildProvenance(config)
	resolver := pdf.New(config.GetString(configfile.KeyPDFBaseURL), nil)

	syncEngine := services.NewSyncEngine(sources, syncCache, checker)
	if minutes := config.GetInt(configfile.KeyRefreshMinutes); minutes > 0 {
		syncEngine.SetInterval(time.Duration(minutes) * time.Minute)
	}

	searchService := services.NewSearchService(engine)
	loader := services.NewProgressiveLoader(sources[0], loaderCache)

	schedulerConfig := domain.DefaultSchedulerConfig()
	schedulerConfig.Enabled = schedulerEnabled(config)
	scheduler := services.NewScheduler(schedulerConfig, schedulerStore, syncEngine)

	cli.SetVersion(version)
	cli.SetServices(syncEngine, searchService, loader, resolver)
	cli.SetTUIConfig(&cli.TUIConfig{
		Scheduler:       scheduler,
		SchedulerConfig: schedulerConfig,
	})

	return cli.Execute()
}

// buildStorage opens the configured cache backend. The sqlite backend
// is the default; "file" selects the plain JSON store, which has no
// scheduler history.
func buildStorage(config *configfile.ConfigStore, dataDir string) (
	syncCache, loaderCache driven.CacheStore,
	schedulerStore driven.SchedulerStore,
	closeFn func(),
	err error,
) {
	if config.GetString(configfile.KeyStorageBackend) == "file" {
		sc, err := storagefile.NewCacheStore(dataDir, "sync")
		if err != nil {
			return nil, nil, nil, nil, err
		}
		lc, err := storagefile.NewCacheStore(dataDir, "loader")
		if err != nil {
			return nil, nil, nil, nil, err
		}
		logger.Debug("using file cache in %s", dataDir)
		// The file backend has no scheduler tables; history is
		// in-memory only.
		return sc, lc, memory.NewSchedulerStore(), func() {}, nil
	}

	store, err := sqlite.NewStore(dataDir)
	if err != nil {
		return nil, nil, nil, nil, err
	}
	logger.Debug("using sqlite cache in %s", dataDir)
	return store.CacheStore("sync"), store.CacheStore("loader"), store.SchedulerStore(),
		func() { store.Close() }, nil
}

// buildSources assembles the document sources in priority order: the
// local snapshot directory first when configured, then the remote raw
// file.
func buildSources(config *configfile.ConfigStore) []driven.DocumentSource {
	var sources []driven.DocumentSource

	if dir := config.GetString(configfile.KeySnapshotDir); dir != "" {
		sources = append(sources, local.New(dir))
	}

	url := config.GetString(configfile.KeyRemoteURL)
	if url == "" {
		url = remote.DefaultURL
	}
	sources = append(sources, remote.New("remote", url, nil, nil))

	return sources
}

// schedulerEnabled honours the config key only when it is actually
// set; an absent key keeps the default.
func schedulerEnabled(config *configfile.ConfigStore) bool {
	if _, ok := config.Get(configfile.KeySchedulerOn); ok {
		return config.GetBool(configfile.KeySchedulerOn)
	}
	return domain.DefaultSchedulerConfig().Enabled
}

// buildProvenance creates the commit checker for the upstream data
// repository.
func buildProvenance(config *configfile.ConfigStore) driven.ProvenanceChecker {
	owner := config.GetString(configfile.KeyProvenanceOwner)
	repo := config.GetString(configfile.KeyProvenanceRepo)
	path := config.GetString(configfile.KeyProvenancePath)
	if owner == "" || repo == "" {
		return github.NewDefault()
	}
	if path == "" {
		path = github.DefaultPath
	}
	return github.New(owner, repo, path, nil)
}
