package app

import (
	"context"
	"fmt"
	"time"

	"github.com/prostore-hq/prostore-events-bridge/internal/bridge"
	"github.com/prostore-hq/prostore-events-bridge/internal/config"
	"github.com/prostore-hq/prostore-events-bridge/internal/logger"
	"github.com/prostore-hq/prostore-events-bridge/internal/storage"
	"github.com/prostore-hq/prostore-events-bridge/pkg/adminapi"
	"github.com/prostore-hq/prostore-events-bridge/pkg/publishers"
	"github.com/prostore-hq/prostore-events-bridge/pkg/watchers"
)

// Bridge represents the events bridge runtime. It manages the poll loop,
// coordinating between watches, the bridge service, and publishers. It also
// handles storage initialization and cleanup.
type Bridge struct {
	cfg          *config.Config
	watchReg     *watchers.Registry
	fanout       *publishers.Fanout
	service      *bridge.Service
	pollInterval time.Duration
	log          logger.Logger
	store        storage.Store
}

// NewBridge builds a bridge runtime from config files.
func NewBridge(ctx context.Context, cfg *config.Config, log logger.Logger) (*Bridge, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	if log == nil {
		log = &logger.NopLogger{}
	}
	if ctx == nil {
		ctx = context.Background()
	}

	client, err := adminapi.New(adminapi.Config{
		URL:          cfg.StoreURL,
		UserID:       cfg.StoreUserID,
		PrivateToken: cfg.StorePrivateToken,
		Timeout:      cfg.HTTPTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("init admin api client: %w", err)
	}

	watchReg, err := watchers.LoadRegistry(cfg.WatchersFile)
	if err != nil {
		return nil, fmt.Errorf("load watchers registry: %w", err)
	}
	watchList := watchReg.All()
	watchIDs := make([]string, 0, len(watchList))
	for _, w := range watchList {
		watchIDs = append(watchIDs, w.ID)
	}
	log.InfoObj("watchers registry loaded", "watchers_meta", map[string]any{
		"count": len(watchIDs),
		"ids":   watchIDs,
	})

	publisherReg, err := publishers.LoadRegistry(cfg.PublishersFile)
	if err != nil {
		return nil, fmt.Errorf("load publishers registry: %w", err)
	}
	pollerRegistry := watchers.DefaultPollerRegistry(client)

	enabledPublishers := publisherReg.Enabled()
	if len(enabledPublishers) == 0 {
		return nil, fmt.Errorf("no publishers configured")
	}

	pubRegistry := publishers.DefaultRegistry()
	pubClients, err := publishers.BuildAll(ctx, pubRegistry, enabledPublishers, log)
	if err != nil {
		return nil, fmt.Errorf("build publishers: %w", err)
	}
	fanout := publishers.NewFanout(pubClients)
	publisherSummaries := make([]map[string]string, 0, len(enabledPublishers))
	for _, pubCfg := range enabledPublishers {
		publisherSummaries = append(publisherSummaries, map[string]string{
			"id":   pubCfg.ID,
			"type": pubCfg.Type,
		})
	}
	log.InfoObj("publishers registry loaded", "publishers_meta", map[string]any{
		"count":      len(publisherSummaries),
		"publishers": publisherSummaries,
	})

	storeOpts := storage.Options{
		ResourceTTL:     cfg.StorageTTL,
		CleanupInterval: cfg.StorageCleanupInterval,
	}
	store, err := storage.NewStore(cfg.StorageType, cfg.BBoltPath, storeOpts)
	if err != nil {
		return nil, fmt.Errorf("init storage: %w", err)
	}
	log.InfoObj("storage initialized", "storage_config", map[string]any{
		"type":                     cfg.StorageType,
		"path":                     cfg.BBoltPath,
		"resource_ttl_seconds":     int(cfg.StorageTTL.Seconds()),
		"cleanup_interval_seconds": int(cfg.StorageCleanupInterval.Seconds()),
	})

	service := bridge.NewService(pollerRegistry, fanout, log, store)

	return &Bridge{
		cfg:          cfg,
		watchReg:     watchReg,
		fanout:       fanout,
		service:      service,
		pollInterval: cfg.PollInterval,
		log:          log,
		store:        store,
	}, nil
}

// Run starts the poll loop until the context is cancelled.
func (b *Bridge) Run(ctx context.Context) error {
	if b == nil || b.service == nil {
		return fmt.Errorf("bridge is not initialized")
	}
	defer b.closeStore()
	watches := b.watchReg.All()
	if len(watches) == 0 {
		b.log.WarnObj("no watches configured; bridge idle", "watchers_file", b.cfg.WatchersFile)
		<-ctx.Done()
		return ctx.Err()
	}

	b.log.InfoObj("bridge loop starting", "bridge_state", map[string]any{
		"watches_count":    len(watches),
		"publishers_count": b.fanout.Size(),
		"poll_interval":    b.pollInterval.String(),
	})

	if err := b.runOnce(ctx, watches); err != nil {
		b.log.ErrorObj("initial poll failed", "error", err)
	}

	ticker := time.NewTicker(b.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			b.log.InfoObj("bridge loop exiting", "reason", ctx.Err())
			return nil
		case <-ticker.C:
			if err := b.runOnce(ctx, watches); err != nil {
				b.log.ErrorObj("scheduled poll failed", "error", err)
			}
		}
	}
}

// runOnce performs a single bridge pass across all watches.
func (b *Bridge) runOnce(ctx context.Context, watches []watchers.Watch) error {
	start := time.Now()
	b.log.InfoObj("bridge pass started", "pass_meta", map[string]any{
		"watches_count": len(watches),
		"started_at":    start.UTC(),
	})
	if err := b.service.Run(ctx, watches); err != nil {
		return err
	}
	b.log.InfoObj("bridge pass completed", "pass_meta", map[string]any{
		"watches_count": len(watches),
		"elapsed_ms":    time.Since(start).Milliseconds(),
	})
	return nil
}

// closeStore safely closes the storage backend, logging any errors encountered.
func (b *Bridge) closeStore() {
	if b == nil || b.store == nil {
		return
	}
	if err := b.store.Close(); err != nil {
		b.log.ErrorObj("storage close failed", "error", err)
	}
}
