package app

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/docql/docql/internal/config"
	"github.com/docql/docql/internal/schema"
	"github.com/docql/docql/internal/store"
	"github.com/docql/docql/pkg/logger"
	"github.com/docql/docql/pkg/progress"
)

type Service struct{}

func NewService() *Service {
	return &Service{}
}

// Session bundles one store connection with its schema cache. Callers own
// the session and must Close it to stop background warming.
type Session struct {
	Store *store.MongoStore
	Cache *schema.Cache
	Log   *logger.Logger
}

func (s *Service) Open(ctx context.Context, cfg *config.Config, verbose bool) (*Session, error) {
	if strings.TrimSpace(cfg.Database.Database) == "" {
		return nil, fmt.Errorf("database name is required")
	}

	log := logger.NewLogger(verbose)

	mongoStore, err := store.ConnectMongo(ctx, cfg.GetMongoURI(), cfg.Database.Database, log)
	if err != nil {
		return nil, err
	}

	detector := schema.NewDetector(mongoStore, cfg.DiscoverySettings(), log)
	cache := schema.NewCache(detector, cfg.CacheSettings(), log)

	return &Session{Store: mongoStore, Cache: cache, Log: log}, nil
}

func (sess *Session) Close(ctx context.Context) {
	sess.Cache.Close()
	if err := sess.Store.Close(ctx); err != nil {
		sess.Log.Warnf("failed to disconnect: %v", err)
	}
}

func (s *Service) ListTables(cfg *config.Config) error {
	ctx := context.Background()
	sess, err := s.Open(ctx, cfg, false)
	if err != nil {
		return err
	}
	defer sess.Close(ctx)

	tables, err := sess.Store.ListTables(ctx)
	if err != nil {
		return err
	}
	sort.Strings(tables)

	fmt.Printf("\nTables in %s:\n", cfg.Database.Database)
	fmt.Println(strings.Repeat("=", 36))
	for i, table := range tables {
		fmt.Printf("%d. %s\n", i+1, table)
	}
	if len(tables) == 0 {
		fmt.Println("(none)")
	}
	return nil
}

func (s *Service) InspectTable(cfg *config.Config, table string, verbose bool) error {
	ctx := context.Background()
	sess, err := s.Open(ctx, cfg, verbose)
	if err != nil {
		return err
	}
	defer sess.Close(ctx)

	snapshot, err := sess.Cache.GetSchema(ctx, table)
	if err != nil {
		return err
	}

	printSchema(table, snapshot, cfg.DiscoverySettings().Mode)
	return nil
}

func (s *Service) WarmCache(cfg *config.Config, verbose bool) error {
	ctx := context.Background()
	sess, err := s.Open(ctx, cfg, verbose)
	if err != nil {
		return err
	}
	defer sess.Close(ctx)

	tables, err := sess.Store.ListTables(ctx)
	if err != nil {
		return err
	}
	if len(tables) == 0 {
		fmt.Println("No tables to warm.")
		return nil
	}
	sort.Strings(tables)

	bar := progress.NewBar(int64(len(tables)), "Warming schema cache")
	var failed int
	for _, table := range tables {
		if err := sess.Cache.Refresh(ctx, table); err != nil {
			failed++
			sess.Log.Warnf("failed to warm %s: %v", table, err)
		}
		bar.Increment()
	}
	bar.Finish()

	stats := sess.Cache.Stats()
	fmt.Printf("Warmed %d of %d tables (%d cached entries).\n",
		len(tables)-failed, len(tables), stats.Entries)
	if failed > 0 {
		return fmt.Errorf("%d tables failed to warm", failed)
	}
	return nil
}

func printSchema(table string, snapshot schema.Snapshot, mode schema.DiscoveryMode) {
	descriptors := snapshot.Describe()

	fmt.Printf("\nSchema for %s (discovery mode: %s):\n", table, mode)
	fmt.Println(strings.Repeat("=", 92))
	if len(descriptors) == 0 {
		fmt.Println("(no columns inferred)")
		return
	}

	fmt.Printf("%-28s %-10s %-10s %-12s %-12s %s\n",
		"Column", "Type", "Nullable", "Size", "Confidence", "Conflict")
	fmt.Println(strings.Repeat("-", 92))
	for _, d := range descriptors {
		conflict := ""
		if d.HasConflict {
			conflict = "yes"
		}
		fmt.Printf("%-28s %-10s %-10v %-12d %-12.2f %s\n",
			d.Name, d.TypeName, d.Nullable, d.ColumnSize, d.Confidence, conflict)
	}
}
