package scheduler

import (
	"context"
	"errors"
	"fmt"

	"github.com/linkstash/linkstash/internal/auth"
	"github.com/linkstash/linkstash/internal/domain"
	"github.com/linkstash/linkstash/internal/logger"
	"github.com/linkstash/linkstash/internal/sources/seed"
	redisstore "github.com/linkstash/linkstash/internal/store/redis"
)

// SeedImporter provisions accounts and their bookmarks from the seed file.
// Import is idempotent per account: a user whose email already exists is
// skipped entirely, so re-running never duplicates records.
type SeedImporter struct {
	loader        *seed.Loader
	mapper        *seed.Mapper
	store         *redisstore.Store
	logger        logger.Logger
	stopCh        chan struct{}
	manualTrigger chan struct{}
}

func NewSeedImporter(
	seedFile string,
	store *redisstore.Store,
	log logger.Logger,
	manualTrigger chan struct{},
) *SeedImporter {
	return &SeedImporter{
		loader:        seed.NewLoader(seedFile),
		mapper:        seed.NewMapper(),
		store:         store,
		logger:        log,
		stopCh:        make(chan struct{}),
		manualTrigger: manualTrigger,
	}
}

// Start imports once, then waits for manual re-import triggers.
func (si *SeedImporter) Start(ctx context.Context) error {
	if err := si.Import(ctx); err != nil {
		return fmt.Errorf("initial seed import failed: %w", err)
	}

	go func() {
		for {
			select {
			case <-si.manualTrigger:
				si.logger.Info("manual seed re-import triggered")
				if err := si.Import(ctx); err != nil {
					si.logger.Error("failed to re-import seed", logger.Error(err))
				}
			case <-si.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()

	return nil
}

// Stop stops the importer.
func (si *SeedImporter) Stop() {
	close(si.stopCh)
}

// Import loads the seed file and provisions any accounts that don't exist yet.
func (si *SeedImporter) Import(ctx context.Context) error {
	file, err := si.loader.Load()
	if err != nil {
		return err
	}

	imported := 0
	for _, user := range file.Users {
		created, err := si.importUser(ctx, user)
		if err != nil {
			return fmt.Errorf("failed to import seed user %s: %w", user.Email, err)
		}
		if created {
			imported++
		}
	}

	si.logger.Info("seed import completed",
		logger.Int("users_total", len(file.Users)),
		logger.Int("users_imported", imported))
	return nil
}

func (si *SeedImporter) importUser(ctx context.Context, user seed.User) (bool, error) {
	hash, err := auth.HashPassword(user.Password)
	if err != nil {
		return false, err
	}

	acc, err := si.store.CreateAccount(ctx, user.Email, hash)
	if err != nil {
		if errors.Is(err, domain.ErrConflict) {
			si.logger.Debug("seed user already exists, skipping",
				logger.String("email", user.Email))
			return false, nil
		}
		return false, err
	}

	folders := make(map[string]string, len(user.Folders))
	for _, f := range user.Folders {
		folder, err := si.store.CreateFolder(ctx, acc.ID, f.Name, f.Color)
		if err != nil {
			return false, err
		}
		folders[f.Name] = folder.ID
	}

	bookmarks := si.mapper.MapBookmarks(acc.ID, folders, user.Bookmarks)
	if len(bookmarks) > 0 {
		if err := si.store.SaveBookmarksMany(ctx, bookmarks); err != nil {
			return false, err
		}
	}

	si.logger.Info("seed user imported",
		logger.String("email", user.Email),
		logger.Int("bookmarks", len(bookmarks)),
		logger.Int("folders", len(folders)))
	return true, nil
}
