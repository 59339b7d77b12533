package testfixtures

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"sync/atomic"

	"github.com/touchline/scoutsim/internal/adapters/repository"
	"github.com/touchline/scoutsim/internal/domain/model"
	"github.com/touchline/scoutsim/internal/domain/types"
)

// collectWatchedPlayers returns the unique watchlist IDs across all
// assignments, in first-seen order.
func collectWatchedPlayers(assignments []model.Assignment) []string {
	seen := make(map[string]bool)
	watched := make([]string, 0, len(assignments)*watchlistSize)
	for i := range assignments {
		for _, id := range assignments[i].Scout.Watchlist {
			if !seen[id] {
				seen[id] = true
				watched = append(watched, id)
			}
		}
	}
	return watched
}

// retrieveRanks reads back a board entry for every watched player.
// Players the board never saw (all their sessions were rejected or
// yielded nothing) count as missing, not as failures.
func retrieveRanks(ctx context.Context, svc Service, config *Config, watched []string, stats *Stats) []types.Entry {
	log.Printf("🔍 Retrieving ranks for %d watched players with %d workers...", len(watched), config.Workers)

	var (
		retrieved int64
		missing   int64
		failed    int64
	)

	rankings := make([]types.Entry, len(watched))
	indexChan := make(chan int, config.Workers*WorkerChannelMultiplier)

	var wg sync.WaitGroup
	for i := 0; i < config.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			for idx := range indexChan {
				entry, err := svc.ProspectRank(ctx, watched[idx])
				switch {
				case err == nil:
					rankings[idx] = entry
					atomic.AddInt64(&retrieved, 1)
				case errors.Is(err, repository.ErrNotFound):
					atomic.AddInt64(&missing, 1)
				default:
					atomic.AddInt64(&failed, 1)
					if config.Verbose {
						log.Printf("⚠️  Rank lookup failed for %s: %v", watched[idx], err)
					}
				}
			}
		}()
	}

	go func() {
		defer close(indexChan)
		for idx := range watched {
			select {
			case <-ctx.Done():
				return
			case indexChan <- idx:
			}
		}
	}()

	wg.Wait()

	valid := make([]types.Entry, 0, len(rankings))
	for _, entry := range rankings {
		if entry.PlayerID != "" {
			valid = append(valid, entry)
		}
	}

	stats.RanksRetrieved = len(valid)
	log.Printf("✅ Rank retrieval completed: %d retrieved, %d missing, %d failed",
		atomic.LoadInt64(&retrieved), atomic.LoadInt64(&missing), atomic.LoadInt64(&failed))

	return valid
}

// getBoard fetches the top N prospect board entries.
func getBoard(ctx context.Context, svc Service, config *Config, stats *Stats) ([]types.Entry, error) {
	log.Printf("🥇 Getting top %d board entries...", config.TopN)

	entries, err := svc.TopProspects(ctx, config.TopN)
	if err != nil {
		return nil, fmt.Errorf("board read failed: %w", err)
	}

	stats.BoardEntries = len(entries)
	log.Printf("✅ Retrieved %d board entries", len(entries))
	return entries, nil
}
