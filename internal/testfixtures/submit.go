package testfixtures

import (
	"context"
	"errors"
	"log"
	"sync"
	"sync/atomic"
	"time"

	service "github.com/touchline/scoutsim/internal/app"
	"github.com/touchline/scoutsim/internal/domain/model"
)

const progressReportInterval = 1 * time.Second

// submitAssignments fans assignments out to the service with a worker
// pool, classifying each result as accepted, duplicate or rejected.
// Rejections are counted, not fatal: a full queue under load is part of
// what the run measures.
func submitAssignments(ctx context.Context, svc Service, config *Config, assignments []model.Assignment, stats *Stats) {
	log.Printf("📤 Submitting %d assignments with %d workers...", len(assignments), config.Workers)

	var (
		submitted      int64
		accepted       int64
		duplicate      int64
		rejected       int64
		lastReportNano atomic.Int64
	)
	lastReportNano.Store(time.Now().UnixNano())

	assignmentChan := make(chan model.Assignment, config.Workers*WorkerChannelMultiplier)

	var wg sync.WaitGroup
	for i := 0; i < config.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			for a := range assignmentChan {
				select {
				case <-ctx.Done():
					return
				default:
				}

				err := svc.SubmitAssignment(ctx, a)

				atomic.AddInt64(&submitted, 1)
				switch {
				case err == nil:
					atomic.AddInt64(&accepted, 1)
				case errors.Is(err, service.ErrDuplicateAssignment):
					atomic.AddInt64(&duplicate, 1)
				default:
					atomic.AddInt64(&rejected, 1)
					if config.Verbose {
						log.Printf("⚠️  Submission rejected for %s: %v", a.AssignmentID, err)
					}
				}

				now := time.Now()
				last := lastReportNano.Load()
				if now.UnixNano()-last >= int64(progressReportInterval) &&
					lastReportNano.CompareAndSwap(last, now.UnixNano()) {
					log.Printf("📊 Progress: %d/%d submitted (accepted: %d, duplicate: %d, rejected: %d)",
						atomic.LoadInt64(&submitted), len(assignments),
						atomic.LoadInt64(&accepted), atomic.LoadInt64(&duplicate), atomic.LoadInt64(&rejected))
				}
			}
		}()
	}

	go func() {
		defer close(assignmentChan)
		for i := range assignments {
			select {
			case <-ctx.Done():
				return
			case assignmentChan <- assignments[i]:
			}
		}
	}()

	wg.Wait()

	stats.AssignmentsSubmitted = int(atomic.LoadInt64(&submitted))
	stats.AssignmentsAccepted = int(atomic.LoadInt64(&accepted))
	stats.AssignmentsDuplicate = int(atomic.LoadInt64(&duplicate))
	stats.AssignmentsRejected = int(atomic.LoadInt64(&rejected))

	log.Printf(`✅ Assignment submission completed:
   Submitted: %d
   Accepted: %d
   Duplicate: %d
   Rejected: %d`,
		stats.AssignmentsSubmitted, stats.AssignmentsAccepted,
		stats.AssignmentsDuplicate, stats.AssignmentsRejected)
}
