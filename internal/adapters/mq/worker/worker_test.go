package worker_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/smartystreets/goconvey/convey"

	worker "github.com/touchline/scoutsim/internal/adapters/mq/worker"
	repository "github.com/touchline/scoutsim/internal/adapters/repository"
	model "github.com/touchline/scoutsim/internal/domain/model"
	reflection "github.com/touchline/scoutsim/internal/domain/reflection"
	sim "github.com/touchline/scoutsim/internal/domain/sim"
	logging "github.com/touchline/scoutsim/pkg/logger"
)

// Mock implementations for testing.
type mockQueue struct {
	assignmentChan chan worker.Assignment
	closeError     error
}

func newMockQueue() *mockQueue {
	return &mockQueue{
		assignmentChan: make(chan worker.Assignment, 200),
	}
}

func (mq *mockQueue) Dequeue(ctx context.Context) <-chan worker.Assignment {
	return mq.assignmentChan
}

func (mq *mockQueue) Close() error {
	close(mq.assignmentChan)
	return mq.closeError
}

func (mq *mockQueue) addAssignment(a worker.Assignment) { //nolint:gocritic // hugeParam: assignments are passed by value for channel semantics
	mq.assignmentChan <- a
}

type mockSimulator struct {
	insights    map[string][]model.ProspectInsight
	reflections map[string]reflection.Result
	errors      map[string]error
	mu          sync.RWMutex
}

func newMockSimulator() *mockSimulator {
	return &mockSimulator{
		insights:    make(map[string][]model.ProspectInsight),
		reflections: make(map[string]reflection.Result),
		errors:      make(map[string]error),
	}
}

func (ms *mockSimulator) Simulate(ctx context.Context, a worker.Assignment) (sim.Report, error) { //nolint:gocritic // hugeParam: assignments are passed by value for channel semantics
	ms.mu.RLock()
	defer ms.mu.RUnlock()

	if err, exists := ms.errors[a.AssignmentID]; exists {
		return sim.Report{}, err
	}

	report := sim.Report{
		AssignmentID: a.AssignmentID,
		FixtureID:    a.Fixture.FixtureID,
		Week:         a.Fixture.Week,
		Insights:     ms.insights[a.AssignmentID],
	}
	if refl, exists := ms.reflections[a.AssignmentID]; exists {
		report.Reflection = refl
	}
	return report, nil
}

func (ms *mockSimulator) setInsights(assignmentID string, insights ...model.ProspectInsight) {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	ms.insights[assignmentID] = insights
}

func (ms *mockSimulator) setReflection(assignmentID string, refl reflection.Result) {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	ms.reflections[assignmentID] = refl
}

func (ms *mockSimulator) setError(assignmentID string, err error) {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	ms.errors[assignmentID] = err
}

type mockBoard struct {
	updates map[string]float64
	metas   map[string]repository.Meta
	errors  map[string]error
	mu      sync.RWMutex
}

func newMockBoard() *mockBoard {
	return &mockBoard{
		updates: make(map[string]float64),
		metas:   make(map[string]repository.Meta),
		errors:  make(map[string]error),
	}
}

func (mb *mockBoard) UpdateBestWithMeta(ctx context.Context, playerID string, score float64, meta repository.Meta) (bool, error) {
	mb.mu.Lock()
	defer mb.mu.Unlock()

	if err, exists := mb.errors[playerID]; exists {
		return false, err
	}

	mb.updates[playerID] = score
	mb.metas[playerID] = meta
	return true, nil
}

func (mb *mockBoard) setError(playerID string, err error) {
	mb.mu.Lock()
	defer mb.mu.Unlock()
	mb.errors[playerID] = err
}

func (mb *mockBoard) getUpdate(playerID string) (float64, bool) {
	mb.mu.RLock()
	defer mb.mu.RUnlock()
	score, exists := mb.updates[playerID]
	return score, exists
}

func (mb *mockBoard) getMeta(playerID string) (repository.Meta, bool) {
	mb.mu.RLock()
	defer mb.mu.RUnlock()
	meta, exists := mb.metas[playerID]
	return meta, exists
}

func testAssignment(id, playerID string) worker.Assignment {
	return worker.Assignment{
		AssignmentID: id,
		Fixture:      model.Fixture{FixtureID: "fx-" + id, Week: 14},
		Mode:         "fullObservation",
		Scout:        model.Scout{Name: "D. Ferreira", Intuition: 60, Watchlist: []string{playerID}},
		Seed:         42,
	}
}

func insight(playerID, name string, score float64) model.ProspectInsight {
	return model.ProspectInsight{PlayerID: playerID, PlayerName: name, InsightScore: score}
}

func TestInMemoryWorker(t *testing.T) {
	convey.Convey("Given a new InMemoryWorker", t, func() {
		// Initialize logging for tests
		_ = logging.Init()

		queue := newMockQueue()
		simulator := newMockSimulator()
		board := newMockBoard()

		convey.Convey("When creating a worker with default options", func() {
			w := worker.NewInMemoryWorker(queue, simulator, board)

			convey.Convey("Then it should be created successfully", func() {
				convey.So(w, convey.ShouldNotBeNil)
			})
		})

		convey.Convey("When creating a worker with custom options", func() {
			w := worker.NewInMemoryWorker(
				queue, simulator, board,
				worker.WithName("test-worker"),
			)

			convey.Convey("Then it should be created successfully", func() {
				convey.So(w, convey.ShouldNotBeNil)
			})
		})

		convey.Convey("When running a worker", func() {
			w := worker.NewInMemoryWorker(queue, simulator, board)
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			go w.Run(ctx)

			// Give worker time to start
			time.Sleep(10 * time.Millisecond)

			convey.Convey("And when processing an assignment", func() {
				simulator.setInsights("asg-1", insight("p1", "J. Reyes", 18.5))

				queue.addAssignment(testAssignment("asg-1", "p1"))

				// Give worker time to process
				time.Sleep(50 * time.Millisecond)

				convey.Convey("Then it should update the board", func() {
					score, updated := board.getUpdate("p1")
					convey.So(updated, convey.ShouldBeTrue)
					convey.So(score, convey.ShouldEqual, 18.5)
				})

				convey.Convey("Then the entry should carry assignment provenance", func() {
					meta, ok := board.getMeta("p1")
					convey.So(ok, convey.ShouldBeTrue)
					convey.So(meta.PlayerName, convey.ShouldEqual, "J. Reyes")
					convey.So(meta.AssignmentID, convey.ShouldEqual, "asg-1")
					convey.So(meta.FixtureID, convey.ShouldEqual, "fx-asg-1")
					convey.So(meta.Week, convey.ShouldEqual, 14)
				})
			})

			convey.Convey("And when the reflection names a gut-feeling subject", func() {
				simulator.setInsights("asg-2",
					insight("p1", "J. Reyes", 12.0),
					insight("p2", "T. Okafor", 6.0),
				)
				simulator.setReflection("asg-2", reflection.Result{
					SuggestedHypotheses: []model.Hypothesis{
						{ID: "hyp-1", PlayerID: "p1"},
						{ID: "hyp-2", PlayerID: "p1"},
					},
					GutFeeling: &reflection.GutFeelingCandidate{PlayerID: "p1", Reliability: 0.8},
				})

				queue.addAssignment(testAssignment("asg-2", "p1"))

				// Give worker time to process
				time.Sleep(50 * time.Millisecond)

				convey.Convey("Then only the subject's meta carries the reliability", func() {
					subject, ok := board.getMeta("p1")
					convey.So(ok, convey.ShouldBeTrue)
					convey.So(subject.GutReliability, convey.ShouldEqual, 0.8)
					convey.So(subject.HypothesisCount, convey.ShouldEqual, 2)

					other, ok := board.getMeta("p2")
					convey.So(ok, convey.ShouldBeTrue)
					convey.So(other.GutReliability, convey.ShouldEqual, 0)
					convey.So(other.HypothesisCount, convey.ShouldEqual, 0)
				})
			})

			convey.Convey("And when simulation fails", func() {
				simulator.setError("asg-3", errors.New("simulation error"))

				queue.addAssignment(testAssignment("asg-3", "p3"))

				// Give worker time to process
				time.Sleep(50 * time.Millisecond)

				convey.Convey("Then it should not update the board", func() {
					_, updated := board.getUpdate("p3")
					convey.So(updated, convey.ShouldBeFalse)
				})
			})

			convey.Convey("And when the board rejects the update", func() {
				simulator.setInsights("asg-4", insight("p4", "L. Moreau", 9.0))
				board.setError("p4", errors.New("update error"))

				queue.addAssignment(testAssignment("asg-4", "p4"))

				// Give worker time to process
				time.Sleep(50 * time.Millisecond)

				convey.Convey("Then the board holds no entry for the player", func() {
					_, updated := board.getUpdate("p4")
					convey.So(updated, convey.ShouldBeFalse)
				})
			})

			convey.Convey("And when shutting down", func() {
				shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
				defer shutdownCancel()

				err := w.Shutdown(shutdownCtx)

				convey.Convey("Then it should shutdown gracefully", func() {
					convey.So(err, convey.ShouldBeNil)
				})
			})
		})

		convey.Convey("When context is cancelled", func() {
			w := worker.NewInMemoryWorker(queue, simulator, board)
			ctx, cancel := context.WithCancel(context.Background())

			go w.Run(ctx)

			// Give worker time to start
			time.Sleep(10 * time.Millisecond)

			cancel()

			// Give worker time to stop
			time.Sleep(50 * time.Millisecond)

			convey.Convey("Then shutdown should return immediately", func() {
				shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
				defer shutdownCancel()

				convey.So(w.Shutdown(shutdownCtx), convey.ShouldBeNil)
			})
		})
	})
}

func TestWorkerPool(t *testing.T) {
	convey.Convey("Given a new worker pool", t, func() {
		// Initialize logging for tests
		_ = logging.Init()

		queue := newMockQueue()
		simulator := newMockSimulator()
		board := newMockBoard()

		convey.Convey("When creating a worker pool with default count", func() {
			pool := worker.NewPool(0, queue, simulator, board)

			convey.Convey("Then it should be created successfully", func() {
				convey.So(pool, convey.ShouldNotBeNil)
			})
		})

		convey.Convey("When creating a worker pool with custom count", func() {
			pool := worker.NewPool(3, queue, simulator, board)

			convey.Convey("Then it should be created successfully", func() {
				convey.So(pool, convey.ShouldNotBeNil)
			})
		})

		convey.Convey("When starting a worker pool", func() {
			pool := worker.NewPool(2, queue, simulator, board)
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			pool.Start(ctx)

			// Give workers time to start
			time.Sleep(20 * time.Millisecond)

			convey.Convey("And when processing multiple assignments", func() {
				assignments := []worker.Assignment{
					testAssignment("asg-1", "p1"),
					testAssignment("asg-2", "p2"),
					testAssignment("asg-3", "p3"),
				}
				simulator.setInsights("asg-1", insight("p1", "J. Reyes", 18.5))
				simulator.setInsights("asg-2", insight("p2", "T. Okafor", 14.0))
				simulator.setInsights("asg-3", insight("p3", "L. Moreau", 11.5))

				for _, a := range assignments {
					queue.addAssignment(a)
				}

				// Give workers time to process
				time.Sleep(100 * time.Millisecond)

				convey.Convey("Then all assignments should be processed", func() {
					for _, playerID := range []string{"p1", "p2", "p3"} {
						score, updated := board.getUpdate(playerID)
						convey.So(updated, convey.ShouldBeTrue)
						convey.So(score, convey.ShouldBeGreaterThan, 0)
					}
				})
			})

			convey.Convey("And when shutting down", func() {
				shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
				defer shutdownCancel()

				err := pool.Shutdown(shutdownCtx)

				convey.Convey("Then it should shutdown gracefully", func() {
					convey.So(err, convey.ShouldBeNil)
				})
			})
		})

		convey.Convey("When stopping a worker pool", func() {
			pool := worker.NewPool(2, queue, simulator, board)
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			pool.Start(ctx)

			// Give workers time to start
			time.Sleep(20 * time.Millisecond)

			pool.Stop()

			convey.Convey("Then no further assignments are processed", func() {
				simulator.setInsights("asg-late", insight("p9", "A. Costa", 7.0))
				queue.addAssignment(testAssignment("asg-late", "p9"))

				time.Sleep(50 * time.Millisecond)

				_, updated := board.getUpdate("p9")
				convey.So(updated, convey.ShouldBeFalse)
			})
		})
	})
}

func TestWorkerOptions(t *testing.T) {
	convey.Convey("Given worker options", t, func() {
		convey.Convey("When using WithName", func() {
			convey.Convey("Then it should set the worker name", func() {
				queue := newMockQueue()
				simulator := newMockSimulator()
				board := newMockBoard()
				w := worker.NewInMemoryWorker(queue, simulator, board, worker.WithName("test-worker"))
				// Note: Can't test unexported fields directly
				convey.So(w, convey.ShouldNotBeNil)
			})
		})
	})
}

func TestWorkerConcurrency(t *testing.T) {
	convey.Convey("Given a worker pool with multiple workers", t, func() {
		// Initialize logging for tests
		_ = logging.Init()

		queue := newMockQueue()
		simulator := newMockSimulator()
		board := newMockBoard()

		pool := worker.NewPool(4, queue, simulator, board)
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		pool.Start(ctx)

		// Give workers time to start
		time.Sleep(20 * time.Millisecond)

		convey.Convey("When processing many concurrent assignments", func() {
			const assignmentCount = 100
			var wg sync.WaitGroup

			for i := 0; i < 5; i++ {
				wg.Add(1)
				go func(producerID int) {
					defer wg.Done()
					for j := 0; j < assignmentCount/5; j++ {
						assignmentID := fmt.Sprintf("asg-%d-%d", producerID, j)
						playerID := fmt.Sprintf("p-%d-%d", producerID, j)
						simulator.setInsights(assignmentID, insight(playerID, "Prospect", float64(20-j)))
						queue.addAssignment(testAssignment(assignmentID, playerID))
					}
				}(i)
			}

			// Wait for all assignments to be added
			wg.Wait()

			// Give workers time to process
			time.Sleep(200 * time.Millisecond)

			convey.Convey("Then all assignments should be processed", func() {
				processedCount := 0
				for i := 0; i < 5; i++ {
					for j := 0; j < assignmentCount/5; j++ {
						playerID := fmt.Sprintf("p-%d-%d", i, j)
						if _, updated := board.getUpdate(playerID); updated {
							processedCount++
						}
					}
				}
				convey.So(processedCount, convey.ShouldEqual, assignmentCount)
			})
		})
	})
}

func TestWorkerErrorHandling(t *testing.T) {
	convey.Convey("Given a worker with error conditions", t, func() {
		// Initialize logging for tests
		_ = logging.Init()

		queue := newMockQueue()
		simulator := newMockSimulator()
		board := newMockBoard()

		w := worker.NewInMemoryWorker(queue, simulator, board)
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		go w.Run(ctx)

		// Give worker time to start
		time.Sleep(10 * time.Millisecond)

		convey.Convey("When simulation consistently fails", func() {
			simulator.setError("asg-error", errors.New("persistent simulation error"))

			queue.addAssignment(testAssignment("asg-error", "p-error"))

			// Give worker time to process
			time.Sleep(50 * time.Millisecond)

			convey.Convey("Then it should not update the board", func() {
				_, updated := board.getUpdate("p-error")
				convey.So(updated, convey.ShouldBeFalse)
			})
		})

		convey.Convey("When board updates consistently fail", func() {
			simulator.setInsights("asg-update-error", insight("p-update-error", "R. Sandoval", 10.0))
			board.setError("p-update-error", errors.New("persistent update error"))

			queue.addAssignment(testAssignment("asg-update-error", "p-update-error"))

			// Give worker time to process
			time.Sleep(50 * time.Millisecond)

			convey.Convey("Then the board holds no entry for the player", func() {
				_, updated := board.getUpdate("p-update-error")
				convey.So(updated, convey.ShouldBeFalse)
			})
		})

		convey.Convey("When the queue channel is closed", func() {
			_ = queue.Close()

			// Give worker time to detect closure
			time.Sleep(50 * time.Millisecond)

			convey.Convey("Then shutdown should return immediately", func() {
				shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
				defer shutdownCancel()

				convey.So(w.Shutdown(shutdownCtx), convey.ShouldBeNil)
			})
		})
	})
}
