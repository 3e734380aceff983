package tasks

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/contentflow/contentflow/app/cfg"
	"github.com/contentflow/contentflow/app/database"
	"github.com/contentflow/contentflow/app/scrape"
)

var _ TaskSchedulerInterface = (*Scheduler)(nil)

type Scheduler struct {
	articleRepo database.ArticleRepository
	sourceCache *scrape.SourceCache
	scraper     ArticleScraper
	enhancer    Enhancer
	limiter     Waiter
	seedLimit   int
	interval    time.Duration
	workerCount int
	ctx         context.Context
	cancel      context.CancelFunc
	wg          sync.WaitGroup
	taskQueue   chan TaskInterface
}

func NewScheduler(sourceCache *scrape.SourceCache, articleRepo database.ArticleRepository,
	scraper ArticleScraper, enhancer Enhancer, limiter Waiter) TaskSchedulerInterface {
	ctx, cancel := context.WithCancel(context.Background())
	cfg := cfg.Get()

	return &Scheduler{
		articleRepo: articleRepo,
		sourceCache: sourceCache,
		scraper:     scraper,
		enhancer:    enhancer,
		limiter:     limiter,
		seedLimit:   cfg.SeedLimit,
		interval:    time.Duration(cfg.SchedulerInterval) * time.Second,
		workerCount: cfg.WorkerCount,
		ctx:         ctx,
		cancel:      cancel,
		taskQueue:   make(chan TaskInterface, 300),
	}
}

func (s *Scheduler) Start() {
	for i := 0; i < s.workerCount; i++ {
		s.wg.Add(1)
		go s.worker(i)
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		s.enqueueStartupTasks()

		for {
			select {
			case <-s.ctx.Done():
				return
			case <-ticker.C:
				s.enqueueTasks()
			}
		}
	}()
}

func (s *Scheduler) Stop() {
	s.cancel()
	s.wg.Wait()
	close(s.taskQueue)
}

func (s *Scheduler) EnqueueTask(task TaskInterface) error {
	select {
	case s.taskQueue <- task:
		return nil
	case <-s.ctx.Done():
		return s.ctx.Err()
	default:
		return fmt.Errorf("task queue is full")
	}
}

// enqueueStartupTasks seeds an empty store first, then enhances whatever is
// pending. Relies on queue ordering with a single worker to run seeding
// before enhancement.
func (s *Scheduler) enqueueStartupTasks() {
	seedTask := NewSeedArticlesTask(s.sourceCache, s.scraper, s.articleRepo, s.seedLimit)
	if err := s.EnqueueTask(seedTask); err != nil {
		slog.Warn("Failed to enqueue SeedArticlesTask", "error", err)
	}

	enhanceTask := NewEnhanceArticlesTask(s.articleRepo, s.enhancer, s.limiter)
	if err := s.EnqueueTask(enhanceTask); err != nil {
		slog.Warn("Failed to enqueue EnhanceArticlesTask", "error", err)
	}
}

func (s *Scheduler) enqueueTasks() {
	stats, err := s.articleRepo.GetArticleStats(s.ctx)
	if err != nil {
		slog.Warn("Failed to get article stats, skipping scheduling cycle", "error", err)
		return
	}

	if stats.Pending == 0 {
		slog.Debug("No articles awaiting enhancement")
		return
	}

	slog.Debug("Scheduling enhancement", "pending", stats.Pending)

	enhanceTask := NewEnhanceArticlesTask(s.articleRepo, s.enhancer, s.limiter)
	if err := s.EnqueueTask(enhanceTask); err != nil {
		slog.Warn("Failed to enqueue EnhanceArticlesTask", "error", err)
	}
}

func (s *Scheduler) worker(id int) {
	defer s.wg.Done()

	for {
		select {
		case task, ok := <-s.taskQueue:
			if !ok {
				return
			}
			s.executeTask(id, task)

		case <-s.ctx.Done():
			return
		}
	}
}

func (s *Scheduler) executeTask(workerID int, task TaskInterface) {
	task.Start()

	taskCtx, cancel := context.WithTimeout(s.ctx, 30*time.Minute)
	defer cancel()

	err := task.Execute(taskCtx)

	if err != nil {
		slog.Error("Worker task execution failed", "worker_id", workerID, "type", string(task.GetType()), "id", task.GetID(), "retry_count", task.GetRetryCount(), "error", err)

		if task.CanRetry() {
			task.IncrementRetryCount()
			retryDelay := time.Duration(1<<uint(task.GetRetryCount()-1)) * time.Second
			if retryDelay > 30*time.Second {
				retryDelay = 30 * time.Second
			}

			slog.Warn("Task retry scheduled", "type", string(task.GetType()), "retry_count", task.GetRetryCount(), "max_retries", task.GetMaxRetries(), "delay", retryDelay.String())

			go func() {
				time.Sleep(retryDelay)
				select {
				case <-s.ctx.Done():
					slog.Debug("Scheduler stopped, skipping task retry", "type", string(task.GetType()), "id", task.GetID())
					return
				default:
					if retryErr := s.EnqueueTask(task); retryErr != nil {
						slog.Error("Failed to re-enqueue task for retry", "type", string(task.GetType()), "id", task.GetID(), "retry_count", task.GetRetryCount(), "error", retryErr)
					}
				}
			}()
		} else {
			slog.Error("Task failed after maximum retries", "type", string(task.GetType()), "id", task.GetID(), "retry_count", task.GetRetryCount(), "max_retries", task.GetMaxRetries(), "last_error", err)
		}
	}
}
