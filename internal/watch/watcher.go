// Package watch recomputes a schedule whenever its plan file changes.
package watch

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"golang.org/x/sync/singleflight"

	"github.com/msageha/cpmtool/internal/ingest"
	"github.com/msageha/cpmtool/internal/lock"
	"github.com/msageha/cpmtool/internal/model"
	"github.com/msageha/cpmtool/internal/report"
	"github.com/msageha/cpmtool/internal/schedule"
)

type LogLevel int

const (
	LogLevelDebug LogLevel = iota
	LogLevelInfo
	LogLevelWarn
	LogLevelError
)

func parseLogLevel(s string) LogLevel {
	switch strings.ToLower(s) {
	case "debug":
		return LogLevelDebug
	case "info":
		return LogLevelInfo
	case "warn", "warning":
		return LogLevelWarn
	case "error":
		return LogLevelError
	default:
		return LogLevelInfo
	}
}

// Watcher owns one plan-to-output pipeline. Recomputation is
// deduplicated through singleflight so a burst of fsnotify events during
// an in-flight run collapses into at most one follow-up run.
type Watcher struct {
	planPath   string
	outputPath string
	format     string
	config     model.Config
	logLevel   LogLevel
	logger     *log.Logger
	out        io.Writer

	fileLock *lock.FileLock
	fsw      *fsnotify.Watcher
	group    singleflight.Group

	ctx      context.Context
	cancel   context.CancelFunc
	wg       sync.WaitGroup
	shutdown sync.Once
}

// New creates a watcher. outputPath may be empty, in which case each
// recomputation renders to out (stdout in the CLI). Logs go to logw.
func New(planPath, outputPath, format string, cfg model.Config, out, logw io.Writer) *Watcher {
	ctx, cancel := context.WithCancel(context.Background())
	lockPath := planPath + ".lock"
	if outputPath != "" {
		lockPath = outputPath + ".lock"
	}
	return &Watcher{
		planPath:   planPath,
		outputPath: outputPath,
		format:     format,
		config:     cfg,
		logLevel:   parseLogLevel(cfg.Logging.Level),
		logger:     log.New(logw, "", 0),
		out:        out,
		fileLock:   lock.NewFileLock(lockPath),
		ctx:        ctx,
		cancel:     cancel,
	}
}

// Run blocks until a shutdown signal arrives. It recomputes once at
// startup and then on every debounced change to the plan file.
func (w *Watcher) Run() error {
	if err := w.fileLock.TryLock(); err != nil {
		return fmt.Errorf("watch lock: %w", err)
	}
	w.log(LogLevelInfo, "watching plan=%s pid=%d", w.planPath, os.Getpid())

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		w.fileLock.Unlock()
		return fmt.Errorf("create fsnotify watcher: %w", err)
	}
	w.fsw = fsw

	// Watch the directory, not the file: editors replace files by
	// rename, which drops a direct file watch.
	if err := fsw.Add(filepath.Dir(w.planPath)); err != nil {
		w.cleanup()
		return fmt.Errorf("watch %s: %w", filepath.Dir(w.planPath), err)
	}

	w.wg.Add(1)
	go w.eventLoop()

	if err := w.Recompute(); err != nil {
		w.log(LogLevelWarn, "initial compute failed: %v", err)
	}

	w.waitSignals()
	return nil
}

// eventLoop debounces plan file events and triggers recomputation.
func (w *Watcher) eventLoop() {
	defer w.wg.Done()

	debounce := time.Duration(w.config.Watcher.DebounceSec * float64(time.Second))
	if debounce <= 0 {
		debounce = 500 * time.Millisecond
	}

	timer := time.NewTimer(debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	planBase := filepath.Base(w.planPath)
	for {
		select {
		case <-w.ctx.Done():
			return
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != planBase {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) {
				w.log(LogLevelDebug, "fsnotify event=%s file=%s", event.Op, event.Name)
				timer.Reset(debounce)
			}
		case <-timer.C:
			if err := w.Recompute(); err != nil {
				w.log(LogLevelWarn, "recompute failed: %v", err)
			}
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.log(LogLevelError, "fsnotify error=%v", err)
		}
	}
}

// Recompute loads the plan, computes the schedule, and writes the
// report. Concurrent callers share a single run.
func (w *Watcher) Recompute() error {
	_, err, _ := w.group.Do("recompute", func() (any, error) {
		records, err := ingest.LoadPlanFile(w.planPath)
		if err != nil {
			return nil, err
		}

		reg := schedule.NewRegistry()
		if err := ingest.Load(reg, records); err != nil {
			return nil, err
		}

		res, err := schedule.Compute(reg)
		if err != nil {
			return nil, err
		}

		if w.outputPath == "" {
			if err := report.Render(w.out, res, w.format); err != nil {
				return nil, err
			}
		} else if err := report.WriteFile(w.outputPath, res, w.format); err != nil {
			return nil, err
		}

		w.log(LogLevelInfo, "schedule updated tasks=%d makespan=%d critical=%s",
			len(res.Tasks), res.Makespan, strings.Join(res.CriticalPath, ","))
		return nil, nil
	})
	return err
}

func (w *Watcher) waitSignals() {
	sigCh := make(chan os.Signal, 2)
	signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT)
	defer signal.Stop(sigCh)

	select {
	case sig := <-sigCh:
		w.log(LogLevelInfo, "received signal=%s, shutting down", sig)
	case <-w.ctx.Done():
	}

	w.Shutdown()
}

// Shutdown stops the watcher (idempotent).
func (w *Watcher) Shutdown() {
	w.shutdown.Do(func() {
		w.cancel()
		if w.fsw != nil {
			w.fsw.Close()
		}
		w.wg.Wait()
		w.cleanup()
		w.log(LogLevelInfo, "watcher stopped")
	})
}

func (w *Watcher) cleanup() {
	w.fileLock.Unlock()
}

func (w *Watcher) log(level LogLevel, format string, args ...any) {
	if level < w.logLevel {
		return
	}
	levelStr := "INFO"
	switch level {
	case LogLevelDebug:
		levelStr = "DEBUG"
	case LogLevelWarn:
		levelStr = "WARN"
	case LogLevelError:
		levelStr = "ERROR"
	}
	msg := fmt.Sprintf(format, args...)
	w.logger.Printf("%s %s watch: %s", time.Now().Format(time.RFC3339), levelStr, msg)
}
