// Package bootstrap provides application lifecycle helpers.
package bootstrap

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"
)

// DefaultShutdownTimeout bounds how long shutdown hooks may take together.
const DefaultShutdownTimeout = 10 * time.Second

// App manages application lifecycle with graceful shutdown support.
type App struct {
	mu              sync.Mutex
	hooks           []func(ctx context.Context) error
	shutdownTimeout time.Duration
}

// New creates a new App.
func New() *App {
	return &App{shutdownTimeout: DefaultShutdownTimeout}
}

// AddShutdownHook registers a function to call during graceful shutdown.
// Hooks run in reverse order (LIFO). Thread-safe.
func (a *App) AddShutdownHook(fn func(ctx context.Context) error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.hooks = append(a.hooks, fn)
}

// Run sets up signal handling and executes the run function.
// On SIGINT or SIGTERM, or when ctx is canceled, it calls the registered shutdown
// hooks in LIFO order. If run returns before that, its error is returned.
func (a *App) Run(ctx context.Context, run func(ctx context.Context) error) error {
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	errCh := make(chan error, 1)
	go func() {
		if err := run(ctx); err != nil {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		// run may notice the cancellation before this select does.
		if err != nil || ctx.Err() == nil {
			return err
		}
	}

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), a.shutdownTimeout)
	defer cancelShutdown()
	return a.shutdown(shutdownCtx)
}

func (a *App) shutdown(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	var errs []error
	for i := len(a.hooks) - 1; i >= 0; i-- {
		if err := a.hooks[i](ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
