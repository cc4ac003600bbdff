package closer

import (
	"context"
	"errors"
	"sync"

	"github.com/stroyast/sales-agent/platform/logger"
)

type closeFn struct {
	name string
	fn   func(ctx context.Context) error
}

var (
	mu    sync.Mutex
	fns   []closeFn
	log   *logger.Logger
	sealed bool
)

func SetLogger(l *logger.Logger) {
	mu.Lock()
	defer mu.Unlock()
	log = l
}

// AddNamed registers a shutdown hook. Hooks run in reverse registration order.
func AddNamed(name string, fn func(ctx context.Context) error) {
	mu.Lock()
	defer mu.Unlock()
	if sealed {
		return
	}
	fns = append(fns, closeFn{name: name, fn: fn})
}

func CloseAll(ctx context.Context) error {
	mu.Lock()
	sealed = true
	toClose := make([]closeFn, len(fns))
	copy(toClose, fns)
	fns = nil
	l := log
	mu.Unlock()

	var errs []error
	for i := len(toClose) - 1; i >= 0; i-- {
		c := toClose[i]
		if err := c.fn(ctx); err != nil {
			if l != nil {
				l.Error(ctx, "close "+c.name, logger.ErrorF(err))
			}
			errs = append(errs, err)
			continue
		}
		if l != nil {
			l.Info(ctx, "closed "+c.name)
		}
	}

	return errors.Join(errs...)
}
