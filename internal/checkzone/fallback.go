package checkzone

import (
	"context"
	"errors"
	"log/slog"
	"sync"
)

// Fallback tries the primary checker and switches to a stand-in when the
// primary is unavailable on this machine. The switch is logged once, not
// once per file.
type Fallback struct {
	Primary Checker
	Standby Checker
	Logger  *slog.Logger

	warnOnce sync.Once
}

func (f *Fallback) Name() string {
	return f.Primary.Name() + "|" + f.Standby.Name()
}

func (f *Fallback) Check(ctx context.Context, zone, file string) (Result, error) {
	res, err := f.Primary.Check(ctx, zone, file)
	if err == nil || !errors.Is(err, ErrUnavailable) {
		return res, err
	}
	f.warnOnce.Do(func() {
		if f.Logger != nil {
			f.Logger.Warn("zone checker unavailable, using fallback",
				"primary", f.Primary.Name(),
				"fallback", f.Standby.Name(),
				"err", err,
			)
		}
	})
	return f.Standby.Check(ctx, zone, file)
}
