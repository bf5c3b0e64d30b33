package reporting

import (
	"context"
	"time"
)

func SetClock(s *Service, now func() time.Time) {
	s.now = now
}

func SetSleep(s *Service, sleep func(ctx context.Context, d time.Duration) error) {
	s.sleep = sleep
}
