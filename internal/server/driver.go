package server

import (
	"sync"
	"time"
)

// tickDriver fires a room's simulation step at a fixed interval until
// stopped. The room compares the handle it receives with its current driver,
// so a tick already in flight when Stop is called does nothing.
type tickDriver struct {
	stop chan struct{}
	once sync.Once
}

func startTickDriver(interval time.Duration, tick func(*tickDriver)) *tickDriver {
	d := &tickDriver{stop: make(chan struct{})}
	go d.run(interval, tick)
	return d
}

func (d *tickDriver) run(interval time.Duration, tick func(*tickDriver)) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-d.stop:
			return
		case <-ticker.C:
			tick(d)
		}
	}
}

// Stop ends the loop; later calls are no-ops. It never blocks, so the room
// may call it while holding its own lock.
func (d *tickDriver) Stop() {
	d.once.Do(func() {
		close(d.stop)
	})
}

// stopped reports whether Stop has been called
func (d *tickDriver) stopped() bool {
	select {
	case <-d.stop:
		return true
	default:
		return false
	}
}
