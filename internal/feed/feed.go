// Package feed keeps an in-memory snapshot of the collections feeding the
// dashboard and recomputes the derived view whenever the store publishes a
// change. It is the server-side equivalent of the admin UI keeping live
// collection listeners open.
package feed

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/aminejameli/dropservices-manager/internal/dashboard"
	"github.com/aminejameli/dropservices-manager/internal/dependency"
	"github.com/aminejameli/dropservices-manager/internal/entity"
	"github.com/aminejameli/dropservices-manager/internal/watch"
)

// Monitor loads the orders, services and clients snapshots once, then keeps
// them current from the change feed. Payment method changes are ignored, the
// dashboard does not derive anything from them.
type Monitor struct {
	rep dependency.Repository
	now func() time.Time

	mu       sync.RWMutex
	orders   []entity.Order
	services []entity.Service
	clients  []entity.Client
	view     *entity.DashboardView

	wmu      sync.Mutex
	watchers map[uint64]chan *entity.DashboardView
	nextID   uint64

	stop context.CancelFunc
	done chan struct{}
}

func New(rep dependency.Repository) *Monitor {
	return &Monitor{
		rep:      rep,
		now:      time.Now,
		watchers: make(map[uint64]chan *entity.DashboardView),
	}
}

// Start performs the initial load and begins following the change feed.
func (m *Monitor) Start(ctx context.Context) error {
	if err := m.reload(ctx, watch.Orders, watch.Services, watch.Clients); err != nil {
		return fmt.Errorf("initial load: %w", err)
	}
	m.recompute()

	ctx, cancel := context.WithCancel(ctx)
	m.stop = cancel
	m.done = make(chan struct{})

	sub := m.rep.Changes().Subscribe(watch.Orders, watch.Services, watch.Clients)
	go m.run(ctx, sub)
	return nil
}

// Stop terminates the feed loop and waits for it to exit.
func (m *Monitor) Stop() error {
	if m.stop == nil {
		return nil
	}
	m.stop()
	<-m.done
	return nil
}

func (m *Monitor) run(ctx context.Context, sub *watch.Subscription) {
	defer close(m.done)
	defer sub.Cancel()
	for {
		select {
		case <-ctx.Done():
			return
		case <-sub.Wait():
			cols := sub.Drain()
			if err := m.reload(ctx, cols...); err != nil {
				if ctx.Err() != nil {
					return
				}
				slog.Default().ErrorContext(ctx, "feed reload failed",
					slog.Any("collections", cols),
					slog.String("err", err.Error()))
				continue
			}
			m.recompute()
			m.broadcast()
		}
	}
}

func (m *Monitor) reload(ctx context.Context, cols ...watch.Collection) error {
	var (
		orders   []entity.Order
		services []entity.Service
		clients  []entity.Client
	)
	changed := make(map[watch.Collection]bool, len(cols))
	for _, c := range cols {
		changed[c] = true
	}

	g, ctx := errgroup.WithContext(ctx)
	if changed[watch.Orders] {
		g.Go(func() error {
			var err error
			orders, err = m.rep.Orders().ListOrders(ctx)
			return err
		})
	}
	if changed[watch.Services] {
		g.Go(func() error {
			var err error
			services, err = m.rep.Services().ListServices(ctx)
			return err
		})
	}
	if changed[watch.Clients] {
		g.Go(func() error {
			var err error
			clients, err = m.rep.Clients().ListClients(ctx)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if changed[watch.Orders] {
		m.orders = orders
	}
	if changed[watch.Services] {
		m.services = services
	}
	if changed[watch.Clients] {
		m.clients = clients
	}
	return nil
}

func (m *Monitor) recompute() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.view = dashboard.Compute(m.now(), m.orders, m.services, m.clients, entity.GranularityMonth)
}

// View returns the last computed dashboard view.
func (m *Monitor) View() *entity.DashboardView {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.view
}

// ViewWithGranularity recomputes the view from the current snapshot with the
// requested time bucketing. The month view is served precomputed.
func (m *Monitor) ViewWithGranularity(g entity.Granularity) *entity.DashboardView {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if g == entity.GranularityMonth && m.view != nil {
		return m.view
	}
	return dashboard.Compute(m.now(), m.orders, m.services, m.clients, g)
}

// Watch registers a live consumer. The returned channel carries the freshest
// view only; a slow consumer skips intermediate versions instead of lagging.
// The cancel function is safe to call more than once.
func (m *Monitor) Watch() (<-chan *entity.DashboardView, func()) {
	ch := make(chan *entity.DashboardView, 1)

	m.wmu.Lock()
	m.nextID++
	id := m.nextID
	m.watchers[id] = ch
	m.wmu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			m.wmu.Lock()
			delete(m.watchers, id)
			m.wmu.Unlock()
		})
	}
	return ch, cancel
}

func (m *Monitor) broadcast() {
	v := m.View()
	m.wmu.Lock()
	defer m.wmu.Unlock()
	for _, ch := range m.watchers {
		select {
		case ch <- v:
		default:
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- v:
			default:
			}
		}
	}
}
