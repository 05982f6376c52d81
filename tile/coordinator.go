package tile

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/inkcore/strokes/backend"
	"github.com/inkcore/strokes/internal/logx"
)

// inFlightLimit bounds the number of render_tile requests a Coordinator
// lets a single worker have outstanding at once (spec §9: "typically
// 1"). A worker renders synchronously, so a limit above 1 only buffers
// requests that will pile up behind a slow tile; a limit of 1 keeps
// stale requests cancelable before they're ever started.
const inFlightLimit = 1

// Coordinator owns a fixed pool of Workers, each on its own goroutine,
// and is the unit a host talks to instead of a Worker directly. It
// enforces the per-worker backpressure limit spec §9 calls for and
// runs the worker goroutines under a single errgroup that Close waits
// on. Worker goroutines always return nil, so the group reports no
// worker errors, and one worker stopping does not stop the others.
type Coordinator struct {
	workers []*workerHandle
	group   *errgroup.Group
	ctx     context.Context
	cancel  context.CancelFunc

	next int // round-robin cursor over workers
	mu   sync.Mutex
}

type workerHandle struct {
	worker   *Worker
	inbox    chan workItem
	inFlight chan struct{} // buffered to inFlightLimit; acquired per render_tile
}

type workItem struct {
	msg   Message
	reply chan Result
}

// NewCoordinator starts n worker goroutines sharing resolvers. Each
// worker receives its own init message via Init before any render_tile
// requests reach it.
func NewCoordinator(n int, resolvers ColorResolvers) *Coordinator {
	if n < 1 {
		n = 1
	}
	ctx, cancel := context.WithCancel(context.Background())
	g, gctx := errgroup.WithContext(ctx)

	c := &Coordinator{group: g, ctx: gctx, cancel: cancel}
	for i := 0; i < n; i++ {
		h := &workerHandle{
			worker:  NewWorker(resolvers),
			inbox:   make(chan workItem, 8),
			inFlight: make(chan struct{}, inFlightLimit),
		}
		c.workers = append(c.workers, h)
		g.Go(func() error {
			runWorkerLoop(gctx, h)
			return nil
		})
	}
	return c
}

func runWorkerLoop(ctx context.Context, h *workerHandle) {
	for {
		select {
		case <-ctx.Done():
			return
		case item, ok := <-h.inbox:
			if !ok {
				return
			}
			result := h.worker.Handle(item.msg)
			if item.reply != nil {
				item.reply <- result
			}
			if _, isRender := item.msg.(RenderTileMessage); isRender {
				<-h.inFlight
			}
		}
	}
}

// Broadcast sends msg to every worker and waits for it to be accepted
// (not necessarily processed); used for doc_update, grain_update,
// stamp_init, ink_stamp_init and destroy, none of which reply.
func (c *Coordinator) Broadcast(msg Message) {
	for _, h := range c.workers {
		select {
		case h.inbox <- workItem{msg: msg}:
		case <-c.ctx.Done():
			return
		}
	}
}

// Init sends an init message to every worker and waits for every
// ready reply before returning.
func (c *Coordinator) Init(grainImage *backend.ImageSource) error {
	for _, h := range c.workers {
		reply := make(chan Result, 1)
		item := workItem{msg: InitMessage{GrainImage: grainImage}, reply: reply}
		select {
		case h.inbox <- item:
		case <-c.ctx.Done():
			return c.ctx.Err()
		}
		select {
		case <-reply:
		case <-c.ctx.Done():
			return c.ctx.Err()
		}
	}
	return nil
}

// CancelAll broadcasts a cancel{tile_key: ""} to every worker.
func (c *Coordinator) CancelAll() {
	c.Broadcast(CancelMessage{})
}

// Cancel broadcasts a cancel for one tile key to every worker, since
// the coordinator does not track which worker a given key was last
// assigned to (workers are picked round-robin per request).
func (c *Coordinator) Cancel(key TileKey) {
	c.Broadcast(CancelMessage{TileKey: key})
}

// RenderTile assigns req to the next worker in round-robin order,
// blocking until that worker has a free in-flight slot (spec §9's
// backpressure requirement), and returns its tile_result or
// tile_error. ctx cancellation only aborts waiting for the slot and
// for the reply; it does not interrupt a render already in progress,
// since a worker renders synchronously (spec §9: cancel is advisory).
func (c *Coordinator) RenderTile(ctx context.Context, req RenderTileRequest) (Result, error) {
	h := c.pick()

	select {
	case h.inFlight <- struct{}{}:
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-c.ctx.Done():
		return nil, c.ctx.Err()
	}

	reply := make(chan Result, 1)
	item := workItem{msg: RenderTileMessage{Request: req}, reply: reply}

	select {
	case h.inbox <- item:
	case <-ctx.Done():
		<-h.inFlight
		return nil, ctx.Err()
	case <-c.ctx.Done():
		<-h.inFlight
		return nil, c.ctx.Err()
	}

	select {
	case result := <-reply:
		return result, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-c.ctx.Done():
		return nil, c.ctx.Err()
	}
}

func (c *Coordinator) pick() *workerHandle {
	c.mu.Lock()
	defer c.mu.Unlock()
	h := c.workers[c.next%len(c.workers)]
	c.next++
	return h
}

// NewTileKey generates an opaque, collision-resistant tile key for a
// (zoom_band, tx, ty) coordinate, for callers that don't want to
// invent their own encoding.
func NewTileKey(zoomBand ZoomBand, tx, ty int) TileKey {
	return TileKey(fmt.Sprintf("%d/%d/%d/%s", zoomBand, tx, ty, uuid.New().String()[:8]))
}

// Close destroys every worker and waits for their goroutines to exit.
func (c *Coordinator) Close() error {
	c.Broadcast(DestroyMessage{})
	for _, h := range c.workers {
		close(h.inbox)
	}
	c.cancel()
	err := c.group.Wait()
	if err != nil {
		logx.Logger().Warn("tile coordinator: worker exited with error", "error", err)
	}
	return err
}
