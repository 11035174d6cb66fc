// Package session is one participant's page session: it owns the render
// context, applies pushed snapshots on a dispatcher goroutine and serialises
// participant actions against rendering.
package session

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/zappabad/pctmarket/internal/chart"
	"github.com/zappabad/pctmarket/internal/logger"
	"github.com/zappabad/pctmarket/internal/order"
	"github.com/zappabad/pctmarket/internal/render"
	"github.com/zappabad/pctmarket/internal/snapshot"
	"github.com/zappabad/pctmarket/internal/view"
)

// ActivityKind classifies an activity entry.
type ActivityKind string

const (
	ActivitySent     ActivityKind = "sent"
	ActivityRejected ActivityKind = "rejected"
	ActivityDropped  ActivityKind = "dropped"
)

// Activity is one line of the session's status log.
type Activity struct {
	Time   time.Time
	Kind   ActivityKind
	Action string
	Err    string
}

// Session is safe for concurrent use.
type Session struct {
	cfg Config
	id  uuid.UUID
	log logger.Interface

	mu       sync.Mutex
	renderer *render.Renderer
	rc       *render.RenderContext
	handlers *order.Handlers
	activity *Tape[Activity]

	frames         chan []byte
	pubMu          sync.Mutex
	pubClosed      bool
	published      uint64
	updates        chan *view.View
	droppedUpdates atomic.Int64
	droppedFrames  atomic.Int64

	closed    chan struct{}
	closeOnce sync.Once
	wg        sync.WaitGroup
}

// New creates a session for participant me and starts its dispatcher.
// adapter may be nil.
func New(cfg Config, me snapshot.ParticipantID, sender order.Sender, adapter *chart.Adapter, log logger.Interface) *Session {
	def := DefaultConfig()
	if cfg.ActivitySize <= 0 {
		cfg.ActivitySize = def.ActivitySize
	}
	if cfg.FrameBuffer <= 0 {
		cfg.FrameBuffer = def.FrameBuffer
	}
	if cfg.UpdateBuffer <= 0 {
		cfg.UpdateBuffer = def.UpdateBuffer
	}

	id := uuid.New()
	if log == nil {
		log = logger.NewNop()
	}
	log = log.WithFields(logger.NewField("session", id.String()), logger.NewField("participant", string(me)))

	renderer := render.NewRenderer(cfg.Render, adapter)
	rc := render.NewRenderContext(me)

	s := &Session{
		cfg:      cfg,
		id:       id,
		log:      log,
		renderer: renderer,
		rc:       rc,
		handlers: order.NewHandlers(sender, renderer, rc, log),
		activity: NewTape[Activity](cfg.ActivitySize),
		frames:   make(chan []byte, cfg.FrameBuffer),
		updates:  make(chan *view.View, cfg.UpdateBuffer),
		closed:   make(chan struct{}),
	}

	s.wg.Add(1)
	go s.runDispatcher()

	return s
}

// ID is the session id sent on the websocket handshake and attached to logs.
func (s *Session) ID() string { return s.id.String() }

// Me returns the participant id.
func (s *Session) Me() snapshot.ParticipantID { return s.rc.Me }

func (s *Session) runDispatcher() {
	defer s.wg.Done()
	defer func() {
		s.pubMu.Lock()
		s.pubClosed = true
		close(s.updates)
		s.pubMu.Unlock()
	}()

	for {
		select {
		case <-s.closed:
			return
		case frame := <-s.frames:
			snap, err := snapshot.Decode(frame)
			if err != nil {
				s.log.Warn("dropping undecodable frame", logger.NewField("error", err.Error()))
				s.record(ActivityDropped, "snapshot", err)
				continue
			}
			if snap == nil {
				continue
			}
			s.mu.Lock()
			v := s.renderer.Render(s.rc, snap)
			s.mu.Unlock()
			s.publish(v)
		}
	}
}

// Push hands one pushed frame to the dispatcher. It blocks while the frame
// buffer is full and returns false once the session is closed.
func (s *Session) Push(frame []byte) bool {
	select {
	case <-s.closed:
		s.droppedFrames.Add(1)
		return false
	default:
	}
	select {
	case s.frames <- frame:
		return true
	case <-s.closed:
		s.droppedFrames.Add(1)
		return false
	}
}

// Consume forwards frames from src until ctx ends, src closes or the session
// is closed.
func (s *Session) Consume(ctx context.Context, src <-chan []byte) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-s.closed:
			return
		case frame, ok := <-src:
			if !ok {
				return
			}
			if !s.Push(frame) {
				return
			}
		}
	}
}

// View returns the current view. The returned value must not be modified.
func (s *Session) View() *view.View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rc.Current
}

// Updates delivers every new view. It is closed when the session closes.
func (s *Session) Updates() <-chan *view.View {
	return s.updates
}

// DroppedFrames returns the number of frames pushed after Close.
func (s *Session) DroppedFrames() int64 {
	return s.droppedFrames.Load()
}

// DroppedUpdates returns the number of views not delivered on Updates.
func (s *Session) DroppedUpdates() int64 {
	return s.droppedUpdates.Load()
}

// Select remembers offer id and restyles the order tables.
func (s *Session) Select(id snapshot.OfferID) *view.View {
	s.mu.Lock()
	s.rc.Selection.Select(id)
	v := s.renderer.Restyle(s.rc)
	s.mu.Unlock()
	s.publish(v)
	return v
}

// Selected returns the remembered offer id.
func (s *Session) Selected() (snapshot.OfferID, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rc.Selection.Selected()
}

// BuyGood buys one unit of good "A" or "B".
func (s *Session) BuyGood(ctx context.Context, good string) error {
	return s.act(ctx, "buy good "+good, false, func(h *order.Handlers) error {
		return h.BuyGood(ctx, good)
	})
}

// Offer places a limit order.
func (s *Session) Offer(ctx context.Context, isBid bool, in order.OfferInput) error {
	return s.act(ctx, sideName("offer", isBid), false, func(h *order.Handlers) error {
		return h.SendOffer(ctx, isBid, in)
	})
}

// Accept takes the selected offer. A missing selection is a silent no-op.
func (s *Session) Accept(ctx context.Context, isBid bool, volume string) error {
	err := s.act(ctx, sideName("accept", isBid), true, func(h *order.Handlers) error {
		return h.SendAcc(ctx, isBid, volume)
	})
	if order.IsSilent(err) {
		return nil
	}
	return err
}

// Cancel withdraws the selected own offer.
func (s *Session) Cancel(ctx context.Context) error {
	err := s.act(ctx, "cancel", true, func(h *order.Handlers) error {
		return h.CancelOffer(ctx)
	})
	if order.IsSilent(err) {
		return nil
	}
	return err
}

// Activity returns up to n recent activity entries, oldest first.
func (s *Session) Activity(n int) []Activity {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.activity.Last(n)
}

// Close stops the dispatcher.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		close(s.closed)
	})
	s.wg.Wait()
}

func (s *Session) act(ctx context.Context, action string, restyles bool, fn func(*order.Handlers) error) error {
	s.mu.Lock()
	before := s.rc.Current
	err := fn(s.handlers)
	after := s.rc.Current
	switch {
	case order.IsSilent(err):
	case err != nil:
		s.recordLocked(ActivityRejected, action, err)
	default:
		s.recordLocked(ActivitySent, action, nil)
	}
	s.mu.Unlock()

	if restyles && after != before {
		s.publish(after)
	}
	if err != nil && !order.IsSilent(err) {
		s.log.WarnContext(ctx, "action failed", logger.NewField("action", action), logger.NewField("error", err.Error()))
	}
	return err
}

func (s *Session) publish(v *view.View) {
	if v == nil {
		return
	}
	s.pubMu.Lock()
	defer s.pubMu.Unlock()
	// renders and restyles publish outside s.mu, so a newer view can get
	// here first; subscribers only ever see versions move forward
	if s.pubClosed || v.Version <= s.published {
		return
	}
	s.published = v.Version
	if s.cfg.DropUpdates {
		select {
		case s.updates <- v:
		default:
			s.droppedUpdates.Add(1)
		}
		return
	}
	select {
	case s.updates <- v:
	case <-s.closed:
	}
}

func (s *Session) record(kind ActivityKind, action string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recordLocked(kind, action, err)
}

func (s *Session) recordLocked(kind ActivityKind, action string, err error) {
	a := Activity{Time: time.Now(), Kind: kind, Action: action}
	if err != nil {
		a.Err = err.Error()
	}
	s.activity.Append(a)
}

func sideName(action string, isBid bool) string {
	if isBid {
		return action + " bid"
	}
	return action + " ask"
}
