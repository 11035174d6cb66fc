// Package order turns participant actions into outbound operations.
package order

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/zappabad/pctmarket/internal/logger"
	"github.com/zappabad/pctmarket/internal/operation"
	"github.com/zappabad/pctmarket/internal/render"
	"github.com/zappabad/pctmarket/internal/view"
)

var (
	ErrNoSelection = errors.New("no offer selected")
	ErrOwnOffer    = errors.New("cannot accept your own offer")
	ErrNotOwnOffer = errors.New("can only cancel your own offer")
)

const defaultVolume = "1"

// Sender delivers one operation to the backend.
type Sender interface {
	Send(ctx context.Context, op operation.Operation) error
}

// SenderFunc adapts a function to Sender.
type SenderFunc func(ctx context.Context, op operation.Operation) error

func (f SenderFunc) Send(ctx context.Context, op operation.Operation) error { return f(ctx, op) }

// OfferInput is what the participant typed into the offer form.
type OfferInput struct {
	Price  string
	Volume string
}

// GoodsTrade is the last goods purchase the participant asked for.
type GoodsTrade struct {
	Good string
	Qty  int
}

// Handlers implement the market actions. They are not safe for concurrent
// use; the session serialises calls together with rendering.
type Handlers struct {
	sender   Sender
	renderer *render.Renderer
	rc       *render.RenderContext
	log      logger.Interface

	lastGoods GoodsTrade
}

// NewHandlers binds the handlers to a render context. log may be nil.
func NewHandlers(sender Sender, renderer *render.Renderer, rc *render.RenderContext, log logger.Interface) *Handlers {
	if log == nil {
		log = logger.NewNop()
	}
	return &Handlers{sender: sender, renderer: renderer, rc: rc, log: log}
}

// LastGoodsTrade returns the last BuyGood request.
func (h *Handlers) LastGoodsTrade() GoodsTrade {
	return h.lastGoods
}

// BuyGood buys one unit of good. The backend rejects unknown goods.
func (h *Handlers) BuyGood(ctx context.Context, good string) error {
	h.lastGoods = GoodsTrade{Good: good, Qty: 1}
	return h.send(ctx, operation.BuyGood{Good: good, Quantity: 1})
}

// SendOffer places a limit order. The input is forwarded as typed; only a
// blank volume is replaced by 1.
func (h *Handlers) SendOffer(ctx context.Context, isBid bool, in OfferInput) error {
	return h.send(ctx, operation.LimitOrder{
		IsBid:       operation.SideOf(isBid),
		LimitPrice:  in.Price,
		LimitVolume: orDefault(in.Volume),
	})
}

// SendAcc accepts the selected offer at its listed price. Selection styles
// are cleared once the order has been handed to the sender.
func (h *Handlers) SendAcc(ctx context.Context, isBid bool, volume string) error {
	row, err := h.selected()
	if err != nil {
		return err
	}
	if row.OwnedBy(h.rc.Me) {
		return ErrOwnOffer
	}
	err = h.send(ctx, operation.MarketOrder{
		OfferID:           row.OfferID,
		IsBid:             operation.SideOf(isBid),
		TransactionPrice:  row.Price,
		TransactionVolume: orDefault(volume),
	})
	h.renderer.ClearSelectionStyles(h.rc)
	return err
}

// CancelOffer withdraws the selected offer, which must be the participant's.
func (h *Handlers) CancelOffer(ctx context.Context) error {
	row, err := h.selected()
	if err != nil {
		return err
	}
	if !row.OwnedBy(h.rc.Me) {
		return ErrNotOwnOffer
	}
	err = h.send(ctx, operation.CancelLimit{OfferID: row.OfferID, MakerID: row.MakerID})
	if err == nil {
		h.rc.Selection.Clear()
		h.renderer.ClearSelectionStyles(h.rc)
	}
	return err
}

func (h *Handlers) selected() (view.Row, error) {
	id, ok := h.rc.Selection.Selected()
	if !ok || h.rc.Current == nil {
		return view.Row{}, ErrNoSelection
	}
	row, ok := h.rc.Current.FindOffer(id)
	if !ok {
		return view.Row{}, ErrNoSelection
	}
	return row, nil
}

func (h *Handlers) send(ctx context.Context, op operation.Operation) error {
	if err := h.sender.Send(ctx, op); err != nil {
		h.log.Error(err, logger.NewField("operation", string(op.OperationType())))
		return fmt.Errorf("send %s: %w", op.OperationType(), err)
	}
	h.log.Debug("operation sent", logger.NewField("operation", string(op.OperationType())))
	return nil
}

func orDefault(volume string) string {
	if strings.TrimSpace(volume) == "" {
		return defaultVolume
	}
	return volume
}

// IsSilent reports errors the front ends should not show to the participant.
func IsSilent(err error) bool {
	return errors.Is(err, ErrNoSelection)
}
