// Package operation defines the messages a participant sends to the backend.
// Every message is a flat JSON object tagged by operationType.
package operation

import (
	"encoding/json"

	"github.com/zappabad/pctmarket/internal/snapshot"
)

// Type is the operationType tag.
type Type string

const (
	TypeMarketStart Type = "market_start"
	TypeBuyGood     Type = "buy_good"
	TypeLimitOrder  Type = "limit_order"
	TypeMarketOrder Type = "market_order"
	TypeCancelLimit Type = "cancel_limit"
)

// Operation is implemented by every outbound message.
type Operation interface {
	OperationType() Type
}

// Side is the isBid flag. The backend compares it numerically (isBid == 1),
// so it is sent as 0 or 1 rather than a JSON boolean.
type Side int

const (
	Ask Side = 0
	Bid Side = 1
)

// SideOf converts a boolean bid flag.
func SideOf(isBid bool) Side {
	if isBid {
		return Bid
	}
	return Ask
}

func (s Side) IsBid() bool { return s == Bid }

// MarketStart asks the backend for an initial snapshot.
type MarketStart struct{}

// BuyGood buys units of good "A" or "B" on the goods market.
type BuyGood struct {
	Good     string `json:"good"`
	Quantity int    `json:"quantity"`
}

// LimitOrder places a bid or ask. Price and volume are forwarded exactly as
// the participant typed them; the backend parses and validates.
type LimitOrder struct {
	IsBid       Side   `json:"isBid"`
	LimitPrice  string `json:"limitPrice"`
	LimitVolume string `json:"limitVolume"`
}

// MarketOrder accepts an open offer.
type MarketOrder struct {
	OfferID           snapshot.OfferID `json:"offerID"`
	IsBid             Side             `json:"isBid"`
	TransactionPrice  float64          `json:"transactionPrice"`
	TransactionVolume string           `json:"transactionVolume"`
}

// CancelLimit withdraws one of the participant's own offers.
type CancelLimit struct {
	OfferID snapshot.OfferID       `json:"offerID"`
	MakerID snapshot.ParticipantID `json:"makerID"`
}

func (MarketStart) OperationType() Type { return TypeMarketStart }
func (BuyGood) OperationType() Type     { return TypeBuyGood }
func (LimitOrder) OperationType() Type  { return TypeLimitOrder }
func (MarketOrder) OperationType() Type { return TypeMarketOrder }
func (CancelLimit) OperationType() Type { return TypeCancelLimit }

func (o MarketStart) MarshalJSON() ([]byte, error) { return marshalTagged(o.OperationType(), struct{}{}) }

func (o BuyGood) MarshalJSON() ([]byte, error) {
	type plain BuyGood
	return marshalTagged(o.OperationType(), plain(o))
}

func (o LimitOrder) MarshalJSON() ([]byte, error) {
	type plain LimitOrder
	return marshalTagged(o.OperationType(), plain(o))
}

func (o MarketOrder) MarshalJSON() ([]byte, error) {
	type plain MarketOrder
	return marshalTagged(o.OperationType(), plain(o))
}

func (o CancelLimit) MarshalJSON() ([]byte, error) {
	type plain CancelLimit
	return marshalTagged(o.OperationType(), plain(o))
}

// Encode serialises op for the wire.
func Encode(op Operation) ([]byte, error) {
	return json.Marshal(op)
}

func marshalTagged(t Type, body any) ([]byte, error) {
	fields, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}
	tag, err := json.Marshal(map[string]Type{"operationType": t})
	if err != nil {
		return nil, err
	}
	if string(fields) == "{}" {
		return tag, nil
	}
	// {"operationType":"x"} + {"a":1} -> {"operationType":"x","a":1}
	out := make([]byte, 0, len(tag)+len(fields))
	out = append(out, tag[:len(tag)-1]...)
	out = append(out, ',')
	out = append(out, fields[1:]...)
	return out, nil
}
