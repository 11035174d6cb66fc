package snapshot

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
)

var (
	ErrShortTuple = errors.New("tuple too short")
	ErrBadID      = errors.New("identity must be a string or number")
)

// Decode parses one pushed frame. A JSON null (or empty frame) yields a nil
// snapshot and no error.
func Decode(data []byte) (*Snapshot, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil, nil
	}
	var s Snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	return &s, nil
}

func (r *OrderRow) UnmarshalJSON(data []byte) error {
	var tuple []json.RawMessage
	if err := json.Unmarshal(data, &tuple); err != nil {
		return err
	}
	if len(tuple) < 4 {
		return fmt.Errorf("order row: %w (%d of 4)", ErrShortTuple, len(tuple))
	}
	var err error
	if r.Price, err = decodeNumber(tuple[0]); err != nil {
		return fmt.Errorf("order row price: %w", err)
	}
	if r.Volume, err = decodeNumber(tuple[1]); err != nil {
		return fmt.Errorf("order row volume: %w", err)
	}
	id, err := decodeID(tuple[2])
	if err != nil {
		return fmt.Errorf("order row offerID: %w", err)
	}
	maker, err := decodeID(tuple[3])
	if err != nil {
		return fmt.Errorf("order row makerID: %w", err)
	}
	r.OfferID, r.MakerID = OfferID(id), ParticipantID(maker)
	return nil
}

func (r OrderRow) MarshalJSON() ([]byte, error) {
	return json.Marshal([]any{r.Price, r.Volume, string(r.OfferID), string(r.MakerID)})
}

func (r *TradeRow) UnmarshalJSON(data []byte) error {
	var tuple []json.RawMessage
	if err := json.Unmarshal(data, &tuple); err != nil {
		return err
	}
	if len(tuple) < 2 {
		return fmt.Errorf("trade row: %w (%d of 2)", ErrShortTuple, len(tuple))
	}
	var err error
	if r.Price, err = decodeNumber(tuple[0]); err != nil {
		return fmt.Errorf("trade row price: %w", err)
	}
	if r.Volume, err = decodeNumber(tuple[1]); err != nil {
		return fmt.Errorf("trade row volume: %w", err)
	}
	if len(tuple) > 2 {
		if r.Time, err = decodeNumber(tuple[2]); err != nil {
			return fmt.Errorf("trade row time: %w", err)
		}
	}
	if len(tuple) > 3 {
		seller, err := decodeID(tuple[3])
		if err != nil {
			return fmt.Errorf("trade row seller: %w", err)
		}
		r.SellerID = ParticipantID(seller)
	}
	return nil
}

func (r TradeRow) MarshalJSON() ([]byte, error) {
	return json.Marshal([]any{r.Price, r.Volume, r.Time, string(r.SellerID)})
}

func (n *NewsItem) UnmarshalJSON(data []byte) error {
	var tuple []json.RawMessage
	if err := json.Unmarshal(data, &tuple); err != nil {
		return err
	}
	if len(tuple) < 1 {
		return fmt.Errorf("news item: %w", ErrShortTuple)
	}
	if err := json.Unmarshal(tuple[0], &n.Message); err != nil {
		return fmt.Errorf("news message: %w", err)
	}
	if len(tuple) > 1 {
		// msgTime is informational only; tolerate nulls.
		n.Time, _ = decodeNumber(tuple[1])
	}
	if len(tuple) > 2 {
		if id, err := decodeID(tuple[2]); err == nil {
			n.PlayerID = ParticipantID(id)
		}
	}
	return nil
}

func (n NewsItem) MarshalJSON() ([]byte, error) {
	return json.Marshal([]any{n.Message, n.Time, string(n.PlayerID)})
}

func (p *Point) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '[' {
		var xy []float64
		if err := json.Unmarshal(data, &xy); err != nil {
			return err
		}
		if len(xy) < 2 {
			return fmt.Errorf("chart point: %w", ErrShortTuple)
		}
		p.X, p.Y = xy[0], xy[1]
		return nil
	}
	type plain Point
	return json.Unmarshal(data, (*plain)(p))
}

func decodeNumber(raw json.RawMessage) (float64, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) > 0 && raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return 0, err
		}
		return strconv.ParseFloat(s, 64)
	}
	var f float64
	err := json.Unmarshal(raw, &f)
	return f, err
}

func decodeID(raw json.RawMessage) (string, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return "", ErrBadID
	}
	switch raw[0] {
	case '"':
		var s string
		err := json.Unmarshal(raw, &s)
		return s, err
	case 'n', 't', 'f', '[', '{':
		return "", ErrBadID
	default:
		var n json.Number
		if err := json.Unmarshal(raw, &n); err != nil {
			return "", err
		}
		return n.String(), nil
	}
}
