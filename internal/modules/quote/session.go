package quote

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"photobook/internal/pricing"

	"go.uber.org/zap"
)

// Session is one live booking form. Run owns the Controller; nothing else
// may touch it.
type Session struct {
	ctrl    *pricing.Controller
	log     *zap.Logger
	changed bool
}

// NewSession starts a form on the built-in defaults so it is usable before
// the real price table arrives.
func NewSession(serviceParam string, log *zap.Logger) *Session {
	s := &Session{
		ctrl: pricing.NewController(pricing.DefaultConfig(), serviceParam),
		log:  log,
	}
	s.ctrl.OnTotalChange(func(pricing.Snapshot) { s.changed = true })
	return s
}

func (s *Session) Snapshot() pricing.Snapshot {
	return s.ctrl.Snapshot()
}

// Run applies client messages and the config load result in arrival order
// and emits a reply for each. It returns when ctx is done or in is closed.
func (s *Session) Run(ctx context.Context, in <-chan ClientMessage, configs <-chan pricing.Config, out chan<- ServerMessage) {
	if !s.emit(ctx, out, s.snapshotMessage(ReasonInitial, s.ctrl.Snapshot())) {
		return
	}

	for {
		select {
		case <-ctx.Done():
			return

		case cfg, ok := <-configs:
			if !ok {
				configs = nil
				continue
			}
			snap := s.ctrl.ApplyConfig(cfg)
			if !s.emit(ctx, out, s.snapshotMessage(ReasonConfigLoaded, snap)) {
				return
			}

		case msg, ok := <-in:
			if !ok {
				return
			}
			var reply ServerMessage
			if snap, err := s.Apply(msg); err != nil {
				s.log.Debug("quote message rejected", zap.String("type", msg.Type), zap.Error(err))
				reply = errorMessage(err)
			} else {
				reply = s.snapshotMessage(ReasonAction, snap)
			}
			if !s.emit(ctx, out, reply) {
				return
			}
		}
	}
}

func (s *Session) emit(ctx context.Context, out chan<- ServerMessage, msg ServerMessage) bool {
	select {
	case out <- msg:
		return true
	case <-ctx.Done():
		return false
	}
}

func (s *Session) snapshotMessage(reason string, snap pricing.Snapshot) ServerMessage {
	msg := ServerMessage{
		Type:         EventSnapshot,
		Reason:       reason,
		TotalChanged: s.changed,
		Snapshot:     &snap,
	}
	s.changed = false
	return msg
}

func errorMessage(err error) ServerMessage {
	code := "INVALID_VALUE"
	if errors.Is(err, ErrUnknownType) {
		code = "UNKNOWN_TYPE"
	}
	return ServerMessage{
		Type:  EventError,
		Error: &ErrorPayload{Code: code, Message: err.Error()},
	}
}

// Apply performs one client action on the form.
func (s *Session) Apply(msg ClientMessage) (pricing.Snapshot, error) {
	switch msg.Type {
	case MsgSetServiceType:
		v, err := decodeString(msg)
		if err != nil {
			return pricing.Snapshot{}, err
		}
		return s.ctrl.SetServiceType(pricing.ServiceType(v)), nil

	case MsgNavigate:
		v, err := decodeString(msg)
		if err != nil {
			return pricing.Snapshot{}, err
		}
		return s.ctrl.ExternalServiceType(pricing.ServiceType(v)), nil

	case MsgSetPackageType:
		v, err := decodeString(msg)
		if err != nil {
			return pricing.Snapshot{}, err
		}
		return s.ctrl.SetPackageType(pricing.Tier(v)), nil

	case MsgSetVideoPackage:
		v, err := decodeString(msg)
		if err != nil {
			return pricing.Snapshot{}, err
		}
		return s.ctrl.SetVideoPackage(pricing.Tier(v)), nil

	case MsgSetTransportationZone:
		v, err := decodeString(msg)
		if err != nil {
			return pricing.Snapshot{}, err
		}
		return s.ctrl.SetTransportationZone(v), nil

	case MsgToggleAddon:
		v, err := decodeString(msg)
		if err != nil {
			return pricing.Snapshot{}, err
		}
		return s.ctrl.ToggleAddon(v), nil

	case MsgSetPeopleCount:
		var n int
		if err := decodeValue(msg, &n); err != nil {
			return pricing.Snapshot{}, err
		}
		return s.ctrl.SetPeopleCount(n), nil

	case MsgSetEventHours:
		var n int
		if err := decodeValue(msg, &n); err != nil {
			return pricing.Snapshot{}, err
		}
		return s.ctrl.SetEventHours(n), nil

	case MsgSetTransportationFee:
		var fee float64
		if err := decodeValue(msg, &fee); err != nil {
			return pricing.Snapshot{}, err
		}
		return s.ctrl.SetTransportationFee(fee), nil

	case MsgToggleVideoPackage:
		return s.ctrl.ToggleVideoPackage(), nil

	default:
		return pricing.Snapshot{}, fmt.Errorf("%w: %q", ErrUnknownType, msg.Type)
	}
}

func decodeString(msg ClientMessage) (string, error) {
	var v string
	if err := decodeValue(msg, &v); err != nil {
		return "", err
	}
	return v, nil
}

func decodeValue(msg ClientMessage, v any) error {
	if len(msg.Value) == 0 {
		return fmt.Errorf("%w: %s needs a value", ErrInvalidValue, msg.Type)
	}
	if err := json.Unmarshal(msg.Value, v); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrInvalidValue, msg.Type, err)
	}
	return nil
}
