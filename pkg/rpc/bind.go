package rpc

import (
	"context"
	"encoding/json"

	"github.com/Chisowa/Farm-Link-Zambia/pkg/auth"
)

// Defaulter is implemented by inputs with optional fields that have defaults.
type Defaulter interface {
	ApplyDefaults()
}

// Bind adapts a typed handler to Handler. The input has already passed its
// schema when this runs.
func Bind[In, Out any](fn func(ctx context.Context, ac auth.Context, in In) (Out, error)) Handler {
	return func(ctx context.Context, ac auth.Context, raw json.RawMessage) (any, error) {
		var in In
		if err := json.Unmarshal(raw, &in); err != nil {
			return nil, Wrap(CodeBadRequest, "Input does not match procedure", err)
		}
		if d, ok := any(&in).(Defaulter); ok {
			d.ApplyDefaults()
		}
		out, err := fn(ctx, ac, in)
		if err != nil {
			return nil, err
		}
		return out, nil
	}
}

// NoInput adapts a handler that ignores its input.
func NoInput[Out any](fn func(ctx context.Context, ac auth.Context) (Out, error)) Handler {
	return func(ctx context.Context, ac auth.Context, _ json.RawMessage) (any, error) {
		out, err := fn(ctx, ac)
		if err != nil {
			return nil, err
		}
		return out, nil
	}
}
