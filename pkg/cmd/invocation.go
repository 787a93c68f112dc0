package cmd

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

var (
	ErrNoResponder      = errors.New("invocation has no responder")
	ErrMissingArgument  = errors.New("missing required argument")
	ErrInvalidArgument  = errors.New("invalid argument")
	ErrTooManyArguments = errors.New("too many arguments")
)

// Invocation carries the input any command runner can pass: named options,
// positional args and an opaque payload. Adapters set Data to their context
// (e.g. *discordtypes.SlashContext) and Responder to their reply channel.
type Invocation struct {
	ID        string
	Name      string
	UserID    string
	GuildID   string
	Args      []string
	Options   map[string]any
	Data      any
	Responder Responder
}

// NewInvocation returns an invocation of the named command with a fresh ID.
func NewInvocation(name string, options map[string]any) *Invocation {
	if options == nil {
		options = map[string]any{}
	}
	return &Invocation{
		ID:      uuid.NewString(),
		Name:    name,
		Options: options,
	}
}

// Reply sends content through the adapter's responder.
func (inv *Invocation) Reply(ctx context.Context, content string) error {
	if inv.Responder == nil {
		return ErrNoResponder
	}
	return inv.Responder.Reply(ctx, content)
}

// Has reports whether the named option was supplied.
func (inv *Invocation) Has(name string) bool {
	_, ok := inv.Options[name]
	return ok
}

func (inv *Invocation) String(name string) (string, bool) {
	v, ok := inv.Options[name].(string)
	return v, ok
}

// Int returns the named option as int64. Whole float64 values are accepted
// since JSON transports decode every number as float64.
func (inv *Invocation) Int(name string) (int64, bool) {
	switch v := inv.Options[name].(type) {
	case int64:
		return v, true
	case int:
		return int64(v), true
	case float64:
		if v == float64(int64(v)) {
			return int64(v), true
		}
	}
	return 0, false
}

func (inv *Invocation) Float(name string) (float64, bool) {
	switch v := inv.Options[name].(type) {
	case float64:
		return v, true
	case int64:
		return float64(v), true
	case int:
		return float64(v), true
	}
	return 0, false
}

func (inv *Invocation) Bool(name string) (bool, bool) {
	v, ok := inv.Options[name].(bool)
	return v, ok
}

// Bind maps positional args onto params in declaration order and converts each
// value to the parameter's declared type.
func Bind(params []Parameter, args []string) (map[string]any, error) {
	if len(args) > len(params) {
		return nil, fmt.Errorf("%w: got %d, want at most %d", ErrTooManyArguments, len(args), len(params))
	}

	out := make(map[string]any, len(args))
	for i, p := range params {
		if i >= len(args) {
			if p.Required {
				return nil, fmt.Errorf("%w: %s", ErrMissingArgument, p.Name)
			}
			continue
		}
		v, err := parseValue(p.Type, args[i])
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrInvalidArgument, p.Name, err)
		}
		out[p.Name] = v
	}
	return out, nil
}

func parseValue(t ParamType, raw string) (any, error) {
	switch t {
	case Integer:
		return strconv.ParseInt(raw, 10, 64)
	case Number:
		return strconv.ParseFloat(raw, 64)
	case Boolean:
		return strconv.ParseBool(strings.ToLower(raw))
	default:
		return raw, nil
	}
}
