package api

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/Miraines/MoonyAndStarry/account-service/internal/app/account/authn"
	customErrors "github.com/Miraines/MoonyAndStarry/account-service/internal/domain/account/errors"
)

type Kind string

const (
	Query    Kind = "query"
	Mutation Kind = "mutation"
)

type Resolver func(ctx context.Context, vars json.RawMessage) (any, error)

// Operation describes one entry of the API. Protected operations are
// rejected before Resolve runs unless the request carries a valid token.
type Operation struct {
	Name      string
	Kind      Kind
	Protected bool
	Resolve   Resolver
}

type Registry struct {
	ops map[string]Operation
}

func NewRegistry() *Registry {
	return &Registry{ops: make(map[string]Operation)}
}

func (r *Registry) Register(op Operation) error {
	if op.Name == "" || op.Resolve == nil {
		return fmt.Errorf("operation %q: name and resolver are required", op.Name)
	}
	if _, dup := r.ops[op.Name]; dup {
		return fmt.Errorf("operation %q already registered", op.Name)
	}
	r.ops[op.Name] = op
	return nil
}

func (r *Registry) Lookup(name string) (Operation, bool) {
	op, ok := r.ops[name]
	return op, ok
}

// Names returns registered operation names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.ops))
	for n := range r.ops {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func (r *Registry) Execute(ctx context.Context, name string, vars json.RawMessage) (any, error) {
	op, ok := r.ops[name]
	if !ok {
		return nil, customErrors.New(customErrors.ErrInvalidArgument,
			"Invalid operation request.",
			fmt.Sprintf("Unknown operation %q.", name))
	}
	if op.Protected {
		if err := authn.RequireAuthenticated(authn.FromContext(ctx)); err != nil {
			return nil, err
		}
	}
	return op.Resolve(ctx, vars)
}
