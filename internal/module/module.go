// Package module defines the dashboard module contract, the static registry
// that builds module instances from configuration, and the refresh engine
// that turns modules into ordered display fragments.
package module

import (
	"context"
	"fmt"

	"github.com/homedash/homedash/internal/config"
	"github.com/homedash/homedash/internal/model"
)

// Module is one dashboard widget: a data fetch paired with a render step.
// Fetch performs the external call; Render is a pure function from the
// fetched record to a display fragment.
type Module interface {
	// ID returns the instance identifier from the config.
	ID() string
	// Name returns a human-readable name used as the fragment title.
	Name() string
	// Description returns a description of what this module shows.
	Description() string
	// Fetch obtains a fresh record from the module's data source.
	Fetch(ctx context.Context) (model.Record, error)
	// Render formats a record into a fragment. Same record, same fragment.
	Render(rec model.Record) model.Fragment
}

// Factory builds a module instance from its settings.
type Factory func(cfg config.ModuleSettings) (Module, error)

// ModuleError tags a fetch failure with the offending module so one failing
// module can be isolated from the rest of a refresh.
type ModuleError struct {
	Module string
	Err    error
}

func (e *ModuleError) Error() string {
	return fmt.Sprintf("module %s: %v", e.Module, e.Err)
}

func (e *ModuleError) Unwrap() error { return e.Err }
