package app

import (
	"context"

	"templater/internal/debug"
	"templater/internal/store"
)

// Delete removes a stored template by name.
func Delete(ctx context.Context, st *store.Store, name string) error {
	debug.DebugSection("[app] Delete workflow start")
	debug.DebugValue("[app] Name", name)

	if err := st.Delete(name); err != nil {
		return err
	}

	debug.Debug("[app] Delete workflow completed")
	return nil
}
