// Package cmd provides common initialization functions for command-line
// applications.
package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/selvklart/docflow/pkg/store"
	"github.com/selvklart/docflow/pkg/store/file"
	"github.com/selvklart/docflow/pkg/store/postgresql"
)

// NewStore creates a metadata store from the database URL scheme. A
// postgres URL selects the PostgreSQL store, anything else is treated as
// a file store root path.
func NewStore(ctx context.Context, logger *slog.Logger, databaseURL string) store.Store {
	switch {
	case strings.HasPrefix(databaseURL, "postgres://"), strings.HasPrefix(databaseURL, "postgresql://"):
		st, err := postgresql.NewStore(ctx, logger, databaseURL)
		if err != nil {
			panic(fmt.Errorf("failed to create postgresql store: %w", err))
		}

		return st
	default:
		st, err := file.NewStore(strings.TrimPrefix(databaseURL, "file://"))
		if err != nil {
			panic(fmt.Errorf("failed to create file store: %w", err))
		}

		return st
	}
}
