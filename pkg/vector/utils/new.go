// Package vectorutils is the vector index factory package.
package vectorutils

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"strconv"

	"github.com/reelstack/reelqa/pkg/vector"
	"github.com/reelstack/reelqa/pkg/vector/exhaustive"
	"github.com/reelstack/reelqa/pkg/vector/qdrant"
	"github.com/reelstack/reelqa/pkg/vector/sqlitevec"
)

type NewIndexOpts struct {
	// ProviderType selects the backend: "exhaustive", "sqlite", or "qdrant".
	ProviderType string

	// Target is backend-specific: a database path for sqlite, a host:port
	// for qdrant. Ignored by the exhaustive index.
	Target string

	// Collection is the qdrant collection name.
	Collection string

	// Dimensions is required for the sqlite and qdrant backends.
	Dimensions uint

	Logger *slog.Logger
}

func NewIndex(ctx context.Context, o *NewIndexOpts) (vector.Index, error) {
	switch o.ProviderType {
	case "exhaustive", "memory", "":
		return exhaustive.New(o.Logger), nil
	case "sqlite":
		return sqlitevec.New(sqlitevec.Config{
			DBPath:     o.Target,
			Dimensions: o.Dimensions,
		}, o.Logger)
	case "qdrant":
		host, port := splitTarget(o.Target)
		return qdrant.New(ctx, qdrant.Config{
			Host:           host,
			Port:           port,
			CollectionName: o.Collection,
			Dimensions:     o.Dimensions,
		}, o.Logger)
	default:
		return nil, fmt.Errorf("unsupported vector index provider: %s", o.ProviderType)
	}
}

// splitTarget splits "host:port" into its parts. A bare host is returned
// with port 0 so the backend default applies.
func splitTarget(target string) (string, int) {
	host, portStr, err := net.SplitHostPort(target)
	if err != nil {
		return target, 0
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return target, 0
	}
	return host, port
}
