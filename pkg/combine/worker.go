package combine

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// readAll reads every path with at most maxWorkers concurrent readers. The
// result slice is in the same order as paths. When several files fail, the
// error of the earliest one in paths is returned, as a sequential read
// would report it.
func readAll(ctx context.Context, paths []string, maxWorkers int, logger *zap.Logger) ([]fileContent, error) {
	if maxWorkers <= 0 {
		maxWorkers = DefaultWorkers
	}

	results := make([]fileContent, len(paths))
	errs := make([]error, len(paths))
	var g errgroup.Group
	g.SetLimit(maxWorkers)

	logger.Debug("Distributing files to workers", zap.Int("workers", maxWorkers))
	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}
			results[i], errs[i] = readEntry(path, logger.With(zap.Int("position", i)))
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	logger.Debug("All files processed", zap.Int("processedFiles", len(results)))
	return results, nil
}
