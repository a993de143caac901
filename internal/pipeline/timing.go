// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"time"

	"go.uber.org/zap"
)

// Timed runs fn as the named stage, logging its start, its end and the
// elapsed time. A failing stage is logged at error level.
func Timed[T any](log *zap.Logger, stage string, fn func() (T, error)) (T, error) {
	log.Debug("stage started", zap.String("stage", stage))
	start := time.Now()
	v, err := fn()
	elapsed := time.Since(start)
	if err != nil {
		log.Error("stage failed", zap.String("stage", stage), zap.Duration("elapsed", elapsed), zap.Error(err))
		return v, err
	}
	log.Info("stage finished", zap.String("stage", stage), zap.Duration("elapsed", elapsed))
	return v, nil
}
