package jobs

import (
	"context"

	"drc-backend/internal/logger"
)

// RecomputeLeaderboard reranks all users by completed returns.
func (jr *JobRunner) RecomputeLeaderboard() {
	jr.runWithRecovery("RecomputeLeaderboard", func() {
		if err := jr.services.Impact.RecomputeLeaderboard(context.Background()); err != nil {
			logger.Error("Failed to recompute leaderboard", "error", err)
		}
	})
}
