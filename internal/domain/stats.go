package domain

const (
	InitialReputation  uint64 = 100
	ReputationIncrease uint64 = 10
	MaxReputation      uint64 = 1000
)

type UserStats struct {
	User            string `json:"user"`
	TotalRentals    uint64 `json:"total_rentals"`
	TotalSpent      uint64 `json:"total_spent"`
	TotalEarned     uint64 `json:"total_earned"`
	ReputationScore uint64 `json:"reputation_score"`
}

// NewUserStats returns the stats a user starts with on first activity.
func NewUserStats(user string) *UserStats {
	return &UserStats{User: user, ReputationScore: InitialReputation}
}
