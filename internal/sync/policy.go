package sync

import "fmt"

// FailurePolicy decides what a sync does when fetching one of its inputs fails
type FailurePolicy string

const (
	// BestEffort logs the failed fetch and continues; the input contributes zero rows
	BestEffort FailurePolicy = "best-effort"

	// AllOrNothing aborts the sync on the first failed fetch and writes nothing
	AllOrNothing FailurePolicy = "all-or-nothing"
)

// ParseFailurePolicy parses a configured policy name
func ParseFailurePolicy(s string) (FailurePolicy, error) {
	switch p := FailurePolicy(s); p {
	case BestEffort, AllOrNothing:
		return p, nil
	case "":
		return BestEffort, nil
	default:
		return "", fmt.Errorf("unknown failure policy %q", s)
	}
}

// Policy holds the failure policy of each sync operation.
// Row-store write errors always propagate regardless of policy.
type Policy struct {
	MetaStats   FailurePolicy
	Leaderboard FailurePolicy
}

// DefaultPolicy skips failed fetches for both operations
func DefaultPolicy() Policy {
	return Policy{
		MetaStats:   BestEffort,
		Leaderboard: BestEffort,
	}
}

// NewPolicy builds a Policy from configured names
func NewPolicy(metaStats, leaderboard string) (Policy, error) {
	ms, err := ParseFailurePolicy(metaStats)
	if err != nil {
		return Policy{}, fmt.Errorf("meta stats policy: %w", err)
	}

	lb, err := ParseFailurePolicy(leaderboard)
	if err != nil {
		return Policy{}, fmt.Errorf("leaderboard policy: %w", err)
	}

	return Policy{MetaStats: ms, Leaderboard: lb}, nil
}
