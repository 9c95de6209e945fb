package entity

import "time"

// FetchState lifecycle of one feed fetch
type FetchState string

const (
	FetchIdle     FetchState = "idle"
	FetchFetching FetchState = "fetching"
	FetchSuccess  FetchState = "success"
	FetchFailure  FetchState = "failure"
)

// Done reports whether the state is terminal
func (s FetchState) Done() bool {
	return s == FetchSuccess || s == FetchFailure
}

// FetchAttempt one invocation of the feed fetcher
type FetchAttempt struct {
	ID         string
	Source     string
	State      FetchState
	StartedAt  time.Time
	FinishedAt time.Time
	Records    int
	Err        string
}

// Duration time spent fetching, zero while in flight
func (a FetchAttempt) Duration() time.Duration {
	if a.FinishedAt.IsZero() {
		return 0
	}
	return a.FinishedAt.Sub(a.StartedAt)
}
