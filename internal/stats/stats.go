// Package stats tracks bot usage counters across several storage backends.
package stats

import "context"

// Snapshot is a point-in-time view of the usage counters.
type Snapshot struct {
	TotalUsers     int64
	ActiveToday    int64
	TotalDownloads int64
}

// Store records user activity and export downloads.
// Implementations must be safe for concurrent use.
type Store interface {
	// RecordUserSeen marks the user as active today, registering them on
	// first contact.
	RecordUserSeen(ctx context.Context, userID int64) error
	// IncrementDownloads bumps the global download counter.
	IncrementDownloads(ctx context.Context) error
	// Snapshot reads the current counters.
	Snapshot(ctx context.Context) (Snapshot, error)
	// Close releases backend resources.
	Close() error
}

const dateLayout = "2006-01-02"
