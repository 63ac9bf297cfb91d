package media

import "context"

// CountSyncer persists the denormalized file count for a community post
// after a successful consolidation.
type CountSyncer interface {
	UpdateFileCount(ctx context.Context, postID int64, count int) error
}
