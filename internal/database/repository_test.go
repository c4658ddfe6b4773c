package database

import (
	"sort"
	"testing"
	"time"

	"github.com/nexusvision/studio/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStampBatchSharesOneTimestamp(t *testing.T) {
	items := []*models.ShowcaseItem{
		{Title: "first", ImageID: "blob-1", Row: models.ShowcaseRowTop, BatchIndex: 0},
		{Title: "second", ImageID: "blob-2", Row: models.ShowcaseRowTop, BatchIndex: 1},
		{Title: "third", ImageID: "blob-3", Row: models.ShowcaseRowTop, BatchIndex: 2},
	}

	now := time.Now()
	stampBatch(items, now)

	for _, item := range items {
		assert.NotEmpty(t, item.ID)
		// One shared timestamp per batch; per-item clock readings would let
		// created_at override batch_index in listings
		assert.True(t, item.CreatedAt.Equal(now))
	}
}

func TestStampBatchKeepsExistingIDs(t *testing.T) {
	items := []*models.ShowcaseItem{{ID: "fixed-id", ImageID: "blob-1"}}

	stampBatch(items, time.Now())

	assert.Equal(t, "fixed-id", items[0].ID)
}

func TestStampedBatchListsInSubmissionOrder(t *testing.T) {
	older := time.Now()
	newer := older.Add(time.Minute)

	first := []*models.ShowcaseItem{
		{Title: "old-0", BatchIndex: 0},
		{Title: "old-1", BatchIndex: 1},
	}
	second := []*models.ShowcaseItem{
		{Title: "new-0", BatchIndex: 0},
		{Title: "new-1", BatchIndex: 1},
		{Title: "new-2", BatchIndex: 2},
	}
	stampBatch(first, older)
	stampBatch(second, newer)

	// Same ordering ListShowcase asks of the database
	all := append(append([]*models.ShowcaseItem{}, first...), second...)
	sort.SliceStable(all, func(i, j int) bool {
		if !all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].CreatedAt.After(all[j].CreatedAt)
		}
		return all[i].BatchIndex < all[j].BatchIndex
	})

	titles := make([]string, len(all))
	for i, item := range all {
		titles[i] = item.Title
	}
	require.Equal(t, []string{"new-0", "new-1", "new-2", "old-0", "old-1"}, titles)
}
