package order

import (
	"testing"
	"time"
)

func TestBucketBounds(t *testing.T) {
	loc := time.FixedZone("IST", 5*3600+1800)
	now := time.Date(2026, 8, 30, 15, 45, 0, 0, loc)
	midnight := time.Date(2026, 8, 30, 0, 0, 0, 0, loc)

	t.Run("today", func(t *testing.T) {
		from, to, bounded := bucketBounds(BucketToday, now)
		if !bounded || !from.Equal(midnight) || !to.IsZero() {
			t.Fatalf("from=%v to=%v bounded=%v", from, to, bounded)
		}
	})

	t.Run("yesterday", func(t *testing.T) {
		from, to, bounded := bucketBounds(BucketYesterday, now)
		if !bounded || !from.Equal(midnight.AddDate(0, 0, -1)) || !to.Equal(midnight) {
			t.Fatalf("from=%v to=%v bounded=%v", from, to, bounded)
		}
	})

	t.Run("week", func(t *testing.T) {
		from, to, bounded := bucketBounds(BucketWeek, now)
		if !bounded || !from.Equal(midnight.AddDate(0, 0, -6)) || !to.IsZero() {
			t.Fatalf("from=%v to=%v bounded=%v", from, to, bounded)
		}
	})

	t.Run("all", func(t *testing.T) {
		if _, _, bounded := bucketBounds(BucketAll, now); bounded {
			t.Fatal("all must be unbounded")
		}
	})
}
