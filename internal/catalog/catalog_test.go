package catalog

import (
	"testing"
	"time"

	"github.com/streamvp/streamvp/internal/api"
)

func testList() []api.Video {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	// Newest first: v0, v1, v2.
	return []api.Video{
		{ID: 30, Title: "Closing keynote", CreatedAt: base.Add(2 * time.Hour)},
		{ID: 20, Title: "Deep dive", CreatedAt: base.Add(time.Hour)},
		{ID: 10, Title: "Opening talk", CreatedAt: base},
	}
}

func TestSortNewestFirst(t *testing.T) {
	videos := testList()
	// Shuffle into backend-order.
	videos[0], videos[2] = videos[2], videos[0]

	SortNewestFirst(videos)

	if videos[0].ID != 30 || videos[1].ID != 20 || videos[2].ID != 10 {
		t.Errorf("unexpected order: %d, %d, %d", videos[0].ID, videos[1].ID, videos[2].ID)
	}
}

func TestSortNewestFirstBreaksTiesByID(t *testing.T) {
	ts := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	videos := []api.Video{{ID: 1, CreatedAt: ts}, {ID: 2, CreatedAt: ts}}

	SortNewestFirst(videos)

	if videos[0].ID != 2 {
		t.Errorf("expected higher id first on equal timestamps, got %d", videos[0].ID)
	}
}

func TestNeighborsMiddleItem(t *testing.T) {
	videos := testList()

	next, previous := Neighbors(videos, 20)

	if next == nil || next.ID != 30 {
		t.Errorf("expected next = 30, got %+v", next)
	}
	if previous == nil || previous.ID != 10 {
		t.Errorf("expected previous = 10, got %+v", previous)
	}
}

func TestNeighborsAtListEnds(t *testing.T) {
	videos := testList()

	next, previous := Neighbors(videos, 30)
	if next != nil {
		t.Errorf("newest item must have no next, got %+v", next)
	}
	if previous == nil || previous.ID != 20 {
		t.Errorf("expected previous = 20, got %+v", previous)
	}

	next, previous = Neighbors(videos, 10)
	if previous != nil {
		t.Errorf("oldest item must have no previous, got %+v", previous)
	}
	if next == nil || next.ID != 20 {
		t.Errorf("expected next = 20, got %+v", next)
	}
}

func TestNeighborsUnknownID(t *testing.T) {
	next, previous := Neighbors(testList(), 999)
	if next != nil || previous != nil {
		t.Error("unknown id must yield no neighbors")
	}
}

func TestOthersExcludesCurrentAndLimits(t *testing.T) {
	videos := testList()

	out := Others(videos, 20, 3)
	if len(out) != 2 {
		t.Fatalf("expected 2 others, got %d", len(out))
	}
	for _, v := range out {
		if v.ID == 20 {
			t.Error("current video must be excluded")
		}
	}

	out = Others(videos, 30, 1)
	if len(out) != 1 || out[0].ID != 20 {
		t.Errorf("expected limit to apply in order, got %+v", out)
	}
}

func TestSearchEmptyQueryReturnsAll(t *testing.T) {
	videos := testList()
	out := Search(videos, "   ")
	if len(out) != len(videos) {
		t.Errorf("expected all videos for empty query, got %d", len(out))
	}
}

func TestSearchMatchesFuzzyTitles(t *testing.T) {
	videos := testList()

	out := Search(videos, "keynote")
	if len(out) != 1 || out[0].ID != 30 {
		t.Errorf("expected only the keynote, got %+v", out)
	}

	out = Search(videos, "OPENING")
	if len(out) != 1 || out[0].ID != 10 {
		t.Errorf("expected case-insensitive match, got %+v", out)
	}

	out = Search(videos, "zzzz")
	if len(out) != 0 {
		t.Errorf("expected no matches, got %+v", out)
	}
}
