package cache

import (
	"encoding/json"
	"testing"
	"time"

	dom "taskapi/internal/domain"
	"taskapi/internal/repo"
)

func TestMarshalList_EmptyIsCacheable(t *testing.T) {
	// A nil result must encode as [] so the stored value decodes back to a
	// non-nil slice; nil decoded lists are interpreted as cache misses.
	b, err := marshalList(nil)
	if err != nil {
		t.Fatalf("marshalList(nil) error = %v", err)
	}
	if string(b) != "[]" {
		t.Fatalf("marshalList(nil) = %s, want []", b)
	}

	var got []dom.Task
	if err := json.Unmarshal(b, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got == nil {
		t.Error("empty list decoded to nil; it would be treated as a miss")
	}
	if len(got) != 0 {
		t.Errorf("len = %d, want 0", len(got))
	}
}

func TestMarshalList_RoundTrip(t *testing.T) {
	in := []dom.Task{{
		ID:      1,
		UserID:  2,
		Title:   "T",
		Status:  dom.StatusPending,
		DueDate: time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC),
	}}
	b, err := marshalList(in)
	if err != nil {
		t.Fatalf("marshalList() error = %v", err)
	}
	var got []dom.Task
	if err := json.Unmarshal(b, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(got) != 1 || got[0].ID != 1 || got[0].Title != "T" {
		t.Errorf("round-trip = %+v", got)
	}
}

func TestListKey_DistinctPerVariant(t *testing.T) {
	keys := map[string]bool{}
	for _, f := range []repo.ListFilter{
		{},
		{Status: dom.StatusPending},
		{SortDueDate: repo.SortAsc},
		{Status: dom.StatusPending, SortDueDate: repo.SortDesc},
	} {
		keys[ListKey(7, f)] = true
	}
	if len(keys) != 4 {
		t.Errorf("got %d distinct keys, want 4", len(keys))
	}
	if ListKey(7, repo.ListFilter{}) == ListKey(8, repo.ListFilter{}) {
		t.Error("keys must differ per user")
	}
}
