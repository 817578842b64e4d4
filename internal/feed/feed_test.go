package feed

import (
	"context"
	"errors"
	"net/url"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/01moynul/marketfeed/internal/models"
)

func id(v int64) *int64 { return &v }

type fakeSource struct {
	mu        sync.Mutex
	calls     []url.Values
	catErr    error
	searchErr error
	// block, when set, is waited on by searches for the given categoryId.
	block map[string]chan struct{}
}

func (s *fakeSource) Categories(context.Context) ([]models.CategoryNode, error) {
	if s.catErr != nil {
		return nil, s.catErr
	}
	return []models.CategoryNode{
		{ID: id(1), Name: "Vasıta"},
		{ID: id(3), Name: "Emlak", Children: []models.CategoryNode{{ID: id(30), Name: "Konut"}}},
	}, nil
}

func (s *fakeSource) VehicleCategories(context.Context) ([]models.CategoryNode, error) {
	return []models.CategoryNode{{ID: id(1), Name: "Vasıta", Children: []models.CategoryNode{{ID: id(2), Name: "Otomobil"}}}}, nil
}

func (s *fakeSource) Search(_ context.Context, _ string, params url.Values) ([]models.Listing, error) {
	s.mu.Lock()
	s.calls = append(s.calls, params)
	ch := s.block[params.Get("categoryId")]
	s.mu.Unlock()
	if ch != nil {
		<-ch
	}
	if s.searchErr != nil {
		return nil, s.searchErr
	}
	return []models.Listing{
		{ID: "flat-" + params.Get("categoryId"), Title: "Daire", CategoryID: 30},
		{ID: "car", Title: "BMW", CategoryID: 2, HasVehicleDetail: true},
	}, nil
}

func (s *fakeSource) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.calls)
}

func TestRefreshLoadsBoth(t *testing.T) {
	src := &fakeSource{}
	f := New(src, "tok", 0)
	if err := f.Refresh(context.Background()); err != nil {
		t.Fatal(err)
	}
	if f.Resolver.Len() != 3 {
		t.Errorf("categories: got %d, want 3", f.Resolver.Len())
	}
	if got := f.View(); len(got) != 2 {
		t.Errorf("view: got %d listings, want 2", len(got))
	}
}

func TestRefreshFailuresLeaveUsableState(t *testing.T) {
	src := &fakeSource{}
	f := New(src, "", 0)
	if err := f.Refresh(context.Background()); err != nil {
		t.Fatal(err)
	}

	src.catErr = errors.New("offline")
	src.searchErr = errors.New("offline")
	if err := f.Refresh(context.Background()); err == nil {
		t.Fatal("expected the joined fetch errors")
	}
	if f.Resolver.Len() != 3 {
		t.Error("a failed category fetch must keep the previous set")
	}
	if got := f.View(); len(got) != 0 {
		t.Errorf("a failed listing fetch must leave an empty feed, got %d", len(got))
	}
}

func TestVehicleBatchMerge(t *testing.T) {
	f := New(&fakeSource{}, "", 0)
	if err := f.LoadCategories(context.Background()); err != nil {
		t.Fatal(err)
	}
	if f.Resolver.HasChildren(1) {
		t.Fatal("vehicles has no children before the merge")
	}
	if err := f.LoadVehicleCategories(context.Background()); err != nil {
		t.Fatal(err)
	}
	if !f.Resolver.HasChildren(1) || f.Resolver.Len() != 4 {
		t.Errorf("after merge: len %d", f.Resolver.Len())
	}
	if !f.Resolver.VehiclesLoaded() {
		t.Error("vehicle batch not recorded")
	}
}

func TestSearchLatestWins(t *testing.T) {
	slow := make(chan struct{})
	src := &fakeSource{block: map[string]chan struct{}{"3": slow}}
	f := New(src, "", 0)

	var wg sync.WaitGroup
	var staleKept bool
	wg.Add(1)
	go func() {
		defer wg.Done()
		staleKept, _ = f.Search(context.Background(), models.FilterCriteria{CategoryPath: models.SelectionPath{3}})
	}()

	// wait until the slow request is in flight
	for src.callCount() == 0 {
		time.Sleep(time.Millisecond)
	}

	kept, err := f.Search(context.Background(), models.FilterCriteria{CategoryPath: models.SelectionPath{1}})
	if err != nil || !kept {
		t.Fatalf("newest search: kept=%v err=%v", kept, err)
	}
	close(slow)
	wg.Wait()

	if staleKept {
		t.Error("the superseded search must be discarded")
	}
	view := f.View()
	if len(view) != 1 || view[0].ID != "car" {
		t.Errorf("view: %+v", view)
	}
}

func TestUpdateDebounces(t *testing.T) {
	src := &fakeSource{}
	f := New(src, "", 20*time.Millisecond)
	defer f.Close()

	var runs atomic.Int32
	done := make(chan struct{}, 10)
	for i := 0; i < 5; i++ {
		f.Update(context.Background(), models.FilterCriteria{Keyword: "bmw"}, func(bool, error) {
			runs.Add(1)
			done <- struct{}{}
		})
	}

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("debounced search never ran")
	}
	time.Sleep(60 * time.Millisecond)

	if runs.Load() != 1 || src.callCount() != 1 {
		t.Errorf("got %d runs and %d fetches, want 1 each", runs.Load(), src.callCount())
	}
	if got := f.View(); len(got) != 1 || got[0].ID != "car" {
		t.Errorf("keyword view: %+v", got)
	}
}

func TestDebouncerStop(t *testing.T) {
	d := NewDebouncer(10 * time.Millisecond)
	var ran atomic.Bool
	d.Trigger(func() { ran.Store(true) })
	d.Stop()
	time.Sleep(40 * time.Millisecond)
	if ran.Load() {
		t.Error("stopped call ran")
	}
}
