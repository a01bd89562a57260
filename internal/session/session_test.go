package session

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/goleak"

	"github.com/JonMunkholm/toolbox/internal/table"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func newTable() *table.Table {
	return &table.Table{Columns: []string{"a"}, Rows: [][]table.Value{{"x"}}}
}

func TestSession_AddDuplicateRejected(t *testing.T) {
	st := NewStore(time.Hour, 0)
	s := st.Create()

	first := NewDataset("sales", newTable(), "sales.csv", 10)
	if err := s.Add(first); err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	second := NewDataset("sales", newTable(), "other.csv", 20)
	err := s.Add(second)
	if !errors.Is(err, ErrDatasetExists) {
		t.Fatalf("Add() duplicate error = %v, want ErrDatasetExists", err)
	}

	got, _ := s.Get("sales")
	if got.Filename != "sales.csv" {
		t.Errorf("dataset was replaced: filename %q", got.Filename)
	}
	if s.Len() != 1 {
		t.Errorf("Len() = %d, want 1", s.Len())
	}
}

func TestSession_NamesOrderAndRemove(t *testing.T) {
	s := NewStore(time.Hour, 0).Create()
	for _, n := range []string{"b", "a", "c"} {
		if err := s.Add(NewDataset(n, newTable(), "", 0)); err != nil {
			t.Fatalf("Add(%q) error = %v", n, err)
		}
	}
	if diff := cmp.Diff([]string{"b", "a", "c"}, s.Names()); diff != "" {
		t.Errorf("Names() mismatch (-want +got):\n%s", diff)
	}
	if s.Current != "b" {
		t.Errorf("Current = %q, want b", s.Current)
	}

	if err := s.Remove("b"); err != nil {
		t.Fatalf("Remove() error = %v", err)
	}
	if diff := cmp.Diff([]string{"a", "c"}, s.Names()); diff != "" {
		t.Errorf("Names() after remove mismatch (-want +got):\n%s", diff)
	}
	if s.Current != "a" {
		t.Errorf("Current after remove = %q, want a", s.Current)
	}
	if err := s.Remove("b"); !errors.Is(err, ErrDatasetNotFound) {
		t.Errorf("Remove() missing error = %v", err)
	}
}

func TestSession_Limits(t *testing.T) {
	s := NewStore(time.Hour, 1).Create()
	if err := s.Add(NewDataset("  ", newTable(), "", 0)); !errors.Is(err, ErrEmptyName) {
		t.Errorf("blank name error = %v", err)
	}
	if err := s.Add(NewDataset("one", newTable(), "", 0)); err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	if err := s.Add(NewDataset("two", newTable(), "", 0)); !errors.Is(err, ErrTooManyDatasets) {
		t.Errorf("over limit error = %v", err)
	}
}

func TestSession_RemapDictionary(t *testing.T) {
	s := NewStore(time.Hour, 0).Create()
	s.Remap = []RemapEntry{{"X", "Y"}, {"A", "B"}, {"X", "Z"}}
	want := table.Dictionary{"X": "Z", "A": "B"}
	if diff := cmp.Diff(want, s.RemapDictionary()); diff != "" {
		t.Errorf("RemapDictionary mismatch (-want +got):\n%s", diff)
	}
}

func TestDataset_SourceRoundTrip(t *testing.T) {
	d := NewDataset("wb", newTable(), "wb.xlsx", 0)
	if _, err := d.Source(); !errors.Is(err, ErrNoSource) {
		t.Errorf("Source() before SetSource error = %v", err)
	}

	payload := bytes.Repeat([]byte("sheet data "), 500)
	if err := d.SetSource(payload); err != nil {
		t.Fatalf("SetSource() error = %v", err)
	}
	if d.StoredSize() >= len(payload) {
		t.Errorf("stored %d bytes, want less than %d", d.StoredSize(), len(payload))
	}
	got, err := d.Source()
	if err != nil {
		t.Fatalf("Source() error = %v", err)
	}
	if !bytes.Equal(got, payload) {
		t.Error("Source() did not return the original bytes")
	}
}

func TestDataset_RestoreAndHistory(t *testing.T) {
	d := NewDataset("d", newTable(), "", 0)
	d.Data.Rows[0][0] = "changed"
	d.Record(ActionEditCell, "a[0]", "10.0.0.1")
	d.Restore()

	if d.Data.Rows[0][0] != "x" {
		t.Errorf("Restore() cell = %v, want x", d.Data.Rows[0][0])
	}
	d.Data.Rows[0][0] = "again"
	if d.Original.Rows[0][0] != "x" {
		t.Error("Restore() shares storage with the original")
	}
	if len(d.History) != 1 || d.History[0].Action != ActionEditCell || d.History[0].IP != "10.0.0.1" {
		t.Errorf("History = %+v", d.History)
	}
}

func TestStore_ExpiresIdleSessions(t *testing.T) {
	st := NewStore(time.Minute, 0)
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	st.now = func() time.Time { return now }

	idle := st.Create()
	active := st.Create()

	now = now.Add(45 * time.Second)
	if _, ok := st.Get(active.ID); !ok {
		t.Fatal("active session missing")
	}

	now = now.Add(30 * time.Second)
	if n := st.Sweep(); n != 1 {
		t.Errorf("Sweep() = %d, want 1", n)
	}
	if _, ok := st.Get(idle.ID); ok {
		t.Error("idle session still present")
	}
	if _, ok := st.Get(active.ID); !ok {
		t.Error("active session was removed")
	}
}

func TestStore_GetUnknown(t *testing.T) {
	st := NewStore(time.Minute, 0)
	if _, ok := st.Get("nope"); ok {
		t.Error("Get() found an unknown session")
	}
	s := st.Create()
	st.Delete(s.ID)
	if st.Len() != 0 {
		t.Errorf("Len() = %d after Delete", st.Len())
	}
}

func TestStore_JanitorStops(t *testing.T) {
	st := NewStore(time.Nanosecond, 0)
	st.Create()

	ctx, cancel := context.WithCancel(context.Background())
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		st.StartJanitor(ctx, 5*time.Millisecond)
	}()

	deadline := time.Now().Add(2 * time.Second)
	for st.Len() > 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	cancel()
	wg.Wait()

	if st.Len() != 0 {
		t.Errorf("Len() = %d, janitor did not sweep", st.Len())
	}
}

func TestSession_SerializedAccess(t *testing.T) {
	s := NewStore(time.Hour, 0).Create()
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.Lock()
			defer s.Unlock()
			s.Remap = append(s.Remap, RemapEntry{From: "a", To: "b"})
		}()
	}
	wg.Wait()
	if len(s.Remap) != 20 {
		t.Errorf("len(Remap) = %d, want 20", len(s.Remap))
	}
}
