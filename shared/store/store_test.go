package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"HotspotVision/shared/hotspot"
)

func openTemp(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "data", "hotspots.db"))
	if err != nil {
		t.Fatalf("Open falhou: %v", err)
	}
	t.Cleanup(s.Close)
	return s
}

func writeFile(t *testing.T, dir, rel, text string) {
	t.Helper()
	path := filepath.Join(dir, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(text), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestPutAndFetchTimeline(t *testing.T) {
	s := openTemp(t)
	tl := hotspot.ParseTimelineString("0#NaN#NaN#NaN\n1#0#0#0\n2#10#0#0\n")

	if err := s.PutTimeline("./tl/ball.txt", tl, 1); err != nil {
		t.Fatal(err)
	}

	text, err := s.Fetch(context.Background(), "tl/ball.txt")
	if err != nil {
		t.Fatal(err)
	}
	if text != tl.Format() {
		t.Errorf("Fetch = %q", text)
	}

	got, err := s.Timeline(context.Background(), "tl/ball.txt")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 3 || got[0].Visible() || got[2].Position[0] != 10 {
		t.Errorf("Timeline = %v", got)
	}

	if _, err := s.Fetch(context.Background(), "nada.txt"); !errors.Is(err, ErrNotFound) {
		t.Errorf("esperado ErrNotFound, obtido %v", err)
	}
}

func TestPutTimelineRecordsLastInstantTime(t *testing.T) {
	s := openTemp(t)
	tl := hotspot.ParseTimelineString("1.5#0#0#0\n4#1#1#1\n")
	if err := s.PutTimeline("tarde.txt", tl, 1); err != nil {
		t.Fatal(err)
	}

	m, err := s.model(context.Background(), "tarde.txt")
	if err != nil {
		t.Fatal(err)
	}
	if m.Instants != 2 || m.Duration != 4 {
		t.Errorf("Instants = %d, Duration = %v; esperado 2, 4", m.Instants, m.Duration)
	}
}

func TestStoreAsDataSource(t *testing.T) {
	s := openTemp(t)
	_ = s.PutTimeline("a.txt", hotspot.ParseTimelineString("0#1#1#1"), 1)

	var src hotspot.DataSource = s
	text, err := src.Fetch(context.Background(), "a.txt")
	if err != nil || text != "0#1#1#1\n" {
		t.Errorf("Fetch = %q, %v", text, err)
	}
}

func TestImportDirSkipsUnchanged(t *testing.T) {
	s := openTemp(t)
	dir := t.TempDir()
	writeFile(t, dir, "a.txt", "0#0#0#0\n1#1#1#1\n")
	writeFile(t, dir, "sub/b.txt", "0#NaN#NaN#NaN\n")
	writeFile(t, dir, "notes.md", "não é timeline")

	n, err := s.ImportDir(context.Background(), dir, 2)
	if err != nil || n != 2 {
		t.Fatalf("ImportDir = %d, %v", n, err)
	}

	paths, err := s.Paths()
	if err != nil {
		t.Fatal(err)
	}
	if want := []string{"a.txt", "sub/b.txt"}; !reflect.DeepEqual(paths, want) {
		t.Errorf("Paths = %v, esperado %v", paths, want)
	}

	n, err = s.ImportDir(context.Background(), dir, 2)
	if err != nil || n != 0 {
		t.Errorf("reimportação sem mudanças = %d, %v", n, err)
	}

	writeFile(t, dir, "a.txt", "0#5#5#5\n")
	future := time.Now().Add(time.Hour)
	if err := os.Chtimes(filepath.Join(dir, "a.txt"), future, future); err != nil {
		t.Fatal(err)
	}
	n, err = s.ImportDir(context.Background(), dir, 2)
	if err != nil || n != 1 {
		t.Errorf("reimportação após alteração = %d, %v", n, err)
	}
	text, _ := s.Fetch(context.Background(), "a.txt")
	if text != "0#5#5#5\n" {
		t.Errorf("conteúdo não atualizado: %q", text)
	}
}

func TestEventsAndCounts(t *testing.T) {
	s := openTemp(t)
	_ = s.PutTimeline("a.txt", hotspot.ParseTimelineString("0#0#0#0"), 1)

	for _, ev := range []string{"click", "mouseover", "dblclick"} {
		if err := s.SaveEvent(&EventModel{Key: "door", Event: ev, VideoTime: 1.5}); err != nil {
			t.Fatal(err)
		}
	}

	timelines, events, err := s.Counts()
	if err != nil || timelines != 1 || events != 3 {
		t.Errorf("Counts = %d, %d, %v", timelines, events, err)
	}

	recent, err := s.RecentEvents(2)
	if err != nil {
		t.Fatal(err)
	}
	if len(recent) != 2 || recent[0].Event != "dblclick" || recent[1].Event != "mouseover" {
		t.Errorf("RecentEvents = %+v", recent)
	}
}
