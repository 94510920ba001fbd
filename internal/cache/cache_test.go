package cache

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
)

func TestResultRoundTrip(t *testing.T) {
	c := New(10)

	c.PutResult("Daft Punk Get Lucky", true)
	ok, found := c.GetResult("daft punk get lucky")
	if !found || !ok {
		t.Errorf("GetResult = (%v, %v), want (true, true) via normalized key", ok, found)
	}

	if _, found := c.GetResult("unknown"); found {
		t.Error("unexpected hit for unknown query")
	}
}

func TestFailureResultStaysFalse(t *testing.T) {
	c := New(10)
	c.PutResult("bad query", false)
	ok, found := c.GetResult("bad query")
	if !found {
		t.Fatal("cached failure not found")
	}
	if ok {
		t.Error("cached failure reported as success")
	}
}

func TestCapacityBound(t *testing.T) {
	c := New(100)
	for i := 0; i < 250; i++ {
		c.PutResult(fmt.Sprintf("query %d", i), true)
	}
	if got := c.Len(); got > 100 {
		t.Errorf("cache holds %d entries, want <= 100", got)
	}
	if got := c.Capacity(); got != 100 {
		t.Errorf("capacity = %d, want 100", got)
	}
}

func TestOverwriteDoesNotEvict(t *testing.T) {
	c := New(2)
	c.PutResult("a", true)
	c.PutResult("b", true)
	c.PutResult("a", false)
	if got := c.Len(); got != 2 {
		t.Errorf("len = %d after overwrite, want 2", got)
	}
	if _, found := c.GetResult("b"); !found {
		t.Error("overwrite of existing key evicted another entry")
	}
}

func TestPathEntryEvictedWhenFileGone(t *testing.T) {
	path := filepath.Join(t.TempDir(), "song.mp3")
	if err := os.WriteFile(path, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	c := New(10)
	c.PutPath("latest_audio_file", path)

	got, found := c.GetPath("latest_audio_file")
	if !found || got != path {
		t.Fatalf("GetPath = (%q, %v), want (%q, true)", got, found, path)
	}

	os.Remove(path)
	if _, found := c.GetPath("latest_audio_file"); found {
		t.Error("hit for a path whose file is gone")
	}
	if c.Len() != 0 {
		t.Errorf("stale path entry not evicted, len = %d", c.Len())
	}
}

func TestResultAndPathKeysAreDistinctKinds(t *testing.T) {
	path := filepath.Join(t.TempDir(), "song.mp3")
	if err := os.WriteFile(path, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	c := New(10)
	c.PutPath("key", path)
	if _, found := c.GetResult("key"); found {
		t.Error("path entry satisfied a result lookup")
	}

	c.PutResult("key2", true)
	if _, found := c.GetPath("key2"); found {
		t.Error("result entry satisfied a path lookup")
	}
}

func TestInvalidateAndClear(t *testing.T) {
	c := New(10)
	c.PutResult("a", true)
	c.PutResult("b", true)

	c.Invalidate("a")
	if _, found := c.GetResult("a"); found {
		t.Error("invalidated entry still present")
	}

	c.Clear()
	if c.Len() != 0 {
		t.Errorf("len = %d after Clear, want 0", c.Len())
	}
}
