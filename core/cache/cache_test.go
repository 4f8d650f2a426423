package cache

import (
	"path/filepath"
	"testing"
)

func TestGetInstanceSingleton(t *testing.T) {
	inst := GetInstance()
	if inst == nil {
		t.Fatal("GetInstance returned nil")
	}
	if GetInstance() != inst {
		t.Error("GetInstance should return the same instance")
	}
}

func TestSetGetDelete(t *testing.T) {
	c := GetInstance()
	c.Set("apps:shop", "ok", 0, nil)
	defer c.Delete("apps:shop")

	got, ok := c.Get("apps:shop")
	if !ok || got != "ok" {
		t.Errorf("Get = %v, %v; want ok, true", got, ok)
	}
	if _, ok := c.Get("apps:missing"); ok {
		t.Error("Get missing key: want false")
	}
	c.Delete("apps:shop")
	if _, ok := c.Get("apps:shop"); ok {
		t.Error("Delete: key should be gone")
	}
}

func TestGetOrDefault(t *testing.T) {
	c := GetInstance()
	if got := c.GetOrDefault("runs:last", "none"); got != "none" {
		t.Errorf("GetOrDefault missing = %v, want none", got)
	}
	c.Set("runs:last", "success", 0, nil)
	defer c.Delete("runs:last")
	if got := c.GetOrDefault("runs:last", "none"); got != "success" {
		t.Errorf("GetOrDefault found = %v, want success", got)
	}
}

func TestCompositeKeys(t *testing.T) {
	c := GetInstance()
	c.SetN([]interface{}{"mapping", "shop"}, "bound", 0, nil)
	got, ok := c.GetN("mapping", "shop")
	if !ok || got != "bound" {
		t.Errorf("GetN = %v, %v; want bound, true", got, ok)
	}
	c.DeleteN("mapping", "shop")
	if _, ok := c.GetN("mapping", "shop"); ok {
		t.Error("DeleteN: key should be gone")
	}
}

func TestGetManyDeleteMany(t *testing.T) {
	c := GetInstance()
	c.Set("feed:1", "a", 0, nil)
	c.Set("feed:2", "b", 0, nil)

	results := c.GetMany("feed:1", "feed:2", "feed:missing")
	if len(results) != 3 {
		t.Fatalf("GetMany len = %d, want 3", len(results))
	}
	if results[0] != "a" || results[1] != "b" || results[2] != nil {
		t.Errorf("GetMany = %v, want [a b <nil>]", results)
	}

	c.DeleteMany("feed:1", "feed:2")
	if _, ok := c.Get("feed:1"); ok {
		t.Error("DeleteMany: feed:1 should be gone")
	}
	if _, ok := c.Get("feed:2"); ok {
		t.Error("DeleteMany: feed:2 should be gone")
	}
}

func TestTags(t *testing.T) {
	c := GetInstance()
	c.Set("apps:one", 1, 0, []string{"apps"})
	c.Set("apps:two", 2, 0, []string{"apps"})

	if keys := c.GetKeysByTag("apps"); len(keys) != 2 {
		t.Errorf("GetKeysByTag = %d keys, want 2", len(keys))
	}

	c.DeleteByTag("apps")
	if _, ok := c.Get("apps:one"); ok {
		t.Error("DeleteByTag: apps:one should be gone")
	}
	if _, ok := c.Get("apps:two"); ok {
		t.Error("DeleteByTag: apps:two should be gone")
	}
}

func TestDeleteDropsTagIndex(t *testing.T) {
	c := GetInstance()
	c.Set("apps:three", 3, 0, []string{"apps-del"})
	c.Delete("apps:three")
	if keys := c.GetKeysByTag("apps-del"); len(keys) != 0 {
		t.Errorf("GetKeysByTag after Delete = %d keys, want 0", len(keys))
	}
}

func TestDumpRestore(t *testing.T) {
	c := GetInstance()
	c.Set("dump:feed", "rows", 0, nil)
	defer c.Delete("dump:feed")

	tmp := filepath.Join(t.TempDir(), "cache.json")
	if err := c.DumpToFile(tmp); err != nil {
		t.Fatalf("DumpToFile: %v", err)
	}

	c.Delete("dump:feed")
	if err := c.RestoreFromFile(tmp); err != nil {
		t.Fatalf("RestoreFromFile: %v", err)
	}
	got, ok := c.Get("dump:feed")
	if !ok || got != "rows" {
		t.Errorf("after restore Get = %v, %v; want rows, true", got, ok)
	}

	if err := c.RestoreFromFile("/nonexistent/path/cache.json"); err == nil {
		t.Error("RestoreFromFile missing file: want error")
	}
}
