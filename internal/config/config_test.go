package config

import "testing"

func TestLoadIncludesRetrievalDefaults(t *testing.T) {
	t.Setenv("GAMES_COLLECTION", "")
	t.Setenv("LESSONS_COLLECTION", "")
	t.Setenv("POSITION_SCAN_SAMPLE", "")
	t.Setenv("RESULT_CACHE_TTL_SECONDS", "")
	t.Setenv("SESSION_CACHE_TTL_SECONDS", "")

	cfg := Load()
	if cfg.GamesCollection != "games" {
		t.Fatalf("expected default games collection, got %q", cfg.GamesCollection)
	}
	if cfg.LessonsCollection != "lessons" {
		t.Fatalf("expected default lessons collection, got %q", cfg.LessonsCollection)
	}
	if cfg.PositionScanSample != 200 {
		t.Fatalf("expected default scan sample 200, got %d", cfg.PositionScanSample)
	}
	if cfg.ResultCacheTTLSeconds != 600 {
		t.Fatalf("expected default result cache ttl 600, got %d", cfg.ResultCacheTTLSeconds)
	}
	if cfg.SessionCacheTTLSeconds != 300 {
		t.Fatalf("expected default session cache ttl 300, got %d", cfg.SessionCacheTTLSeconds)
	}
}

func TestLoadParsesOverrides(t *testing.T) {
	t.Setenv("GAMES_COLLECTION", "games_v2")
	t.Setenv("POSITION_SCAN_SAMPLE", "500")
	t.Setenv("RESULT_CACHE_CAPACITY", "64")
	t.Setenv("SESSION_HISTORY_ENABLED", "false")

	cfg := Load()
	if cfg.GamesCollection != "games_v2" {
		t.Fatalf("expected collection override, got %q", cfg.GamesCollection)
	}
	if cfg.PositionScanSample != 500 {
		t.Fatalf("expected scan sample 500, got %d", cfg.PositionScanSample)
	}
	if cfg.ResultCacheCapacity != 64 {
		t.Fatalf("expected result cache capacity 64, got %d", cfg.ResultCacheCapacity)
	}
	if cfg.SessionHistoryEnabled {
		t.Fatal("expected session history disabled")
	}
}

func TestLoadFallsBackOnBadInt(t *testing.T) {
	t.Setenv("POSITION_SCAN_SAMPLE", "not-a-number")

	cfg := Load()
	if cfg.PositionScanSample != 200 {
		t.Fatalf("expected fallback scan sample 200, got %d", cfg.PositionScanSample)
	}
}
