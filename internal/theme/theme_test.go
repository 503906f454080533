package theme

import (
	"errors"
	"math"
	"path/filepath"
	"testing"
)

type memStore struct {
	values map[string]string
	err    error
}

func (m *memStore) Get(key string) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	return m.values[key], nil
}

func (m *memStore) Set(key, value string) error {
	if m.err != nil {
		return m.err
	}
	if m.values == nil {
		m.values = map[string]string{}
	}
	m.values[key] = value
	return nil
}

func prefers(dark bool) func() bool { return func() bool { return dark } }

func TestResolveConfig(t *testing.T) {
	cfg := ResolveConfig("sepia", "  ")
	if cfg.DefaultMode != Auto || cfg.StorageKey != DefaultStorageKey {
		t.Fatalf("unexpected config: %+v", cfg)
	}
	cfg = ResolveConfig("dark", " my-key ")
	if cfg.DefaultMode != Dark || cfg.StorageKey != "my-key" {
		t.Fatalf("unexpected config: %+v", cfg)
	}
}

func TestMode_CycleOrder(t *testing.T) {
	if Auto.Next() != Light || Light.Next() != Dark || Dark.Next() != Auto {
		t.Fatal("unexpected cycle order")
	}
	if Mode("bogus").Next() != Auto {
		t.Fatal("unknown modes restart the cycle")
	}
}

func TestNewToggle_InitialModePrecedence(t *testing.T) {
	cfg := ResolveConfig("light", "")

	st := NewToggle(cfg, &memStore{values: map[string]string{DefaultStorageKey: "dark"}}, "light", prefers(false)).State()
	if st.Mode != Dark {
		t.Fatalf("stored value should win, got %v", st.Mode)
	}

	st = NewToggle(cfg, &memStore{values: map[string]string{DefaultStorageKey: "purple"}}, "dark", prefers(false)).State()
	if st.Mode != Dark {
		t.Fatalf("root mode should win over default, got %v", st.Mode)
	}

	st = NewToggle(cfg, &memStore{}, "auto", prefers(false)).State()
	if st.Mode != Light {
		t.Fatalf("auto root mode falls back to the default, got %v", st.Mode)
	}
}

func TestToggle_CyclePersistsAndAnimates(t *testing.T) {
	store := &memStore{}
	tg := NewToggle(ResolveConfig("auto", ""), store, "", prefers(true))
	if st := tg.State(); st.Effective != Dark || st.AriaLabel != "Theme Auto. Activate to switch to Sun." {
		t.Fatalf("unexpected initial state: %+v", st)
	}

	st := tg.Cycle()
	if st.Mode != Light || st.Effective != Light || !st.Animate {
		t.Fatalf("unexpected state after cycle: %+v", st)
	}
	if st.Label != "Theme: Sun" || st.ShortLabel != "Sun" {
		t.Fatalf("unexpected labels: %+v", st)
	}
	if store.values[DefaultStorageKey] != "light" {
		t.Fatalf("mode not persisted: %v", store.values)
	}

	st = tg.Cycle()
	if st.Mode != Dark || !st.Animate {
		t.Fatalf("unexpected state: %+v", st)
	}
	// dark -> auto with a dark system preference keeps the effective theme
	st = tg.Cycle()
	if st.Mode != Auto || st.Effective != Dark || st.Animate {
		t.Fatalf("unexpected state: %+v", st)
	}
}

func TestToggle_StorageFailureIsIgnored(t *testing.T) {
	store := &memStore{err: errors.New("quota exceeded")}
	tg := NewToggle(ResolveConfig("dark", ""), store, "", prefers(false))
	if st := tg.State(); st.Mode != Dark {
		t.Fatalf("unexpected mode: %v", st.Mode)
	}
	if st := tg.Cycle(); st.Mode != Auto {
		t.Fatalf("unexpected mode: %v", st.Mode)
	}
}

func TestToggle_AutoFollowsSystemPreference(t *testing.T) {
	if st := NewToggle(ResolveConfig("auto", ""), nil, "", prefers(true)).State(); st.Effective != Dark {
		t.Fatalf("expected auto on a dark system to be dark, got %v", st.Effective)
	}
	tg := NewToggle(ResolveConfig("auto", ""), nil, "", prefers(true))
	if st := tg.Set(Light); st.Effective != Light || st.Mode != Light {
		t.Fatalf("explicit mode must not follow system: %+v", st)
	}
}

func TestFileStore_PersistsAcrossInstances(t *testing.T) {
	p := filepath.Join(t.TempDir(), "state", "state.yaml")
	if err := (&FileStore{Path: p}).Set("zacharite-theme", "dark"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	got, err := (&FileStore{Path: p}).Get("zacharite-theme")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got != "dark" {
		t.Fatalf("expected dark, got %q", got)
	}
	if v, _ := (&FileStore{Path: p}).Get("missing"); v != "" {
		t.Fatalf("expected empty value, got %q", v)
	}
}

func TestRevealRadius(t *testing.T) {
	got := RevealRadius(30, 40, 100, 80)
	want := math.Hypot(70, 40)
	if math.Abs(got-want) > 1e-9 {
		t.Fatalf("expected %v, got %v", want, got)
	}
}
