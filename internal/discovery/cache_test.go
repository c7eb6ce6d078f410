package discovery

import (
	"context"
	"errors"
	"reflect"
	"testing"
)

// fakeSource counts enumerations and serves a mutable entry-point view.
type fakeSource struct {
	points map[string][]string
	err    error
	calls  int
}

func (f *fakeSource) EntryPoints(ctx context.Context, groups []string) (map[string][]string, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	out := make(map[string][]string, len(f.points))
	for g, eps := range f.points {
		out[g] = append([]string(nil), eps...)
	}
	return out, nil
}

func TestEntryPointsMemoized(t *testing.T) {
	source := &fakeSource{points: map[string][]string{
		"vllm.general_plugins": {"a = pkg_a:register"},
	}}
	cache := NewCache(source, []string{"vllm.general_plugins"})

	first, err := cache.EntryPoints(context.Background())
	if err != nil {
		t.Fatalf("EntryPoints: %v", err)
	}
	if _, err := cache.EntryPoints(context.Background()); err != nil {
		t.Fatalf("EntryPoints: %v", err)
	}
	if source.calls != 1 {
		t.Errorf("source enumerated %d times, want 1 (memoized)", source.calls)
	}
	if !reflect.DeepEqual(first, source.points) {
		t.Errorf("points = %v, want %v", first, source.points)
	}
}

func TestInvalidateForcesRecompute(t *testing.T) {
	source := &fakeSource{points: map[string][]string{"g": {"a = x:y"}}}
	cache := NewCache(source, []string{"g"})

	if _, err := cache.EntryPoints(context.Background()); err != nil {
		t.Fatal(err)
	}

	source.points["g"] = append(source.points["g"], "b = x:z")
	cache.Invalidate()
	cache.Invalidate() // repeated invalidation is a no-op

	points, err := cache.EntryPoints(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(points["g"]) != 2 {
		t.Errorf("got %v, want recomputed view with 2 entry points", points["g"])
	}
	if source.calls != 2 {
		t.Errorf("source enumerated %d times, want 2", source.calls)
	}
}

func TestCallerCannotMutateMemo(t *testing.T) {
	source := &fakeSource{points: map[string][]string{"g": {"a = x:y"}}}
	cache := NewCache(source, []string{"g"})

	points, err := cache.EntryPoints(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	points["g"][0] = "mutated"

	again, err := cache.EntryPoints(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if again["g"][0] != "a = x:y" {
		t.Error("memo was mutated through a returned copy")
	}
}

func TestNewSince(t *testing.T) {
	source := &fakeSource{points: map[string][]string{
		"g": {"a = x:y"},
	}}
	cache := NewCache(source, []string{"g"})

	if err := cache.TakeSnapshot(context.Background()); err != nil {
		t.Fatalf("TakeSnapshot: %v", err)
	}

	source.points["g"] = []string{"a = x:y", "b = x:z"}
	source.points["h"] = []string{"c = x:w"}
	cache.Invalidate()

	fresh, err := cache.NewSince(context.Background())
	if err != nil {
		t.Fatalf("NewSince: %v", err)
	}
	want := map[string][]string{
		"g": {"b = x:z"},
		"h": {"c = x:w"},
	}
	if !reflect.DeepEqual(fresh, want) {
		t.Errorf("NewSince = %v, want %v", fresh, want)
	}
}

func TestNewSinceNothingNew(t *testing.T) {
	source := &fakeSource{points: map[string][]string{"g": {"a = x:y"}}}
	cache := NewCache(source, []string{"g"})

	if err := cache.TakeSnapshot(context.Background()); err != nil {
		t.Fatal(err)
	}
	fresh, err := cache.NewSince(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(fresh) != 0 {
		t.Errorf("NewSince = %v, want empty", fresh)
	}
}

func TestEntryPointsSourceError(t *testing.T) {
	source := &fakeSource{err: errors.New("interpreter exploded")}
	cache := NewCache(source, []string{"g"})

	if _, err := cache.EntryPoints(context.Background()); err == nil {
		t.Fatal("expected error from source")
	}
}
