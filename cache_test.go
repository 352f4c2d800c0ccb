package depcache

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	cd "github.com/unkn0wn-root/depcache/codec"
	dep "github.com/unkn0wn-root/depcache/dependency"
	"github.com/unkn0wn-root/depcache/store/memory"
)

type user struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// recordingStore wraps the memory store and captures write parameters so
// tests can assert what actually reached the backend.
type recordingStore struct {
	*memory.Store
	lastSetKey   string
	lastSetTTL   time.Duration
	lastMultiTTL time.Duration
	rejectSets   bool
}

func newRecordingStore() *recordingStore {
	return &recordingStore{Store: memory.New()}
}

func (r *recordingStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) (bool, error) {
	r.lastSetKey, r.lastSetTTL = key, ttl
	if r.rejectSets {
		return false, nil
	}
	return r.Store.Set(ctx, key, value, ttl)
}

func (r *recordingStore) SetMulti(ctx context.Context, items map[string][]byte, ttl time.Duration) (bool, error) {
	r.lastMultiTTL = ttl
	if r.rejectSets {
		return false, nil
	}
	return r.Store.SetMulti(ctx, items, ttl)
}

func newTestCache(t *testing.T, st Store, optsOpt func(*Options[user])) Cache[user] {
	t.Helper()
	opts := Options[user]{
		Store: st,
		Codec: cd.JSON[user]{},
	}
	if optsOpt != nil {
		optsOpt(&opts)
	}
	cc, err := New[user](opts)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return cc
}

func md5hex(s string) string {
	sum := md5.Sum([]byte(s))
	return hex.EncodeToString(sum[:])
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// ==============================
// Construction / configuration
// ==============================

func TestNewRejectsBadConfig(t *testing.T) {
	if _, err := New[user](Options[user]{Codec: cd.JSON[user]{}}); err == nil {
		t.Fatalf("expected error without store")
	}
	if _, err := New[user](Options[user]{Store: memory.New()}); err == nil {
		t.Fatalf("expected error without codec")
	}

	_, err := New[user](Options[user]{
		Store:     memory.New(),
		Codec:     cd.JSON[user]{},
		KeyPrefix: "app_", // underscore is not alphanumeric
	})
	if err == nil {
		t.Fatalf("expected error for non-alphanumeric prefix")
	}
	var ce *InvalidConfigError
	if !errors.As(err, &ce) || ce.Option != "KeyPrefix" {
		t.Fatalf("expected InvalidConfigError for KeyPrefix, got %T: %v", err, err)
	}

	// empty prefix is the documented default and must pass
	if _, err := New[user](Options[user]{Store: memory.New(), Codec: cd.JSON[user]{}}); err != nil {
		t.Fatalf("empty prefix rejected: %v", err)
	}
}

// ==============================
// Key building
// ==============================

func TestBuildKeyScenario(t *testing.T) {
	cc := newTestCache(t, memory.New(), func(o *Options[user]) { o.KeyPrefix = "app" })

	// short alphanumeric key passes through under the prefix
	k, err := cc.BuildKey("abc")
	if err != nil {
		t.Fatalf("BuildKey: %v", err)
	}
	if k != "appabc" {
		t.Fatalf("BuildKey(abc) = %q, want appabc", k)
	}

	// composite key collapses to prefix + 32-hex digest of its canonical form
	k, err = cc.BuildKey(map[string]int{"b": 2, "a": 1})
	if err != nil {
		t.Fatalf("BuildKey composite: %v", err)
	}
	want := "app" + md5hex(`{"a":1,"b":2}`)
	if k != want {
		t.Fatalf("BuildKey(composite) = %q, want %q", k, want)
	}
	if len(k) != len("app")+32 {
		t.Fatalf("digest portion should be 32 chars, got %d", len(k)-len("app"))
	}

	// equal raw keys always build the same storage key
	k2, _ := cc.BuildKey(map[string]int{"a": 1, "b": 2})
	if k2 != k {
		t.Fatalf("equal composite keys built differently: %q vs %q", k2, k)
	}
}

func TestBuildKeyInvalidComposite(t *testing.T) {
	cc := newTestCache(t, memory.New(), nil)

	cyclic := map[string]any{}
	cyclic["self"] = cyclic
	_, err := cc.BuildKey(cyclic)
	if err == nil {
		t.Fatalf("expected error for cyclic key")
	}
	var ke *InvalidKeyError
	if !errors.As(err, &ke) {
		t.Fatalf("expected InvalidKeyError, got %T: %v", err, err)
	}

	// Error() must be callable on the cyclic key itself: formatting the key
	// value would recurse forever, so the message carries only its type.
	msg := err.Error()
	if !strings.Contains(msg, "invalid key") || !strings.Contains(msg, "map[string]interface {}") {
		t.Fatalf("unexpected error message: %q", msg)
	}
	if ke.Unwrap() == nil {
		t.Fatalf("cause lost from InvalidKeyError")
	}

	// the error propagates through operations too
	if _, _, err := cc.Get(context.Background(), cyclic); err == nil {
		t.Fatalf("Get with cyclic key should fail")
	}
}

func TestKeyNormalizationToggle(t *testing.T) {
	ctx := context.Background()
	rs := newRecordingStore()
	cc := newTestCache(t, rs, func(o *Options[user]) {
		o.KeyPrefix = "ns"
		o.DisableKeyNormalization = true
	})

	if _, err := cc.Set(ctx, "user:1", user{ID: "1"}, 0, nil); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if rs.lastSetKey != "nsuser:1" {
		t.Fatalf("normalization disabled but store saw %q", rs.lastSetKey)
	}

	// re-enabling takes effect for subsequent calls only
	cc.SetKeyNormalization(true)
	if _, err := cc.Set(ctx, "user:1", user{ID: "1"}, 0, nil); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if want := "ns" + md5hex("user:1"); rs.lastSetKey != want {
		t.Fatalf("normalization enabled but store saw %q, want %q", rs.lastSetKey, want)
	}
}

// ==============================
// TTL resolution
// ==============================

func TestTTLResolution(t *testing.T) {
	ctx := context.Background()
	rs := newRecordingStore()
	cc := newTestCache(t, rs, func(o *Options[user]) {
		o.DefaultTTL = 60 * time.Second
	})

	// unset TTL inherits the default
	if _, err := cc.Set(ctx, "k", user{}, 0, nil); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if rs.lastSetTTL != 60*time.Second {
		t.Fatalf("store received ttl=%v, want 60s default", rs.lastSetTTL)
	}

	// explicit TTL wins over the default
	if _, err := cc.Set(ctx, "k", user{}, time.Minute*5, nil); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if rs.lastSetTTL != 5*time.Minute {
		t.Fatalf("store received ttl=%v, want explicit 5m", rs.lastSetTTL)
	}

	// negative TTL is forwarded untouched (store: delete/never store)
	if _, err := cc.Set(ctx, "k", user{}, -1, nil); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if rs.lastSetTTL != -1 {
		t.Fatalf("store received ttl=%v, want -1 forwarded", rs.lastSetTTL)
	}
	if ok, _ := cc.Has(ctx, "k"); ok {
		t.Fatalf("negative TTL should have removed the entry")
	}

	// setter replaces the default for later writes
	cc.SetDefaultTTL(time.Second)
	if _, err := cc.Set(ctx, "k", user{}, 0, nil); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if rs.lastSetTTL != time.Second {
		t.Fatalf("store received ttl=%v after SetDefaultTTL(1s)", rs.lastSetTTL)
	}

	// multi writes resolve the same way
	if _, err := cc.SetMulti(ctx, map[string]user{"a": {}, "b": {}}, 0, nil); err != nil {
		t.Fatalf("SetMulti: %v", err)
	}
	if rs.lastMultiTTL != time.Second {
		t.Fatalf("SetMulti forwarded ttl=%v, want 1s default", rs.lastMultiTTL)
	}
}

// ==============================
// Single get/set/add/delete
// ==============================

func TestGetSetRoundTrip(t *testing.T) {
	ctx := context.Background()
	cc := newTestCache(t, memory.New(), nil)

	k := "u:1"
	v := user{ID: "1", Name: "Ada"}

	if _, ok, err := cc.Get(ctx, k); err != nil || ok {
		t.Fatalf("expected initial miss, ok=%v err=%v", ok, err)
	}
	if ok, err := cc.Set(ctx, k, v, 0, nil); err != nil || !ok {
		t.Fatalf("Set: ok=%v err=%v", ok, err)
	}
	if got, ok, err := cc.Get(ctx, k); err != nil || !ok || got != v {
		t.Fatalf("Get after set: ok=%v err=%v got=%v", ok, err, got)
	}

	// integer raw keys work the same way
	if ok, err := cc.Set(ctx, 42, v, 0, nil); err != nil || !ok {
		t.Fatalf("Set(int): ok=%v err=%v", ok, err)
	}
	if got, ok, _ := cc.Get(ctx, 42); !ok || got != v {
		t.Fatalf("Get(int) failed: ok=%v got=%v", ok, got)
	}

	if ok, err := cc.Delete(ctx, k); err != nil || !ok {
		t.Fatalf("Delete: ok=%v err=%v", ok, err)
	}
	if _, ok, _ := cc.Get(ctx, k); ok {
		t.Fatalf("expected miss after delete")
	}
}

func TestAddSemantics(t *testing.T) {
	ctx := context.Background()
	cc := newTestCache(t, memory.New(), nil)

	orig := user{ID: "1", Name: "first"}
	if ok, err := cc.Add(ctx, "k", orig, 0, nil); err != nil || !ok {
		t.Fatalf("Add on absent key: ok=%v err=%v", ok, err)
	}

	// second Add is a no-op returning false; value stays
	if ok, err := cc.Add(ctx, "k", user{ID: "2", Name: "second"}, 0, nil); err != nil || ok {
		t.Fatalf("Add on existing key: ok=%v err=%v", ok, err)
	}
	if got, _, _ := cc.Get(ctx, "k"); got != orig {
		t.Fatalf("Add overwrote existing value: %v", got)
	}
}

func TestClear(t *testing.T) {
	ctx := context.Background()
	cc := newTestCache(t, memory.New(), nil)

	for _, k := range []string{"a", "b", "c"} {
		if _, err := cc.Set(ctx, k, user{ID: k}, 0, nil); err != nil {
			t.Fatalf("Set: %v", err)
		}
	}
	if ok, err := cc.Clear(ctx); err != nil || !ok {
		t.Fatalf("Clear: ok=%v err=%v", ok, err)
	}
	for _, k := range []string{"a", "b", "c"} {
		if _, ok, _ := cc.Get(ctx, k); ok {
			t.Fatalf("entry %q survived Clear", k)
		}
	}
}

// ==============================
// Multi operations
// ==============================

func TestGetMultiRestoresRawKeys(t *testing.T) {
	ctx := context.Background()
	cc := newTestCache(t, memory.New(), func(o *Options[user]) { o.KeyPrefix = "app" })

	// mix of pass-through and digested raw keys
	items := map[string]user{
		"alpha":  {ID: "a"},
		"user:7": {ID: "7"}, // colon forces hashing
		"beta":   {ID: "b"},
	}
	if ok, err := cc.SetMulti(ctx, items, 0, nil); err != nil || !ok {
		t.Fatalf("SetMulti: ok=%v err=%v", ok, err)
	}

	got, err := cc.GetMulti(ctx, []string{"alpha", "user:7", "beta", "missing"})
	if err != nil {
		t.Fatalf("GetMulti: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 hits, got %v", got)
	}
	for rk, want := range items {
		if got[rk] != want {
			t.Fatalf("raw key %q not restored correctly: %v", rk, got[rk])
		}
	}
	if _, ok := got["missing"]; ok {
		t.Fatalf("missing key present in result")
	}
}

func TestGetMultiDuplicateKeys(t *testing.T) {
	ctx := context.Background()
	cc := newTestCache(t, memory.New(), nil)

	if _, err := cc.Set(ctx, "dup", user{ID: "d"}, 0, nil); err != nil {
		t.Fatalf("Set: %v", err)
	}
	got, err := cc.GetMulti(ctx, []string{"dup", "dup"})
	if err != nil {
		t.Fatalf("GetMulti: %v", err)
	}
	if len(got) != 1 || got["dup"].ID != "d" {
		t.Fatalf("duplicate request keys mishandled: %v", got)
	}
}

func TestDeleteMulti(t *testing.T) {
	ctx := context.Background()
	cc := newTestCache(t, memory.New(), nil)

	if _, err := cc.SetMulti(ctx, map[string]user{"a": {}, "b": {}, "keep": {}}, 0, nil); err != nil {
		t.Fatalf("SetMulti: %v", err)
	}
	if ok, err := cc.DeleteMulti(ctx, []string{"a", "b"}); err != nil || !ok {
		t.Fatalf("DeleteMulti: ok=%v err=%v", ok, err)
	}
	if _, ok, _ := cc.Get(ctx, "a"); ok {
		t.Fatalf("'a' survived DeleteMulti")
	}
	if _, ok, _ := cc.Get(ctx, "keep"); !ok {
		t.Fatalf("'keep' was deleted")
	}
}

func TestSetMultiCollidingKeysCollapse(t *testing.T) {
	ctx := context.Background()
	ms := memory.New()
	cc := newTestCache(t, ms, nil)

	// a 32-hex raw key passes through as-is, so it collides with the raw key
	// whose digest it is
	k1 := "user:1"
	k2 := md5hex("user:1")

	ok, err := cc.SetMulti(ctx, map[string]user{
		k1: {ID: "raw"},
		k2: {ID: "digest"},
	}, 0, nil)
	if err != nil || !ok {
		t.Fatalf("SetMulti: ok=%v err=%v", ok, err)
	}
	if ms.Len() != 1 {
		t.Fatalf("colliding keys stored %d entries, want 1", ms.Len())
	}
	// which value survived is unspecified, but both raw keys read it
	got, ok, err := cc.Get(ctx, k1)
	if err != nil || !ok {
		t.Fatalf("Get: ok=%v err=%v", ok, err)
	}
	if got.ID != "raw" && got.ID != "digest" {
		t.Fatalf("surviving value came from neither input: %v", got)
	}
	if got2, ok, _ := cc.Get(ctx, k2); !ok || got2 != got {
		t.Fatalf("colliding raw keys read different values: %v vs %v", got, got2)
	}
}

func TestAddMultiSkipsExisting(t *testing.T) {
	ctx := context.Background()
	cc := newTestCache(t, memory.New(), nil)

	kept := user{ID: "old"}
	if _, err := cc.Set(ctx, "exists", kept, 0, nil); err != nil {
		t.Fatalf("Set: %v", err)
	}

	ok, err := cc.AddMulti(ctx, map[string]user{
		"exists": {ID: "new"},
		"fresh":  {ID: "fresh"},
	}, 0, nil)
	if err != nil || !ok {
		t.Fatalf("AddMulti: ok=%v err=%v", ok, err)
	}

	// present key silently skipped, absent key written
	if got, _, _ := cc.Get(ctx, "exists"); got != kept {
		t.Fatalf("AddMulti overwrote existing entry: %v", got)
	}
	if got, ok, _ := cc.Get(ctx, "fresh"); !ok || got.ID != "fresh" {
		t.Fatalf("AddMulti did not write fresh entry: ok=%v got=%v", ok, got)
	}

	// all keys existing -> nothing to write, still reports success
	if ok, err := cc.AddMulti(ctx, map[string]user{"exists": {ID: "x"}}, 0, nil); err != nil || !ok {
		t.Fatalf("AddMulti all-existing: ok=%v err=%v", ok, err)
	}
}

// ==============================
// Dependency behavior
// ==============================

func TestDependencyInvalidationOnGet(t *testing.T) {
	ctx := context.Background()
	cc := newTestCache(t, memory.New(), nil)

	path := filepath.Join(t.TempDir(), "source.txt")
	writeFile(t, path, "state A")

	v := user{ID: "1", Name: "Ada"}
	if ok, err := cc.Set(ctx, "k", v, 0, dep.NewFileDependency(path)); err != nil || !ok {
		t.Fatalf("Set with dependency: ok=%v err=%v", ok, err)
	}

	// snapshot unchanged -> value served
	if got, ok, err := cc.Get(ctx, "k"); err != nil || !ok || got != v {
		t.Fatalf("Get with fresh dependency: ok=%v err=%v got=%v", ok, err, got)
	}

	// snapshot changed -> treated as absent
	writeFile(t, path, "state B")
	if _, ok, err := cc.Get(ctx, "k"); err != nil || ok {
		t.Fatalf("Get with changed dependency should miss: ok=%v err=%v", ok, err)
	}

	// Has ignores dependency staleness on purpose
	if ok, err := cc.Has(ctx, "k"); err != nil || !ok {
		t.Fatalf("Has should still report true for stale entry: ok=%v err=%v", ok, err)
	}
}

func TestDependencyInvalidationOnGetMulti(t *testing.T) {
	ctx := context.Background()
	cc := newTestCache(t, memory.New(), nil)

	path := filepath.Join(t.TempDir(), "source.txt")
	writeFile(t, path, "v1")

	if ok, err := cc.SetMulti(ctx, map[string]user{
		"a": {ID: "a"},
		"b": {ID: "b"},
	}, 0, dep.NewFileDependency(path)); err != nil || !ok {
		t.Fatalf("SetMulti with dependency: ok=%v err=%v", ok, err)
	}
	if _, err := cc.Set(ctx, "plain", user{ID: "p"}, 0, nil); err != nil {
		t.Fatalf("Set: %v", err)
	}

	got, err := cc.GetMulti(ctx, []string{"a", "b", "plain"})
	if err != nil {
		t.Fatalf("GetMulti: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected all hits before change, got %v", got)
	}

	writeFile(t, path, "v2")
	got, err = cc.GetMulti(ctx, []string{"a", "b", "plain"})
	if err != nil {
		t.Fatalf("GetMulti after change: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("only the plain entry should survive, got %v", got)
	}
	if got["plain"].ID != "p" {
		t.Fatalf("plain entry lost: %v", got)
	}
}

func TestTagDependencyThroughFacade(t *testing.T) {
	ctx := context.Background()
	cc := newTestCache(t, memory.New(), func(o *Options[user]) { o.KeyPrefix = "shop" })

	v := user{ID: "7"}
	if ok, err := cc.Set(ctx, "user7", v, 0, dep.NewTagDependency("users")); err != nil || !ok {
		t.Fatalf("Set with tag dependency: ok=%v err=%v", ok, err)
	}
	if got, ok, _ := cc.Get(ctx, "user7"); !ok || got != v {
		t.Fatalf("tagged entry should be served before invalidation")
	}

	if err := dep.InvalidateTags(ctx, cc, "users"); err != nil {
		t.Fatalf("InvalidateTags: %v", err)
	}
	if _, ok, err := cc.Get(ctx, "user7"); err != nil || ok {
		t.Fatalf("tagged entry should miss after invalidation: ok=%v err=%v", ok, err)
	}
}

// countingDep counts Evaluate calls so batch writes can prove single
// evaluation of a shared dependency.
type countingDep struct {
	Done bool `msgpack:"done"`
}

var countingEvals int

func init() {
	dep.Register("counting", func() dep.Dependency { return &countingDep{} })
}

func (d *countingDep) Kind() string      { return "counting" }
func (d *countingDep) IsEvaluated() bool { return d.Done }

func (d *countingDep) Evaluate(context.Context, dep.KV) error {
	countingEvals++
	d.Done = true
	return nil
}

func (d *countingDep) IsChanged(context.Context, dep.KV) (bool, error) {
	return false, nil
}

func TestSetMultiEvaluatesSharedDependencyOnce(t *testing.T) {
	ctx := context.Background()
	cc := newTestCache(t, memory.New(), nil)

	countingEvals = 0
	d := &countingDep{}
	ok, err := cc.SetMulti(ctx, map[string]user{
		"a": {ID: "a"}, "b": {ID: "b"}, "c": {ID: "c"},
	}, 0, d)
	if err != nil || !ok {
		t.Fatalf("SetMulti: ok=%v err=%v", ok, err)
	}
	if countingEvals != 1 {
		t.Fatalf("shared dependency evaluated %d times, want 1", countingEvals)
	}

	// reusing the already-evaluated instance never re-evaluates
	if _, err := cc.Set(ctx, "d", user{ID: "d"}, 0, d); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if countingEvals != 1 {
		t.Fatalf("reused dependency re-evaluated (%d)", countingEvals)
	}
}

// ==============================
// GetOrSet
// ==============================

func TestGetOrSetComputesOnce(t *testing.T) {
	ctx := context.Background()
	cc := newTestCache(t, memory.New(), nil)

	calls := 0
	compute := func(ctx context.Context, c Cache[user]) (user, error) {
		calls++
		return user{ID: "made", Name: "computed"}, nil
	}

	v, err := cc.GetOrSet(ctx, "cold", compute, 0, nil)
	if err != nil {
		t.Fatalf("GetOrSet cold: %v", err)
	}
	if calls != 1 || v.ID != "made" {
		t.Fatalf("cold GetOrSet: calls=%d v=%v", calls, v)
	}

	v2, err := cc.GetOrSet(ctx, "cold", compute, 0, nil)
	if err != nil {
		t.Fatalf("GetOrSet warm: %v", err)
	}
	if calls != 1 || v2 != v {
		t.Fatalf("warm GetOrSet recomputed: calls=%d v=%v", calls, v2)
	}
}

func TestGetOrSetComputeError(t *testing.T) {
	ctx := context.Background()
	cc := newTestCache(t, memory.New(), nil)

	sentinel := errors.New("upstream down")
	_, err := cc.GetOrSet(ctx, "k", func(context.Context, Cache[user]) (user, error) {
		return user{}, sentinel
	}, 0, nil)
	if !errors.Is(err, sentinel) {
		t.Fatalf("compute error not propagated: %v", err)
	}
	if _, ok, _ := cc.Get(ctx, "k"); ok {
		t.Fatalf("failed compute must not populate cache")
	}
}

func TestGetOrSetWriteRejected(t *testing.T) {
	ctx := context.Background()
	rs := newRecordingStore()
	rs.rejectSets = true
	cc := newTestCache(t, rs, nil)

	_, err := cc.GetOrSet(ctx, "k", func(context.Context, Cache[user]) (user, error) {
		return user{ID: "v"}, nil
	}, 0, nil)
	if err == nil {
		t.Fatalf("expected error when store rejects the write")
	}
	var sf *SetFailedError
	if !errors.As(err, &sf) {
		t.Fatalf("expected SetFailedError, got %T: %v", err, err)
	}
	if sf.Key != "k" {
		t.Fatalf("SetFailedError key = %v", sf.Key)
	}
	if v, ok := sf.Value.(user); !ok || v.ID != "v" {
		t.Fatalf("SetFailedError should carry the computed value, got %v", sf.Value)
	}
}

// ==============================
// Self-heal / corruption
// ==============================

func TestSelfHealOnCorrupt(t *testing.T) {
	ctx := context.Background()
	ms := memory.New()
	cc := newTestCache(t, ms, nil)

	storageKey, err := cc.BuildKey("bad")
	if err != nil {
		t.Fatalf("BuildKey: %v", err)
	}
	// inject foreign bytes directly into the store
	if ok, err := ms.Set(ctx, storageKey, []byte("not-wire-format"), 0); err != nil || !ok {
		t.Fatalf("inject corrupt: ok=%v err=%v", ok, err)
	}

	if _, ok, err := cc.Get(ctx, "bad"); err != nil || ok {
		t.Fatalf("Get on corrupt should miss, ok=%v err=%v", ok, err)
	}
	if _, ok, _ := ms.Get(ctx, storageKey); ok {
		t.Fatalf("corrupt entry was not deleted by self-heal")
	}
}

func TestRawAccessBypassesFraming(t *testing.T) {
	ctx := context.Background()
	cc := newTestCache(t, memory.New(), func(o *Options[user]) { o.KeyPrefix = "raw" })

	if ok, err := cc.SetRaw(ctx, []string{"meta", "cursor"}, []byte{1, 2, 3}, 0); err != nil || !ok {
		t.Fatalf("SetRaw: ok=%v err=%v", ok, err)
	}
	got, ok, err := cc.GetRaw(ctx, []string{"meta", "cursor"})
	if err != nil || !ok {
		t.Fatalf("GetRaw: ok=%v err=%v", ok, err)
	}
	if len(got) != 3 || got[0] != 1 {
		t.Fatalf("raw bytes mangled: %v", got)
	}
}
