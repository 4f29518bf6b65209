package core

import (
	"context"
	"strings"
	"testing"

	"lockbox/internal/store"
)

type fakeStore struct {
	secrets map[string]string
	creates int
	reads   []string
}

func newFakeStore(seed map[string]string) *fakeStore {
	secrets := map[string]string{}
	for k, v := range seed {
		secrets[k] = v
	}
	return &fakeStore{secrets: secrets}
}

func (f *fakeStore) Create(ctx context.Context, key, secret string) error {
	f.creates++
	if _, ok := f.secrets[key]; ok {
		return store.ErrExists
	}
	f.secrets[key] = secret
	return nil
}

func (f *fakeStore) Read(ctx context.Context, key string) (string, error) {
	f.reads = append(f.reads, key)
	secret, ok := f.secrets[key]
	if !ok {
		return "", store.ErrNotFound
	}
	return secret, nil
}

func (f *fakeStore) Update(ctx context.Context, key, secret string) error {
	if _, ok := f.secrets[key]; !ok {
		return store.ErrNotFound
	}
	f.secrets[key] = secret
	return nil
}

func (f *fakeStore) Delete(ctx context.Context, key string) error {
	if _, ok := f.secrets[key]; !ok {
		return store.ErrNotFound
	}
	delete(f.secrets, key)
	return nil
}

func (f *fakeStore) Close() error { return nil }

func (f *fakeStore) touched() bool {
	return f.creates > 0 || len(f.reads) > 0
}

func grantGate() *Gate {
	return NewGate(&fakeAuth{supported: true, outcome: Outcome{Granted: true}})
}

func TestRunSetSuccess(t *testing.T) {
	st := newFakeStore(nil)
	d := NewDispatcher(grantGate(), st)
	rep := d.Run(context.Background(), []string{"set", "db", "p@ss"})
	if rep.ExitCode != 0 {
		t.Fatalf("unexpected exit code %d: %s", rep.ExitCode, rep.Message)
	}
	if rep.Message != "Key db has been successfully set in the keychain" {
		t.Fatalf("unexpected message: %q", rep.Message)
	}
	if st.creates != 1 || st.secrets["db"] != "p@ss" {
		t.Fatalf("store not written as expected: %#v", st)
	}
}

func TestRunSetExistingKey(t *testing.T) {
	st := newFakeStore(map[string]string{"db": "old"})
	rep := NewDispatcher(grantGate(), st).Run(context.Background(), []string{"set", "db", "new"})
	if rep.ExitCode == 0 {
		t.Fatalf("expected failure on duplicate set")
	}
	if st.secrets["db"] != "old" {
		t.Fatalf("existing secret must not be replaced")
	}
}

func TestRunSetWithoutSecret(t *testing.T) {
	st := newFakeStore(nil)
	rep := NewDispatcher(grantGate(), st).Run(context.Background(), []string{"set", "db"})
	if rep.ExitCode == 0 {
		t.Fatalf("expected failure for empty secret")
	}
	if st.touched() {
		t.Fatalf("store must not be called for empty secret")
	}
}

func TestRunGetRoundTrip(t *testing.T) {
	st := newFakeStore(nil)
	d := NewDispatcher(grantGate(), st)
	if rep := d.Run(context.Background(), []string{"set", "db", "abc"}); rep.ExitCode != 0 {
		t.Fatalf("set failed: %s", rep.Message)
	}
	rep := d.Run(context.Background(), []string{"get", "db"})
	if rep.ExitCode != 0 {
		t.Fatalf("get failed: %s", rep.Message)
	}
	if rep.Message != "abc" {
		t.Fatalf("secret must be printed verbatim, got %q", rep.Message)
	}
}

func TestRunUpdateMissingKey(t *testing.T) {
	st := newFakeStore(nil)
	rep := NewDispatcher(grantGate(), st).Run(context.Background(), []string{"update", "missing-key", "x"})
	if rep.ExitCode == 0 {
		t.Fatalf("expected failure for missing key")
	}
	if !strings.Contains(rep.Message, "does not exist") || !strings.Contains(rep.Message, "set") {
		t.Fatalf("message must point the caller to set: %q", rep.Message)
	}
}

func TestRunDeleteIdempotence(t *testing.T) {
	st := newFakeStore(map[string]string{"db": "x"})
	d := NewDispatcher(grantGate(), st)
	if rep := d.Run(context.Background(), []string{"delete", "db"}); rep.ExitCode != 0 {
		t.Fatalf("first delete failed: %s", rep.Message)
	}
	if rep := d.Run(context.Background(), []string{"delete", "db"}); rep.ExitCode == 0 {
		t.Fatalf("second delete must fail")
	}
}

func TestRunGetManyAllResolved(t *testing.T) {
	st := newFakeStore(map[string]string{"a": "1", "b": "2"})
	rep := NewDispatcher(grantGate(), st).Run(context.Background(), []string{"get-many", "a", "b"})
	if rep.ExitCode != 0 {
		t.Fatalf("unexpected failure: %s", rep.Message)
	}
	if rep.Message != "a=1\nb=2" {
		t.Fatalf("unexpected batch output: %q", rep.Message)
	}
}

func TestRunGetManyAbortsOnFirstMiss(t *testing.T) {
	st := newFakeStore(map[string]string{"a": "1", "c": "3"})
	rep := NewDispatcher(grantGate(), st).Run(context.Background(), []string{"get-many", "a", "b", "c"})
	if rep.ExitCode == 0 {
		t.Fatalf("expected failure for missing key")
	}
	if strings.Contains(rep.Message, "a=1") {
		t.Fatalf("resolved keys must not leak on failure: %q", rep.Message)
	}
	if !strings.Contains(rep.Message, "b") {
		t.Fatalf("missing key must be named: %q", rep.Message)
	}
	if len(st.reads) != 2 {
		t.Fatalf("keys after the miss must not be looked up, reads: %v", st.reads)
	}
}

func TestRunDeniedSkipsStore(t *testing.T) {
	st := newFakeStore(map[string]string{"db": "x"})
	gate := NewGate(&fakeAuth{supported: true, outcome: Outcome{Message: "user pressed cancel"}})
	rep := NewDispatcher(gate, st).Run(context.Background(), []string{"get", "db"})
	if rep.ExitCode == 0 {
		t.Fatalf("expected failure on denied auth")
	}
	if rep.Message != "authentication failed or was canceled: user pressed cancel" {
		t.Fatalf("unexpected message: %q", rep.Message)
	}
	if st.touched() {
		t.Fatalf("store must not be touched after denial")
	}
}

func TestRunUnsupportedSkipsStore(t *testing.T) {
	st := newFakeStore(nil)
	gate := NewGate(&fakeAuth{supported: false})
	rep := NewDispatcher(gate, st).Run(context.Background(), []string{"set", "db", "x"})
	if rep.ExitCode == 0 {
		t.Fatalf("expected failure when unsupported")
	}
	if !strings.Contains(rep.Message, "does not support authentication") {
		t.Fatalf("unexpected message: %q", rep.Message)
	}
	if st.touched() {
		t.Fatalf("store must not be touched when unsupported")
	}
}

func TestRunValidationSkipsAuth(t *testing.T) {
	st := newFakeStore(nil)
	fa := &fakeAuth{supported: true, outcome: Outcome{Granted: true}}
	rep := NewDispatcher(NewGate(fa), st).Run(context.Background(), nil)
	if rep.ExitCode == 0 {
		t.Fatalf("expected failure for empty input")
	}
	if !strings.Contains(rep.Message, "usage:") {
		t.Fatalf("usage hint expected: %q", rep.Message)
	}
	if fa.challenges != 0 {
		t.Fatalf("no authentication may be attempted on invalid input")
	}
	if st.touched() {
		t.Fatalf("store must not be touched on invalid input")
	}
}
