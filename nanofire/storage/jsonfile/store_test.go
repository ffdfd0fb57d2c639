package jsonfile_test

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/arthur-debert/nanofire/nanofire"
	"github.com/arthur-debert/nanofire/nanofire/storage/jsonfile"
)

var fixedTime = time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)

func newMockStore(t *testing.T) (*jsonfile.Store, *jsonfile.MockFileSystem, *jsonfile.MockFileLockFactory) {
	t.Helper()
	fs := jsonfile.NewMockFileSystem()
	locks := jsonfile.NewMockFileLockFactory()
	s, err := jsonfile.Open("/data/store.json",
		jsonfile.WithFileSystem(fs),
		jsonfile.WithFileLockFactory(locks),
		jsonfile.WithTimeFunc(func() time.Time { return fixedTime }),
	)
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	return s, fs, locks
}

func TestStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	s, fs, locks := newMockStore(t)

	if fs.FileExists("/data/store.json") {
		t.Fatal("opening must not create the file")
	}

	if err := s.Set(ctx, "people/mike", `{"id":"mike"}`); err != nil {
		t.Fatal(err)
	}
	v, ok, err := s.Get(ctx, "people/mike")
	if err != nil || !ok || v != `{"id":"mike"}` {
		t.Fatalf("unexpected get: %q %v %v", v, ok, err)
	}

	if _, ok, _ := s.Get(ctx, "people/nobody"); ok {
		t.Error("expected missing key to be absent")
	}

	if err := s.Remove(ctx, "people/mike"); err != nil {
		t.Fatal(err)
	}
	if _, ok, _ := s.Get(ctx, "people/mike"); ok {
		t.Error("expected removed key to be absent")
	}
	if err := s.Remove(ctx, "people/mike"); err != nil {
		t.Errorf("removing a missing key must succeed, got %v", err)
	}

	if fs.FileExists("/data/store.json.tmp") {
		t.Error("temp file must be renamed away")
	}
	if lock := locks.GetLock("/data/store.json.lock"); lock == nil || lock.IsLocked() {
		t.Error("lock must be released after each operation")
	}
}

func TestStoreFileFormat(t *testing.T) {
	ctx := context.Background()
	s, fs, _ := newMockStore(t)

	if err := s.Set(ctx, "meta", `["people/mike"]`); err != nil {
		t.Fatal(err)
	}

	content, ok := fs.GetFileContent("/data/store.json")
	if !ok {
		t.Fatal("expected data file")
	}
	for _, want := range []string{`"entries"`, `"meta": "[\"people/mike\"]"`, `"version": "1.0"`, `"updated_at": "2024-01-02T03:04:05Z"`} {
		if !strings.Contains(string(content), want) {
			t.Errorf("expected file to contain %s, got:\n%s", want, content)
		}
	}
	if got := s.Metadata().UpdatedAt; !got.Equal(fixedTime) {
		t.Errorf("unexpected updated_at %v", got)
	}
}

func TestStoreReloadsOnEachOperation(t *testing.T) {
	ctx := context.Background()
	s, fs, _ := newMockStore(t)

	fs.PutFile("/data/store.json", []byte(`{"entries":{"cities/lis":"{}"},"metadata":{"version":"1.0"}}`))

	v, ok, err := s.Get(ctx, "cities/lis")
	if err != nil || !ok || v != "{}" {
		t.Fatalf("expected externally written entry, got %q %v %v", v, ok, err)
	}
}

func TestStoreFailures(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("boom")

	t.Run("write error keeps file untouched", func(t *testing.T) {
		s, fs, _ := newMockStore(t)
		fs.WriteFileError = boom
		if err := s.Set(ctx, "k", "v"); !errors.Is(err, boom) {
			t.Fatalf("expected write error, got %v", err)
		}
		if fs.FileExists("/data/store.json") {
			t.Error("failed write must not create the data file")
		}
	})

	t.Run("rename error cleans temp file", func(t *testing.T) {
		s, fs, _ := newMockStore(t)
		fs.RenameError = boom
		if err := s.Set(ctx, "k", "v"); !errors.Is(err, boom) {
			t.Fatalf("expected rename error, got %v", err)
		}
		if fs.FileExists("/data/store.json.tmp") {
			t.Error("temp file must be removed")
		}
	})

	t.Run("corrupt file", func(t *testing.T) {
		s, fs, _ := newMockStore(t)
		fs.PutFile("/data/store.json", []byte("{not json"))
		if _, _, err := s.Get(ctx, "k"); err == nil {
			t.Fatal("expected parse error")
		}
	})

	t.Run("lock error", func(t *testing.T) {
		s, _, locks := newMockStore(t)
		locks.GetLock("/data/store.json.lock").SetLockError(boom)
		if _, _, err := s.Get(ctx, "k"); !errors.Is(err, boom) {
			t.Fatalf("expected lock error, got %v", err)
		}
	})

	t.Run("lock held elsewhere", func(t *testing.T) {
		s, _, locks := newMockStore(t)
		lock := locks.GetLock("/data/store.json.lock")
		if ok, _ := lock.TryLockContext(ctx, 0); !ok {
			t.Fatal("failed to take lock")
		}
		before := lock.LockAttempts
		if err := s.Set(ctx, "k", "v"); err == nil {
			t.Fatal("expected lock acquisition to fail")
		}
		if attempts := lock.LockAttempts - before; attempts != 3 {
			t.Errorf("expected 3 attempts, got %d", attempts)
		}
	})

	t.Run("canceled context", func(t *testing.T) {
		s, _, _ := newMockStore(t)
		canceled, cancel := context.WithCancel(ctx)
		cancel()
		if err := s.Set(canceled, "k", "v"); !errors.Is(err, context.Canceled) {
			t.Fatalf("expected context.Canceled, got %v", err)
		}
	})
}

func TestStoreOnDisk(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nanofire.json")

	s, err := jsonfile.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	db := nanofire.New(s)
	if err := nanofire.SetDoc(ctx, db.Doc("people", "mike"), nanofire.Document{"name": "Mike", "age": 39}); err != nil {
		t.Fatal(err)
	}
	if err := db.Close(); err != nil {
		t.Fatal(err)
	}

	// A second handle sees what the first one wrote
	other, err := jsonfile.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	db2 := nanofire.New(other)
	defer db2.Close()

	docs, err := nanofire.GetDocs(db2.Collection("people").Query().Where("age", ">", 30)).Data(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(docs) != 1 || docs[0]["name"] != "Mike" {
		t.Fatalf("unexpected documents %v", docs)
	}
}
