package lock

import (
	"os"
	"path/filepath"
	"testing"
)

func TestTryDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "store")

	l, err := TryDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(filepath.Join(dir, FileName)); err != nil {
		t.Errorf("Lock file not created inside %s: %s", dir, err)
	}

	// A second open file description must not get the lock
	l2, err := TryDir(dir)
	if err == nil {
		l2.Release()
		t.Fatalf("Attempt to acquire second lock on the same directory succeeded?!")
	}
	if !IsResourceUnavailable(err) {
		t.Fatalf("Second lock returned unexpected error: %s", err)
	}

	if err := l.Release(); err != nil {
		t.Fatal(err)
	}

	l2, err = TryDir(dir)
	if err != nil {
		t.Fatalf("Lock attempt failed after released! %s", err)
	}
	l2.Release()
}

func TestReleaseTwice(t *testing.T) {
	l, err := TryDir(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if err := l.Release(); err != nil {
		t.Fatal(err)
	}
	if err := l.Release(); err != nil {
		t.Errorf("Second release returned an error: %s", err)
	}
}

func TestTryExclusive(t *testing.T) {
	file, err := os.CreateTemp(t.TempDir(), "locking_test")
	if err != nil {
		t.Fatal(err)
	}
	defer file.Close()

	if err := TryExclusive(file); err != nil {
		t.Fatal(err)
	}

	file2, err := os.Open(file.Name())
	if err != nil {
		t.Fatal(err)
	}
	defer file2.Close()

	err = TryExclusive(file2)
	if err == nil {
		t.Fatalf("Exclusive lock succeded on file already locked by another descriptor")
	}
	if !IsResourceUnavailable(err) {
		t.Fatalf("Exclusive lock returned unexpected error: %s", err)
	}

	if err := Release(file); err != nil {
		t.Fatal(err)
	}
	if err := TryExclusive(file2); err != nil {
		t.Fatalf("Lock attempt failed after released! %s", err)
	}
}
