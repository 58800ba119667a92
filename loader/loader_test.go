package loader

import (
	"os"
	"path/filepath"
	"testing"
)

func TestReadSourceExactPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "prog.vm")
	if err := os.WriteFile(path, []byte("nop\n"), 0644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	src, err := ReadSource(path)
	if err != nil {
		t.Fatalf("ReadSource: %v", err)
	}
	if src != "nop\n" {
		t.Errorf("got %q", src)
	}
}

func TestReadSourceFallsBackToVMExtension(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "prog.vm"), []byte("nop\n"), 0644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	src, err := ReadSource(filepath.Join(dir, "prog"))
	if err != nil {
		t.Fatalf("ReadSource: %v", err)
	}
	if src != "nop\n" {
		t.Errorf("got %q", src)
	}
}

func TestReadSourceMissing(t *testing.T) {
	dir := t.TempDir()
	if _, err := ReadSource(filepath.Join(dir, "missing")); err == nil {
		t.Error("expected an error for a missing source file")
	}
}

func TestFileIncludeResolverJoinsBaseDir(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "macros.vm"), []byte("# macros\n"), 0644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	resolve := FileIncludeResolver(dir)
	src, err := resolve("macros")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if src != "# macros\n" {
		t.Errorf("got %q", src)
	}
}
