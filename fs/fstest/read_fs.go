package fstest

import (
	"bytes"
	"context"
	"errors"
	"io/fs"
	"testing"

	"github.com/jmgilman/go/fs/core"
)

// TestReadFS tests attribute reads, streaming reads, and access checks.
// Uses DefaultConfig().
func TestReadFS[P core.Path[P]](t *testing.T, fx Fixture[P]) {
	TestReadFSWithConfig(t, fx, DefaultConfig())
}

// TestReadFSWithConfig tests read operations with behavior configuration.
func TestReadFSWithConfig[P core.Path[P]](t *testing.T, fx Fixture[P], config Config) {
	// Setup: Create a directory with a test file
	testContent := []byte("test file content")
	mkdir(t, fx, "testdir")
	writeFile(t, fx, "testdir/testfile.txt", testContent)

	config.run(t, "ReadFS", "AttributesFile", func(t *testing.T) {
		testReadFSAttributesFile(t, fx, testContent)
	})
	config.run(t, "ReadFS", "AttributesDir", func(t *testing.T) {
		testReadFSAttributesDir(t, fx)
	})
	config.run(t, "ReadFS", "AttributesNotExist", func(t *testing.T) {
		testReadFSAttributesNotExist(t, fx)
	})
	config.run(t, "ReadFS", "NewReader", func(t *testing.T) {
		testReadFSNewReader(t, fx, testContent)
	})
	config.run(t, "ReadFS", "NewReaderNotExist", func(t *testing.T) {
		testReadFSNewReaderNotExist(t, fx)
	})
	config.run(t, "ReadFS", "CheckAccess", func(t *testing.T) {
		testReadFSCheckAccess(t, fx)
	})
	config.run(t, "ReadFS", "CheckAccessNotExist", func(t *testing.T) {
		testReadFSCheckAccessNotExist(t, fx)
	})
}

// testReadFSAttributesFile tests ReadAttributes() on a regular file.
func testReadFSAttributesFile[P core.Path[P]](t *testing.T, fx Fixture[P], testContent []byte) {
	p := fx.Join(t, "testdir/testfile.txt")
	attrs, err := fx.FS.ReadAttributes(context.Background(), p)
	if err != nil {
		t.Fatalf("ReadAttributes(%s): got error %v, want nil", p, err)
	}

	if !attrs.IsRegularFile() {
		t.Errorf("ReadAttributes(%s).Type: got %s, want regular file", p, attrs.Type)
	}
	if !attrs.Has(core.AttrSize) {
		t.Errorf("ReadAttributes(%s): size not reported", p)
	} else if attrs.Size != int64(len(testContent)) {
		t.Errorf("ReadAttributes(%s).Size: got %d, want %d", p, attrs.Size, len(testContent))
	}
	if attrs.Has(core.AttrLastModifiedTime) && attrs.LastModifiedTime.IsZero() {
		t.Errorf("ReadAttributes(%s).LastModifiedTime: got zero time", p)
	}
}

// testReadFSAttributesDir tests ReadAttributes() on a directory.
func testReadFSAttributesDir[P core.Path[P]](t *testing.T, fx Fixture[P]) {
	p := fx.Join(t, "testdir")
	attrs, err := fx.FS.ReadAttributes(context.Background(), p)
	if err != nil {
		t.Fatalf("ReadAttributes(%s): got error %v, want nil", p, err)
	}
	if !attrs.IsDirectory() {
		t.Errorf("ReadAttributes(%s).Type: got %s, want directory", p, attrs.Type)
	}
	if attrs.Mode()&fs.ModeDir == 0 {
		t.Errorf("ReadAttributes(%s).Mode(): got %s, want directory bit", p, attrs.Mode())
	}
}

// testReadFSAttributesNotExist tests ReadAttributes() on a missing path.
func testReadFSAttributesNotExist[P core.Path[P]](t *testing.T, fx Fixture[P]) {
	p := fx.Join(t, "nonexistent.txt")
	_, err := fx.FS.ReadAttributes(context.Background(), p)
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("ReadAttributes(%s): got error %v, want fs.ErrNotExist", p, err)
	}
}

// testReadFSNewReader tests NewReader() returns the full content.
func testReadFSNewReader[P core.Path[P]](t *testing.T, fx Fixture[P], testContent []byte) {
	p := fx.Join(t, "testdir/testfile.txt")
	data, err := readFile(t, fx.FS, p)
	if err != nil {
		t.Fatalf("NewReader(%s): got error %v, want nil", p, err)
	}
	if !bytes.Equal(data, testContent) {
		t.Errorf("NewReader(%s): got %q, want %q", p, data, testContent)
	}
}

// testReadFSNewReaderNotExist tests NewReader() on a missing file. The
// error may surface on open or on the first read.
func testReadFSNewReaderNotExist[P core.Path[P]](t *testing.T, fx Fixture[P]) {
	p := fx.Join(t, "nonexistent.txt")
	_, err := readFile(t, fx.FS, p)
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("NewReader(%s): got error %v, want fs.ErrNotExist", p, err)
	}
}

// testReadFSCheckAccess tests CheckAccess() on existing paths.
func testReadFSCheckAccess[P core.Path[P]](t *testing.T, fx Fixture[P]) {
	for _, name := range []string{"testdir", "testdir/testfile.txt"} {
		p := fx.Join(t, name)
		if err := fx.FS.CheckAccess(context.Background(), p); err != nil {
			t.Errorf("CheckAccess(%s): got error %v, want nil", p, err)
		}
		if err := fx.FS.CheckAccess(context.Background(), p, core.AccessRead); err != nil {
			t.Errorf("CheckAccess(%s, read): got error %v, want nil", p, err)
		}
	}
}

// testReadFSCheckAccessNotExist tests CheckAccess() on a missing path.
func testReadFSCheckAccessNotExist[P core.Path[P]](t *testing.T, fx Fixture[P]) {
	p := fx.Join(t, "nonexistent.txt")
	err := fx.FS.CheckAccess(context.Background(), p, core.AccessRead)
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("CheckAccess(%s): got error %v, want fs.ErrNotExist", p, err)
	}
}
