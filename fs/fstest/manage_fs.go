package fstest

import (
	"bytes"
	"context"
	"errors"
	"io/fs"
	"testing"

	"github.com/jmgilman/go/fs/core"
)

// TestManageFS tests file management: Delete, Copy, Move.
// Uses DefaultConfig().
func TestManageFS[P core.Path[P]](t *testing.T, fx Fixture[P]) {
	TestManageFSWithConfig(t, fx, DefaultConfig())
}

// TestManageFSWithConfig tests file management with behavior configuration.
func TestManageFSWithConfig[P core.Path[P]](t *testing.T, fx Fixture[P], config Config) {
	config.run(t, "ManageFS", "DeleteFile", func(t *testing.T) {
		testManageFSDeleteFile(t, fx)
	})
	config.run(t, "ManageFS", "DeleteEmptyDirectory", func(t *testing.T) {
		testManageFSDeleteEmptyDir(t, fx)
	})
	config.run(t, "ManageFS", "DeleteNonEmptyDirectory", func(t *testing.T) {
		testManageFSDeleteNonEmptyDir(t, fx)
	})
	config.run(t, "ManageFS", "DeleteNotExist", func(t *testing.T) {
		testManageFSDeleteNotExist(t, fx)
	})
	config.run(t, "ManageFS", "CopyFile", func(t *testing.T) {
		testManageFSCopyFile(t, fx)
	})
	config.run(t, "ManageFS", "CopyExisting", func(t *testing.T) {
		testManageFSCopyExisting(t, fx)
	})
	config.run(t, "ManageFS", "CopyReplaceExisting", func(t *testing.T) {
		testManageFSCopyReplace(t, fx)
	})
	if config.SameFileCopyIsNoop {
		config.run(t, "ManageFS", "CopySameFile", func(t *testing.T) {
			testManageFSCopySameFile(t, fx)
		})
	}
	config.run(t, "ManageFS", "MoveFile", func(t *testing.T) {
		testManageFSMoveFile(t, fx)
	})
	config.run(t, "ManageFS", "MoveDirectory", func(t *testing.T) {
		testManageFSMoveDir(t, fx)
	})
}

// assertNotExist fails if p still exists.
func assertNotExist[P core.Path[P]](t *testing.T, fx Fixture[P], op string, p P) {
	t.Helper()
	_, err := fx.FS.ReadAttributes(context.Background(), p)
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("ReadAttributes(%s) after %s: got error %v, want fs.ErrNotExist", p, op, err)
	}
}

// assertContent fails unless p holds want.
func assertContent[P core.Path[P]](t *testing.T, fx Fixture[P], p P, want []byte) {
	t.Helper()
	got, err := readFile(t, fx.FS, p)
	if err != nil {
		t.Errorf("NewReader(%s): got error %v, want nil", p, err)
		return
	}
	if !bytes.Equal(got, want) {
		t.Errorf("NewReader(%s): got %q, want %q", p, got, want)
	}
}

// testManageFSDeleteFile tests Delete() on a single file.
func testManageFSDeleteFile[P core.Path[P]](t *testing.T, fx Fixture[P]) {
	p := writeFile(t, fx, "delete.txt", []byte("test file content"))

	if err := fx.FS.Delete(context.Background(), p); err != nil {
		t.Fatalf("Delete(%s): got error %v, want nil", p, err)
	}
	assertNotExist(t, fx, "Delete", p)
}

// testManageFSDeleteEmptyDir tests Delete() on an empty directory.
func testManageFSDeleteEmptyDir[P core.Path[P]](t *testing.T, fx Fixture[P]) {
	p := mkdir(t, fx, "emptydir")

	if err := fx.FS.Delete(context.Background(), p); err != nil {
		t.Fatalf("Delete(%s): got error %v, want nil", p, err)
	}
	assertNotExist(t, fx, "Delete", p)
}

// testManageFSDeleteNonEmptyDir tests Delete() refuses a directory with
// entries and leaves it in place.
func testManageFSDeleteNonEmptyDir[P core.Path[P]](t *testing.T, fx Fixture[P]) {
	p := mkdir(t, fx, "fulldir")
	writeFile(t, fx, "fulldir/child.txt", []byte("child"))

	err := fx.FS.Delete(context.Background(), p)
	if !errors.Is(err, core.ErrDirectoryNotEmpty) {
		t.Errorf("Delete(%s): got error %v, want core.ErrDirectoryNotEmpty", p, err)
	}
	if err := fx.FS.CheckAccess(context.Background(), p); err != nil {
		t.Errorf("CheckAccess(%s) after failed Delete: got error %v, want nil", p, err)
	}
}

// testManageFSDeleteNotExist tests Delete() on a missing path.
func testManageFSDeleteNotExist[P core.Path[P]](t *testing.T, fx Fixture[P]) {
	p := fx.Join(t, "nonexistent.txt")
	err := fx.FS.Delete(context.Background(), p)
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("Delete(%s): got error %v, want fs.ErrNotExist", p, err)
	}
}

// testManageFSCopyFile tests Copy() to a new destination.
func testManageFSCopyFile[P core.Path[P]](t *testing.T, fx Fixture[P]) {
	content := []byte("copy me")
	src := writeFile(t, fx, "copy-src.txt", content)
	dst := fx.Join(t, "copy-dst.txt")

	if err := fx.FS.Copy(context.Background(), src, dst); err != nil {
		t.Fatalf("Copy(%s, %s): got error %v, want nil", src, dst, err)
	}
	assertContent(t, fx, dst, content)
	assertContent(t, fx, src, content)
}

// testManageFSCopyExisting tests Copy() refuses an existing destination.
func testManageFSCopyExisting[P core.Path[P]](t *testing.T, fx Fixture[P]) {
	src := writeFile(t, fx, "exist-src.txt", []byte("new"))
	dst := writeFile(t, fx, "exist-dst.txt", []byte("old"))

	err := fx.FS.Copy(context.Background(), src, dst)
	if !errors.Is(err, fs.ErrExist) {
		t.Errorf("Copy(%s, %s): got error %v, want fs.ErrExist", src, dst, err)
	}
	assertContent(t, fx, dst, []byte("old"))
}

// testManageFSCopyReplace tests Copy() with ReplaceExisting.
func testManageFSCopyReplace[P core.Path[P]](t *testing.T, fx Fixture[P]) {
	src := writeFile(t, fx, "replace-src.txt", []byte("new"))
	dst := writeFile(t, fx, "replace-dst.txt", []byte("old"))

	if err := fx.FS.Copy(context.Background(), src, dst, core.ReplaceExisting); err != nil {
		t.Fatalf("Copy(%s, %s, ReplaceExisting): got error %v, want nil", src, dst, err)
	}
	assertContent(t, fx, dst, []byte("new"))
}

// testManageFSCopySameFile tests Copy() and Move() of a path onto itself.
func testManageFSCopySameFile[P core.Path[P]](t *testing.T, fx Fixture[P]) {
	content := []byte("same")
	p := writeFile(t, fx, "same.txt", content)

	if err := fx.FS.Copy(context.Background(), p, p); err != nil {
		t.Errorf("Copy(%s, %s): got error %v, want nil", p, p, err)
	}
	if err := fx.FS.Move(context.Background(), p, p); err != nil {
		t.Errorf("Move(%s, %s): got error %v, want nil", p, p, err)
	}
	assertContent(t, fx, p, content)
}

// testManageFSMoveFile tests Move() of a file.
func testManageFSMoveFile[P core.Path[P]](t *testing.T, fx Fixture[P]) {
	content := []byte("move me")
	src := writeFile(t, fx, "move-src.txt", content)
	dst := fx.Join(t, "move-dst.txt")

	if err := fx.FS.Move(context.Background(), src, dst); err != nil {
		t.Fatalf("Move(%s, %s): got error %v, want nil", src, dst, err)
	}
	assertNotExist(t, fx, "Move", src)
	assertContent(t, fx, dst, content)
}

// testManageFSMoveDir tests Move() of a directory with its entries.
func testManageFSMoveDir[P core.Path[P]](t *testing.T, fx Fixture[P]) {
	src := mkdir(t, fx, "movedir")
	writeFile(t, fx, "movedir/inner.txt", []byte("inner"))
	dst := fx.Join(t, "moveddir")

	if err := fx.FS.Move(context.Background(), src, dst); err != nil {
		t.Fatalf("Move(%s, %s): got error %v, want nil", src, dst, err)
	}
	assertNotExist(t, fx, "Move", src)
	assertContent(t, fx, fx.Join(t, "moveddir/inner.txt"), []byte("inner"))
}
