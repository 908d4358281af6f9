package fstest

import (
	"testing"

	"github.com/jmgilman/go/fs/core"
)

// TestPathFS tests the path algebra of a provider. No I/O is performed.
// Uses DefaultConfig().
func TestPathFS[P core.Path[P]](t *testing.T, fx Fixture[P]) {
	TestPathFSWithConfig(t, fx, DefaultConfig())
}

// TestPathFSWithConfig tests path operations with behavior configuration.
func TestPathFSWithConfig[P core.Path[P]](t *testing.T, fx Fixture[P], config Config) {
	config.run(t, "PathFS", "Root", func(t *testing.T) {
		testPathFSRoot(t, fx)
	})
	config.run(t, "PathFS", "Elements", func(t *testing.T) {
		testPathFSElements(t, fx)
	})
	config.run(t, "PathFS", "ResolveRelativize", func(t *testing.T) {
		testPathFSResolveRelativize(t, fx)
	})
	config.run(t, "PathFS", "Normalize", func(t *testing.T) {
		testPathFSNormalize(t, fx)
	})
	config.run(t, "PathFS", "StartsEndsWith", func(t *testing.T) {
		testPathFSStartsEndsWith(t, fx)
	})
	config.run(t, "PathFS", "Compare", func(t *testing.T) {
		testPathFSCompare(t, fx)
	})
}

// testPathFSRoot tests the root has no elements and no parent.
func testPathFSRoot[P core.Path[P]](t *testing.T, fx Fixture[P]) {
	root := fx.FS.Root()
	if !root.IsAbsolute() {
		t.Errorf("Root(): got relative path %s", root)
	}
	if n := root.NameCount(); n != 0 {
		t.Errorf("Root().NameCount(): got %d, want 0", n)
	}
	if _, ok := root.Parent(); ok {
		t.Errorf("Root().Parent(): got a parent, want none")
	}
	if _, ok := root.FileName(); ok {
		t.Errorf("Root().FileName(): got a name, want none")
	}
	if !fx.Base.IsAbsolute() {
		t.Errorf("Fixture.Base: got relative path %s", fx.Base)
	}
}

// testPathFSElements tests NameCount, FileName, and Parent.
func testPathFSElements[P core.Path[P]](t *testing.T, fx Fixture[P]) {
	sep := fx.FS.Separator()
	p := fx.FS.Path("a", "b", "c.txt")

	if got, want := p.String(), "a"+sep+"b"+sep+"c.txt"; got != want {
		t.Errorf("Path(a, b, c.txt): got %q, want %q", got, want)
	}
	if p.IsAbsolute() {
		t.Errorf("Path(a, b, c.txt).IsAbsolute(): got true, want false")
	}
	if n := p.NameCount(); n != 3 {
		t.Errorf("NameCount(%s): got %d, want 3", p, n)
	}

	name, ok := p.FileName()
	if !ok || name.String() != "c.txt" {
		t.Errorf("FileName(%s): got %s, %v, want c.txt, true", p, name, ok)
	}

	parent, ok := p.Parent()
	if !ok || parent.String() != "a"+sep+"b" {
		t.Errorf("Parent(%s): got %s, %v, want a%sb, true", p, parent, ok, sep)
	}

	if _, ok := fx.FS.Path("single").Parent(); ok {
		t.Errorf("Parent(single): got a parent, want none")
	}
}

// testPathFSResolveRelativize tests that Relativize inverts Resolve.
func testPathFSResolveRelativize[P core.Path[P]](t *testing.T, fx Fixture[P]) {
	rel := fx.FS.Path("x", "y.txt")
	joined, err := fx.Base.Resolve(rel)
	if err != nil {
		t.Fatalf("Resolve(%s, %s): got error %v, want nil", fx.Base, rel, err)
	}
	if !joined.IsAbsolute() {
		t.Errorf("Resolve(%s, %s): got relative path %s", fx.Base, rel, joined)
	}

	back, err := fx.Base.Relativize(joined)
	if err != nil {
		t.Fatalf("Relativize(%s, %s): got error %v, want nil", fx.Base, joined, err)
	}
	if back.String() != rel.String() {
		t.Errorf("Relativize(%s, %s): got %s, want %s", fx.Base, joined, back, rel)
	}

	same, err := fx.Base.Resolve(fx.Base)
	if err != nil {
		t.Fatalf("Resolve(%s, %s): got error %v, want nil", fx.Base, fx.Base, err)
	}
	if same.String() != fx.Base.String() {
		t.Errorf("Resolve with absolute other: got %s, want %s", same, fx.Base)
	}
}

// testPathFSNormalize tests removal of "." and "name/.." elements.
func testPathFSNormalize[P core.Path[P]](t *testing.T, fx Fixture[P]) {
	sep := fx.FS.Separator()
	p := fx.FS.Path("a", ".", "b", "..", "c")
	if got, want := p.Normalize().String(), "a"+sep+"c"; got != want {
		t.Errorf("Normalize(%s): got %q, want %q", p, got, want)
	}
}

// testPathFSStartsEndsWith tests element-wise prefix and suffix checks.
func testPathFSStartsEndsWith[P core.Path[P]](t *testing.T, fx Fixture[P]) {
	p := fx.FS.Path("a", "bc", "d")

	if !p.StartsWith(fx.FS.Path("a", "bc")) {
		t.Errorf("StartsWith(%s, a/bc): got false, want true", p)
	}
	if p.StartsWith(fx.FS.Path("a", "b")) {
		t.Errorf("StartsWith(%s, a/b): got true, want false", p)
	}
	if !p.EndsWith(fx.FS.Path("bc", "d")) {
		t.Errorf("EndsWith(%s, bc/d): got false, want true", p)
	}
	if p.EndsWith(fx.FS.Path("c", "d")) {
		t.Errorf("EndsWith(%s, c/d): got true, want false", p)
	}
}

// testPathFSCompare tests ordering by string form.
func testPathFSCompare[P core.Path[P]](t *testing.T, fx Fixture[P]) {
	a, b := fx.FS.Path("a"), fx.FS.Path("b")

	if c, err := a.Compare(b); err != nil || c >= 0 {
		t.Errorf("Compare(a, b): got %d, %v, want negative, nil", c, err)
	}
	if c, err := b.Compare(a); err != nil || c <= 0 {
		t.Errorf("Compare(b, a): got %d, %v, want positive, nil", c, err)
	}
	if c, err := a.Compare(fx.FS.Path("a")); err != nil || c != 0 {
		t.Errorf("Compare(a, a): got %d, %v, want 0, nil", c, err)
	}
}
