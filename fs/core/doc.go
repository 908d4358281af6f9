// Package core provides the foundational interfaces and types for a
// path-based filesystem abstraction.
//
// This package defines contracts that filesystem providers implement,
// enabling applications to work with remote hierarchies through a
// uniform vocabulary of paths, attributes, channels, and watch keys.
//
// # Design Philosophy
//
// The core package follows these principles:
//
//   - Zero dependencies: Only uses Go standard library
//   - Generic contracts: Path, FileSystem, WatchKey, and WatchService are
//     parameterised by the provider's concrete types
//   - Stdlib compatibility: Sentinel errors wrap io/fs errors
//   - Optional capabilities: Use type assertions for Truncater and Syncer
//
// # Interface Hierarchy
//
//   - Path: Immutable hierarchical path values
//   - FileSystem: Access checks, copy, move, delete, and attribute reads
//   - Channel: Seekable byte channel with truncation
//   - PathMatcher: Compiled glob or regex matcher
//   - WatchKey / WatchService: Directory change notification
//   - TreeWriter: Destination for CopyTree
//
// # Usage Example
//
//	func Describe[P core.Path[P]](ctx context.Context, fsys core.FileSystem[P], p P) error {
//	    attrs, err := fsys.ReadAttributes(ctx, p)
//	    if err != nil {
//	        return err
//	    }
//	    fmt.Printf("%s %s %d\n", p, attrs.Type, attrs.Size)
//	    return nil
//	}
//
// # Error Handling
//
// All providers return errors that can be checked with errors.Is against
// the sentinels in this package:
//
//	if errors.Is(err, core.ErrNotExist) {
//	    // Handle missing file
//	}
//
// ErrNotExist, ErrExist, ErrPermission, and ErrClosed are the io/fs
// sentinels, so checks against fs.ErrNotExist work as well.
package core
