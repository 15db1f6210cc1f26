// Package all registers every built-in backend with the Type Registry
// as a side effect of being imported, the same convenience umbrella
// shape the teacher offers for its own set of example backends: a
// caller that wants the whole catalog blank-imports this package once,
// instead of importing each backend package individually.
//
// Importing all does not by itself make any native-format or
// multi-volume-container type indicator usable — TYPE_APFS,
// TYPE_LVM, TYPE_VSHADOW, and their siblings still need a real parser
// plugged in via backend/native.Register or backend/volume.Register.
// What this import guarantees is that every type indicator this
// module understands is at least registered, so registry.Lookup and
// the Format Analyzer see the complete closed set even before any
// parser is plugged in.
package all

import (
	_ "github.com/dvfscore/vfs/backend/archive"
	_ "github.com/dvfscore/vfs/backend/compressed"
	_ "github.com/dvfscore/vfs/backend/datarange"
	_ "github.com/dvfscore/vfs/backend/encrypted"
	_ "github.com/dvfscore/vfs/backend/fake"
	_ "github.com/dvfscore/vfs/backend/native"
	_ "github.com/dvfscore/vfs/backend/osfs"
	_ "github.com/dvfscore/vfs/backend/partition"
	_ "github.com/dvfscore/vfs/backend/rawfs"
	_ "github.com/dvfscore/vfs/backend/volume"
	_ "github.com/dvfscore/vfs/mount"
)
