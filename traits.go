package vfs

import (
	"context"
	"io"
	"iter"
	"time"

	"github.com/dvfscore/vfs/pathspec"
)

// FileSystem is opened over a path specification and owns whatever
// backend state that requires (a parsed superblock, open handles onto
// a parent FileObject, ...). A FileSystem moves through the states
// Unopened -> Open -> Closed; every method below except Open and Close
// requires the Open state and otherwise returns a KindBackEnd error.
type FileSystem interface {
	// Open opens the file system described by spec. Opening may
	// consult the KeyChain for credentials. Re-opening an already-open
	// FileSystem is not supported.
	Open(ctx context.Context, spec *pathspec.Spec) error

	// Close releases backend state. Close is idempotent.
	Close() error

	// GetRootFileEntry returns the file system's root entry.
	GetRootFileEntry(ctx context.Context) (FileEntry, error)

	// GetFileEntryByPathSpec resolves spec to a FileEntry within this
	// file system, or returns (nil, nil) if spec does not describe an
	// existing object.
	GetFileEntryByPathSpec(ctx context.Context, spec *pathspec.Spec) (FileEntry, error)

	// BasePathSpecs returns the path specification(s) this file system
	// was constructed from (ordinarily one element; volume systems that
	// expose multiple base volumes may return more than one).
	BasePathSpecs() []*pathspec.Spec

	// PathSeparator returns "/" or "\\", whichever this backend's
	// native paths use. The root is a single separator.
	PathSeparator() string

	// JoinPath joins segments using PathSeparator, producing a location
	// suitable for a child path specification's "location" attribute.
	JoinPath(segments []string) string

	// SplitPath splits a location into its segments using
	// PathSeparator, the inverse of JoinPath.
	SplitPath(p string) []string
}

// DirEntry is the path specification paired with its human-readable
// name, yielded while iterating a directory's sub file entries.
type DirEntry struct {
	Name string
	Spec *pathspec.Spec
}

// FileEntry is a view onto one object within an open FileSystem.
// Multiple FileEntry values may describe the same underlying object;
// FileEntry itself holds no exclusive lock or handle.
type FileEntry interface {
	// Name is the final path component; the root entry's Name is "".
	Name() string

	// PathSpec is the path specification identifying this entry.
	PathSpec() *pathspec.Spec

	IsRoot() bool
	IsVirtual() bool
	IsAllocated() bool

	Type() EntryType
	IsDirectory() bool
	IsFile() bool
	IsLink() bool
	IsDevice() bool
	IsPipe() bool
	IsSocket() bool

	// Timestamps return (zero, false) when the backend has no value for
	// that field rather than an error; absent timestamps are normal,
	// never a failure.
	AccessTime() (time.Time, bool)
	CreationTime() (time.Time, bool)
	ChangeTime() (time.Time, bool)
	ModificationTime() (time.Time, bool)
	AddedTime() (time.Time, bool)

	// Size returns (0, false) for entries with no meaningful size
	// (directories on most backends).
	Size() (int64, bool)

	// LinkTarget returns the symlink target; only meaningful when
	// IsLink() is true.
	LinkTarget() (string, bool)

	NumberOfSubFileEntries() (int, error)
	// SubFileEntries iterates this entry's children. Iterating a
	// non-directory entry yields nothing, not an error.
	SubFileEntries(ctx context.Context) iter.Seq2[FileEntry, error]

	GetParentFileEntry(ctx context.Context) (FileEntry, error)
	// GetLinkedFileEntry resolves a symlink target to the FileEntry it
	// points at; only meaningful when IsLink() is true.
	GetLinkedFileEntry(ctx context.Context) (FileEntry, error)

	// GetFileObject opens the named data stream ("" for the default
	// stream) for reading.
	GetFileObject(ctx context.Context, dataStreamName string) (FileObject, error)

	GetExtents(ctx context.Context) ([]Extent, error)

	GetDataStream(name string) (DataStream, bool)
	DataStreams() []DataStream
	NumberOfDataStreams() int

	Attributes() []Attribute
}

// DataStream is a named byte stream within a FileEntry. The default
// stream has an empty name; NTFS, APFS, and HFS+ backends may expose
// additional named streams.
type DataStream interface {
	Name() string
	Open(ctx context.Context) (FileObject, error)
}

// FileObject is a seekable, read-only byte source. FileObjects may be
// stacked: an APFS-volume FileObject reads from an APFS-container
// FileObject, which reads from a RAW-image FileObject, which reads from
// an OS file. A FileObject moves through Unopened -> Open -> Closed;
// Read/Seek/Size/Offset on a FileObject outside the Open state return a
// KindBackEnd error. Re-opening is not supported.
type FileObject interface {
	io.Reader
	io.Seeker
	io.Closer

	// Open opens the byte stream described by spec.
	Open(ctx context.Context, spec *pathspec.Spec) error

	// Size returns the total length of the stream.
	Size() (int64, error)

	// Offset returns the current read position, equivalent to
	// Seek(0, io.SeekCurrent) without the seek.
	Offset() int64
}

// Attribute is typed metadata attached to a FileEntry: an extended
// attribute, a security descriptor, or a stat attribute.
type Attribute interface {
	Name() string
	TypeIndicator() string

	// ReadCloser returns a readable byte stream for extended
	// attributes; ok is false for attributes with no stream content
	// (e.g. a stat attribute, which is accessed through its own typed
	// fields instead).
	ReadCloser() (rc io.ReadCloser, ok bool)
}
