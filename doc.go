// Package vfs defines the capability traits shared by every backend in
// this module: FileSystem, FileEntry, FileObject, DataStream, and
// Attribute. It is the uniform surface a caller programs against
// regardless of how many containers (partition table, volume system,
// compression, encryption) sit between the caller and the bytes.
//
// vfs itself opens nothing. Concrete backends live under backend/ and
// register themselves with the registry package; resolver dispatches a
// *pathspec.Spec to the right backend and returns one of the interfaces
// defined here.
//
// All operations are read-only. There is no write, create, or delete
// surface anywhere in this module.
package vfs
