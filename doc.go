// Package op2util is the foreign-call layer over the Outpost 2 file format
// packages. A Bridge owns maps, archives, resource managers and sprite
// loaders on behalf of callers that can only hold integers, and exposes every
// operation on them as a method taking a Handle.
//
// # Handles
//
// A Handle is a generation-tagged 64-bit value. Releasing a handle
// invalidates it; using it afterwards, releasing it twice, or passing a map
// handle where an archive is expected fails with [ErrInvalidHandle] rather
// than touching another object. Handle tables may be used from several
// goroutines; the objects behind one handle may not.
//
// # Errors
//
// Methods return typed values and errors wrapping the sentinels of this
// package and of the format packages gamemap, archive, resource and
// sprite. Index arguments are validated before anything is modified.
// A panic inside a call is returned as [ErrInternal]. Failed calls are logged
// at debug level to the logger set with [WithLogger] or [Bridge.SetLogger].
//
// # Bulk data
//
// Archive entries and resources are copied with a size query followed by a
// fill call. The fill call requires a buffer of exactly the queried size and
// writes nothing otherwise ([ErrBufferSize]).
//
// The cmd/dll package builds this layer into a C shared library.
package op2util
