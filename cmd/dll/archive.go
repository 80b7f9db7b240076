package main

/*
#include <stdint.h>
#include <stdbool.h>
*/
import "C"

import (
	"unsafe"

	"github.com/logicossoftware/go-op2util/internal/strlist"
)

//export OP2_Vol_Create
func OP2_Vol_Create(path *C.char) C.uint64_t { return created(bridge.OpenVol(goString(path))) }

//export OP2_Clm_Create
func OP2_Clm_Create(path *C.char) C.uint64_t { return created(bridge.OpenClm(goString(path))) }

// OP2_Archive_Release closes a VOL or CLM archive.
//
//export OP2_Archive_Release
func OP2_Archive_Release(a C.uint64_t) C.bool { return ok(bridge.ReleaseArchive(handle(a))) }

//export OP2_Archive_GetArchiveFilename
func OP2_Archive_GetArchiveFilename(a C.uint64_t) *C.char {
	return cString(bridge.ArchiveFilename(handle(a)))
}

//export OP2_Archive_GetArchiveFileSize
func OP2_Archive_GetArchiveFileSize(a C.uint64_t, out *C.uint64_t) C.bool {
	n, err := bridge.ArchiveSize(handle(a))
	return store(out, C.uint64_t(n), err)
}

//export OP2_Archive_GetCount
func OP2_Archive_GetCount(a C.uint64_t) C.uint64_t { return count(bridge.ArchiveCount(handle(a))) }

//export OP2_Archive_Contains
func OP2_Archive_Contains(a C.uint64_t, name *C.char) C.bool {
	found, err := bridge.ArchiveContains(handle(a), goString(name))
	return C.bool(found && err == nil)
}

//export OP2_Archive_GetIndex
func OP2_Archive_GetIndex(a C.uint64_t, name *C.char, out *C.uint64_t) C.bool {
	i, err := bridge.ArchiveIndex(handle(a), goString(name))
	return store(out, C.uint64_t(i), err)
}

//export OP2_Archive_GetName
func OP2_Archive_GetName(a, i C.uint64_t) *C.char {
	return cString(bridge.ArchiveName(handle(a), index(i)))
}

// OP2_Archive_GetSize returns the buffer length OP2_Archive_ReadFileByIndex
// needs for entry i, or 0 if there is no such entry.
//
//export OP2_Archive_GetSize
func OP2_Archive_GetSize(a, i C.uint64_t) C.uint64_t {
	return size(bridge.ArchiveEntrySize(handle(a), index(i)))
}

// OP2_Archive_ReadFileByIndex copies the stored bytes of entry i into buf.
// bufLen must equal OP2_Archive_GetSize; otherwise buf is left untouched.
//
//export OP2_Archive_ReadFileByIndex
func OP2_Archive_ReadFileByIndex(a, i C.uint64_t, buf unsafe.Pointer, bufLen C.uint64_t) C.bool {
	dst, valid := cBuffer(buf, bufLen)
	if !valid {
		return false
	}
	return ok(bridge.ReadArchiveEntry(handle(a), index(i), dst))
}

//export OP2_Archive_ExtractFileByName
func OP2_Archive_ExtractFileByName(a C.uint64_t, name, pathOut *C.char) C.bool {
	return ok(bridge.ExtractArchiveEntryByName(handle(a), goString(name), goString(pathOut)))
}

//export OP2_Archive_ExtractFileByIndex
func OP2_Archive_ExtractFileByIndex(a, i C.uint64_t, pathOut *C.char) C.bool {
	return ok(bridge.ExtractArchiveEntry(handle(a), index(i), goString(pathOut)))
}

//export OP2_Archive_ExtractAllFiles
func OP2_Archive_ExtractAllFiles(a C.uint64_t, dir *C.char) C.bool {
	return ok(bridge.ExtractArchive(handle(a), goString(dir)))
}

// OP2_Archive_WriteVolFile packs the pipe-delimited files into a new VOL
// archive, keeping their order.
//
//export OP2_Archive_WriteVolFile
func OP2_Archive_WriteVolFile(path, files *C.char) C.bool {
	return ok(bridge.WriteVol(goString(path), strlist.Split(goString(files))))
}

// OP2_Archive_WriteClmFile packs the pipe-delimited wave files into a new CLM
// archive.
//
//export OP2_Archive_WriteClmFile
func OP2_Archive_WriteClmFile(path, files *C.char) C.bool {
	return ok(bridge.WriteClm(goString(path), strlist.Split(goString(files))))
}

// OP2_Archive_GetCompressionCode fails for CLM archives.
//
//export OP2_Archive_GetCompressionCode
func OP2_Archive_GetCompressionCode(a, i C.uint64_t, out *C.int) C.bool {
	code, err := bridge.CompressionCode(handle(a), index(i))
	return store(out, C.int(code), err)
}
