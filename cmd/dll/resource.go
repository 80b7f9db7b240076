package main

/*
#include <stdint.h>
#include <stdbool.h>
*/
import "C"

import "unsafe"

//export OP2_ResourceManager_Create
func OP2_ResourceManager_Create(dir *C.char) C.uint64_t {
	return created(bridge.OpenResources(goString(dir)))
}

//export OP2_ResourceManager_Release
func OP2_ResourceManager_Release(r C.uint64_t) C.bool {
	return ok(bridge.ReleaseResources(handle(r)))
}

// OP2_ResourceManager_GetAllFilenames returns the pipe-delimited names
// matching the regular expression pattern, ignoring case.
//
//export OP2_ResourceManager_GetAllFilenames
func OP2_ResourceManager_GetAllFilenames(r C.uint64_t, pattern *C.char, accessArchives C.bool) *C.char {
	return cList(bridge.Filenames(handle(r), goString(pattern), bool(accessArchives)))
}

//export OP2_ResourceManager_GetAllFilenamesOfType
func OP2_ResourceManager_GetAllFilenamesOfType(r C.uint64_t, ext *C.char, accessArchives C.bool) *C.char {
	return cList(bridge.FilenamesOfType(handle(r), goString(ext), bool(accessArchives)))
}

// OP2_ResourceManager_FindContainingArchivePath returns an empty string when
// no archive holds name.
//
//export OP2_ResourceManager_FindContainingArchivePath
func OP2_ResourceManager_FindContainingArchivePath(r C.uint64_t, name *C.char) *C.char {
	return cString(bridge.FindContainingArchivePath(handle(r), goString(name)))
}

//export OP2_ResourceManager_GetArchiveFilenames
func OP2_ResourceManager_GetArchiveFilenames(r C.uint64_t) *C.char {
	return cList(bridge.ArchiveFilenames(handle(r)))
}

//export OP2_ResourceManager_GetResourceSize
func OP2_ResourceManager_GetResourceSize(r C.uint64_t, name *C.char, accessArchives C.bool) C.uint64_t {
	return size(bridge.ResourceSize(handle(r), goString(name), bool(accessArchives)))
}

// OP2_ResourceManager_GetResource copies the resource into buf. bufLen must
// equal OP2_ResourceManager_GetResourceSize; otherwise buf is left untouched.
//
//export OP2_ResourceManager_GetResource
func OP2_ResourceManager_GetResource(r C.uint64_t, name *C.char, accessArchives C.bool, buf unsafe.Pointer, bufLen C.uint64_t) C.bool {
	dst, valid := cBuffer(buf, bufLen)
	if !valid {
		return false
	}
	return ok(bridge.ReadResource(handle(r), goString(name), bool(accessArchives), dst))
}
