package main

/*
#include <stdint.h>
#include <stdbool.h>
*/
import "C"

//export OP2_BmpLoader_Create
func OP2_BmpLoader_Create(bmpPath, artPath *C.char) C.uint64_t {
	return created(bridge.OpenImages(goString(bmpPath), goString(artPath)))
}

//export OP2_BmpLoader_Release
func OP2_BmpLoader_Release(l C.uint64_t) C.bool { return ok(bridge.ReleaseImages(handle(l))) }

//export OP2_BmpLoader_GetImageCount
func OP2_BmpLoader_GetImageCount(l C.uint64_t) C.uint64_t {
	return count(bridge.ImageCount(handle(l)))
}

// OP2_BmpLoader_ExtractImage writes image i as an indexed BMP file.
//
//export OP2_BmpLoader_ExtractImage
func OP2_BmpLoader_ExtractImage(l, i C.uint64_t, pathOut *C.char) C.bool {
	return ok(bridge.ExtractImage(handle(l), index(i), goString(pathOut)))
}
