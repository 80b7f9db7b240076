// Package sprite extracts single images from the Outpost 2 master sprite
// bitmap (op2_art.bmp) using the image table of its companion art file
// (op2_art.prt).
//
// The art file carries the palettes and, for each image, the offset of its
// pixel rows inside the master bitmap. Loader.ExtractImage writes one image
// as a standalone top-down indexed BMP: shadow images use 1 bit per pixel
// with a 2-color palette, all other images use 8 bits per pixel with the
// full 256-color palette they reference.
package sprite
