// Package archive reads and writes the two Outpost 2 container formats.
//
// VOL files hold game data such as maps, tilesets and scripts. Entries are
// stored uncompressed or LZH compressed; OpenStream and ReadFile return the
// stored bytes while ExtractFile writes the decoded file. CLM files hold raw
// PCM audio sharing a single wave format; ExtractFile wraps an entry in a
// RIFF/WAVE header.
//
// Entry names are matched case-insensitively. Archives written by WriteVol and
// WriteClm keep the entries in the order the source paths were given.
package archive
