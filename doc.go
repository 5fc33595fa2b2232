// Package binrec compiles declarative record schemas into fixed-width binary
// layouts and packs/unpacks instances against them. It is meant for talking
// to embedded or C/C++ peers that exchange flat binary records over serial
// links and similar transports.
//
// A record schema declares an ordered list of fields (integers, floats,
// fixed-length strings, raw byte buffers, padding, arrays, nested records,
// unions, and computed-value outlets). Compile analyzes the field list once
// and produces an immutable *Record holding the descriptor schedule and the
// total byte width; Pack and Unpack then translate between validated
// instances and byte strings of exactly that width.
//
// Instance construction, constraint enforcement and computed values belong to
// a collaborating data model reached through the Schema interface. The
// package ships RecordSchema, a minimal declarative implementation of it.
package binrec
