// Package core provides the PDF object model for building documents.
//
// # Object Types
//
// PDF defines eight basic object types, all implemented as types
// satisfying the Object interface:
//
//   - [Null] - represents the PDF null object
//   - [Bool] - represents PDF boolean values (true/false)
//   - [Int] - represents PDF integers
//   - [Real] - represents PDF real numbers (floating point)
//   - [String] - represents PDF string objects
//   - [Name] - represents PDF name objects (e.g., /Type, /Font)
//   - [Array] - represents PDF arrays
//   - [Dict] - represents PDF dictionaries
//
// Additionally, [Stream] represents a PDF stream (dictionary + binary
// payload), and [Indirect] attaches a reference identity (an object
// number) to a value so that other objects can share it by reference.
//
// # Identity and Copies
//
// Every object supports Clone, a deep value copy. Indirect objects are
// deliberately excluded from deep copying: Clone on an *Indirect returns
// the receiver, so clones of graphs that share or cycle through indirect
// objects stay finite and keep referring to the same identities.
//
// # Streams
//
// Stream payloads can be compressed with the filters a writer produces
// ([Stream.ApplyFilter]) and decompressed again ([Stream.Decode]),
// including filter chains on the decode side.
package core
