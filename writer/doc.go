// Package writer serializes the object model as PDF syntax.
//
// [Encoder] turns any core.Object into bytes on an io.Writer, with
// deterministic output (sorted dictionary keys, fixed numeric formats)
// and optional flate compression of stream payloads. Nested indirect
// objects are always written as "N G R" references.
//
// [CountingWriter] is a byte sink that performs no I/O of its own: it
// discards (or tees) bytes while tracking a running offset. Combined with
// the encoder through [ObjectLength] it measures exactly the bytes a real
// write would produce, which is what the collector package uses to bill
// the cost of object subgraphs.
//
// [WriteDocument] emits a complete file: header, bodies, classic
// cross-reference table, and trailer.
package writer
