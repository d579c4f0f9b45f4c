// Package filters implements PDF stream filter codecs.
//
// Both directions are provided for the filters a write-side library needs:
//
//   - Flate (zlib): [FlateEncode], [FlateDecode]. Decoding supports the
//     TIFF and PNG predictors selected through [Params].
//   - ASCIIHex: [ASCIIHexEncode], [ASCIIHexDecode].
//   - ASCII85: [ASCII85Encode], [ASCII85Decode].
//   - RunLength: [RunLengthEncode], [RunLengthDecode].
//
// Encoders append the filter's end-of-data marker where the PDF syntax
// defines one. Decoders tolerate embedded whitespace and stop at the
// marker.
package filters
