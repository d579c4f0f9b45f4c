// Package document builds in-memory PDF documents.
//
// [Document] owns a numbered set of indirect objects anchored by a
// catalog and a page tree. [Document.Add] registers any object under a
// fresh number, [Document.AddPage] attaches page dictionaries to the
// tree, and [Document.AddImage]/[Document.AddJPEG] build image XObjects.
// A Document satisfies writer.Source, so writer.WriteDocument can
// serialize it to a file.
package document
