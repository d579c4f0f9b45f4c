package writer

import (
	"fmt"
	"io"
	"sort"

	"github.com/vellumpdf/vellum/core"
)

// Source is the view of a document the file writer needs: its indirect
// objects in ascending object-number order, the catalog, and optionally an
// information dictionary.
type Source interface {
	Objects() []*core.Indirect
	Catalog() *core.Indirect
	Info() *core.Indirect
}

// header is the PDF version line plus the conventional binary-marker
// comment that keeps transfer tools treating the file as binary.
var header = []byte("%PDF-1.7\n%\xe2\xe3\xcf\xd3\n")

// WriteDocument serializes a complete PDF file: header, object bodies in
// ascending number order, a classic cross-reference table, and the
// trailer. Encoder options apply to every object body.
func WriteDocument(w io.Writer, src Source, opts ...Option) error {
	catalog := src.Catalog()
	if catalog == nil {
		return fmt.Errorf("document has no catalog")
	}

	cw := NewCountingTee(w)
	enc := NewEncoder(cw, opts...)

	if _, err := cw.Write(header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	objects := src.Objects()
	offsets := make(map[int]int64, len(objects))
	maxNum := 0
	for _, ind := range objects {
		if ind == nil {
			continue
		}
		if _, dup := offsets[ind.Number]; dup {
			return fmt.Errorf("duplicate object number %d", ind.Number)
		}
		offsets[ind.Number] = cw.Count()
		if err := enc.EncodeIndirect(ind.Number, ind.Generation, ind.Value); err != nil {
			return fmt.Errorf("writing object %d: %w", ind.Number, err)
		}
		if ind.Number > maxNum {
			maxNum = ind.Number
		}
	}

	xrefOffset := cw.Count()
	if err := writeXref(cw, offsets); err != nil {
		return fmt.Errorf("writing xref: %w", err)
	}

	trailer := core.Dict{
		"Size": core.Int(maxNum + 1),
		"Root": catalog,
	}
	if info := src.Info(); info != nil {
		trailer.Set("Info", info)
	}
	if _, err := io.WriteString(cw, "trailer\n"); err != nil {
		return err
	}
	if err := enc.Encode(trailer); err != nil {
		return fmt.Errorf("writing trailer: %w", err)
	}
	_, err := fmt.Fprintf(cw, "\nstartxref\n%d\n%%%%EOF\n", xrefOffset)
	return err
}

// writeXref emits a classic cross-reference table. Object 0 is the head
// of the free list; allocated numbers are grouped into contiguous
// subsections.
func writeXref(w io.Writer, offsets map[int]int64) error {
	numbers := make([]int, 0, len(offsets)+1)
	numbers = append(numbers, 0)
	for num := range offsets {
		if num != 0 {
			numbers = append(numbers, num)
		}
	}
	sort.Ints(numbers)

	if _, err := io.WriteString(w, "xref\n"); err != nil {
		return err
	}
	for i := 0; i < len(numbers); {
		// Extend the subsection while numbers stay contiguous.
		j := i + 1
		for j < len(numbers) && numbers[j] == numbers[j-1]+1 {
			j++
		}
		if _, err := fmt.Fprintf(w, "%d %d\n", numbers[i], j-i); err != nil {
			return err
		}
		for _, num := range numbers[i:j] {
			if num == 0 {
				if _, err := io.WriteString(w, "0000000000 65535 f \n"); err != nil {
					return err
				}
				continue
			}
			if _, err := fmt.Fprintf(w, "%010d %05d n \n", offsets[num], 0); err != nil {
				return err
			}
		}
		i = j
	}
	return nil
}
