package document

import (
	"fmt"
	"sort"

	"github.com/vellumpdf/vellum/core"
)

// Document is an in-memory PDF document under construction: a numbered
// set of indirect objects plus the catalog and page tree that anchor
// them. Object numbers are assigned sequentially and never reused.
type Document struct {
	objects map[int]*core.Indirect
	nextNum int
	catalog *core.Indirect
	pages   *core.Indirect
	info    *core.Indirect
}

// Info carries the entries of the document information dictionary.
type Info struct {
	Title    string
	Author   string
	Subject  string
	Creator  string
	Producer string
}

// New creates an empty document with a catalog and an empty page tree
// root already allocated.
func New() *Document {
	d := &Document{
		objects: make(map[int]*core.Indirect),
		nextNum: 1,
	}
	d.pages = d.Add(core.Dict{
		"Type":  core.Name("Pages"),
		"Kids":  core.Array{},
		"Count": core.Int(0),
	})
	d.catalog = d.Add(core.Dict{
		"Type":  core.Name("Catalog"),
		"Pages": d.pages,
	})
	return d
}

// Add registers obj as a new indirect object, assigning it the next
// object number, and returns its handle.
func (d *Document) Add(obj core.Object) *core.Indirect {
	ind := core.NewIndirect(d.nextNum, obj)
	d.objects[ind.Number] = ind
	d.nextNum++
	return ind
}

// Object returns the indirect object with the given number.
func (d *Document) Object(number int) (*core.Indirect, bool) {
	ind, ok := d.objects[number]
	return ind, ok
}

// Objects returns all indirect objects in ascending number order.
func (d *Document) Objects() []*core.Indirect {
	out := make([]*core.Indirect, 0, len(d.objects))
	for _, ind := range d.objects {
		out = append(out, ind)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Number < out[j].Number })
	return out
}

// Len returns the number of indirect objects in the document.
func (d *Document) Len() int {
	return len(d.objects)
}

// Catalog returns the document catalog.
func (d *Document) Catalog() *core.Indirect {
	return d.catalog
}

// PageTreeRoot returns the root of the page tree.
func (d *Document) PageTreeRoot() *core.Indirect {
	return d.pages
}

// Info returns the information dictionary object, or nil if none was set.
func (d *Document) Info() *core.Indirect {
	return d.info
}

// SetInfo sets the document information dictionary. Empty fields are
// omitted.
func (d *Document) SetInfo(info Info) {
	dict := make(core.Dict)
	set := func(key, val string) {
		if val != "" {
			dict.Set(key, core.String(val))
		}
	}
	set("Title", info.Title)
	set("Author", info.Author)
	set("Subject", info.Subject)
	set("Creator", info.Creator)
	set("Producer", info.Producer)
	if d.info != nil {
		d.info.Value = dict
		return
	}
	d.info = d.Add(dict)
}

// AddPage registers dict as a new page object and attaches it to the page
// tree. The dictionary's Type and Parent entries are set by the document.
func (d *Document) AddPage(dict core.Dict) (*core.Indirect, error) {
	if dict == nil {
		return nil, fmt.Errorf("page dictionary is nil")
	}
	ind := d.Add(dict)
	if err := d.AttachPage(ind); err != nil {
		return nil, err
	}
	return ind, nil
}

// AttachPage links an already-registered page object into the page tree:
// it forces Type and Parent on the page dictionary, appends the page to
// the tree root's Kids, and bumps its Count.
func (d *Document) AttachPage(page *core.Indirect) error {
	dict, ok := page.Value.(core.Dict)
	if !ok {
		return fmt.Errorf("page object %d is not a dictionary: %T", page.Number, page.Value)
	}
	dict.Set("Type", core.Name("Page"))
	dict.Set("Parent", d.pages)

	tree := d.pages.Value.(core.Dict)
	kids, _ := tree.GetArray("Kids")
	tree.Set("Kids", append(kids, page))
	count, _ := tree.GetInt("Count")
	tree.Set("Count", count+1)
	return nil
}

// PageCount returns the number of pages attached to the page tree.
func (d *Document) PageCount() int {
	tree := d.pages.Value.(core.Dict)
	count, _ := tree.GetInt("Count")
	return int(count)
}
