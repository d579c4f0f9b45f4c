package collector

import (
	"bytes"
	"math"
	"strings"
	"testing"

	"github.com/vellumpdf/vellum/core"
	"github.com/vellumpdf/vellum/writer"
)

// pageFixture builds a small page graph:
//
//	3: page dict with Parent -> 2 (Pages node), Contents -> 4,
//	   Resources dict holding Font -> 5
//	2: page tree branch with Kids [3, 7] and Parent -> 6
//	4: content stream
//	5: font dict, also referenced from an inline annotation array
//	7: a sibling page that must stay invisible behind the branch node
//	6: a grandparent Pages node
func pageFixture() *core.Indirect {
	font := core.NewIndirect(5, core.Dict{
		"Type":     core.Name("Font"),
		"Subtype":  core.Name("Type1"),
		"BaseFont": core.Name("Helvetica"),
	})
	contents := core.NewIndirect(4, &core.Stream{
		Dict: core.Dict{},
		Data: []byte("BT /F1 12 Tf ET"),
	})
	page := core.NewIndirect(3, core.Dict{
		"Type":     core.Name("Page"),
		"Contents": contents,
		"Resources": core.Dict{
			"Font": core.Dict{"F1": font},
		},
		"Annots": core.Array{core.Dict{"FontAgain": font}},
	})
	sibling := core.NewIndirect(7, core.Dict{"Type": core.Name("Page")})
	grandparent := core.NewIndirect(6, core.Dict{
		"Type": core.Name("Pages"),
	})
	parent := core.NewIndirect(2, core.Dict{
		"Type":   core.Name("Pages"),
		"Kids":   core.Array{page, sibling},
		"Parent": grandparent,
		"Count":  core.Int(2),
	})
	page.Value.(core.Dict).Set("Parent", parent)
	sibling.Value.(core.Dict).Set("Parent", parent)
	grandparent.Value.(core.Dict).Set("Kids", core.Array{parent})
	return page
}

// TestCollectPage tests the reachable set of a typical page: its own
// resources plus the parent branch node, but nothing past the branch
func TestCollectPage(t *testing.T) {
	c := New(pageFixture())

	reach := c.Reachable()
	for _, num := range []int{3, 4, 5, 2} {
		if _, ok := reach[num]; !ok {
			t.Errorf("object %d should be reachable", num)
		}
	}
	// The branch node is recorded but not expanded, so neither the sibling
	// page nor the grandparent is reachable.
	for _, num := range []int{7, 6} {
		if _, ok := reach[num]; ok {
			t.Errorf("object %d should be hidden behind the page tree node", num)
		}
	}
	if c.Len() != 4 {
		t.Errorf("Len = %d, want 4", c.Len())
	}
}

// TestCollectSharedOnce tests that an object referenced from several
// places appears exactly once
func TestCollectSharedOnce(t *testing.T) {
	c := New(pageFixture())
	// Object 5 is referenced from Resources and from Annots. Len already
	// proves single counting; verify the entry is the one shared handle.
	reach := c.Reachable()
	font := reach[5]
	if font == nil {
		t.Fatal("shared font not collected")
	}
	if got, _ := font.Value.(core.Dict).GetName("BaseFont"); got != "Helvetica" {
		t.Errorf("collected the wrong object for number 5: %v", font.Value)
	}
}

// TestCollectCycles tests termination on self and mutual references
func TestCollectCycles(t *testing.T) {
	t.Run("self reference", func(t *testing.T) {
		self := core.NewIndirect(1, nil)
		self.Value = core.Dict{"Me": self}
		c := New(self)
		if c.Len() != 1 {
			t.Errorf("Len = %d, want 1", c.Len())
		}
	})

	t.Run("mutual references", func(t *testing.T) {
		a := core.NewIndirect(1, nil)
		b := core.NewIndirect(2, core.Dict{"Back": a})
		a.Value = core.Dict{"Next": b}
		c := New(a)
		if c.Len() != 2 {
			t.Errorf("Len = %d, want 2", c.Len())
		}
	})

	t.Run("cycle through an array", func(t *testing.T) {
		a := core.NewIndirect(1, nil)
		a.Value = core.Array{core.Int(0), core.Array{a}}
		c := New(a)
		if c.Len() != 1 {
			t.Errorf("Len = %d, want 1", c.Len())
		}
	})
}

// TestCollectDegenerateRoots tests roots that contain no indirect objects
func TestCollectDegenerateRoots(t *testing.T) {
	tests := []struct {
		name string
		root core.Object
		want int
	}{
		{"nil", nil, 0},
		{"scalar", core.Int(7), 0},
		{"inline dict", core.Dict{"A": core.Int(1)}, 0},
		{"inline array", core.Array{core.String("x")}, 0},
		{"page tree root", core.Dict{"Type": core.Name("Pages"), "Kids": core.Array{core.NewIndirect(9, core.Null{})}}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New(tt.root)
			if c.Len() != tt.want {
				t.Errorf("Len = %d, want %d", c.Len(), tt.want)
			}
			n, err := c.Length(nil)
			if err != nil {
				t.Fatalf("Length failed: %v", err)
			}
			if tt.want == 0 && n != 0 {
				t.Errorf("Length = %d, want 0", n)
			}
		})
	}
}

// TestCollectRootIsIndirect tests that an indirect root records itself
func TestCollectRootIsIndirect(t *testing.T) {
	root := core.NewIndirect(11, core.Int(5))
	c := New(root)
	if c.Len() != 1 {
		t.Errorf("Len = %d, want 1", c.Len())
	}
	if c.Reachable()[11] != root {
		t.Error("root entry should be the root handle itself")
	}
}

// TestCollectInlineNeverRecorded tests that direct containers are walked
// through without gaining entries
func TestCollectInlineNeverRecorded(t *testing.T) {
	leaf := core.NewIndirect(8, core.String("leaf"))
	root := core.Dict{
		"Nested": core.Dict{
			"Deeper": core.Array{core.Dict{"Ref": leaf}},
		},
	}
	c := New(root)
	if c.Len() != 1 {
		t.Errorf("Len = %d, want 1", c.Len())
	}
}

// TestReachableIsCopy tests that mutating the returned map leaves the
// collector intact
func TestReachableIsCopy(t *testing.T) {
	c := New(pageFixture())
	m := c.Reachable()
	for num := range m {
		delete(m, num)
	}
	if c.Len() != 4 {
		t.Errorf("Len = %d after mutating the returned map, want 4", c.Len())
	}
	if len(c.Reachable()) != 4 {
		t.Error("second Reachable call should see the full set")
	}
}

// TestLengthMatchesWriter tests that the billed total equals the sum of
// individual object measurements
func TestLengthMatchesWriter(t *testing.T) {
	c := New(pageFixture())

	var want int64
	for _, ind := range c.Reachable() {
		n, err := writer.ObjectLength(ind.Number, ind.Generation, ind.Value.Clone())
		if err != nil {
			t.Fatal(err)
		}
		want += n
	}

	got, err := c.Length(nil)
	if err != nil {
		t.Fatalf("Length failed: %v", err)
	}
	if got != want {
		t.Errorf("Length = %d, want %d", got, want)
	}
}

// TestLengthExclusion tests that excluded numbers are not billed and that
// exclusion is additive
func TestLengthExclusion(t *testing.T) {
	c := New(pageFixture())

	full, err := c.Length(nil)
	if err != nil {
		t.Fatal(err)
	}
	fontOnly, err := writer.ObjectLength(5, 0, c.Reachable()[5].Value.Clone())
	if err != nil {
		t.Fatal(err)
	}

	partial, err := c.Length(map[int]*core.Indirect{5: nil})
	if err != nil {
		t.Fatal(err)
	}
	if partial != full-fontOnly {
		t.Errorf("excluding the font: got %d, want %d", partial, full-fontOnly)
	}

	// Excluding everything reachable leaves nothing to bill.
	zero, err := c.Length(c.Reachable())
	if err != nil {
		t.Fatal(err)
	}
	if zero != 0 {
		t.Errorf("Length with full exclusion = %d, want 0", zero)
	}

	// Numbers outside the reachable set change nothing.
	same, err := c.Length(map[int]*core.Indirect{999: nil})
	if err != nil {
		t.Fatal(err)
	}
	if same != full {
		t.Errorf("excluding an unreachable number: got %d, want %d", same, full)
	}
}

// TestLengthRepeatable tests determinism across calls and across
// exclusion variations
func TestLengthRepeatable(t *testing.T) {
	c := New(pageFixture())
	a, err := c.Length(nil)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := c.Length(map[int]*core.Indirect{4: nil}); err != nil {
		t.Fatal(err)
	}
	b, err := c.Length(nil)
	if err != nil {
		t.Fatal(err)
	}
	if a != b {
		t.Errorf("Length differs between identical calls: %d vs %d", a, b)
	}
}

// TestLengthDoesNotMutate tests that measuring with compression never
// touches the live stream
func TestLengthDoesNotMutate(t *testing.T) {
	data := []byte("uncompressed content stream payload, repeated words words words")
	stream := core.NewIndirect(1, &core.Stream{Dict: core.Dict{}, Data: append([]byte(nil), data...)})
	root := core.Dict{"Contents": stream}

	c := New(root)
	if _, err := c.Length(nil, writer.WithCompression(-1)); err != nil {
		t.Fatalf("Length failed: %v", err)
	}

	s := stream.Value.(*core.Stream)
	if !bytes.Equal(s.Data, data) {
		t.Error("live stream payload was rewritten during measurement")
	}
	if s.Dict.Has("Filter") || s.Dict.Has("Length") {
		t.Error("live stream dictionary was rewritten during measurement")
	}
}

// TestLengthError tests that a serialization failure aborts the whole
// call
func TestLengthError(t *testing.T) {
	bad := core.NewIndirect(2, core.Real(math.NaN()))
	root := core.Dict{"Good": core.NewIndirect(1, core.Int(1)), "Bad": bad}

	c := New(root)
	n, err := c.Length(nil)
	if err == nil {
		t.Fatal("Length over a non-serializable object should fail")
	}
	if n != 0 {
		t.Errorf("failed Length returned a partial sum %d", n)
	}
	if !strings.Contains(err.Error(), "object 2") {
		t.Errorf("error should name the failing object: %v", err)
	}
}

// TestCollectIdempotent tests that repeated collectors over the same root
// agree
func TestCollectIdempotent(t *testing.T) {
	page := pageFixture()
	a := New(page)
	b := New(page)
	if a.Len() != b.Len() {
		t.Fatalf("collector sizes differ: %d vs %d", a.Len(), b.Len())
	}
	ra, rb := a.Reachable(), b.Reachable()
	for num := range ra {
		if rb[num] != ra[num] {
			t.Errorf("collectors disagree on object %d", num)
		}
	}
}
