// Package reg implements the DW1000 register catalog and register access layer: the
// SPI address-header encoding, little-endian bitfield packing, and the read / write /
// read-modify-write operations every register transaction goes through.
package reg

import "fmt"

// FieldDef names one bitfield within a register. Field order defines little-endian bit
// packing starting at bit 0. Reserved (gap-filling) fields are named with an "X" prefix;
// they round-trip through Set/Get/Pack/Unpack like any other field but are hidden from
// FieldValues.
type FieldDef struct {
	Name string
	Bits uint
}

// reserved reports whether this is a gap-filler field, hidden from diagnostic dumps.
func (f FieldDef) reserved() bool {
	return len(f.Name) > 0 && f.Name[0] == 'X'
}

// NoSub marks a Def that has no sub-index, i.e. a 1-byte address header.
const NoSub int32 = -1

// Def is an immutable register descriptor: file id, optional sub-index, byte length, and
// its ordered bitfields.
type Def struct {
	Name   string
	FileID byte // 6-bit file id, 0x00..0x3F
	Sub    int32
	Length int // register length in bytes
	Fields []FieldDef
}

// HasSub reports whether the register uses a sub-indexed (2 or 3-byte) address header.
func (d *Def) HasSub() bool { return d.Sub != NoSub }

// AddrHeader returns the 1-3 byte SPI address header for a read (write=false) or write
// (write=true) transaction: bit 7 of byte 0 is the write flag, bit 6 marks a sub-index,
// and sub-indices of 0x80 or more spill into a third, extended byte.
func (d *Def) AddrHeader(write bool) []byte {
	if !d.HasSub() {
		b := d.FileID & 0x3f
		if write {
			b |= 0x80
		}
		return []byte{b}
	}
	b0 := (d.FileID & 0x3f) | 0x40
	if write {
		b0 |= 0x80
	}
	sub := uint32(d.Sub)
	if sub < 0x80 {
		return []byte{b0, byte(sub)}
	}
	return []byte{b0, 0x80 | byte(sub&0x7f), byte(sub >> 7)}
}

// fieldSpan returns the bit offset and width of the named field, or ok=false if unknown.
func (d *Def) fieldSpan(name string) (offset uint, bits uint, ok bool) {
	var off uint
	for _, f := range d.Fields {
		if f.Name == name {
			return off, f.Bits, true
		}
		off += f.Bits
	}
	return 0, 0, false
}

// width returns the total number of packed bits across all fields.
func (d *Def) width() uint {
	var w uint
	for _, f := range d.Fields {
		w += f.Bits
	}
	return w
}

func fieldMask(bits uint) uint64 {
	if bits >= 64 {
		return ^uint64(0)
	}
	return (uint64(1) << bits) - 1
}

// ErrUnknownField is returned by Set/Get when the field name is not part of the register.
type ErrUnknownField struct {
	Register, Field string
}

func (e *ErrUnknownField) Error() string {
	return fmt.Sprintf("reg: %s has no field %q", e.Register, e.Field)
}

// ErrFieldOverflow is returned by Set when the value does not fit in the field's width.
type ErrFieldOverflow struct {
	Register, Field string
	Value           uint64
	Bits            uint
}

func (e *ErrFieldOverflow) Error() string {
	return fmt.Sprintf("reg: %s.%s = %#x overflows %d-bit field", e.Register, e.Field, e.Value, e.Bits)
}

// ErrUnknownRegister is returned by Catalog.Lookup callers that require a hit.
type ErrUnknownRegister struct{ Name string }

func (e *ErrUnknownRegister) Error() string { return fmt.Sprintf("reg: unknown register %q", e.Name) }

// Catalog is the ordered, named set of DW1000 register descriptors.
type Catalog struct {
	byName map[string]*Def
	order  []*Def
}

// NewCatalog builds a Catalog from the static descriptor table (see tables.go: defs()).
func NewCatalog() *Catalog {
	defs := defs()
	c := &Catalog{byName: make(map[string]*Def, len(defs)), order: make([]*Def, 0, len(defs))}
	for i := range defs {
		d := &defs[i]
		c.byName[d.Name] = d
		c.order = append(c.order, d)
	}
	return c
}

// Lookup returns the register descriptor by name.
func (c *Catalog) Lookup(name string) (*Def, bool) {
	d, ok := c.byName[name]
	return d, ok
}

// MustLookup is Lookup but panics on an unknown name; used for catalog-internal references
// where the name is a Go identifier, not attacker/caller controlled input.
func (c *Catalog) MustLookup(name string) *Def {
	d, ok := c.byName[name]
	if !ok {
		panic(&ErrUnknownRegister{Name: name})
	}
	return d
}

// All returns every register descriptor, in catalog definition order.
func (c *Catalog) All() []*Def {
	out := make([]*Def, len(c.order))
	copy(out, c.order)
	return out
}
