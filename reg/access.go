package reg

import (
	"context"
	"encoding/binary"
	"fmt"
)

// Transport is the minimal wire contract Access needs. It mirrors
// transport.Transport; Access takes this narrower interface so the reg package
// does not import transport.
type Transport interface {
	Transfer(ctx context.Context, out []byte) ([]byte, error)
}

// EventSink observes register reads and writes for diagnostics. NewAccess installs a
// no-op sink by default.
type EventSink interface {
	RegRead(name string, raw []byte)
	RegWrite(name string, raw []byte)
}

type noopSink struct{}

func (noopSink) RegRead(string, []byte)  {}
func (noopSink) RegWrite(string, []byte) {}

// Value is a register's in-memory cache: its descriptor plus up to 64 packed bits.
// Unpack keeps only the first 8 bytes of a register, so the bulk buffers (ACC_MEM,
// TX_BUFFER, RX_BUFFER) go through Access.ReadRaw/WriteRaw instead.
type Value struct {
	Def    *Def
	Packed uint64
}

// Unpack decodes raw little-endian register bytes into a Value.
func Unpack(d *Def, raw []byte) (Value, error) {
	if d.width() > 64 {
		return Value{}, fmt.Errorf("reg: %s is %d bits wide, too wide for Value", d.Name, d.width())
	}
	var buf [8]byte
	copy(buf[:], raw)
	return Value{Def: d, Packed: binary.LittleEndian.Uint64(buf[:])}, nil
}

// Pack encodes the Value back to raw little-endian bytes of Def.Length size.
func (v Value) Pack() []byte {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], v.Packed)
	out := make([]byte, v.Def.Length)
	copy(out, buf[:])
	return out
}

// Get returns the named field's value, right-justified.
func (v Value) Get(field string) (uint64, error) {
	off, bits, ok := v.Def.fieldSpan(field)
	if !ok {
		return 0, &ErrUnknownField{Register: v.Def.Name, Field: field}
	}
	return (v.Packed >> off) & fieldMask(bits), nil
}

// Set returns a copy of v with the named field replaced by val. It fails if the field
// is unknown or if val does not fit in the field's bit width.
func (v Value) Set(field string, val uint64) (Value, error) {
	off, bits, ok := v.Def.fieldSpan(field)
	if !ok {
		return Value{}, &ErrUnknownField{Register: v.Def.Name, Field: field}
	}
	mask := fieldMask(bits)
	if val&^mask != 0 {
		return Value{}, &ErrFieldOverflow{Register: v.Def.Name, Field: field, Value: val, Bits: bits}
	}
	out := v
	out.Packed = (v.Packed &^ (mask << off)) | ((val & mask) << off)
	return out, nil
}

// FieldValues returns every non-reserved field's name and current value, in
// declaration order, for diagnostic rendering.
func (v Value) FieldValues() []FieldValue {
	fvs := make([]FieldValue, 0, len(v.Def.Fields))
	var off uint
	for _, f := range v.Def.Fields {
		if !f.reserved() {
			fvs = append(fvs, FieldValue{
				Name:  f.Name,
				Value: (v.Packed >> off) & fieldMask(f.Bits),
			})
		}
		off += f.Bits
	}
	return fvs
}

// FieldValue is one named field's current value, as returned by Value.FieldValues.
type FieldValue struct {
	Name  string
	Value uint64
}

// Access is the register read/write layer over a Transport: packed-value reads and
// writes plus the raw-byte bypass path ACC_MEM/TX_BUFFER/RX_BUFFER need.
type Access struct {
	cat       *Catalog
	transport Transport
	sink      EventSink
}

// NewAccess builds an Access over the given transport and catalog, with a no-op sink.
func NewAccess(cat *Catalog, t Transport) *Access {
	return &Access{cat: cat, transport: t, sink: noopSink{}}
}

// WithEventSink returns a copy of a that reports reads/writes to sink.
func (a *Access) WithEventSink(sink EventSink) *Access {
	out := *a
	out.sink = sink
	return &out
}

// Catalog returns the register catalog this Access was built with.
func (a *Access) Catalog() *Catalog { return a.cat }

// transferRaw issues a single SPI transaction for def: an address header, optionally
// followed by payload bytes to write, and returns the payload portion of the reply
// (the Transport echoes back len(hdr)+len(payload) bytes regardless of the underlying
// transport, per transport.Transport's contract).
func (a *Access) transferRaw(ctx context.Context, def *Def, write bool, payload []byte) ([]byte, error) {
	hdr := def.AddrHeader(write)
	out := make([]byte, len(hdr)+len(payload))
	copy(out, hdr)
	copy(out[len(hdr):], payload)
	in, err := a.transport.Transfer(ctx, out)
	if err != nil {
		return nil, fmt.Errorf("reg: %s transfer: %w", def.Name, err)
	}
	if len(in) < len(hdr) {
		return nil, fmt.Errorf("reg: %s transfer: short reply (%d bytes)", def.Name, len(in))
	}
	return in[len(hdr):], nil
}

// Read fetches and unpacks the named register.
func (a *Access) Read(ctx context.Context, name string) (Value, error) {
	d, ok := a.cat.Lookup(name)
	if !ok {
		return Value{}, &ErrUnknownRegister{Name: name}
	}
	raw, err := a.ReadRaw(ctx, d)
	if err != nil {
		return Value{}, err
	}
	return Unpack(d, raw)
}

// ReadRaw fetches d's raw bytes without requiring it to fit in a 64-bit Value; this is
// the only way to read ACC_MEM, TX_BUFFER or RX_BUFFER.
func (a *Access) ReadRaw(ctx context.Context, d *Def) ([]byte, error) {
	return a.ReadRawN(ctx, d, d.Length)
}

// ReadRawN is ReadRaw but reads n bytes instead of d.Length; the OTP upper-word read
// fetches fewer bytes from OTP_RDAT than the register's declared length.
func (a *Access) ReadRawN(ctx context.Context, d *Def, n int) ([]byte, error) {
	payload := make([]byte, n)
	raw, err := a.transferRaw(ctx, d, false, payload)
	if err != nil {
		return nil, err
	}
	a.sink.RegRead(d.Name, raw)
	return raw, nil
}

// Write packs and stores v to its register.
func (a *Access) Write(ctx context.Context, v Value) error {
	return a.WriteRaw(ctx, v.Def, v.Pack())
}

// WriteRaw stores raw bytes to d, bypassing the Value/Pack abstraction; used for
// ACC_MEM/TX_BUFFER/RX_BUFFER bulk payload transfer, which goes straight to the
// buffer files rather than through a packed 64-bit value.
func (a *Access) WriteRaw(ctx context.Context, d *Def, raw []byte) error {
	if _, err := a.transferRaw(ctx, d, true, raw); err != nil {
		return err
	}
	a.sink.RegWrite(d.Name, raw)
	return nil
}

// Set reads name, applies field=val, and writes the result back in one
// read-modify-write step.
func (a *Access) Set(ctx context.Context, name, field string, val uint64) error {
	v, err := a.Read(ctx, name)
	if err != nil {
		return err
	}
	v, err = v.Set(field, val)
	if err != nil {
		return err
	}
	return a.Write(ctx, v)
}
