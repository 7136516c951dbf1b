package reg

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestCatalogLookup(t *testing.T) {
	cat := NewCatalog()
	d, ok := cat.Lookup("SYS_CFG")
	require.True(t, ok)
	assert.EqualValues(t, 0x04, d.FileID)
	assert.False(t, d.HasSub())
	assert.Equal(t, 4, d.Length)

	_, ok = cat.Lookup("NOT_A_REGISTER")
	assert.False(t, ok)
}

func TestCatalogAllCoversKnownRegisters(t *testing.T) {
	cat := NewCatalog()
	names := map[string]bool{}
	for _, d := range cat.All() {
		names[d.Name] = true
	}
	for _, want := range []string{
		"DEV_ID", "EUI", "PANADR", "SYS_CFG", "SYS_TIME", "TX_FCTRL", "TX_BUFFER",
		"SYS_CTRL", "SYS_MASK", "SYS_STATUS", "RX_FINFO", "RX_BUFFER", "RX_TIME1",
		"TX_TIME1", "TX_ANTD", "ACK_RESP_T", "RX_SNIFF", "TX_POWER", "CHAN_CTRL",
		"SFD_LENGTH", "ACC_MEM", "LDE_CFG2", "DIAG_TMC", "PMSC_CTRL0",
	} {
		assert.True(t, names[want], "missing register %s", want)
	}
}

// AddrHeader must reproduce the three worked examples from the register address-header
// rules: a plain file id, a sub-indexed register under 0x80, and an extended sub-index
// register (LDE_CFG2, file 0x2e sub 0x1806) spanning 0x80.
func TestAddrHeaderWorkedExamples(t *testing.T) {
	cat := NewCatalog()

	sysCfg := cat.MustLookup("SYS_CFG")
	assert.Equal(t, []byte{0x04}, sysCfg.AddrHeader(false))
	assert.Equal(t, []byte{0x84}, sysCfg.AddrHeader(true))

	gpioRaw := cat.MustLookup("GPIO_RAW")
	assert.Equal(t, []byte{0x66, 0x28}, gpioRaw.AddrHeader(false))
	assert.Equal(t, []byte{0xE6, 0x28}, gpioRaw.AddrHeader(true))

	ldeCfg2 := cat.MustLookup("LDE_CFG2")
	assert.Equal(t, []byte{0x6E, 0x86, 0x30}, ldeCfg2.AddrHeader(false))
	assert.Equal(t, []byte{0xEE, 0x86, 0x30}, ldeCfg2.AddrHeader(true))
}

// Every register's field widths must sum to no more than 8*Length bits: the catalog
// table must not overflow its own declared register length.
func TestFieldWidthsFitDeclaredLength(t *testing.T) {
	cat := NewCatalog()
	for _, d := range cat.All() {
		if d.Fields == nil {
			continue
		}
		assert.LessOrEqualf(t, int(d.width()), d.Length*8, "%s: fields overflow declared length", d.Name)
	}
}

// Property: packing then unpacking a register's raw bytes is the identity, for every
// byte-length register representable as a Value (<=8 bytes).
func TestPackUnpackRoundTrip(t *testing.T) {
	cat := NewCatalog()
	var defs []*Def
	for _, d := range cat.All() {
		if d.Length <= 8 {
			defs = append(defs, d)
		}
	}
	require.NotEmpty(t, defs)

	rapid.Check(t, func(t *rapid.T) {
		d := defs[rapid.IntRange(0, len(defs)-1).Draw(t, "regIdx")]
		raw := rapid.SliceOfN(rapid.Byte(), d.Length, d.Length).Draw(t, "raw")

		v, err := Unpack(d, raw)
		require.NoError(t, err)
		assert.Equal(t, raw, v.Pack())
	})
}

// Property: Set(field, x) followed by Get(field) returns x, for any in-range x, and
// leaves every other field's bits untouched (reserved fields included).
func TestSetGetRoundTripPreservesOtherFields(t *testing.T) {
	cat := NewCatalog()
	var withFields []*Def
	for _, d := range cat.All() {
		if d.Length <= 8 && len(d.Fields) > 0 {
			withFields = append(withFields, d)
		}
	}
	require.NotEmpty(t, withFields)

	rapid.Check(t, func(t *rapid.T) {
		d := withFields[rapid.IntRange(0, len(withFields)-1).Draw(t, "regIdx")]
		raw := rapid.SliceOfN(rapid.Byte(), d.Length, d.Length).Draw(t, "raw")
		before, err := Unpack(d, raw)
		require.NoError(t, err)

		fIdx := rapid.IntRange(0, len(d.Fields)-1).Draw(t, "fieldIdx")
		f := d.Fields[fIdx]
		x := rapid.Uint64Range(0, fieldMask(f.Bits)).Draw(t, "val")

		after, err := before.Set(f.Name, x)
		require.NoError(t, err)

		got, err := after.Get(f.Name)
		require.NoError(t, err)
		assert.Equal(t, x, got)

		for _, other := range d.Fields {
			if other.Name == f.Name {
				continue
			}
			bv, _ := before.Get(other.Name)
			av, _ := after.Get(other.Name)
			assert.Equalf(t, bv, av, "%s.%s changed by setting %s", d.Name, other.Name, f.Name)
		}
	})
}

// Property: Set rejects any value that doesn't fit the field's width.
func TestSetRejectsOverflow(t *testing.T) {
	cat := NewCatalog()
	d := cat.MustLookup("SYS_CFG")
	zero, err := Unpack(d, make([]byte, d.Length))
	require.NoError(t, err)

	rapid.Check(t, func(t *rapid.T) {
		bits := uint(2) // PHR_MODE is a 2-bit field
		over := rapid.Uint64Range(fieldMask(bits)+1, fieldMask(bits)+1+0xff).Draw(t, "val")
		_, err := zero.Set("PHR_MODE", over)
		require.Error(t, err)
		var overflow *ErrFieldOverflow
		assert.ErrorAs(t, err, &overflow)
	})
}

func TestGetSetUnknownField(t *testing.T) {
	cat := NewCatalog()
	d := cat.MustLookup("SYS_CFG")
	v, err := Unpack(d, make([]byte, d.Length))
	require.NoError(t, err)

	_, err = v.Get("NOPE")
	var unknown *ErrUnknownField
	assert.ErrorAs(t, err, &unknown)

	_, err = v.Set("NOPE", 1)
	assert.ErrorAs(t, err, &unknown)
}

func TestFieldValuesHidesReserved(t *testing.T) {
	cat := NewCatalog()
	d := cat.MustLookup("SYS_CFG")
	v, err := Unpack(d, make([]byte, d.Length))
	require.NoError(t, err)
	for _, fv := range v.FieldValues() {
		assert.NotEqual(t, byte('X'), fv.Name[0])
	}
}

// SYS_CFG with DIS_STXP=1, PHR_MODE=3, HIRQ_POL=1, RXM110K=1 and everything else zero
// packs to bits 18, 16-17, 9 and 22 respectively.
func TestSysCfgEncode(t *testing.T) {
	cat := NewCatalog()
	d := cat.MustLookup("SYS_CFG")
	v, err := Unpack(d, make([]byte, d.Length))
	require.NoError(t, err)
	for _, fv := range []struct {
		field string
		val   uint64
	}{
		{"DIS_STXP", 1}, {"PHR_MODE", 3}, {"HIRQ_POL", 1}, {"RXM110K", 1},
	} {
		v, err = v.Set(fv.field, fv.val)
		require.NoError(t, err)
	}
	assert.EqualValues(t, 0x00470200, v.Packed)
}
