package transport

import (
	"testing"
	"time"

	"github.com/kidoman/embd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeSPI counts transactions and echoes a canned response, so the dedup test can
// verify that a retried request does not reach the SPI bus a second time.
type fakeSPI struct {
	transfers int
	response  []byte
}

func (f *fakeSPI) TransferAndReceiveData(data []uint8) error {
	f.transfers++
	copy(data, f.response)
	return nil
}

func (f *fakeSPI) Write(p []byte) (int, error)                { return len(p), nil }
func (f *fakeSPI) ReceiveData(n int) ([]uint8, error)         { return make([]uint8, n), nil }
func (f *fakeSPI) TransferAndReceiveByte(b byte) (byte, error) { return b, nil }
func (f *fakeSPI) ReceiveByte() (byte, error)                 { return 0, nil }
func (f *fakeSPI) Close() error                               { return nil }

var _ embd.SPIBus = (*fakeSPI)(nil)

// fakePin records Write and SetDirection calls.
type fakePin struct {
	writes []int
	dirs   []embd.Direction
}

func (f *fakePin) N() int                                  { return 0 }
func (f *fakePin) Write(val int) error                     { f.writes = append(f.writes, val); return nil }
func (f *fakePin) Read() (int, error)                      { return 0, nil }
func (f *fakePin) TimePulse(int) (time.Duration, error)    { return 0, nil }
func (f *fakePin) SetDirection(dir embd.Direction) error   { f.dirs = append(f.dirs, dir); return nil }
func (f *fakePin) ActiveLow(bool) error                    { return nil }
func (f *fakePin) PullUp() error                           { return nil }
func (f *fakePin) PullDown() error                         { return nil }
func (f *fakePin) Close() error                             { return nil }
func (f *fakePin) Cleanup() error                          { return nil }
func (f *fakePin) Watch(embd.Edge, func(embd.DigitalPin)) error { return nil }
func (f *fakePin) StopWatching() error                     { return nil }

var _ embd.DigitalPin = (*fakePin)(nil)

func newTestServer(spi *fakeSPI) (*TunnelServer, *fakePin, *fakePin) {
	reset := &fakePin{}
	nReset := &fakePin{}
	return &TunnelServer{spi: spi, reset: reset, nReset: nReset, irq: &fakePin{}}, reset, nReset
}

// A repeated sequence number must be answered from the reply cache without touching
// the SPI bus again, so a client retry after a lost reply cannot double-apply commands.
func TestServerDedupResendsCachedReply(t *testing.T) {
	spi := &fakeSPI{response: []byte{0x00, 0x30, 0x01, 0xCA, 0xDE}}
	srv, _, _ := newTestServer(spi)

	req := []byte{7, 5, 0x00, 0, 0, 0, 0} // read DEV_ID
	first := srv.processRequest(req)
	require.NotNil(t, first)
	assert.Equal(t, 1, spi.transfers)
	assert.EqualValues(t, 7, first[0])
	assert.EqualValues(t, ansVal, first[2]) // read response marker

	second := srv.processRequest(req)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, spi.transfers) // no new SPI transaction

	req2 := []byte{8, 5, 0x00, 0, 0, 0, 0}
	third := srv.processRequest(req2)
	require.NotNil(t, third)
	assert.EqualValues(t, 8, third[0])
	assert.Equal(t, 2, spi.transfers)
}

// A write command's response must keep its echoed header byte rather than the
// read-answer marker.
func TestServerWriteResponseNotRewritten(t *testing.T) {
	spi := &fakeSPI{response: []byte{0x84, 0x00}}
	srv, _, _ := newTestServer(spi)

	reply := srv.processRequest([]byte{1, 2, 0x84, 0x55})
	require.NotNil(t, reply)
	assert.EqualValues(t, 0x84, reply[2])
}

// A single-byte resetVal command asserts the reset line and drives NRST low; any other
// single-byte command releases both.
func TestServerResetCommands(t *testing.T) {
	spi := &fakeSPI{}
	srv, reset, nReset := newTestServer(spi)

	reply := srv.processRequest([]byte{1, 1, resetVal})
	require.NotNil(t, reply)
	require.Equal(t, []int{embd.High}, reset.writes)
	require.Equal(t, []embd.Direction{embd.Out}, nReset.dirs)
	require.Equal(t, []int{embd.Low}, nReset.writes)

	reply = srv.processRequest([]byte{2, 1, 0x00})
	require.NotNil(t, reply)
	assert.Equal(t, []int{embd.High, embd.Low}, reset.writes)
	assert.Equal(t, []embd.Direction{embd.Out, embd.In}, nReset.dirs)
	assert.Equal(t, 0, spi.transfers)
}

// Requests too short to carry a command are ignored outright.
func TestServerIgnoresShortRequest(t *testing.T) {
	srv, _, _ := newTestServer(&fakeSPI{})
	assert.Nil(t, srv.processRequest([]byte{1, 0}))
	assert.Nil(t, srv.processRequest(nil))
}
