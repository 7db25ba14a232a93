package ili9481

import (
	"periph.io/x/conn/v3"
	"tinygo.org/x/drivers"
)

// Transport is the byte transport the driver frames commands onto.
//
// Write and Read block until the transfer completes. Writable reports whether
// the transport can accept a new transfer; the driver polls it before every
// transfer, sleeping PollInterval between polls, with no timeout.
type Transport interface {
	Writable() bool
	Write(w []byte) error
	Read(fill byte, r []byte) error
}

// Txer is the minimal bus accepted by NewTransport. It is satisfied by periph's
// conn.Conn and spi.Conn as well as TinyGo's drivers.SPI.
type Txer interface {
	Tx(w, r []byte) error
}

var (
	_ Txer = conn.Conn(nil)
	_ Txer = drivers.SPI(nil)
)

// NewTransport adapts a blocking bus to Transport.
//
// If c reports a maximum transfer size through conn.Limits, writes are split
// accordingly.
func NewTransport(c Txer) Transport {
	t := &txTransport{c: c}
	if l, ok := c.(conn.Limits); ok {
		t.max = l.MaxTxSize()
	}
	return t
}

type txTransport struct {
	c   Txer
	max int    // 0 means unlimited
	buf []byte // dummy bytes clocked out during reads
}

// Writable always reports true; Tx on these buses blocks until done.
func (t *txTransport) Writable() bool {
	return true
}

func (t *txTransport) Write(w []byte) error {
	for len(w) > 0 {
		n := len(w)
		if t.max > 0 && n > t.max {
			n = t.max
		}
		if err := t.c.Tx(w[:n], nil); err != nil {
			return err
		}
		w = w[n:]
	}
	return nil
}

func (t *txTransport) Read(fill byte, r []byte) error {
	if cap(t.buf) < len(r) {
		t.buf = make([]byte, len(r))
	}
	w := t.buf[:len(r)]
	for i := range w {
		w[i] = fill
	}
	return t.c.Tx(w, r)
}
