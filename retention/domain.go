package retention

import (
	"errors"
	"hash/crc32"
)

// The domain image is what actually crosses the sleep boundary: a small
// header followed by the state block and the log ring, CRC-protected as
// one unit. On target this lives in the low-power memory region; on a
// host build the Backing is a file.
//
//	header   12 bytes  magic, version, payload length, CRC32(payload)
//	state    StateSize
//	ring     RingSize
const (
	domainMagic   uint32 = 0x4552534E // "ERSN"
	domainVersion uint16 = 1

	headerSize = 12
	DomainSize = headerSize + StateSize + RingSize
)

var (
	// ErrBackingSize signals a Backing too small for the domain image.
	ErrBackingSize = errors.New("retention: backing smaller than domain image")
)

// Backing is the storage the domain image is read from at boot and
// written to at sleep-entry. Implementations must make Write all-or-
// nothing at the granularity they can; the CRC catches what they can't.
type Backing interface {
	Read(dst []byte) (int, error)
	Write(src []byte) error
}

// Domain owns one Store and one LogRing and moves them across the sleep
// boundary at exactly two checkpoints: Open (boot) and Checkpoint
// (sleep-entry). Nothing writes through the Backing between those.
type Domain struct {
	State *Store
	Log   *LogRing

	backing Backing
	buf     [DomainSize]byte

	freshBoot bool // header/CRC rejected or never written
}

// Open reads the domain image and resumes both components. A missing,
// short, or CRC-failing image is a first-ever boot: both components
// start from defaults and the marker is established at the next
// checkpoint. Open never fails on bad content, only on a Backing that
// cannot hold the image at all.
func Open(b Backing) (*Domain, error) {
	d := &Domain{
		State:   NewStore(),
		Log:     NewLogRing(),
		backing: b,
	}
	n, err := b.Read(d.buf[:])
	if err != nil || n < DomainSize || !d.headerValid() {
		d.freshBoot = true
		d.State.InitializeOrResume(nil)
		d.Log.Begin()
		return d, nil
	}
	d.State.InitializeOrResume(d.buf[headerSize : headerSize+StateSize])
	d.Log.Restore(d.buf[headerSize+StateSize : headerSize+StateSize+RingSize])
	return d, nil
}

func (d *Domain) headerValid() bool {
	if getU32(d.buf[0:]) != domainMagic {
		return false
	}
	if getU16(d.buf[4:]) != domainVersion {
		return false
	}
	length := getU16(d.buf[6:])
	if int(length) != StateSize+RingSize {
		return false
	}
	want := getU32(d.buf[8:])
	got := crc32.ChecksumIEEE(d.buf[headerSize : headerSize+StateSize+RingSize])
	return want == got
}

// FreshBoot reports whether Open found no trustworthy image, i.e. this
// is the node's first boot or the image was torn beyond the component
// validators even seeing it.
func (d *Domain) FreshBoot() bool { return d.freshBoot }

// Checkpoint serializes both components and writes the image back. Call
// once at sleep-entry; calling more often is harmless, just wasteful.
func (d *Domain) Checkpoint() error {
	putU32(d.buf[0:], domainMagic)
	putU16(d.buf[4:], domainVersion)
	putU16(d.buf[6:], uint16(StateSize+RingSize))
	d.State.EncodeTo(d.buf[headerSize : headerSize+StateSize])
	d.Log.EncodeTo(d.buf[headerSize+StateSize : headerSize+StateSize+RingSize])
	putU32(d.buf[8:], crc32.ChecksumIEEE(d.buf[headerSize:headerSize+StateSize+RingSize]))
	return d.backing.Write(d.buf[:])
}

// MemBacking is an in-memory Backing, used by tests and by targets whose
// retention region is directly addressable.
type MemBacking struct {
	buf [DomainSize]byte
	set bool
}

func (m *MemBacking) Read(dst []byte) (int, error) {
	if !m.set {
		return 0, nil
	}
	return copy(dst, m.buf[:]), nil
}

func (m *MemBacking) Write(src []byte) error {
	if len(src) > len(m.buf) {
		return ErrBackingSize
	}
	copy(m.buf[:], src)
	m.set = true
	return nil
}

// Corrupt flips bytes in the stored image, for tests that need a torn
// checkpoint without reaching into the codec.
func (m *MemBacking) Corrupt(off int, xor byte) {
	if m.set && off < len(m.buf) {
		m.buf[off] ^= xor
	}
}
