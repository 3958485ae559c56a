package memory

// memory layout constants
const (
	// Size of the addressable memory in bytes
	Size = 4096

	// AddressMask limits every address to the 12 bit address space
	AddressMask = Size - 1

	// ProgramStart is where the program image is loaded and where PC starts
	ProgramStart = 0x200

	// MaxProgramSize is the largest program image that fits behind ProgramStart
	MaxProgramSize = Size - ProgramStart
)

// Memory is the flat 4 KB address space.
// Every access wraps around instead of faulting.
type Memory struct {
	data [Size]byte
}

// New returns zeroed memory
func New() *Memory {
	return &Memory{}
}

// Mask maps any address into the 12 bit address space
func Mask(addr uint16) uint16 {
	return addr & AddressMask
}

// Read returns the byte at addr (wrapped)
func (m *Memory) Read(addr uint16) byte {
	return m.data[Mask(addr)]
}

// Write stores b at addr (wrapped)
func (m *Memory) Write(addr uint16, b byte) {
	m.data[Mask(addr)] = b
}

// ReadWord reads 16 bit big endian word.
// both byte addresses are wrapped independently, so a word at 0xFFF
// takes its low byte from 0x000.
func (m *Memory) ReadWord(addr uint16) uint16 {
	return uint16(m.Read(addr))<<8 | uint16(m.Read(addr+1))
}

// Load copies data into memory starting at addr.
// bytes past the end of the address space wrap to the beginning.
func (m *Memory) Load(addr uint16, data []byte) {
	for i, b := range data {
		m.Write(addr+uint16(i), b)
	}
}

// Reset clears the whole address space
func (m *Memory) Reset() {
	m.data = [Size]byte{}
}
