package cpu

import (
	"testing"

	"chip8/display"
	"chip8/font"
	"chip8/memory"

	"github.com/retroenv/retrogolib/assert"
	"github.com/retroenv/retrogolib/log"
)

// fakeKeys is a keypad with fixed key states
type fakeKeys [16]bool

func (k *fakeKeys) IsDown(key byte) bool {
	return k[key&0x0F]
}

func (k *fakeKeys) FirstDown() (byte, bool) {
	for i, down := range k {
		if down {
			return byte(i), true
		}
	}
	return 0, false
}

type fixture struct {
	c    *CPU
	mem  *memory.Memory
	fb   *display.Framebuffer
	keys *fakeKeys
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		mem:  memory.New(),
		fb:   display.New(display.Width, display.Height),
		keys: &fakeKeys{},
	}
	f.mem.Load(font.Start, font.Glyphs[:])
	f.c = New(f.mem, f.fb, f.keys, log.NewTestLogger(t))
	return f
}

// exec places instruction at PC and executes it
func (f *fixture) exec(instruction uint16) bool {
	f.mem.Write(f.c.PC, byte(instruction>>8))
	f.mem.Write(f.c.PC+1, byte(instruction))
	return f.c.Step()
}

func TestCPU_Reset(t *testing.T) {
	f := newFixture(t)
	assert.Equal(t, uint16(0x200), f.c.PC)
	assert.Equal(t, CPURUN, f.c.State)
}

func TestCPU_Fetch(t *testing.T) {
	tests := []struct {
		name   string
		pc     uint16
		want   uint16
		wantPC uint16
	}{
		{"program start", 0x200, 0x1234, 0x202},
		{"last byte wraps to zero", 0xFFF, 0xAB12, 0x1001},
		{"pc beyond address space", 0x1300, 0x5678, 0x1302},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.mem.Write(0x200, 0x12)
			f.mem.Write(0x201, 0x34)
			f.mem.Write(0xFFF, 0xAB)
			f.mem.Write(0x000, 0x12)
			f.mem.Write(0x300, 0x56)
			f.mem.Write(0x301, 0x78)

			f.c.PC = tt.pc
			if got := f.c.Fetch(); got != tt.want {
				t.Errorf("CPU.Fetch() = %#04x, want %#04x", got, tt.want)
			}
			if f.c.PC != tt.wantPC {
				t.Errorf("PC after fetch = %#x, want %#x", f.c.PC, tt.wantPC)
			}
		})
	}
}

func TestCPU_Decode(t *testing.T) {
	f := newFixture(t)
	tests := []struct {
		name        string
		instruction uint16
		known       bool
	}{
		{"CLS", 0x00E0, true},
		{"RET", 0x00EE, true},
		{"SYS is unsupported", 0x0123, false},
		{"JP", 0x1ABC, true},
		{"ALU SHL", 0x812E, true},
		{"ALU 8xy8 is unknown", 0x8128, false},
		{"SKP", 0xE19E, true},
		{"E group unknown", 0xE1FF, false},
		{"Fx65", 0xF565, true},
		{"F group unknown", 0xF5FF, false},
		{"DRW", 0xD125, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := f.c.Decode(tt.instruction)
			if (got != nil) != tt.known {
				t.Errorf("CPU.Decode(%#04x) known = %v, want %v", tt.instruction, got != nil, tt.known)
			}
		})
	}
}

func TestCPU_UnknownInstructionIsNoop(t *testing.T) {
	f := newFixture(t)
	f.c.V[3] = 7
	regs := f.c.V

	dirty := f.exec(0xFFFF)
	assert.False(t, dirty)
	assert.Equal(t, uint16(0x202), f.c.PC)
	assert.True(t, regs == f.c.V)

	// trace logging path
	f.c.Trace = true
	f.exec(0x0123)
	assert.Equal(t, uint16(0x204), f.c.PC)
	assert.True(t, f.c.trace.IsEmpty())
}

func TestCPU_Stack(t *testing.T) {
	f := newFixture(t)

	// 0x200 calls 0x300, which calls 0x310 and so on
	var returns []uint16
	for i := 0; i < StackSize+1; i++ {
		returns = append(returns, f.c.PC+2)
		target := uint16(0x300 + 0x10*i)
		f.exec(0x2000 | target)
		assert.Equal(t, target, f.c.PC)
	}
	// the 17th call wrapped the stack pointer and overwrote the first frame
	assert.Equal(t, byte(1), f.c.SP)
	assert.Equal(t, returns[StackSize], f.c.Stack[0])

	for i := StackSize; i >= 1; i-- {
		f.exec(0x00EE)
		assert.Equal(t, returns[i], f.c.PC)
	}
	// the outermost return lands on the overwritten address instead of returns[0]
	f.exec(0x00EE)
	assert.Equal(t, returns[StackSize], f.c.PC)
	assert.True(t, f.c.PC != returns[0])
}

func TestCPU_Jumps(t *testing.T) {
	f := newFixture(t)
	f.exec(0x1345)
	assert.Equal(t, uint16(0x345), f.c.PC)

	f.c.V[0] = 0x10
	f.exec(0xB400)
	assert.Equal(t, uint16(0x410), f.c.PC)
}

func TestCPU_Skips(t *testing.T) {
	tests := []struct {
		name        string
		vx, vy      byte
		instruction uint16
		skipped     bool
	}{
		{"SE byte equal", 0x42, 0, 0x3142, true},
		{"SE byte not equal", 0x41, 0, 0x3142, false},
		{"SNE byte equal", 0x42, 0, 0x4142, false},
		{"SNE byte not equal", 0x41, 0, 0x4142, true},
		{"SE reg equal", 5, 5, 0x5120, true},
		{"SE reg not equal", 5, 6, 0x5120, false},
		{"SNE reg equal", 5, 5, 0x9120, false},
		{"SNE reg not equal", 5, 6, 0x9120, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.c.V[1] = tt.vx
			f.c.V[2] = tt.vy
			f.exec(tt.instruction)
			want := uint16(0x202)
			if tt.skipped {
				want = 0x204
			}
			assert.Equal(t, want, f.c.PC)
		})
	}
}

func TestCPU_Loads(t *testing.T) {
	f := newFixture(t)
	f.exec(0x61AB)
	assert.Equal(t, byte(0xAB), f.c.V[1])

	f.exec(0x7160)
	assert.Equal(t, byte(0x0B), f.c.V[1]) // wraps
	assert.Equal(t, byte(0), f.c.V[FlagRegister])

	f.exec(0xAFFF)
	assert.Equal(t, uint16(0xFFF), f.c.I)
}

func TestCPU_Rnd(t *testing.T) {
	f := newFixture(t)
	f.c.Rand = func() byte { return 0xFF }

	f.exec(0xC300)
	assert.Equal(t, byte(0), f.c.V[3])

	f.exec(0xC30F)
	assert.Equal(t, byte(0x0F), f.c.V[3])

	// masking holds for the real source too
	f.c.Rand = New(f.mem, f.fb, nil, log.NewTestLogger(t)).Rand
	for i := 0; i < 32; i++ {
		f.exec(0xC300)
		assert.Equal(t, byte(0), f.c.V[3])
	}
}

func TestCPU_Timers(t *testing.T) {
	f := newFixture(t)
	f.c.V[4] = 30
	f.exec(0xF415)
	f.exec(0xF418)
	assert.Equal(t, byte(30), f.c.Timers.Delay)
	assert.Equal(t, byte(30), f.c.Timers.Sound)

	f.c.Timers.Tick()
	f.exec(0xF507)
	assert.Equal(t, byte(29), f.c.V[5])
}

func TestCPU_IndexOperations(t *testing.T) {
	f := newFixture(t)
	f.c.I = 0xFFF0
	f.c.V[2] = 0x20
	f.exec(0xF21E)
	// I is not masked on assignment
	assert.Equal(t, uint16(0x0010), f.c.I)

	f.c.I = 0x0FFF
	f.exec(0xF21E)
	assert.Equal(t, uint16(0x101F), f.c.I)

	f.c.V[2] = 0xA7
	f.exec(0xF229)
	assert.Equal(t, font.Address(0x7), f.c.I)
}

func TestCPU_BCD(t *testing.T) {
	tests := []struct {
		value byte
		want  [3]byte
	}{
		{157, [3]byte{1, 5, 7}},
		{0, [3]byte{0, 0, 0}},
		{255, [3]byte{2, 5, 5}},
		{9, [3]byte{0, 0, 9}},
	}

	for _, tt := range tests {
		f := newFixture(t)
		f.c.V[6] = tt.value
		f.c.I = 0x400
		f.exec(0xF633)
		got := [3]byte{f.mem.Read(0x400), f.mem.Read(0x401), f.mem.Read(0x402)}
		if got != tt.want {
			t.Errorf("BCD of %d = %v, want %v", tt.value, got, tt.want)
		}
	}

	// writes wrap at the end of memory
	f := newFixture(t)
	f.c.V[0] = 123
	f.c.I = 0xFFF
	f.exec(0xF033)
	assert.Equal(t, byte(1), f.mem.Read(0xFFF))
	assert.Equal(t, byte(2), f.mem.Read(0x000))
	assert.Equal(t, byte(3), f.mem.Read(0x001))
}

func TestCPU_RegisterBlockRoundTrip(t *testing.T) {
	for k := uint16(0); k < RegisterCount; k++ {
		f := newFixture(t)
		var want [RegisterCount]byte
		for i := range f.c.V {
			f.c.V[i] = byte(0x11*i + 3)
			want[i] = f.c.V[i]
		}
		f.c.I = 0x500

		f.exec(0xF055 | k<<8)
		for i := uint16(0); i <= k; i++ {
			f.c.V[i] = 0
		}
		f.exec(0xF065 | k<<8)

		if f.c.V != want {
			t.Errorf("k=%d: registers after round trip = %v, want %v", k, f.c.V, want)
		}
		// nothing past Vk was stored
		if k < RegisterCount-1 && f.mem.Read(0x500+k+1) != 0 {
			t.Errorf("k=%d: byte past V%X was written", k, k)
		}
		assert.Equal(t, uint16(0x500), f.c.I)
	}
}

func TestCPU_KeySkips(t *testing.T) {
	f := newFixture(t)
	f.c.V[1] = 0x0A
	f.keys[0xA] = true

	f.exec(0xE19E)
	assert.Equal(t, uint16(0x204), f.c.PC)
	f.exec(0xE1A1)
	assert.Equal(t, uint16(0x206), f.c.PC)

	f.keys[0xA] = false
	f.exec(0xE19E)
	assert.Equal(t, uint16(0x208), f.c.PC)
	f.exec(0xE1A1)
	assert.Equal(t, uint16(0x20C), f.c.PC)
}

func TestCPU_WaitKey(t *testing.T) {
	f := newFixture(t)
	f.exec(0xF30A)
	assert.True(t, f.c.Waiting())
	assert.Equal(t, uint16(0x202), f.c.PC)

	// no instruction is fetched while waiting
	f.mem.Write(0x202, 0x63)
	f.mem.Write(0x203, 0x99)
	f.c.Step()
	f.c.Step()
	assert.True(t, f.c.Waiting())
	assert.Equal(t, uint16(0x202), f.c.PC)

	f.keys[0x7] = true
	f.c.Step()
	assert.False(t, f.c.Waiting())
	assert.Equal(t, byte(0x7), f.c.V[3])

	f.c.Step()
	assert.Equal(t, byte(0x99), f.c.V[3])
}

func TestCPU_WaitKeyEvent(t *testing.T) {
	f := newFixture(t)
	f.c.KeyDown(0x5) // ignored while running
	f.exec(0xF20A)
	assert.True(t, f.c.Waiting())

	f.c.KeyDown(0xC)
	assert.False(t, f.c.Waiting())
	assert.Equal(t, byte(0xC), f.c.V[2])
}

func TestCPU_WaitKeyAlreadyHeld(t *testing.T) {
	f := newFixture(t)
	f.keys[0x2] = true
	f.keys[0x9] = true
	f.exec(0xF10A)
	assert.False(t, f.c.Waiting())
	assert.Equal(t, byte(0x2), f.c.V[1])
}
