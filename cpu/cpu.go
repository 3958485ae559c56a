package cpu

import (
	"math/rand/v2"

	"chip8/display"
	"chip8/memory"
	"chip8/timer"

	"github.com/retroenv/retrogolib/log"
)

const (
	// StackSize is the number of return addresses the call stack holds
	StackSize = 16

	// RegisterCount of the general purpose registers V0-VF
	RegisterCount = 16

	// FlagRegister is VF, shared between data and carry/borrow/collision flags
	FlagRegister = 0xF

	// InstructionSize in bytes
	InstructionSize = 2

	// CPU state: running or waiting for a key press (Fx0A)
	CPURUN  = 0
	WAITKEY = 1

	// number of executed instructions kept for diagnostics
	traceSize = 16
)

// Keypad is the read-only key state the CPU consumes
type Keypad interface {
	IsDown(key byte) bool
	// FirstDown returns the lowest held key
	FirstDown() (byte, bool)
}

// CPU owns the register file, call stack and timers and executes
// instructions against memory and the framebuffer.
type CPU struct {
	V     [RegisterCount]byte
	I     uint16
	PC    uint16
	Stack [StackSize]uint16
	SP    byte

	Timers timer.Timers
	State  int

	// register receiving the key while in WAITKEY state
	waitRegister byte

	// WrapSprites wraps sprite pixels past the framebuffer edges instead of clipping them
	WrapSprites bool

	// Trace logs every executed instruction at debug level
	Trace bool

	// Rand is the random byte source of RND
	Rand func() byte

	mem    *memory.Memory
	fb     *display.Framebuffer
	keys   Keypad
	log    *log.Logger
	trace  *TraceQueue
	redraw bool

	// primary opcode groups, indexed by the top nibble of the instruction.
	// groups with sub-selectors dispatch further through the maps below.
	groupOpcodes  [16]func(uint16)
	systemOpcodes map[uint16]func(uint16) // 0x00nn
	aluOpcodes    map[uint16]func(uint16) // 0x8xyn
	keyOpcodes    map[uint16]func(uint16) // 0xExnn
	miscOpcodes   map[uint16]func(uint16) // 0xFxnn
}

// New initializes and returns the CPU.
// logger is the diagnostic sink for unknown instructions.
func New(mem *memory.Memory, fb *display.Framebuffer, keys Keypad, logger *log.Logger) *CPU {
	c := CPU{}
	c.mem = mem
	c.fb = fb
	c.keys = keys
	c.log = logger
	c.trace = NewQueue(traceSize)
	c.Rand = func() byte { return byte(rand.Uint32()) }

	c.groupOpcodes[0x0] = c.systemOp
	c.groupOpcodes[0x1] = c.jpOp
	c.groupOpcodes[0x2] = c.callOp
	c.groupOpcodes[0x3] = c.seByteOp
	c.groupOpcodes[0x4] = c.sneByteOp
	c.groupOpcodes[0x5] = c.seRegOp
	c.groupOpcodes[0x6] = c.ldByteOp
	c.groupOpcodes[0x7] = c.addByteOp
	c.groupOpcodes[0x8] = c.aluOp
	c.groupOpcodes[0x9] = c.sneRegOp
	c.groupOpcodes[0xA] = c.ldIOp
	c.groupOpcodes[0xB] = c.jpV0Op
	c.groupOpcodes[0xC] = c.rndOp
	c.groupOpcodes[0xD] = c.drwOp
	c.groupOpcodes[0xE] = c.keyOp
	c.groupOpcodes[0xF] = c.miscOp

	c.systemOpcodes = map[uint16]func(uint16){
		0xE0: c.clsOp,
		0xEE: c.retOp,
	}

	c.aluOpcodes = map[uint16]func(uint16){
		0x0: c.ldRegOp,
		0x1: c.orOp,
		0x2: c.andOp,
		0x3: c.xorOp,
		0x4: c.addRegOp,
		0x5: c.subOp,
		0x6: c.shrOp,
		0x7: c.subnOp,
		0xE: c.shlOp,
	}

	c.keyOpcodes = map[uint16]func(uint16){
		0x9E: c.skpOp,
		0xA1: c.sknpOp,
	}

	c.miscOpcodes = map[uint16]func(uint16){
		0x07: c.ldVxDTOp,
		0x0A: c.ldVxKOp,
		0x15: c.ldDTVxOp,
		0x18: c.ldSTVxOp,
		0x1E: c.addIVxOp,
		0x29: c.ldFVxOp,
		0x33: c.ldBVxOp,
		0x55: c.ldIVxOp,
		0x65: c.ldVxIOp,
	}

	c.Reset()
	return &c
}

// Reset puts the CPU into its power-on state. Memory and framebuffer are untouched.
func (c *CPU) Reset() {
	c.V = [RegisterCount]byte{}
	c.Stack = [StackSize]uint16{}
	c.I = 0
	c.SP = 0
	c.PC = memory.ProgramStart
	c.Timers.Reset()
	c.State = CPURUN
	c.waitRegister = 0
}

// Fetch next instruction from memory and advance PC past it.
// both bytes are read with wrapped addresses.
func (c *CPU) Fetch() uint16 {
	instruction := c.mem.ReadWord(c.PC)
	c.PC += InstructionSize
	return instruction
}

// Decode returns the function executing instr, or nil for an unknown encoding
func (c *CPU) Decode(instr uint16) func(uint16) {
	var table map[uint16]func(uint16)
	var sub uint16

	switch instr >> 12 {
	case 0x0:
		table, sub = c.systemOpcodes, instr&0x00FF
	case 0x8:
		table, sub = c.aluOpcodes, instr&0x000F
	case 0xE:
		table, sub = c.keyOpcodes, instr&0x00FF
	case 0xF:
		table, sub = c.miscOpcodes, instr&0x00FF
	default:
		return c.groupOpcodes[instr>>12]
	}

	if _, ok := table[sub]; !ok {
		return nil
	}
	return c.groupOpcodes[instr>>12]
}

// Step executes a single instruction and reports whether the framebuffer was
// modified. While waiting for a key no instruction is fetched; the keypad is
// polled instead.
func (c *CPU) Step() bool {
	if c.State == WAITKEY {
		c.pollKeys()
		return false
	}

	address := c.PC
	instruction := c.Fetch()
	c.trace.Enqueue(Entry{Address: address, Opcode: instruction})
	if c.Trace {
		c.log.Debug("Executing",
			log.Hex("address", address),
			log.Hex("opcode", instruction),
			log.String("instruction", Mnemonic(instruction)))
	}

	opcode := c.Decode(instruction)
	if opcode == nil {
		c.unknown(address, instruction)
		return false
	}

	c.redraw = false
	opcode(instruction)
	return c.redraw
}

// KeyDown resolves a pending key wait with key k.
// It is a no-op while the CPU is running.
func (c *CPU) KeyDown(k byte) {
	if c.State != WAITKEY {
		return
	}
	c.V[c.waitRegister] = k & 0x0F
	c.State = CPURUN
}

// Waiting reports whether execution is suspended until a key press
func (c *CPU) Waiting() bool {
	return c.State == WAITKEY
}

// pollKeys resolves the key wait with the lowest held key, if any
func (c *CPU) pollKeys() {
	if c.keys == nil {
		return
	}
	if k, ok := c.keys.FirstDown(); ok {
		c.KeyDown(k)
	}
}

// unknown reports an unsupported instruction; execution continues after it
func (c *CPU) unknown(address, instruction uint16) {
	c.log.Warn("Unknown instruction",
		log.Hex("opcode", instruction),
		log.Hex("address", address))

	if !c.Trace {
		return
	}
	c.log.Debug("Recent instructions", log.Int("count", c.trace.Len()))
	for !c.trace.IsEmpty() {
		e, _ := c.trace.Dequeue()
		c.log.Debug("Trace",
			log.Hex("address", e.Address),
			log.Hex("opcode", e.Opcode),
			log.String("instruction", Mnemonic(e.Opcode)))
	}
}

// push return address onto the call stack. the stack pointer wraps,
// so the 17th nested call overwrites the oldest frame.
func (c *CPU) push(addr uint16) {
	c.Stack[c.SP&(StackSize-1)] = addr
	c.SP = (c.SP + 1) & (StackSize - 1)
}

// pop return address from the call stack
func (c *CPU) pop() uint16 {
	c.SP = (c.SP - 1) & (StackSize - 1)
	return c.Stack[c.SP]
}

// operand helpers

func regX(instruction uint16) uint16 {
	return (instruction >> 8) & 0x0F
}

func regY(instruction uint16) uint16 {
	return (instruction >> 4) & 0x0F
}

func nibble(instruction uint16) uint16 {
	return instruction & 0x000F
}

func nn(instruction uint16) byte {
	return byte(instruction & 0x00FF)
}

func nnn(instruction uint16) uint16 {
	return instruction & 0x0FFF
}
