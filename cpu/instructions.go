package cpu

import (
	"chip8/font"
)

// Definition of all instructions.
// All follow the func (*CPU) (uint16) signature; PC already points past
// the instruction when they run.

// group dispatchers, the sub-selector was validated by Decode

func (c *CPU) systemOp(instruction uint16) {
	c.systemOpcodes[instruction&0x00FF](instruction)
}

func (c *CPU) aluOp(instruction uint16) {
	c.aluOpcodes[nibble(instruction)](instruction)
}

func (c *CPU) keyOp(instruction uint16) {
	c.keyOpcodes[instruction&0x00FF](instruction)
}

func (c *CPU) miscOp(instruction uint16) {
	c.miscOpcodes[instruction&0x00FF](instruction)
}

// skip the next instruction
func (c *CPU) skip() {
	c.PC += InstructionSize
}

// 00E0 - clear the screen
func (c *CPU) clsOp(instruction uint16) {
	c.fb.Clear()
	c.redraw = true
}

// 00EE - return from subroutine
func (c *CPU) retOp(instruction uint16) {
	c.PC = c.pop()
}

// 1nnn - jump
func (c *CPU) jpOp(instruction uint16) {
	c.PC = nnn(instruction)
}

// 2nnn - call subroutine
func (c *CPU) callOp(instruction uint16) {
	c.push(c.PC)
	c.PC = nnn(instruction)
}

// 3xnn - skip if Vx == nn
func (c *CPU) seByteOp(instruction uint16) {
	if c.V[regX(instruction)] == nn(instruction) {
		c.skip()
	}
}

// 4xnn - skip if Vx != nn
func (c *CPU) sneByteOp(instruction uint16) {
	if c.V[regX(instruction)] != nn(instruction) {
		c.skip()
	}
}

// 5xy0 - skip if Vx == Vy
func (c *CPU) seRegOp(instruction uint16) {
	if c.V[regX(instruction)] == c.V[regY(instruction)] {
		c.skip()
	}
}

// 6xnn - Vx = nn
func (c *CPU) ldByteOp(instruction uint16) {
	c.V[regX(instruction)] = nn(instruction)
}

// 7xnn - Vx += nn, no carry
func (c *CPU) addByteOp(instruction uint16) {
	c.V[regX(instruction)] += nn(instruction)
}

// 9xy0 - skip if Vx != Vy
func (c *CPU) sneRegOp(instruction uint16) {
	if c.V[regX(instruction)] != c.V[regY(instruction)] {
		c.skip()
	}
}

// Annn - I = nnn
func (c *CPU) ldIOp(instruction uint16) {
	c.I = nnn(instruction)
}

// Bnnn - jump to nnn + V0
func (c *CPU) jpV0Op(instruction uint16) {
	c.PC = nnn(instruction) + uint16(c.V[0])
}

// Cxnn - Vx = random & nn
func (c *CPU) rndOp(instruction uint16) {
	c.V[regX(instruction)] = c.Rand() & nn(instruction)
}

// Dxyn - draw n byte sprite from I at (Vx, Vy), VF = collision
func (c *CPU) drwOp(instruction uint16) {
	x := int(c.V[regX(instruction)])
	y := int(c.V[regY(instruction)])
	rows := make([]byte, nibble(instruction))
	for row := range rows {
		rows[row] = c.mem.Read(c.I + uint16(row))
	}

	c.V[FlagRegister] = 0
	if c.fb.DrawSprite(x, y, rows, c.WrapSprites) {
		c.V[FlagRegister] = 1
	}
	c.redraw = true
}

// 8xy_ register to register operations.
// VF is written after the result, so with x == F the flag wins.

// 8xy0 - Vx = Vy
func (c *CPU) ldRegOp(instruction uint16) {
	c.V[regX(instruction)] = c.V[regY(instruction)]
}

// 8xy1 - Vx |= Vy
func (c *CPU) orOp(instruction uint16) {
	c.V[regX(instruction)] |= c.V[regY(instruction)]
}

// 8xy2 - Vx &= Vy
func (c *CPU) andOp(instruction uint16) {
	c.V[regX(instruction)] &= c.V[regY(instruction)]
}

// 8xy3 - Vx ^= Vy
func (c *CPU) xorOp(instruction uint16) {
	c.V[regX(instruction)] ^= c.V[regY(instruction)]
}

// 8xy4 - Vx += Vy, VF = carry
func (c *CPU) addRegOp(instruction uint16) {
	x, y := regX(instruction), regY(instruction)
	sum := uint16(c.V[x]) + uint16(c.V[y])
	c.V[x] = byte(sum)
	c.V[FlagRegister] = byte(sum >> 8)
}

// 8xy5 - Vx -= Vy, VF = not borrow
func (c *CPU) subOp(instruction uint16) {
	x, y := regX(instruction), regY(instruction)
	vx, vy := c.V[x], c.V[y]
	c.V[x] = vx - vy
	c.V[FlagRegister] = boolToByte(vx >= vy)
}

// 8xy6 - Vx >>= 1, VF = shifted out bit
func (c *CPU) shrOp(instruction uint16) {
	x := regX(instruction)
	flag := c.V[x] & 0x01
	c.V[x] >>= 1
	c.V[FlagRegister] = flag
}

// 8xy7 - Vx = Vy - Vx, VF = not borrow
func (c *CPU) subnOp(instruction uint16) {
	x, y := regX(instruction), regY(instruction)
	vx, vy := c.V[x], c.V[y]
	c.V[x] = vy - vx
	c.V[FlagRegister] = boolToByte(vy >= vx)
}

// 8xyE - Vx <<= 1, VF = shifted out bit
func (c *CPU) shlOp(instruction uint16) {
	x := regX(instruction)
	flag := c.V[x] >> 7
	c.V[x] <<= 1
	c.V[FlagRegister] = flag
}

// Ex9E - skip if key Vx is down
func (c *CPU) skpOp(instruction uint16) {
	if c.keyDown(c.V[regX(instruction)]) {
		c.skip()
	}
}

// ExA1 - skip if key Vx is up
func (c *CPU) sknpOp(instruction uint16) {
	if !c.keyDown(c.V[regX(instruction)]) {
		c.skip()
	}
}

// Fx07 - Vx = delay timer
func (c *CPU) ldVxDTOp(instruction uint16) {
	c.V[regX(instruction)] = c.Timers.Delay
}

// Fx0A - wait for a key press, store it in Vx.
// a key already held resolves the wait right away.
func (c *CPU) ldVxKOp(instruction uint16) {
	c.waitRegister = byte(regX(instruction))
	c.State = WAITKEY
	c.pollKeys()
}

// Fx15 - delay timer = Vx
func (c *CPU) ldDTVxOp(instruction uint16) {
	c.Timers.Delay = c.V[regX(instruction)]
}

// Fx18 - sound timer = Vx
func (c *CPU) ldSTVxOp(instruction uint16) {
	c.Timers.Sound = c.V[regX(instruction)]
}

// Fx1E - I += Vx, no flag
func (c *CPU) addIVxOp(instruction uint16) {
	c.I += uint16(c.V[regX(instruction)])
}

// Fx29 - I = glyph address of the low nibble of Vx
func (c *CPU) ldFVxOp(instruction uint16) {
	c.I = font.Address(c.V[regX(instruction)])
}

// Fx33 - BCD of Vx at I, I+1, I+2
func (c *CPU) ldBVxOp(instruction uint16) {
	value := c.V[regX(instruction)]
	c.mem.Write(c.I, value/100)
	c.mem.Write(c.I+1, (value/10)%10)
	c.mem.Write(c.I+2, value%10)
}

// Fx55 - store V0..Vx at I
func (c *CPU) ldIVxOp(instruction uint16) {
	for i := uint16(0); i <= regX(instruction); i++ {
		c.mem.Write(c.I+i, c.V[i])
	}
}

// Fx65 - load V0..Vx from I
func (c *CPU) ldVxIOp(instruction uint16) {
	for i := uint16(0); i <= regX(instruction); i++ {
		c.V[i] = c.mem.Read(c.I + i)
	}
}

// keyDown checks the logical key for a register value
func (c *CPU) keyDown(value byte) bool {
	if c.keys == nil {
		return false
	}
	return c.keys.IsDown(value & 0x0F)
}

func boolToByte(b bool) byte {
	if b {
		return 1
	}
	return 0
}
