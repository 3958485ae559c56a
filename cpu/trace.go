package cpu

import (
	"errors"

	"github.com/retroenv/retrogolib/arch/cpu/chip8"
)

// Entry of the instruction trace
type Entry struct {
	Address uint16
	Opcode  uint16
}

// TraceQueue is a bounded FIFO of recently executed instructions.
// once full, the oldest entry is dropped.
type TraceQueue struct {
	items   []Entry
	maxSize int
}

// NewQueue creates a new empty queue.
func NewQueue(maxSize int) *TraceQueue {
	return &TraceQueue{
		items:   make([]Entry, 0, maxSize),
		maxSize: maxSize,
	}
}

// Enqueue adds an item to the rear of the queue.
func (q *TraceQueue) Enqueue(item Entry) {
	if len(q.items) == q.maxSize {
		_, _ = q.Dequeue()
	}
	q.items = append(q.items, item)
}

// Dequeue removes and returns the item from the front of the queue.
func (q *TraceQueue) Dequeue() (Entry, error) {
	if len(q.items) == 0 {
		return Entry{}, errors.New("queue is empty")
	}
	front := q.items[0]
	q.items = q.items[1:]
	return front, nil
}

// IsEmpty checks if the queue is empty.
func (q *TraceQueue) IsEmpty() bool {
	return len(q.items) == 0
}

// Len returns the number of queued entries
func (q *TraceQueue) Len() int {
	return len(q.items)
}

// Mnemonic returns the assembler name of an instruction word, or "" when the
// word matches no known encoding.
func Mnemonic(word uint16) string {
	for _, op := range chip8.Opcodes[int(word>>12)] {
		if op.Instruction != nil && op.Info.Mask&word == op.Info.Value {
			return op.Instruction.Name
		}
	}
	return ""
}
