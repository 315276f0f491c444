package cpu

const (
	STACK_LIMIT = 16 // Maximum stack depth
)

// Stack is a fixed capacity stack of return addresses.
type Stack struct {
	Data [STACK_LIMIT]uint16 // Return address slots.
	Sp   int                 // Number of addresses pushed.
}

// Push stores value on top of the stack, failing if the stack is full.
func (s *Stack) Push(value uint16) (ok bool) {
	if s.Full() {
		return
	}

	s.Data[s.Sp] = value
	s.Sp++
	return true
}

// Pop removes and returns the top of the stack.
func (s *Stack) Pop() (value uint16, ok bool) {
	value, ok = s.Peek()
	if ok {
		s.Sp--
	}
	return
}

func (s *Stack) Empty() bool {
	return s.Sp == 0
}

func (s *Stack) Full() bool {
	return s.Sp == STACK_LIMIT
}

func (s *Stack) Peek() (value uint16, ok bool) {
	if s.Empty() {
		return
	}

	return s.Data[s.Sp-1], true
}

// Addresses returns the pushed return addresses, bottom first.
func (s *Stack) Addresses() []uint16 {
	return append([]uint16(nil), s.Data[:s.Sp]...)
}

func (s *Stack) Reset() {
	clear(s.Data[:])
	s.Sp = 0
}
