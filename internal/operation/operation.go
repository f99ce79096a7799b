package operation

// Operation is the meaning of a symbol. The interface is sealed: Binary and
// Equals are the only implementations.
type Operation interface {
	operationCase()
}

// BinaryFunc is a pure two-argument numeric function.
type BinaryFunc func(a, b float64) float64

// GuardFunc vets operands before a BinaryFunc is applied.
// A non-nil error aborts the operation and the engine keeps its state.
type GuardFunc func(a, b float64) error

// Binary applies Fn to (first operand, second operand).
type Binary struct {
	Fn BinaryFunc

	// Guard is optional. The strict division policy installs one on ÷.
	Guard GuardFunc
}

// Equals resolves the pending binary operation. It carries no function.
type Equals struct{}

func (Binary) operationCase() {}
func (Equals) operationCase() {}

// Apply runs the guard (if any) and then the function.
func (b Binary) Apply(first, second float64) (float64, error) {
	if b.Guard != nil {
		if err := b.Guard(first, second); err != nil {
			return 0, err
		}
	}
	return b.Fn(first, second), nil
}

// Arithmetic used by the standard table.
func multiply(a, b float64) float64 { return a * b }
func divide(a, b float64) float64   { return a / b }
func add(a, b float64) float64      { return a + b }
func subtract(a, b float64) float64 { return a - b }
