package collection

// Confirmer answers a yes/no question before a destructive operation.
type Confirmer interface {
	Confirm(prompt string) bool
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(prompt string) bool

func (f ConfirmFunc) Confirm(prompt string) bool { return f(prompt) }

// Fixed confirmers for callers that already asked (or never ask).
var (
	AlwaysConfirm Confirmer = ConfirmFunc(func(string) bool { return true })
	NeverConfirm  Confirmer = ConfirmFunc(func(string) bool { return false })
)
