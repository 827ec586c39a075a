package validator

// Validator accumulates request validation failures so a handler can report
// them all at once instead of stopping at the first one.
type Validator struct {
	Errors []string `json:",omitempty"`
}

// Check records message when ok is false.
func (v *Validator) Check(ok bool, message string) {
	if !ok {
		v.AddError(message)
	}
}

func (v *Validator) AddError(message string) {
	v.Errors = append(v.Errors, message)
}

func (v *Validator) HasErrors() bool {
	return len(v.Errors) > 0
}
