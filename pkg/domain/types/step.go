package types

// WorkflowStep names one stage of the per-site update sequence
type WorkflowStep string

const (
	StepLogin    WorkflowStep = "login"
	StepNavigate WorkflowStep = "navigate"
	StepRead     WorkflowStep = "read_field"
	StepMutate   WorkflowStep = "mutate"
	StepValidate WorkflowStep = "validate"
	StepWrite    WorkflowStep = "write"
	StepVerify   WorkflowStep = "verify"
)

// String returns the string representation of the step
func (s WorkflowStep) String() string {
	return string(s)
}

// IsValid checks if the step is one of the known stages
func (s WorkflowStep) IsValid() bool {
	switch s {
	case StepLogin, StepNavigate, StepRead, StepMutate, StepValidate, StepWrite, StepVerify:
		return true
	default:
		return false
	}
}
