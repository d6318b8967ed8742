package domain

// WorkflowStep is where a confirm-then-verify toggle currently stands for one
// record. It replaces a bag of per-record modal booleans.
type WorkflowStep string

const (
	StepIdle       WorkflowStep = "idle"
	StepConfirmOn  WorkflowStep = "confirm_on"
	StepConfirmOff WorkflowStep = "confirm_off"
	StepVerifyOn   WorkflowStep = "verify_on"
	StepVerifyOff  WorkflowStep = "verify_off"
	StepDoneOn     WorkflowStep = "done_on"
	StepDoneOff    WorkflowStep = "done_off"
)

type WorkflowEvent string

const (
	EventStartOn  WorkflowEvent = "start_on"
	EventStartOff WorkflowEvent = "start_off"
	EventConfirm  WorkflowEvent = "confirm"
	EventVerify   WorkflowEvent = "verify"
	EventCancel   WorkflowEvent = "cancel"
)

func ParseWorkflowEvent(s string) (WorkflowEvent, error) {
	switch e := WorkflowEvent(s); e {
	case EventStartOn, EventStartOff, EventConfirm, EventVerify, EventCancel:
		return e, nil
	}
	return "", Errorf(KindValidation, "unknown workflow event %q", s)
}

// On reports whether the step belongs to the switching-on branch.
func (s WorkflowStep) On() bool {
	return s == StepConfirmOn || s == StepVerifyOn || s == StepDoneOn
}

func (s WorkflowStep) Done() bool {
	return s == StepDoneOn || s == StepDoneOff
}

// Next applies ev. verify is only reachable when verification is required.
func (s WorkflowStep) Next(ev WorkflowEvent, verificationRequired bool) (WorkflowStep, error) {
	if s == "" {
		s = StepIdle
	}
	if ev == EventCancel {
		return StepIdle, nil
	}
	switch {
	case s == StepIdle && ev == EventStartOn:
		return StepConfirmOn, nil
	case s == StepIdle && ev == EventStartOff:
		return StepConfirmOff, nil
	case s == StepConfirmOn && ev == EventConfirm:
		if verificationRequired {
			return StepVerifyOn, nil
		}
		return StepDoneOn, nil
	case s == StepConfirmOff && ev == EventConfirm:
		if verificationRequired {
			return StepVerifyOff, nil
		}
		return StepDoneOff, nil
	case s == StepVerifyOn && ev == EventVerify:
		return StepDoneOn, nil
	case s == StepVerifyOff && ev == EventVerify:
		return StepDoneOff, nil
	}
	return s, Errorf(KindIllegalTransition, "cannot %s while %s", ev, s)
}
