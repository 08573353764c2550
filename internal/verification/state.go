package verification

import "github.com/gigs-work/backend/internal/identity"

type StateKind string

const (
	StateInitial        StateKind = "initial"
	StateCodeDispatched StateKind = "code_dispatched"
	StateAutoVerified   StateKind = "auto_verified"
	StateVerified       StateKind = "verified"
	StateError          StateKind = "error"
)

// State - одно событие потока подтверждения номера. Вместо трёх
// колбэков провайдера все исходы приходят как значения одного типа.
type State struct {
	Kind           StateKind
	VerificationID string               // заполнен для code_dispatched
	Credential     *identity.Credential // заполнен для auto_verified и verified
	Message        string               // заполнен для error
}

func initialState() State {
	return State{Kind: StateInitial}
}

func codeDispatchedState(verificationID string) State {
	return State{Kind: StateCodeDispatched, VerificationID: verificationID}
}

func autoVerifiedState(cred *identity.Credential) State {
	return State{Kind: StateAutoVerified, Credential: cred}
}

func verifiedState(cred *identity.Credential) State {
	return State{Kind: StateVerified, Credential: cred}
}

func errorState(message string) State {
	return State{Kind: StateError, Message: message}
}

// Terminal сообщает, завершает ли состояние текущую попытку.
func (s State) Terminal() bool {
	return s.Kind != StateInitial
}
