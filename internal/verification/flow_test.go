package verification

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/gigs-work/backend/internal/identity"
)

type stubProvider struct {
	dispatch    *identity.Dispatch
	sendErr     error
	cred        *identity.Credential
	confirmErr  error
	sendCalls   int
	confirmCall int
	lastPhone   string
	block       chan struct{} // если не nil, SendCode ждёт ctx
}

func (p *stubProvider) SendCode(ctx context.Context, phoneNumber string, _ string) (*identity.Dispatch, error) {
	p.sendCalls++
	p.lastPhone = phoneNumber
	if p.block != nil {
		select {
		case <-p.block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return p.dispatch, p.sendErr
}

func (p *stubProvider) ConfirmCode(_ context.Context, _ string, _ string) (*identity.Credential, error) {
	p.confirmCall++
	return p.cred, p.confirmErr
}

func collect(t *testing.T, states <-chan State) []State {
	t.Helper()

	var got []State
	timeout := time.After(2 * time.Second)
	for {
		select {
		case state, ok := <-states:
			if !ok {
				return got
			}
			got = append(got, state)
		case <-timeout:
			t.Fatal("state stream did not close")
		}
	}
}

func TestNormalizePhone(t *testing.T) {
	require.Equal(t, "+9998887776", NormalizePhone("9998887776"))
	require.Equal(t, "+9998887776", NormalizePhone("+9998887776"))
}

func TestStartCodeDispatched(t *testing.T) {
	provider := &stubProvider{dispatch: &identity.Dispatch{VerificationID: "abc123"}}
	flow := NewFlow(provider)

	got := collect(t, flow.Start(context.Background(), "9998887776", "handle"))

	want := []State{
		{Kind: StateInitial},
		{Kind: StateCodeDispatched, VerificationID: "abc123"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("state sequence mismatch (-want +got):\n%s", diff)
	}

	require.Equal(t, "+9998887776", provider.lastPhone)
}

func TestStartAutoVerified(t *testing.T) {
	cred := &identity.Credential{UID: "u1", PhoneNumber: "+79990001122"}
	provider := &stubProvider{dispatch: &identity.Dispatch{AutoVerified: cred}}
	flow := NewFlow(provider)

	got := collect(t, flow.Start(context.Background(), "79990001122", ""))

	require.Len(t, got, 2)
	require.Equal(t, StateAutoVerified, got[1].Kind)
	require.Equal(t, cred, got[1].Credential)
}

func TestStartProviderError(t *testing.T) {
	provider := &stubProvider{sendErr: errors.New("quota exceeded")}
	flow := NewFlow(provider)

	got := collect(t, flow.Start(context.Background(), "123", ""))

	require.Len(t, got, 2)
	require.Equal(t, StateError, got[1].Kind)
	require.Equal(t, "quota exceeded", got[1].Message)
}

func TestConfirmEmptyVerificationID(t *testing.T) {
	provider := &stubProvider{}
	flow := NewFlow(provider)

	got := collect(t, flow.Confirm(context.Background(), Session{PhoneNumber: "+123"}, "000000"))

	want := []State{
		{Kind: StateInitial},
		{Kind: StateError, Message: "Verification ID is empty. Please resend OTP."},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("state sequence mismatch (-want +got):\n%s", diff)
	}

	require.Zero(t, provider.confirmCall, "provider must not be called without verification id")
}

func TestConfirmVerified(t *testing.T) {
	cred := &identity.Credential{UID: "u1", PhoneNumber: "+123"}
	provider := &stubProvider{cred: cred}
	flow := NewFlow(provider)

	session := Session{VerificationID: "abc123", PhoneNumber: "+123"}
	got := collect(t, flow.Confirm(context.Background(), session, "123456"))

	require.Len(t, got, 2, "exactly one terminal state per attempt")
	require.Equal(t, StateVerified, got[1].Kind)
	require.Equal(t, cred, got[1].Credential)
	require.Equal(t, 1, provider.confirmCall)
}

func TestConfirmWrongCode(t *testing.T) {
	provider := &stubProvider{confirmErr: errors.New("wrong verification code")}
	flow := NewFlow(provider)

	session := Session{VerificationID: "abc123", PhoneNumber: "+123"}
	got := collect(t, flow.Confirm(context.Background(), session, "000000"))

	require.Len(t, got, 2)
	require.Equal(t, StateError, got[1].Kind)
	require.Equal(t, "wrong verification code", got[1].Message)
}

func TestStartCancellationReleasesProducer(t *testing.T) {
	defer goleak.VerifyNone(t)

	provider := &stubProvider{
		dispatch: &identity.Dispatch{VerificationID: "abc123"},
		block:    make(chan struct{}),
	}
	flow := NewFlow(provider)

	ctx, cancel := context.WithCancel(context.Background())
	states := flow.Start(ctx, "123", "")

	// забираем initial, затем уходим, не дожидаясь исхода
	first := <-states
	require.Equal(t, StateInitial, first.Kind)

	cancel()

	select {
	case _, ok := <-states:
		if ok {
			// терминальная ошибка отмены тоже допустима, канал закроется следом
			_, ok = <-states
			require.False(t, ok)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("stream not torn down after cancellation")
	}
}
