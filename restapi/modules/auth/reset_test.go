package auth

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thegr8lewis/health-backend/internal/store"
	"github.com/thegr8lewis/health-backend/internal/store/memory"
	"github.com/thegr8lewis/health-backend/model"
)

type fakeSender struct {
	mu    sync.Mutex
	codes []string
	sent  chan struct{}
}

func newFakeSender() *fakeSender {
	return &fakeSender{sent: make(chan struct{}, 10)}
}

func (f *fakeSender) SendResetCode(_, code string) error {
	f.mu.Lock()
	f.codes = append(f.codes, code)
	f.mu.Unlock()
	f.sent <- struct{}{}
	return nil
}

func (f *fakeSender) lastCode(t *testing.T) string {
	t.Helper()
	select {
	case <-f.sent:
	case <-time.After(2 * time.Second):
		t.Fatal("no reset code was sent")
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.codes[len(f.codes)-1]
}

func newResetFixture(t *testing.T) (store.Store, *ResetFlow, *fakeSender, *model.User) {
	t.Helper()
	st := memory.New()
	sender := newFakeSender()
	flow := &ResetFlow{Users: st.Users, Tokens: st.ResetTokens, Sender: sender}

	hash, err := HashPassword("oldpassword")
	require.NoError(t, err)
	user := model.NewUser("carol", "carol@example.com", model.RoleStaff)
	user.PasswordHash = hash
	user, err = st.Users.Create(context.Background(), user)
	require.NoError(t, err)

	return st, flow, sender, user
}

func TestResetFlow_UnknownEmailSendsNothing(t *testing.T) {
	_, flow, sender, _ := newResetFixture(t)

	err := flow.Request(context.Background(), "nobody@example.com")
	require.NoError(t, err)

	select {
	case <-sender.sent:
		t.Fatal("mail was sent for an unknown email")
	case <-time.After(100 * time.Millisecond):
	}
}

func TestResetFlow_FullFlow(t *testing.T) {
	_, flow, sender, user := newResetFixture(t)
	ctx := context.Background()

	require.NoError(t, flow.Request(ctx, user.Email))
	code := sender.lastCode(t)
	require.Len(t, code, 6)

	token, err := flow.Verify(ctx, user.Email, code)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	require.NoError(t, flow.Reset(ctx, token, "newpassword"))

	updated, err := flow.Users.GetByKey(ctx, user.Key)
	require.NoError(t, err)
	assert.True(t, CheckPasswordHash("newpassword", updated.PasswordHash))
	assert.False(t, CheckPasswordHash("oldpassword", updated.PasswordHash))
}

func TestResetFlow_NewCodeSupersedesOld(t *testing.T) {
	_, flow, sender, user := newResetFixture(t)
	ctx := context.Background()

	require.NoError(t, flow.Request(ctx, user.Email))
	firstCode := sender.lastCode(t)

	require.NoError(t, flow.Request(ctx, user.Email))
	secondCode := sender.lastCode(t)

	if firstCode != secondCode {
		_, err := flow.Verify(ctx, user.Email, firstCode)
		assert.ErrorIs(t, err, ErrCodeInvalid)
	}

	_, err := flow.Verify(ctx, user.Email, secondCode)
	assert.NoError(t, err)
}

func TestResetFlow_WrongCode(t *testing.T) {
	_, flow, sender, user := newResetFixture(t)
	ctx := context.Background()

	require.NoError(t, flow.Request(ctx, user.Email))
	code := sender.lastCode(t)

	wrong := "000000"
	if code == wrong {
		wrong = "000001"
	}
	_, err := flow.Verify(ctx, user.Email, wrong)
	assert.ErrorIs(t, err, ErrCodeInvalid)
}

func TestResetFlow_ExpiredCode(t *testing.T) {
	st, flow, _, user := newResetFixture(t)
	ctx := context.Background()

	record := model.NewPasswordResetToken(user.Key, user.Email, "123456", NewResetTokenID())
	record.CreatedAt = time.Now().Add(-model.ResetCodeValidity - time.Minute)
	require.NoError(t, st.ResetTokens.Create(ctx, record))

	_, err := flow.Verify(ctx, user.Email, "123456")
	assert.ErrorIs(t, err, ErrCodeExpired)
}

func TestResetFlow_ExpiredToken(t *testing.T) {
	st, flow, _, user := newResetFixture(t)
	ctx := context.Background()

	record := model.NewPasswordResetToken(user.Key, user.Email, "123456", NewResetTokenID())
	record.CreatedAt = time.Now().Add(-model.ResetCodeValidity - time.Minute)
	require.NoError(t, st.ResetTokens.Create(ctx, record))

	err := flow.Reset(ctx, record.Token, "newpassword")
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestResetFlow_TokenSingleUse(t *testing.T) {
	_, flow, sender, user := newResetFixture(t)
	ctx := context.Background()

	require.NoError(t, flow.Request(ctx, user.Email))
	code := sender.lastCode(t)

	token, err := flow.Verify(ctx, user.Email, code)
	require.NoError(t, err)

	require.NoError(t, flow.Reset(ctx, token, "newpassword1"))

	// Redeeming again must fail, and so must re-verifying the consumed code.
	err = flow.Reset(ctx, token, "newpassword2")
	assert.ErrorIs(t, err, ErrTokenInvalid)

	_, err = flow.Verify(ctx, user.Email, code)
	assert.ErrorIs(t, err, ErrCodeInvalid)
}
