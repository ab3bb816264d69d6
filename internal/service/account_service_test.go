package service

import (
	"context"
	"testing"

	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tukang/tukang-api/internal/config"
	"github.com/tukang/tukang-api/internal/models"
	"golang.org/x/crypto/bcrypt"
)

type accountFixture struct {
	svc    *AccountService
	otp    *OTPService
	users  *fakeUserStore
	otps   *fakeOTPStore
	mailer *fakeMailer
}

func newAccountFixture() *accountFixture {
	logger, _ := logtest.NewNullLogger()
	otps := &fakeOTPStore{}
	m := &fakeMailer{}
	otpSvc, _ := newTestOTPService(otps, m)
	users := newFakeUserStore()
	svc := NewAccountService(users, otpSvc, &config.AuthConfig{
		BcryptCost:           bcrypt.MinCost,
		DefaultResetPassword: "12345678",
		RegisterRoles:        []string{models.RoleWorker, models.RoleCustomer},
	}, logger)
	return &accountFixture{svc: svc, otp: otpSvc, users: users, otps: otps, mailer: m}
}

func (f *accountFixture) register(t *testing.T, email, phone, password string) *models.User {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, f.otp.Send(ctx, email))
	u, err := f.svc.Register(ctx, RegisterInput{
		Email:       email,
		PhoneNumber: phone,
		FullName:    "Budi Santoso",
		Password:    password,
		OTP:         f.mailer.last().code,
		Role:        models.RoleWorker,
	})
	require.NoError(t, err)
	return u
}

func TestAccountService_Register(t *testing.T) {
	f := newAccountFixture()
	u := f.register(t, "budi@example.com", "081234567890", "rahasia123")

	stored := f.users.users[u.ID]
	require.NotNil(t, stored)
	assert.True(t, stored.IsVerified)
	assert.Equal(t, []string{models.RoleWorker}, stored.Roles)
	assert.NotEqual(t, "rahasia123", stored.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("rahasia123")))

	// the code is consumed by registration
	assert.True(t, f.otps.records[0].Used)
}

func TestAccountService_RegisterInvalidOTP(t *testing.T) {
	f := newAccountFixture()
	ctx := context.Background()
	require.NoError(t, f.otp.Send(ctx, "budi@example.com"))

	_, err := f.svc.Register(ctx, RegisterInput{
		Email:       "budi@example.com",
		PhoneNumber: "081234567890",
		FullName:    "Budi",
		Password:    "rahasia123",
		OTP:         "000000",
		Role:        models.RoleCustomer,
	})
	assert.ErrorIs(t, err, ErrInvalidOTP)
	assert.Empty(t, f.users.users)
}

func TestAccountService_RegisterRoleNotAllowed(t *testing.T) {
	f := newAccountFixture()
	ctx := context.Background()
	require.NoError(t, f.otp.Send(ctx, "budi@example.com"))
	code := f.mailer.last().code

	_, err := f.svc.Register(ctx, RegisterInput{
		Email:       "budi@example.com",
		PhoneNumber: "081234567890",
		FullName:    "Budi",
		Password:    "rahasia123",
		OTP:         code,
		Role:        models.RoleAdmin,
	})
	assert.ErrorIs(t, err, ErrRoleNotAllowed)
	assert.Empty(t, f.users.users)

	// the code is still redeemable
	_, err = f.otp.Lookup(ctx, "budi@example.com", code)
	assert.NoError(t, err)
}

func TestAccountService_RegisterDuplicate(t *testing.T) {
	f := newAccountFixture()
	ctx := context.Background()
	f.register(t, "budi@example.com", "081234567890", "rahasia123")

	tests := []struct {
		name  string
		email string
		phone string
	}{
		{"same email", "budi@example.com", "089999999999"},
		{"same phone", "siti@example.com", "081234567890"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.NoError(t, f.otp.Send(ctx, tt.email))
			code := f.mailer.last().code

			_, err := f.svc.Register(ctx, RegisterInput{
				Email:       tt.email,
				PhoneNumber: tt.phone,
				FullName:    "Siti",
				Password:    "rahasia123",
				OTP:         code,
				Role:        models.RoleCustomer,
			})
			assert.ErrorIs(t, err, ErrAlreadyRegistered)
			assert.Len(t, f.users.users, 1)

			// a failed registration leaves the code redeemable
			_, err = f.otp.Lookup(ctx, tt.email, code)
			assert.NoError(t, err)
		})
	}
}

func TestAccountService_Login(t *testing.T) {
	f := newAccountFixture()
	ctx := context.Background()
	u := f.register(t, "budi@example.com", "081234567890", "rahasia123")

	byEmail, err := f.svc.Login(ctx, "budi@example.com", "rahasia123")
	require.NoError(t, err)
	assert.Equal(t, u.ID, byEmail.ID)

	byPhone, err := f.svc.Login(ctx, "081234567890", "rahasia123")
	require.NoError(t, err)
	assert.Equal(t, u.ID, byPhone.ID)

	_, err = f.svc.Login(ctx, "budi@example.com", "salah")
	assert.ErrorIs(t, err, ErrWrongPassword)

	_, err = f.svc.Login(ctx, "nobody@example.com", "rahasia123")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestAccountService_LoginRequiresVerifiedUser(t *testing.T) {
	f := newAccountFixture()
	u := f.register(t, "budi@example.com", "081234567890", "rahasia123")
	f.users.users[u.ID].IsVerified = false

	_, err := f.svc.Login(context.Background(), "budi@example.com", "rahasia123")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestAccountService_AdminUpdateUser(t *testing.T) {
	f := newAccountFixture()
	ctx := context.Background()
	u := f.register(t, "budi@example.com", "081234567890", "rahasia123")
	other := f.register(t, "siti@example.com", "082222222222", "rahasia123")

	rate := 175000.0
	name := "Budi Baru"
	updated, err := f.svc.AdminUpdateUser(ctx, u.ID, models.UserUpdate{FullName: &name, DailyRate: &rate})
	require.NoError(t, err)
	assert.Equal(t, name, updated.FullName)
	assert.Equal(t, "081234567890", updated.PhoneNumber)
	require.NotNil(t, updated.DailyRate)
	assert.Equal(t, rate, *updated.DailyRate)

	_, err = f.svc.AdminUpdateUser(ctx, u.ID, models.UserUpdate{PhoneNumber: &other.PhoneNumber})
	assert.ErrorIs(t, err, ErrPhoneTaken)

	_, err = f.svc.AdminUpdateUser(ctx, "missing", models.UserUpdate{FullName: &name})
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestAccountService_AdminResetPassword(t *testing.T) {
	f := newAccountFixture()
	ctx := context.Background()
	u := f.register(t, "budi@example.com", "081234567890", "rahasia123")

	require.NoError(t, f.svc.AdminResetPassword(ctx, u.ID))

	_, err := f.svc.Login(ctx, "budi@example.com", "12345678")
	assert.NoError(t, err)
	_, err = f.svc.Login(ctx, "budi@example.com", "rahasia123")
	assert.ErrorIs(t, err, ErrWrongPassword)

	assert.ErrorIs(t, f.svc.AdminResetPassword(ctx, "missing"), ErrUserNotFound)
}

func TestAccountService_AdminDeleteUser(t *testing.T) {
	f := newAccountFixture()
	ctx := context.Background()
	u := f.register(t, "budi@example.com", "081234567890", "rahasia123")

	require.NoError(t, f.svc.AdminDeleteUser(ctx, u.ID))
	assert.Empty(t, f.users.users)
	assert.ErrorIs(t, f.svc.AdminDeleteUser(ctx, u.ID), ErrUserNotFound)
}

func TestAccountService_ChangePassword(t *testing.T) {
	f := newAccountFixture()
	ctx := context.Background()
	u := f.register(t, "budi@example.com", "081234567890", "rahasia123")

	assert.ErrorIs(t, f.svc.ChangePassword(ctx, u.ID, "salah", "baru12345"), ErrWrongOldPassword)
	assert.ErrorIs(t, f.svc.ChangePassword(ctx, "missing", "rahasia123", "baru12345"), ErrUserNotFound)

	require.NoError(t, f.svc.ChangePassword(ctx, u.ID, "rahasia123", "baru12345"))
	_, err := f.svc.Login(ctx, "budi@example.com", "baru12345")
	assert.NoError(t, err)
}

func TestAccountService_ChangeProfile(t *testing.T) {
	f := newAccountFixture()
	ctx := context.Background()
	u := f.register(t, "budi@example.com", "081234567890", "rahasia123")
	other := f.register(t, "siti@example.com", "082222222222", "rahasia123")

	require.NoError(t, f.svc.ChangeProfile(ctx, u.ID, "Budi S", "083333333333"))
	assert.Equal(t, "Budi S", f.users.users[u.ID].FullName)
	assert.Equal(t, "083333333333", f.users.users[u.ID].PhoneNumber)

	assert.ErrorIs(t, f.svc.ChangeProfile(ctx, u.ID, "Budi S", other.PhoneNumber), ErrPhoneTaken)
	assert.ErrorIs(t, f.svc.ChangeProfile(ctx, "missing", "X", "084444444444"), ErrUserNotFound)
}

func TestAccountService_ChangeLocation(t *testing.T) {
	f := newAccountFixture()
	ctx := context.Background()
	u := f.register(t, "budi@example.com", "081234567890", "rahasia123")

	working := true
	require.NoError(t, f.svc.ChangeLocation(ctx, u.ID, -7.7956, 110.3695, &working))
	assert.True(t, f.users.users[u.ID].IsWorking)

	// nil isWorking leaves the flag alone
	require.NoError(t, f.svc.ChangeLocation(ctx, u.ID, -7.80, 110.37, nil))
	stored := f.users.users[u.ID]
	assert.True(t, stored.IsWorking)
	assert.Equal(t, -7.80, *stored.Latitude)
	assert.Equal(t, 110.37, *stored.Longitude)

	assert.ErrorIs(t, f.svc.ChangeLocation(ctx, "missing", 0, 0, nil), ErrUserNotFound)
}
