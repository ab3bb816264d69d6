package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOTPValid(t *testing.T) {
	expires := time.Date(2024, 5, 1, 9, 5, 0, 0, time.UTC)
	otp := &OTP{ExpiresAt: expires}

	assert.True(t, otp.Valid(expires.Add(-time.Minute)))
	assert.True(t, otp.Valid(expires))
	assert.False(t, otp.Valid(expires.Add(time.Nanosecond)))

	otp.Used = true
	assert.False(t, otp.Valid(expires.Add(-time.Minute)))
}

func TestSkillStatusValid(t *testing.T) {
	assert.True(t, SkillStatusPending.Valid())
	assert.True(t, SkillStatusVerified.Valid())
	assert.True(t, SkillStatusRejected.Valid())
	assert.False(t, SkillStatus("approved").Valid())
	assert.False(t, SkillStatus("").Valid())
}

func TestUserJSONOmitsPasswordHash(t *testing.T) {
	b, err := json.Marshal(User{ID: "u1", PasswordHash: "$2a$12$secret", Roles: []string{RoleWorker}})
	require.NoError(t, err)

	assert.NotContains(t, string(b), "secret")
	assert.Contains(t, string(b), `"user_role":["worker"]`)
}

func TestUserUpdateEmpty(t *testing.T) {
	assert.True(t, UserUpdate{}.Empty())

	name := "Budi"
	assert.False(t, UserUpdate{FullName: &name}.Empty())
}
