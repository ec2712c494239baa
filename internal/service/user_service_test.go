package service

import (
	"testing"

	"github.com/Eccentric-jamaican/bossinbaskets-sub000/internal/dao"
	"github.com/Eccentric-jamaican/bossinbaskets-sub000/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpdateProfile(t *testing.T) {
	env := newTestEnv(t)
	user, _, err := env.auth.Register(testCtx(), RegisterInput{Email: "ada@example.com", Password: "password123", Name: "Ada"})
	require.NoError(t, err)

	userService := NewUserService(dao.NewUserDao(env.db))
	addr := &model.Address{FullName: "Ada Wong", Line1: "1 Pier Rd", City: "Portsmouth", PostalCode: "PO1", Country: "GB"}
	require.NoError(t, userService.UpdateProfile(testCtx(), user.ID, "Ada W.", addr))

	got, err := userService.GetProfile(testCtx(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ada W.", got.Name)
	assert.Equal(t, "Portsmouth", got.DefaultAddress.City)

	// 空更新被拒
	err = userService.UpdateProfile(testCtx(), user.ID, "", nil)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestChangePassword(t *testing.T) {
	env := newTestEnv(t)
	user, _, err := env.auth.Register(testCtx(), RegisterInput{Email: "ada@example.com", Password: "password123"})
	require.NoError(t, err)

	userService := NewUserService(dao.NewUserDao(env.db))

	err = userService.ChangePassword(testCtx(), user.ID, "wrongpass1", "newpassword1")
	assert.ErrorIs(t, err, ErrBadCredentials)

	err = userService.ChangePassword(testCtx(), user.ID, "password123", "short")
	assert.ErrorIs(t, err, ErrValidation)

	require.NoError(t, userService.ChangePassword(testCtx(), user.ID, "password123", "newpassword1"))

	_, _, err = env.auth.Login(testCtx(), "ada@example.com", "password123")
	assert.ErrorIs(t, err, ErrBadCredentials)
	_, _, err = env.auth.Login(testCtx(), "ada@example.com", "newpassword1")
	assert.NoError(t, err)
}
