package service

import (
	"ctf_platform_backend/internal/config"
	"ctf_platform_backend/internal/model"
	"ctf_platform_backend/internal/util"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthService(env *testEnv) *AuthService {
	cfg := &config.Config{}
	cfg.JWT.Secret = "test-secret-for-unit-tests-only-0000000"
	cfg.JWT.ExpireTime = time.Hour
	return NewAuthService(env.users, cfg)
}

func TestRegisterAndLogin(t *testing.T) {
	env := newTestEnv(t)
	auth := newAuthService(env)

	user, err := auth.Register(RegisterRequest{
		Name: "player1", Email: "player1@example.com", Password: "hunter22", Country: "CN",
	})
	require.NoError(t, err)
	assert.Equal(t, model.RoleUser, user.Role)
	// 密码只存bcrypt哈希
	assert.NotEqual(t, "hunter22", user.Password)

	resp, err := auth.Login(LoginRequest{Name: "player1", Password: "hunter22"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)

	claims, err := util.ParseJWT(resp.Token, "test-secret-for-unit-tests-only-0000000")
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)

	// 支持邮箱登录
	_, err = auth.Login(LoginRequest{Name: "player1@example.com", Password: "hunter22"})
	require.NoError(t, err)
}

func TestRegisterDuplicates(t *testing.T) {
	env := newTestEnv(t)
	auth := newAuthService(env)

	_, err := auth.Register(RegisterRequest{Name: "taken", Email: "taken@example.com", Password: "secret1"})
	require.NoError(t, err)

	_, err = auth.Register(RegisterRequest{Name: "taken", Email: "other@example.com", Password: "secret1"})
	assert.ErrorIs(t, err, util.ErrNameRegistered)

	_, err = auth.Register(RegisterRequest{Name: "other", Email: "taken@example.com", Password: "secret1"})
	assert.ErrorIs(t, err, util.ErrEmailRegistered)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	env := newTestEnv(t)
	auth := newAuthService(env)

	_, err := auth.Register(RegisterRequest{Name: "victim", Email: "victim@example.com", Password: "correct1"})
	require.NoError(t, err)

	// 用户不存在与密码错误返回同一个错误，不泄露账号是否存在
	_, err = auth.Login(LoginRequest{Name: "victim", Password: "wrong"})
	assert.ErrorIs(t, err, util.ErrUserNotFound)
	_, err = auth.Login(LoginRequest{Name: "ghost", Password: "whatever"})
	assert.ErrorIs(t, err, util.ErrUserNotFound)
}

func TestLoginRejectsDisabledUser(t *testing.T) {
	env := newTestEnv(t)
	auth := newAuthService(env)

	user, err := auth.Register(RegisterRequest{Name: "banned", Email: "banned@example.com", Password: "secret1"})
	require.NoError(t, err)
	user.Disabled = true
	require.NoError(t, env.users.Update(user))

	_, err = auth.Login(LoginRequest{Name: "banned", Password: "secret1"})
	assert.ErrorIs(t, err, util.ErrPermissionDenied)
}

func TestEnsureDefaultAdmin(t *testing.T) {
	env := newTestEnv(t)
	auth := newAuthService(env)

	require.NoError(t, auth.EnsureDefaultAdmin())
	admin, err := env.users.FindByName("admin")
	require.NoError(t, err)
	assert.Equal(t, model.RoleAdmin, admin.Role)

	// 重复调用不再创建
	require.NoError(t, auth.EnsureDefaultAdmin())
}
