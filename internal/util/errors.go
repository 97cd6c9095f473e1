package util

import (
	"errors"
	"fmt"
)

var (
	ErrUserNotFound      = errors.New("用户不存在")
	ErrNameRegistered    = errors.New("该用户名已被注册")
	ErrEmailRegistered   = errors.New("该邮箱已被注册")
	ErrPermissionDenied  = errors.New("permission denied")
	ErrFlagRequired      = errors.New("flag is required")
	ErrChallengeNotFound = errors.New("challenge not found")
	ErrChallengeInactive = errors.New("challenge not open for submission")
	ErrAlreadySolved     = errors.New("challenge already solved")
	ErrHintNotFound      = errors.New("hint not found")
	ErrCategoryNotFound  = errors.New("category not found")
)

// RateLimitedError 提交过于频繁，携带剩余等待秒数
type RateLimitedError struct {
	WaitSeconds int
}

func (e *RateLimitedError) Error() string {
	return fmt.Sprintf("too many wrong attempts, retry in %d seconds", e.WaitSeconds)
}
