package handler

import "errors"

var (
	ErrEmptyAuthorizationHeader = errors.New("empty Authorization header")
	ErrWrongSecret              = errors.New("wrong account secret")
)
