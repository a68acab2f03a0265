package domain

import "errors"

var (
	ErrIndexOutOfRange = errors.New("item index out of range")
	ErrItemAnswered    = errors.New("item already answered")
	ErrEmptyBatch      = errors.New("item batch is empty")
)
