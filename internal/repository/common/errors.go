package common

import "errors"

// Общие ошибки для всех репозиториев
var (
	ErrAlreadyExists = errors.New("entity already exists")
)
