package repository

import (
	"errors"

	"gorm.io/gorm"
)

var (
	ErrNotFound    = errors.New("record not found")
	ErrStaleMember = errors.New("member was updated concurrently")
)

func translate(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
