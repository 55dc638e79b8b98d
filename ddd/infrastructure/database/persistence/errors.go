package persistence

import (
	"errors"

	"gorm.io/gorm"

	"snipx-service/ddd/domain/repo"
)

// translate maps driver level not-found onto the repository sentinel.
func translate(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return repo.ErrRecordNotFound
	}
	return err
}
