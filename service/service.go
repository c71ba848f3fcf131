// Package service implements the clinic workflows on top of the
// repository Store: conflict-aware scheduling, sparse updates, aggregate
// reconciliation and dietitian assignment. Every write runs in a single
// transaction; errors are apperr values or wrapped infrastructure errors.
package service

import (
	"context"
	"errors"
	"strings"

	"github.com/ariebrainware/clinic-care/apperr"
	"github.com/ariebrainware/clinic-care/model"
	"github.com/ariebrainware/clinic-care/repository"
)

// requireUser resolves id and reports a missing user as "<label> not found".
func requireUser(ctx context.Context, users repository.IdentityStore, id uint, label string) (*model.User, error) {
	u, err := users.FindUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return nil, apperr.NotFound(label, id)
		}
		return nil, err
	}
	return u, nil
}

func requiredID(id uint, field string) error {
	if id == 0 {
		return apperr.Validationf(field, "%s is required", field)
	}
	return nil
}

func requiredText(value, field string) (string, error) {
	v := strings.TrimSpace(value)
	if v == "" {
		return "", apperr.Validationf(field, "%s is required", field)
	}
	return v, nil
}
