package service

import (
	domainerrors "doorway/pkg/domain-errors"
)

func errAccountNotFound(err error) error {
	return domainerrors.Wrap(err, domainerrors.CodeNotFound, "account not found")
}

func errDeletionForbidden(reason string) error {
	return domainerrors.New(domainerrors.CodeForbidden, reason)
}

func errProtectedAccount() error {
	return domainerrors.New(domainerrors.CodeProtected, "account is protected and cannot be deleted")
}

func errVerificationForbidden(reason string) error {
	return domainerrors.New(domainerrors.CodeForbidden, reason)
}
