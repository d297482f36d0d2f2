package payment

import (
	"errors"
	"fmt"

	"github.com/fjod/go_storefront/internal/domain"
)

var (
	ErrUnknownOrder     = fmt.Errorf("%w: payment order", domain.ErrNotFound)
	ErrInvalidSignature = errors.New("payment signature does not match")
	ErrInvalidAmount    = fmt.Errorf("%w: amount must be positive", domain.ErrValidation)
	ErrNotVerified      = errors.New("payment not verified")
	// ErrRejected is returned for 4xx answers from the payment backend.
	ErrRejected = errors.New("payment backend rejected request")
)
