package checkout

import (
	"fmt"

	"github.com/fjod/go_storefront/internal/domain"
)

var (
	ErrEmptyCart          = fmt.Errorf("%w: cart is empty, nothing to checkout", domain.ErrValidation)
	ErrCheckoutInProgress = fmt.Errorf("%w: checkout already in progress", domain.ErrValidation)

	ErrScriptLoad         = fmt.Errorf("%w: payment script could not be loaded", domain.ErrExternal)
	ErrOrderCreation      = fmt.Errorf("%w: order creation failed", domain.ErrExternal)
	ErrVerificationFailed = fmt.Errorf("%w: payment verification failed", domain.ErrExternal)
	ErrWidgetTimeout      = fmt.Errorf("%w: payment widget did not respond", domain.ErrExternal)
	ErrPayment            = fmt.Errorf("%w: payment error", domain.ErrExternal)
)
