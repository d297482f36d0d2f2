package cart

import (
	"fmt"

	"github.com/fjod/go_storefront/internal/domain"
)

var ErrInvalidQuantity = fmt.Errorf("%w: quantity must be positive", domain.ErrValidation)
