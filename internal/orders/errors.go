package orders

import (
	"fmt"

	"github.com/fjod/go_storefront/internal/domain"
)

var ErrDuplicateReceipt = fmt.Errorf("%w: receipt for this order already recorded", domain.ErrValidation)
