package valueobject

import (
	"fmt"

	"github.com/casavia/estate-backend/internal/pkg/apperror"
)

// Price хранит цену в минимальных единицах валюты (целое, без копеек).
type Price struct {
	Amount int64
}

func NewPrice(amount int64) (Price, error) {
	if amount <= 0 {
		return Price{}, apperror.ErrInvalidPrice
	}
	return Price{Amount: amount}, nil
}

func (p Price) String() string {
	return fmt.Sprintf("%d", p.Amount)
}
