package service

import "comedor-backend/comedor-svc/internal/domain"

// Flat-rate menu pricing: the base price depends on the combination of
// courses, not on the itemized sum. Desserts are the only add-on; beverages
// come included.
const (
	fullMenuPrice   = 11.0 // entrada + fondo
	mainCoursePrice = 11.0 // solo fondo (dieta)
	starterPrice    = 10.0 // solo entrada
)

type MenuPriceService struct{}

func NewMenuPriceService() *MenuPriceService {
	return &MenuPriceService{}
}

func (s *MenuPriceService) CalculateMenuPrice(dishes []domain.MenuDish) float64 {
	var hasStarter, hasMainCourse bool
	for _, dish := range dishes {
		switch dish.Category {
		case domain.CategoryStarter:
			hasStarter = true
		case domain.CategoryMain:
			hasMainCourse = true
		}
	}

	var basePrice float64
	switch {
	case hasStarter && hasMainCourse:
		basePrice = fullMenuPrice
	case hasMainCourse:
		basePrice = mainCoursePrice
	case hasStarter:
		basePrice = starterPrice
	}

	var dessertPrice float64
	for _, dish := range dishes {
		if dish.Category == domain.CategoryDessert {
			dessertPrice += dish.Price * float64(dish.Quantity)
		}
	}

	return basePrice + dessertPrice
}

// ValidateMenuComposition checks the combination rules: a beverage is
// mandatory, and so is at least one starter or main course. Dessert is
// always optional.
func (s *MenuPriceService) ValidateMenuComposition(dishes []domain.MenuDish) (bool, string) {
	var hasBeverage, hasMainOrStarter bool
	for _, dish := range dishes {
		switch dish.Category {
		case domain.CategoryBeverage:
			hasBeverage = true
		case domain.CategoryStarter, domain.CategoryMain:
			hasMainOrStarter = true
		}
	}

	if !hasBeverage {
		return false, "El menú debe incluir una bebida"
	}
	if !hasMainOrStarter {
		return false, "El menú debe incluir al menos una entrada o un plato de fondo"
	}
	return true, ""
}
