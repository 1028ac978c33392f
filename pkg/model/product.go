package model

// Products is the closed park x activity catalogue a booking may be held
// against. Availability updates and permit breakdowns key on these names.
var Products = []string{
	"Bwindi Gorilla Trekking",
	"Mgahinga Gorilla Trekking",
	"Mgahinga Golden Monkey Tracking",
	"Volcanoes Gorilla Trekking",
	"Volcanoes Golden Monkey Tracking",
	"Kibale Chimpanzee Tracking",
	"Nyungwe Chimpanzee Tracking",
}

func ValidProduct(name string) bool {
	for _, p := range Products {
		if p == name {
			return true
		}
	}
	return false
}
