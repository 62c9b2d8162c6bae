package catalog

// SeedProducts returns the initial salon catalog used to populate an
// empty store on first boot.
func SeedProducts() []Product {
	return []Product{
		{Name: "Shampoo", Price: 15, Image: "/shampoo.png", Description: "Nourishing shampoo for all hair types", Currency: "EUR", Stock: 25, Category: "Hair Care"},
		{Name: "Conditioner", Price: 18, Image: "/conditioner.png", Description: "Hydrating conditioner for smooth, silky hair", Currency: "EUR", Stock: 20, Category: "Hair Care"},
		{Name: "Hair Mask", Price: 22, Image: "/mask.jpg", Description: "Deep conditioning treatment for damaged hair", Currency: "EUR", Stock: 15, Category: "Hair Care"},
		{Name: "Hair Oil", Price: 25, Image: "/oil.jpg", Description: "Lightweight oil for shine and frizz control", Currency: "EUR", Stock: 18, Category: "Hair Care"},
	}
}
