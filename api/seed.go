package api

import (
	"github.com/shopspring/decimal"

	"pos_sales/internal/pos"
)

// NewSeededStorage returns a LocalStorage preloaded with a small demo
// catalog and customer directory, enough to walk both sale workflows.
func NewSeededStorage() *LocalStorage {
	store := NewLocalStorage()

	products := []pos.Product{
		{
			ProductName: "Cappuccino", ProductCode: 1001, Category: "Beverages", Unit: "pcs",
			Quantity: 100, AlertQuantity: 10,
			PurchasePrice: decimal.NewFromFloat(2.10), WholesalePrice: decimal.NewFromFloat(3.50),
			RetailPrice: decimal.NewFromFloat(4.50),
		},
		{
			ProductName: "Latte", ProductCode: 1002, Category: "Beverages", Unit: "pcs",
			Quantity: 100, AlertQuantity: 10,
			PurchasePrice: decimal.NewFromFloat(2.00), WholesalePrice: decimal.NewFromFloat(3.25),
			RetailPrice: decimal.NewFromFloat(4.25),
		},
		{
			ProductName: "Croissant", ProductCode: 2001, Category: "Food", Unit: "pcs",
			Quantity: 25, AlertQuantity: 5,
			PurchasePrice: decimal.NewFromFloat(1.40), WholesalePrice: decimal.NewFromFloat(2.50),
			RetailPrice: decimal.NewFromFloat(3.25),
		},
		{
			ProductName: "Chocolate Chip Cookie", ProductCode: 3001, Category: "Desserts", Unit: "pcs",
			Quantity: 30, AlertQuantity: 5,
			PurchasePrice: decimal.NewFromFloat(0.90), WholesalePrice: decimal.NewFromFloat(1.75),
			RetailPrice: decimal.NewFromFloat(2.50),
		},
		{
			ProductName: "Mineral Water 500ml", ProductCode: 1003, Category: "Beverages", Unit: "pcs",
			Quantity: 200, AlertQuantity: 24,
			PurchasePrice: decimal.NewFromFloat(0.30), WholesalePrice: decimal.NewFromFloat(0.60),
			RetailPrice: decimal.NewFromFloat(1.00),
		},
	}
	for _, p := range products {
		store.SetProduct(p)
	}

	customers := []pos.CustomerInput{
		{CustomerName: "Rahim Uddin", Phone: "01711000001", Address: "Mirpur, Dhaka"},
		{CustomerName: "Karim Traders", Phone: "01822000002", Address: "Chawkbazar, Chattogram"},
		{CustomerName: "Salma Begum", Phone: "01933000003", Address: "Uttara, Dhaka"},
	}
	for _, c := range customers {
		if _, err := store.CreateCustomer(c); err != nil {
			// Seed data is static; a conflict here means a duplicate entry above.
			panic(err)
		}
	}

	return store
}
