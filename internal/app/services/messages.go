package services

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/fr0stylo/stockwatch/internal/app/domain"
)

var printer = message.NewPrinter(language.English)

var supplierLabels = map[domain.Source]string{
	domain.SourceSSActivewear: "S&S Activewear",
	domain.SourceSanMar:       "SanMar",
}

func supplierLabel(source domain.Source) string {
	if label, ok := supplierLabels[source]; ok {
		return label
	}
	return string(source)
}

func sizeLabel(size domain.SizeInventoryUpdate) string {
	if size.SizeName != "" {
		return size.SizeName
	}
	return size.SizeID
}

func colorLabel(product domain.ProductInventoryUpdate) string {
	if product.ColorName != "" {
		return product.ColorName
	}
	return product.ColorID
}

func discontinuedMessage(product domain.ProductInventoryUpdate, source domain.Source) (string, string) {
	return "Product Discontinued",
		printer.Sprintf("%s (%s) has been discontinued by %s", product.DisplayName(), product.SKU, supplierLabel(source))
}

func priceChangeMessage(product domain.ProductInventoryUpdate, price decimal.Decimal) (string, string) {
	return "Price Update",
		printer.Sprintf("%s price updated to $%s", product.DisplayName(), price.StringFixed(2))
}

func outOfStockMessage(product domain.ProductInventoryUpdate, size domain.SizeInventoryUpdate) (string, string) {
	return "Out of Stock",
		printer.Sprintf("%s in %s, size %s is now out of stock", product.DisplayName(), colorLabel(product), sizeLabel(size))
}

func restockedMessage(product domain.ProductInventoryUpdate, size domain.SizeInventoryUpdate, quantity int) (string, string) {
	return "Back in Stock",
		printer.Sprintf("%s in %s, size %s is back in stock with %d units", product.DisplayName(), colorLabel(product), sizeLabel(size), quantity)
}

func lowStockMessage(product domain.ProductInventoryUpdate, size domain.SizeInventoryUpdate, quantity int) (string, string) {
	return "Low Stock",
		printer.Sprintf("%s in %s, size %s is running low: %d units remaining", product.DisplayName(), colorLabel(product), sizeLabel(size), quantity)
}
