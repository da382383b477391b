package enums

// CatalogKind separates supplier catalogs, which staff restock, from store inventories.
type CatalogKind string

const (
	CatalogKindSupplier  CatalogKind = "SUPPLIER"
	CatalogKindInventory CatalogKind = "INVENTORY"
)

var catalogKinds = []CatalogKind{CatalogKindSupplier, CatalogKindInventory}

func (k CatalogKind) String() string { return string(k) }

func (k CatalogKind) IsValid() bool {
	_, err := ParseCatalogKind(string(k))
	return err == nil
}

func ParseCatalogKind(value string) (CatalogKind, error) {
	return parse(value, catalogKinds, "catalog kind")
}
