package seed

// CityNames are inserted in this order on every run.
var CityNames = []string{"St. Petersburg", "Munich", "Prague"}

// CustomerSeed is one literal customer row.
type CustomerSeed struct {
	Name string
	Age  int
}

var Customers = []CustomerSeed{
	{Name: "Alice", Age: 21},
	{Name: "Bob", Age: 22},
	{Name: "Carol", Age: 23},
}

var OrderSKUs = []string{"SKU1", "SKU2", "SKU3"}
