package entity

// Kind describes one owned-record table: its route name, backing table and
// the column sets the generic policy validates and persists. Every table
// additionally carries the owner column `user_id`; it is never settable
// from a payload.
type Kind struct {
	Name     string
	Table    string
	Required []string
	Optional []string
	// Numeric lists the columns with a numeric column type. The driver
	// scans NUMERIC as raw bytes, so the repo needs the schema to know
	// which columns to parse; text columns stay text even when their
	// content happens to look like a number.
	Numeric []string
}

// Columns returns the payload-settable columns in declaration order,
// required first.
func (k Kind) Columns() []string {
	cols := make([]string, 0, len(k.Required)+len(k.Optional))
	cols = append(cols, k.Required...)
	cols = append(cols, k.Optional...)
	return cols
}

// NumericColumn reports whether the named column is numeric-typed.
func (k Kind) NumericColumn(name string) bool {
	for _, c := range k.Numeric {
		if c == name {
			return true
		}
	}
	return false
}

// Ref is the minimal projection used to populate form dropdowns.
type Ref struct {
	ID   int64  `db:"id" json:"id"`
	Name string `db:"name" json:"name"`
}

// Kinds is the registry of resource kinds served by the API. One scoped
// CRUD policy covers all of them; adding a kind here is all it takes to
// expose a new owned table.
var Kinds = []Kind{
	{
		Name:     "clients",
		Table:    "clients",
		Required: []string{"name", "email"},
		Optional: []string{"phone", "address"},
	},
	{
		Name:     "suppliers",
		Table:    "suppliers",
		Required: []string{"name", "contact"},
		Optional: []string{"email", "phone", "address"},
	},
	{
		Name:     "products",
		Table:    "products",
		Required: []string{"name", "price", "stock"},
		Optional: []string{"description"},
		Numeric:  []string{"price", "stock"},
	},
	{
		Name:     "purchases",
		Table:    "purchases",
		Required: []string{"product_id", "supplier_id", "quantity", "purchase_date", "price"},
		Numeric:  []string{"product_id", "supplier_id", "quantity", "price"},
	},
	{
		Name:     "sales",
		Table:    "sales",
		Required: []string{"product_id", "supplier_id", "quantity", "sale_date", "price"},
		Numeric:  []string{"product_id", "supplier_id", "quantity", "price"},
	},
}

// KindByName looks up a registered kind by its route name.
func KindByName(name string) (Kind, bool) {
	for _, k := range Kinds {
		if k.Name == name {
			return k, true
		}
	}
	return Kind{}, false
}
