package todo

type Category struct {
	Value string `json:"value"`
	Label string `json:"label"`
	Color string `json:"color"`
}

const (
	CategoryDefault  = "default"
	CategoryWork     = "work"
	CategoryPersonal = "personal"
	CategoryShopping = "shopping"
	CategoryHealth   = "health"

	// FallbackColor is used for category values outside the known set.
	FallbackColor = "bg-gray-500"
)

var categories = []Category{
	{Value: CategoryDefault, Label: "Default", Color: "bg-gray-500"},
	{Value: CategoryWork, Label: "Work", Color: "bg-blue-500"},
	{Value: CategoryPersonal, Label: "Personal", Color: "bg-green-500"},
	{Value: CategoryShopping, Label: "Shopping", Color: "bg-yellow-500"},
	{Value: CategoryHealth, Label: "Health", Color: "bg-red-500"},
}

// Categories returns the closed category set in display order.
func Categories() []Category {
	out := make([]Category, len(categories))
	copy(out, categories)
	return out
}

func LookupCategory(value string) (Category, bool) {
	for _, c := range categories {
		if c.Value == value {
			return c, true
		}
	}
	return Category{}, false
}

func CategoryColor(value string) string {
	if c, ok := LookupCategory(value); ok {
		return c.Color
	}
	return FallbackColor
}
