package catalog

// Effect describes what a purchased item grants. The command layer is
// responsible for actually applying it (e.g. assigning a chat role).
type Effect struct {
	Kind  string `json:"kind"`
	Value string `json:"value,omitempty"`
}

type Item struct {
	Name   string `json:"name"`
	Price  int64  `json:"price"`
	Effect Effect `json:"effect"`
}

// Catalog is the static price list; fixed for the process lifetime.
type Catalog struct {
	items map[string]Item
	order []string
}

func New(items ...Item) *Catalog {
	c := &Catalog{items: make(map[string]Item, len(items))}
	for _, it := range items {
		if _, dup := c.items[it.Name]; dup {
			continue
		}
		c.items[it.Name] = it
		c.order = append(c.order, it.Name)
	}
	return c
}

// Default reproduces the community store: cosmetic trinkets plus the VIP
// role grant.
func Default() *Catalog {
	return New(
		Item{Name: "vip", Price: 100, Effect: Effect{Kind: "role", Value: "VIP"}},
		Item{Name: "Peasant's Hat", Price: 300, Effect: Effect{Kind: "cosmetic", Value: "Peasant's Hat"}},
		Item{Name: "Knight's Shield", Price: 1000, Effect: Effect{Kind: "cosmetic", Value: "Knight's Shield"}},
		Item{Name: "Royal Crown", Price: 1500, Effect: Effect{Kind: "cosmetic", Value: "Royal Crown"}},
		Item{Name: "Wizard's Wand", Price: 2000, Effect: Effect{Kind: "cosmetic", Value: "Wizard's Wand"}},
		Item{Name: "Emperor's Sword", Price: 5000, Effect: Effect{Kind: "cosmetic", Value: "Emperor's Sword"}},
		Item{Name: "Queen's Chair", Price: 25000, Effect: Effect{Kind: "cosmetic", Value: "Queen's Chair"}},
	)
}

func (c *Catalog) Get(name string) (Item, bool) {
	it, ok := c.items[name]
	return it, ok
}

// Items lists the catalog in insertion order.
func (c *Catalog) Items() []Item {
	out := make([]Item, 0, len(c.order))
	for _, name := range c.order {
		out = append(out, c.items[name])
	}
	return out
}
