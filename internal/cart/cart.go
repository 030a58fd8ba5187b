// Package cart gère le panier : un objet d'état aux mutations explicites,
// persisté après chaque changement et diffusé aux websockets ouverts.
package cart

import "boutique_back_end/internal/models"

type Cart struct {
	Items []models.CartItem `json:"items"`
}

func New() *Cart {
	return &Cart{Items: []models.CartItem{}}
}

func (c *Cart) find(productID string) int {
	for i, it := range c.Items {
		if it.ProductID == productID {
			return i
		}
	}
	return -1
}

// Add fusionne : une ligne existante prend +1, une nouvelle ligne démarre à 1.
func (c *Cart) Add(item models.CartItem) {
	if i := c.find(item.ProductID); i >= 0 {
		c.Items[i].Quantity++
		return
	}
	item.Quantity = 1
	c.Items = append(c.Items, item)
}

func (c *Cart) Remove(productID string) {
	if i := c.find(productID); i >= 0 {
		c.Items = append(c.Items[:i], c.Items[i+1:]...)
	}
}

func (c *Cart) Increase(productID string) {
	if i := c.find(productID); i >= 0 {
		c.Items[i].Quantity++
	}
}

// Decrease retire la ligne quand la quantité tombe à zéro.
func (c *Cart) Decrease(productID string) {
	i := c.find(productID)
	if i < 0 {
		return
	}
	c.Items[i].Quantity--
	if c.Items[i].Quantity <= 0 {
		c.Remove(productID)
	}
}

func (c *Cart) Clear() {
	c.Items = []models.CartItem{}
}

func (c *Cart) Total() float64 {
	total := 0.0
	for _, it := range c.Items {
		total += it.Price * float64(it.Quantity)
	}
	return total
}

// Count est le nombre d'articles, quantités comprises.
func (c *Cart) Count() int {
	n := 0
	for _, it := range c.Items {
		n += it.Quantity
	}
	return n
}

func (c *Cart) IsEmpty() bool { return len(c.Items) == 0 }

// Snapshot est la forme envoyée aux clients HTTP et websocket.
type Snapshot struct {
	Type  string            `json:"type,omitempty"`
	Items []models.CartItem `json:"items"`
	Total float64           `json:"total"`
	Count int               `json:"count"`
}

func (c *Cart) Snapshot() Snapshot {
	items := c.Items
	if items == nil {
		items = []models.CartItem{}
	}
	return Snapshot{Items: items, Total: c.Total(), Count: c.Count()}
}
