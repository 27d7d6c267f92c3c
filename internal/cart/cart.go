package cart

import (
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/Nickgiresse/patis-t/internal/catalog"
)

var (
	ErrCartNotFound = errors.New("cart not found")
	ErrEmptyCart    = errors.New("cart is empty")
)

// UnknownProductError reports a cart entry referencing a product that is no
// longer in the catalog. Checkout fails loudly rather than dropping the line.
type UnknownProductError struct {
	ProductID string
}

func (e *UnknownProductError) Error() string {
	return fmt.Sprintf("cart references unknown product %q", e.ProductID)
}

// Line is one derived cart row: the catalog product at its current price plus
// the quantity held in the cart.
type Line struct {
	Product  catalog.Product
	Quantity int
}

// Store keeps session carts in memory. Carts are transient: they exist for the
// duration of a browsing session and are lost on restart.
type Store struct {
	mu    sync.Mutex
	carts map[string]map[string]int
}

func NewStore() *Store {
	return &Store{carts: make(map[string]map[string]int)}
}

// Create opens a new empty cart and returns its id.
func (s *Store) Create() string {
	id := uuid.NewString()
	s.mu.Lock()
	s.carts[id] = make(map[string]int)
	s.mu.Unlock()
	return id
}

// Items returns a copy of the quantity mapping.
func (s *Store) Items(cartID string) (map[string]int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	items, ok := s.carts[cartID]
	if !ok {
		return nil, ErrCartNotFound
	}
	out := make(map[string]int, len(items))
	for k, v := range items {
		out[k] = v
	}
	return out, nil
}

// Add increments the quantity by 1, creating the entry at 1 if absent.
func (s *Store) Add(cartID, productID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	items, ok := s.carts[cartID]
	if !ok {
		return 0, ErrCartNotFound
	}
	items[productID]++
	return items[productID], nil
}

// Remove decrements the quantity by 1 and deletes the entry when it reaches
// zero. A zero-quantity entry is never kept.
func (s *Store) Remove(cartID, productID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	items, ok := s.carts[cartID]
	if !ok {
		return ErrCartNotFound
	}
	if items[productID] > 1 {
		items[productID]--
	} else {
		delete(items, productID)
	}
	return nil
}

// ClearItem removes the entry unconditionally regardless of quantity.
func (s *Store) ClearItem(cartID, productID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	items, ok := s.carts[cartID]
	if !ok {
		return ErrCartNotFound
	}
	delete(items, productID)
	return nil
}

// Reset empties the cart after a successful checkout.
func (s *Store) Reset(cartID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.carts[cartID]; !ok {
		return ErrCartNotFound
	}
	s.carts[cartID] = make(map[string]int)
	return nil
}

// Count returns the summed quantity across all entries.
func (s *Store) Count(cartID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	items, ok := s.carts[cartID]
	if !ok {
		return 0, ErrCartNotFound
	}
	n := 0
	for _, qty := range items {
		n += qty
	}
	return n, nil
}

// Snapshot derives the ordered line items and the total for a quantity mapping
// against the catalog. Entries with non-positive quantity are filtered out.
// Lines follow catalog order so the sequence is deterministic.
func Snapshot(items map[string]int, products []catalog.Product) ([]Line, float64, error) {
	byID := make(map[string]bool, len(items))
	for id, qty := range items {
		if qty > 0 {
			byID[id] = true
		}
	}

	var lines []Line
	var total float64
	for _, p := range products {
		qty := items[p.ID]
		if qty <= 0 {
			continue
		}
		lines = append(lines, Line{Product: p, Quantity: qty})
		total += p.Price * float64(qty)
		delete(byID, p.ID)
	}

	// anything left references a product missing from the catalog
	for id := range byID {
		return nil, 0, &UnknownProductError{ProductID: id}
	}
	if len(lines) == 0 {
		return nil, 0, ErrEmptyCart
	}
	return lines, total, nil
}
