package catalog

import (
	"bytes"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Parse decodes a YAML catalog snapshot.
func Parse(data []byte) ([]Product, error) {
	if len(data) == 0 {
		return []Product{}, nil
	}
	var products []Product
	if err := yaml.Unmarshal(data, &products); err != nil {
		return nil, fmt.Errorf("parsing catalog YAML: %w", err)
	}
	if products == nil {
		return []Product{}, nil
	}
	return products, nil
}

// Marshal encodes products as a YAML snapshot.
func Marshal(products []Product) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(products); err != nil {
		return nil, fmt.Errorf("encoding catalog: %w", err)
	}
	return buf.Bytes(), nil
}

// Append adds a product to the list and returns the updated slice.
// If a product with the same ID already exists it is replaced in place.
func Append(products []Product, p Product) []Product {
	for i, existing := range products {
		if existing.ID == p.ID {
			products[i] = p
			return products
		}
	}
	return append(products, p)
}

// Remove removes a product by ID. Returns the updated slice and whether a
// product was actually removed.
func Remove(products []Product, id string) ([]Product, bool) {
	for i, p := range products {
		if p.ID == id {
			return append(products[:i:i], products[i+1:]...), true
		}
	}
	return products, false
}
