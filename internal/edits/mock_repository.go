package edits

import (
	"context"
	"sort"

	"github.com/kilupskalvis/mapedit/internal/models"
)

// MockRepository is an in-memory MapDataRepository for testing.
type MockRepository struct {
	// Elements stores elements by key
	Elements map[models.ElementKey]*models.Element
	// Err can be set to make methods return an error
	Err error
	// Fetches counts GetElement calls
	Fetches int
}

// NewMockRepository creates a new MockRepository holding els.
func NewMockRepository(els ...*models.Element) *MockRepository {
	m := &MockRepository{Elements: make(map[models.ElementKey]*models.Element)}
	for _, el := range els {
		m.Put(el)
	}
	return m
}

// Put adds or replaces an element.
func (m *MockRepository) Put(el *models.Element) {
	m.Elements[el.Key()] = el.Copy()
}

// Remove deletes an element.
func (m *MockRepository) Remove(key models.ElementKey) {
	delete(m.Elements, key)
}

// Apply applies map data changes to the mock store.
func (m *MockRepository) Apply(c *models.MapDataChanges) {
	for _, el := range c.Creations {
		m.Put(el)
	}
	for _, el := range c.Modifications {
		m.Put(el)
	}
	for _, el := range c.Deletions {
		m.Remove(el.Key())
	}
}

func (m *MockRepository) GetElement(_ context.Context, key models.ElementKey) (*models.Element, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	m.Fetches++
	el, ok := m.Elements[key]
	if !ok {
		return nil, nil
	}
	return el.Copy(), nil
}

func (m *MockRepository) GetWaysForNode(_ context.Context, id int64) ([]*models.Element, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return m.collect(func(el *models.Element) bool {
		if el.Type != models.ElementWay {
			return false
		}
		for _, ref := range el.NodeIDs {
			if ref == id {
				return true
			}
		}
		return false
	}), nil
}

func (m *MockRepository) GetRelationsForNode(_ context.Context, id int64) ([]*models.Element, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return m.collect(func(el *models.Element) bool {
		if el.Type != models.ElementRelation {
			return false
		}
		for _, member := range el.Members {
			if member.Type == models.ElementNode && member.Ref == id {
				return true
			}
		}
		return false
	}), nil
}

func (m *MockRepository) collect(match func(*models.Element) bool) []*models.Element {
	var result []*models.Element
	for _, el := range m.Elements {
		if match(el) {
			result = append(result, el.Copy())
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result
}

// MockIDProvider hands out decreasing provisional ids starting at -1.
type MockIDProvider struct {
	last int64
}

func (p *MockIDProvider) NextID(_ models.ElementType) (int64, error) {
	p.last--
	return p.last, nil
}
