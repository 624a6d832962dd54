package edits

import (
	"fmt"
	"testing"

	"github.com/kilupskalvis/mapedit/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestIsGeometrySubstantiallyDifferent(t *testing.T) {
	tests := []struct {
		name     string
		original *models.Element
		current  *models.Element
		expected bool
	}{
		{"same node", node(1, 52.5, 13.4, nil), node(1, 52.5, 13.4, nil), false},
		{"node moved a little", node(1, 52.5, 13.4, nil), node(1, 52.5001, 13.4, nil), false},
		{"node moved far", node(1, 52.5, 13.4, nil), node(1, 52.51, 13.4, nil), true},
		{"node lost position", node(1, 52.5, 13.4, nil), &models.Element{Type: models.ElementNode, ID: 1}, true},
		{"same way", way(1, []int64{1, 2, 3}, nil), way(1, []int64{1, 2, 3}, nil), false},
		{"way reshaped", way(1, []int64{1, 2, 3}, nil), way(1, []int64{1, 3}, nil), true},
		{
			"relation members changed",
			relation(1, models.RelationMember{Type: models.ElementNode, Ref: 1, Role: "stop"}),
			relation(1, models.RelationMember{Type: models.ElementNode, Ref: 1, Role: "platform"}),
			true,
		},
		{"type changed", node(1, 52.5, 13.4, nil), way(1, nil, nil), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsGeometrySubstantiallyDifferent(tt.original, tt.current, DefaultNodeMoveTolerance))
		})
	}
}

func TestConflictError(t *testing.T) {
	err := fmt.Errorf("apply edit: %w", newConflict(ConflictElementDeleted, nodeKey(3), "element deleted"))

	assert.True(t, IsConflict(err))
	kind, ok := ConflictKindOf(err)
	assert.True(t, ok)
	assert.Equal(t, ConflictElementDeleted, kind)
	assert.Contains(t, err.Error(), "conflict on node/3: element deleted")

	assert.False(t, IsConflict(fmt.Errorf("plain")))
}
