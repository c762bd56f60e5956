package domain_test

import (
	"testing"

	"github.com/felixgeelhaar/perfboard/internal/shared/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testAggregate struct {
	domain.BaseAggregateRoot
	Name string
}

func TestBaseAggregateRoot_ZeroValue(t *testing.T) {
	agg := &testAggregate{Name: "zero"}

	assert.Empty(t, agg.DomainEvents())
}

func TestBaseAggregateRoot_AddAndClear(t *testing.T) {
	agg := &testAggregate{Name: "events"}

	agg.AddDomainEvent(domain.NewBaseEvent("A1", "Test", "test.created"))
	agg.AddDomainEvent(domain.NewBaseEvent("A1", "Test", "test.updated"))

	events := agg.DomainEvents()
	require.Len(t, events, 2)
	assert.Equal(t, "test.created", events[0].RoutingKey())
	assert.Equal(t, "test.updated", events[1].RoutingKey())

	agg.ClearDomainEvents()
	assert.Empty(t, agg.DomainEvents())
}

func TestBaseAggregateRoot_SatisfiesInterface(t *testing.T) {
	var _ domain.AggregateRoot = &testAggregate{}
}
