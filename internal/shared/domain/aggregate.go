package domain

// AggregateRoot is a domain object that records events for the outbox.
type AggregateRoot interface {
	DomainEvents() []DomainEvent
	ClearDomainEvents()
}

// BaseAggregateRoot collects uncommitted domain events.
// The zero value is ready to use, so aggregates rehydrated from storage
// or built as plain literals need no constructor.
type BaseAggregateRoot struct {
	domainEvents []DomainEvent
}

// DomainEvents returns all uncommitted domain events.
func (a *BaseAggregateRoot) DomainEvents() []DomainEvent {
	return a.domainEvents
}

// ClearDomainEvents removes all uncommitted domain events.
func (a *BaseAggregateRoot) ClearDomainEvents() {
	a.domainEvents = nil
}

// AddDomainEvent records a domain event on the aggregate.
func (a *BaseAggregateRoot) AddDomainEvent(event DomainEvent) {
	a.domainEvents = append(a.domainEvents, event)
}
