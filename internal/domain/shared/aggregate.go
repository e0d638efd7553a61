package shared

// AggregateRoot extends Entity with optimistic locking and a buffer of
// domain events raised since the aggregate was loaded.
type AggregateRoot interface {
	Entity
	GetVersion() int
	IncrementVersion()
	AddDomainEvent(event DomainEvent)
	GetDomainEvents() []DomainEvent
	ClearDomainEvents()
}

// BaseAggregateRoot is the embeddable implementation of AggregateRoot.
// Version starts at 1 and must be bumped on every state change so the
// repository update can detect concurrent writers.
type BaseAggregateRoot struct {
	BaseEntity
	Version int `gorm:"not null;default:1" json:"version"`

	// events raised but not yet handed to the publisher
	domainEvents []DomainEvent `gorm:"-" json:"-"`
}

// NewBaseAggregateRoot returns a fresh root at version 1
func NewBaseAggregateRoot() BaseAggregateRoot {
	return BaseAggregateRoot{BaseEntity: NewBaseEntity(), Version: 1}
}

func (a *BaseAggregateRoot) GetVersion() int { return a.Version }

func (a *BaseAggregateRoot) IncrementVersion() { a.Version++ }

// AddDomainEvent buffers an event for publication after the owning
// transaction commits
func (a *BaseAggregateRoot) AddDomainEvent(event DomainEvent) {
	a.domainEvents = append(a.domainEvents, event)
}

func (a *BaseAggregateRoot) GetDomainEvents() []DomainEvent {
	return a.domainEvents
}

func (a *BaseAggregateRoot) ClearDomainEvents() {
	a.domainEvents = nil
}
