package infra

import (
	"github.com/secmon-lab/bqrun/pkg/domain/interfaces"
)

type Clients struct {
	bq     interfaces.BigQuery
	cs     interfaces.CloudStorage
	policy interfaces.Policy
}

func New(options ...Option) *Clients {
	c := &Clients{}
	for _, option := range options {
		option(c)
	}

	return c
}

func (x *Clients) BigQuery() interfaces.BigQuery         { return x.bq }
func (x *Clients) CloudStorage() interfaces.CloudStorage { return x.cs }
func (x *Clients) Policy() interfaces.Policy             { return x.policy }

type Option func(*Clients)

func WithBigQuery(bq interfaces.BigQuery) Option {
	return func(c *Clients) {
		c.bq = bq
	}
}

func WithCloudStorage(cs interfaces.CloudStorage) Option {
	return func(c *Clients) {
		c.cs = cs
	}
}

// WithPolicy enables authorization of HTTP requests by the policy.
func WithPolicy(policy interfaces.Policy) Option {
	return func(c *Clients) {
		c.policy = policy
	}
}
