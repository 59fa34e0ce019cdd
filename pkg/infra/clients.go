package infra

import (
	"github.com/secmon-lab/codergate/pkg/domain/interfaces"
)

type Clients struct {
	store     interfaces.Store
	analysis  interfaces.AnalysisStore
	exchanger interfaces.TokenExchanger
	bqClient  interfaces.BigQuery
}

type Option func(*Clients)

func New(options ...Option) *Clients {
	client := &Clients{}

	for _, opt := range options {
		opt(client)
	}

	return client
}

func (x *Clients) Store() interfaces.Store {
	return x.store
}
func (x *Clients) Analysis() interfaces.AnalysisStore {
	return x.analysis
}
func (x *Clients) TokenExchanger() interfaces.TokenExchanger {
	return x.exchanger
}
func (x *Clients) BigQuery() interfaces.BigQuery {
	return x.bqClient
}

func WithStore(store interfaces.Store) Option {
	return func(x *Clients) {
		x.store = store
	}
}

func WithAnalysis(analysis interfaces.AnalysisStore) Option {
	return func(x *Clients) {
		x.analysis = analysis
	}
}

func WithTokenExchanger(exchanger interfaces.TokenExchanger) Option {
	return func(x *Clients) {
		x.exchanger = exchanger
	}
}

func WithBigQuery(client interfaces.BigQuery) Option {
	return func(x *Clients) {
		x.bqClient = client
	}
}
