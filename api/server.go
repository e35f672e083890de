package api

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/tendermint/tendermint/libs/log"

	"github.com/iov-one/pswap"
	"github.com/iov-one/pswap/coin"
	"github.com/iov-one/pswap/x/swap"
)

// Engine is the part of the swap engine used by the API.
type Engine interface {
	Swap(ctx context.Context, key []byte) (*swap.Swap, error)
	SwapsByAssetEscrower(ctx context.Context, addr pswap.Address) ([]*swap.Swap, error)
	SwapsByPremiumEscrower(ctx context.Context, addr pswap.Address) ([]*swap.Swap, error)
	Deadlines(ctx context.Context, key []byte) (*swap.Schedule, error)
	View(fn func(db pswap.ReadOnlyKVStore) error) error
}

var _ Engine = (*swap.Engine)(nil)

// Balancer reads the ledger balances.
type Balancer interface {
	Balance(db pswap.ReadOnlyKVStore, addr pswap.Address) (coin.Coins, error)
}

// History returns the recorded events of a swap.
type History interface {
	History(ctx context.Context, key []byte) ([]swap.Event, error)
}

// Server handles the HTTP requests.
type Server struct {
	engine  Engine
	ledger  Balancer
	history History
	logger  log.Logger
	debug   bool
}

// Option customizes the server.
type Option func(*Server)

// WithHistory enables the events endpoint.
func WithHistory(h History) Option {
	return func(s *Server) { s.history = h }
}

// WithLogger sets the request logger.
func WithLogger(l log.Logger) Option {
	return func(s *Server) { s.logger = l }
}

// WithDebug includes the details of internal errors in the responses.
func WithDebug(debug bool) Option {
	return func(s *Server) { s.debug = debug }
}

// NewServer returns a server reading from given engine and ledger.
func NewServer(engine Engine, ledger Balancer, opts ...Option) *Server {
	s := &Server{
		engine: engine,
		ledger: ledger,
		logger: log.NewNopLogger(),
	}
	for _, fn := range opts {
		fn(s)
	}
	s.logger = s.logger.With("module", "api")
	return s
}

// Router returns the HTTP handler of the server.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(requestIDMiddleware)
	r.Use(s.recoverMiddleware)
	r.Use(s.loggingMiddleware)

	r.Get("/healthz", s.healthz)
	r.Route("/swaps", func(r chi.Router) {
		r.Get("/", s.listSwaps)
		r.Get("/{key}", s.getSwap)
		r.Get("/{key}/deadlines", s.getDeadlines)
		r.Get("/{key}/events", s.getEvents)
	})
	r.Get("/balances/{address}", s.getBalance)
	return r
}
