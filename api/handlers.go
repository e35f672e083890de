package api

import (
	"encoding/hex"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iov-one/pswap"
	"github.com/iov-one/pswap/coin"
	"github.com/iov-one/pswap/errors"
	"github.com/iov-one/pswap/x/swap"
)

// swapView is the JSON representation of a swap.
type swapView struct {
	*swap.Swap
	State   swap.State    `json:"state"`
	Custody pswap.Address `json:"custody"`
}

func newSwapView(s *swap.Swap) swapView {
	return swapView{
		Swap:    s,
		State:   s.State(),
		Custody: swap.CustodyAddress(s.Key()),
	}
}

type balanceView struct {
	Address pswap.Address `json:"address"`
	Coins   coin.Coins    `json:"coins"`
}

func (s *Server) healthz(w http.ResponseWriter, r *http.Request) {
	writeMessage(w, http.StatusOK, "ok")
}

func (s *Server) getSwap(w http.ResponseWriter, r *http.Request) {
	key, err := keyParam(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	res, err := s.engine.Swap(r.Context(), key)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, newSwapView(res))
}

func (s *Server) getDeadlines(w http.ResponseWriter, r *http.Request) {
	key, err := keyParam(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	sched, err := s.engine.Deadlines(r.Context(), key)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, sched)
}

func (s *Server) getEvents(w http.ResponseWriter, r *http.Request) {
	if s.history == nil {
		s.writeError(w, r, errors.Wrap(errors.ErrNotFound, "event history is not recorded"))
		return
	}
	key, err := keyParam(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	events, err := s.history.History(r.Context(), key)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if events == nil {
		events = []swap.Event{}
	}
	writeSuccess(w, http.StatusOK, events)
}

func (s *Server) listSwaps(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	assetEscrower, premiumEscrower := q.Get("asset_escrower"), q.Get("premium_escrower")

	var (
		swaps []*swap.Swap
		err   error
	)
	switch {
	case assetEscrower != "" && premiumEscrower != "":
		err = errors.Wrap(errors.ErrInvalidInput, "filter by one party only")
	case assetEscrower != "":
		var addr pswap.Address
		if addr, err = parseAddress(assetEscrower); err == nil {
			swaps, err = s.engine.SwapsByAssetEscrower(r.Context(), addr)
		}
	case premiumEscrower != "":
		var addr pswap.Address
		if addr, err = parseAddress(premiumEscrower); err == nil {
			swaps, err = s.engine.SwapsByPremiumEscrower(r.Context(), addr)
		}
	default:
		err = errors.Wrap(errors.ErrInvalidInput, "asset_escrower or premium_escrower is required")
	}
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	views := make([]swapView, 0, len(swaps))
	for _, sw := range swaps {
		views = append(views, newSwapView(sw))
	}
	writeSuccess(w, http.StatusOK, views)
}

func (s *Server) getBalance(w http.ResponseWriter, r *http.Request) {
	addr, err := parseAddress(chi.URLParam(r, "address"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var coins coin.Coins
	err = s.engine.View(func(db pswap.ReadOnlyKVStore) error {
		var err error
		coins, err = s.ledger.Balance(db, addr)
		return err
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if coins == nil {
		coins = coin.Coins{}
	}
	writeSuccess(w, http.StatusOK, balanceView{Address: addr, Coins: coins})
}

func keyParam(r *http.Request) ([]byte, error) {
	raw := chi.URLParam(r, "key")
	key, err := hex.DecodeString(raw)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInvalidInput, "commitment key %q is not hex", raw)
	}
	if len(key) != swap.CommitmentKeySize {
		return nil, errors.Wrapf(errors.ErrInvalidInput, "commitment key must be %d bytes", swap.CommitmentKeySize)
	}
	return key, nil
}

func parseAddress(raw string) (pswap.Address, error) {
	addr, err := pswap.ParseAddress(raw)
	if err != nil {
		return nil, err
	}
	if err := addr.Validate(); err != nil {
		return nil, err
	}
	return addr, nil
}
