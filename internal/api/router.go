package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ledgerwallet/walletcore/internal/services/wallet"
)

// NewRouter constructs the wallet API's http.Handler.
func NewRouter(svc *wallet.Service) http.Handler {
	h := NewHandler(svc)
	r := chi.NewRouter()

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/v1/wallets/{userId}", func(r chi.Router) {
		r.Post("/topup", h.TopUpHandler)
		r.Post("/bonus", h.IssueBonusHandler)
		r.Post("/purchase", h.PurchaseHandler)
		r.Get("/balance", h.GetBalanceHandler)
		r.Get("/transactions", h.GetTransactionsHandler)
	})

	return r
}
