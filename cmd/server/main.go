package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"bankcore/internal/bank"
	"bankcore/internal/config"
	"bankcore/internal/directory"
	"bankcore/internal/events"
	"bankcore/internal/events/kafka"
	"bankcore/internal/identity"
	"bankcore/internal/interfaces"
	"bankcore/internal/ledger"
	"bankcore/internal/models"
	"bankcore/internal/money"
	"bankcore/internal/storage/memory"
	"bankcore/internal/storage/postgres"
	"bankcore/internal/storage/sqlite"
)

// store is what a storage backend must provide to run the full demo.
type store interface {
	interfaces.LedgerStore
	interfaces.SessionStore
}

func main() {
	log, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	cfg := config.Load()

	st, err := openStore(cfg, log)
	if err != nil {
		log.Fatal("open store", zap.Error(err))
	}

	seed, err := cfg.SeedAccounts()
	if err != nil {
		log.Fatal("load seed accounts", zap.Error(err))
	}
	dir, err := directory.New(seed)
	if err != nil {
		log.Fatal("seed directory", zap.Error(err))
	}

	var publisher interfaces.EventPublisher = events.NopPublisher{}
	if len(cfg.KafkaBrokers) > 0 {
		publisher = kafka.NewPublisher(cfg.KafkaBrokers)
	}

	ids := identity.NewStore(dir, st, log)
	ids.Restore(context.Background())
	svc := bank.New(ledger.New(st), dir, publisher, log)

	http.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	http.HandleFunc("/login", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		var req struct {
			Username string `json:"username"`
			Password string `json:"password"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid request body", http.StatusBadRequest)
			return
		}
		account, err := ids.Authenticate(r.Context(), req.Username, req.Password)
		if err != nil {
			http.Error(w, err.Error(), http.StatusUnauthorized)
			return
		}
		writeJSON(w, map[string]any{"success": true, "user": account, "message": "Login successful"})
	})

	http.HandleFunc("/register", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		var req struct {
			Username      string `json:"username"`
			Email         string `json:"email"`
			FullName      string `json:"full_name"`
			AccountNumber string `json:"account_number"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid request body", http.StatusBadRequest)
			return
		}
		account, err := ids.Register(r.Context(), identity.Profile{
			Username:      req.Username,
			Email:         req.Email,
			FullName:      req.FullName,
			AccountNumber: req.AccountNumber,
		})
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		writeJSON(w, map[string]any{"success": true, "user": account, "message": "Registration successful"})
	})

	http.HandleFunc("/logout", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		if err := ids.Deregister(r.Context()); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		writeJSON(w, map[string]any{"success": true})
	})

	http.HandleFunc("/balance", func(w http.ResponseWriter, r *http.Request) {
		actor, ok := requireActor(w, ids)
		if !ok {
			return
		}
		balance, err := svc.Balance(r.Context(), actor)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		writeJSON(w, map[string]any{
			"account_number": actor.AccountNumber,
			"balance":        balance.Decimal(),
		})
	})

	http.HandleFunc("/transactions", func(w http.ResponseWriter, r *http.Request) {
		actor, ok := requireActor(w, ids)
		if !ok {
			return
		}
		txs, err := svc.Transactions(r.Context(), actor)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		writeJSON(w, txs)
	})

	type opRequest struct {
		Amount      decimal.Decimal `json:"amount"`
		ToAccount   string          `json:"to_account"`
		Description string          `json:"description"`
	}
	operation := func(run func(ctx context.Context, actor models.Account, amount money.Amount, req opRequest) (bank.Result, error)) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost {
				w.WriteHeader(http.StatusMethodNotAllowed)
				return
			}
			actor, ok := requireActor(w, ids)
			if !ok {
				return
			}
			var req opRequest
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				http.Error(w, "invalid request body", http.StatusBadRequest)
				return
			}
			amount, err := money.FromDecimal(req.Amount)
			if err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			result, err := run(r.Context(), actor, amount, req)
			if err != nil {
				http.Error(w, err.Error(), http.StatusInternalServerError)
				return
			}
			writeJSON(w, result)
		}
	}

	http.HandleFunc("/deposit", operation(func(ctx context.Context, actor models.Account, amount money.Amount, req opRequest) (bank.Result, error) {
		return svc.Deposit(ctx, actor, amount, req.Description)
	}))
	http.HandleFunc("/withdraw", operation(func(ctx context.Context, actor models.Account, amount money.Amount, req opRequest) (bank.Result, error) {
		return svc.Withdraw(ctx, actor, amount, req.Description)
	}))
	http.HandleFunc("/transfer", operation(func(ctx context.Context, actor models.Account, amount money.Amount, req opRequest) (bank.Result, error) {
		return svc.Transfer(ctx, actor, amount, req.ToAccount, req.Description)
	}))

	log.Info("starting server", zap.String("addr", cfg.Addr), zap.String("storage", cfg.Storage))
	if err := http.ListenAndServe(cfg.Addr, nil); err != nil {
		log.Fatal("server stopped", zap.Error(err))
	}
}

func openStore(cfg config.Config, log *zap.Logger) (store, error) {
	switch cfg.Storage {
	case config.StorageMemory:
		return memory.NewStore(), nil
	case config.StorageSQLite:
		return sqlite.Open(cfg.SQLitePath, log)
	case config.StoragePostgres:
		return postgres.Open(cfg.PostgresDSN)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage)
	}
}

func requireActor(w http.ResponseWriter, ids *identity.Store) (models.Account, bool) {
	actor, ok := ids.Current()
	if !ok {
		http.Error(w, "not logged in", http.StatusUnauthorized)
		return models.Account{}, false
	}
	return actor, true
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}
