package main

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	auth "github.com/ahmedha-data-analyst/water-blend-optimizer/internal/auth"
	blend "github.com/ahmedha-data-analyst/water-blend-optimizer/internal/calc/blend"
	optimizer "github.com/ahmedha-data-analyst/water-blend-optimizer/internal/calc/optimizer"
	planner "github.com/ahmedha-data-analyst/water-blend-optimizer/internal/calc/planner"
	batch "github.com/ahmedha-data-analyst/water-blend-optimizer/internal/calc/premium/batch"
	exporter "github.com/ahmedha-data-analyst/water-blend-optimizer/internal/calc/premium/exporter"
	importer "github.com/ahmedha-data-analyst/water-blend-optimizer/internal/calc/premium/importer"
	report "github.com/ahmedha-data-analyst/water-blend-optimizer/internal/calc/report"
	sludge "github.com/ahmedha-data-analyst/water-blend-optimizer/internal/calc/sludge"
	history "github.com/ahmedha-data-analyst/water-blend-optimizer/internal/history"
	logging "github.com/ahmedha-data-analyst/water-blend-optimizer/internal/logging"
	profile "github.com/ahmedha-data-analyst/water-blend-optimizer/internal/profile"
	refdata "github.com/ahmedha-data-analyst/water-blend-optimizer/internal/refdata"
	repo "github.com/ahmedha-data-analyst/water-blend-optimizer/internal/repo"
)

var wg sync.WaitGroup

func CORS(mux *mux.Router) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*") //фронт пока ходит с локалхоста
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PATCH, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		mux.ServeHTTP(w, r)
	})
}

func HandleList(router *mux.Router, db *sql.DB, logger zerolog.Logger) {
	operatorRepo := repo.NewPostgresOperatorDB(db)

	tokenKey := os.Getenv("TOKEN_KEY")
	if tokenKey == "" {
		logger.Fatal().Msg("TOKEN_KEY environment variable is not set")
	}

	store, err := refdata.Load(os.Getenv("REFDATA_PATH"))
	if err != nil {
		logger.Fatal().Err(err).Msg("Не удалось загрузить справочные таблицы")
	}
	eng := blend.New(store)

	authEnv := &auth.Authenv{JWTkey: []byte(tokenKey), Repo: operatorRepo, Log: logger}
	profileH := &profile.ProfileHandler{Repo: operatorRepo}
	historyH := &history.Handler{Repo: operatorRepo}

	limiter := auth.NewIPRateLimiter(1, 3)

	api := router.PathPrefix("/api").Subrouter()
	api.Use(limiter.LimitMiddleware)

	api.HandleFunc("/login", authEnv.AuthHandler).Methods("POST")
	api.HandleFunc("/register", authEnv.RegisterHandler).Methods("POST")

	blendH := &blend.Handler{Eng: eng}
	api.HandleFunc("/reference", blendH.Reference).Methods("GET")

	secureApi := api.PathPrefix("/user").Subrouter()
	secureApi.Use(authEnv.AuthMiddleware)

	secureApi.HandleFunc("/profile", profileH.GetProfile).Methods("GET")
	secureApi.HandleFunc("/profile", profileH.UpdateProfile).Methods("PATCH", "PUT")
	secureApi.HandleFunc("/profile/{id:[0-9]+}", profileH.GetProfile).Methods("GET")

	optimizeH := &optimizer.Handler{Eng: eng}
	planH := &planner.Handler{Eng: eng}
	sludgeH := &sludge.Handler{Store: store}
	reportH := &report.Handler{Eng: eng}

	secureApi.HandleFunc("/tools/blend/evaluate", blendH.Evaluate).Methods("POST")
	secureApi.HandleFunc("/tools/blend/optimize", optimizeH.Optimize).Methods("POST")
	secureApi.HandleFunc("/tools/blend/plan", planH.Plan).Methods("POST")
	secureApi.HandleFunc("/tools/sludge/estimate", sludgeH.Estimate).Methods("POST")
	secureApi.HandleFunc("/tools/report/pdf", reportH.Generate).Methods("POST")

	secureApi.HandleFunc("/history", historyH.Save).Methods("POST")
	secureApi.HandleFunc("/history", historyH.List).Methods("GET")
	secureApi.HandleFunc("/history/{id}", historyH.Get).Methods("GET")

	importH := &importer.Handler{Eng: eng}
	exportH := &exporter.Handler{Eng: eng}
	batchH := &batch.Handler{Eng: eng}

	premiumApi := secureApi.PathPrefix("/tools/premium").Subrouter()
	premiumApi.Use(authEnv.PremiumMiddleware)
	premiumApi.HandleFunc("/import", importH.Sources).Methods("POST")
	premiumApi.HandleFunc("/export", exportH.Optimize).Methods("POST")
	premiumApi.HandleFunc("/batch", batchH.Optimize).Methods("POST")

	authFileServer := http.FileServer(http.Dir("./static/auth"))
	router.PathPrefix("/auth/").
		Handler(authEnv.RedirectIfLoggedIn(http.StripPrefix("/auth", authFileServer)))
	profileFileServer := http.FileServer(http.Dir("./static/profile"))
	router.PathPrefix("/profile/").
		Handler(authEnv.PageAuthMiddleware(http.StripPrefix("/profile", profileFileServer)))
	mainFileServer := http.FileServer(http.Dir("./static/main"))
	router.PathPrefix("/").
		Handler(mainFileServer)
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Если .env нет, читаем окружение напрямую.
	_ = godotenv.Load()

	logger := logging.New(os.Getenv("LOG_LEVEL"), os.Getenv("LOG_PRETTY") == "true")

	db := auth.InitDB(logger)
	defer db.Close()

	router := mux.NewRouter()
	router.Use(logging.Middleware(logger))
	HandleList(router, db, logger)
	handler := CORS(router)

	addr := os.Getenv("LISTEN_ADDR")
	if addr == "" {
		addr = ":443"
	}
	certFile := os.Getenv("TLS_CERT")
	if certFile == "" {
		certFile = "server.crt"
	}
	keyFile := os.Getenv("TLS_KEY")
	if keyFile == "" {
		keyFile = "server.key"
	}

	server := &http.Server{
		Addr:    addr,
		Handler: handler,
	}

	logger.Info().Str("addr", addr).Msg("Starting server")

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := server.ListenAndServeTLS(certFile, keyFile); err != nil && err != http.ErrServerClosed {
			logger.Error().Err(err).Msg("Server error")
		}
	}()

	<-ctx.Done()
	logger.Info().Msg("Shutdown signal received!")
	logger.Info().Msg("Закрытие активных соединений")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Fatal().Err(err).Msg("Ошибка при остановке сервера")
	}
	logger.Info().Msg("Сервер успешно остановлен")

	wg.Wait()
}
