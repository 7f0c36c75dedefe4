package main

import (
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/armoredmart/armoredmart-backend/internal/modules/auth"
	"github.com/armoredmart/armoredmart-backend/internal/modules/catalog"
	"github.com/armoredmart/armoredmart-backend/internal/modules/order"
	"github.com/armoredmart/armoredmart-backend/internal/modules/payout"
	"github.com/armoredmart/armoredmart-backend/internal/modules/refdata"
	"github.com/armoredmart/armoredmart-backend/internal/modules/user"
	"github.com/armoredmart/armoredmart-backend/internal/modules/vendor"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
)

func main() {
	err := godotenv.Load()
	if err != nil {
		log.Fatal("Error loading .env file")
	}

	db, err := sql.Open("postgres", os.Getenv("DATABASE_URL"))
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatal(err)
	}
	fmt.Println("Successfully connected to the database!")

	secret := []byte(os.Getenv("JWT_SECRET"))
	if len(secret) == 0 {
		log.Fatal("JWT_SECRET must be set")
	}

	// ── Router ──────────────────────────────────────────────
	router := chi.NewRouter()
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(middleware.RequestID)

	// ── Phase 1: Identity & Access ──────────────────────────
	userRepo := user.NewPostgresRepository(db)
	userService := user.NewService(userRepo)
	user.NewHandler(userService).RegisterRoutes(router)

	authService := auth.NewService(userRepo, secret)
	auth.NewHandler(authService).RegisterRoutes(router)

	requireAuth := auth.NewMiddleware(userRepo, secret).RequireAuth

	// ── Phase 2: Vendor Onboarding ──────────────────────────
	vendorRepo := vendor.NewPostgresRepository(db)
	vendorService := vendor.NewService(vendorRepo)
	vendor.NewHandler(vendorService).RegisterRoutes(router, requireAuth)

	// ── Phase 3: Reference Data ─────────────────────────────
	refdataRepo := refdata.NewPostgresRepository(db)
	refdataService := refdata.NewService(refdataRepo)
	refdata.NewHandler(refdataService).RegisterRoutes(router, requireAuth)

	// ── Phase 4: Catalog ────────────────────────────────────
	catalogRepo := catalog.NewPostgresRepository(db)
	catalogService := catalog.NewService(catalogRepo, vendorRepo, refdataService)
	catalog.NewHandler(catalogService).RegisterRoutes(router, requireAuth)

	// ── Phase 5: Order Management ───────────────────────────
	orderRepo := order.NewPostgresRepository(db)
	orderService := order.NewService(orderRepo, catalogRepo, refdataService)
	order.NewHandler(orderService).RegisterRoutes(router, requireAuth)

	// ── Phase 6: Vendor Payouts ─────────────────────────────
	payoutRepo := payout.NewPostgresRepository(db)
	payoutService := payout.NewService(payoutRepo, vendorRepo)
	payout.NewHandler(payoutService).RegisterRoutes(router, requireAuth)

	// ── Start Server ─────────────────────────────────────────
	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "8080"
	}
	fmt.Printf("ArmoredMart API server starting on :%s\n", port)
	log.Fatal(http.ListenAndServe(":"+port, router))
}
