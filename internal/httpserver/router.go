package httpserver

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
	"storefront/internal/cart"
	"storefront/internal/catalog"
	"storefront/internal/domain"
	cartsvc "storefront/internal/service/cart"
	catalogsvc "storefront/internal/service/catalog"
)

type catalogService interface {
	List(ctx context.Context, c catalog.Criteria) (*catalogsvc.Listing, error)
	Get(ctx context.Context, id string) (*domain.Product, error)
	Home(ctx context.Context) (*catalogsvc.Home, error)
	Status() catalogsvc.State
	Refresh(ctx context.Context)
}

type cartService interface {
	Create(ctx context.Context) (*cartsvc.Session, error)
	Get(ctx context.Context, id string) (*cartsvc.Session, error)
	Add(ctx context.Context, id, productID string, quantity int) (*cartsvc.Session, *cart.Notice, error)
	SetQuantity(ctx context.Context, id, itemID string, quantity int) (*cartsvc.Session, *cart.Notice, error)
	Remove(ctx context.Context, id, itemID string) (*cartsvc.Session, *cart.Notice, error)
	Discard(ctx context.Context, id string) error
}

// Deps carries the services behind the routes.
type Deps struct {
	CatalogSvc catalogService
	CartSvc    cartService
	// CORSOrigins lists allowed browser origins; empty or "*" allows any.
	CORSOrigins []string
}

type handlers struct {
	catalog catalogService
	carts   cartService
	logger  *zap.Logger
}

// buildRouter wires routes for the API.
func buildRouter(logger *zap.Logger, db *pgxpool.Pool, deps Deps) (*gin.Engine, error) {
	if deps.CatalogSvc == nil {
		return nil, errors.New("catalog service required")
	}
	if deps.CartSvc == nil {
		return nil, errors.New("cart service required")
	}

	if gin.Mode() != gin.TestMode {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(
		requestID(),
		requestLogger(logger),
		gin.CustomRecovery(recoverer(logger)),
		cors.New(corsConfig(deps.CORSOrigins)),
	)

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(db))

	h := &handlers{catalog: deps.CatalogSvc, carts: deps.CartSvc, logger: logger.Named("http")}

	api := router.Group("/api")
	api.GET("/home", h.home)
	api.GET("/products", h.listProducts)
	api.GET("/products/:id", h.getProduct)
	api.GET("/catalog/status", h.catalogStatus)
	api.POST("/catalog/refresh", h.refreshCatalog)

	carts := api.Group("/carts")
	carts.POST("", h.createCart)
	carts.GET("/:cartId", h.getCart)
	carts.DELETE("/:cartId", h.discardCart)
	carts.POST("/:cartId/items", h.addItem)
	carts.PUT("/:cartId/items/:itemId", h.setItemQuantity)
	carts.DELETE("/:cartId/items/:itemId", h.removeItem)

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, errorBody{Error: "not_found", Message: "route not found"})
	})

	return router, nil
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", requestIDHeader},
		ExposeHeaders: []string{requestIDHeader},
		MaxAge:        12 * time.Hour,
	}
	allowAll := len(origins) == 0
	for _, o := range origins {
		if o == "*" {
			allowAll = true
		}
	}
	if allowAll {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cfg
}
