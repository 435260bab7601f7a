package api

import (
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"shareit-backend/internal/auth"
	"shareit-backend/internal/booking"
	bookingHttp "shareit-backend/internal/booking/http"
	"shareit-backend/internal/comment"
	"shareit-backend/internal/item"
	itemHttp "shareit-backend/internal/item/http"
	"shareit-backend/internal/request"
	requestHttp "shareit-backend/internal/request/http"
	"shareit-backend/internal/user"
	userHttp "shareit-backend/internal/user/http"
)

// Config holds the services and settings the router needs.
type Config struct {
	IsProduction   bool
	ProdOrigins    string
	Logger         *zap.Logger
	UserService    user.Service
	ItemService    item.Service
	RequestService request.Service
	BookingService booking.Service
	CommentService comment.Service
}

// NewRouter initializes the HTTP router engine.
// It assembles middleware (request id, logging, CORS, identity) and registers
// routes for each module.
func NewRouter(cfg Config) *gin.Engine {
	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(RequestID(), RequestLogger(cfg.Logger), gin.Recovery())

	corsConfig := cors.DefaultConfig()
	if cfg.IsProduction {
		corsConfig.AllowOrigins = strings.Split(cfg.ProdOrigins, ",")
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", auth.UserIDHeader}
	r.Use(cors.New(corsConfig))

	// identityMiddleware resolves the acting user from the gateway header.
	identityMiddleware := auth.IdentityRequired()

	userHandler := userHttp.NewHandler(cfg.UserService)
	itemHandler := itemHttp.NewHandler(cfg.ItemService, cfg.BookingService, cfg.CommentService)
	requestHandler := requestHttp.NewHandler(cfg.RequestService)
	bookingHandler := bookingHttp.NewHandler(cfg.BookingService)

	root := r.Group("")
	{
		userHttp.RegisterRoutes(root, userHandler)
		itemHttp.RegisterRoutes(root, itemHandler, identityMiddleware)
		requestHttp.RegisterRoutes(root, requestHandler, identityMiddleware)
		bookingHttp.RegisterRoutes(root, bookingHandler, identityMiddleware)
	}

	return r
}
