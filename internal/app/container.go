package app

import (
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"shareit-backend/internal/api"
	"shareit-backend/internal/booking"
	"shareit-backend/internal/comment"
	"shareit-backend/internal/item"
	"shareit-backend/internal/pkg/clock"
	"shareit-backend/internal/request"
	"shareit-backend/internal/user"
)

// Config holds the dependencies and settings required to start the application.
type Config struct {
	IsProduction     bool
	ProdOrigins      string
	DBPool           *pgxpool.Pool
	BookingCacheSize int
	Logger           *zap.Logger
}

// Container holds the initialized components that are needed externally.
type Container struct {
	Router *gin.Engine
}

// NewContainer initializes all modules and returns the container.
func NewContainer(cfg Config) (*Container, error) {
	clk := clock.System{}

	// User Module
	userRepo := user.NewPgxRepository(cfg.DBPool)
	userService := user.NewService(userRepo, cfg.Logger)

	// Request Module
	requestRepo := request.NewPgxRepository(cfg.DBPool)
	requestService := request.NewService(requestRepo, userService, clk, cfg.Logger)

	// Item Module
	itemRepo := item.NewPgxRepository(cfg.DBPool)
	itemService := item.NewService(itemRepo, userService, requestService, cfg.Logger)

	// Booking Module
	bookingRepo := booking.NewPgxRepository(cfg.DBPool)
	bookingService, err := booking.NewService(bookingRepo, itemService, userService, clk, cfg.BookingCacheSize, cfg.Logger)
	if err != nil {
		return nil, err
	}

	// Comment Module
	commentRepo := comment.NewPgxRepository(cfg.DBPool)
	commentService := comment.NewService(commentRepo, userService, itemService, bookingService, clk, cfg.Logger)

	// Router
	router := api.NewRouter(api.Config{
		IsProduction:   cfg.IsProduction,
		ProdOrigins:    cfg.ProdOrigins,
		Logger:         cfg.Logger,
		UserService:    userService,
		ItemService:    itemService,
		RequestService: requestService,
		BookingService: bookingService,
		CommentService: commentService,
	})

	return &Container{Router: router}, nil
}
