package config

import (
	"StockScan-Backend/internal/api/handlers"
	"StockScan-Backend/internal/api/routes"
	"StockScan-Backend/internal/middleware"
	"StockScan-Backend/internal/utils"
	"StockScan-Backend/internal/utils/mailing"
	"StockScan-Backend/internal/utils/storage"
	"StockScan-Backend/internal/ws"
	"StockScan-Backend/pkg/item"
	"StockScan-Backend/pkg/jwt"
	"StockScan-Backend/pkg/midtrans"
	"StockScan-Backend/pkg/ocr"
	"StockScan-Backend/pkg/receipt"
	"StockScan-Backend/pkg/user"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"gorm.io/gorm"
)

func NewApp(db *gorm.DB) (*fiber.App, error) {
	utils.InitValidator()
	app := fiber.New(fiber.Config{
		EnablePrintRoutes: true,
	})
	middlewares := middleware.NewMiddleware()
	validator := utils.Validate

	// setting up logging and limiter
	err := os.MkdirAll("./logs", os.ModePerm)
	if err != nil {
		log.Fatalf("error creating logs directory: %v", err)
	}
	file, err := os.OpenFile(
		"./logs/app.log",
		os.O_RDWR|os.O_CREATE|os.O_APPEND,
		0666,
	)
	if err != nil {
		log.Fatalf("error opening file: %v", err)
	}
	app.Use(logger.New(logger.Config{
		TimeFormat: "2006-01-02 15:04:05",
		TimeZone:   "Asia/Jakarta",
		Output:     file,
	}))

	app.Use(limiter.New(limiter.Config{
		Max:        10,
		Expiration: 1 * time.Second,
	}))

	// utils
	s3 := storage.NewAwsS3()
	mailer := mailing.NewMailer()
	hub := ws.NewHub()

	// Repository
	userRepository := user.NewUserRepository(db)
	midtransRepository := midtrans.NewMidtransRepository(db)
	itemRepository := item.NewItemRepository(db)
	receiptRepository := receipt.NewReceiptRepository(db)

	// Service
	jwtService := jwt.NewJWTService()
	userService := user.NewUserService(userRepository, jwtService)
	midtransService := midtrans.NewMidtransService(
		midtransRepository,
		userRepository,
	)
	itemService := item.NewItemService(itemRepository, userRepository, mailer, hub)
	ocrService := ocr.NewOCRService()
	receiptService := receipt.NewReceiptService(
		receiptRepository,
		userRepository,
		itemService,
		ocrService,
		s3,
		hub,
	)

	// Handler
	userHandler := handlers.NewUserHandler(userService, midtransService, validator)
	midtransHandler := handlers.NewMidtransHandler(midtransService, validator)
	itemHandler := handlers.NewItemHandler(itemService, validator)
	receiptHandler := handlers.NewReceiptHandler(receiptService, validator)

	// routes
	routesConfig := routes.Config{
		App:             app,
		UserHandler:     userHandler,
		ItemHandler:     itemHandler,
		ReceiptHandler:  receiptHandler,
		MidtransHandler: midtransHandler,
		Hub:             hub,
		Middleware:      middlewares,
		JWTService:      jwtService,
	}
	routesConfig.Setup()
	return app, nil
}
