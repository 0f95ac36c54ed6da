package routes

import (
	"StockScan-Backend/internal/api/handlers"
	"StockScan-Backend/internal/middleware"
	"StockScan-Backend/internal/ws"
	"StockScan-Backend/pkg/jwt"

	"github.com/gofiber/fiber/v2"
)

type Config struct {
	App             *fiber.App
	UserHandler     handlers.UserHandler
	ItemHandler     handlers.ItemHandler
	ReceiptHandler  handlers.ReceiptHandler
	MidtransHandler handlers.MidtransHandler
	Hub             *ws.Hub
	Middleware      middleware.Middleware
	JWTService      jwt.JWTService
}

func (c *Config) Setup() {
	c.App.Use(c.Middleware.CORSMiddleware())
	c.User()
	c.Items()
	c.ShoppingLists()
	c.Receipts()
	c.Websocket()
	c.GuestRoute()
}

func (c *Config) User() {
	user := c.App.Group("/api/v1/users")
	// user routes
	{
		user.Post("/register", c.UserHandler.Register)
		user.Post("/login", c.UserHandler.Login)
		user.Get("/me", c.Middleware.AuthMiddleware(c.JWTService), c.UserHandler.Me)
		user.Post("/subscribe", c.Middleware.AuthMiddleware(c.JWTService), c.UserHandler.Subscribe)
	}
}

func (c *Config) Items() {
	items := c.App.Group("/api/v1/items", c.Middleware.AuthMiddleware(c.JWTService))

	// Basic CRUD operations
	items.Post("", c.ItemHandler.AddItem)
	items.Get("", c.ItemHandler.GetItems)
	items.Delete("", c.ItemHandler.DeleteAllItems)
	items.Get("/:id", c.ItemHandler.GetItemDetails)
	items.Put("/:id", c.ItemHandler.UpdateItem)
	items.Delete("/:id", c.ItemHandler.DeleteItem)

	// Manual quantity adjustment
	items.Patch("/:id/quantity", c.ItemHandler.UpdateItemQuantity)
}

func (c *Config) ShoppingLists() {
	lists := c.App.Group("/api/v1/shopping-lists", c.Middleware.AuthMiddleware(c.JWTService))

	lists.Post("", c.ItemHandler.GenerateShoppingList)
	lists.Get("", c.ItemHandler.GetShoppingLists)
	lists.Delete("", c.ItemHandler.DeleteAllShoppingLists)
	lists.Get("/:id", c.ItemHandler.GetShoppingListDetails)
	lists.Delete("/:id", c.ItemHandler.DeleteShoppingList)
}

func (c *Config) Receipts() {
	receipts := c.App.Group("/api/v1/receipts", c.Middleware.AuthMiddleware(c.JWTService))

	receipts.Post("/upload", c.ReceiptHandler.UploadReceipt)
	receipts.Get("/current", c.ReceiptHandler.GetCurrentScan)
	receipts.Patch("/:id/cancel", c.ReceiptHandler.CancelScan)
	receipts.Post("/:id/confirm", c.ReceiptHandler.ConfirmScan)
	receipts.Post("/:id/confirm-line", c.ReceiptHandler.ConfirmLine)
}

func (c *Config) Websocket() {
	c.App.Get("/ws",
		c.Hub.UpgradeMiddleware(),
		c.Middleware.AuthMiddleware(c.JWTService),
		c.Hub.Handler(),
	)
}

func (c *Config) GuestRoute() {
	c.App.Get("/api/ping", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"message": "pong"})
	})
	c.App.Post("/webhook/midtrans", c.MidtransHandler.MidtransWebhookHandler)
}
