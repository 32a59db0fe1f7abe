package routes

import (
	"os"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/hmnguyen/flashdeck-backend/controllers"
	"github.com/hmnguyen/flashdeck-backend/middleware"
	"github.com/hmnguyen/flashdeck-backend/services"
	"github.com/hmnguyen/flashdeck-backend/ws"
)

// SetupRouter constructs services and controllers from the DB handle and
// registers every route.
func SetupRouter(r *gin.Engine, db *gorm.DB) *gin.Engine {
	hub := ws.NewHub()

	deckService := services.NewDeckService(db)
	folderService := services.NewFolderService(db)
	userService := services.NewUserService(db)
	documentService := services.NewDocumentService(db)

	authCtl := controllers.NewAuthController(db, os.Getenv("GOOGLE_CLIENT_ID"))
	deckCtl := controllers.NewDeckController(deckService, documentService)
	folderCtl := controllers.NewFolderController(folderService)
	userCtl := controllers.NewUserController(userService)
	documentCtl := controllers.NewDocumentController(documentService, hub)
	healthCtl := controllers.NewHealthController(db, hub)

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})
	r.GET("/health", healthCtl.HealthCheck)

	api := r.Group("/api")

	auth := api.Group("/auth")
	{
		auth.POST("/register", authCtl.Register)
		auth.POST("/login", authCtl.Login)
		auth.POST("/logingoogle", authCtl.GoogleLogin)
	}

	protected := api.Group("")
	protected.Use(middleware.AuthMiddleware(db))
	{
		decks := protected.Group("/decks")
		{
			decks.GET("", deckCtl.GetDecks)
			decks.POST("", deckCtl.CreateDeck)
			decks.POST("/generate", deckCtl.GenerateDeck)
			decks.POST("/bulk-move-to-folder", deckCtl.BulkMoveDecks)
			decks.GET("/:id", deckCtl.GetDeckDetail)
			decks.PUT("/:id", deckCtl.UpdateDeckProgress)
			decks.PATCH("/:id", deckCtl.EditDeck)
			decks.DELETE("/:id", deckCtl.DeleteDeck)
			decks.PATCH("/:id/move-to-folder", deckCtl.MoveDeckToFolder)
			decks.POST("/:id/remove-from-folder", deckCtl.RemoveDeckFromFolder)
		}

		folders := protected.Group("/folders")
		{
			folders.GET("", folderCtl.GetFolders)
			folders.POST("", folderCtl.CreateFolder)
			folders.POST("/add-decks", folderCtl.AddDecksToFolder)
			folders.GET("/:id", folderCtl.GetFolderDetail)
			folders.PATCH("/:id", folderCtl.UpdateFolder)
			folders.DELETE("/:id", folderCtl.DeleteFolder)
		}

		users := protected.Group("/users")
		{
			users.GET("/:id", userCtl.GetUser)
			users.PATCH("/:id", userCtl.UpdateUser)
		}

		documents := protected.Group("/documents")
		{
			documents.POST("", documentCtl.UploadDocument)
			documents.GET("", documentCtl.GetDocuments)
			documents.GET("/:id", documentCtl.GetDocumentDetail)
			documents.GET("/:id/status", documentCtl.GetDocumentStatus)
			documents.DELETE("/:id", documentCtl.DeleteDocument)
		}
	}

	r.GET("/ws/documents/:id", ws.HandleDocumentSocket(hub))
	r.GET("/ws/status", ws.HandleGlobalSocket(hub))

	return r
}
