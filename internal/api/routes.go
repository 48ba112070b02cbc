package api

import "github.com/gin-gonic/gin"

// CORS allows the browser frontend to call the API from another origin.
func CORS() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}

func RegisterRoutes(r gin.IRouter, contactHandler *ContactHandler, appStoreHandler *AppStoreHandler) {
	// Contacts menu
	menu := r.Group("/contactsmenu")
	{
		menu.GET("/contacts", contactHandler.GetContactsMenu)
		menu.POST("/contacts", contactHandler.GetContactsMenu)
	}

	// Address book
	book := r.Group("/contacts")
	{
		book.POST("", contactHandler.ImportContacts)
		book.GET("/export", contactHandler.ExportContacts)
		book.DELETE("/:uid", contactHandler.DeleteContact)
	}

	// App store
	apps := r.Group("/settings/apps")
	{
		apps.GET("/categories", appStoreHandler.GetCategories)
		apps.GET("/categories/:category/apps", appStoreHandler.GetApplications)
		apps.GET("/:id", appStoreHandler.GetApplication)
		apps.GET("/:id/download", appStoreHandler.GetApplicationDownload)
	}
}
