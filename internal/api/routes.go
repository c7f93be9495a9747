package api

import (
	"net/http"

	"movekind/member-api/internal/service"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(
	router *gin.Engine,
	jwtSecret string,
	authService service.AuthService,
	memberService service.MemberService,
	scheduleService service.ScheduleService,
	favoritesService service.FavoritesService,
) {

	authHandler := NewAuthHandler(authService)
	memberHandler := NewMemberHandler(memberService)
	scheduleHandler := NewScheduleHandler(scheduleService, memberService)
	favoritesHandler := NewFavoritesHandler(favoritesService)

	authMiddleware := AuthMiddleware(jwtSecret)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	apiV1 := router.Group("/api/v1")
	{
		authGroup := apiV1.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
		}
	}

	protected := apiV1.Group("")
	protected.Use(authMiddleware)
	{
		// --- Member Routes ---
		memberGroup := protected.Group("/members")
		{
			memberGroup.GET("/me", memberHandler.GetProfile)
			memberGroup.PUT("/me", memberHandler.UpdateProfile)
			memberGroup.GET("/me/personalization", memberHandler.GetPersonalization)
			memberGroup.PUT("/me/personalization", memberHandler.UpdatePersonalization)
			memberGroup.POST("/change-password", authHandler.ChangePassword)
		}

		// --- Schedule Routes ---
		scheduleGroup := protected.Group("/schedule")
		{
			scheduleGroup.GET("", scheduleHandler.List)
			scheduleGroup.GET("/member", scheduleHandler.Member)
			scheduleGroup.POST("", scheduleHandler.Create)
			scheduleGroup.PUT("/:key", scheduleHandler.Update)
			scheduleGroup.DELETE("/:key", scheduleHandler.Delete)
			scheduleGroup.POST("/repair", scheduleHandler.Repair)
		}

		// --- Favorites Routes ---
		favoritesGroup := protected.Group("/favorites")
		{
			favoritesGroup.GET("", favoritesHandler.List)
			favoritesGroup.GET("/ids", favoritesHandler.ListKeys)
			favoritesGroup.POST("/:workoutId", favoritesHandler.Add)
			favoritesGroup.DELETE("/:workoutId", favoritesHandler.Remove)
			favoritesGroup.POST("/:workoutId/toggle", favoritesHandler.Toggle)
		}
	}
}
