package routes

import (
	"log"
	"strconv"

	"dominion/internal/service/territory"

	"github.com/gin-gonic/gin"
)

// SetupTerritoryHandlers registers the territory endpoints
func SetupTerritoryHandlers(router *gin.RouterGroup) {
	territoryGroup := router.Group("/territory")

	territoryGroup.GET("/near", TerritoriesNear)
	territoryGroup.GET("/at", TerritoryAt)
	territoryGroup.GET("/:id", GetTerritory)
	territoryGroup.POST("/discover", DiscoverTerritories)
}

// GetTerritory returns a single territory by ID
func GetTerritory(c *gin.Context) {
	service := territory.GetTerritoryService()

	t, ok := service.GetTerritory(c.Param("id"))
	if !ok {
		c.JSON(404, gin.H{"status": "error", "message": "Territory not found"})
		return
	}

	c.JSON(200, t)
}

// TerritoriesNear returns territories around a point
func TerritoriesNear(c *gin.Context) {
	lat, lng, ok := parseLatLng(c)
	if !ok {
		return
	}

	radius, err := strconv.ParseFloat(c.DefaultQuery("radius", "30000"), 64)
	if err != nil || radius <= 0 {
		c.JSON(400, gin.H{"status": "error", "message": "Invalid radius parameter"})
		return
	}

	service := territory.GetTerritoryService()
	c.JSON(200, gin.H{
		"territories": service.TerritoriesNear(lat, lng, radius),
	})
}

// TerritoryAt returns the territory containing a point, if any
func TerritoryAt(c *gin.Context) {
	lat, lng, ok := parseLatLng(c)
	if !ok {
		return
	}

	service := territory.GetTerritoryService()
	t, found := service.TerritoryAt(lat, lng)
	if !found {
		c.JSON(404, gin.H{"status": "error", "message": "No territory at this point"})
		return
	}

	c.JSON(200, t)
}

// DiscoverTerritories runs a discovery pass around a point
func DiscoverTerritories(c *gin.Context) {
	lat, lng, ok := parseLatLng(c)
	if !ok {
		return
	}

	service := territory.GetTerritoryService()
	created, err := service.DiscoverTerritories(c.Request.Context(), lat, lng)
	if err != nil {
		log.Printf("Discovery failed: %v", err)
		c.JSON(502, gin.H{"status": "error", "message": "Boundary source unavailable"})
		return
	}

	c.JSON(200, gin.H{
		"status":  "success",
		"created": created,
	})
}

// parseLatLng reads lat/lng query parameters, replying 400 on bad input
func parseLatLng(c *gin.Context) (float64, float64, bool) {
	lat, latErr := strconv.ParseFloat(c.Query("lat"), 64)
	lng, lngErr := strconv.ParseFloat(c.Query("lng"), 64)

	if latErr != nil || lngErr != nil || lat < -90 || lat > 90 || lng < -180 || lng > 180 {
		c.JSON(400, gin.H{"status": "error", "message": "Invalid lat/lng parameters"})
		return 0, 0, false
	}
	return lat, lng, true
}
