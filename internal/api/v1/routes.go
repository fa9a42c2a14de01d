package v1

import "github.com/labstack/echo/v4"

// RegisterRoutes mounts the notes endpoints on g.
func (c *Controller) RegisterRoutes(g *echo.Group) {
	g.GET("", c.ListNotes)
	g.POST("", c.CreateNote, c.ValidateNote)
	g.GET("/:id", c.GetNote, c.ValidateID)
	g.PUT("/:id", c.UpdateNote, c.ValidateID, c.ValidateNote)
	g.DELETE("/:id", c.DeleteNote, c.ValidateID)
}
