package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"todolist/internal/models"
)

func (s *Server) handleListCategories(c *gin.Context) {
	categories, err := s.categories.List(c.Request.Context())
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, categories)
}

func (s *Server) handleGetCategory(c *gin.Context) {
	id, ok := s.parseID(c, "id")
	if !ok {
		return
	}

	category, err := s.categories.Get(c.Request.Context(), id)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, category)
}

// handleCreateCategory creates a category. A taken machine name fails in storage.
func (s *Server) handleCreateCategory(c *gin.Context) {
	var req models.CreateCategoryInput
	if !s.bindJSON(c, &req) {
		return
	}

	category, err := s.categories.Create(c.Request.Context(), req)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, category)
}

func (s *Server) handleUpdateCategory(c *gin.Context) {
	id, ok := s.parseID(c, "id")
	if !ok {
		return
	}

	var req models.UpdateCategoryInput
	if !s.bindJSON(c, &req) {
		return
	}

	category, err := s.categories.Update(c.Request.Context(), id, req)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, category)
}

// handleDeleteCategory removes a category that no task references.
func (s *Server) handleDeleteCategory(c *gin.Context) {
	id, ok := s.parseID(c, "id")
	if !ok {
		return
	}
	if err := s.categories.Delete(c.Request.Context(), id); err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Category deleted"})
}
