package server

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gopkg.in/yaml.v3"
)

const (
	docsJSONPath = "/api-docs/openapi.json"
	docsUIIndex  = "/api-docs/ui/index.html"
)

// mountDocs serves the generated OpenAPI document and the Swagger UI, whose
// assets are embedded in the binary.
func (s *Server) mountDocs() {
	doc, err := openAPIDocument(s.version, s.apiRoutes())
	if err == nil {
		err = doc.Validate(context.Background())
	}
	if err != nil {
		s.logger.Error("api docs unavailable", slog.String("error", err.Error()))
	}

	docs := s.engine.Group("/api-docs")
	{
		docs.GET("", func(c *gin.Context) {
			c.Redirect(http.StatusMovedPermanently, docsUIIndex)
		})
		docs.GET("/openapi.json", func(c *gin.Context) {
			if err != nil {
				s.respondError(c, http.StatusInternalServerError, err)
				return
			}
			c.JSON(http.StatusOK, doc)
		})
		docs.GET("/openapi.yaml", func(c *gin.Context) {
			if err != nil {
				s.respondError(c, http.StatusInternalServerError, err)
				return
			}
			out, yerr := documentYAML(doc)
			if yerr != nil {
				s.respondError(c, http.StatusInternalServerError, yerr)
				return
			}
			c.Data(http.StatusOK, "application/yaml", out)
		})
		docs.GET("/ui/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL(docsJSONPath)))
	}

	s.engine.NoRoute(func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, "/api/") {
			c.JSON(http.StatusNotFound, gin.H{"error": "endpoint not found"})
			return
		}
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	})
}

// documentYAML renders the document through its JSON form so the YAML keys
// match the JSON ones.
func documentYAML(doc any) ([]byte, error) {
	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, err
	}
	var tree any
	if err := yaml.Unmarshal(raw, &tree); err != nil {
		return nil, err
	}
	return yaml.Marshal(tree)
}
