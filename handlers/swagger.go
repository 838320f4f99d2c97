package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RegisterSwagger registers minimal Swagger/OpenAPI endpoints for the API.
// - GET /swagger/index.html  -> a small HTML page that loads the OpenAPI JSON
// - GET /swagger/doc.json    -> machine-readable OpenAPI JSON
func RegisterSwagger(rg *gin.Engine) {
	rg.GET("/swagger/index.html", func(c *gin.Context) {
		c.Header("Content-Type", "text/html; charset=utf-8")
		c.String(http.StatusOK, swaggerHTML)
	})

	rg.GET("/swagger/doc.json", func(c *gin.Context) {
		c.Data(http.StatusOK, "application/json; charset=utf-8", []byte(swaggerJSON))
	})
}

const swaggerHTML = `<!doctype html>
<html>
  <head>
    <meta charset="utf-8" />
    <title>heritage-api Swagger</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@4/swagger-ui.css" />
  </head>
  <body>
    <div id="swagger-ui"></div>
    <script src="https://unpkg.com/swagger-ui-dist@4/swagger-ui-bundle.js"></script>
    <script>
      window.ui = SwaggerUIBundle({
        url: '/swagger/doc.json',
        dom_id: '#swagger-ui',
      })
    </script>
  </body>
</html>`

const swaggerJSON = `{
  "openapi": "3.0.0",
  "info": { "title": "heritage-api", "version": "v1.0.0" },
  "components": { "securitySchemes": { "bearer": { "type": "http", "scheme": "bearer", "bearerFormat": "JWT" } } },
  "paths": {
    "/public/": { "get": { "summary": "List verified monuments", "responses": { "200": { "description": "monuments" } } } },
    "/public/latest3/": { "get": { "summary": "Three newest monuments, any status", "responses": { "200": { "description": "monuments" } } } },
    "/public/{id}": { "get": { "summary": "Monument with owner name, coordinates and maps link", "responses": { "200": { "description": "view" }, "404": { "description": "unknown monument" } } } },
    "/public/monument/{monumentId}": { "get": { "summary": "Gallery with signed URLs valid for one hour", "responses": { "200": { "description": "gallery items" } } } },
    "/gallery/{monumentId}": {
      "post": {
        "summary": "Upload a gallery image or video",
        "security": [{ "bearer": [] }],
        "requestBody": { "content": { "multipart/form-data": { "schema": {"type":"object","properties":{"image":{"type":"string","format":"binary"},"imgTitle":{"type":"string"}}}}}},
        "responses": { "201": { "description": "created" }, "400": { "description": "missing title or file" }, "403": { "description": "not the owner or an admin" }, "404": { "description": "monument not found" } }
      }
    },
    "/gallery/{id}": {
      "get": { "summary": "Gallery item with signed URL", "security": [{ "bearer": [] }], "responses": { "200": { "description": "item" }, "404": { "description": "not found" } } },
      "put": { "summary": "Replace title and/or media", "security": [{ "bearer": [] }], "responses": { "200": { "description": "updated" }, "403": { "description": "not the owner or an admin" }, "404": { "description": "not found" } } },
      "delete": { "summary": "Delete item and its object", "security": [{ "bearer": [] }], "responses": { "204": { "description": "deleted" }, "403": { "description": "not the owner or an admin" }, "404": { "description": "not found" } } }
    },
    "/gallery/monument/{monumentId}": { "get": { "summary": "Gallery of a monument", "security": [{ "bearer": [] }], "responses": { "200": { "description": "gallery items" } } } },
    "/monuments": {
      "get": { "summary": "List monuments, optional ?verified=", "security": [{ "bearer": [] }], "responses": { "200": { "description": "monuments" } } },
      "post": { "summary": "Submit a monument", "security": [{ "bearer": [] }], "responses": { "201": { "description": "created" }, "400": { "description": "missing fields" } } }
    },
    "/monuments/{id}": {
      "get": { "summary": "Get monument", "security": [{ "bearer": [] }], "responses": { "200": { "description": "monument" }, "404": { "description": "not found" } } },
      "put": { "summary": "Partial update", "security": [{ "bearer": [] }], "responses": { "200": { "description": "updated" }, "403": { "description": "not the owner or an admin" } } },
      "delete": { "summary": "Delete monument", "security": [{ "bearer": [] }], "responses": { "204": { "description": "deleted" }, "403": { "description": "not the owner or an admin" } } }
    },
    "/monuments/{id}/cover": { "put": { "summary": "Upload cover image", "security": [{ "bearer": [] }], "responses": { "200": { "description": "updated" }, "403": { "description": "not the owner or an admin" } } } },
    "/monuments/verify/{id}": { "put": { "summary": "Mark verified (admin)", "security": [{ "bearer": [] }], "responses": { "200": { "description": "verified" }, "403": { "description": "not admin" } } } },
    "/monuments/unverify/{id}": { "put": { "summary": "Mark unverified (admin)", "security": [{ "bearer": [] }], "responses": { "200": { "description": "unverified" }, "403": { "description": "not admin" } } } },
    "/users/register": { "post": { "summary": "Create account", "requestBody": { "content": { "application/json": { "schema": {"type":"object","properties":{"name":{"type":"string"},"email":{"type":"string"},"password":{"type":"string"}}}}}}, "responses": { "201": { "description": "user" } } } },
    "/users/login": { "post": { "summary": "Email and password login", "requestBody": { "content": { "application/json": { "schema": {"type":"object","properties":{"email":{"type":"string"},"password":{"type":"string"}}}}}}, "responses": { "200": { "description": "tokens returned" }, "401": { "description": "bad credentials" } } } },
    "/users/refresh": { "post": { "summary": "Rotate refresh token", "requestBody": { "content": { "application/json": { "schema": {"type":"object","properties":{"refreshToken":{"type":"string"}}}}}}, "responses": { "200": { "description": "new tokens" }, "401": { "description": "invalid refresh" } } } },
    "/users/logout": { "post": { "summary": "Logout and revoke tokens", "requestBody": { "content": { "application/json": { "schema": {"type":"object","properties":{"refreshToken":{"type":"string"}}}}}}, "responses": { "200": { "description": "logged out" } } } },
    "/users/me": { "get": { "summary": "Current user", "security": [{ "bearer": [] }], "responses": { "200": { "description": "user" } } } },
    "/health": { "get": { "summary": "Liveness check", "responses": { "200": { "description": "healthy" } } } },
    "/ready": { "get": { "summary": "Readiness check", "responses": { "200": { "description": "ready" }, "503": { "description": "not ready" } } } },
    "/metrics": { "get": { "summary": "Prometheus metrics", "responses": { "200": { "description": "metrics" } } } }
  }
}`
