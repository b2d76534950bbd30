package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RegisterSwagger registers minimal Swagger/OpenAPI endpoints for the songs service.
// - GET /swagger/index.html  -> a small HTML page that loads the OpenAPI JSON
// - GET /swagger/doc.json    -> machine-readable OpenAPI JSON
func RegisterSwagger(rg gin.IRouter) {
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
    <title>songs-service - Swagger</title>
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
  "info": { "title": "songs-service", "version": "v1.0.0" },
  "components": {
    "schemas": {
      "Message": { "type": "object", "properties": { "message": { "type": "string" } } },
      "Song": { "type": "object", "required": ["id"], "properties": { "id": { "oneOf": [{ "type": "string" }, { "type": "integer" }] } }, "additionalProperties": true }
    }
  },
  "paths": {
    "/health": { "get": { "summary": "Liveness check", "responses": { "200": { "description": "{\"status\":\"OK\"}" } } } },
    "/ready": { "get": { "summary": "Readiness check", "responses": { "200": { "description": "ready" }, "503": { "description": "store unreachable" } } } },
    "/count": { "get": { "summary": "Number of songs", "responses": { "200": { "description": "{\"count\":N}" } } } },
    "/song": {
      "get": { "summary": "List all songs", "responses": { "200": { "description": "{\"songs\":[...]}" } } },
      "post": {
        "summary": "Create a song",
        "requestBody": { "content": { "application/json": { "schema": { "$ref": "#/components/schemas/Song" } } } },
        "responses": {
          "201": { "description": "created" },
          "302": { "description": "a song with this id already exists" },
          "400": { "description": "missing or invalid id, or malformed body" }
        }
      }
    },
    "/song/{id}": {
      "parameters": [{ "name": "id", "in": "path", "required": true, "schema": { "type": "string" } }],
      "get": { "summary": "Get a song by id", "responses": { "200": { "description": "song document" }, "400": { "description": "lookup failed" }, "404": { "description": "not found" } } },
      "put": {
        "summary": "Merge fields into a song (integer id)",
        "requestBody": { "content": { "application/json": { "schema": { "type": "object", "additionalProperties": true } } } },
        "responses": { "200": { "description": "updated" }, "400": { "description": "path id is not an integer, or body id is invalid" }, "404": { "description": "not found" }, "409": { "description": "body id renames the song onto an id that is already present" } }
      },
      "delete": { "summary": "Delete a song (integer id)", "responses": { "204": { "description": "deleted" }, "400": { "description": "id is not an integer" }, "404": { "description": "not found" } } }
    }
  }
}`
