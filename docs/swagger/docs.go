// Package swagger holds the OpenAPI document served at /swagger/doc.json.
// It mirrors the godoc annotations on the product, blog and enquiry handlers;
// regenerate with: swag init -g cmd/api/main.go -o docs/swagger
package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/blogs": {
            "get": {
                "description": "Paginated blog posts, newest first. category=all disables the filter.",
                "produces": ["application/json"],
                "tags": ["blogs"],
                "summary": "List blog posts",
                "parameters": [
                    {"type": "string", "description": "Category filter", "name": "category", "in": "query"},
                    {"type": "integer", "description": "Page number (default 1)", "name": "page", "in": "query"},
                    {"type": "integer", "description": "Page size (default 10, max 100)", "name": "limit", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Envelope"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/response.Envelope"}}
                }
            },
            "post": {
                "description": "Creates a blog post. Images are uploaded under the images field.",
                "consumes": ["multipart/form-data"],
                "produces": ["application/json"],
                "tags": ["blogs"],
                "summary": "Create blog post",
                "parameters": [
                    {"type": "string", "name": "title", "in": "formData", "required": true},
                    {"type": "string", "name": "content", "in": "formData", "required": true},
                    {"type": "string", "name": "excerpt", "in": "formData"},
                    {"type": "string", "name": "author", "in": "formData"},
                    {"type": "string", "name": "category", "in": "formData"},
                    {"type": "string", "name": "readTime", "in": "formData"},
                    {"type": "string", "description": "JSON array or repeated field", "name": "tags", "in": "formData"},
                    {"type": "file", "name": "images", "in": "formData"}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/response.Envelope"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/response.Envelope"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/response.Envelope"}},
                    "504": {"description": "Gateway Timeout", "schema": {"$ref": "#/definitions/response.Envelope"}}
                }
            }
        },
        "/blogs/{id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["blogs"],
                "summary": "Get blog post",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Envelope"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/response.Envelope"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/response.Envelope"}}
                }
            },
            "put": {
                "description": "Updates a blog post. existingImages lists the images to keep; removeImages lists images to drop; new files are appended.",
                "consumes": ["multipart/form-data"],
                "produces": ["application/json"],
                "tags": ["blogs"],
                "summary": "Update blog post",
                "parameters": [
                    {"type": "string", "name": "id", "in": "path", "required": true},
                    {"type": "string", "name": "existingImages", "in": "formData"},
                    {"type": "string", "name": "removeImages", "in": "formData"},
                    {"type": "file", "name": "images", "in": "formData"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Envelope"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/response.Envelope"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/response.Envelope"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/response.Envelope"}}
                }
            },
            "delete": {
                "produces": ["application/json"],
                "tags": ["blogs"],
                "summary": "Delete blog post",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Envelope"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/response.Envelope"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/response.Envelope"}}
                }
            }
        },
        "/enquiry": {
            "post": {
                "description": "Validates the form and relays it to the shop owner by e-mail. Mail failures carry code MAIL_AUTH_FAILED, MAIL_NETWORK_ERROR or MAIL_SMTP_ERROR.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["enquiry"],
                "summary": "Send a contact or product enquiry",
                "parameters": [
                    {"description": "Form", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/enquiry.Request"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Envelope"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/response.Envelope"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/response.Envelope"}}
                }
            }
        },
        "/products": {
            "get": {
                "description": "Paginated products, newest first. category=all disables the filter.",
                "produces": ["application/json"],
                "tags": ["products"],
                "summary": "List products",
                "parameters": [
                    {"type": "string", "description": "Category filter", "name": "category", "in": "query"},
                    {"type": "integer", "description": "Page number (default 1)", "name": "page", "in": "query"},
                    {"type": "integer", "description": "Page size (default 10, max 100)", "name": "limit", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Envelope"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/response.Envelope"}}
                }
            },
            "post": {
                "description": "Creates a product. Images are uploaded under the images field.",
                "consumes": ["multipart/form-data"],
                "produces": ["application/json"],
                "tags": ["products"],
                "summary": "Create product",
                "parameters": [
                    {"type": "string", "name": "title", "in": "formData", "required": true},
                    {"type": "string", "name": "description", "in": "formData", "required": true},
                    {"type": "number", "name": "price", "in": "formData", "required": true},
                    {"type": "string", "name": "category", "in": "formData", "required": true},
                    {"type": "boolean", "name": "inStock", "in": "formData"},
                    {"type": "string", "description": "JSON array or repeated field", "name": "features", "in": "formData"},
                    {"type": "string", "description": "JSON array or repeated field", "name": "tags", "in": "formData"},
                    {"type": "file", "name": "images", "in": "formData"}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/response.Envelope"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/response.Envelope"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/response.Envelope"}},
                    "504": {"description": "Gateway Timeout", "schema": {"$ref": "#/definitions/response.Envelope"}}
                }
            }
        },
        "/products/{id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["products"],
                "summary": "Get product",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Envelope"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/response.Envelope"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/response.Envelope"}}
                }
            },
            "put": {
                "description": "Updates a product. existingImages lists the images to keep; removeImages lists images to drop; new files are appended.",
                "consumes": ["multipart/form-data"],
                "produces": ["application/json"],
                "tags": ["products"],
                "summary": "Update product",
                "parameters": [
                    {"type": "string", "name": "id", "in": "path", "required": true},
                    {"type": "string", "name": "existingImages", "in": "formData"},
                    {"type": "string", "name": "removeImages", "in": "formData"},
                    {"type": "file", "name": "images", "in": "formData"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Envelope"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/response.Envelope"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/response.Envelope"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/response.Envelope"}}
                }
            },
            "delete": {
                "produces": ["application/json"],
                "tags": ["products"],
                "summary": "Delete product",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Envelope"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/response.Envelope"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/response.Envelope"}}
                }
            }
        }
    },
    "definitions": {
        "enquiry.Request": {
            "type": "object",
            "properties": {
                "formType": {"type": "string", "example": "enquiry"},
                "name": {"type": "string", "example": "Sara Ahmadi"},
                "email": {"type": "string", "example": "sara@example.com"},
                "phone": {"type": "string", "example": "+98 912 123 4567"},
                "subject": {"type": "string", "example": "Bulk order"},
                "message": {"type": "string", "example": "Do you ship to Tehran?"},
                "productName": {"type": "string", "example": "Oak chair"}
            }
        },
        "response.Envelope": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "data": {},
                "error": {"type": "string"},
                "code": {"type": "string"},
                "details": {"type": "string"},
                "stack": {"type": "string"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "Storefront API",
	Description:      "Backend for a small storefront: products, blog posts, image uploads, enquiries and the sitemap.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
