// Package docs registers the storefront-service Swagger document.
package docs

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
        "/catalog": {
            "get": {
                "produces": ["application/json"],
                "tags": ["catalog"],
                "summary": "Catalog snapshot",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/catalog.State"}}
                }
            }
        },
        "/catalog/next": {
            "post": {
                "description": "No-op while a page is in flight or the catalog is exhausted.",
                "produces": ["application/json"],
                "tags": ["catalog"],
                "summary": "Load the next catalog page",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/catalog.State"}},
                    "502": {"description": "Bad Gateway", "schema": {"$ref": "#/definitions/main.errorResponse"}}
                }
            }
        },
        "/catalog/retry": {
            "post": {
                "produces": ["application/json"],
                "tags": ["catalog"],
                "summary": "Retry the failed catalog page",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/catalog.State"}},
                    "502": {"description": "Bad Gateway", "schema": {"$ref": "#/definitions/main.errorResponse"}}
                }
            }
        },
        "/catalog/scrolled": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["catalog"],
                "summary": "Report the last visible catalog position",
                "parameters": [
                    {"description": "position", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/main.scrolledRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/catalog.State"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/main.errorResponse"}}
                }
            }
        },
        "/catalog/entries/{id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["catalog"],
                "summary": "Find a catalog entry by id",
                "parameters": [
                    {"type": "string", "description": "entry id", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/catalog.Entry"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/main.errorResponse"}},
                    "502": {"description": "Bad Gateway", "schema": {"$ref": "#/definitions/main.errorResponse"}}
                }
            }
        },
        "/catalog/lookup/reset": {
            "post": {
                "produces": ["application/json"],
                "tags": ["catalog"],
                "summary": "Restart the entry lookup from page 1",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/catalog.LookupState"}}
                }
            }
        },
        "/cart": {
            "get": {
                "produces": ["application/json"],
                "tags": ["cart"],
                "summary": "Current cart with taxes",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/main.cartView"}}
                }
            },
            "delete": {
                "produces": ["application/json"],
                "tags": ["cart"],
                "summary": "Empty the cart",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/main.cartView"}}
                }
            }
        },
        "/cart/items": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["cart"],
                "summary": "Add one unit of a dish",
                "parameters": [
                    {"description": "dish", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/main.addItemRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/main.cartView"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/main.errorResponse"}}
                }
            }
        },
        "/cart/items/{id}": {
            "delete": {
                "description": "The line is dropped at zero; absent dishes are ignored.",
                "produces": ["application/json"],
                "tags": ["cart"],
                "summary": "Remove one unit of a dish",
                "parameters": [
                    {"type": "string", "description": "dish id", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/main.cartView"}}
                }
            },
            "put": {
                "description": "Zero removes the line; negative values are ignored.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["cart"],
                "summary": "Set a line's quantity",
                "parameters": [
                    {"type": "string", "description": "dish id", "name": "id", "in": "path", "required": true},
                    {"description": "quantity", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/main.setQuantityRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/main.cartView"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/main.errorResponse"}}
                }
            }
        },
        "/orders": {
            "get": {
                "produces": ["application/json"],
                "tags": ["orders"],
                "summary": "Order history, newest first",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/order.Order"}}}
                }
            },
            "post": {
                "produces": ["application/json"],
                "tags": ["orders"],
                "summary": "Place the current cart as an order",
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/order.Order"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/main.errorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/main.errorResponse"}}
                }
            }
        },
        "/orders/{id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["orders"],
                "summary": "One order from the history",
                "parameters": [
                    {"type": "string", "description": "order id", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/order.Order"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/main.errorResponse"}}
                }
            }
        },
        "/orders/{id}/qrcode": {
            "get": {
                "produces": ["image/png"],
                "tags": ["orders"],
                "summary": "Receipt QR code for an order",
                "parameters": [
                    {"type": "string", "description": "order id", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/main.errorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "catalog.Dish": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "name": {"type": "string"},
                "image_url": {"type": "string"},
                "price": {"type": "integer"},
                "rating": {"type": "string"}
            }
        },
        "catalog.Entry": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "name": {"type": "string"},
                "image_url": {"type": "string"},
                "dishes": {"type": "array", "items": {"$ref": "#/definitions/catalog.Dish"}}
            }
        },
        "catalog.State": {
            "type": "object",
            "properties": {
                "entries": {"type": "array", "items": {"$ref": "#/definitions/catalog.Entry"}},
                "page": {"type": "integer"},
                "total_pages": {"type": "integer"},
                "is_loading": {"type": "boolean"},
                "has_more": {"type": "boolean"},
                "error": {"type": "string"}
            }
        },
        "catalog.LookupState": {
            "type": "object",
            "properties": {
                "target": {"type": "string"},
                "searching": {"type": "boolean"},
                "page": {"type": "integer"},
                "total_pages": {"type": "integer"},
                "not_found": {"type": "boolean"}
            }
        },
        "cart.Line": {
            "type": "object",
            "properties": {
                "dish": {"$ref": "#/definitions/catalog.Dish"},
                "quantity": {"type": "integer"}
            }
        },
        "main.addItemRequest": {
            "type": "object",
            "properties": {
                "dish": {"$ref": "#/definitions/catalog.Dish"}
            }
        },
        "main.cartView": {
            "type": "object",
            "properties": {
                "lines": {"type": "array", "items": {"$ref": "#/definitions/cart.Line"}},
                "item_count": {"type": "integer"},
                "subtotal": {"type": "integer"},
                "cgst": {"type": "integer"},
                "sgst": {"type": "integer"},
                "total": {"type": "integer"},
                "applied": {"type": "boolean"}
            }
        },
        "main.errorResponse": {
            "type": "object",
            "properties": {
                "error": {"type": "string"}
            }
        },
        "main.scrolledRequest": {
            "type": "object",
            "properties": {
                "last_visible": {"type": "integer"}
            }
        },
        "main.setQuantityRequest": {
            "type": "object",
            "properties": {
                "quantity": {"type": "integer"}
            }
        },
        "order.Item": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "name": {"type": "string"},
                "price": {"type": "integer"},
                "quantity": {"type": "integer"},
                "imageUrl": {"type": "string"}
            }
        },
        "order.Order": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "items": {"type": "array", "items": {"$ref": "#/definitions/order.Item"}},
                "netTotal": {"type": "integer"},
                "cgst": {"type": "integer"},
                "sgst": {"type": "integer"},
                "grandTotal": {"type": "integer"},
                "timestamp": {"type": "integer", "description": "unix milliseconds"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Storefront API",
	Description:      "Paginated cuisine catalog, cart with CGST/SGST and order history.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
