package main

import (
	_ "github.com/joho/godotenv/autoload" // Autoload .env file.

	"github.com/viastore/viastore/cmd/app"
)

// @title          viastore API
// @version        1.0
// @description    Warehouses, items, orders and stock movements.
// @contact.name   API Support
// @contact.url    http://www.swagger.io/support
// @contact.email  support@swagger.io
//
// @license.name  Apache 2.0
// @license.url   http://www.apache.org/licenses/LICENSE-2.0.html
//
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Bearer token
//
// @externalDocs.description  OpenAPI
// @externalDocs.url          https://swagger.io/resources/open-api/
func main() {
	if err := app.Start(); err != nil {
		panic(err)
	}
}
