package main

import (
	"os"

	"nusachat/backend/internal/app"
)

// @title           NusaChat API
// @version         1.0
// @description     Multi-provider chat backend with token streaming.
// @BasePath        /api
func main() {
	os.Exit(app.Run())
}
