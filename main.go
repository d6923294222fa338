package main

import (
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// Set properties of the predefined Logger, including the log entry
	// prefix and a flag to disable printing the time, source file, and
	// line number.
	log.SetPrefix("lg/nutrition-chat-go-api: ")
	log.SetFlags(0)

	// .env is optional — in deployment the vars come from the environment.
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file loaded: %v", err)
	}

	h := &Handler{
		db:            getDBPool(),
		openAIBaseURL: openAIBaseURL(),
	}

	router := gin.Default()
	router.SetTrustedProxies(nil)
	h.registerRoutes(router)

	addr := "localhost:3000"
	if port := os.Getenv("PORT"); port != "" {
		addr = ":" + port
	}
	if err := router.Run(addr); err != nil {
		log.Fatal(err)
	}
}

// openAIBaseURL returns the OpenAI endpoint, overridable via env for tests
// and proxies.
func openAIBaseURL() string {
	if url := os.Getenv("OPENAI_BASE_URL"); url != "" {
		return url
	}
	return "https://api.openai.com"
}
