package main

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"helix/api/contexts"
	ham "helix/api/middleware"
	"helix/api/models"
	serviceInfo "helix/api/models/constants/service-info"
	chatMvc "helix/api/mvc/chat"
	requestsMvc "helix/api/mvc/requests"
	serviceInfoMvc "helix/api/mvc/service-info"
	chatService "helix/api/services/chat"
	"helix/api/services/dispatch"
	"helix/api/services/prediction"
	"helix/api/services/rendering"
	"helix/api/services/sessions"
	"helix/api/utils"

	es7 "github.com/elastic/go-elasticsearch/v7"
	"github.com/kelseyhightower/envconfig"
	"github.com/labstack/echo"
	"github.com/labstack/echo/middleware"
)

func main() {
	// Gather environment variables
	var cfg models.Config
	err := envconfig.Process("", &cfg)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}

	fmt.Printf("Using : \n"+

		"\tDebug : %t \n\n"+

		"\tPrediction Service Url : %s \n"+
		"\tRendering Service Url : %s \n"+
		"\tElasticsearch Url : %s \n"+
		"\tElasticsearch Username : %s\n\n"+

		"\tSession Idle Minutes : %d\n"+
		"\tBatch Concurrency Level : %d\n\n"+

		"Running on Port : %s\n",

		cfg.Debug,
		cfg.Prediction.Url,
		cfg.Rendering.Url,
		cfg.Elasticsearch.Url, cfg.Elasticsearch.Username,
		cfg.Api.SessionIdleMinutes,
		cfg.Api.BatchConcurrencyLevel,
		cfg.Api.Port)
	// --

	// Instantiate Server
	e := echo.New()

	// Service Connections:
	// -- Elasticsearch (optional dispatch audit log)
	var es *es7.Client
	if cfg.Elasticsearch.Url != "" {
		es = utils.CreateEsConnection(&cfg)
	}

	// Service Singletons
	predictionClient := prediction.NewClient(&cfg)
	renderingClient := rendering.NewClient(&cfg)
	dispatcher := dispatch.NewDispatcher(predictionClient, renderingClient, es, &cfg)
	registry := sessions.NewRegistry(&cfg)
	defer registry.Stop()
	engine := chatService.NewEngine(&cfg, dispatcher, predictionClient)

	// Configure Server
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{echo.GET, echo.PUT, echo.POST, echo.DELETE},
	}))

	// -- Override handlers with "custom Helix" context
	//		to be able to provide variables and global singletons
	e.Use(func(h echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cc := &contexts.ChatContext{
				Context:         c,
				Config:          &cfg,
				Es7Client:       es,
				SessionRegistry: registry,
				Engine:          engine,
			}
			return h(cc)
		}
	})

	// Begin MVC Routes
	// -- Root
	e.GET("/", func(c echo.Context) error {
		fmt.Printf("[%s] - Root hit!\n", time.Now())
		return c.JSON(http.StatusOK, serviceInfo.SERVICE_WELCOME)
	})

	// -- Service Info
	e.GET("/service-info", serviceInfoMvc.GetServiceInfo)

	// -- Chat
	e.POST("/chat/message", chatMvc.ChatMessage,
		// middleware
		ham.MandateConversationIdAttribute)

	// -- Dispatch audit
	e.GET("/requests/overview", requestsMvc.GetRequestsOverview)

	// Run
	e.Logger.Fatal(e.Start(":" + cfg.Api.Port))
}
