// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Command api serves the MindMaze API behind API Gateway.
//
// Every route of the HTTP server is available except the WebSocket streams,
// which API Gateway proxy integrations cannot upgrade. Exercise timers live
// in the warm instance, so a session only completes while it stays warm.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/awslabs/aws-lambda-go-api-proxy/httpadapter"

	"github.com/danielhkuo/mindmaze/app"
	"github.com/danielhkuo/mindmaze/cliparse"
)

// proxyHandler converts API Gateway proxy events to requests on h.
func proxyHandler(h http.Handler) func(context.Context, events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	return httpadapter.New(h).ProxyWithContext
}

func main() {
	// Lambda has no argv; configuration comes from the function environment.
	cfg, err := cliparse.ParseFlags(nil)
	if err != nil {
		slog.Error("Error parsing config", "error", err)
		os.Exit(1)
	}

	a, err := app.New(context.Background(), cfg)
	if err != nil {
		slog.Error("startup failed", "error", err)
		os.Exit(1)
	}
	defer a.Close()

	lambda.Start(proxyHandler(a.Handler))
}
