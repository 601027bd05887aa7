package main

import (
	jsoniter "github.com/json-iterator/go"

	"github.com/Brownie44l1/minihttp/internal/request"
	"github.com/Brownie44l1/minihttp/internal/response"
	"github.com/Brownie44l1/minihttp/internal/router"
	"github.com/Brownie44l1/minihttp/internal/server"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// newApp wires the demo routes.
func newApp(logger server.Logger, metrics *server.Metrics) *router.Router {
	r := router.New()
	r.Log = logger

	r.GET("/", r.DefaultHandler.HandleRequest)
	r.GET("/hello", handleHello)
	r.GET("/search", handleSearch)
	r.GET("/stats", func(*request.Request) *response.Response {
		return jsonResponse(metrics.Snapshot())
	})
	r.POST("/echo", handleEcho)

	return r
}

func handleHello(req *request.Request) *response.Response {
	name := "world"
	if v, ok := req.Query().Get("name"); ok {
		if vals := v.Strings(); vals[0] != "" {
			name = vals[0]
		}
	}

	return response.Text(response.StatusOK, "Hello, "+name+"!")
}

type searchResult struct {
	Path   string              `json:"path"`
	Query  string              `json:"query"`
	Params map[string][]string `json:"params"`
}

func handleSearch(req *request.Request) *response.Response {
	raw, _ := req.QueryString()

	return jsonResponse(searchResult{
		Path:   req.Path(),
		Query:  raw,
		Params: req.Query().Map(),
	})
}

// handleEcho answers with the request line it received. Bodies aren't parsed.
func handleEcho(req *request.Request) *response.Response {
	return response.Text(response.StatusOK, req.String())
}

func jsonResponse(v interface{}) *response.Response {
	body, err := json.Marshal(v)
	if err != nil {
		return response.Empty(response.StatusInternalServerError)
	}

	return response.New(response.StatusOK, body)
}
