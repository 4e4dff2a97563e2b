package proxy

import (
	"context"
	"encoding/json"
	"fmt"
	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/lambda"
	"github.com/aws/aws-sdk-go/service/lambda/lambdaiface"
	"github.com/viant/lambdagate/gateway"
	"log/slog"
	"net/http"
)

//Handler emulates proxy-all integration: requests under a route are forwarded verbatim to the route function
type Handler struct {
	routes []*gateway.Route
	client lambdaiface.LambdaAPI
	logger *slog.Logger
}

func (h *Handler) ServeHTTP(writer http.ResponseWriter, request *http.Request) {
	route := h.match(request)
	if route == nil {
		http.Error(writer, `{"message":"Missing Authentication Token"}`, http.StatusForbidden)
		return
	}
	proxyRequest, err := NewRequest(route, request)
	if err != nil {
		http.Error(writer, err.Error(), http.StatusBadRequest)
		return
	}
	response, err := h.Invoke(request.Context(), route.FunctionName, proxyRequest)
	if err != nil {
		h.logger.Error("failed to invoke backend", "function", route.FunctionName, "error", err)
		http.Error(writer, `{"message": "Internal server error"}`, http.StatusBadGateway)
		return
	}
	body, err := DecodeBody(response)
	if err != nil {
		h.logger.Error("malformed backend response", "function", route.FunctionName, "error", err)
		http.Error(writer, `{"message": "Internal server error"}`, http.StatusBadGateway)
		return
	}
	if err = WriteResponse(writer, response, body); err != nil {
		h.logger.Error("failed to write response", "function", route.FunctionName, "error", err)
	}
}

func (h *Handler) match(request *http.Request) *gateway.Route {
	for _, route := range h.routes {
		if route.Match(request.URL.Path) {
			return route
		}
	}
	return nil
}

//Invoke calls backend function with proxy request
func (h *Handler) Invoke(ctx context.Context, functionName string, proxyRequest *events.APIGatewayProxyRequest) (*events.APIGatewayProxyResponse, error) {
	payload, err := json.Marshal(proxyRequest)
	if err != nil {
		return nil, err
	}
	output, err := h.client.InvokeWithContext(ctx, &lambda.InvokeInput{
		FunctionName: aws.String(functionName),
		Payload:      payload,
	})
	if err != nil {
		return nil, err
	}
	if output.FunctionError != nil {
		return nil, fmt.Errorf("function %v error: %v, %s", functionName, *output.FunctionError, output.Payload)
	}
	response := &events.APIGatewayProxyResponse{}
	if err = json.Unmarshal(output.Payload, response); err != nil {
		return nil, fmt.Errorf("invalid proxy response from %v: %w", functionName, err)
	}
	return response, nil
}

//New creates proxy handler
func New(client lambdaiface.LambdaAPI, logger *slog.Logger, routes ...*gateway.Route) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{client: client, routes: routes, logger: logger}
}
