//Package echo implements the identity compute backend: every request is returned as the response body.
package echo

import (
	"context"
	"encoding/json"
	"github.com/aws/aws-lambda-go/events"
	"net/http"
)

//Handle returns received proxy request encoded as JSON
func Handle(ctx context.Context, apiRequest events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	data, err := json.Marshal(apiRequest)
	if err != nil {
		return events.APIGatewayProxyResponse{}, err
	}
	apiResponse := events.APIGatewayProxyResponse{
		StatusCode: http.StatusOK,
		Body:       string(data),
		Headers:    map[string]string{"Content-Type": "application/json"},
	}
	setCORSHeaderIfNeeded(&apiRequest, &apiResponse)
	return apiResponse, nil
}

func setCORSHeaderIfNeeded(apiRequest *events.APIGatewayProxyRequest, response *events.APIGatewayProxyResponse) {
	origin, ok := apiRequest.Headers["Origin"]
	if !ok {
		return
	}
	response.Headers["Access-Control-Allow-Credentials"] = "true"
	response.Headers["Access-Control-Allow-Origin"] = origin
	response.Headers["Access-Control-Allow-Methods"] = "POST GET"
	response.Headers["Access-Control-Allow-Headers"] = "Content-Type, *"
	response.Headers["Access-Control-Max-Age"] = "120"
}
