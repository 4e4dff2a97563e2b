package proxy

import (
	"encoding/base64"
	"fmt"
	"github.com/aws/aws-lambda-go/events"
	"net/http"
)

//DecodeBody returns response body bytes, base64 encoded body is decoded
func DecodeBody(proxy *events.APIGatewayProxyResponse) ([]byte, error) {
	if !proxy.IsBase64Encoded {
		return []byte(proxy.Body), nil
	}
	body, err := base64.StdEncoding.DecodeString(proxy.Body)
	if err != nil {
		return nil, fmt.Errorf("invalid base64 response body: %w", err)
	}
	return body, nil
}

//WriteResponse writes lambda proxy response with already decoded body to http writer
func WriteResponse(writer http.ResponseWriter, proxy *events.APIGatewayProxyResponse, body []byte) error {
	for k, v := range proxy.Headers {
		writer.Header().Set(k, v)
	}
	for k, values := range proxy.MultiValueHeaders {
		for _, v := range values {
			writer.Header().Add(k, v)
		}
	}
	statusCode := proxy.StatusCode
	if statusCode == 0 {
		statusCode = http.StatusOK
	}
	writer.WriteHeader(statusCode)
	_, err := writer.Write(body)
	return err
}
