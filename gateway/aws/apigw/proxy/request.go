package proxy

import (
	"encoding/base64"
	"github.com/aws/aws-lambda-go/events"
	"github.com/google/uuid"
	"github.com/viant/lambdagate/gateway"
	"io"
	"net/http"
	"net/url"
	"unicode/utf8"
)

//NewRequest converts http request to proxy-all lambda event, the stage segment is not part of the path
func NewRequest(route *gateway.Route, request *http.Request) (*events.APIGatewayProxyRequest, error) {
	var body []byte
	if request.Body != nil {
		var err error
		if body, err = io.ReadAll(request.Body); err != nil {
			return nil, err
		}
		_ = request.Body.Close()
	}
	queryParameters := request.URL.Query()
	path := route.Resource(request.URL.Path)
	ret := &events.APIGatewayProxyRequest{
		Resource:                        "/" + route.BasePath,
		Path:                            path,
		HTTPMethod:                      request.Method,
		Headers:                         asHeaderMap(request.Header),
		MultiValueHeaders:               request.Header,
		QueryStringParameters:           asSingleValues(queryParameters),
		MultiValueQueryStringParameters: queryParameters,
		RequestContext: events.APIGatewayProxyRequestContext{
			RequestID:    uuid.New().String(),
			Stage:        route.Stage,
			HTTPMethod:   request.Method,
			ResourcePath: "/" + route.BasePath,
			Identity:     events.APIGatewayRequestIdentity{SourceIP: request.RemoteAddr, UserAgent: request.UserAgent()},
		},
	}
	if len(body) > 0 {
		if utf8.Valid(body) {
			ret.Body = string(body)
		} else {
			ret.Body = base64.StdEncoding.EncodeToString(body)
			ret.IsBase64Encoded = true
		}
	}
	return ret, nil
}

func asHeaderMap(header http.Header) map[string]string {
	result := map[string]string{}
	for aKey, values := range header {
		if len(values) == 0 {
			continue
		}
		result[aKey] = values[0]
	}
	return result
}

func asSingleValues(parameters url.Values) map[string]string {
	result := map[string]string{}
	for key, values := range parameters {
		if len(values) == 0 {
			continue
		}
		result[key] = values[0]
	}
	return result
}
