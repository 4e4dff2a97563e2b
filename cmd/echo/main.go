package main

import (
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/viant/lambdagate/backend/echo"
)

func main() {
	lambda.Start(echo.Handle)
}
