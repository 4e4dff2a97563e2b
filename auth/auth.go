package auth

import "context"

//Result represents authorization outcome
type Result int

const (
	//Denied means the address holds no proof
	Denied Result = iota
	//Authorized means the address holds at least one proof
	Authorized
)

func (r Result) String() string {
	if r == Authorized {
		return "Authorized"
	}
	return "Denied"
}

//Authorizer verifies caller address
type Authorizer interface {
	Authorize(ctx context.Context, address string) (Result, error)
}

//AuthorizerFunc adapts function to Authorizer
type AuthorizerFunc func(ctx context.Context, address string) (Result, error)

//Authorize calls fn
func (f AuthorizerFunc) Authorize(ctx context.Context, address string) (Result, error) {
	return f(ctx, address)
}
