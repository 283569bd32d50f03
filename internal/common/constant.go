package common

import "time"

// AuthorizationHeaderName is the HTTP header and gRPC metadata key carrying
// the bearer token.
const AuthorizationHeaderName = "authorization"

// BearerPrefix precedes the token inside the authorization value.
const BearerPrefix = "Bearer "

// DefaultTokenValidity is how long an issued session token stays valid.
const DefaultTokenValidity = 3 * 24 * time.Hour
