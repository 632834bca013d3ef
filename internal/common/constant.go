package common

// AuthorizationHeaderName is the HTTP header carrying the bearer token.
const AuthorizationHeaderName = "Authorization"

// BearerScheme is the only authorization scheme accepted by the server.
const BearerScheme = "Bearer"

// RequestIDHeaderName is echoed back on every response.
const RequestIDHeaderName = "X-Request-ID"
