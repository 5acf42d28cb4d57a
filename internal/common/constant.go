package common

// AuthorizationHeaderName is the HTTP header used to carry the bearer token
// on outbound authenticated requests.
const AuthorizationHeaderName = "Authorization"

// IdempotencyKeyHeaderName is the HTTP header carrying the client-generated
// idempotency key on sign-up, so retried submissions do not create duplicate
// accounts.
const IdempotencyKeyHeaderName = "Idempotency-Key"
