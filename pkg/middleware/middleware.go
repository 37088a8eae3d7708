// Package middleware holds HTTP middlewares shared across services.
package middleware

import "net/http"

type Middleware func(next http.Handler) http.Handler
