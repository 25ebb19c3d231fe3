// Package httputil centralizes JSON request decoding and response writing
// for the HTTP layer. Handlers go through these helpers rather than calling
// http.ResponseWriter directly, so every endpoint emits the same envelope
// and error shape.
package httputil
