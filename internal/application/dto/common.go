package dto

// ErrorResponse cuerpo de error para salidas del comando.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
