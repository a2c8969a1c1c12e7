package dto

// ListQuery parámetros comunes de los listados (?page=&limit=&search=&activo=).
type ListQuery struct {
	Page   int    `query:"page"`
	Limit  int    `query:"limit"`
	Search string `query:"search"`
	Activo *bool  `query:"activo"`
}

// ListResponse envoltorio de todo listado paginado.
type ListResponse[T any] struct {
	Items []T `json:"items"`
	Total int `json:"total"`
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Message    string `json:"message"`
	StatusCode int    `json:"statusCode"`
	Error      string `json:"error"`
}
